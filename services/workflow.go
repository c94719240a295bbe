package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MHaddad/fieldtrack_backend/apperrors"
	"github.com/MHaddad/fieldtrack_backend/models"
	"github.com/MHaddad/fieldtrack_backend/repositories"
)

// WorkflowEngine runs the approval state machines for sales and
// verification reports. Reads are filtered through the visibility
// resolver; writes enforce the role and status preconditions.
type WorkflowEngine struct {
	sales         repositories.SalesReportRepository
	verifications repositories.VerificationReportRepository
	products      repositories.ProductRepository
	resolver      *VisibilityResolver
	cache         *PointsCache
}

func NewWorkflowEngine(
	sales repositories.SalesReportRepository,
	verifications repositories.VerificationReportRepository,
	products repositories.ProductRepository,
	resolver *VisibilityResolver,
	cache *PointsCache,
) *WorkflowEngine {
	return &WorkflowEngine{
		sales:         sales,
		verifications: verifications,
		products:      products,
		resolver:      resolver,
		cache:         cache,
	}
}

// CreateSalesReport files a new pending sales report authored by the
// acting BDE. The product's point value is snapshotted here; later
// product edits never change it.
func (e *WorkflowEngine) CreateSalesReport(ctx context.Context, actor models.Actor, req models.SalesReportRequest) (*models.SalesReport, error) {
	if actor.Role != models.RoleBDE {
		return nil, apperrors.New(apperrors.KindUnauthorized, "only BDEs can submit sales reports")
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return nil, apperrors.New(apperrors.KindValidation, "invalid product ID format")
	}

	product, err := e.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.New(apperrors.KindProductNotFound, "product not found")
	}

	now := time.Now()
	report := &models.SalesReport{
		BDEID:          actor.ID,
		ProductID:      productID,
		CustomerName:   req.CustomerName,
		CustomerMobile: req.CustomerMobile,
		Amount:         req.Amount,
		Points:         product.Points,
		Status:         models.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	id, err := e.sales.Insert(ctx, report)
	if err != nil {
		return nil, err
	}
	report.ID = id
	return report, nil
}

// ApproveSalesReport transitions a pending sales report to approved.
// Approved is terminal for sales reports.
func (e *WorkflowEngine) ApproveSalesReport(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.SalesReport, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.New(apperrors.KindUnauthorized, "only admins can approve reports")
	}

	now := time.Now()
	ok, err := e.sales.Approve(ctx, id, actor.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		existing, err := e.sales.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apperrors.New(apperrors.KindNotFound, "sales report not found")
		}
		return nil, apperrors.New(apperrors.KindNotPending, "sales report is not pending")
	}

	report, err := e.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "sales report not found")
	}
	e.cache.InvalidateBDE(ctx, report.BDEID, report.CreatedAt)
	return report, nil
}

// CreateVerificationReport files a new pending merchant verification
// authored by the acting BDE.
func (e *WorkflowEngine) CreateVerificationReport(ctx context.Context, actor models.Actor, req models.VerificationReportRequest) (*models.VerificationReport, error) {
	if actor.Role != models.RoleBDE {
		return nil, apperrors.New(apperrors.KindUnauthorized, "only BDEs can submit verification reports")
	}
	return e.insertVerification(ctx, actor.ID, req, nil)
}

func (e *WorkflowEngine) insertVerification(ctx context.Context, bdeID primitive.ObjectID, req models.VerificationReportRequest, resubmissionOf *primitive.ObjectID) (*models.VerificationReport, error) {
	now := time.Now()
	report := &models.VerificationReport{
		BDEID:          bdeID,
		ShopName:       req.ShopName,
		OwnerName:      req.OwnerName,
		Address:        req.Address,
		PhoneNumber:    req.PhoneNumber,
		Status:         models.StatusPending,
		ResubmissionOf: resubmissionOf,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	id, err := e.verifications.Insert(ctx, report)
	if err != nil {
		return nil, err
	}
	report.ID = id
	return report, nil
}

func (e *WorkflowEngine) ApproveVerificationReport(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.VerificationReport, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.New(apperrors.KindUnauthorized, "only admins can approve reports")
	}

	ok, err := e.verifications.Approve(ctx, id, actor.ID, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		existing, err := e.verifications.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apperrors.New(apperrors.KindNotFound, "verification report not found")
		}
		return nil, apperrors.New(apperrors.KindNotPending, "verification report is not pending")
	}

	report, err := e.verifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "verification report not found")
	}
	return report, nil
}

// RejectVerificationReport transitions a pending verification to
// rejected. The reason is mandatory; the rejected record stays in the
// store as history and can be superseded by a resubmission.
func (e *WorkflowEngine) RejectVerificationReport(ctx context.Context, actor models.Actor, id primitive.ObjectID, reason string) (*models.VerificationReport, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.New(apperrors.KindUnauthorized, "only admins can reject reports")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.New(apperrors.KindValidation, "rejection reason is required")
	}

	ok, err := e.verifications.Reject(ctx, id, actor.ID, reason, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		existing, err := e.verifications.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apperrors.New(apperrors.KindNotFound, "verification report not found")
		}
		return nil, apperrors.New(apperrors.KindNotPending, "verification report is not pending")
	}

	report, err := e.verifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "verification report not found")
	}
	return report, nil
}

// ResubmitVerificationReport files a full replacement of a rejected
// verification as a brand-new pending record. The rejected original
// is never mutated.
func (e *WorkflowEngine) ResubmitVerificationReport(ctx context.Context, actor models.Actor, id primitive.ObjectID, req models.VerificationReportRequest) (*models.VerificationReport, error) {
	if actor.Role != models.RoleBDE {
		return nil, apperrors.New(apperrors.KindUnauthorized, "only BDEs can resubmit verification reports")
	}

	original, err := e.verifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "verification report not found")
	}
	if original.BDEID != actor.ID {
		return nil, apperrors.New(apperrors.KindNotOwner, "report belongs to another BDE")
	}
	if original.Status != models.StatusRejected {
		return nil, apperrors.New(apperrors.KindNotRejected, "only rejected reports can be resubmitted")
	}

	return e.insertVerification(ctx, actor.ID, req, &original.ID)
}

// ListPendingSalesReports returns every pending sales report. Admin only.
func (e *WorkflowEngine) ListPendingSalesReports(ctx context.Context, actor models.Actor) ([]models.SalesReport, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.New(apperrors.KindUnauthorized, "only admins can list pending reports")
	}
	return e.sales.FindPending(ctx)
}

func (e *WorkflowEngine) ListPendingVerificationReports(ctx context.Context, actor models.Actor) ([]models.VerificationReport, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.New(apperrors.KindUnauthorized, "only admins can list pending reports")
	}
	return e.verifications.FindPending(ctx)
}

// ListVisibleSalesReports returns the sales reports authored by BDEs
// inside the actor's visibility closure.
func (e *WorkflowEngine) ListVisibleSalesReports(ctx context.Context, actor models.Actor) ([]models.SalesReport, error) {
	visible, err := e.resolver.VisibleEmployeeIDs(ctx, actor)
	if err != nil {
		return nil, err
	}
	return e.sales.FindByBDEIDs(ctx, visible.IDs())
}

func (e *WorkflowEngine) ListVisibleVerificationReports(ctx context.Context, actor models.Actor) ([]models.VerificationReport, error) {
	visible, err := e.resolver.VisibleEmployeeIDs(ctx, actor)
	if err != nil {
		return nil, err
	}
	return e.verifications.FindByBDEIDs(ctx, visible.IDs())
}

// ApprovedPointsToday sums the points of approved sales reports
// created today, scoped to one BDE when bdeID is given (the BDE must
// be visible to the actor) or to the actor's whole closure otherwise.
func (e *WorkflowEngine) ApprovedPointsToday(ctx context.Context, actor models.Actor, bdeID *primitive.ObjectID) (int, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	var cacheKey string
	if bdeID != nil {
		cacheKey = dayPointsKey(now.Format("2006-01-02"), *bdeID)
	}
	return e.approvedPoints(ctx, actor, from, to, bdeID, cacheKey)
}

// ApprovedPointsThisMonth is the calendar-month counterpart of
// ApprovedPointsToday.
func (e *WorkflowEngine) ApprovedPointsThisMonth(ctx context.Context, actor models.Actor, bdeID *primitive.ObjectID) (int, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	var cacheKey string
	if bdeID != nil {
		cacheKey = monthPointsKey(now.Format("2006-01"), *bdeID)
	}
	return e.approvedPoints(ctx, actor, from, to, bdeID, cacheKey)
}

func (e *WorkflowEngine) approvedPoints(ctx context.Context, actor models.Actor, from, to time.Time, bdeID *primitive.ObjectID, cacheKey string) (int, error) {
	visible, err := e.resolver.VisibleEmployeeIDs(ctx, actor)
	if err != nil {
		return 0, err
	}

	scope := visible.IDs()
	if bdeID != nil {
		if !visible.Contains(*bdeID) {
			return 0, apperrors.New(apperrors.KindForbidden, "BDE is outside your branch")
		}
		if total, ok := e.cache.Get(ctx, cacheKey); ok {
			return total, nil
		}
		scope = []primitive.ObjectID{*bdeID}
	}

	total, err := e.sales.SumApprovedPoints(ctx, from, to, scope)
	if err != nil {
		return 0, err
	}
	if bdeID != nil {
		e.cache.Set(ctx, cacheKey, total)
	}
	return total, nil
}
