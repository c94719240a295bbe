package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MHaddad/fieldtrack_backend/apperrors"
	"github.com/MHaddad/fieldtrack_backend/models"
	"github.com/MHaddad/fieldtrack_backend/repositories"
)

type workflowFixture struct {
	*hierarchyFixture

	sales         *repositories.MemorySalesReportRepository
	verifications *repositories.MemoryVerificationReportRepository
	products      *repositories.MemoryProductRepository
	engine        *WorkflowEngine

	posProduct models.Product
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	f := &workflowFixture{
		hierarchyFixture: newHierarchyFixture(t),
		sales:            repositories.NewMemorySalesReportRepository(),
		verifications:    repositories.NewMemoryVerificationReportRepository(),
		products:         repositories.NewMemoryProductRepository(),
	}
	f.engine = NewWorkflowEngine(f.sales, f.verifications, f.products, f.resolver, NewPointsCache(nil))

	f.posProduct = models.Product{Name: "POS Terminal", Points: 10, IsActive: true}
	id, err := f.products.Insert(context.Background(), &f.posProduct)
	require.NoError(t, err)
	f.posProduct.ID = id
	return f
}

func (f *workflowFixture) salesRequest() models.SalesReportRequest {
	return models.SalesReportRequest{
		ProductID:      f.posProduct.ID.Hex(),
		CustomerName:   "Corner Market",
		CustomerMobile: "70123456",
		Amount:         149.99,
	}
}

func verificationRequest(shop string) models.VerificationReportRequest {
	return models.VerificationReportRequest{
		ShopName:    shop,
		OwnerName:   "S. Khoury",
		Address:     "Main St 4",
		PhoneNumber: "70987654",
	}
}

func TestCreateSalesReportSnapshotsPoints(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	report, err := f.engine.CreateSalesReport(ctx, f.actor(f.bde1), f.salesRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, report.Status)
	assert.Equal(t, 10, report.Points)
	assert.Equal(t, f.bde1.ID, report.BDEID)

	// Raising the product's value later must not touch the snapshot.
	require.NoError(t, f.products.Update(ctx, f.posProduct.ID, models.ProductRequest{Name: "POS Terminal", Points: 50}))
	stored, err := f.sales.FindByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Points)
}

func TestCreateSalesReportRejectsNonBDE(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.engine.CreateSalesReport(context.Background(), f.actor(f.manager1), f.salesRequest())
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestCreateSalesReportUnknownProduct(t *testing.T) {
	f := newWorkflowFixture(t)

	req := f.salesRequest()
	req.ProductID = primitive.NewObjectID().Hex()
	_, err := f.engine.CreateSalesReport(context.Background(), f.actor(f.bde1), req)
	assert.True(t, apperrors.IsKind(err, apperrors.KindProductNotFound))
}

func TestApproveSalesReport(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	report, err := f.engine.CreateSalesReport(ctx, f.actor(f.bde1), f.salesRequest())
	require.NoError(t, err)

	approved, err := f.engine.ApproveSalesReport(ctx, f.actor(f.admin), report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, f.admin.ID, *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)

	// Approved is terminal.
	_, err = f.engine.ApproveSalesReport(ctx, f.actor(f.admin), report.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotPending))
}

func TestApproveSalesReportAuthorization(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	report, err := f.engine.CreateSalesReport(ctx, f.actor(f.bde1), f.salesRequest())
	require.NoError(t, err)

	_, err = f.engine.ApproveSalesReport(ctx, f.actor(f.manager1), report.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))

	_, err = f.engine.ApproveSalesReport(ctx, f.actor(f.admin), primitive.NewObjectID())
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestRejectVerificationReportRequiresReason(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	report, err := f.engine.CreateVerificationReport(ctx, f.actor(f.bde1), verificationRequest("Corner Market"))
	require.NoError(t, err)

	_, err = f.engine.RejectVerificationReport(ctx, f.actor(f.admin), report.ID, "   ")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	rejected, err := f.engine.RejectVerificationReport(ctx, f.actor(f.admin), report.ID, "address incomplete")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, "address incomplete", rejected.RejectionReason)
	require.NotNil(t, rejected.RejectedBy)
	assert.Equal(t, f.admin.ID, *rejected.RejectedBy)
}

func TestVerificationApproveThenRejectConflicts(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	report, err := f.engine.CreateVerificationReport(ctx, f.actor(f.bde1), verificationRequest("Corner Market"))
	require.NoError(t, err)

	_, err = f.engine.ApproveVerificationReport(ctx, f.actor(f.admin), report.ID)
	require.NoError(t, err)

	_, err = f.engine.RejectVerificationReport(ctx, f.actor(f.admin), report.ID, "too late")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotPending))
}

func TestResubmitVerificationReport(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	original, err := f.engine.CreateVerificationReport(ctx, f.actor(f.bde1), verificationRequest("Corner Market"))
	require.NoError(t, err)

	// Pending reports cannot be resubmitted.
	_, err = f.engine.ResubmitVerificationReport(ctx, f.actor(f.bde1), original.ID, verificationRequest("Corner Market v2"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotRejected))

	_, err = f.engine.RejectVerificationReport(ctx, f.actor(f.admin), original.ID, "photo missing")
	require.NoError(t, err)

	// Only the author may resubmit.
	_, err = f.engine.ResubmitVerificationReport(ctx, f.actor(f.bde3), original.ID, verificationRequest("Corner Market v2"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotOwner))

	resubmitted, err := f.engine.ResubmitVerificationReport(ctx, f.actor(f.bde1), original.ID, verificationRequest("Corner Market v2"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, resubmitted.Status)
	assert.NotEqual(t, original.ID, resubmitted.ID)
	require.NotNil(t, resubmitted.ResubmissionOf)
	assert.Equal(t, original.ID, *resubmitted.ResubmissionOf)

	// The rejected original survives untouched.
	stored, err := f.verifications.FindByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, stored.Status)
}

func TestListVisibleSalesReportsScoping(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	fromBDE1, err := f.engine.CreateSalesReport(ctx, f.actor(f.bde1), f.salesRequest())
	require.NoError(t, err)
	_, err = f.engine.CreateSalesReport(ctx, f.actor(f.bde3), f.salesRequest())
	require.NoError(t, err)

	reports, err := f.engine.ListVisibleSalesReports(ctx, f.actor(f.manager1))
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, fromBDE1.ID, reports[0].ID)

	all, err := f.engine.ListVisibleSalesReports(ctx, f.actor(f.admin))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListPendingIsAdminOnly(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	_, err := f.engine.ListPendingSalesReports(ctx, f.actor(f.manager1))
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))

	_, err = f.engine.ListPendingVerificationReports(ctx, f.actor(f.bdm1))
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestApprovedPointsCountApprovedOnly(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	first, err := f.engine.CreateSalesReport(ctx, f.actor(f.bde1), f.salesRequest())
	require.NoError(t, err)
	_, err = f.engine.CreateSalesReport(ctx, f.actor(f.bde1), f.salesRequest())
	require.NoError(t, err)

	_, err = f.engine.ApproveSalesReport(ctx, f.actor(f.admin), first.ID)
	require.NoError(t, err)

	today, err := f.engine.ApprovedPointsToday(ctx, f.actor(f.bde1), &f.bde1.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, today, "pending reports earn nothing")

	month, err := f.engine.ApprovedPointsThisMonth(ctx, f.actor(f.manager1), nil)
	require.NoError(t, err)
	assert.Equal(t, 10, month)
}

func TestApprovedPointsExcludesOtherBranches(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	report, err := f.engine.CreateSalesReport(ctx, f.actor(f.bde3), f.salesRequest())
	require.NoError(t, err)
	_, err = f.engine.ApproveSalesReport(ctx, f.actor(f.admin), report.ID)
	require.NoError(t, err)

	today, err := f.engine.ApprovedPointsToday(ctx, f.actor(f.manager1), nil)
	require.NoError(t, err)
	assert.Zero(t, today)

	// Asking for a BDE outside the closure is forbidden outright.
	_, err = f.engine.ApprovedPointsToday(ctx, f.actor(f.manager1), &f.bde3.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestApprovedPointsWindowExcludesPastMonths(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	old := models.SalesReport{
		BDEID:     f.bde1.ID,
		ProductID: f.posProduct.ID,
		Points:    10,
		Status:    models.StatusApproved,
		CreatedAt: time.Now().AddDate(0, -2, 0),
	}
	_, err := f.sales.Insert(ctx, &old)
	require.NoError(t, err)

	month, err := f.engine.ApprovedPointsThisMonth(ctx, f.actor(f.bde1), &f.bde1.ID)
	require.NoError(t, err)
	assert.Zero(t, month)
}

// goneSalesRepository drops the row from reads once a transition
// landed, standing in for a concurrent hard delete.
type goneSalesRepository struct {
	*repositories.MemorySalesReportRepository
	gone bool
}

func (r *goneSalesRepository) Approve(ctx context.Context, id, approvedBy primitive.ObjectID, at time.Time) (bool, error) {
	ok, err := r.MemorySalesReportRepository.Approve(ctx, id, approvedBy, at)
	if ok {
		r.gone = true
	}
	return ok, err
}

func (r *goneSalesRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.SalesReport, error) {
	if r.gone {
		return nil, nil
	}
	return r.MemorySalesReportRepository.FindByID(ctx, id)
}

func TestApproveSalesReportGoneAfterTransition(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	report, err := f.engine.CreateSalesReport(ctx, f.actor(f.bde1), f.salesRequest())
	require.NoError(t, err)

	sales := &goneSalesRepository{MemorySalesReportRepository: f.sales}
	engine := NewWorkflowEngine(sales, f.verifications, f.products, f.resolver, NewPointsCache(nil))

	approved, err := engine.ApproveSalesReport(ctx, f.actor(f.admin), report.ID)
	assert.Nil(t, approved)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
