package controllers

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MHaddad/fieldtrack_backend/models"
	"github.com/MHaddad/fieldtrack_backend/services"
	"github.com/MHaddad/fieldtrack_backend/utils"
	"github.com/MHaddad/fieldtrack_backend/websocket"
)

// SalesReportController handles sales report submission, approval and
// the points aggregates.
type SalesReportController struct {
	DB       *mongo.Client
	engine   *services.WorkflowEngine
	hub      *websocket.Hub
	validate *validator.Validate
	logger   *log.Logger
}

func NewSalesReportController(db *mongo.Client, engine *services.WorkflowEngine, hub *websocket.Hub) *SalesReportController {
	return &SalesReportController{
		DB:       db,
		engine:   engine,
		hub:      hub,
		validate: validator.New(),
		logger:   log.New(os.Stdout, "[SALES] ", log.LstdFlags),
	}
}

// CreateSalesReport files a new pending sales report for the acting BDE.
func (ctrl *SalesReportController) CreateSalesReport(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	var req models.SalesReportRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := ctrl.validate.Struct(&req); err != nil {
		return respondBadRequest(c, "Product and customer name are required")
	}
	req.CustomerName = utils.SanitizeInput(req.CustomerName)

	report, err := ctrl.engine.CreateSalesReport(c.Request().Context(), actor, req)
	if err != nil {
		return respondError(c, err)
	}

	ctrl.hub.NotifyReportSubmitted(actor.ID, report)

	return respondCreated(c, "Sales report submitted", report)
}

// ListSalesReports returns the reports of every BDE the caller can see.
func (ctrl *SalesReportController) ListSalesReports(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	reports, err := ctrl.engine.ListVisibleSalesReports(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Sales reports retrieved", reports)
}

// ListPendingSalesReports returns the approval queue. Admin only.
func (ctrl *SalesReportController) ListPendingSalesReports(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	reports, err := ctrl.engine.ListPendingSalesReports(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Pending sales reports retrieved", reports)
}

// ApproveSalesReport approves a pending sales report and notifies the
// authoring BDE.
func (ctrl *SalesReportController) ApproveSalesReport(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	reportID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid report ID format")
	}

	report, err := ctrl.engine.ApproveSalesReport(c.Request().Context(), actor, reportID)
	if err != nil {
		return respondError(c, err)
	}

	if err := ctrl.hub.NotifyReportDecision(report.BDEID, websocket.EventReportApproved, report); err != nil {
		ctrl.logger.Printf("BDE %s not connected for approval push: %v", report.BDEID.Hex(), err)
	}
	go func(bdeID primitive.ObjectID) {
		if err := utils.NotifyReportDecision(ctrl.DB, bdeID, "sales", "approved", ""); err != nil {
			ctrl.logger.Printf("Failed to notify BDE %s: %v", bdeID.Hex(), err)
		}
	}(report.BDEID)

	return respondOK(c, "Sales report approved", report)
}

// GetPointsToday returns today's approved point total. An optional
// bdeId query parameter narrows the total to one visible BDE.
func (ctrl *SalesReportController) GetPointsToday(c echo.Context) error {
	return ctrl.getPoints(c, ctrl.engine.ApprovedPointsToday)
}

// GetPointsThisMonth is the calendar-month counterpart of GetPointsToday.
func (ctrl *SalesReportController) GetPointsThisMonth(c echo.Context) error {
	return ctrl.getPoints(c, ctrl.engine.ApprovedPointsThisMonth)
}

func (ctrl *SalesReportController) getPoints(c echo.Context, sum func(ctx context.Context, actor models.Actor, bdeID *primitive.ObjectID) (int, error)) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	var bdeID *primitive.ObjectID
	if hex := c.QueryParam("bdeId"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return respondBadRequest(c, "Invalid BDE ID format")
		}
		bdeID = &id
	}

	total, err := sum(c.Request().Context(), actor, bdeID)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Points retrieved", map[string]int{"points": total})
}
