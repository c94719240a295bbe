package controllers

import (
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

// VerificationController handles merchant verification reports:
// submission, the approve/reject decisions and resubmission.
type VerificationController struct {
	DB       *mongo.Client
	engine   *services.WorkflowEngine
	hub      *websocket.Hub
	validate *validator.Validate
	logger   *log.Logger
}

func NewVerificationController(db *mongo.Client, engine *services.WorkflowEngine, hub *websocket.Hub) *VerificationController {
	return &VerificationController{
		DB:       db,
		engine:   engine,
		hub:      hub,
		validate: validator.New(),
		logger:   log.New(os.Stdout, "[VERIFY] ", log.LstdFlags),
	}
}

func (ctrl *VerificationController) bindRequest(c echo.Context) (*models.VerificationReportRequest, error) {
	var req models.VerificationReportRequest
	if err := c.Bind(&req); err != nil {
		return nil, err
	}
	if err := ctrl.validate.Struct(&req); err != nil {
		return nil, err
	}
	req.ShopName = utils.SanitizeInput(req.ShopName)
	req.OwnerName = utils.SanitizeInput(req.OwnerName)
	req.Address = utils.SanitizeInput(req.Address)
	return &req, nil
}

// CreateVerificationReport files a new pending verification for the
// acting BDE.
func (ctrl *VerificationController) CreateVerificationReport(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	req, err := ctrl.bindRequest(c)
	if err != nil {
		return respondBadRequest(c, "Shop name, owner name and address are required")
	}

	report, err := ctrl.engine.CreateVerificationReport(c.Request().Context(), actor, *req)
	if err != nil {
		return respondError(c, err)
	}

	ctrl.hub.NotifyReportSubmitted(actor.ID, report)

	return respondCreated(c, "Verification report submitted", report)
}

// ListVerificationReports returns the reports of every BDE the caller
// can see.
func (ctrl *VerificationController) ListVerificationReports(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	reports, err := ctrl.engine.ListVisibleVerificationReports(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Verification reports retrieved", reports)
}

// ListPendingVerificationReports returns the approval queue. Admin only.
func (ctrl *VerificationController) ListPendingVerificationReports(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	reports, err := ctrl.engine.ListPendingVerificationReports(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Pending verification reports retrieved", reports)
}

// ApproveVerificationReport approves a pending verification and
// notifies the authoring BDE.
func (ctrl *VerificationController) ApproveVerificationReport(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	reportID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid report ID format")
	}

	report, err := ctrl.engine.ApproveVerificationReport(c.Request().Context(), actor, reportID)
	if err != nil {
		return respondError(c, err)
	}

	ctrl.notifyDecision(report, websocket.EventReportApproved, "approved", "")

	return respondOK(c, "Verification report approved", report)
}

// RejectVerificationReport rejects a pending verification with a
// mandatory reason and notifies the authoring BDE.
func (ctrl *VerificationController) RejectVerificationReport(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	reportID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid report ID format")
	}

	var req models.RejectReportRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := ctrl.validate.Struct(&req); err != nil {
		return respondBadRequest(c, "Rejection reason is required")
	}

	report, err := ctrl.engine.RejectVerificationReport(c.Request().Context(), actor, reportID, req.Reason)
	if err != nil {
		return respondError(c, err)
	}

	ctrl.notifyDecision(report, websocket.EventReportRejected, "rejected", report.RejectionReason)

	return respondOK(c, "Verification report rejected", report)
}

// ResubmitVerificationReport files a corrected replacement for a
// rejected verification.
func (ctrl *VerificationController) ResubmitVerificationReport(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	reportID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid report ID format")
	}

	req, err := ctrl.bindRequest(c)
	if err != nil {
		return respondBadRequest(c, "Shop name, owner name and address are required")
	}

	report, err := ctrl.engine.ResubmitVerificationReport(c.Request().Context(), actor, reportID, *req)
	if err != nil {
		return respondError(c, err)
	}

	ctrl.hub.NotifyReportSubmitted(actor.ID, report)

	return respondCreated(c, "Verification report resubmitted", report)
}

func (ctrl *VerificationController) notifyDecision(report *models.VerificationReport, eventType, decision, reason string) {
	if err := ctrl.hub.NotifyReportDecision(report.BDEID, eventType, report); err != nil {
		ctrl.logger.Printf("BDE %s not connected for decision push: %v", report.BDEID.Hex(), err)
	}
	go func(bdeID primitive.ObjectID) {
		if err := utils.NotifyReportDecision(ctrl.DB, bdeID, "verification", decision, reason); err != nil {
			ctrl.logger.Printf("Failed to notify BDE %s: %v", bdeID.Hex(), err)
		}
	}(report.BDEID)
}
