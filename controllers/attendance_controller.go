package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MHaddad/fieldtrack_backend/models"
	"github.com/MHaddad/fieldtrack_backend/services"
	"github.com/MHaddad/fieldtrack_backend/utils"
	"github.com/MHaddad/fieldtrack_backend/websocket"
)

// AttendanceController handles the daily login/logout tracking and the
// admin attendance dashboard.
type AttendanceController struct {
	DB         *mongo.Client
	attendance *services.AttendanceService
	resolver   *services.VisibilityResolver
	hub        *websocket.Hub
}

func NewAttendanceController(db *mongo.Client, attendance *services.AttendanceService, resolver *services.VisibilityResolver, hub *websocket.Hub) *AttendanceController {
	return &AttendanceController{
		DB:         db,
		attendance: attendance,
		resolver:   resolver,
		hub:        hub,
	}
}

// RecordLogin marks the caller logged in for today. Calling it again
// on the same day returns the existing record.
func (ctrl *AttendanceController) RecordLogin(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	record, err := ctrl.attendance.RecordLogin(c.Request().Context(), actor.ID)
	if err != nil {
		return respondError(c, err)
	}

	ctrl.hub.NotifyAttendance(actor.ID, websocket.EventAttendanceLogin, record)

	return respondOK(c, "Attendance login recorded", record)
}

// RecordLogout closes today's open session. Without one, the call
// succeeds with no record.
func (ctrl *AttendanceController) RecordLogout(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	record, err := ctrl.attendance.RecordLogout(c.Request().Context(), actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	if record == nil {
		return respondOK(c, "No active session to close", nil)
	}

	ctrl.hub.NotifyAttendance(actor.ID, websocket.EventAttendanceLogout, record)

	return respondOK(c, "Attendance logout recorded", record)
}

// GetMyStatus returns the caller's derived attendance status for today.
func (ctrl *AttendanceController) GetMyStatus(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	status, record, err := ctrl.attendance.StatusFor(c.Request().Context(), actor.ID)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Attendance status retrieved", map[string]interface{}{
		"status": status,
		"record": record,
	})
}

// GetEmployeeStatus returns one employee's status for today, provided
// the caller can see them.
func (ctrl *AttendanceController) GetEmployeeStatus(c echo.Context) error {
	ctx := c.Request().Context()

	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	employeeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid employee ID format")
	}

	canSee, err := ctrl.resolver.CanSee(ctx, actor, employeeID)
	if err != nil {
		return respondError(c, err)
	}
	if !canSee {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Employee is outside your branch",
		})
	}

	status, record, err := ctrl.attendance.StatusFor(ctx, employeeID)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Attendance status retrieved", map[string]interface{}{
		"status": status,
		"record": record,
	})
}

// GetDashboard returns today's status for every employee, absentees
// included. Admin only.
func (ctrl *AttendanceController) GetDashboard(c echo.Context) error {
	statuses, err := ctrl.attendance.StatusAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Attendance dashboard retrieved", statuses)
}

// HandleWebSocket upgrades the connection for live dashboard events.
func (ctrl *AttendanceController) HandleWebSocket(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	return websocket.HandleWebSocket(c, ctrl.hub, actor.ID, actor.Role)
}
