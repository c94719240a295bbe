package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MHaddad/fieldtrack_backend/middleware"
)

// RegisterAttendanceRoutes sets up daily attendance tracking and the
// live event stream.
func RegisterAttendanceRoutes(e *echo.Echo, db *mongo.Client, ctrls Controllers) {
	attendance := e.Group("/api/attendance")
	attendance.Use(middleware.JWTMiddleware())
	attendance.Use(middleware.ActivityTracker(db))

	attendance.POST("/login", ctrls.Attendance.RecordLogin)
	attendance.POST("/logout", ctrls.Attendance.RecordLogout)
	attendance.GET("/status", ctrls.Attendance.GetMyStatus)
	attendance.GET("/status/:id", ctrls.Attendance.GetEmployeeStatus)

	// Live events for the dashboard
	attendance.GET("/ws", ctrls.Attendance.HandleWebSocket)
}
