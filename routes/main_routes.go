package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MHaddad/fieldtrack_backend/controllers"
)

// Controllers bundles the instantiated controllers handed to the
// route registration functions.
type Controllers struct {
	Auth         *controllers.AuthController
	Admin        *controllers.AdminController
	Employee     *controllers.EmployeeController
	Product      *controllers.ProductController
	Sales        *controllers.SalesReportController
	Verification *controllers.VerificationController
	Attendance   *controllers.AttendanceController
}

// SetupRoutes configures all API routes by calling individual route
// registration functions.
func SetupRoutes(e *echo.Echo, db *mongo.Client, ctrls Controllers) {
	RegisterAuthRoutes(e, ctrls)
	RegisterAdminRoutes(e, db, ctrls)
	RegisterTeamRoutes(e, db, ctrls)
	RegisterBDERoutes(e, db, ctrls)
	RegisterAttendanceRoutes(e, db, ctrls)
}
