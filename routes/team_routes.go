package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MHaddad/fieldtrack_backend/middleware"
)

// RegisterTeamRoutes sets up the visibility-scoped directory and
// report listings available to every authenticated employee.
func RegisterTeamRoutes(e *echo.Echo, db *mongo.Client, ctrls Controllers) {
	team := e.Group("/api/team")
	team.Use(middleware.JWTMiddleware())
	team.Use(middleware.ActivityTracker(db))

	team.GET("/employees", ctrls.Employee.ListVisibleEmployees)
	team.GET("/employees/:id", ctrls.Employee.GetEmployee)
	team.PUT("/profile", ctrls.Employee.UpdateProfile)

	team.GET("/products", ctrls.Product.ListProducts)

	team.GET("/sales-reports", ctrls.Sales.ListSalesReports)
	team.GET("/verification-reports", ctrls.Verification.ListVerificationReports)

	team.GET("/points/today", ctrls.Sales.GetPointsToday)
	team.GET("/points/month", ctrls.Sales.GetPointsThisMonth)
}
