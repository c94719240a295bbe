package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MHaddad/fieldtrack_backend/middleware"
	"github.com/MHaddad/fieldtrack_backend/models"
)

// RegisterAdminRoutes sets up the admin-only surface: employee
// registration, hierarchy assignment, the product catalog and the
// approval queues.
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, ctrls Controllers) {
	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.Use(middleware.ActivityTracker(db))

	// Employee management
	admin.POST("/employees", ctrls.Admin.CreateEmployee)
	admin.GET("/employees", ctrls.Admin.ListEmployeesByRole)
	admin.GET("/employees/:id", ctrls.Admin.GetEmployee)
	admin.PUT("/employees/:id", ctrls.Admin.UpdateEmployee)
	admin.DELETE("/employees/:id", ctrls.Admin.DeactivateEmployee)

	// Hierarchy assignment
	admin.PUT("/employees/:id/manager", ctrls.Admin.AssignToManager)
	admin.PUT("/employees/:id/bdm", ctrls.Admin.AssignToBDM)
	admin.DELETE("/employees/:id/assignment", ctrls.Admin.RemoveAssignment)

	// Product catalog
	admin.POST("/products", ctrls.Product.CreateProduct)
	admin.PUT("/products/:id", ctrls.Product.UpdateProduct)
	admin.DELETE("/products/:id", ctrls.Product.DeleteProduct)

	// Approval queues and decisions
	admin.GET("/sales-reports/pending", ctrls.Sales.ListPendingSalesReports)
	admin.PUT("/sales-reports/:id/approve", ctrls.Sales.ApproveSalesReport)
	admin.GET("/verification-reports/pending", ctrls.Verification.ListPendingVerificationReports)
	admin.PUT("/verification-reports/:id/approve", ctrls.Verification.ApproveVerificationReport)
	admin.PUT("/verification-reports/:id/reject", ctrls.Verification.RejectVerificationReport)

	// Attendance dashboard
	admin.GET("/attendance/dashboard", ctrls.Attendance.GetDashboard)
}
