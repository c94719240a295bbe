package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MHaddad/fieldtrack_backend/middleware"
	"github.com/MHaddad/fieldtrack_backend/models"
)

// RegisterBDERoutes sets up the report submission surface for BDEs.
func RegisterBDERoutes(e *echo.Echo, db *mongo.Client, ctrls Controllers) {
	bde := e.Group("/api/bde")
	bde.Use(middleware.JWTMiddleware())
	bde.Use(middleware.RequireRole(models.RoleBDE))
	bde.Use(middleware.ActivityTracker(db))

	bde.POST("/sales-reports", ctrls.Sales.CreateSalesReport)
	bde.POST("/verification-reports", ctrls.Verification.CreateVerificationReport)
	bde.POST("/verification-reports/:id/resubmit", ctrls.Verification.ResubmitVerificationReport)
}
