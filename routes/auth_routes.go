package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/MHaddad/fieldtrack_backend/middleware"
)

// RegisterAuthRoutes sets up authentication routes. Login and token
// refresh are public; everything else requires a valid token.
func RegisterAuthRoutes(e *echo.Echo, ctrls Controllers) {
	e.POST("/api/auth/login", ctrls.Auth.Login)
	e.POST("/api/auth/refresh-token", ctrls.Auth.RefreshToken)

	authenticated := e.Group("/api/auth")
	authenticated.Use(middleware.JWTMiddleware())
	authenticated.POST("/logout", ctrls.Auth.Logout)
	authenticated.GET("/me", ctrls.Auth.GetCurrentEmployee)
}
