package controllers

import (
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MHaddad/fieldtrack_backend/middleware"
	"github.com/MHaddad/fieldtrack_backend/models"
	"github.com/MHaddad/fieldtrack_backend/repositories"
	"github.com/MHaddad/fieldtrack_backend/services"
	"github.com/MHaddad/fieldtrack_backend/utils"
	"github.com/MHaddad/fieldtrack_backend/websocket"
)

type loginAttempt struct {
	count       int
	lastAttempt time.Time
}

// AuthController contains authentication logic
type AuthController struct {
	DB         *mongo.Client
	employees  repositories.EmployeeRepository
	attendance *services.AttendanceService
	hub        *websocket.Hub
	validate   *validator.Validate
	logger     *log.Logger

	loginAttemptsMu sync.RWMutex
	loginAttempts   map[string]loginAttempt
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client, employees repositories.EmployeeRepository, attendance *services.AttendanceService, hub *websocket.Hub) *AuthController {
	ac := &AuthController{
		DB:            db,
		employees:     employees,
		attendance:    attendance,
		hub:           hub,
		validate:      validator.New(),
		logger:        log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
		loginAttempts: make(map[string]loginAttempt),
	}

	go ac.startLoginAttemptCleanupRoutine()

	return ac
}

// Login authenticates an employee and issues a token pair. When the
// request asks for it, today's attendance login is recorded in the
// same call.
func (ac *AuthController) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var loginReq models.LoginRequest
	if err := c.Bind(&loginReq); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := ac.validate.Struct(&loginReq); err != nil {
		return respondBadRequest(c, "Email and password are required")
	}

	email, err := utils.SanitizeEmail(loginReq.Email)
	if err != nil {
		return respondBadRequest(c, "Invalid email format")
	}

	ac.loginAttemptsMu.RLock()
	attempts, exists := ac.loginAttempts[email]
	ac.loginAttemptsMu.RUnlock()

	if exists && attempts.count >= 5 && time.Since(attempts.lastAttempt) < 30*time.Minute {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many failed login attempts. Please try again later.",
		})
	}

	employee, err := ac.employees.FindByEmail(ctx, email)
	if err != nil {
		return respondError(c, err)
	}
	if employee == nil || !employee.IsActive {
		ac.recordFailedAttempt(email, attempts, exists)
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	if err := utils.CheckPassword(loginReq.Password, employee.Password); err != nil {
		ac.recordFailedAttempt(email, attempts, exists)
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	ac.loginAttemptsMu.Lock()
	delete(ac.loginAttempts, email)
	ac.loginAttemptsMu.Unlock()

	token, refreshToken, err := middleware.GenerateJWT(employee.ID.Hex(), employee.Email, employee.Role)
	if err != nil {
		return respondError(c, err)
	}

	if loginReq.RecordAttendance {
		record, err := ac.attendance.RecordLogin(ctx, employee.ID)
		if err != nil {
			// Attendance is best-effort here: the credential check
			// already passed, so the login itself must not fail.
			ac.logger.Printf("Failed to record attendance login for %s: %v", employee.ID.Hex(), err)
		} else {
			ac.hub.NotifyAttendance(employee.ID, websocket.EventAttendanceLogin, record)
		}
	}

	employee.Password = ""

	return respondOK(c, "Login successful", models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		Employee:     employee,
	})
}

func (ac *AuthController) recordFailedAttempt(identifier string, attempts loginAttempt, exists bool) {
	ac.loginAttemptsMu.Lock()
	defer ac.loginAttemptsMu.Unlock()

	if !exists {
		ac.loginAttempts[identifier] = loginAttempt{count: 1, lastAttempt: time.Now()}
		return
	}
	ac.loginAttempts[identifier] = loginAttempt{count: attempts.count + 1, lastAttempt: time.Now()}
}

// Logout invalidates the current token and closes today's attendance
// session if one is open.
func (ac *AuthController) Logout(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	if token, ok := c.Get("user").(*jwt.Token); ok {
		expiry := time.Now().Add(24 * time.Hour)
		if claims, ok := token.Claims.(*middleware.JwtCustomClaims); ok && claims.ExpiresAt > 0 {
			expiry = time.Unix(claims.ExpiresAt, 0)
		}
		middleware.BlacklistToken(token.Raw, expiry)
	}

	record, err := ac.attendance.RecordLogout(c.Request().Context(), actor.ID)
	if err != nil {
		ac.logger.Printf("Failed to record attendance logout for %s: %v", actor.ID.Hex(), err)
	} else if record != nil {
		ac.hub.NotifyAttendance(actor.ID, websocket.EventAttendanceLogout, record)
	}

	return respondOK(c, "Logout successful", nil)
}

// RefreshToken exchanges a valid refresh token for a fresh token pair.
func (ac *AuthController) RefreshToken(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := ac.validate.Struct(&req); err != nil {
		return respondBadRequest(c, "Refresh token is required")
	}

	token, err := jwt.ParseWithClaims(req.RefreshToken, &middleware.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(middleware.GetJWTSecret()), nil
	})
	if err != nil || !token.Valid {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired refresh token",
		})
	}
	if middleware.IsTokenBlacklisted(req.RefreshToken) {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Refresh token has been invalidated",
		})
	}

	claims := token.Claims.(*middleware.JwtCustomClaims)
	newToken, newRefreshToken, err := middleware.GenerateJWT(claims.EmployeeID, claims.Email, claims.Role)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Token refreshed", map[string]string{
		"token":        newToken,
		"refreshToken": newRefreshToken,
	})
}

// GetCurrentEmployee returns the authenticated employee's own profile.
func (ac *AuthController) GetCurrentEmployee(c echo.Context) error {
	employee, err := utils.GetEmployeeFromToken(c, ac.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	return respondOK(c, "Employee retrieved", employee)
}

func (ac *AuthController) startLoginAttemptCleanupRoutine() {
	for {
		time.Sleep(30 * time.Minute)
		ac.loginAttemptsMu.Lock()
		now := time.Now()
		for identifier, attempts := range ac.loginAttempts {
			if now.Sub(attempts.lastAttempt) > 30*time.Minute {
				delete(ac.loginAttempts, identifier)
			}
		}
		ac.loginAttemptsMu.Unlock()
	}
}
