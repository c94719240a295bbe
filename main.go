package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MHaddad/fieldtrack_backend/config"
	"github.com/MHaddad/fieldtrack_backend/controllers"
	"github.com/MHaddad/fieldtrack_backend/middleware"
	"github.com/MHaddad/fieldtrack_backend/models"
	"github.com/MHaddad/fieldtrack_backend/repositories"
	"github.com/MHaddad/fieldtrack_backend/routes"
	"github.com/MHaddad/fieldtrack_backend/security"
	"github.com/MHaddad/fieldtrack_backend/services"
	"github.com/MHaddad/fieldtrack_backend/utils"
	"github.com/MHaddad/fieldtrack_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Initialize Firebase
	config.InitFirebase()

	// Connect to Redis
	redisClient := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "fieldtrack"
	}
	db := client.Database(dbName)

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repositories
	employeeRepo := repositories.NewEmployeeRepository(db)
	productRepo := repositories.NewProductRepository(db)
	salesRepo := repositories.NewSalesReportRepository(db)
	verificationRepo := repositories.NewVerificationReportRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)

	// Services
	resolver := services.NewVisibilityResolver(employeeRepo)
	assignments := services.NewAssignmentService(employeeRepo)
	pointsCache := services.NewPointsCache(redisClient)
	engine := services.NewWorkflowEngine(salesRepo, verificationRepo, productRepo, resolver, pointsCache)
	attendance := services.NewAttendanceService(attendanceRepo, employeeRepo)

	// Controllers
	ctrls := routes.Controllers{
		Auth:         controllers.NewAuthController(client, employeeRepo, attendance, wsHub),
		Admin:        controllers.NewAdminController(client, employeeRepo, assignments),
		Employee:     controllers.NewEmployeeController(client, employeeRepo, resolver),
		Product:      controllers.NewProductController(client, productRepo),
		Sales:        controllers.NewSalesReportController(client, engine, wsHub),
		Verification: controllers.NewVerificationController(client, engine, wsHub),
		Attendance:   controllers.NewAttendanceController(client, attendance, resolver, wsHub),
	}

	seedAdmin(client, employeeRepo)

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders())
	e.Use(security.ValidateContentType())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "FieldTrack Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	routes.SetupRoutes(e, client, ctrls)

	// Clean up expired blacklisted tokens in the background
	go middleware.CleanupBlacklist()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

// seedAdmin bootstraps the first admin account from the environment.
// Without it a fresh deployment has no one who can create employees.
func seedAdmin(client *mongo.Client, employees repositories.EmployeeRepository) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	existing, err := employees.FindByEmail(ctx, email)
	if err != nil {
		log.Printf("Admin seed lookup failed: %v", err)
		return
	}
	if existing != nil {
		return
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Admin seed password hashing failed: %v", err)
		return
	}

	now := time.Now()
	admin := models.Employee{
		FullName:     "Administrator",
		EmployeeCode: utils.GenerateEmployeeCode(models.RoleAdmin),
		Email:        email,
		Password:     hashed,
		Role:         models.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := employees.Insert(ctx, &admin); err != nil {
		log.Printf("Admin seed insert failed: %v", err)
		return
	}
	log.Printf("Seeded admin account %s", email)
}
