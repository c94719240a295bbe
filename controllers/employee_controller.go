package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MHaddad/fieldtrack_backend/models"
	"github.com/MHaddad/fieldtrack_backend/repositories"
	"github.com/MHaddad/fieldtrack_backend/services"
	"github.com/MHaddad/fieldtrack_backend/utils"
)

// EmployeeController serves the team directory. What a caller sees is
// always scoped through the visibility resolver.
type EmployeeController struct {
	DB        *mongo.Client
	employees repositories.EmployeeRepository
	resolver  *services.VisibilityResolver
	validate  *validator.Validate
}

func NewEmployeeController(db *mongo.Client, employees repositories.EmployeeRepository, resolver *services.VisibilityResolver) *EmployeeController {
	return &EmployeeController{
		DB:        db,
		employees: employees,
		resolver:  resolver,
		validate:  validator.New(),
	}
}

// ListVisibleEmployees returns the employees inside the caller's
// visibility closure.
func (ctrl *EmployeeController) ListVisibleEmployees(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	employees, err := ctrl.resolver.VisibleEmployees(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Employees retrieved", employees)
}

// GetEmployee returns one employee, provided the caller can see them.
func (ctrl *EmployeeController) GetEmployee(c echo.Context) error {
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

	employee, err := ctrl.employees.FindByID(ctx, employeeID)
	if err != nil {
		return respondError(c, err)
	}
	if employee == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Employee not found",
		})
	}
	employee.Password = ""

	return respondOK(c, "Employee retrieved", employee)
}

// UpdateProfile lets an employee change their own contact details,
// password and FCM token.
func (ctrl *EmployeeController) UpdateProfile(c echo.Context) error {
	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	var update models.EmployeeUpdate
	if err := c.Bind(&update); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	if update.Email != "" {
		email, err := utils.SanitizeEmail(update.Email)
		if err != nil {
			return respondBadRequest(c, "Invalid email format")
		}
		update.Email = email
	}
	if update.PhoneNumber != "" {
		phone, err := utils.SanitizePhone(update.PhoneNumber)
		if err != nil {
			return respondBadRequest(c, "Invalid phone number format")
		}
		update.PhoneNumber = phone
	}
	if update.FullName != "" {
		update.FullName = utils.SanitizeInput(update.FullName)
	}
	if update.Password != "" {
		if len(update.Password) < 8 {
			return respondBadRequest(c, "Password must be at least 8 characters")
		}
		hashed, err := utils.HashPassword(update.Password)
		if err != nil {
			return respondError(c, err)
		}
		update.Password = hashed
	}

	if err := ctrl.employees.UpdateProfile(c.Request().Context(), actor.ID, update); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Profile updated", nil)
}
