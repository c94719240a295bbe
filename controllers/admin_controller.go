package controllers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MHaddad/fieldtrack_backend/models"
	"github.com/MHaddad/fieldtrack_backend/repositories"
	"github.com/MHaddad/fieldtrack_backend/services"
	"github.com/MHaddad/fieldtrack_backend/utils"
)

// AdminController handles employee registration and hierarchy
// assignment. Every route behind it is admin-gated by middleware;
// the assignment service re-checks the structural rules itself.
type AdminController struct {
	DB          *mongo.Client
	employees   repositories.EmployeeRepository
	assignments *services.AssignmentService
	validate    *validator.Validate
}

func NewAdminController(db *mongo.Client, employees repositories.EmployeeRepository, assignments *services.AssignmentService) *AdminController {
	return &AdminController{
		DB:          db,
		employees:   employees,
		assignments: assignments,
		validate:    validator.New(),
	}
}

// CreateEmployee registers a new employee with a hashed password and
// a generated employee code. New employees start unassigned.
func (ctrl *AdminController) CreateEmployee(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.CreateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := ctrl.validate.Struct(&req); err != nil {
		return respondBadRequest(c, "Full name, email, role and a password of at least 8 characters are required")
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return respondBadRequest(c, "Invalid email format")
	}
	phone, err := utils.SanitizePhone(req.PhoneNumber)
	if err != nil {
		return respondBadRequest(c, "Invalid phone number format")
	}

	existing, err := ctrl.employees.FindByEmail(ctx, email)
	if err != nil {
		return respondError(c, err)
	}
	if existing != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "An employee with this email already exists",
		})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return respondError(c, err)
	}

	actor, err := utils.GetActorFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	now := time.Now()
	employee := models.Employee{
		FullName:     utils.SanitizeInput(req.FullName),
		EmployeeCode: utils.GenerateEmployeeCode(req.Role),
		Email:        email,
		Password:     hashedPassword,
		PhoneNumber:  phone,
		Role:         req.Role,
		IsActive:     true,
		CreatedBy:    actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := ctrl.employees.Insert(ctx, &employee)
	if err != nil {
		return respondError(c, err)
	}
	employee.ID = id
	employee.Password = ""

	return respondCreated(c, "Employee created", employee)
}

// ListEmployeesByRole backs the assignment dropdowns in the dashboard.
func (ctrl *AdminController) ListEmployeesByRole(c echo.Context) error {
	role := c.QueryParam("role")
	if role != "" && !models.IsValidRole(role) {
		return respondBadRequest(c, "Unknown role")
	}

	var (
		employees []models.Employee
		err       error
	)
	if role == "" {
		employees, err = ctrl.employees.FindAll(c.Request().Context())
	} else {
		employees, err = ctrl.employees.FindByRole(c.Request().Context(), role)
	}
	if err != nil {
		return respondError(c, err)
	}

	for i := range employees {
		employees[i].Password = ""
	}

	return respondOK(c, "Employees retrieved", employees)
}

// GetEmployee returns one employee record, password stripped.
func (ctrl *AdminController) GetEmployee(c echo.Context) error {
	employeeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid employee ID format")
	}

	employee, err := ctrl.employees.FindByID(c.Request().Context(), employeeID)
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

// UpdateEmployee edits an employee's profile fields on their behalf.
// Hierarchy links go through the assignment endpoints instead.
func (ctrl *AdminController) UpdateEmployee(c echo.Context) error {
	employeeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid employee ID format")
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

	ctx := c.Request().Context()
	existing, err := ctrl.employees.FindByID(ctx, employeeID)
	if err != nil {
		return respondError(c, err)
	}
	if existing == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Employee not found",
		})
	}

	if err := ctrl.employees.UpdateProfile(ctx, employeeID, update); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Employee updated", nil)
}

// AssignToManager places an employee directly under a manager.
func (ctrl *AdminController) AssignToManager(c echo.Context) error {
	employeeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid employee ID format")
	}

	var req models.AssignManagerRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := ctrl.validate.Struct(&req); err != nil {
		return respondBadRequest(c, "Manager ID is required")
	}

	managerID, err := primitive.ObjectIDFromHex(req.ManagerID)
	if err != nil {
		return respondBadRequest(c, "Invalid manager ID format")
	}

	if err := ctrl.assignments.AssignToManager(c.Request().Context(), employeeID, managerID); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Employee assigned to manager", nil)
}

// AssignToBDM places a BDE under a BDM.
func (ctrl *AdminController) AssignToBDM(c echo.Context) error {
	employeeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid employee ID format")
	}

	var req models.AssignBDMRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := ctrl.validate.Struct(&req); err != nil {
		return respondBadRequest(c, "BDM ID is required")
	}

	bdmID, err := primitive.ObjectIDFromHex(req.BDMID)
	if err != nil {
		return respondBadRequest(c, "Invalid BDM ID format")
	}

	if err := ctrl.assignments.AssignToBDM(c.Request().Context(), employeeID, bdmID); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Employee assigned to BDM", nil)
}

// RemoveAssignment detaches an employee from the hierarchy.
func (ctrl *AdminController) RemoveAssignment(c echo.Context) error {
	employeeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid employee ID format")
	}

	if err := ctrl.assignments.RemoveAssignment(c.Request().Context(), employeeID); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Assignment removed", nil)
}

// DeactivateEmployee soft-deletes an employee. Their reports and
// attendance history stay in place.
func (ctrl *AdminController) DeactivateEmployee(c echo.Context) error {
	employeeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid employee ID format")
	}

	if err := ctrl.employees.Deactivate(c.Request().Context(), employeeID); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Employee deactivated", nil)
}
