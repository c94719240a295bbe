package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MHaddad/fieldtrack_backend/apperrors"
	"github.com/MHaddad/fieldtrack_backend/models"
	"github.com/MHaddad/fieldtrack_backend/repositories"
)

// AssignmentService mutates the hierarchy edges of the employee
// forest. Callers gate access (admin only); the service rejects
// structurally invalid assignments regardless of who calls.
type AssignmentService struct {
	employees repositories.EmployeeRepository
}

func NewAssignmentService(employees repositories.EmployeeRepository) *AssignmentService {
	return &AssignmentService{employees: employees}
}

// AssignToManager places the employee directly under a manager. Any
// previous BDM link is cleared: keeping it could leave the employee
// attached to a BDM in another manager's branch.
func (s *AssignmentService) AssignToManager(ctx context.Context, employeeID, managerID primitive.ObjectID) error {
	target, err := s.employees.FindByID(ctx, managerID)
	if err != nil {
		return err
	}
	if target == nil {
		return apperrors.New(apperrors.KindNotFound, "manager not found")
	}
	if target.Role != models.RoleManager {
		return apperrors.New(apperrors.KindInvalidTarget, "assignment target is not a manager")
	}

	employee, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if employee == nil {
		return apperrors.New(apperrors.KindNotFound, "employee not found")
	}
	if employee.Role != models.RoleBDM && employee.Role != models.RoleBDE {
		return apperrors.New(apperrors.KindInvalidTarget, "only BDMs and BDEs can report to a manager")
	}

	return s.employees.SetLinks(ctx, employeeID, &managerID, nil)
}

// AssignToBDM places a BDE under a BDM. The BDE's managerId is copied
// from the BDM in the same write, so the employee always lands in the
// BDM's branch.
func (s *AssignmentService) AssignToBDM(ctx context.Context, employeeID, bdmID primitive.ObjectID) error {
	target, err := s.employees.FindByID(ctx, bdmID)
	if err != nil {
		return err
	}
	if target == nil {
		return apperrors.New(apperrors.KindNotFound, "BDM not found")
	}
	if target.Role != models.RoleBDM {
		return apperrors.New(apperrors.KindInvalidTarget, "assignment target is not a BDM")
	}
	if target.ManagerID == nil {
		return apperrors.New(apperrors.KindOrphanSupervisor, "target BDM has no manager")
	}

	employee, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if employee == nil {
		return apperrors.New(apperrors.KindNotFound, "employee not found")
	}
	if employee.Role != models.RoleBDE {
		return apperrors.New(apperrors.KindInvalidTarget, "only BDEs can report to a BDM")
	}

	return s.employees.SetLinks(ctx, employeeID, target.ManagerID, &bdmID)
}

// RemoveAssignment clears both hierarchy links. It does not cascade:
// a detached BDM keeps its own BDEs pointing at it, even though the
// branch is no longer reachable from any manager.
// TODO: revisit once product decides whether detaching a BDM should
// also detach its BDEs.
func (s *AssignmentService) RemoveAssignment(ctx context.Context, employeeID primitive.ObjectID) error {
	employee, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if employee == nil {
		return apperrors.New(apperrors.KindNotFound, "employee not found")
	}

	return s.employees.SetLinks(ctx, employeeID, nil, nil)
}
