// Package services holds the domain logic: visibility resolution,
// hierarchy assignment, the report approval workflows and the
// attendance tracker. Controllers stay thin and delegate here.
package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MHaddad/fieldtrack_backend/apperrors"
	"github.com/MHaddad/fieldtrack_backend/models"
	"github.com/MHaddad/fieldtrack_backend/repositories"
)

// IDSet is a set of employee ids.
type IDSet map[primitive.ObjectID]struct{}

func (s IDSet) Add(id primitive.ObjectID) {
	s[id] = struct{}{}
}

func (s IDSet) Contains(id primitive.ObjectID) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) IDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// VisibilityResolver computes, for an actor, the closed set of
// employee ids the actor may observe. It holds no state of its own:
// the result is a pure function of the stored hierarchy links.
type VisibilityResolver struct {
	employees repositories.EmployeeRepository
}

func NewVisibilityResolver(employees repositories.EmployeeRepository) *VisibilityResolver {
	return &VisibilityResolver{employees: employees}
}

// VisibleEmployeeIDs resolves the actor's visibility closure:
//   - admin: every employee
//   - manager: self, its BDMs, and every BDE in its branch
//   - bdm: self, its manager, and its BDEs
//   - bde: self, its BDM and its manager (when assigned)
//
// Non-admin closures never contain admin accounts, since admins carry
// no hierarchy links and are only reachable through the admin branch.
func (r *VisibilityResolver) VisibleEmployeeIDs(ctx context.Context, actor models.Actor) (IDSet, error) {
	visible := make(IDSet)

	switch actor.Role {
	case models.RoleAdmin:
		all, err := r.employees.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, employee := range all {
			visible.Add(employee.ID)
		}
		visible.Add(actor.ID)

	case models.RoleManager:
		visible.Add(actor.ID)
		directs, err := r.employees.FindByManagerID(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		for _, direct := range directs {
			visible.Add(direct.ID)
			if direct.Role != models.RoleBDM {
				continue
			}
			bdes, err := r.employees.FindByBDMID(ctx, direct.ID)
			if err != nil {
				return nil, err
			}
			for _, bde := range bdes {
				visible.Add(bde.ID)
			}
		}

	case models.RoleBDM:
		self, err := r.employees.FindByID(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if self == nil {
			return nil, apperrors.New(apperrors.KindNotFound, "employee not found")
		}
		visible.Add(actor.ID)
		if self.ManagerID != nil {
			visible.Add(*self.ManagerID)
		}
		bdes, err := r.employees.FindByBDMID(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		for _, bde := range bdes {
			visible.Add(bde.ID)
		}

	case models.RoleBDE:
		self, err := r.employees.FindByID(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if self == nil {
			return nil, apperrors.New(apperrors.KindNotFound, "employee not found")
		}
		visible.Add(actor.ID)
		if self.BDMID != nil {
			visible.Add(*self.BDMID)
		}
		if self.ManagerID != nil {
			visible.Add(*self.ManagerID)
		}

	default:
		return nil, apperrors.New(apperrors.KindUnauthorized, "unknown role")
	}

	return visible, nil
}

// VisibleEmployees returns the employee records of the actor's
// closure, passwords stripped.
func (r *VisibilityResolver) VisibleEmployees(ctx context.Context, actor models.Actor) ([]models.Employee, error) {
	visible, err := r.VisibleEmployeeIDs(ctx, actor)
	if err != nil {
		return nil, err
	}

	all, err := r.employees.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var employees []models.Employee
	for _, employee := range all {
		if !visible.Contains(employee.ID) {
			continue
		}
		employee.Password = ""
		employees = append(employees, employee)
	}
	return employees, nil
}

// CanSee reports whether the target employee is inside the actor's
// visibility closure.
func (r *VisibilityResolver) CanSee(ctx context.Context, actor models.Actor, target primitive.ObjectID) (bool, error) {
	visible, err := r.VisibleEmployeeIDs(ctx, actor)
	if err != nil {
		return false, err
	}
	return visible.Contains(target), nil
}
