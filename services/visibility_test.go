package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MHaddad/fieldtrack_backend/models"
	"github.com/MHaddad/fieldtrack_backend/repositories"
)

// hierarchyFixture wires a small org:
//
//	admin
//	manager1 ── bdm1 ── bde1
//	         └─ bde2 (direct report)
//	manager2 ── bdm2 ── bde3
type hierarchyFixture struct {
	employees *repositories.MemoryEmployeeRepository
	resolver  *VisibilityResolver

	admin, manager1, manager2, bdm1, bdm2, bde1, bde2, bde3 models.Employee
}

func newHierarchyFixture(t *testing.T) *hierarchyFixture {
	t.Helper()

	f := &hierarchyFixture{employees: repositories.NewMemoryEmployeeRepository()}
	f.resolver = NewVisibilityResolver(f.employees)

	ctx := context.Background()
	add := func(name, role string, managerID, bdmID *primitive.ObjectID) models.Employee {
		employee := models.Employee{
			FullName:  name,
			Email:     name + "@fieldtrack.test",
			Role:      role,
			ManagerID: managerID,
			BDMID:     bdmID,
			IsActive:  true,
		}
		id, err := f.employees.Insert(ctx, &employee)
		require.NoError(t, err)
		employee.ID = id
		return employee
	}

	f.admin = add("admin", models.RoleAdmin, nil, nil)
	f.manager1 = add("manager1", models.RoleManager, nil, nil)
	f.manager2 = add("manager2", models.RoleManager, nil, nil)
	f.bdm1 = add("bdm1", models.RoleBDM, &f.manager1.ID, nil)
	f.bdm2 = add("bdm2", models.RoleBDM, &f.manager2.ID, nil)
	f.bde1 = add("bde1", models.RoleBDE, &f.manager1.ID, &f.bdm1.ID)
	f.bde2 = add("bde2", models.RoleBDE, &f.manager1.ID, nil)
	f.bde3 = add("bde3", models.RoleBDE, &f.manager2.ID, &f.bdm2.ID)
	return f
}

func (f *hierarchyFixture) actor(e models.Employee) models.Actor {
	return models.Actor{ID: e.ID, Role: e.Role}
}

func TestVisibilityAdminSeesEveryone(t *testing.T) {
	f := newHierarchyFixture(t)

	visible, err := f.resolver.VisibleEmployeeIDs(context.Background(), f.actor(f.admin))
	require.NoError(t, err)

	assert.Len(t, visible, 8)
	assert.True(t, visible.Contains(f.admin.ID))
	assert.True(t, visible.Contains(f.bde3.ID))
}

func TestVisibilityManagerSeesOwnBranchOnly(t *testing.T) {
	f := newHierarchyFixture(t)

	visible, err := f.resolver.VisibleEmployeeIDs(context.Background(), f.actor(f.manager1))
	require.NoError(t, err)

	assert.True(t, visible.Contains(f.manager1.ID), "manager sees itself")
	assert.True(t, visible.Contains(f.bdm1.ID))
	assert.True(t, visible.Contains(f.bde1.ID))
	assert.True(t, visible.Contains(f.bde2.ID), "direct-report BDE is visible")

	assert.False(t, visible.Contains(f.admin.ID), "admins are outside manager closures")
	assert.False(t, visible.Contains(f.manager2.ID))
	assert.False(t, visible.Contains(f.bdm2.ID))
	assert.False(t, visible.Contains(f.bde3.ID))
}

func TestVisibilityBDMSeesManagerAndOwnBDEs(t *testing.T) {
	f := newHierarchyFixture(t)

	visible, err := f.resolver.VisibleEmployeeIDs(context.Background(), f.actor(f.bdm1))
	require.NoError(t, err)

	assert.True(t, visible.Contains(f.bdm1.ID))
	assert.True(t, visible.Contains(f.manager1.ID))
	assert.True(t, visible.Contains(f.bde1.ID))

	assert.False(t, visible.Contains(f.bde2.ID), "sibling BDE without the BDM link is invisible")
	assert.False(t, visible.Contains(f.bde3.ID))
}

func TestVisibilityBDESeesUpwardChain(t *testing.T) {
	f := newHierarchyFixture(t)

	visible, err := f.resolver.VisibleEmployeeIDs(context.Background(), f.actor(f.bde1))
	require.NoError(t, err)

	assert.Len(t, visible, 3)
	assert.True(t, visible.Contains(f.bde1.ID))
	assert.True(t, visible.Contains(f.bdm1.ID))
	assert.True(t, visible.Contains(f.manager1.ID))
}

func TestVisibilityUnassignedBDESeesOnlySelf(t *testing.T) {
	f := newHierarchyFixture(t)
	ctx := context.Background()

	orphan := models.Employee{FullName: "orphan", Role: models.RoleBDE, IsActive: true}
	id, err := f.employees.Insert(ctx, &orphan)
	require.NoError(t, err)

	visible, err := f.resolver.VisibleEmployeeIDs(ctx, models.Actor{ID: id, Role: models.RoleBDE})
	require.NoError(t, err)
	assert.Len(t, visible, 1)
	assert.True(t, visible.Contains(id))
}

func TestVisibilityDetachedBDMBranchBecomesUnreachable(t *testing.T) {
	f := newHierarchyFixture(t)
	ctx := context.Background()

	// A BDE the manager can reach only through bdm1: no managerId of
	// its own.
	stray := models.Employee{
		FullName: "bde4",
		Email:    "bde4@fieldtrack.test",
		Role:     models.RoleBDE,
		BDMID:    &f.bdm1.ID,
		IsActive: true,
	}
	strayID, err := f.employees.Insert(ctx, &stray)
	require.NoError(t, err)

	before, err := f.resolver.VisibleEmployeeIDs(ctx, f.actor(f.manager1))
	require.NoError(t, err)
	require.True(t, before.Contains(strayID), "reachable through the attached BDM")

	// Detach bdm1 from manager1. The manager loses the BDM and the BDE
	// reachable only through it; BDEs with their own managerId link stay
	// visible, and the detached BDM keeps its own BDEs.
	require.NoError(t, f.employees.SetLinks(ctx, f.bdm1.ID, nil, nil))

	managerView, err := f.resolver.VisibleEmployeeIDs(ctx, f.actor(f.manager1))
	require.NoError(t, err)
	assert.False(t, managerView.Contains(f.bdm1.ID))
	assert.False(t, managerView.Contains(strayID))
	assert.True(t, managerView.Contains(f.bde1.ID), "direct managerId link survives the detach")
	assert.True(t, managerView.Contains(f.bde2.ID))

	bdmView, err := f.resolver.VisibleEmployeeIDs(ctx, f.actor(f.bdm1))
	require.NoError(t, err)
	assert.True(t, bdmView.Contains(f.bde1.ID))
	assert.True(t, bdmView.Contains(strayID))
	assert.False(t, bdmView.Contains(f.manager1.ID))
}

func TestVisibleEmployeesStripsPasswords(t *testing.T) {
	f := newHierarchyFixture(t)
	ctx := context.Background()

	require.NoError(t, f.employees.UpdateProfile(ctx, f.bde1.ID, models.EmployeeUpdate{Password: "hashed-secret"}))

	employees, err := f.resolver.VisibleEmployees(ctx, f.actor(f.manager1))
	require.NoError(t, err)
	require.NotEmpty(t, employees)
	for _, employee := range employees {
		assert.Empty(t, employee.Password)
	}
}

func TestCanSee(t *testing.T) {
	f := newHierarchyFixture(t)
	ctx := context.Background()

	ok, err := f.resolver.CanSee(ctx, f.actor(f.manager1), f.bde1.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.resolver.CanSee(ctx, f.actor(f.manager1), f.bde3.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
