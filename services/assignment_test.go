package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MHaddad/fieldtrack_backend/apperrors"
)

func TestAssignToManagerRejectsNonManagerTarget(t *testing.T) {
	f := newHierarchyFixture(t)
	service := NewAssignmentService(f.employees)

	err := service.AssignToManager(context.Background(), f.bde1.ID, f.bdm1.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTarget))
}

func TestAssignToManagerRejectsAdminAsSubordinate(t *testing.T) {
	f := newHierarchyFixture(t)
	service := NewAssignmentService(f.employees)

	err := service.AssignToManager(context.Background(), f.admin.ID, f.manager1.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTarget))
}

func TestAssignToManagerClearsBDMLink(t *testing.T) {
	f := newHierarchyFixture(t)
	service := NewAssignmentService(f.employees)
	ctx := context.Background()

	// bde1 currently reports to bdm1 under manager1. Moving it under
	// manager2 must drop the stale BDM link.
	require.NoError(t, service.AssignToManager(ctx, f.bde1.ID, f.manager2.ID))

	moved, err := f.employees.FindByID(ctx, f.bde1.ID)
	require.NoError(t, err)
	require.NotNil(t, moved)
	require.NotNil(t, moved.ManagerID)
	assert.Equal(t, f.manager2.ID, *moved.ManagerID)
	assert.Nil(t, moved.BDMID)
}

func TestAssignToBDMCopiesManagerLink(t *testing.T) {
	f := newHierarchyFixture(t)
	service := NewAssignmentService(f.employees)
	ctx := context.Background()

	// bde3 lives under manager2; reassigning it to bdm1 must pull it
	// into manager1's branch in the same write.
	require.NoError(t, service.AssignToBDM(ctx, f.bde3.ID, f.bdm1.ID))

	moved, err := f.employees.FindByID(ctx, f.bde3.ID)
	require.NoError(t, err)
	require.NotNil(t, moved)
	require.NotNil(t, moved.BDMID)
	assert.Equal(t, f.bdm1.ID, *moved.BDMID)
	require.NotNil(t, moved.ManagerID)
	assert.Equal(t, f.manager1.ID, *moved.ManagerID)
}

func TestAssignToBDMRejectsOrphanBDM(t *testing.T) {
	f := newHierarchyFixture(t)
	service := NewAssignmentService(f.employees)
	ctx := context.Background()

	require.NoError(t, f.employees.SetLinks(ctx, f.bdm1.ID, nil, nil))

	err := service.AssignToBDM(ctx, f.bde2.ID, f.bdm1.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindOrphanSupervisor))
}

func TestAssignToBDMRejectsNonBDEEmployee(t *testing.T) {
	f := newHierarchyFixture(t)
	service := NewAssignmentService(f.employees)

	err := service.AssignToBDM(context.Background(), f.bdm2.ID, f.bdm1.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTarget))
}

func TestAssignToBDMRejectsNonBDMTarget(t *testing.T) {
	f := newHierarchyFixture(t)
	service := NewAssignmentService(f.employees)

	err := service.AssignToBDM(context.Background(), f.bde1.ID, f.manager1.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTarget))
}

func TestRemoveAssignmentDetachesWithoutCascade(t *testing.T) {
	f := newHierarchyFixture(t)
	service := NewAssignmentService(f.employees)
	ctx := context.Background()

	require.NoError(t, service.RemoveAssignment(ctx, f.bdm1.ID))

	detached, err := f.employees.FindByID(ctx, f.bdm1.ID)
	require.NoError(t, err)
	require.NotNil(t, detached)
	assert.Nil(t, detached.ManagerID)
	assert.Nil(t, detached.BDMID)

	// The BDE under the detached BDM keeps its links untouched.
	child, err := f.employees.FindByID(ctx, f.bde1.ID)
	require.NoError(t, err)
	require.NotNil(t, child)
	require.NotNil(t, child.BDMID)
	assert.Equal(t, f.bdm1.ID, *child.BDMID)
	require.NotNil(t, child.ManagerID)
	assert.Equal(t, f.manager1.ID, *child.ManagerID)
}

func TestAssignmentUnknownIDs(t *testing.T) {
	f := newHierarchyFixture(t)
	service := NewAssignmentService(f.employees)
	ctx := context.Background()

	err := service.AssignToManager(ctx, f.bde1.ID, primitive.NewObjectID())
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	err = service.RemoveAssignment(ctx, primitive.NewObjectID())
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
