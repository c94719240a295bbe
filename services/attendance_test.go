package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MHaddad/fieldtrack_backend/models"
	"github.com/MHaddad/fieldtrack_backend/repositories"
)

func newAttendanceFixture(t *testing.T) (*hierarchyFixture, *AttendanceService) {
	t.Helper()
	f := newHierarchyFixture(t)
	service := NewAttendanceService(repositories.NewMemoryAttendanceRepository(), f.employees)
	return f, service
}

func TestRecordLoginIsIdempotentPerDay(t *testing.T) {
	f, service := newAttendanceFixture(t)
	ctx := context.Background()

	first, err := service.RecordLogin(ctx, f.bde1.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := service.RecordLogin(ctx, f.bde1.ID)
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.LoginTime.Equal(second.LoginTime), "the first login time wins")
}

func TestRecordLogoutWithoutSession(t *testing.T) {
	f, service := newAttendanceFixture(t)

	record, err := service.RecordLogout(context.Background(), f.bde1.ID)
	require.NoError(t, err)
	assert.Nil(t, record, "logout with no open session is a no-op")
}

func TestRecordLogoutClosesSessionOnce(t *testing.T) {
	f, service := newAttendanceFixture(t)
	ctx := context.Background()

	_, err := service.RecordLogin(ctx, f.bde1.ID)
	require.NoError(t, err)

	closed, err := service.RecordLogout(ctx, f.bde1.ID)
	require.NoError(t, err)
	require.NotNil(t, closed)
	assert.NotNil(t, closed.LogoutTime)

	again, err := service.RecordLogout(ctx, f.bde1.ID)
	require.NoError(t, err)
	assert.Nil(t, again, "second logout finds no open session")
}

func TestStatusForDerivation(t *testing.T) {
	f, service := newAttendanceFixture(t)
	ctx := context.Background()

	status, record, err := service.StatusFor(ctx, f.bde1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceAbsent, status)
	assert.Nil(t, record)

	_, err = service.RecordLogin(ctx, f.bde1.ID)
	require.NoError(t, err)
	status, record, err = service.StatusFor(ctx, f.bde1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceLoggedIn, status)
	require.NotNil(t, record)

	_, err = service.RecordLogout(ctx, f.bde1.ID)
	require.NoError(t, err)
	status, _, err = service.StatusFor(ctx, f.bde1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, status)
}

func TestStatusAllIncludesAbsentees(t *testing.T) {
	f, service := newAttendanceFixture(t)
	ctx := context.Background()

	_, err := service.RecordLogin(ctx, f.bde1.ID)
	require.NoError(t, err)

	statuses, err := service.StatusAll(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 8, "every employee appears, logged in or not")

	byID := make(map[string]models.EmployeeAttendance, len(statuses))
	for _, s := range statuses {
		byID[s.EmployeeID.Hex()] = s
	}
	assert.Equal(t, models.AttendanceLoggedIn, byID[f.bde1.ID.Hex()].Status)
	assert.Equal(t, models.AttendanceAbsent, byID[f.bde2.ID.Hex()].Status)
}

func TestAttendanceDayRollover(t *testing.T) {
	f, _ := newAttendanceFixture(t)
	ctx := context.Background()

	repo := repositories.NewMemoryAttendanceRepository()
	service := NewAttendanceService(repo, f.employees)

	yesterday := time.Now().AddDate(0, 0, -1)
	service.now = func() time.Time { return yesterday }
	first, err := service.RecordLogin(ctx, f.bde1.ID)
	require.NoError(t, err)

	service.now = time.Now
	second, err := service.RecordLogin(ctx, f.bde1.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID, "a new day gets a new record")

	// Yesterday's open session is out of reach for today's logout.
	closed, err := service.RecordLogout(ctx, f.bde1.ID)
	require.NoError(t, err)
	require.NotNil(t, closed)
	assert.Equal(t, second.ID, closed.ID)
}
