package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MHaddad/fieldtrack_backend/models"
	"github.com/MHaddad/fieldtrack_backend/repositories"
)

// AttendanceService tracks one login/logout session per employee per
// calendar day. Days roll over at server-local midnight.
type AttendanceService struct {
	attendance repositories.AttendanceRepository
	employees  repositories.EmployeeRepository
	now        func() time.Time
}

func NewAttendanceService(attendance repositories.AttendanceRepository, employees repositories.EmployeeRepository) *AttendanceService {
	return &AttendanceService{
		attendance: attendance,
		employees:  employees,
		now:        time.Now,
	}
}

// RecordLogin marks the employee logged in for today. Repeat logins on
// the same day are idempotent: the first record wins and its login
// time is preserved.
func (s *AttendanceService) RecordLogin(ctx context.Context, employeeID primitive.ObjectID) (*models.AttendanceRecord, error) {
	now := s.now()
	return s.attendance.UpsertLogin(ctx, employeeID, now.Format(models.DayFormat), now)
}

// RecordLogout closes today's open session and returns the completed
// record. Without an open session it returns (nil, nil); logging out
// twice is not an error.
func (s *AttendanceService) RecordLogout(ctx context.Context, employeeID primitive.ObjectID) (*models.AttendanceRecord, error) {
	now := s.now()
	return s.attendance.CloseOpen(ctx, employeeID, now.Format(models.DayFormat), now)
}

// StatusFor derives the employee's attendance status for today.
func (s *AttendanceService) StatusFor(ctx context.Context, employeeID primitive.ObjectID) (string, *models.AttendanceRecord, error) {
	day := s.now().Format(models.DayFormat)
	record, err := s.attendance.FindByEmployeeAndDay(ctx, employeeID, day)
	if err != nil {
		return "", nil, err
	}
	return models.AttendanceStatus(record), record, nil
}

// StatusAll returns today's attendance status for every active
// employee, absentees included.
func (s *AttendanceService) StatusAll(ctx context.Context) ([]models.EmployeeAttendance, error) {
	day := s.now().Format(models.DayFormat)

	records, err := s.attendance.FindByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	byEmployee := make(map[primitive.ObjectID]*models.AttendanceRecord, len(records))
	for i := range records {
		byEmployee[records[i].EmployeeID] = &records[i]
	}

	employees, err := s.employees.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]models.EmployeeAttendance, 0, len(employees))
	for _, employee := range employees {
		record := byEmployee[employee.ID]
		statuses = append(statuses, models.EmployeeAttendance{
			EmployeeID: employee.ID,
			FullName:   employee.FullName,
			Role:       employee.Role,
			Status:     models.AttendanceStatus(record),
			Record:     record,
		})
	}
	return statuses, nil
}
