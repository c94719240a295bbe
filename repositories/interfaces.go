// Package repositories provides the persistence layer behind the
// domain services. Each store is an interface with a MongoDB
// implementation; an in-memory implementation backs the tests.
//
// Lookup methods return (nil, nil) when no document matches, so the
// services own the translation into domain error kinds.
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MHaddad/fieldtrack_backend/models"
)

// EmployeeRepository is the hierarchy store: employee records and
// their managerId/bdmId links.
type EmployeeRepository interface {
	Insert(ctx context.Context, employee *models.Employee) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error)
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
	FindAll(ctx context.Context) ([]models.Employee, error)
	FindByRole(ctx context.Context, role string) ([]models.Employee, error)
	FindByManagerID(ctx context.Context, managerID primitive.ObjectID) ([]models.Employee, error)
	FindByBDMID(ctx context.Context, bdmID primitive.ObjectID) ([]models.Employee, error)
	// SetLinks replaces both hierarchy links in one write. A nil link
	// is removed from the record.
	SetLinks(ctx context.Context, id primitive.ObjectID, managerID, bdmID *primitive.ObjectID) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.EmployeeUpdate) error
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}

type ProductRepository interface {
	Insert(ctx context.Context, product *models.Product) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, update models.ProductRequest) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type SalesReportRepository interface {
	Insert(ctx context.Context, report *models.SalesReport) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.SalesReport, error)
	FindPending(ctx context.Context) ([]models.SalesReport, error)
	FindByBDEIDs(ctx context.Context, bdeIDs []primitive.ObjectID) ([]models.SalesReport, error)
	// Approve transitions pending -> approved. It reports false when no
	// pending report with the given id existed, leaving the caller to
	// distinguish NotFound from NotPending.
	Approve(ctx context.Context, id, approvedBy primitive.ObjectID, at time.Time) (bool, error)
	// SumApprovedPoints sums the snapshotted points of approved reports
	// created in [from, to), restricted to the given BDE ids.
	SumApprovedPoints(ctx context.Context, from, to time.Time, bdeIDs []primitive.ObjectID) (int, error)
}

type VerificationReportRepository interface {
	Insert(ctx context.Context, report *models.VerificationReport) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.VerificationReport, error)
	FindPending(ctx context.Context) ([]models.VerificationReport, error)
	FindByBDEIDs(ctx context.Context, bdeIDs []primitive.ObjectID) ([]models.VerificationReport, error)
	Approve(ctx context.Context, id, approvedBy primitive.ObjectID, at time.Time) (bool, error)
	// Reject transitions pending -> rejected, recording who and why.
	// Reports false when no pending report with the id existed.
	Reject(ctx context.Context, id, rejectedBy primitive.ObjectID, reason string, at time.Time) (bool, error)
}

type AttendanceRepository interface {
	// UpsertLogin returns the record for (employeeID, day), creating it
	// with the given login time only when none exists yet. Two
	// concurrent calls for the same key yield the same single record.
	UpsertLogin(ctx context.Context, employeeID primitive.ObjectID, day string, loginTime time.Time) (*models.AttendanceRecord, error)
	// CloseOpen sets the logout time on the day's open record and
	// returns it, or (nil, nil) when there is no open session.
	CloseOpen(ctx context.Context, employeeID primitive.ObjectID, day string, logoutTime time.Time) (*models.AttendanceRecord, error)
	FindByEmployeeAndDay(ctx context.Context, employeeID primitive.ObjectID, day string) (*models.AttendanceRecord, error)
	FindByDay(ctx context.Context, day string) ([]models.AttendanceRecord, error)
}
