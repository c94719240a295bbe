package repositories

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MHaddad/fieldtrack_backend/models"
)

// In-memory implementations of the repository interfaces. They back
// the service tests and serve as a fallback store when no MongoDB is
// available. Each store serializes access through its own mutex, so
// the check-then-write sequences the services rely on hold here too.

type MemoryEmployeeRepository struct {
	mu        sync.Mutex
	employees map[primitive.ObjectID]models.Employee
}

func NewMemoryEmployeeRepository() *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{employees: make(map[primitive.ObjectID]models.Employee)}
}

func (r *MemoryEmployeeRepository) Insert(_ context.Context, employee *models.Employee) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if employee.ID.IsZero() {
		employee.ID = primitive.NewObjectID()
	}
	r.employees[employee.ID] = *employee
	return employee.ID, nil
}

func (r *MemoryEmployeeRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if employee, ok := r.employees[id]; ok {
		return &employee, nil
	}
	return nil, nil
}

func (r *MemoryEmployeeRepository) FindByEmail(_ context.Context, email string) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, employee := range r.employees {
		if employee.Email == email {
			e := employee
			return &e, nil
		}
	}
	return nil, nil
}

func (r *MemoryEmployeeRepository) FindAll(_ context.Context) ([]models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]models.Employee, 0, len(r.employees))
	for _, employee := range r.employees {
		all = append(all, employee)
	}
	return all, nil
}

func (r *MemoryEmployeeRepository) FindByRole(_ context.Context, role string) ([]models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []models.Employee
	for _, employee := range r.employees {
		if employee.Role == role {
			matched = append(matched, employee)
		}
	}
	return matched, nil
}

func (r *MemoryEmployeeRepository) FindByManagerID(_ context.Context, managerID primitive.ObjectID) ([]models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []models.Employee
	for _, employee := range r.employees {
		if employee.ManagerID != nil && *employee.ManagerID == managerID {
			matched = append(matched, employee)
		}
	}
	return matched, nil
}

func (r *MemoryEmployeeRepository) FindByBDMID(_ context.Context, bdmID primitive.ObjectID) ([]models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []models.Employee
	for _, employee := range r.employees {
		if employee.BDMID != nil && *employee.BDMID == bdmID {
			matched = append(matched, employee)
		}
	}
	return matched, nil
}

func (r *MemoryEmployeeRepository) SetLinks(_ context.Context, id primitive.ObjectID, managerID, bdmID *primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	employee, ok := r.employees[id]
	if !ok {
		return nil
	}
	employee.ManagerID = copyID(managerID)
	employee.BDMID = copyID(bdmID)
	employee.UpdatedAt = time.Now()
	r.employees[id] = employee
	return nil
}

func (r *MemoryEmployeeRepository) UpdateProfile(_ context.Context, id primitive.ObjectID, update models.EmployeeUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	employee, ok := r.employees[id]
	if !ok {
		return nil
	}
	if update.FullName != "" {
		employee.FullName = update.FullName
	}
	if update.Email != "" {
		employee.Email = update.Email
	}
	if update.PhoneNumber != "" {
		employee.PhoneNumber = update.PhoneNumber
	}
	if update.Password != "" {
		employee.Password = update.Password
	}
	if update.FCMToken != "" {
		employee.FCMToken = update.FCMToken
	}
	employee.UpdatedAt = time.Now()
	r.employees[id] = employee
	return nil
}

func (r *MemoryEmployeeRepository) Deactivate(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if employee, ok := r.employees[id]; ok {
		employee.IsActive = false
		employee.UpdatedAt = time.Now()
		r.employees[id] = employee
	}
	return nil
}

func copyID(id *primitive.ObjectID) *primitive.ObjectID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

type MemoryProductRepository struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{products: make(map[primitive.ObjectID]models.Product)}
}

func (r *MemoryProductRepository) Insert(_ context.Context, product *models.Product) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	r.products[product.ID] = *product
	return product.ID, nil
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product, ok := r.products[id]; ok {
		return &product, nil
	}
	return nil, nil
}

func (r *MemoryProductRepository) FindAll(_ context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		all = append(all, product)
	}
	return all, nil
}

func (r *MemoryProductRepository) Update(_ context.Context, id primitive.ObjectID, update models.ProductRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil
	}
	product.Name = update.Name
	product.Points = update.Points
	product.UpdatedAt = time.Now()
	r.products[id] = product
	return nil
}

func (r *MemoryProductRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, id)
	return nil
}

type MemorySalesReportRepository struct {
	mu      sync.Mutex
	reports map[primitive.ObjectID]models.SalesReport
}

func NewMemorySalesReportRepository() *MemorySalesReportRepository {
	return &MemorySalesReportRepository{reports: make(map[primitive.ObjectID]models.SalesReport)}
}

func (r *MemorySalesReportRepository) Insert(_ context.Context, report *models.SalesReport) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	r.reports[report.ID] = *report
	return report.ID, nil
}

func (r *MemorySalesReportRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.SalesReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if report, ok := r.reports[id]; ok {
		return &report, nil
	}
	return nil, nil
}

func (r *MemorySalesReportRepository) FindPending(_ context.Context) ([]models.SalesReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pending []models.SalesReport
	for _, report := range r.reports {
		if report.Status == models.StatusPending {
			pending = append(pending, report)
		}
	}
	return pending, nil
}

func (r *MemorySalesReportRepository) FindByBDEIDs(_ context.Context, bdeIDs []primitive.ObjectID) ([]models.SalesReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[primitive.ObjectID]struct{}, len(bdeIDs))
	for _, id := range bdeIDs {
		ids[id] = struct{}{}
	}

	var matched []models.SalesReport
	for _, report := range r.reports {
		if _, ok := ids[report.BDEID]; ok {
			matched = append(matched, report)
		}
	}
	return matched, nil
}

func (r *MemorySalesReportRepository) Approve(_ context.Context, id, approvedBy primitive.ObjectID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report, ok := r.reports[id]
	if !ok || report.Status != models.StatusPending {
		return false, nil
	}
	report.Status = models.StatusApproved
	report.ApprovedBy = &approvedBy
	approvedAt := at
	report.ApprovedAt = &approvedAt
	report.UpdatedAt = at
	r.reports[id] = report
	return true, nil
}

func (r *MemorySalesReportRepository) SumApprovedPoints(_ context.Context, from, to time.Time, bdeIDs []primitive.ObjectID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[primitive.ObjectID]struct{}, len(bdeIDs))
	for _, id := range bdeIDs {
		ids[id] = struct{}{}
	}

	total := 0
	for _, report := range r.reports {
		if report.Status != models.StatusApproved {
			continue
		}
		if _, ok := ids[report.BDEID]; !ok {
			continue
		}
		if report.CreatedAt.Before(from) || !report.CreatedAt.Before(to) {
			continue
		}
		total += report.Points
	}
	return total, nil
}

type MemoryVerificationReportRepository struct {
	mu      sync.Mutex
	reports map[primitive.ObjectID]models.VerificationReport
}

func NewMemoryVerificationReportRepository() *MemoryVerificationReportRepository {
	return &MemoryVerificationReportRepository{reports: make(map[primitive.ObjectID]models.VerificationReport)}
}

func (r *MemoryVerificationReportRepository) Insert(_ context.Context, report *models.VerificationReport) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	r.reports[report.ID] = *report
	return report.ID, nil
}

func (r *MemoryVerificationReportRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.VerificationReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if report, ok := r.reports[id]; ok {
		return &report, nil
	}
	return nil, nil
}

func (r *MemoryVerificationReportRepository) FindPending(_ context.Context) ([]models.VerificationReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pending []models.VerificationReport
	for _, report := range r.reports {
		if report.Status == models.StatusPending {
			pending = append(pending, report)
		}
	}
	return pending, nil
}

func (r *MemoryVerificationReportRepository) FindByBDEIDs(_ context.Context, bdeIDs []primitive.ObjectID) ([]models.VerificationReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[primitive.ObjectID]struct{}, len(bdeIDs))
	for _, id := range bdeIDs {
		ids[id] = struct{}{}
	}

	var matched []models.VerificationReport
	for _, report := range r.reports {
		if _, ok := ids[report.BDEID]; ok {
			matched = append(matched, report)
		}
	}
	return matched, nil
}

func (r *MemoryVerificationReportRepository) Approve(_ context.Context, id, approvedBy primitive.ObjectID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report, ok := r.reports[id]
	if !ok || report.Status != models.StatusPending {
		return false, nil
	}
	report.Status = models.StatusApproved
	report.ApprovedBy = &approvedBy
	approvedAt := at
	report.ApprovedAt = &approvedAt
	report.UpdatedAt = at
	r.reports[id] = report
	return true, nil
}

func (r *MemoryVerificationReportRepository) Reject(_ context.Context, id, rejectedBy primitive.ObjectID, reason string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report, ok := r.reports[id]
	if !ok || report.Status != models.StatusPending {
		return false, nil
	}
	report.Status = models.StatusRejected
	report.RejectedBy = &rejectedBy
	rejectedAt := at
	report.RejectedAt = &rejectedAt
	report.RejectionReason = reason
	report.UpdatedAt = at
	r.reports[id] = report
	return true, nil
}

type attendanceKey struct {
	employeeID primitive.ObjectID
	day        string
}

type MemoryAttendanceRepository struct {
	mu      sync.Mutex
	records map[attendanceKey]models.AttendanceRecord
}

func NewMemoryAttendanceRepository() *MemoryAttendanceRepository {
	return &MemoryAttendanceRepository{records: make(map[attendanceKey]models.AttendanceRecord)}
}

func (r *MemoryAttendanceRepository) UpsertLogin(_ context.Context, employeeID primitive.ObjectID, day string, loginTime time.Time) (*models.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attendanceKey{employeeID: employeeID, day: day}
	if record, ok := r.records[key]; ok {
		return &record, nil
	}

	record := models.AttendanceRecord{
		ID:         primitive.NewObjectID(),
		EmployeeID: employeeID,
		Day:        day,
		LoginTime:  loginTime,
		CreatedAt:  loginTime,
	}
	r.records[key] = record
	return &record, nil
}

func (r *MemoryAttendanceRepository) CloseOpen(_ context.Context, employeeID primitive.ObjectID, day string, logoutTime time.Time) (*models.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attendanceKey{employeeID: employeeID, day: day}
	record, ok := r.records[key]
	if !ok || record.LogoutTime != nil {
		return nil, nil
	}
	t := logoutTime
	record.LogoutTime = &t
	r.records[key] = record
	return &record, nil
}

func (r *MemoryAttendanceRepository) FindByEmployeeAndDay(_ context.Context, employeeID primitive.ObjectID, day string) (*models.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record, ok := r.records[attendanceKey{employeeID: employeeID, day: day}]; ok {
		return &record, nil
	}
	return nil, nil
}

func (r *MemoryAttendanceRepository) FindByDay(_ context.Context, day string) ([]models.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []models.AttendanceRecord
	for key, record := range r.records {
		if key.day == day {
			records = append(records, record)
		}
	}
	return records, nil
}
