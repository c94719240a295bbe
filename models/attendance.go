package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Derived attendance statuses for display.
const (
	AttendanceAbsent   = "Absent"
	AttendanceLoggedIn = "Logged In"
	AttendancePresent  = "Present"
)

// DayFormat is the calendar-day key format for attendance records.
const DayFormat = "2006-01-02"

// AttendanceRecord holds one login/logout session. At most one record
// exists per employee per calendar day; a record without LogoutTime
// is an open session.
type AttendanceRecord struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EmployeeID primitive.ObjectID `json:"employeeId" bson:"employeeId"`
	Day        string             `json:"day" bson:"day"`
	LoginTime  time.Time          `json:"loginTime" bson:"loginTime"`
	LogoutTime *time.Time         `json:"logoutTime,omitempty" bson:"logoutTime,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

// AttendanceStatus derives the display status from a day's record.
func AttendanceStatus(record *AttendanceRecord) string {
	switch {
	case record == nil:
		return AttendanceAbsent
	case record.LogoutTime == nil:
		return AttendanceLoggedIn
	default:
		return AttendancePresent
	}
}

// EmployeeAttendance pairs an employee with the derived status for a day.
type EmployeeAttendance struct {
	EmployeeID primitive.ObjectID `json:"employeeId"`
	FullName   string             `json:"fullName"`
	Role       string             `json:"role"`
	Status     string             `json:"status"`
	Record     *AttendanceRecord  `json:"record,omitempty"`
}
