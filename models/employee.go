// models/employee.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Employee roles, ordered top to bottom of the hierarchy.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleBDM     = "bdm"
	RoleBDE     = "bde"
)

// Employee model. ManagerID and BDMID are the two hierarchy links:
// a manager carries neither, a BDM carries only ManagerID, and a BDE
// may carry both. A BDE's BDMID must reference a BDM in the same
// manager branch.
type Employee struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	FullName     string              `json:"fullName" bson:"fullName"`
	EmployeeCode string              `json:"employeeCode" bson:"employeeCode"`
	Email        string              `json:"email" bson:"email"`
	Password     string              `json:"password,omitempty" bson:"password"`
	PhoneNumber  string              `json:"phoneNumber" bson:"phoneNumber"`
	Role         string              `json:"role" bson:"role"`
	ManagerID    *primitive.ObjectID `json:"managerId,omitempty" bson:"managerId,omitempty"`
	BDMID        *primitive.ObjectID `json:"bdmId,omitempty" bson:"bdmId,omitempty"`
	FCMToken     string              `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	IsActive     bool                `json:"isActive" bson:"isActive"`
	CreatedBy    primitive.ObjectID  `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt    time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// IsValidRole reports whether role is one of the four known roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleBDM, RoleBDE:
		return true
	}
	return false
}

// EmployeeUpdate carries the mutable profile fields of an employee.
// Hierarchy links are never updated through this path.
type EmployeeUpdate struct {
	FullName    string `json:"fullName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Password    string `json:"password,omitempty"`
	FCMToken    string `json:"fcmToken,omitempty"`
}

// CreateEmployeeRequest is the admin payload for registering an employee.
type CreateEmployeeRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role" validate:"required,oneof=admin manager bdm bde"`
}

// AssignManagerRequest assigns an employee under a manager.
type AssignManagerRequest struct {
	ManagerID string `json:"managerId" validate:"required"`
}

// AssignBDMRequest assigns a BDE under a BDM.
type AssignBDMRequest struct {
	BDMID string `json:"bdmId" validate:"required"`
}
