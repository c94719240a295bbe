package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VerificationReport records a merchant verification visit submitted
// by a BDE. Rejected reports are kept as history; a resubmission
// enters as a brand-new pending report linked through ResubmissionOf.
type VerificationReport struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	BDEID           primitive.ObjectID  `json:"bdeId" bson:"bdeId"`
	ShopName        string              `json:"shopName" bson:"shopName"`
	OwnerName       string              `json:"ownerName" bson:"ownerName"`
	Address         string              `json:"address" bson:"address"`
	PhoneNumber     string              `json:"phoneNumber" bson:"phoneNumber"`
	Status          string              `json:"status" bson:"status"`
	ApprovedBy      *primitive.ObjectID `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	ApprovedAt      *time.Time          `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	RejectedBy      *primitive.ObjectID `json:"rejectedBy,omitempty" bson:"rejectedBy,omitempty"`
	RejectedAt      *time.Time          `json:"rejectedAt,omitempty" bson:"rejectedAt,omitempty"`
	RejectionReason string              `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	ResubmissionOf  *primitive.ObjectID `json:"resubmissionOf,omitempty" bson:"resubmissionOf,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// VerificationReportRequest is the BDE payload for submitting (or
// resubmitting) a merchant verification.
type VerificationReportRequest struct {
	ShopName    string `json:"shopName" validate:"required"`
	OwnerName   string `json:"ownerName" validate:"required"`
	Address     string `json:"address" validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
}

// RejectReportRequest carries the mandatory rejection reason.
type RejectReportRequest struct {
	Reason string `json:"reason" validate:"required"`
}
