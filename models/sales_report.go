package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report statuses shared by sales and verification reports.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// SalesReport records one sale submitted by a BDE. Points is a
// snapshot of the product's point value at creation time. Approved
// is a terminal state.
type SalesReport struct {
	ID             primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	BDEID          primitive.ObjectID  `json:"bdeId" bson:"bdeId"`
	ProductID      primitive.ObjectID  `json:"productId" bson:"productId"`
	CustomerName   string              `json:"customerName" bson:"customerName"`
	CustomerMobile string              `json:"customerMobile" bson:"customerMobile"`
	Amount         float64             `json:"amount" bson:"amount"`
	Points         int                 `json:"points" bson:"points"`
	Status         string              `json:"status" bson:"status"`
	ApprovedBy     *primitive.ObjectID `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	ApprovedAt     *time.Time          `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// SalesReportRequest is the BDE payload for submitting a sale.
type SalesReportRequest struct {
	ProductID      string  `json:"productId" validate:"required"`
	CustomerName   string  `json:"customerName" validate:"required"`
	CustomerMobile string  `json:"customerMobile"`
	Amount         float64 `json:"amount" validate:"gte=0"`
}
