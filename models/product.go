package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a sellable item carrying a point value. Sales reports
// snapshot Points at creation time, so changing a product's points
// never rewrites historical reports.
type Product struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Points    int                `json:"points" bson:"points"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ProductRequest is the admin payload for creating or updating a product.
type ProductRequest struct {
	Name   string `json:"name" validate:"required"`
	Points int    `json:"points" validate:"gte=0"`
}
