// models/auth.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Actor is the already-authenticated caller of a domain operation,
// as extracted from the JWT by the transport layer. The core only
// branches on its role; credential checks happen upstream.
type Actor struct {
	ID   primitive.ObjectID
	Role string
}

// LoginRequest is the credential payload for /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// RecordAttendance asks the server to also register today's
	// attendance login for the employee.
	RecordAttendance bool `json:"recordAttendance,omitempty"`
}

// LoginResponse returns the issued tokens and the employee profile.
type LoginResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	Employee     *Employee `json:"employee"`
}
