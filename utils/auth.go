// utils/auth.go
package utils

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MHaddad/fieldtrack_backend/apperrors"
	"github.com/MHaddad/fieldtrack_backend/config"
	"github.com/MHaddad/fieldtrack_backend/middleware"
	"github.com/MHaddad/fieldtrack_backend/models"
)

// GetEmployeeFromToken extracts the employee from the JWT token and
// retrieves the full record from the database.
func GetEmployeeFromToken(c echo.Context, db *mongo.Client) (*models.Employee, error) {
	userToken := c.Get("user")
	if userToken == nil {
		return nil, errors.New("no token found")
	}

	token, ok := userToken.(*jwt.Token)
	if !ok {
		return nil, errors.New("invalid token type")
	}

	claims, ok := token.Claims.(*middleware.JwtCustomClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}

	employeeID, err := primitive.ObjectIDFromHex(claims.EmployeeID)
	if err != nil {
		return nil, errors.New("invalid employee ID format")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var employee models.Employee
	err = config.GetCollection(db, "employees").FindOne(ctx, bson.M{"_id": employeeID}).Decode(&employee)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("employee not found")
		}
		return nil, errors.New("error retrieving employee")
	}

	// Never hand the password hash back to callers
	employee.Password = ""

	return &employee, nil
}

// GetActorFromToken builds the acting identity from the JWT claims
// without touching the database. Failures carry KindUnauthorized so
// handlers answer 401, not a masked 500.
func GetActorFromToken(c echo.Context) (models.Actor, error) {
	userToken := c.Get("user")
	if userToken == nil {
		return models.Actor{}, apperrors.New(apperrors.KindUnauthorized, "no token in request context")
	}

	token, ok := userToken.(*jwt.Token)
	if !ok {
		return models.Actor{}, apperrors.New(apperrors.KindUnauthorized, "invalid token type")
	}

	claims, ok := token.Claims.(*middleware.JwtCustomClaims)
	if !ok {
		return models.Actor{}, apperrors.New(apperrors.KindUnauthorized, "invalid claims type")
	}

	id, err := primitive.ObjectIDFromHex(claims.EmployeeID)
	if err != nil {
		return models.Actor{}, apperrors.New(apperrors.KindUnauthorized, "invalid employee ID in token")
	}

	return models.Actor{ID: id, Role: claims.Role}, nil
}

// GetEmployeeIDFromToken extracts the employee ID from the JWT token.
func GetEmployeeIDFromToken(c echo.Context) (primitive.ObjectID, error) {
	actor, err := GetActorFromToken(c)
	if err != nil {
		return primitive.ObjectID{}, err
	}
	return actor.ID, nil
}
