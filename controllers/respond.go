// Package controllers holds the HTTP handlers. They bind and validate
// payloads, resolve the acting employee from the JWT, call into the
// services layer and shape the envelope; domain rules live below.
package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MHaddad/fieldtrack_backend/apperrors"
	"github.com/MHaddad/fieldtrack_backend/models"
)

// respondError maps a service error onto the response envelope. Kinds
// the error taxonomy knows get their HTTP status; anything else is a
// masked 500 so storage errors never leak details.
func respondError(c echo.Context, err error) error {
	status := apperrors.HTTPStatus(err)
	message := "Internal server error"
	if status != http.StatusInternalServerError {
		message = err.Error()
	} else {
		c.Logger().Error(err)
	}

	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
	})
}

func respondOK(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

func respondCreated(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

func respondBadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, models.Response{
		Status:  http.StatusBadRequest,
		Message: message,
	})
}
