package security

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

var allowedContentTypes = map[string]bool{
	"application/json":                  true,
	"application/x-www-form-urlencoded": true,
}

// ValidateContentType rejects mutating requests whose body is not a
// supported content type.
func ValidateContentType() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch {
				return next(c)
			}

			contentType := c.Request().Header.Get(echo.HeaderContentType)
			if contentType == "" {
				return next(c)
			}
			// Strip parameters like "; charset=utf-8"
			if idx := strings.Index(contentType, ";"); idx >= 0 {
				contentType = contentType[:idx]
			}
			contentType = strings.TrimSpace(strings.ToLower(contentType))

			if !allowedContentTypes[contentType] {
				return echo.NewHTTPError(http.StatusUnsupportedMediaType, "Unsupported content type")
			}
			return next(c)
		}
	}
}
