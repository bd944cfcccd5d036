// Package response holds the small set of gin helpers every handler in
// internal/httpapi uses to write a body. Unlike the teacher's envelope
// (noah-isme-sma-adp-api/pkg/response/response.go), spec.md §6 mandates
// bare JSON/text bodies with no wrapping envelope, so this package trims
// the teacher's Envelope/Pagination/Meta shape down to that contract while
// keeping the same no-store caching headers and error-to-status mapping.
package response

import (
	"github.com/gin-gonic/gin"

	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

// JSON writes a bare JSON body, per spec.md §6's schemas.
func JSON(c *gin.Context, status int, body interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, body)
}

// Text writes a bare plain-text body, used by GET /v1/health and the
// webhook acknowledgements.
func Text(c *gin.Context, status int, body string) {
	c.Header("Cache-Control", "no-store")
	c.String(status, body)
}

// errorBody is the JSON shape for a failed request.
type errorBody struct {
	Error string `json:"error"`
}

// Error converts err through apperrors.FromError and writes the status
// code mandated by its Kind (spec.md §7) with a {"error": message} body.
func Error(c *gin.Context, err error) {
	appErr := apperrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Kind.HTTPStatus(), errorBody{Error: appErr.Message})
}
