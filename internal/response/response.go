// Package response is the single seam through which every externally
// triggered operation passes: one transaction per unit of work, a uniform
// success envelope, and a closed error-category-to-status-code mapping.
package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/room911/access-api/internal/apperrors"
	"github.com/room911/access-api/pkg/logger"
	"gorm.io/gorm"
)

// Result is the structured outcome of a successful unit of work.
type Result struct {
	Data    any
	Message string
	Code    int
}

// UnitOfWork runs inside the wrapper's transaction. Returning an error rolls
// the transaction back; no nested or partial commits exist.
type UnitOfWork func(tx *gorm.DB) (*Result, error)

// Execute opens a store transaction, runs unit, and renders the uniform
// envelope. On success the transaction commits and the body carries
// state=true with the unit's message, data and intended status code. On
// failure the transaction rolls back, the error is reported for diagnostics,
// and the category's fixed status code is returned with state=false and the
// fallback message.
func Execute(c *gin.Context, db *gorm.DB, fallback string, unit UnitOfWork) {
	var res *Result
	err := db.Transaction(func(tx *gorm.DB) error {
		out, err := unit(tx)
		if err != nil {
			return err
		}
		if out == nil {
			return errors.New("unit of work returned no result")
		}
		res = out
		return nil
	})

	if err != nil {
		report(c, err)
		status, prefix := categorize(err)
		c.JSON(status, gin.H{
			"state":   false,
			"message": fallback,
			"error":   prefix + ": " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.JSON(res.Code, gin.H{
		"state":   true,
		"message": res.Message,
		"data":    res.Data,
	})
}

// Success renders a hand-built success envelope outside the wrapper.
func Success(c *gin.Context, data any, message string, status int) {
	c.JSON(status, gin.H{
		"state":   true,
		"message": message,
		"data":    data,
	})
}

// Error renders a hand-built error envelope outside the wrapper.
func Error(c *gin.Context, message string, status int) {
	c.JSON(status, gin.H{
		"state": false,
		"error": message,
	})
}

// categorize maps the closed failure taxonomy to fixed status codes.
// Validation and authorization deliberately share 403.
func categorize(err error) (int, string) {
	var (
		validationErr   *apperrors.ValidationError
		invalidFieldErr *apperrors.InvalidFieldError
		queryErr        *apperrors.QueryError
		authzErr        *apperrors.AuthorizationError
		methodErr       *apperrors.MethodNotAllowedError
		rateErr         *apperrors.RateLimitError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &invalidFieldErr):
		return http.StatusForbidden, "Validation error"
	case errors.As(err, &queryErr), errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusInternalServerError, "Database query error"
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.As(err, &authzErr), errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusForbidden, "Unauthorized"
	case errors.As(err, &methodErr):
		return http.StatusMethodNotAllowed, "Method not allowed"
	case errors.As(err, &rateErr):
		return http.StatusTooManyRequests, "Too many requests"
	default:
		return http.StatusInternalServerError, "An error occurred"
	}
}

// report emits the diagnostic record for a failed unit of work before the
// caller-safe envelope is rendered.
func report(c *gin.Context, err error) {
	logger.Error("request failed",
		slog.String("method", c.Request.Method),
		slog.String("path", c.FullPath()),
		slog.String("error", err.Error()),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
}
