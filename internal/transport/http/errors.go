package handlers

import (
	"net/http"

	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

var statusByError = []struct {
	err    error
	status int
}{
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrCourseNotFound, http.StatusNotFound},
	{domain.ErrVideoNotFound, http.StatusNotFound},
	{domain.ErrPDFNotFound, http.StatusNotFound},
	{domain.ErrQuizNotFound, http.StatusNotFound},
	{domain.ErrQuestionNotFound, http.StatusNotFound},
	{domain.ErrOptionNotFound, http.StatusNotFound},
	{domain.ErrCertificateNotFound, http.StatusNotFound},
	{domain.ErrNoAttempts, http.StatusNotFound},
	{domain.ErrNoProgress, http.StatusNotFound},

	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrInvalidToken, http.StatusUnauthorized},

	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotEnrolled, http.StatusForbidden},
	{domain.ErrCourseInactive, http.StatusForbidden},
	{domain.ErrUserInactive, http.StatusForbidden},

	{domain.ErrUserAlreadyExists, http.StatusConflict},
	{domain.ErrSectionTaken, http.StatusConflict},
	{domain.ErrAttemptConflict, http.StatusConflict},
	{domain.ErrQuestionClosed, http.StatusConflict},

	{domain.ErrAttemptsExhausted, http.StatusUnprocessableEntity},
	{domain.ErrNotEligible, http.StatusUnprocessableEntity},
	{domain.ErrQuizInactive, http.StatusUnprocessableEntity},

	{domain.ErrTooManyAttempts, http.StatusTooManyRequests},
}

// statusOf maps a use case error to an HTTP status, 500 when unknown.
func statusOf(err error) int {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", err, "method", c.Request.Method, "path", c.FullPath())
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(status, gin.H{"error": verr.Error(), "field": verr.Field})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
