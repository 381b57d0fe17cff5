package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("user with this username or email already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUserInactive        = errors.New("user account is disabled")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrCourseNotFound      = errors.New("course not found")
	ErrCourseInactive      = errors.New("course is disabled")
	ErrVideoNotFound       = errors.New("video not found")
	ErrPDFNotFound         = errors.New("material not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuizInactive        = errors.New("quiz is not active")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrOptionNotFound      = errors.New("option not found")
	ErrSectionTaken        = errors.New("section already has a quiz")
	ErrAttemptsExhausted   = errors.New("no attempts left for this quiz")
	ErrNoAttempts          = errors.New("no attempts yet")
	ErrAttemptConflict     = errors.New("another attempt was submitted at the same time")
	ErrNoProgress          = errors.New("no progress recorded for this course")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrNotEligible         = errors.New("requirements for the certificate are not met")
	ErrNotEnrolled         = errors.New("user is not enrolled in this course")
	ErrForbidden           = errors.New("access denied")
	ErrQuestionClosed      = errors.New("question is closed")
	ErrTooManyAttempts     = errors.New("too many attempts, try again later")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
