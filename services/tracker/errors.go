package tracker

import (
	"errors"
	"fmt"
)

// Structured error kinds surfaced to callers. The HTTP layer maps them to
// status codes; nothing here is retried internally.
var (
	ErrAlreadyEnrolled    = errors.New("user already enrolled in this course")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrLessonNotFound     = errors.New("lesson does not belong to this course")
	ErrInvalidTransition  = errors.New("enrollment status does not allow this transition")
	ErrInvalidDuration    = errors.New("time spent can only increase")
)

// storageErr wraps any unexpected database failure so callers can
// distinguish it from the structured kinds above.
func storageErr(err error) error {
	return fmt.Errorf("storage: %w", err)
}
