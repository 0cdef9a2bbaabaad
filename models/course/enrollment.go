package course

import (
	"time"

	"gorm.io/gorm"
)

// EnrollmentStatus is the closed lifecycle of an enrollment.
type EnrollmentStatus string

const (
	StatusNotStarted   EnrollmentStatus = "NOT_STARTED"
	StatusInProgress   EnrollmentStatus = "IN_PROGRESS"
	StatusCompleted    EnrollmentStatus = "COMPLETED"
	StatusTimedOut     EnrollmentStatus = "TIMED_OUT"
	StatusDiscontinued EnrollmentStatus = "DISCONTINUED"
)

// Valid reports whether s is one of the known statuses.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusTimedOut, StatusDiscontinued:
		return true
	}
	return false
}

// Enrollment tracks one learner's engagement with one course. The compound
// unique index on (user_id, course_id) is the storage-level uniqueness
// guarantee: a learner has at most one enrollment per course.
type Enrollment struct {
	gorm.Model
	UserID       uint             `json:"user_id" gorm:"not null;uniqueIndex:idx_user_course"`
	CourseID     uint             `json:"course_id" gorm:"not null;uniqueIndex:idx_user_course"`
	Status       EnrollmentStatus `json:"status" gorm:"type:varchar(20);default:'NOT_STARTED'"`
	Progress     int              `json:"progress" gorm:"default:0"` // completion percentage (0-100)
	EnrolledAt   time.Time        `json:"enrolled_at"`
	StartedAt    *time.Time       `json:"started_at"`                  // set on first lesson completion, never overwritten
	CompletedAt  *time.Time       `json:"completed_at"`                // set once when progress first reaches 100
	TimeSpent    int              `json:"time_spent" gorm:"default:0"` // cumulative minutes
	BonusAwarded bool             `json:"bonus_awarded" gorm:"default:false"`
	IsDeleted    bool             `gorm:"default:false"`
}

// LessonCompletion is one element of the completed-lesson set. The unique
// index on (user_id, lesson_id) makes recording a completion idempotent at
// the storage layer.
type LessonCompletion struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_user_lesson"`
	LessonID uint `json:"lesson_id" gorm:"not null;uniqueIndex:idx_user_lesson"`
	CourseID uint `json:"course_id" gorm:"index;not null"`
}
