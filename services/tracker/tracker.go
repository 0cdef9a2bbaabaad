package tracker

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lms/models"
	courseModels "lms/models/course"
)

// Points awarded by completion events.
const (
	PointsPerLesson = 10 // each newly recorded lesson completion
	CompletionBonus = 50 // first time an enrollment reaches 100%
)

// Tracker owns the enrollment lifecycle: enrollment creation, lesson
// completion recording, progress/status derivation and point awards. All
// other packages go through it instead of touching enrollment rows.
type Tracker struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Tracker {
	return &Tracker{db: db}
}

// CompletionResult is what one CompleteLesson call produced.
type CompletionResult struct {
	Progress           int                           `json:"progress"`
	Status             courseModels.EnrollmentStatus `json:"status"`
	AwardedPoints      uint                          `json:"awarded_points"`
	CompletedLessonIDs []uint                        `json:"completed_lesson_ids"`
}

// Enroll creates a NOT_STARTED enrollment for (userID, courseID). Duplicate
// attempts fail with ErrAlreadyEnrolled; the unique (user_id, course_id)
// index backstops the existence check, so a concurrent duplicate insert
// surfaces the same error instead of a second row.
func (t *Tracker) Enroll(userID, courseID uint) (*courseModels.Enrollment, error) {
	var course courseModels.Course
	err := t.db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, storageErr(err)
	}

	var existing courseModels.Enrollment
	err = t.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyEnrolled
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageErr(err)
	}

	enrollment := courseModels.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     courseModels.StatusNotStarted,
		Progress:   0,
		EnrolledAt: time.Now(),
	}
	if err := t.db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, storageErr(err)
	}

	return &enrollment, nil
}

// CompleteLesson records lessonID as completed for the enrollment and
// rederives progress, status and point awards. Repeat calls for the same
// lesson are idempotent: they change nothing and award 0 points. The whole
// update runs in one transaction, with the unique (user_id, lesson_id)
// index deciding who recorded a completion first under concurrency.
func (t *Tracker) CompleteLesson(userID, courseID, lessonID uint) (*CompletionResult, error) {
	var enrollment courseModels.Enrollment
	err := t.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, storageErr(err)
	}

	// The lesson must belong to the course; a phantom lesson would inflate
	// the completed-lesson count past the course's lesson total.
	var lesson courseModels.Lesson
	err = t.db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", lessonID, courseID, false, true).First(&lesson).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, storageErr(err)
	}

	result := &CompletionResult{}
	err = t.db.Transaction(func(tx *gorm.DB) error {
		completion := courseModels.LessonCompletion{
			UserID:   userID,
			LessonID: lessonID,
			CourseID: courseID,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).Create(&completion)
		if res.Error != nil {
			return res.Error
		}
		newlyCompleted := res.RowsAffected > 0

		if err := tx.Where("id = ?", enrollment.ID).First(&enrollment).Error; err != nil {
			return err
		}

		if newlyCompleted {
			var total, completed int64
			if err := tx.Model(&courseModels.Lesson{}).
				Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
				Count(&total).Error; err != nil {
				return err
			}
			if err := tx.Model(&courseModels.LessonCompletion{}).
				Where("user_id = ? AND course_id = ?", userID, courseID).
				Count(&completed).Error; err != nil {
				return err
			}

			progress := 0
			if total > 0 {
				progress = int(math.Round(float64(completed) / float64(total) * 100))
			}
			if progress > 100 {
				progress = 100
			}

			now := time.Now()
			awarded := uint(PointsPerLesson)

			if enrollment.StartedAt == nil {
				enrollment.StartedAt = &now
			}
			if progress >= 100 {
				enrollment.Progress = 100
				enrollment.Status = courseModels.StatusCompleted
				if enrollment.CompletedAt == nil {
					enrollment.CompletedAt = &now
				}
				if !enrollment.BonusAwarded {
					enrollment.BonusAwarded = true
					awarded += CompletionBonus
				}
			} else if enrollment.Status != courseModels.StatusCompleted {
				enrollment.Progress = progress
				enrollment.Status = courseModels.StatusInProgress
			}

			if err := tx.Save(&enrollment).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				UpdateColumn("points", gorm.Expr("points + ?", awarded)).Error; err != nil {
				return err
			}
			result.AwardedPoints = awarded
		}

		result.Progress = enrollment.Progress
		result.Status = enrollment.Status

		// Read the completed set inside the same transaction so it cannot
		// drift from the progress returned alongside it.
		return tx.Model(&courseModels.LessonCompletion{}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Order("lesson_id asc").
			Pluck("lesson_id", &result.CompletedLessonIDs).Error
	})
	if err != nil {
		return nil, storageErr(err)
	}

	return result, nil
}

// CompleteCourse force-sets the enrollment to COMPLETED/100, bypassing the
// lesson-count derivation. Admin-only override path; audited. The +50 bonus
// is granted at most once per enrollment, here or via CompleteLesson.
func (t *Tracker) CompleteCourse(userID, courseID, adminID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := t.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, storageErr(err)
	}

	err = t.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		enrollment.Status = courseModels.StatusCompleted
		enrollment.Progress = 100
		if enrollment.CompletedAt == nil {
			enrollment.CompletedAt = &now
		}
		if enrollment.StartedAt == nil {
			enrollment.StartedAt = &now
		}

		var bonus uint
		if !enrollment.BonusAwarded {
			enrollment.BonusAwarded = true
			bonus = CompletionBonus
		}

		if err := tx.Save(&enrollment).Error; err != nil {
			return err
		}
		if bonus > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				UpdateColumn("points", gorm.Expr("points + ?", bonus)).Error; err != nil {
				return err
			}
		}

		return t.audit(tx, enrollment.ID, adminID, models.AuditForceComplete, map[string]interface{}{
			"status":   enrollment.Status,
			"progress": enrollment.Progress,
		})
	})
	if err != nil {
		return nil, storageErr(err)
	}

	return &enrollment, nil
}

// AdminFields is the raw-edit payload for AdminUpdate. Nil fields are left
// untouched.
type AdminFields struct {
	Status           *courseModels.EnrollmentStatus
	Progress         *int
	StartedAt        *time.Time
	CompletedAt      *time.Time
	TimeSpent        *int
	CompletedLessons *[]uint // replaces the completed-lesson set wholesale
}

// AdminUpdate overwrites enrollment fields directly, without rederiving the
// progress/status/lesson-count invariant. This is a deliberate escape hatch
// reachable only by privileged callers; every call writes an audit row.
func (t *Tracker) AdminUpdate(userID, courseID, adminID uint, fields AdminFields) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := t.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, storageErr(err)
	}

	changes := map[string]interface{}{}
	if fields.Status != nil {
		if !fields.Status.Valid() {
			return nil, ErrInvalidTransition
		}
		enrollment.Status = *fields.Status
		changes["status"] = *fields.Status
	}
	if fields.Progress != nil {
		enrollment.Progress = *fields.Progress
		changes["progress"] = *fields.Progress
	}
	if fields.StartedAt != nil {
		enrollment.StartedAt = fields.StartedAt
		changes["started_at"] = *fields.StartedAt
	}
	if fields.CompletedAt != nil {
		enrollment.CompletedAt = fields.CompletedAt
		changes["completed_at"] = *fields.CompletedAt
	}
	if fields.TimeSpent != nil {
		enrollment.TimeSpent = *fields.TimeSpent
		changes["time_spent"] = *fields.TimeSpent
	}

	err = t.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&enrollment).Error; err != nil {
			return err
		}
		if fields.CompletedLessons != nil {
			// hard delete: a soft-deleted row would still hold the unique index
			if err := tx.Unscoped().Where("user_id = ? AND course_id = ?", userID, courseID).
				Delete(&courseModels.LessonCompletion{}).Error; err != nil {
				return err
			}
			for _, lessonID := range *fields.CompletedLessons {
				if err := tx.Create(&courseModels.LessonCompletion{
					UserID:   userID,
					LessonID: lessonID,
					CourseID: courseID,
				}).Error; err != nil {
					return err
				}
			}
			changes["completed_lessons"] = *fields.CompletedLessons
		}
		return t.audit(tx, enrollment.ID, adminID, models.AuditAdminOverride, changes)
	})
	if err != nil {
		return nil, storageErr(err)
	}

	return &enrollment, nil
}

// Discontinue is the learner-initiated drop. Completed, timed-out and
// already discontinued enrollments cannot be dropped.
func (t *Tracker) Discontinue(userID, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := t.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, storageErr(err)
	}

	if enrollment.Status != courseModels.StatusNotStarted && enrollment.Status != courseModels.StatusInProgress {
		return nil, ErrInvalidTransition
	}

	enrollment.Status = courseModels.StatusDiscontinued
	if err := t.db.Save(&enrollment).Error; err != nil {
		return nil, storageErr(err)
	}

	return &enrollment, nil
}

// RecordTime adds minutes to the enrollment's cumulative time. TimeSpent is
// monotonically non-decreasing, so negative deltas are rejected.
func (t *Tracker) RecordTime(userID, courseID uint, minutes int) (*courseModels.Enrollment, error) {
	if minutes < 0 {
		return nil, ErrInvalidDuration
	}

	var enrollment courseModels.Enrollment
	err := t.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, storageErr(err)
	}

	// Update (not UpdateColumn) so updated_at moves: recording time is
	// activity and must keep the enrollment out of the timeout sweep.
	if err := t.db.Model(&enrollment).
		Update("time_spent", gorm.Expr("time_spent + ?", minutes)).Error; err != nil {
		return nil, storageErr(err)
	}
	enrollment.TimeSpent += minutes

	return &enrollment, nil
}

// SweepTimeouts marks enrollments with no activity since the cutoff as
// TIMED_OUT. One conditional UPDATE; returns the number of rows changed.
func (t *Tracker) SweepTimeouts(maxIdle time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxIdle)

	res := t.db.Model(&courseModels.Enrollment{}).
		Where("status IN ? AND is_deleted = ? AND updated_at < ?",
			[]courseModels.EnrollmentStatus{courseModels.StatusNotStarted, courseModels.StatusInProgress},
			false, cutoff).
		Update("status", courseModels.StatusTimedOut)
	if res.Error != nil {
		return 0, storageErr(res.Error)
	}

	return res.RowsAffected, nil
}

func (t *Tracker) audit(tx *gorm.DB, enrollmentID, adminID uint, kind models.AuditKind, changes map[string]interface{}) error {
	payload, err := json.Marshal(changes)
	if err != nil {
		return err
	}
	return tx.Create(&models.EnrollmentAudit{
		EnrollmentID: enrollmentID,
		AdminID:      adminID,
		Kind:         kind,
		Changes:      datatypes.JSON(payload),
	}).Error
}
