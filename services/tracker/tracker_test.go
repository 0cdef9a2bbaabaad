package tracker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// A second pooled connection to :memory: would see a fresh database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models()...))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{Name: "Test Learner", Email: email, Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	return user
}

func seedCourse(t *testing.T, db *gorm.DB, lessonCount int) (courseModels.Course, []courseModels.Lesson) {
	t.Helper()

	course := courseModels.Course{Title: "Test Course", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	lessons := make([]courseModels.Lesson, lessonCount)
	for i := range lessons {
		lessons[i] = courseModels.Lesson{
			CourseID:    course.ID,
			Title:       fmt.Sprintf("Lesson %d", i+1),
			OrderIndex:  i,
			IsPublished: true,
		}
		require.NoError(t, db.Create(&lessons[i]).Error)
	}

	return course, lessons
}

func userPoints(t *testing.T, db *gorm.DB, userID uint) uint {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, userID).Error)

	return user.Points
}

func TestEnroll(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")
	course, _ := seedCourse(t, db, 3)

	enrollment, err := tr.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusNotStarted, enrollment.Status)
	assert.Equal(t, 0, enrollment.Progress)
	assert.False(t, enrollment.EnrolledAt.IsZero())
	assert.Nil(t, enrollment.StartedAt)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestEnrollDuplicateFails(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")
	course, _ := seedCourse(t, db, 2)

	_, err := tr.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	_, err = tr.Enroll(user.ID, course.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestEnrollUnknownCourse(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")

	_, err := tr.Enroll(user.ID, 999)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestEnrollUnpublishedCourse(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")

	course := courseModels.Course{Title: "Draft", IsPublished: false}
	require.NoError(t, db.Create(&course).Error)

	_, err := tr.Enroll(user.ID, course.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCompleteLessonWithoutEnrollment(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")
	course, lessons := seedCourse(t, db, 2)

	_, err := tr.CompleteLesson(user.ID, course.ID, lessons[0].ID)
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func TestCompleteLessonMembershipValidated(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")
	course, _ := seedCourse(t, db, 2)
	_, otherLessons := seedCourse(t, db, 1)

	_, err := tr.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	// a lesson from another course must not count toward this enrollment
	_, err = tr.CompleteLesson(user.ID, course.ID, otherLessons[0].ID)
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestThreeLessonScenario(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")
	course, lessons := seedCourse(t, db, 3)

	_, err := tr.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	res, err := tr.CompleteLesson(user.ID, course.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 33, res.Progress)
	assert.Equal(t, courseModels.StatusInProgress, res.Status)
	assert.Equal(t, uint(10), res.AwardedPoints)

	res, err = tr.CompleteLesson(user.ID, course.ID, lessons[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 67, res.Progress)
	assert.Equal(t, courseModels.StatusInProgress, res.Status)
	assert.Equal(t, uint(10), res.AwardedPoints)

	res, err = tr.CompleteLesson(user.ID, course.ID, lessons[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Progress)
	assert.Equal(t, courseModels.StatusCompleted, res.Status)
	assert.Equal(t, uint(60), res.AwardedPoints)
	assert.Equal(t, []uint{lessons[0].ID, lessons[1].ID, lessons[2].ID}, res.CompletedLessonIDs)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.NotNil(t, enrollment.StartedAt)
	assert.NotNil(t, enrollment.CompletedAt)

	// 10 + 10 + (10 + 50) across all three calls
	assert.Equal(t, uint(80), userPoints(t, db, user.ID))
}

func TestTwoLessonPointTotal(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")
	course, lessons := seedCourse(t, db, 2)

	_, err := tr.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	res, err := tr.CompleteLesson(user.ID, course.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Progress)

	res, err = tr.CompleteLesson(user.ID, course.ID, lessons[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Progress)
	assert.Equal(t, courseModels.StatusCompleted, res.Status)

	assert.Equal(t, uint(70), userPoints(t, db, user.ID))
}

func TestCompleteLessonIdempotent(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")
	course, lessons := seedCourse(t, db, 2)

	_, err := tr.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	first, err := tr.CompleteLesson(user.ID, course.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, uint(10), first.AwardedPoints)

	second, err := tr.CompleteLesson(user.ID, course.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, uint(0), second.AwardedPoints)
	assert.Equal(t, first.Progress, second.Progress)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, []uint{lessons[0].ID}, second.CompletedLessonIDs)

	// no double count in the completed set, no double award
	var completions int64
	require.NoError(t, db.Model(&courseModels.LessonCompletion{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&completions).Error)
	assert.Equal(t, int64(1), completions)
	assert.Equal(t, uint(10), userPoints(t, db, user.ID))
}

func TestStatusMonotonicAfterCompletion(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")
	admin := seedUser(t, db, "admin@example.com")
	course, lessons := seedCourse(t, db, 2)

	_, err := tr.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	forced, err := tr.CompleteCourse(user.ID, course.ID, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, forced.CompletedAt)
	completedAt := *forced.CompletedAt

	// completing a remaining lesson must not move status away from COMPLETED
	res, err := tr.CompleteLesson(user.ID, course.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusCompleted, res.Status)
	assert.Equal(t, uint(10), res.AwardedPoints) // bonus already latched, lesson points only

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.StatusCompleted, enrollment.Status)
	require.NotNil(t, enrollment.CompletedAt)
	assert.WithinDuration(t, completedAt, *enrollment.CompletedAt, time.Second)
}

func TestCompleteCourseBonusOnce(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")
	admin := seedUser(t, db, "admin@example.com")
	course, _ := seedCourse(t, db, 2)

	_, err := tr.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	_, err = tr.CompleteCourse(user.ID, course.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(50), userPoints(t, db, user.ID))

	// a second override must not pay the bonus again
	_, err = tr.CompleteCourse(user.ID, course.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(50), userPoints(t, db, user.ID))

	var audits int64
	require.NoError(t, db.Model(&models.EnrollmentAudit{}).
		Where("kind = ?", models.AuditForceComplete).Count(&audits).Error)
	assert.Equal(t, int64(2), audits)
}

func TestAdminUpdateBypassesDerivation(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")
	admin := seedUser(t, db, "admin@example.com")
	course, lessons := seedCourse(t, db, 4)

	_, err := tr.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	status := courseModels.StatusInProgress
	progress := 42
	timeSpent := 17
	completed := []uint{lessons[0].ID, lessons[1].ID}
	updated, err := tr.AdminUpdate(user.ID, course.ID, admin.ID, AdminFields{
		Status:           &status,
		Progress:         &progress,
		TimeSpent:        &timeSpent,
		CompletedLessons: &completed,
	})
	require.NoError(t, err)

	// raw overwrite: 42 stands even though 2/4 lessons would derive to 50
	assert.Equal(t, 42, updated.Progress)
	assert.Equal(t, courseModels.StatusInProgress, updated.Status)
	assert.Equal(t, 17, updated.TimeSpent)

	var completions int64
	require.NoError(t, db.Model(&courseModels.LessonCompletion{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&completions).Error)
	assert.Equal(t, int64(2), completions)

	var audit models.EnrollmentAudit
	require.NoError(t, db.Where("kind = ?", models.AuditAdminOverride).First(&audit).Error)
	assert.Equal(t, admin.ID, audit.AdminID)
	assert.NotEmpty(t, audit.Changes)
}

func TestAdminUpdateRejectsUnknownStatus(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")
	admin := seedUser(t, db, "admin@example.com")
	course, _ := seedCourse(t, db, 1)

	_, err := tr.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	bogus := courseModels.EnrollmentStatus("PAUSED")
	_, err = tr.AdminUpdate(user.ID, course.ID, admin.ID, AdminFields{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDiscontinue(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")
	admin := seedUser(t, db, "admin@example.com")
	course, _ := seedCourse(t, db, 2)

	_, err := tr.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	enrollment, err := tr.Discontinue(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusDiscontinued, enrollment.Status)

	// completed enrollments cannot be dropped
	_, err = tr.CompleteCourse(user.ID, course.ID, admin.ID)
	require.NoError(t, err)
	_, err = tr.Discontinue(user.ID, course.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRecordTime(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")
	course, _ := seedCourse(t, db, 1)

	_, err := tr.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	_, err = tr.RecordTime(user.ID, course.ID, -5)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	enrollment, err := tr.RecordTime(user.ID, course.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, enrollment.TimeSpent)

	enrollment, err = tr.RecordTime(user.ID, course.ID, 15)
	require.NoError(t, err)
	assert.Equal(t, 45, enrollment.TimeSpent)
}

func TestRecordTimeCountsAsActivity(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")
	course, _ := seedCourse(t, db, 2)

	_, err := tr.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	// age the enrollment past the cutoff, then record study time
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		UpdateColumn("updated_at", stale).Error)

	_, err = tr.RecordTime(user.ID, course.ID, 30)
	require.NoError(t, err)

	// recording time is activity, so the sweep must not touch this row
	swept, err := tr.SweepTimeouts(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), swept)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.StatusNotStarted, enrollment.Status)
	assert.Equal(t, 30, enrollment.TimeSpent)
}

func TestSweepTimeouts(t *testing.T) {
	db := setupDB(t)
	tr := New(db)
	user := seedUser(t, db, "learner@example.com")
	other := seedUser(t, db, "other@example.com")
	admin := seedUser(t, db, "admin@example.com")
	course, _ := seedCourse(t, db, 2)

	_, err := tr.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	_, err = tr.Enroll(other.ID, course.ID)
	require.NoError(t, err)
	_, err = tr.CompleteCourse(other.ID, course.ID, admin.ID)
	require.NoError(t, err)

	// age both rows past the cutoff; UpdateColumn keeps updated_at untouched
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Model(&courseModels.Enrollment{}).
		Where("course_id = ?", course.ID).
		UpdateColumn("updated_at", stale).Error)

	swept, err := tr.SweepTimeouts(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	var swept1 courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&swept1).Error)
	assert.Equal(t, courseModels.StatusTimedOut, swept1.Status)

	// completed enrollments are never timed out
	var kept courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", other.ID, course.ID).First(&kept).Error)
	assert.Equal(t, courseModels.StatusCompleted, kept.Status)
}
