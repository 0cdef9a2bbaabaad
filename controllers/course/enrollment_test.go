package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"
)

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// A second pooled connection to :memory: would see a fresh database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models()...))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Post("/course/:id/enroll", middleware.JWTMiddleware, courseValidator.EnrollCourse(), EnrollInCourse)
	app.Post("/course/:id/discontinue", middleware.JWTMiddleware, courseValidator.EnrollCourse(), DiscontinueCourse)
	app.Post("/course/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, courseValidator.LessonAction(), CompleteLesson)
	app.Get("/course/:course_id/progress", middleware.JWTMiddleware, courseValidator.GetCourseProgress(), GetUserProgress)

	return app, db
}

func seedLearner(t *testing.T, db *gorm.DB) (models.User, string) {
	t.Helper()

	user := models.User{Name: "Test Learner", Email: "learner@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, models.RoleLearner, user.Email)
	require.NoError(t, err)

	return user, token
}

func seedPublishedCourse(t *testing.T, db *gorm.DB, price float64, lessonCount int) (courseModels.Course, []courseModels.Lesson) {
	t.Helper()

	course := courseModels.Course{Title: "Test Course", Status: "ACTIVE", Price: price, IsPublished: true}
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

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, apiEnvelope) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

	return resp.StatusCode, envelope
}

func TestEnrollEndpoint(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedLearner(t, db)
	course, _ := seedPublishedCourse(t, db, 0, 2)

	code, envelope := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.True(t, envelope.Status)

	var enrollment courseModels.Enrollment
	require.NoError(t, json.Unmarshal(envelope.Data, &enrollment))
	assert.Equal(t, courseModels.StatusNotStarted, enrollment.Status)
	assert.Equal(t, 0, enrollment.Progress)
}

func TestEnrollEndpointDuplicate(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedLearner(t, db)
	course, _ := seedPublishedCourse(t, db, 0, 2)

	code, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, code)

	code, envelope := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.False(t, envelope.Status)
}

func TestEnrollEndpointPaidCourse(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedLearner(t, db)
	course, _ := seedPublishedCourse(t, db, 499, 2)

	code, envelope := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	assert.Equal(t, fiber.StatusPaymentRequired, code)
	assert.False(t, envelope.Status)
}

func TestEnrollEndpointUnknownCourse(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedLearner(t, db)

	code, _ := doRequest(t, app, "POST", "/course/9999/enroll", token, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestCompleteLessonEndpoint(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedLearner(t, db)
	course, lessons := seedPublishedCourse(t, db, 0, 2)

	code, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, code)

	code, envelope := doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/lesson/%d/complete", course.ID, lessons[0].ID), token, nil)
	require.Equal(t, fiber.StatusOK, code)

	var result struct {
		Progress      int                           `json:"progress"`
		Status        courseModels.EnrollmentStatus `json:"status"`
		AwardedPoints uint                          `json:"awarded_points"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &result))
	assert.Equal(t, 50, result.Progress)
	assert.Equal(t, courseModels.StatusInProgress, result.Status)
	assert.Equal(t, uint(10), result.AwardedPoints)
}

func TestCompleteLessonEndpointWithoutEnrollment(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedLearner(t, db)
	course, lessons := seedPublishedCourse(t, db, 0, 2)

	code, _ := doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/lesson/%d/complete", course.ID, lessons[0].ID), token, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestProgressEndpoint(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedLearner(t, db)
	course, lessons := seedPublishedCourse(t, db, 0, 3)

	code, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, code)
	code, _ = doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/lesson/%d/complete", course.ID, lessons[0].ID), token, nil)
	require.Equal(t, fiber.StatusOK, code)

	code, envelope := doRequest(t, app, "GET", fmt.Sprintf("/course/%d/progress", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, code)

	var progress struct {
		Enrollment         courseModels.Enrollment `json:"enrollment"`
		CompletedLessonIDs []uint                  `json:"completed_lesson_ids"`
		TotalLessons       int64                   `json:"total_lessons"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &progress))
	assert.Equal(t, 33, progress.Enrollment.Progress)
	assert.Equal(t, []uint{lessons[0].ID}, progress.CompletedLessonIDs)
	assert.Equal(t, int64(3), progress.TotalLessons)
}

func TestDiscontinueEndpoint(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedLearner(t, db)
	course, _ := seedPublishedCourse(t, db, 0, 2)

	code, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, code)

	code, envelope := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/discontinue", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, code)

	var enrollment courseModels.Enrollment
	require.NoError(t, json.Unmarshal(envelope.Data, &enrollment))
	assert.Equal(t, courseModels.StatusDiscontinued, enrollment.Status)

	// A discontinued enrollment cannot be discontinued again
	code, _ = doRequest(t, app, "POST", fmt.Sprintf("/course/%d/discontinue", course.ID), token, nil)
	assert.Equal(t, fiber.StatusConflict, code)
}

func TestDiscontinueEndpointWithoutEnrollment(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedLearner(t, db)
	course, _ := seedPublishedCourse(t, db, 0, 2)

	code, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/discontinue", course.ID), token, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}
