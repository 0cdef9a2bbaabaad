package controllers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/services/tracker"
)

// SubmitQuizAttempt scores a quiz submission against the stored answer key.
// A passing attempt also marks the quiz's lesson as completed, which feeds
// the enrollment progress like any other lesson completion.
func SubmitQuizAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	quizID := c.Locals("quizID").(int)

	// Check enrollment
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not enrolled in this course!", nil)
	}

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", quizID, courseID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	reqData, ok := c.Locals("validatedQuizAttempt").(*struct {
		Answers []int `json:"answers"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var questions []courseModels.QuizQuestion
	if err := json.Unmarshal(quiz.Questions, &questions); err != nil || len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Quiz has no questions!", nil)
	}

	if len(reqData.Answers) != len(questions) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Answer count does not match question count!", nil)
	}

	score := 0
	for i, q := range questions {
		if reqData.Answers[i] == q.AnswerIndex {
			score++
		}
	}

	// Get attempt number
	var attemptCount int64
	database.Database.Db.Model(&courseModels.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, quizID, false).
		Count(&attemptCount)

	answersJSON, _ := json.Marshal(reqData.Answers)

	attempt := courseModels.QuizAttempt{
		UserID:        userID,
		QuizID:        uint(quizID),
		Answers:       datatypes.JSON(answersJSON),
		Score:         score,
		MaxScore:      len(questions),
		AttemptNumber: int(attemptCount) + 1,
		CompletedAt:   time.Now(),
	}

	if err := database.Database.Db.Create(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit attempt!", nil)
	}

	passed := score >= quiz.PassScore
	var completion *tracker.CompletionResult
	if passed && quiz.LessonID != 0 {
		if res, err := tracker.New(database.Database.Db).CompleteLesson(userID, uint(courseID), quiz.LessonID); err == nil {
			completion = res
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt submitted!", fiber.Map{
		"attempt":    attempt,
		"passed":     passed,
		"score":      score,
		"max_score":  len(questions),
		"completion": completion,
	})
}
