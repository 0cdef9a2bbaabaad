package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/tracker"
	"lms/utils"
)

// CompleteLesson records a lesson completion and returns the updated
// progress, status and points awarded by this call.
func CompleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	result, err := tracker.New(database.Database.Db).CompleteLesson(userID, uint(courseID), uint(lessonID))
	if err != nil {
		switch {
		case errors.Is(err, tracker.ErrEnrollmentNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Please enroll in this course first!", nil)
		case errors.Is(err, tracker.ErrLessonNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found in this course!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete lesson!", nil)
		}
	}

	if result.Status == courseModels.StatusCompleted && result.AwardedPoints >= tracker.CompletionBonus {
		var user models.User
		var course courseModels.Course
		if database.Database.Db.First(&user, userID).Error == nil &&
			database.Database.Db.First(&course, courseID).Error == nil {
			go utils.SendCompletionEmail(user.Email, user.Name, course.Title)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as completed!", result)
}

// GetUserProgress gets the user's progress in a course
func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not enrolled in this course!", nil)
	}

	var completedIDs []uint
	database.Database.Db.Model(&courseModels.LessonCompletion{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("lesson_id asc").
		Pluck("lesson_id", &completedIDs)

	var totalLessons int64
	database.Database.Db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Count(&totalLessons)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":           enrollment,
		"completed_lesson_ids": completedIDs,
		"total_lessons":        totalLessons,
	})
}

// RecordTimeSpent adds study minutes to the enrollment
func RecordTimeSpent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	minutes := c.Locals("minutes").(int)

	enrollment, err := tracker.New(database.Database.Db).RecordTime(userID, uint(courseID), minutes)
	if err != nil {
		switch {
		case errors.Is(err, tracker.ErrEnrollmentNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		case errors.Is(err, tracker.ErrInvalidDuration):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Minutes must not be negative!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record time!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Time recorded!", enrollment)
}
