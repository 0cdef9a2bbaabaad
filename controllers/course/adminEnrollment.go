package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/tracker"
)

// AdminGetCourseEnrollments lists enrollments of a course
func AdminGetCourseEnrollments(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"course":      course,
		"enrollments": enrollments,
	})
}

// AdminGetEnrollment fetches one enrollment by (user, course)
func AdminGetEnrollment(c *fiber.Ctx) error {
	targetUserID := c.Locals("targetUserID").(int)
	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", targetUserID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", enrollment)
}

// AdminUpdateEnrollment is the raw-edit escape hatch; it overwrites fields
// without rederiving progress from the completed-lesson count. Every call is
// audit-logged by the tracker.
func AdminUpdateEnrollment(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetUserID := c.Locals("targetUserID").(int)
	courseID := c.Locals("courseID").(int)
	fields := c.Locals("validatedEnrollmentUpdate").(tracker.AdminFields)

	enrollment, err := tracker.New(database.Database.Db).AdminUpdate(uint(targetUserID), uint(courseID), adminID, fields)
	if err != nil {
		switch {
		case errors.Is(err, tracker.ErrEnrollmentNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		case errors.Is(err, tracker.ErrInvalidTransition):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown enrollment status!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment updated successfully!", enrollment)
}

// AdminCompleteEnrollment force-completes an enrollment
func AdminCompleteEnrollment(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetUserID := c.Locals("targetUserID").(int)
	courseID := c.Locals("courseID").(int)

	enrollment, err := tracker.New(database.Database.Db).CompleteCourse(uint(targetUserID), uint(courseID), adminID)
	if err != nil {
		if errors.Is(err, tracker.ErrEnrollmentNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment marked as completed!", enrollment)
}

// AdminDeleteEnrollment removes an enrollment permanently. This is the only
// path that deletes an enrollment; it cascades nothing else.
func AdminDeleteEnrollment(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if err := database.Database.Db.Unscoped().Delete(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment deleted successfully!", nil)
}

// AdminGetEnrollmentAudits lists the audit trail of privileged enrollment edits
func AdminGetEnrollmentAudits(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(int)

	var audits []models.EnrollmentAudit
	if err := database.Database.Db.Where("enrollment_id = ?", enrollmentID).
		Order("created_at desc").Find(&audits).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch audit log!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Audit log fetched successfully!", audits)
}
