package courseValidator

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	courseModels "lms/models/course"
	"lms/services/tracker"
)

// EnrollCourse validates the course ID param for enroll and discontinue
func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// GetUserEnrollments validates pagination for the enrollment list
func GetUserEnrollments() fiber.Handler {
	return paginationMiddleware("validatedEnrollmentList")
}

// GetCourseProgress validates the course ID param for the progress view
func GetCourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// AdminEnrollment validates the user and course ID params on admin
// enrollment routes
func AdminEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		targetUserID, ok := parseIDParam(c, "user_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("targetUserID", targetUserID)
		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// AdminUpdateEnrollment validates the raw enrollment edit payload
func AdminUpdateEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		targetUserID, ok := parseIDParam(c, "user_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Status           *string    `json:"status"`
			Progress         *int       `json:"progress"`
			StartedAt        *time.Time `json:"started_at"`
			CompletedAt      *time.Time `json:"completed_at"`
			TimeSpent        *int       `json:"time_spent"`
			CompletedLessons *[]uint    `json:"completed_lessons"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		fields := tracker.AdminFields{
			Progress:         reqData.Progress,
			StartedAt:        reqData.StartedAt,
			CompletedAt:      reqData.CompletedAt,
			TimeSpent:        reqData.TimeSpent,
			CompletedLessons: reqData.CompletedLessons,
		}

		if reqData.Status != nil {
			status := courseModels.EnrollmentStatus(*reqData.Status)
			if !status.Valid() {
				errors["status"] = "Unknown enrollment status!"
			}
			fields.Status = &status
		}

		if reqData.Progress != nil && (*reqData.Progress < 0 || *reqData.Progress > 100) {
			errors["progress"] = "Progress must be between 0 and 100!"
		}

		if reqData.TimeSpent != nil && *reqData.TimeSpent < 0 {
			errors["time_spent"] = "Time spent cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("targetUserID", targetUserID)
		c.Locals("courseID", courseID)
		c.Locals("validatedEnrollmentUpdate", fields)
		return c.Next()
	}
}

// EnrollmentID validates the enrollment ID param
func EnrollmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		enrollmentID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}

		c.Locals("enrollmentID", enrollmentID)
		return c.Next()
	}
}

// RequestCertificate validates the course ID param on the certificate
// request route
func RequestCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// ReviewCertificate validates the request ID param and optional rejection
// reason
func ReviewCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID, ok := parseIDParam(c, "request_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Request ID!", nil)
		}

		reqData := new(struct {
			Reason string `json:"reason"`
		})
		// Body is optional on approval
		_ = c.BodyParser(reqData)

		c.Locals("requestID", requestID)
		c.Locals("rejectionReason", reqData.Reason)
		return c.Next()
	}
}
