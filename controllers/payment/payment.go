package paymentController

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/tracker"
	"lms/utils"
)

// SubmitCoursePayment records a learner's UTR claim for a priced course.
// The claim stays PENDING until an admin verifies the transfer out-of-band.
func SubmitCoursePayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.Price <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This course is free. Enroll directly!", nil)
	}

	// Already enrolled users have nothing to pay for
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}

	reqData, ok := c.Locals("validatedPayment").(*struct {
		Amount float64 `json:"amount"`
		UTR    string  `json:"utr"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// One pending claim per (user, course) at a time
	var pending models.CoursePayment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = ?",
		userID, courseID, models.PaymentPending, false).First(&pending).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A payment for this course is already under review!", nil)
	}

	payment := models.CoursePayment{
		UserID:    userID,
		CourseID:  uint(courseID),
		Amount:    reqData.Amount,
		UTR:       reqData.UTR,
		Reference: uuid.NewString(),
		Status:    models.PaymentPending,
	}

	if err := database.Database.Db.Create(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit payment!", nil)
	}

	utils.NotifyAdminPayment(payment, user.Email, course.Title)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment submitted for review!", payment)
}

// GetMyPayments lists the authenticated user's payment claims
func GetMyPayments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var payments []models.CoursePayment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", payments)
}

// AdminGetPendingPayments lists payment claims awaiting review
func AdminGetPendingPayments(c *fiber.Ctx) error {
	var payments []models.CoursePayment
	if err := database.Database.Db.Where("status = ? AND is_deleted = ?", models.PaymentPending, false).
		Order("created_at asc").Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending payments fetched successfully!", payments)
}

// AdminApprovePayment approves a UTR claim and enrolls the learner
func AdminApprovePayment(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	paymentID := c.Locals("paymentID").(int)
	note := c.Locals("reviewNote").(string)

	var payment models.CoursePayment
	if err := database.Database.Db.Where("id = ? AND status = ? AND is_deleted = ?", paymentID, models.PaymentPending, false).First(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Pending payment not found!", nil)
	}

	enrollment, err := tracker.New(database.Database.Db).Enroll(payment.UserID, payment.CourseID)
	if err != nil && !errors.Is(err, tracker.ErrAlreadyEnrolled) {
		if errors.Is(err, tracker.ErrCourseNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course no longer available!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll user!", nil)
	}

	now := time.Now()
	payment.Status = models.PaymentApproved
	payment.ReviewedBy = &adminID
	payment.ReviewedAt = &now
	payment.Note = note

	if err := database.Database.Db.Save(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update payment!", nil)
	}

	var user models.User
	var course courseModels.Course
	if database.Database.Db.First(&user, payment.UserID).Error == nil &&
		database.Database.Db.First(&course, payment.CourseID).Error == nil {
		go utils.SendPaymentReviewedEmail(user.Email, user.Name, course.Title, true, note)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment approved and user enrolled!", fiber.Map{
		"payment":    payment,
		"enrollment": enrollment,
	})
}

// AdminRejectPayment rejects a UTR claim
func AdminRejectPayment(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	paymentID := c.Locals("paymentID").(int)
	note := c.Locals("reviewNote").(string)

	var payment models.CoursePayment
	if err := database.Database.Db.Where("id = ? AND status = ? AND is_deleted = ?", paymentID, models.PaymentPending, false).First(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Pending payment not found!", nil)
	}

	now := time.Now()
	payment.Status = models.PaymentRejected
	payment.ReviewedBy = &adminID
	payment.ReviewedAt = &now
	payment.Note = note

	if err := database.Database.Db.Save(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update payment!", nil)
	}

	var user models.User
	var course courseModels.Course
	if database.Database.Db.First(&user, payment.UserID).Error == nil &&
		database.Database.Db.First(&course, payment.CourseID).Error == nil {
		go utils.SendPaymentReviewedEmail(user.Email, user.Name, course.Title, false, note)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment rejected!", payment)
}
