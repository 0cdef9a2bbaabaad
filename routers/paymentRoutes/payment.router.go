package paymentRoutes

import (
	paymentControllers "lms/controllers/payment"
	"lms/middleware"
	"lms/models"
	paymentValidators "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment", middleware.JWTMiddleware)

	paymentGroup.Post("/course/:id", paymentValidators.SubmitPayment(), paymentControllers.SubmitCoursePayment)
	paymentGroup.Get("/list", paymentControllers.GetMyPayments)

	// Manual UTR review is admin only
	adminGroup := app.Group("/admin/payment", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))
	adminGroup.Get("/pending", paymentControllers.AdminGetPendingPayments)
	adminGroup.Post("/:id/approve", paymentValidators.ReviewPayment(), paymentControllers.AdminApprovePayment)
	adminGroup.Post("/:id/reject", paymentValidators.ReviewPayment(), paymentControllers.AdminRejectPayment)
}
