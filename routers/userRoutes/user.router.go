package userRoutes

import (
	courseControllers "lms/controllers/course"
	userControllers "lms/controllers/userControllers"
	"lms/middleware"
	courseValidators "lms/validators/course"
	userValidators "lms/validators/user"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.JWTMiddleware)

	userGroup.Get("/profile", userControllers.GetProfile)
	userGroup.Patch("/profile", userValidators.UpdateProfile(), userControllers.UpdateProfile)
	userGroup.Get("/enrollments", courseValidators.GetUserEnrollments(), courseControllers.GetEnrollments)
	userGroup.Get("/certificates", courseControllers.GetUserCertificates)
}
