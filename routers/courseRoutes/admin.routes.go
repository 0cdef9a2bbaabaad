package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	// Course authoring is open to instructors as well
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin, models.RoleInstructor))

	// Course CRUD
	adminGroup.Post("/create", validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Get("/list", validators.CourseList(), controllers.AdminGetAllCourses)
	adminGroup.Put("/:id", validators.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", validators.CourseAction(), controllers.AdminDeleteCourse)
	adminGroup.Post("/:id/publish", validators.CourseAction(), controllers.AdminPublishCourse)

	// Lesson management
	adminGroup.Post("/:id/lesson", validators.CreateLesson(), controllers.AdminCreateLesson)
	adminGroup.Put("/:course_id/lesson/:lesson_id", validators.UpdateLesson(), controllers.AdminUpdateLesson)
	adminGroup.Delete("/:course_id/lesson/:lesson_id", validators.LessonAction(), controllers.AdminDeleteLesson)

	// Quiz management
	adminGroup.Post("/:course_id/lesson/:lesson_id/quiz", validators.CreateQuiz(), controllers.AdminCreateQuiz)

	// Enrollment administration is admin only
	enrollGroup := app.Group("/admin/enrollment", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))
	enrollGroup.Get("/course/:course_id", validators.GetCourseProgress(), controllers.AdminGetCourseEnrollments)
	// Registered before the user/course pair so "audits" is not read as a course ID
	enrollGroup.Get("/:id/audits", validators.EnrollmentID(), controllers.AdminGetEnrollmentAudits)
	enrollGroup.Get("/:user_id/:course_id", validators.AdminEnrollment(), controllers.AdminGetEnrollment)
	enrollGroup.Put("/:user_id/:course_id", validators.AdminUpdateEnrollment(), controllers.AdminUpdateEnrollment)
	enrollGroup.Post("/:user_id/:course_id/complete", validators.AdminEnrollment(), controllers.AdminCompleteEnrollment)
	enrollGroup.Delete("/:id", validators.EnrollmentID(), controllers.AdminDeleteEnrollment)

	// Certificate review
	certGroup := app.Group("/admin/certificate", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))
	certGroup.Get("/pending", controllers.AdminGetPendingCertificates)
	certGroup.Post("/:request_id/approve", validators.ReviewCertificate(), controllers.AdminApproveCertificate)
	certGroup.Post("/:request_id/reject", validators.ReviewCertificate(), controllers.AdminRejectCertificate)

	// Dashboard
	dashGroup := app.Group("/admin/dashboard", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))
	dashGroup.Get("/stats", controllers.AdminDashboardStats)
}
