package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all learner-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Catalog
	userGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Enrollment lifecycle
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)
	userGroup.Post("/:id/discontinue", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.DiscontinueCourse)

	// Progress tracking
	userGroup.Post("/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, validators.LessonAction(), controllers.CompleteLesson)
	userGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.GetCourseProgress(), controllers.GetUserProgress)
	userGroup.Post("/:course_id/time", middleware.JWTMiddleware, validators.RecordTime(), controllers.RecordTimeSpent)

	// Quizzes
	userGroup.Post("/:course_id/quiz/:quiz_id/attempt", middleware.JWTMiddleware, validators.SubmitQuiz(), controllers.SubmitQuizAttempt)

	// Certificates
	userGroup.Post("/:course_id/certificate/request", middleware.JWTMiddleware, validators.RequestCertificate(), controllers.RequestCertificate)
}
