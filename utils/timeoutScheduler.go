package utils

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"lms/config"
	"lms/database"
	"lms/services/tracker"
)

// InitializeTimeoutScheduler sets up the daily enrollment timeout sweep
func InitializeTimeoutScheduler() {
	log.Println("[TIMEOUT-SCHEDULER] Initializing enrollment timeout scheduler...")

	c := cron.New()

	// Run daily at 2 AM to time out idle enrollments
	c.AddFunc("0 2 * * *", func() {
		log.Println("[TIMEOUT-SCHEDULER] Running daily enrollment timeout sweep...")
		SweepStaleEnrollments()
	})

	c.Start()
	log.Println("[TIMEOUT-SCHEDULER] Enrollment timeout scheduler started - runs daily at 2 AM")
}

// SweepStaleEnrollments marks idle enrollments TIMED_OUT
func SweepStaleEnrollments() {
	maxIdle := time.Duration(config.AppConfig.EnrollmentTimeoutDays) * 24 * time.Hour

	swept, err := tracker.New(database.Database.Db).SweepTimeouts(maxIdle)
	if err != nil {
		log.Printf("[TIMEOUT-SCHEDULER] Error sweeping stale enrollments: %v", err)
		return
	}

	log.Printf("[TIMEOUT-SCHEDULER] Marked %d enrollments as TIMED_OUT", swept)
}
