package utils

import (
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"lms/config"
	"lms/models"
)

// NotifyAdminPayment mirrors a submitted payment claim to the admin webhook
// so pending UTRs show up for review without polling. Fire and forget; a
// failed delivery only logs.
func NotifyAdminPayment(payment models.CoursePayment, userEmail, courseTitle string) {
	url := config.AppConfig.AdminWebhookURL
	if url == "" {
		return
	}

	go func() {
		client := resty.New().SetTimeout(10 * time.Second)

		resp, err := client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]interface{}{
				"event":        "payment.submitted",
				"reference":    payment.Reference,
				"utr":          payment.UTR,
				"amount":       payment.Amount,
				"user_email":   userEmail,
				"course_title": courseTitle,
			}).
			Post(url)
		if err != nil {
			log.Printf("[NOTIFY] Error posting payment %s to admin webhook: %v", payment.Reference, err)
			return
		}
		if resp.IsError() {
			log.Printf("[NOTIFY] Admin webhook rejected payment %s: %d", payment.Reference, resp.StatusCode())
		}
	}()
}
