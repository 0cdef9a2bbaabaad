package utils

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"lms/config"
)

const mailSenderName = "LMS Platform"

func sendMail(toEmail, toName, subject, html string) error {
	if config.AppConfig.SendgridAPIKey == "" {
		log.Printf("[EMAIL] SENDGRID_API_KEY not set, skipping mail %q to %s", subject, toEmail)
		return nil
	}

	from := sgmail.NewEmail(mailSenderName, config.AppConfig.EmailSender)
	to := sgmail.NewEmail(toName, toEmail)
	message := sgmail.NewSingleEmail(from, subject, to, "", html)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] Error sending %q to %s: %v", subject, toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("[EMAIL] Sendgrid rejected %q to %s: %d", subject, toEmail, resp.StatusCode)
		return fmt.Errorf("sendgrid responded with %d", resp.StatusCode)
	}

	return nil
}

// SendEnrollmentEmail sends an email notification when a user enrolls in a course
func SendEnrollmentEmail(email, userName, courseName string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Enrollment Successful!</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">You have successfully enrolled in:</p>
					<h3 style="text-align: center; color: #4CAF50; margin: 20px 0;">%s</h3>
					<p style="font-size: 14px; color: #666666;">You can now access all lessons and start learning. Complete every lesson to finish the course and earn points.</p>
					<p style="font-size: 14px; color: #999999; text-align: center; margin-top: 30px;">Happy Learning!</p>
				</div>
			</body>
		</html>
	`, userName, courseName)

	return sendMail(email, userName, "Course Enrollment Confirmation", body)
}

// SendCompletionEmail congratulates a learner on finishing a course
func SendCompletionEmail(email, userName, courseName string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Course Completed!</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">Congratulations on completing:</p>
					<h3 style="text-align: center; color: #4CAF50; margin: 20px 0;">%s</h3>
					<p style="font-size: 14px; color: #666666;">Your completion bonus points have been added to your account. You can now request your certificate.</p>
				</div>
			</body>
		</html>
	`, userName, courseName)

	return sendMail(email, userName, "Course Completed", body)
}

// SendCertificateEmail sends certificate notification email
func SendCertificateEmail(email, userName, courseName, certificateNumber string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Certificate of Completion</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">Your certificate for the course below has been approved:</p>
					<h3 style="text-align: center; color: #4CAF50; margin: 20px 0;">%s</h3>
					<div style="background-color: #f8f9fa; border-radius: 8px; padding: 20px; margin: 20px 0; text-align: center;">
						<p style="font-size: 14px; color: #666666; margin-bottom: 10px;">Your Certificate Number:</p>
						<h2 style="color: #2196F3; margin: 0;">%s</h2>
					</div>
					<p style="font-size: 14px; color: #666666;">Use this certificate number for verification purposes.</p>
				</div>
			</body>
		</html>
	`, userName, courseName, certificateNumber)

	return sendMail(email, userName, "Course Completion Certificate", body)
}

// SendPaymentReviewedEmail informs a learner of the outcome of a payment review
func SendPaymentReviewedEmail(email, userName, courseName string, approved bool, note string) error {
	outcome := "approved"
	detail := "Your enrollment has been activated. Happy learning!"
	if !approved {
		outcome = "rejected"
		detail = "Please verify the UTR you entered and submit the payment again."
		if note != "" {
			detail = note
		}
	}

	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Payment %s</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">Your payment for <b>%s</b> has been %s.</p>
					<p style="font-size: 14px; color: #666666;">%s</p>
				</div>
			</body>
		</html>
	`, outcome, userName, courseName, outcome, detail)

	return sendMail(email, userName, "Payment "+outcome, body)
}
