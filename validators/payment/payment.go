package paymentValidator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

var utrPattern = regexp.MustCompile(`^[A-Za-z0-9]{12,22}$`)

// SubmitPayment validates a manual payment claim for a course
func SubmitPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := strconv.Atoi(c.Params("id"))
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Amount float64 `json:"amount"`
			UTR    string  `json:"utr"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than zero!"
		}

		reqData.UTR = strings.TrimSpace(reqData.UTR)
		if reqData.UTR == "" {
			errors["utr"] = "UTR is required!"
		} else if !utrPattern.MatchString(reqData.UTR) {
			errors["utr"] = "UTR must be 12 to 22 alphanumeric characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedPayment", reqData)
		return c.Next()
	}
}

// ReviewPayment validates the payment ID param and optional review note
func ReviewPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		paymentID, err := strconv.Atoi(c.Params("id"))
		if err != nil || paymentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Payment ID!", nil)
		}

		reqData := new(struct {
			Note string `json:"note"`
		})
		// Body is optional
		_ = c.BodyParser(reqData)

		c.Locals("paymentID", paymentID)
		c.Locals("reviewNote", strings.TrimSpace(reqData.Note))
		return c.Next()
	}
}
