package models

import (
	"time"

	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentApproved PaymentStatus = "APPROVED"
	PaymentRejected PaymentStatus = "REJECTED"
)

// CoursePayment records a learner's claim of a bank transfer for a priced
// course. The learner enters the UTR manually; an admin verifies it
// out-of-band and approves or rejects the payment. Approval is what creates
// the enrollment.
type CoursePayment struct {
	gorm.Model
	UserID     uint          `json:"user_id" gorm:"index;not null"`
	CourseID   uint          `json:"course_id" gorm:"index;not null"`
	Amount     float64       `json:"amount"`
	UTR        string        `json:"utr" gorm:"index;not null"` // bank transaction reference entered by the learner
	Reference  string        `json:"reference" gorm:"unique"`   // server-assigned payment reference
	Status     PaymentStatus `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	ReviewedBy *uint         `json:"reviewed_by"`
	ReviewedAt *time.Time    `json:"reviewed_at"`
	Note       string        `json:"note"`
	IsDeleted  bool          `gorm:"default:false"`
}
