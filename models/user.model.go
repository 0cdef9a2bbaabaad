package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of account roles. Handlers must compare against
// these constants only; raw role strings never leave this package.
type Role string

const (
	RoleLearner    Role = "LEARNER"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleLearner, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	ProfileImage        string `gorm:"default:''"`
	Name                string `gorm:"default:''"`
	Email               string `gorm:"unique;not null"`
	Mobile              string `gorm:"default:''"`
	Role                Role   `gorm:"type:varchar(20);default:'LEARNER'"`
	Password            string `gorm:"not null"`
	Points              uint   `gorm:"default:0"` // gamification counter, only ever incremented
	IsEmailVerified     bool   `gorm:"default:false"`
	LastLogin           *time.Time
	FailedLoginAttempts int  `gorm:"default:0"`
	IsBlocked           bool `gorm:"default:false"`
	IsDeleted           bool `gorm:"default:false"`
}
