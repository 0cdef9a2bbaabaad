package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditKind string

const (
	AuditAdminOverride AuditKind = "ADMIN_OVERRIDE"
	AuditForceComplete AuditKind = "FORCE_COMPLETE"
)

// EnrollmentAudit records every privileged write that bypasses the normal
// progress derivation, so invariant-breaking edits stay traceable.
type EnrollmentAudit struct {
	gorm.Model
	EnrollmentID uint           `json:"enrollment_id" gorm:"index;not null"`
	AdminID      uint           `json:"admin_id" gorm:"index;not null"`
	Kind         AuditKind      `json:"kind" gorm:"type:varchar(20);not null"`
	Changes      datatypes.JSON `json:"changes"`
}
