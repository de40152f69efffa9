// file: internals/features/classes/model/class_enrollment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentStatusActive EnrollmentStatus = "active"
	EnrollmentStatusEnded  EnrollmentStatus = "ended"
)

type ClassEnrollmentModel struct {
	ClassEnrollmentID uuid.UUID `gorm:"column:class_enrollment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"class_enrollment_id"`

	// Unique (class, student) — satu enrollment hidup per pasangan
	ClassEnrollmentClassID   uuid.UUID `gorm:"column:class_enrollment_class_id;type:uuid;not null;uniqueIndex:uq_enrollment_class_student" json:"class_enrollment_class_id"`
	ClassEnrollmentStudentID uuid.UUID `gorm:"column:class_enrollment_student_id;type:uuid;not null;uniqueIndex:uq_enrollment_class_student" json:"class_enrollment_student_id"`

	ClassEnrollmentStatus     EnrollmentStatus `gorm:"column:class_enrollment_status;type:text;not null;default:'active'" json:"class_enrollment_status"`
	ClassEnrollmentEnrolledAt time.Time        `gorm:"column:class_enrollment_enrolled_at;type:timestamptz;not null;default:now()" json:"class_enrollment_enrolled_at"`
	ClassEnrollmentEndedAt    *time.Time       `gorm:"column:class_enrollment_ended_at;type:timestamptz" json:"class_enrollment_ended_at,omitempty"`

	ClassEnrollmentCreatedAt time.Time      `gorm:"column:class_enrollment_created_at;autoCreateTime" json:"class_enrollment_created_at"`
	ClassEnrollmentDeletedAt gorm.DeletedAt `gorm:"column:class_enrollment_deleted_at;index" json:"class_enrollment_deleted_at,omitempty"`
}

func (ClassEnrollmentModel) TableName() string { return "class_enrollments" }
