// file: internals/features/classes/model/class_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassStatus string

const (
	ClassStatusActive   ClassStatus = "active"
	ClassStatusArchived ClassStatus = "archived"
)

type ClassModel struct {
	ClassID uuid.UUID `gorm:"column:class_id;type:uuid;default:gen_random_uuid();primaryKey" json:"class_id"`

	ClassTutorID uuid.UUID `gorm:"column:class_tutor_id;type:uuid;not null;index" json:"class_tutor_id"`

	ClassName    string `gorm:"column:class_name;type:text;not null" json:"class_name"`
	ClassSubject string `gorm:"column:class_subject;type:text;not null" json:"class_subject"`

	// Biaya bulanan per siswa (dasar amount invoice)
	ClassFeeMonthlyIDR int64 `gorm:"column:class_fee_monthly_idr;type:bigint;not null;default:0" json:"class_fee_monthly_idr"`

	// Timezone IANA kelas — jam slot adalah wall-clock di zona ini,
	// bukan zona server.
	ClassTimezone string `gorm:"column:class_timezone;type:text;not null;default:'Asia/Jakarta'" json:"class_timezone"`

	ClassStatus ClassStatus `gorm:"column:class_status;type:text;not null;default:'active'" json:"class_status"`

	ClassCreatedAt time.Time      `gorm:"column:class_created_at;autoCreateTime" json:"class_created_at"`
	ClassUpdatedAt *time.Time     `gorm:"column:class_updated_at;autoUpdateTime" json:"class_updated_at,omitempty"`
	ClassDeletedAt gorm.DeletedAt `gorm:"column:class_deleted_at;index" json:"class_deleted_at,omitempty"`
}

func (ClassModel) TableName() string { return "classes" }
