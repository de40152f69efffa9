// file: internals/features/classes/model/class_time_slot_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassTimeSlotModel = template mingguan (immutable setelah ada sesi
// yang digenerate darinya; edit hanya memengaruhi expand berikutnya).
type ClassTimeSlotModel struct {
	ClassTimeSlotID uuid.UUID `gorm:"column:class_time_slot_id;type:uuid;default:gen_random_uuid();primaryKey" json:"class_time_slot_id"`

	ClassTimeSlotClassID uuid.UUID `gorm:"column:class_time_slot_class_id;type:uuid;not null;index" json:"class_time_slot_class_id"`

	// 1=Senin .. 7=Minggu (ISO)
	ClassTimeSlotDayOfWeek int `gorm:"column:class_time_slot_day_of_week;type:smallint;not null" json:"class_time_slot_day_of_week"`

	// "HH:MM" atau "HH:MM:SS" wall-clock di timezone kelas
	ClassTimeSlotStartTime string `gorm:"column:class_time_slot_start_time;type:text;not null" json:"class_time_slot_start_time"`
	ClassTimeSlotEndTime   string `gorm:"column:class_time_slot_end_time;type:text;not null" json:"class_time_slot_end_time"`

	ClassTimeSlotCreatedAt time.Time      `gorm:"column:class_time_slot_created_at;autoCreateTime" json:"class_time_slot_created_at"`
	ClassTimeSlotDeletedAt gorm.DeletedAt `gorm:"column:class_time_slot_deleted_at;index" json:"class_time_slot_deleted_at,omitempty"`
}

func (ClassTimeSlotModel) TableName() string { return "class_time_slots" }
