// file: internals/features/sessions/model/meeting_mapping_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeetingMappingModel: peta sesi ↔ meeting provider + kredensial host.
// Kredensial join per-user TIDAK disimpan — selalu ditandatangani ulang
// on-demand setelah lolos payment gate.
type MeetingMappingModel struct {
	MeetingMappingID uuid.UUID `gorm:"column:meeting_mapping_id;type:uuid;default:gen_random_uuid();primaryKey" json:"meeting_mapping_id"`

	MeetingMappingSessionID         uuid.UUID `gorm:"column:meeting_mapping_session_id;type:uuid;not null;uniqueIndex" json:"meeting_mapping_session_id"`
	MeetingMappingExternalMeetingID string    `gorm:"column:meeting_mapping_external_meeting_id;type:text;not null" json:"meeting_mapping_external_meeting_id"`

	MeetingMappingHostJoinURL *string `gorm:"column:meeting_mapping_host_join_url;type:text" json:"meeting_mapping_host_join_url,omitempty"`
	MeetingMappingJoinURL     *string `gorm:"column:meeting_mapping_join_url;type:text" json:"meeting_mapping_join_url,omitempty"`
	MeetingMappingPasscode    *string `gorm:"column:meeting_mapping_passcode;type:text" json:"meeting_mapping_passcode,omitempty"`

	MeetingMappingCreatedAt time.Time      `gorm:"column:meeting_mapping_created_at;autoCreateTime" json:"meeting_mapping_created_at"`
	MeetingMappingUpdatedAt *time.Time     `gorm:"column:meeting_mapping_updated_at;autoUpdateTime" json:"meeting_mapping_updated_at,omitempty"`
	MeetingMappingDeletedAt gorm.DeletedAt `gorm:"column:meeting_mapping_deleted_at;index" json:"meeting_mapping_deleted_at,omitempty"`
}

func (MeetingMappingModel) TableName() string { return "meeting_mappings" }
