// file: internals/features/sessions/model/class_session_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusLive      SessionStatus = "live"
	SessionStatusEnded     SessionStatus = "ended"
)

// Jendela join dibuka 1 jam sebelum mulai.
const JoinWindowLead = time.Hour

type ClassSessionModel struct {
	ClassSessionID uuid.UUID `gorm:"column:class_session_id;type:uuid;default:gen_random_uuid();primaryKey" json:"class_session_id"`

	ClassSessionClassID uuid.UUID `gorm:"column:class_session_class_id;type:uuid;not null;index" json:"class_session_class_id"`

	// NULL untuk sesi ad-hoc (dibuat manual, bukan hasil expand template).
	// Unique (class, slot, starts_at) bikin expand ulang idempotent.
	ClassSessionSlotID *uuid.UUID `gorm:"column:class_session_slot_id;type:uuid;uniqueIndex:uq_session_slot_start" json:"class_session_slot_id,omitempty"`

	// Snapshot slot saat generate (day_of_week, start/end, timezone) —
	// audit tetap utuh walau template diedit belakangan.
	ClassSessionSlotSnapshot datatypes.JSONMap `gorm:"column:class_session_slot_snapshot;type:jsonb" json:"class_session_slot_snapshot,omitempty"`

	ClassSessionTitle       *string `gorm:"column:class_session_title;type:text" json:"class_session_title,omitempty"`
	ClassSessionDescription *string `gorm:"column:class_session_description;type:text" json:"class_session_description,omitempty"`

	ClassSessionStartsAt time.Time `gorm:"column:class_session_starts_at;type:timestamptz;not null;uniqueIndex:uq_session_slot_start" json:"class_session_starts_at"`
	ClassSessionEndsAt   time.Time `gorm:"column:class_session_ends_at;type:timestamptz;not null" json:"class_session_ends_at"`

	ClassSessionStatus SessionStatus `gorm:"column:class_session_status;type:text;not null;default:'scheduled'" json:"class_session_status"`

	// ID meeting di provider (diisi orchestrator, sekali saja)
	ClassSessionExternalMeetingID *string `gorm:"column:class_session_external_meeting_id;type:text;uniqueIndex" json:"class_session_external_meeting_id,omitempty"`

	// Append-only: satu sesi bisa menghasilkan beberapa segmen rekaman
	ClassSessionRecordingURLs pq.StringArray `gorm:"column:class_session_recording_urls;type:text[];not null;default:'{}'" json:"class_session_recording_urls"`

	// Timestamp transisi status (bukan overwrite baris)
	ClassSessionLiveAt  *time.Time `gorm:"column:class_session_live_at;type:timestamptz" json:"class_session_live_at,omitempty"`
	ClassSessionEndedAt *time.Time `gorm:"column:class_session_ended_at;type:timestamptz" json:"class_session_ended_at,omitempty"`

	ClassSessionCreatedAt time.Time      `gorm:"column:class_session_created_at;autoCreateTime" json:"class_session_created_at"`
	ClassSessionUpdatedAt *time.Time     `gorm:"column:class_session_updated_at;autoUpdateTime" json:"class_session_updated_at,omitempty"`
	ClassSessionDeletedAt gorm.DeletedAt `gorm:"column:class_session_deleted_at;index" json:"class_session_deleted_at,omitempty"`
}

func (ClassSessionModel) TableName() string { return "class_sessions" }

// JoinWindowOpensAt: turunan, tidak disimpan di DB.
func (m ClassSessionModel) JoinWindowOpensAt() time.Time {
	return m.ClassSessionStartsAt.Add(-JoinWindowLead)
}
