// file: internals/features/sessions/model/session_attendance_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceSource string

const (
	AttendanceSourceWebhook  AttendanceSource = "webhook"
	AttendanceSourceBackfill AttendanceSource = "manual_backfill"
)

// SessionAttendanceModel: maksimal satu baris per (session, user).
// Insert selalu lewat ON CONFLICT DO NOTHING — observasi pertama menang.
type SessionAttendanceModel struct {
	SessionAttendanceID uuid.UUID `gorm:"column:session_attendance_id;type:uuid;default:gen_random_uuid();primaryKey" json:"session_attendance_id"`

	SessionAttendanceSessionID uuid.UUID `gorm:"column:session_attendance_session_id;type:uuid;not null;uniqueIndex:uq_attendance_session_user" json:"session_attendance_session_id"`
	SessionAttendanceUserID    uuid.UUID `gorm:"column:session_attendance_user_id;type:uuid;not null;uniqueIndex:uq_attendance_session_user" json:"session_attendance_user_id"`

	// student | tutor (host)
	SessionAttendanceRole string `gorm:"column:session_attendance_role;type:text;not null;default:'student'" json:"session_attendance_role"`

	SessionAttendanceJoinedAt time.Time  `gorm:"column:session_attendance_joined_at;type:timestamptz;not null" json:"session_attendance_joined_at"`
	SessionAttendanceLeftAt   *time.Time `gorm:"column:session_attendance_left_at;type:timestamptz" json:"session_attendance_left_at,omitempty"`

	SessionAttendanceSource AttendanceSource `gorm:"column:session_attendance_source;type:text;not null;default:'webhook'" json:"session_attendance_source"`

	SessionAttendanceCreatedAt time.Time `gorm:"column:session_attendance_created_at;autoCreateTime" json:"session_attendance_created_at"`
}

func (SessionAttendanceModel) TableName() string { return "session_attendances" }
