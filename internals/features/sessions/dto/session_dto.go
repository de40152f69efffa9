// file: internals/features/sessions/dto/session_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "tutorku_backend/internals/features/sessions/model"
	service "tutorku_backend/internals/features/sessions/service"
)

/* =========================
   Requests
========================= */

// Identity provider eksternal — user_id dipercaya dari gateway di depan.
type JoinRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

/* =========================
   Responses
========================= */

type SessionResponse struct {
	ClassSessionID      uuid.UUID           `json:"class_session_id"`
	ClassSessionClassID uuid.UUID           `json:"class_session_class_id"`
	Title               *string             `json:"title,omitempty"`
	StartsAt            time.Time           `json:"starts_at"`
	EndsAt              time.Time           `json:"ends_at"`
	Status              model.SessionStatus `json:"status"`
	JoinWindowOpensAt   time.Time           `json:"join_window_opens_at"`
	RecordingURLs       []string            `json:"recording_urls"`
	LiveAt              *time.Time          `json:"live_at,omitempty"`
	EndedAt             *time.Time          `json:"ended_at,omitempty"`
}

func ToSessionResponse(m model.ClassSessionModel) SessionResponse {
	return SessionResponse{
		ClassSessionID:      m.ClassSessionID,
		ClassSessionClassID: m.ClassSessionClassID,
		Title:               m.ClassSessionTitle,
		StartsAt:            m.ClassSessionStartsAt,
		EndsAt:              m.ClassSessionEndsAt,
		Status:              m.ClassSessionStatus,
		JoinWindowOpensAt:   m.JoinWindowOpensAt(),
		RecordingURLs:       m.ClassSessionRecordingURLs,
		LiveAt:              m.ClassSessionLiveAt,
		EndedAt:             m.ClassSessionEndedAt,
	}
}

// JoinResponse: penolakan gate BUKAN error HTTP — decision selalu terisi,
// kredensial hanya saat allowed.
type JoinResponse struct {
	Decision  service.GateDecision `json:"decision"`
	JoinURL   *string              `json:"join_url,omitempty"`
	Passcode  *string              `json:"passcode,omitempty"`
	SDKToken  *string              `json:"sdk_token,omitempty"`
	MeetingID *string              `json:"meeting_id,omitempty"`
}
