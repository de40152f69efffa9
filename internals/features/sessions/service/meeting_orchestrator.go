// file: internals/features/sessions/service/meeting_orchestrator.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	classModel "tutorku_backend/internals/features/classes/model"
	provider "tutorku_backend/internals/features/meetings/provider"
	sessModel "tutorku_backend/internals/features/sessions/model"
	helper "tutorku_backend/internals/helpers"
)

/* =========================
   Store (narrow, biar bisa distub)
========================= */

type MeetingStore interface {
	GetSession(ctx context.Context, sessionID uuid.UUID) (*sessModel.ClassSessionModel, error)
	GetClass(ctx context.Context, classID uuid.UUID) (*classModel.ClassModel, error)
	GetMapping(ctx context.Context, sessionID uuid.UUID) (*sessModel.MeetingMappingModel, error)
	// ClaimExternalMeetingID: conditional write — set hanya bila masih NULL.
	// false = kalah race, meeting orang lain yang menang.
	ClaimExternalMeetingID(ctx context.Context, sessionID uuid.UUID, externalID string) (bool, error)
	SaveMapping(ctx context.Context, m *sessModel.MeetingMappingModel) error
	ListSessionsNeedingMeeting(ctx context.Context, from, to time.Time) ([]sessModel.ClassSessionModel, error)
}

/* =========================
   Orchestrator
========================= */

type MeetingOrchestrator struct {
	Store    MeetingStore
	Provider provider.MeetingProvider

	SDKKey    string
	SDKSecret string
}

// EnsureMeeting: tiap sesi maksimal satu meeting provider, titik.
// Sudah punya external id → kembalikan mapping yang ada tanpa call provider.
func (o *MeetingOrchestrator) EnsureMeeting(ctx context.Context, sessionID uuid.UUID) (*sessModel.MeetingMappingModel, error) {
	sess, err := o.Store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.ClassSessionExternalMeetingID != nil {
		return o.existingMapping(ctx, sess)
	}

	cls, err := o.Store.GetClass(ctx, sess.ClassSessionClassID)
	if err != nil {
		return nil, err
	}

	topic := cls.ClassName
	if sess.ClassSessionTitle != nil && *sess.ClassSessionTitle != "" {
		topic = *sess.ClassSessionTitle
	}
	dur := sess.ClassSessionEndsAt.Sub(sess.ClassSessionStartsAt)

	meeting, err := o.Provider.CreateMeeting(ctx, topic, sess.ClassSessionStartsAt, dur, cls.ClassTimezone)
	if err != nil {
		return nil, err
	}

	claimed, err := o.Store.ClaimExternalMeetingID(ctx, sessionID, meeting.ExternalID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Kalah race dengan EnsureMeeting lain — meeting yang barusan
		// dibuat jadi yatim, hapus best-effort lalu pakai punya pemenang.
		if delErr := o.Provider.DeleteMeeting(ctx, meeting.ExternalID); delErr != nil {
			log.Printf("[WARN] gagal hapus meeting yatim %s: %v", meeting.ExternalID, delErr)
		}
		sess, err = o.Store.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return o.existingMapping(ctx, sess)
	}

	mapping := &sessModel.MeetingMappingModel{
		MeetingMappingSessionID:         sessionID,
		MeetingMappingExternalMeetingID: meeting.ExternalID,
	}
	if meeting.HostJoinURL != "" {
		v := meeting.HostJoinURL
		mapping.MeetingMappingHostJoinURL = &v
	}
	if meeting.JoinURL != "" {
		v := meeting.JoinURL
		mapping.MeetingMappingJoinURL = &v
	}
	if meeting.Passcode != "" {
		v := meeting.Passcode
		mapping.MeetingMappingPasscode = &v
	}
	if err := o.Store.SaveMapping(ctx, mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

func (o *MeetingOrchestrator) existingMapping(ctx context.Context, sess *sessModel.ClassSessionModel) (*sessModel.MeetingMappingModel, error) {
	mapping, err := o.Store.GetMapping(ctx, sess.ClassSessionID)
	if err != nil {
		return nil, err
	}
	if mapping != nil {
		return mapping, nil
	}
	if sess.ClassSessionExternalMeetingID == nil {
		return nil, fmt.Errorf("session %s has no meeting", sess.ClassSessionID)
	}
	// Mapping hilang tapi external id ada (mis. row mapping gagal tersimpan
	// setelah claim) — rekonstruksi minimal, kredensial disign ulang saja.
	return &sessModel.MeetingMappingModel{
		MeetingMappingSessionID:         sess.ClassSessionID,
		MeetingMappingExternalMeetingID: *sess.ClassSessionExternalMeetingID,
	}, nil
}

// EnsureMeetingsWithin: bentuk batch untuk cron harian — sesi yang mulai
// dalam window diproses independen; satu provider gagal tidak memblok sisanya.
func (o *MeetingOrchestrator) EnsureMeetingsWithin(ctx context.Context, from, to time.Time) helper.BatchResult {
	var out helper.BatchResult

	sessions, err := o.Store.ListSessionsNeedingMeeting(ctx, from, to)
	if err != nil {
		out.Add("list_sessions", "failed", err.Error())
		return out
	}

	for _, s := range sessions {
		if s.ClassSessionExternalMeetingID != nil {
			out.Add(s.ClassSessionID.String(), "skipped", "meeting already exists")
			continue
		}
		if _, err := o.EnsureMeeting(ctx, s.ClassSessionID); err != nil {
			out.Add(s.ClassSessionID.String(), "failed", err.Error())
			continue
		}
		out.Add(s.ClassSessionID.String(), "created", "")
	}
	return out
}

// IssueJoinCredential: invariant keras — TIDAK pernah menandatangani
// kredensial sebelum payment gate meloloskan. Decision diwajibkan sebagai
// argumen supaya urutan gate → credential terlihat di type signature.
func (o *MeetingOrchestrator) IssueJoinCredential(ctx context.Context, sessionID uuid.UUID, decision GateDecision, isHost bool) (string, error) {
	if !decision.Allowed {
		return "", fmt.Errorf("join credential refused: gate denied (%s)", decision.Reason)
	}

	sess, err := o.Store.GetSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if sess.ClassSessionExternalMeetingID == nil {
		return "", fmt.Errorf("session %s has no meeting yet", sessionID)
	}

	role := provider.JoinRoleParticipant
	if isHost {
		role = provider.JoinRoleHost
	}

	// Umur token: sampai sesi berakhir + buffer
	ttl := time.Until(sess.ClassSessionEndsAt) + time.Hour
	return provider.SignJoinToken(o.SDKKey, o.SDKSecret, *sess.ClassSessionExternalMeetingID, role, ttl)
}
