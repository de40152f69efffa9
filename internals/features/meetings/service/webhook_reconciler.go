// file: internals/features/meetings/service/webhook_reconciler.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	sessModel "tutorku_backend/internals/features/sessions/model"
)

/* =========================
   Event model
========================= */

// EventKind: daftar tertutup — switch di Apply wajib exhaustive, event kind
// baru harus ditambahkan di dua tempat sekaligus.
type EventKind string

const (
	EventMeetingStarted     EventKind = "meeting.started"
	EventMeetingEnded       EventKind = "meeting.ended"
	EventRecordingCompleted EventKind = "recording.completed"
	EventParticipantJoined  EventKind = "participant.joined"
	EventParticipantLeft    EventKind = "participant.left"
)

type ParticipantEvent struct {
	UserID uuid.UUID
	Role   string // student | tutor
}

type WebhookEvent struct {
	Kind              EventKind
	ExternalMeetingID string
	OccurredAt        time.Time

	// khusus recording.completed
	RecordingURL string

	// khusus participant.*
	Participant *ParticipantEvent
}

var ErrUnsupportedEvent = errors.New("unsupported webhook event kind")

/* =========================
   Store (narrow, biar bisa distub)
========================= */

type ReconcileStore interface {
	// FindSessionByExternalID: (nil, nil) bila meeting tidak dikenal.
	FindSessionByExternalID(ctx context.Context, externalID string) (*sessModel.ClassSessionModel, error)

	// MarkSessionLive / MarkSessionEnded: conditional update — hanya jalan
	// dari status asal yang sah, false = baris tidak berubah (sudah lewat).
	MarkSessionLive(ctx context.Context, sessionID uuid.UUID, at time.Time) (bool, error)
	MarkSessionEnded(ctx context.Context, sessionID uuid.UUID, at time.Time) (bool, error)

	// AppendRecordingURL: append-only dengan dedup per URL, false = duplikat.
	AppendRecordingURL(ctx context.Context, sessionID uuid.UUID, url string) (bool, error)

	// InsertAttendanceIfAbsent: observasi join pertama menang, false = sudah ada.
	InsertAttendanceIfAbsent(ctx context.Context, att *sessModel.SessionAttendanceModel) (bool, error)

	// CloseAttendance: isi left_at untuk (session, user); no-op bila baris
	// attendance belum ada.
	CloseAttendance(ctx context.Context, sessionID, userID uuid.UUID, leftAt time.Time) error
}

/* =========================
   Reconciler
========================= */

type ReconcileOutcome string

const (
	OutcomeApplied ReconcileOutcome = "applied"
	OutcomeNoop    ReconcileOutcome = "noop"
	OutcomeAnomaly ReconcileOutcome = "anomaly"
)

// Reconciler: menerapkan event webhook provider ke state sesi. Semua jalur
// idempoten — event yang sama dikirim dua kali (retry provider) menghasilkan
// state akhir identik dan tidak pernah error.
type Reconciler struct {
	Store ReconcileStore
}

func (r *Reconciler) Apply(ctx context.Context, ev WebhookEvent) (ReconcileOutcome, error) {
	sess, err := r.Store.FindSessionByExternalID(ctx, ev.ExternalMeetingID)
	if err != nil {
		return OutcomeNoop, err
	}
	if sess == nil {
		// Meeting tidak dikenal (mis. dibuat manual di dashboard provider).
		// Jangan error — provider bakal retry terus kalau kita balas 5xx.
		log.Printf("[WARN] webhook %s untuk meeting tak dikenal %s", ev.Kind, ev.ExternalMeetingID)
		return OutcomeNoop, nil
	}

	switch ev.Kind {
	case EventMeetingStarted:
		return r.applyStarted(ctx, sess, ev)
	case EventMeetingEnded:
		return r.applyEnded(ctx, sess, ev)
	case EventRecordingCompleted:
		return r.applyRecording(ctx, sess, ev)
	case EventParticipantJoined:
		return r.applyJoined(ctx, sess, ev)
	case EventParticipantLeft:
		return r.applyLeft(ctx, sess, ev)
	default:
		return OutcomeNoop, fmt.Errorf("%w: %s", ErrUnsupportedEvent, ev.Kind)
	}
}

func (r *Reconciler) applyStarted(ctx context.Context, sess *sessModel.ClassSessionModel, ev WebhookEvent) (ReconcileOutcome, error) {
	if sess.ClassSessionStatus == sessModel.SessionStatusEnded {
		// started datang SETELAH ended (out-of-order delivery) — status tidak
		// boleh mundur, cukup dicatat sebagai anomali.
		log.Printf("[WARN] meeting.started untuk sesi %s yang sudah ended — diabaikan", sess.ClassSessionID)
		return OutcomeAnomaly, nil
	}
	changed, err := r.Store.MarkSessionLive(ctx, sess.ClassSessionID, ev.OccurredAt)
	if err != nil {
		return OutcomeNoop, err
	}
	if !changed {
		return OutcomeNoop, nil
	}
	return OutcomeApplied, nil
}

func (r *Reconciler) applyEnded(ctx context.Context, sess *sessModel.ClassSessionModel, ev WebhookEvent) (ReconcileOutcome, error) {
	if sess.ClassSessionStatus == sessModel.SessionStatusEnded {
		return OutcomeNoop, nil
	}
	changed, err := r.Store.MarkSessionEnded(ctx, sess.ClassSessionID, ev.OccurredAt)
	if err != nil {
		return OutcomeNoop, err
	}
	if !changed {
		return OutcomeNoop, nil
	}
	return OutcomeApplied, nil
}

func (r *Reconciler) applyRecording(ctx context.Context, sess *sessModel.ClassSessionModel, ev WebhookEvent) (ReconcileOutcome, error) {
	if ev.RecordingURL == "" {
		return OutcomeNoop, errors.New("recording.completed without download url")
	}
	appended, err := r.Store.AppendRecordingURL(ctx, sess.ClassSessionID, ev.RecordingURL)
	if err != nil {
		return OutcomeNoop, err
	}
	if !appended {
		return OutcomeNoop, nil
	}
	return OutcomeApplied, nil
}

func (r *Reconciler) applyJoined(ctx context.Context, sess *sessModel.ClassSessionModel, ev WebhookEvent) (ReconcileOutcome, error) {
	if ev.Participant == nil {
		return OutcomeNoop, errors.New("participant.joined without participant payload")
	}
	role := ev.Participant.Role
	if role == "" {
		role = "student"
	}
	att := &sessModel.SessionAttendanceModel{
		SessionAttendanceSessionID: sess.ClassSessionID,
		SessionAttendanceUserID:    ev.Participant.UserID,
		SessionAttendanceRole:      role,
		SessionAttendanceJoinedAt:  ev.OccurredAt,
		SessionAttendanceSource:    sessModel.AttendanceSourceWebhook,
	}
	inserted, err := r.Store.InsertAttendanceIfAbsent(ctx, att)
	if err != nil {
		return OutcomeNoop, err
	}
	if !inserted {
		// rejoin atau retry — joined_at pertama yang dipertahankan
		return OutcomeNoop, nil
	}
	return OutcomeApplied, nil
}

func (r *Reconciler) applyLeft(ctx context.Context, sess *sessModel.ClassSessionModel, ev WebhookEvent) (ReconcileOutcome, error) {
	if ev.Participant == nil {
		return OutcomeNoop, errors.New("participant.left without participant payload")
	}
	if err := r.Store.CloseAttendance(ctx, sess.ClassSessionID, ev.Participant.UserID, ev.OccurredAt); err != nil {
		return OutcomeNoop, err
	}
	return OutcomeApplied, nil
}
