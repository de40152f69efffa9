// file: internals/features/meetings/controller/webhook_controller.go
package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	provider "tutorku_backend/internals/features/meetings/provider"
	service "tutorku_backend/internals/features/meetings/service"
	helper "tutorku_backend/internals/helpers"
)

const (
	headerSignature = "x-mt-signature"
	headerTimestamp = "x-mt-request-timestamp"
)

type WebhookController struct {
	Reconciler *service.Reconciler
	Secret     string
}

func NewWebhookController(db *gorm.DB, secret string) *WebhookController {
	return &WebhookController{
		Reconciler: &service.Reconciler{Store: service.NewGormReconcileStore(db)},
		Secret:     secret,
	}
}

/* =========================
   Payload wire format
========================= */

type webhookPayload struct {
	Event   string `json:"event"`
	EventTS int64  `json:"event_ts"` // epoch millis
	Payload struct {
		// handshake url_validation
		PlainToken string `json:"plainToken"`

		Object struct {
			ID          string `json:"id"`
			Participant *struct {
				ID   string `json:"id"`
				Role string `json:"role"`
			} `json:"participant"`
			RecordingFiles []struct {
				DownloadURL string `json:"download_url"`
				FileType    string `json:"file_type"`
			} `json:"recording_files"`
		} `json:"object"`
	} `json:"payload"`
}

var eventKinds = map[string]service.EventKind{
	"meeting.started":            service.EventMeetingStarted,
	"meeting.ended":              service.EventMeetingEnded,
	"recording.completed":        service.EventRecordingCompleted,
	"meeting.participant_joined": service.EventParticipantJoined,
	"meeting.participant_left":   service.EventParticipantLeft,
}

// HandleWebhook: endpoint publik satu-satunya yang tidak lewat auth user —
// gantinya HMAC signature wajib valid sebelum body disentuh sama sekali.
func (ctl *WebhookController) HandleWebhook(c *fiber.Ctx) error {
	body := c.Body()

	if err := service.VerifyWebhookSignature(
		ctl.Secret,
		c.Get(headerSignature),
		c.Get(headerTimestamp),
		body,
		time.Now(),
	); err != nil {
		log.Printf("[WARN] webhook signature ditolak: %v", err)
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid webhook signature")
	}

	var payload webhookPayload
	if err := c.App().Config().JSONDecoder(body, &payload); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "malformed webhook payload")
	}

	// Handshake validasi URL dari provider
	if payload.Event == "endpoint.url_validation" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"plainToken":     payload.Payload.PlainToken,
			"encryptedToken": service.EncryptValidationToken(ctl.Secret, payload.Payload.PlainToken),
		})
	}

	kind, ok := eventKinds[payload.Event]
	if !ok {
		// event kind baru dari provider: ack supaya tidak diretry, cukup dicatat
		log.Printf("[INFO] webhook event %q tidak ditangani", payload.Event)
		return helper.JsonOK(c, "ignored", fiber.Map{"event": payload.Event})
	}

	occurredAt := time.Now()
	if payload.EventTS > 0 {
		occurredAt = time.UnixMilli(payload.EventTS)
	}

	ev := service.WebhookEvent{
		Kind:              kind,
		ExternalMeetingID: payload.Payload.Object.ID,
		OccurredAt:        occurredAt,
	}
	if ev.ExternalMeetingID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "missing meeting id in payload")
	}

	if p := payload.Payload.Object.Participant; p != nil {
		userID, err := uuid.Parse(p.ID)
		if err != nil {
			// peserta tanpa user id kita (anonim) — ack saja
			return helper.JsonOK(c, "ignored", fiber.Map{"reason": "participant without user id"})
		}
		ev.Participant = &service.ParticipantEvent{UserID: userID, Role: p.Role}
	}

	// recording.completed bisa membawa beberapa segmen sekaligus
	if kind == service.EventRecordingCompleted {
		outcomes := make([]string, 0, len(payload.Payload.Object.RecordingFiles))
		for _, f := range payload.Payload.Object.RecordingFiles {
			if f.FileType != "" && f.FileType != "MP4" {
				continue
			}
			segment := ev
			segment.RecordingURL = f.DownloadURL
			out, err := ctl.Reconciler.Apply(c.Context(), segment)
			if err != nil {
				return ctl.reconcileError(c, err)
			}
			outcomes = append(outcomes, string(out))
		}
		return helper.JsonOK(c, "ok", fiber.Map{"outcomes": outcomes})
	}

	out, err := ctl.Reconciler.Apply(c.Context(), ev)
	if err != nil {
		return ctl.reconcileError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{"outcome": out})
}

func (ctl *WebhookController) reconcileError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrUnsupportedEvent) {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if provider.IsTransient(err) {
		// 5xx supaya provider retry
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "temporary failure, retry")
	}
	log.Printf("[ERROR] reconcile webhook: %v", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "failed to apply webhook event")
}
