// file: internals/features/meetings/service/attendance_backfill.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	provider "tutorku_backend/internals/features/meetings/provider"
	sessModel "tutorku_backend/internals/features/sessions/model"
	helper "tutorku_backend/internals/helpers"
)

type BackfillStore interface {
	ListEndedSessionsSince(ctx context.Context, since time.Time) ([]sessModel.ClassSessionModel, error)
	InsertAttendanceIfAbsent(ctx context.Context, att *sessModel.SessionAttendanceModel) (bool, error)
}

// AttendanceBackfiller: jaring pengaman kalau webhook participant.* hilang —
// cron menarik daftar peserta dari provider untuk sesi yang sudah ended.
// Baris hasil webhook tidak pernah ditimpa (insert-if-absent).
type AttendanceBackfiller struct {
	Store    BackfillStore
	Provider provider.MeetingProvider
}

func (b *AttendanceBackfiller) BackfillSince(ctx context.Context, since time.Time) helper.BatchResult {
	var out helper.BatchResult

	sessions, err := b.Store.ListEndedSessionsSince(ctx, since)
	if err != nil {
		out.Add("list_sessions", "failed", err.Error())
		return out
	}

	for _, sess := range sessions {
		key := sess.ClassSessionID.String()
		if sess.ClassSessionExternalMeetingID == nil {
			out.Add(key, "skipped", "session has no meeting")
			continue
		}

		participants, err := b.Provider.ListPastParticipants(ctx, *sess.ClassSessionExternalMeetingID)
		if err != nil {
			out.Add(key, "failed", err.Error())
			continue
		}

		inserted, failed := 0, 0
		var lastErr error
		for _, p := range participants {
			userID, err := uuid.Parse(p.UserID)
			if err != nil {
				// peserta anonim / id provider yang bukan user kita
				continue
			}
			att := &sessModel.SessionAttendanceModel{
				SessionAttendanceSessionID: sess.ClassSessionID,
				SessionAttendanceUserID:    userID,
				SessionAttendanceRole:      "student",
				SessionAttendanceJoinedAt:  p.JoinedAt,
				SessionAttendanceLeftAt:    p.LeftAt,
				SessionAttendanceSource:    sessModel.AttendanceSourceBackfill,
			}
			ok, err := b.Store.InsertAttendanceIfAbsent(ctx, att)
			if err != nil {
				failed++
				lastErr = err
				continue
			}
			if ok {
				inserted++
			}
		}

		// Insert yang gagal harus kelihatan di hasil batch — kalau ditelan,
		// outage datastore tampak seperti "sudah lengkap" dan tidak di-retry.
		if failed > 0 {
			out.Add(key, "failed", fmt.Sprintf("%d/%d attendance inserts failed: %v",
				failed, len(participants), lastErr))
			continue
		}
		if inserted == 0 {
			out.Add(key, "skipped", "no missing attendance")
			continue
		}
		out.Add(key, "ok", fmt.Sprintf("%d inserted", inserted))
	}
	return out
}
