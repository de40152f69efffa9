package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	provider "tutorku_backend/internals/features/meetings/provider"
	sessModel "tutorku_backend/internals/features/sessions/model"
)

/* =========================
   Stub store & provider
========================= */

type stubBackfillStore struct {
	sessions  []sessModel.ClassSessionModel
	insertErr error
	inserted  []*sessModel.SessionAttendanceModel
	existing  map[attendanceKey]bool
}

func (s *stubBackfillStore) ListEndedSessionsSince(_ context.Context, _ time.Time) ([]sessModel.ClassSessionModel, error) {
	return s.sessions, nil
}

func (s *stubBackfillStore) InsertAttendanceIfAbsent(_ context.Context, att *sessModel.SessionAttendanceModel) (bool, error) {
	if s.insertErr != nil {
		return false, s.insertErr
	}
	k := attendanceKey{session: att.SessionAttendanceSessionID, user: att.SessionAttendanceUserID}
	if s.existing[k] {
		return false, nil
	}
	s.inserted = append(s.inserted, att)
	return true, nil
}

type stubParticipantProvider struct {
	participants []provider.Participant
}

func (p *stubParticipantProvider) CreateMeeting(_ context.Context, _ string, _ time.Time, _ time.Duration, _ string) (*provider.Meeting, error) {
	return nil, errors.New("not implemented")
}
func (p *stubParticipantProvider) DeleteMeeting(_ context.Context, _ string) error { return nil }
func (p *stubParticipantProvider) GetRecordingDownloadURL(_ context.Context, _ string) (string, error) {
	return "", errors.New("not implemented")
}
func (p *stubParticipantProvider) ListPastParticipants(_ context.Context, _ string) ([]provider.Participant, error) {
	return p.participants, nil
}

func endedSessionWithMeeting(externalID string) sessModel.ClassSessionModel {
	ext := externalID
	return sessModel.ClassSessionModel{
		ClassSessionID:                uuid.New(),
		ClassSessionClassID:           uuid.New(),
		ClassSessionStatus:            sessModel.SessionStatusEnded,
		ClassSessionExternalMeetingID: &ext,
	}
}

/* =========================
   Tests
========================= */

func TestBackfillInsertsMissingAttendance(t *testing.T) {
	student := uuid.New()
	store := &stubBackfillStore{
		sessions: []sessModel.ClassSessionModel{endedSessionWithMeeting("mtg-1")},
	}
	prov := &stubParticipantProvider{participants: []provider.Participant{
		{UserID: student.String(), JoinedAt: time.Now().Add(-2 * time.Hour)},
		{UserID: "guest-no-uuid", JoinedAt: time.Now().Add(-2 * time.Hour)}, // dilewati
	}}

	b := &AttendanceBackfiller{Store: store, Provider: prov}
	res := b.BackfillSince(context.Background(), time.Now().Add(-48*time.Hour))

	if res.Failed != 0 || res.Succeeded != 1 {
		t.Fatalf("result = %+v", res)
	}
	if len(store.inserted) != 1 || store.inserted[0].SessionAttendanceUserID != student {
		t.Fatalf("inserted = %+v", store.inserted)
	}
	if store.inserted[0].SessionAttendanceSource != sessModel.AttendanceSourceBackfill {
		t.Fatalf("source = %s", store.inserted[0].SessionAttendanceSource)
	}
}

func TestBackfillReportsStoreFailure(t *testing.T) {
	sess := endedSessionWithMeeting("mtg-2")
	store := &stubBackfillStore{
		sessions:  []sessModel.ClassSessionModel{sess},
		insertErr: errors.New("datastore unavailable"),
	}
	prov := &stubParticipantProvider{participants: []provider.Participant{
		{UserID: uuid.New().String(), JoinedAt: time.Now().Add(-2 * time.Hour)},
	}}

	b := &AttendanceBackfiller{Store: store, Provider: prov}
	res := b.BackfillSince(context.Background(), time.Now().Add(-48*time.Hour))

	// Gangguan datastore tidak boleh dilaporkan sebagai "sudah lengkap" —
	// scheduler harus melihat failure supaya pass berikutnya retry.
	if res.Failed != 1 {
		t.Fatalf("Failed = %d, want 1 (result %+v)", res.Failed, res)
	}
	if len(res.Details) != 1 || res.Details[0].Status != "failed" {
		t.Fatalf("details = %+v", res.Details)
	}
	if !strings.Contains(res.Details[0].Reason, "datastore unavailable") {
		t.Fatalf("reason = %q, want the store error surfaced", res.Details[0].Reason)
	}
	if res.Details[0].Key != sess.ClassSessionID.String() {
		t.Fatalf("key = %q", res.Details[0].Key)
	}
}

func TestBackfillSkipsWhenNothingMissing(t *testing.T) {
	sess := endedSessionWithMeeting("mtg-3")
	student := uuid.New()
	store := &stubBackfillStore{
		sessions: []sessModel.ClassSessionModel{sess},
		existing: map[attendanceKey]bool{
			{session: sess.ClassSessionID, user: student}: true,
		},
	}
	prov := &stubParticipantProvider{participants: []provider.Participant{
		{UserID: student.String(), JoinedAt: time.Now().Add(-2 * time.Hour)},
	}}

	b := &AttendanceBackfiller{Store: store, Provider: prov}
	res := b.BackfillSince(context.Background(), time.Now().Add(-48*time.Hour))

	if res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}
	if res.Details[0].Status != "skipped" {
		t.Fatalf("status = %s", res.Details[0].Status)
	}
}
