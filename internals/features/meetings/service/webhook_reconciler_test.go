package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	sessModel "tutorku_backend/internals/features/sessions/model"
)

/* =========================
   Stub store
========================= */

type attendanceKey struct {
	session uuid.UUID
	user    uuid.UUID
}

type stubReconcileStore struct {
	sessions    map[string]*sessModel.ClassSessionModel // keyed by external id
	attendances map[attendanceKey]*sessModel.SessionAttendanceModel
}

func newStubReconcileStore() *stubReconcileStore {
	return &stubReconcileStore{
		sessions:    map[string]*sessModel.ClassSessionModel{},
		attendances: map[attendanceKey]*sessModel.SessionAttendanceModel{},
	}
}

func (s *stubReconcileStore) seed(externalID string, status sessModel.SessionStatus) *sessModel.ClassSessionModel {
	ext := externalID
	sess := &sessModel.ClassSessionModel{
		ClassSessionID:                uuid.New(),
		ClassSessionClassID:           uuid.New(),
		ClassSessionStatus:            status,
		ClassSessionExternalMeetingID: &ext,
	}
	s.sessions[externalID] = sess
	return sess
}

func (s *stubReconcileStore) FindSessionByExternalID(_ context.Context, externalID string) (*sessModel.ClassSessionModel, error) {
	sess, ok := s.sessions[externalID]
	if !ok {
		return nil, nil
	}
	cp := *sess
	return &cp, nil
}

func (s *stubReconcileStore) MarkSessionLive(_ context.Context, sessionID uuid.UUID, at time.Time) (bool, error) {
	for _, sess := range s.sessions {
		if sess.ClassSessionID == sessionID && sess.ClassSessionStatus == sessModel.SessionStatusScheduled {
			sess.ClassSessionStatus = sessModel.SessionStatusLive
			t := at
			sess.ClassSessionLiveAt = &t
			return true, nil
		}
	}
	return false, nil
}

func (s *stubReconcileStore) MarkSessionEnded(_ context.Context, sessionID uuid.UUID, at time.Time) (bool, error) {
	for _, sess := range s.sessions {
		if sess.ClassSessionID == sessionID && sess.ClassSessionStatus != sessModel.SessionStatusEnded {
			sess.ClassSessionStatus = sessModel.SessionStatusEnded
			t := at
			sess.ClassSessionEndedAt = &t
			return true, nil
		}
	}
	return false, nil
}

func (s *stubReconcileStore) AppendRecordingURL(_ context.Context, sessionID uuid.UUID, url string) (bool, error) {
	for _, sess := range s.sessions {
		if sess.ClassSessionID != sessionID {
			continue
		}
		for _, existing := range sess.ClassSessionRecordingURLs {
			if existing == url {
				return false, nil
			}
		}
		sess.ClassSessionRecordingURLs = append(sess.ClassSessionRecordingURLs, url)
		return true, nil
	}
	return false, nil
}

func (s *stubReconcileStore) InsertAttendanceIfAbsent(_ context.Context, att *sessModel.SessionAttendanceModel) (bool, error) {
	key := attendanceKey{att.SessionAttendanceSessionID, att.SessionAttendanceUserID}
	if _, ok := s.attendances[key]; ok {
		return false, nil
	}
	cp := *att
	s.attendances[key] = &cp
	return true, nil
}

func (s *stubReconcileStore) CloseAttendance(_ context.Context, sessionID, userID uuid.UUID, leftAt time.Time) error {
	key := attendanceKey{sessionID, userID}
	if att, ok := s.attendances[key]; ok {
		t := leftAt
		att.SessionAttendanceLeftAt = &t
	}
	return nil
}

/* =========================
   Tests
========================= */

func TestReconcileLifecycleTransitions(t *testing.T) {
	store := newStubReconcileStore()
	store.seed("m-1", sessModel.SessionStatusScheduled)
	rec := &Reconciler{Store: store}

	now := time.Now()

	out, err := rec.Apply(context.Background(), WebhookEvent{
		Kind: EventMeetingStarted, ExternalMeetingID: "m-1", OccurredAt: now,
	})
	if err != nil || out != OutcomeApplied {
		t.Fatalf("started: out=%s err=%v", out, err)
	}
	if store.sessions["m-1"].ClassSessionStatus != sessModel.SessionStatusLive {
		t.Fatalf("status = %s, want live", store.sessions["m-1"].ClassSessionStatus)
	}

	// Retry delivery dari provider: no-op, bukan error
	out, err = rec.Apply(context.Background(), WebhookEvent{
		Kind: EventMeetingStarted, ExternalMeetingID: "m-1", OccurredAt: now,
	})
	if err != nil || out != OutcomeNoop {
		t.Fatalf("started retry: out=%s err=%v, want noop", out, err)
	}

	out, err = rec.Apply(context.Background(), WebhookEvent{
		Kind: EventMeetingEnded, ExternalMeetingID: "m-1", OccurredAt: now.Add(time.Hour),
	})
	if err != nil || out != OutcomeApplied {
		t.Fatalf("ended: out=%s err=%v", out, err)
	}

	out, err = rec.Apply(context.Background(), WebhookEvent{
		Kind: EventMeetingEnded, ExternalMeetingID: "m-1", OccurredAt: now.Add(2 * time.Hour),
	})
	if err != nil || out != OutcomeNoop {
		t.Fatalf("ended retry: out=%s err=%v, want noop", out, err)
	}
}

func TestReconcileStartedAfterEndedDoesNotRegress(t *testing.T) {
	store := newStubReconcileStore()
	store.seed("m-2", sessModel.SessionStatusEnded)
	rec := &Reconciler{Store: store}

	out, err := rec.Apply(context.Background(), WebhookEvent{
		Kind: EventMeetingStarted, ExternalMeetingID: "m-2", OccurredAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out != OutcomeAnomaly {
		t.Fatalf("out = %s, want anomaly", out)
	}
	if store.sessions["m-2"].ClassSessionStatus != sessModel.SessionStatusEnded {
		t.Fatalf("status regressed to %s", store.sessions["m-2"].ClassSessionStatus)
	}
}

func TestReconcileUnknownMeetingIsNoop(t *testing.T) {
	rec := &Reconciler{Store: newStubReconcileStore()}

	out, err := rec.Apply(context.Background(), WebhookEvent{
		Kind: EventMeetingStarted, ExternalMeetingID: "ghost", OccurredAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("unknown meeting must not error (provider would retry forever): %v", err)
	}
	if out != OutcomeNoop {
		t.Fatalf("out = %s, want noop", out)
	}
}

func TestReconcileRecordingAppendDedup(t *testing.T) {
	store := newStubReconcileStore()
	store.seed("m-3", sessModel.SessionStatusEnded)
	rec := &Reconciler{Store: store}

	ev := WebhookEvent{
		Kind: EventRecordingCompleted, ExternalMeetingID: "m-3",
		OccurredAt: time.Now(), RecordingURL: "https://rec.example/a.mp4",
	}

	if out, err := rec.Apply(context.Background(), ev); err != nil || out != OutcomeApplied {
		t.Fatalf("first recording: out=%s err=%v", out, err)
	}
	if out, err := rec.Apply(context.Background(), ev); err != nil || out != OutcomeNoop {
		t.Fatalf("duplicate recording: out=%s err=%v, want noop", out, err)
	}

	ev2 := ev
	ev2.RecordingURL = "https://rec.example/b.mp4"
	if out, err := rec.Apply(context.Background(), ev2); err != nil || out != OutcomeApplied {
		t.Fatalf("second segment: out=%s err=%v", out, err)
	}

	urls := store.sessions["m-3"].ClassSessionRecordingURLs
	if len(urls) != 2 {
		t.Fatalf("recording urls = %v, want 2 entries", urls)
	}
}

func TestReconcileAttendanceFirstJoinWins(t *testing.T) {
	store := newStubReconcileStore()
	sess := store.seed("m-4", sessModel.SessionStatusLive)
	rec := &Reconciler{Store: store}

	user := uuid.New()
	firstJoin := time.Now()

	out, err := rec.Apply(context.Background(), WebhookEvent{
		Kind: EventParticipantJoined, ExternalMeetingID: "m-4", OccurredAt: firstJoin,
		Participant: &ParticipantEvent{UserID: user, Role: "student"},
	})
	if err != nil || out != OutcomeApplied {
		t.Fatalf("first join: out=%s err=%v", out, err)
	}

	// Rejoin 10 menit kemudian: joined_at pertama dipertahankan
	out, err = rec.Apply(context.Background(), WebhookEvent{
		Kind: EventParticipantJoined, ExternalMeetingID: "m-4", OccurredAt: firstJoin.Add(10 * time.Minute),
		Participant: &ParticipantEvent{UserID: user, Role: "student"},
	})
	if err != nil || out != OutcomeNoop {
		t.Fatalf("rejoin: out=%s err=%v, want noop", out, err)
	}

	att := store.attendances[attendanceKey{sess.ClassSessionID, user}]
	if att == nil {
		t.Fatalf("attendance row missing")
	}
	if !att.SessionAttendanceJoinedAt.Equal(firstJoin) {
		t.Fatalf("joined_at = %v, want first join %v", att.SessionAttendanceJoinedAt, firstJoin)
	}

	leftAt := firstJoin.Add(time.Hour)
	if _, err := rec.Apply(context.Background(), WebhookEvent{
		Kind: EventParticipantLeft, ExternalMeetingID: "m-4", OccurredAt: leftAt,
		Participant: &ParticipantEvent{UserID: user},
	}); err != nil {
		t.Fatalf("left: %v", err)
	}
	if att.SessionAttendanceLeftAt == nil || !att.SessionAttendanceLeftAt.Equal(leftAt) {
		t.Fatalf("left_at = %v, want %v", att.SessionAttendanceLeftAt, leftAt)
	}
}
