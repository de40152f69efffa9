package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	classModel "tutorku_backend/internals/features/classes/model"
	provider "tutorku_backend/internals/features/meetings/provider"
	sessModel "tutorku_backend/internals/features/sessions/model"
)

/* =========================
   Stubs
========================= */

type stubMeetingStore struct {
	sessions map[uuid.UUID]*sessModel.ClassSessionModel
	classes  map[uuid.UUID]*classModel.ClassModel
	mappings map[uuid.UUID]*sessModel.MeetingMappingModel
}

func newStubMeetingStore() *stubMeetingStore {
	return &stubMeetingStore{
		sessions: map[uuid.UUID]*sessModel.ClassSessionModel{},
		classes:  map[uuid.UUID]*classModel.ClassModel{},
		mappings: map[uuid.UUID]*sessModel.MeetingMappingModel{},
	}
}

func (s *stubMeetingStore) GetSession(_ context.Context, id uuid.UUID) (*sessModel.ClassSessionModel, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	cp := *sess
	return &cp, nil
}

func (s *stubMeetingStore) GetClass(_ context.Context, id uuid.UUID) (*classModel.ClassModel, error) {
	cls, ok := s.classes[id]
	if !ok {
		return nil, errors.New("class not found")
	}
	return cls, nil
}

func (s *stubMeetingStore) GetMapping(_ context.Context, id uuid.UUID) (*sessModel.MeetingMappingModel, error) {
	return s.mappings[id], nil
}

func (s *stubMeetingStore) ClaimExternalMeetingID(_ context.Context, id uuid.UUID, externalID string) (bool, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return false, errors.New("session not found")
	}
	if sess.ClassSessionExternalMeetingID != nil {
		return false, nil
	}
	sess.ClassSessionExternalMeetingID = &externalID
	return true, nil
}

func (s *stubMeetingStore) SaveMapping(_ context.Context, m *sessModel.MeetingMappingModel) error {
	s.mappings[m.MeetingMappingSessionID] = m
	return nil
}

func (s *stubMeetingStore) ListSessionsNeedingMeeting(_ context.Context, from, to time.Time) ([]sessModel.ClassSessionModel, error) {
	var out []sessModel.ClassSessionModel
	for _, sess := range s.sessions {
		if sess.ClassSessionExternalMeetingID != nil {
			continue
		}
		if sess.ClassSessionStartsAt.Before(from) || !sess.ClassSessionStartsAt.Before(to) {
			continue
		}
		out = append(out, *sess)
	}
	return out, nil
}

type stubProvider struct {
	createCalls int
	deleteCalls []string
	failTopics  map[string]bool
	nextID      int
}

func (p *stubProvider) CreateMeeting(_ context.Context, topic string, _ time.Time, _ time.Duration, _ string) (*provider.Meeting, error) {
	if p.failTopics[topic] {
		return nil, &provider.TransientError{Op: "create", Err: errors.New("status 503")}
	}
	p.createCalls++
	p.nextID++
	return &provider.Meeting{
		ExternalID:  fmt.Sprintf("ext-%d", p.nextID),
		HostJoinURL: "https://meet.example/host",
		JoinURL:     "https://meet.example/join",
		Passcode:    "123456",
	}, nil
}

func (p *stubProvider) DeleteMeeting(_ context.Context, id string) error {
	p.deleteCalls = append(p.deleteCalls, id)
	return nil
}

func (p *stubProvider) GetRecordingDownloadURL(_ context.Context, _ string) (string, error) {
	return "", errors.New("not implemented")
}

func (p *stubProvider) ListPastParticipants(_ context.Context, _ string) ([]provider.Participant, error) {
	return nil, errors.New("not implemented")
}

func seedSession(store *stubMeetingStore, title string) uuid.UUID {
	classID := uuid.New()
	sessionID := uuid.New()
	store.classes[classID] = &classModel.ClassModel{
		ClassID:       classID,
		ClassName:     "Matematika SMA",
		ClassTimezone: "Asia/Jakarta",
		ClassStatus:   classModel.ClassStatusActive,
	}
	start := time.Now().Add(12 * time.Hour)
	store.sessions[sessionID] = &sessModel.ClassSessionModel{
		ClassSessionID:       sessionID,
		ClassSessionClassID:  classID,
		ClassSessionTitle:    &title,
		ClassSessionStartsAt: start,
		ClassSessionEndsAt:   start.Add(2 * time.Hour),
		ClassSessionStatus:   sessModel.SessionStatusScheduled,
	}
	return sessionID
}

/* =========================
   Tests
========================= */

func TestEnsureMeetingIdempotent(t *testing.T) {
	store := newStubMeetingStore()
	prov := &stubProvider{}
	orch := &MeetingOrchestrator{Store: store, Provider: prov}

	sessionID := seedSession(store, "Aljabar pertemuan ke-1")

	first, err := orch.EnsureMeeting(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("EnsureMeeting: %v", err)
	}
	second, err := orch.EnsureMeeting(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("EnsureMeeting (2nd): %v", err)
	}

	if first.MeetingMappingExternalMeetingID != second.MeetingMappingExternalMeetingID {
		t.Fatalf("external id changed between calls: %s vs %s",
			first.MeetingMappingExternalMeetingID, second.MeetingMappingExternalMeetingID)
	}
	if prov.createCalls != 1 {
		t.Fatalf("provider CreateMeeting called %d times, want 1", prov.createCalls)
	}
}

func TestEnsureMeetingLosesClaimRace(t *testing.T) {
	store := newStubMeetingStore()
	prov := &stubProvider{}
	orch := &MeetingOrchestrator{Store: store, Provider: prov}

	sessionID := seedSession(store, "Fisika pertemuan ke-1")

	// Simulasikan pemenang race yang sudah claim duluan, tapi ikut
	// membiarkan provider call kita jalan (claim baru terjadi setelahnya).
	winner := "ext-winner"
	store.sessions[sessionID].ClassSessionExternalMeetingID = nil
	raceStore := &claimRacingStore{stubMeetingStore: store, winnerID: winner}
	orch.Store = raceStore

	mapping, err := orch.EnsureMeeting(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("EnsureMeeting: %v", err)
	}
	if mapping.MeetingMappingExternalMeetingID != winner {
		t.Fatalf("expected winner meeting %s, got %s", winner, mapping.MeetingMappingExternalMeetingID)
	}
	if len(prov.deleteCalls) != 1 {
		t.Fatalf("orphan meeting should be deleted, got %v", prov.deleteCalls)
	}
}

// claimRacingStore: claim selalu kalah — external id keburu diisi pihak lain.
type claimRacingStore struct {
	*stubMeetingStore
	winnerID string
}

func (s *claimRacingStore) ClaimExternalMeetingID(_ context.Context, id uuid.UUID, _ string) (bool, error) {
	s.sessions[id].ClassSessionExternalMeetingID = &s.winnerID
	return false, nil
}

func TestEnsureMeetingsWithinIsolatesFailures(t *testing.T) {
	store := newStubMeetingStore()
	prov := &stubProvider{failTopics: map[string]bool{"Kimia pertemuan ke-1": true}}
	orch := &MeetingOrchestrator{Store: store, Provider: prov}

	seedSession(store, "Kimia pertemuan ke-1")
	seedSession(store, "Biologi pertemuan ke-1")

	res := orch.EnsureMeetingsWithin(context.Background(), time.Now(), time.Now().Add(24*time.Hour))
	if res.Processed != 2 {
		t.Fatalf("processed = %d, want 2", res.Processed)
	}
	if res.Failed != 1 || res.Succeeded != 1 {
		t.Fatalf("failed=%d succeeded=%d, want 1/1", res.Failed, res.Succeeded)
	}
}

func TestIssueJoinCredentialRequiresAllowedGate(t *testing.T) {
	store := newStubMeetingStore()
	orch := &MeetingOrchestrator{Store: store, Provider: &stubProvider{},
		SDKKey: "sdk-key", SDKSecret: "sdk-secret"}

	sessionID := seedSession(store, "Aljabar pertemuan ke-2")
	ext := "ext-77"
	store.sessions[sessionID].ClassSessionExternalMeetingID = &ext

	denied := GateDecision{Allowed: false, Reason: GateReasonPaymentRequired}
	if _, err := orch.IssueJoinCredential(context.Background(), sessionID, denied, false); err == nil {
		t.Fatalf("credential must never be issued on a denied gate")
	}

	allowed := GateDecision{Allowed: true, Reason: GateReasonVerified}
	token, err := orch.IssueJoinCredential(context.Background(), sessionID, allowed, false)
	if err != nil {
		t.Fatalf("IssueJoinCredential: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected a signed JWT, got %q", token)
	}
}
