// file: internals/features/meetings/provider/provider.go
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"
)

/* =========================
   Kolaborator: Meeting Provider
========================= */

// Meeting: hasil create di provider.
type Meeting struct {
	ExternalID  string
	HostJoinURL string
	JoinURL     string
	Passcode    string
}

// Participant: baris laporan kehadiran dari reporting API provider
// (dipakai backfill saat event granular tidak tersedia).
type Participant struct {
	UserID   string
	Name     string
	JoinedAt time.Time
	LeftAt   *time.Time
}

// MeetingProvider: antarmuka sempit ke SDK/API provider video meeting.
// Semua call wajib dibatasi timeout oleh implementasi; timeout = gagal,
// tidak pernah dianggap sukses.
type MeetingProvider interface {
	CreateMeeting(ctx context.Context, topic string, start time.Time, duration time.Duration, timezone string) (*Meeting, error)
	DeleteMeeting(ctx context.Context, externalID string) error
	GetRecordingDownloadURL(ctx context.Context, externalID string) (string, error)
	ListPastParticipants(ctx context.Context, externalID string) ([]Participant, error)
}

/* =========================
   Error klasifikasi
========================= */

// TransientError: gangguan sementara (network/timeout/5xx/429) —
// aman di-retry pada pass scheduler berikutnya.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("meeting provider %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
