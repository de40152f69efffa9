package controller

import (
	"testing"
	"time"
)

// Trigger cron jalan jam 00:xx WIB tanggal 1 — di UTC itu masih malam
// tanggal akhir bulan sebelumnya. Periode default harus ikut wall-clock
// timezone bisnis, bukan jam server.
func TestDefaultInvoicePeriodsUseBusinessTimezone(t *testing.T) {
	// 31 Agustus 20:00 UTC = 1 September 03:00 WIB
	now := time.Date(2026, 8, 31, 20, 0, 0, 0, time.UTC)

	if p := defaultStudentPeriod(now); p.String() != "2026-10" {
		t.Fatalf("student period = %s, want 2026-10 (bulan depan dari September WIB)", p)
	}
	if p := defaultTutorPeriod(now); p.String() != "2026-08" {
		t.Fatalf("tutor period = %s, want 2026-08 (bulan lalu dari September WIB)", p)
	}
}

func TestDefaultInvoicePeriodsMidMonth(t *testing.T) {
	now := time.Date(2026, 8, 15, 5, 0, 0, 0, time.UTC)

	if p := defaultStudentPeriod(now); p.String() != "2026-09" {
		t.Fatalf("student period = %s, want 2026-09", p)
	}
	if p := defaultTutorPeriod(now); p.String() != "2026-07" {
		t.Fatalf("tutor period = %s, want 2026-07", p)
	}
}
