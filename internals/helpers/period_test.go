package helper

import (
	"testing"
	"time"
)

func TestPeriodStringAndParse(t *testing.T) {
	p := InvoicePeriod{Year: 2026, Month: time.September}
	if p.String() != "2026-09" {
		t.Fatalf("String() = %s, want 2026-09", p.String())
	}

	parsed, err := ParsePeriod("2026-09")
	if err != nil {
		t.Fatalf("ParsePeriod: %v", err)
	}
	if parsed != p {
		t.Fatalf("parsed = %+v, want %+v", parsed, p)
	}

	for _, bad := range []string{"2026-13", "2026/09", "09-2026", "abc", ""} {
		if _, err := ParsePeriod(bad); err == nil {
			t.Errorf("ParsePeriod(%q) should fail", bad)
		}
	}
}

func TestPeriodNextPrevAcrossYear(t *testing.T) {
	dec := InvoicePeriod{Year: 2026, Month: time.December}
	if next := dec.Next(); next.Year != 2027 || next.Month != time.January {
		t.Fatalf("Next() dari Desember = %+v", next)
	}
	jan := InvoicePeriod{Year: 2027, Month: time.January}
	if prev := jan.Prev(); prev.Year != 2026 || prev.Month != time.December {
		t.Fatalf("Prev() dari Januari = %+v", prev)
	}
}

func TestPeriodBoundsHalfOpen(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		t.Fatal(err)
	}

	p := InvoicePeriod{Year: 2026, Month: time.August}
	start, end := p.Bounds(loc)

	if !start.Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, loc)) {
		t.Fatalf("start = %v", start)
	}
	if !end.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, loc)) {
		t.Fatalf("end = %v", end)
	}

	// Detik terakhir Agustus masih di dalam, awal September sudah di luar
	last := time.Date(2026, 8, 31, 23, 59, 59, 0, loc)
	if last.Before(start) || !last.Before(end) {
		t.Fatalf("last second of August should be inside the period")
	}
	if end.Before(start) {
		t.Fatalf("bounds inverted")
	}
}

func TestWithinFirstDaysUsesWallClock(t *testing.T) {
	wib, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		t.Fatal(err)
	}

	// 7 Agustus 23:00 WIB = 16:00 UTC — hari ke-7 di WIB, tetap gratis
	d7 := time.Date(2026, 8, 7, 16, 0, 0, 0, time.UTC)
	if !WithinFirstDays(d7, 7, wib) {
		t.Fatalf("day 7 in WIB should be within first 7 days")
	}

	// 7 Agustus 17:30 UTC = 8 Agustus 00:30 WIB — sudah hari ke-8 di WIB
	d8 := time.Date(2026, 8, 7, 17, 30, 0, 0, time.UTC)
	if WithinFirstDays(d8, 7, wib) {
		t.Fatalf("day 8 in WIB should be outside the free window")
	}

	if WithinFirstDays(d7, 0, wib) {
		t.Fatalf("n=0 disables the window entirely")
	}
}

func TestPeriodOfRespectsLocation(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	// 31 Agustus 20:00 UTC = 1 September 03:00 WIB
	ts := time.Date(2026, 8, 31, 20, 0, 0, 0, time.UTC)

	if p := PeriodOf(ts, time.UTC); p.String() != "2026-08" {
		t.Fatalf("PeriodOf UTC = %s", p)
	}
	if p := PeriodOf(ts, wib); p.String() != "2026-09" {
		t.Fatalf("PeriodOf WIB = %s", p)
	}
}
