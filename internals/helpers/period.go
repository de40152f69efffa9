// file: internals/helpers/period.go
package helper

import (
	"fmt"
	"time"
)

/* =========================
   Invoice period (YYYY-MM)
========================= */

// InvoicePeriod = satu bulan kalender sebagai unit penagihan.
type InvoicePeriod struct {
	Year  int
	Month time.Month
}

func (p InvoicePeriod) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

func (p InvoicePeriod) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// ParsePeriod menerima format "YYYY-MM".
func ParsePeriod(s string) (InvoicePeriod, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return InvoicePeriod{}, fmt.Errorf("invalid invoice period %q (want YYYY-MM)", s)
	}
	return InvoicePeriod{Year: t.Year(), Month: t.Month()}, nil
}

func PeriodOf(t time.Time, loc *time.Location) InvoicePeriod {
	tt := t.In(loc)
	return InvoicePeriod{Year: tt.Year(), Month: tt.Month()}
}

// Next: periode bulan berikutnya (invoice siswa ditagih di muka).
func (p InvoicePeriod) Next() InvoicePeriod {
	t := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return InvoicePeriod{Year: t.Year(), Month: t.Month()}
}

// Prev: periode bulan sebelumnya (invoice tutor dibayar di belakang).
func (p InvoicePeriod) Prev() InvoicePeriod {
	t := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return InvoicePeriod{Year: t.Year(), Month: t.Month()}
}

// Bounds: [awal bulan 00:00 lokal, awal bulan berikutnya) di timezone loc.
func (p InvoicePeriod) Bounds(loc *time.Location) (time.Time, time.Time) {
	start := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// WithinFirstDays: true bila t jatuh pada n hari pertama bulan kalendernya
// (dipakai aturan minggu gratis). Hari dihitung wall-clock di loc.
func WithinFirstDays(t time.Time, n int, loc *time.Location) bool {
	if n <= 0 {
		return false
	}
	return t.In(loc).Day() <= n
}

// FormatLocal: format waktu di timezone tertentu untuk pesan/notifikasi.
func FormatLocal(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02 15:04")
}
