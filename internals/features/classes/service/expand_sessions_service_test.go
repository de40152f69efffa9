package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	classModel "tutorku_backend/internals/features/classes/model"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func slot(day int, start, end string) classModel.ClassTimeSlotModel {
	return classModel.ClassTimeSlotModel{
		ClassTimeSlotID:        uuid.New(),
		ClassTimeSlotDayOfWeek: day,
		ClassTimeSlotStartTime: start,
		ClassTimeSlotEndTime:   end,
	}
}

func TestExpandTwoSlotsTwoWeeks(t *testing.T) {
	loc := mustLoc(t, "Asia/Jakarta")

	// Senin 14:00-16:00 + Rabu 09:00-10:00
	slots, errs := validateSlots([]classModel.ClassTimeSlotModel{
		slot(1, "14:00", "16:00"),
		slot(3, "09:00", "10:00"),
	}, "Asia/Jakarta")
	if len(errs) != 0 {
		t.Fatalf("unexpected slot errors: %v", errs)
	}

	// 2026-08-03 adalah Senin; horizon 2 minggu (13 hari inklusif)
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 13)

	occs := expandOccurrences(slots, start, end, loc)
	if len(occs) != 4 {
		t.Fatalf("expected 4 occurrences, got %d", len(occs))
	}

	// Urutan kronologis: Sen, Rab, Sen, Rab
	first := occs[0].StartAt.In(loc)
	if first.Weekday() != time.Monday || first.Hour() != 14 {
		t.Fatalf("first occurrence wrong: %s", first)
	}
	if first.Day() != 3 {
		t.Fatalf("expected first occurrence on start date, got day %d", first.Day())
	}
	second := occs[1].StartAt.In(loc)
	if second.Weekday() != time.Wednesday || second.Hour() != 9 {
		t.Fatalf("second occurrence wrong: %s", second)
	}
	last := occs[3].StartAt.In(loc)
	if last.After(end.Add(24 * time.Hour)) {
		t.Fatalf("occurrence past horizon: %s", last)
	}

	// Durasi slot Senin = 2 jam
	if got := occs[0].EndAt.Sub(occs[0].StartAt); got != 2*time.Hour {
		t.Fatalf("expected 2h duration, got %s", got)
	}
}

func TestExpandNothingBeforeStartDate(t *testing.T) {
	loc := mustLoc(t, "Asia/Jakarta")
	slots, _ := validateSlots([]classModel.ClassTimeSlotModel{
		slot(1, "14:00", "16:00"),
	}, "Asia/Jakarta")

	// Mulai Selasa → Senin pertama adalah 6 hari kemudian
	start := time.Date(2026, 8, 4, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 6)

	occs := expandOccurrences(slots, start, end, loc)
	if len(occs) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occs))
	}
	if got := occs[0].StartAt.In(loc); got.Day() != 10 {
		t.Fatalf("expected Monday Aug 10, got %s", got)
	}
}

func TestExpandCrossMidnightSlot(t *testing.T) {
	loc := mustLoc(t, "Asia/Jakarta")
	slots, errs := validateSlots([]classModel.ClassTimeSlotModel{
		slot(5, "23:00", "01:00"), // Jumat malam lewat tengah malam
	}, "Asia/Jakarta")
	if len(errs) != 0 {
		t.Fatalf("unexpected slot errors: %v", errs)
	}

	start := time.Date(2026, 8, 7, 0, 0, 0, 0, loc) // Jumat
	occs := expandOccurrences(slots, start, start, loc)
	if len(occs) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occs))
	}

	st := occs[0].StartAt.In(loc)
	et := occs[0].EndAt.In(loc)
	if st.Day() != 7 || st.Hour() != 23 {
		t.Fatalf("start wrong: %s", st)
	}
	// End jatuh di hari kalender berikutnya
	if et.Day() != 8 || et.Hour() != 1 {
		t.Fatalf("end should roll to next day, got %s", et)
	}
	if got := et.Sub(st); got != 2*time.Hour {
		t.Fatalf("expected 2h duration, got %s", got)
	}
}

func TestValidateSlotsPartialFailure(t *testing.T) {
	bad1 := slot(0, "14:00", "16:00")  // day di luar 1..7
	bad2 := slot(2, "banana", "16:00") // jam tidak valid
	good := slot(3, "09:00:00", "10:30:00")

	valid, errs := validateSlots([]classModel.ClassTimeSlotModel{bad1, bad2, good}, "Asia/Jakarta")
	if len(valid) != 1 {
		t.Fatalf("expected 1 valid slot, got %d", len(valid))
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 slot errors, got %d", len(errs))
	}
	if valid[0].id != good.ClassTimeSlotID {
		t.Fatalf("wrong surviving slot")
	}
	if errs[0].SlotID != bad1.ClassTimeSlotID {
		t.Fatalf("first error should reference the invalid-day slot")
	}
}

func TestExpandUsesWallClockTimezone(t *testing.T) {
	jakarta := mustLoc(t, "Asia/Jakarta")
	slots, _ := validateSlots([]classModel.ClassTimeSlotModel{
		slot(1, "07:00", "08:00"),
	}, "Asia/Jakarta")

	start := time.Date(2026, 8, 3, 0, 0, 0, 0, jakarta)
	occs := expandOccurrences(slots, start, start, jakarta)
	if len(occs) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occs))
	}
	// 07:00 WIB = 00:00 UTC
	if got := occs[0].StartAt; got.Hour() != 0 || got.Location() != time.UTC {
		t.Fatalf("expected 00:00 UTC, got %s", got)
	}
}
