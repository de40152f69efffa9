// file: internals/features/classes/service/expand_sessions_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tutorku_backend/internals/configs"
	classModel "tutorku_backend/internals/features/classes/model"
	sessModel "tutorku_backend/internals/features/sessions/model"
	helper "tutorku_backend/internals/helpers"
)

/* =========================
   Expander + Options
========================= */

const maxExpandDays = 180 * 2 // guard maksimal rentang expand

type Expander struct{ DB *gorm.DB }

type ExpandOptions struct {
	StartDate time.Time
	// EndDate eksplisit; kalau nil pakai rolling horizon:
	// sampai akhir bulan kalender berikutnya dari StartDate.
	EndDate   *time.Time
	BatchSize int
}

type SlotError struct {
	SlotID uuid.UUID `json:"slot_id"`
	Reason string    `json:"reason"`
}

// ExpandResult: partial success — slot invalid dilaporkan per-slot,
// slot lain tetap di-expand.
type ExpandResult struct {
	Created    int         `json:"created"`
	Skipped    int         `json:"skipped"`
	SlotErrors []SlotError `json:"slot_errors,omitempty"`
}

/* =========================
   Pure expansion core
========================= */

type occurrence struct {
	SlotID   uuid.UUID
	StartAt  time.Time // UTC
	EndAt    time.Time // UTC
	Snapshot datatypes.JSONMap
}

func parseTODString(s string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return time.Date(2000, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
	}
	if t, err := time.Parse("15:04", s); err == nil {
		return time.Date(2000, 1, 1, t.Hour(), t.Minute(), 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("invalid time-of-day format: %q", s)
}

func startOfDayInLoc(t time.Time, loc *time.Location) time.Time {
	tt := t.In(loc)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, loc)
}

func combineLocalDateAndTOD(dLocal, tod time.Time, loc *time.Location) time.Time {
	return time.Date(dLocal.Year(), dLocal.Month(), dLocal.Day(), tod.Hour(), tod.Minute(), tod.Second(), 0, loc)
}

func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

type validSlot struct {
	id       uuid.UUID
	day      int
	startTOD time.Time
	endTOD   time.Time
	snapshot datatypes.JSONMap
}

// validateSlots: slot rusak tidak menggagalkan sisanya.
func validateSlots(slots []classModel.ClassTimeSlotModel, tzName string) ([]validSlot, []SlotError) {
	valid := make([]validSlot, 0, len(slots))
	var errs []SlotError
	for _, s := range slots {
		if s.ClassTimeSlotDayOfWeek < 1 || s.ClassTimeSlotDayOfWeek > 7 {
			errs = append(errs, SlotError{SlotID: s.ClassTimeSlotID,
				Reason: fmt.Sprintf("day_of_week %d di luar 1..7", s.ClassTimeSlotDayOfWeek)})
			continue
		}
		st, err1 := parseTODString(s.ClassTimeSlotStartTime)
		if err1 != nil {
			errs = append(errs, SlotError{SlotID: s.ClassTimeSlotID, Reason: err1.Error()})
			continue
		}
		et, err2 := parseTODString(s.ClassTimeSlotEndTime)
		if err2 != nil {
			errs = append(errs, SlotError{SlotID: s.ClassTimeSlotID, Reason: err2.Error()})
			continue
		}
		valid = append(valid, validSlot{
			id:       s.ClassTimeSlotID,
			day:      s.ClassTimeSlotDayOfWeek,
			startTOD: st,
			endTOD:   et,
			snapshot: datatypes.JSONMap{
				"slot_id":     s.ClassTimeSlotID.String(),
				"day_of_week": s.ClassTimeSlotDayOfWeek,
				"start_time":  s.ClassTimeSlotStartTime,
				"end_time":    s.ClassTimeSlotEndTime,
				"timezone":    tzName,
			},
		})
	}
	return valid, errs
}

// expandOccurrences: jalan hari-per-hari dari start..end (inklusif, lokal),
// emit occurrence tiap tanggal yang weekday-nya cocok dengan slot.
// Jam slot adalah wall-clock di loc; hasil disimpan UTC.
func expandOccurrences(slots []validSlot, startLocal, endLocal time.Time, loc *time.Location) []occurrence {
	out := make([]occurrence, 0, 64)
	for d := startLocal; !d.After(endLocal); d = d.AddDate(0, 0, 1) {
		for _, s := range slots {
			if isoWeekday(d) != s.day {
				continue
			}
			startAt := combineLocalDateAndTOD(d, s.startTOD, loc)
			endAt := combineLocalDateAndTOD(d, s.endTOD, loc)
			// Slot lewat tengah malam → end jatuh di hari kalender berikutnya
			if !endAt.After(startAt) {
				endAt = endAt.Add(24 * time.Hour)
			}
			out = append(out, occurrence{
				SlotID:   s.id,
				StartAt:  startAt.In(time.UTC),
				EndAt:    endAt.In(time.UTC),
				Snapshot: s.snapshot,
			})
		}
	}
	return out
}

/* =========================
   Public API
========================= */

func ptrUUID(u uuid.UUID) *uuid.UUID { return &u }

// ExpandForClass: expand template mingguan kelas jadi sesi bertanggal.
// Idempotent: (slot, starts_at) yang sudah ada di-skip lewat unique index +
// ON CONFLICT DO NOTHING, bukan duplikasi.
func (g *Expander) ExpandForClass(ctx context.Context, classID uuid.UUID, opts ExpandOptions) (ExpandResult, error) {
	var res ExpandResult

	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}

	// 1) Ambil kelas (timezone sumber kebenaran untuk wall-clock slot)
	var cls classModel.ClassModel
	if err := g.DB.WithContext(ctx).
		Where("class_id = ?", classID).
		Take(&cls).Error; err != nil {
		return res, err
	}
	if cls.ClassStatus != classModel.ClassStatusActive {
		return res, fmt.Errorf("class %s is not active", classID)
	}

	loc, err := time.LoadLocation(cls.ClassTimezone)
	if err != nil {
		loc = configs.Location()
	}

	startLocal := startOfDayInLoc(opts.StartDate, loc)
	var endLocal time.Time
	if opts.EndDate != nil {
		endLocal = startOfDayInLoc(*opts.EndDate, loc)
	} else {
		// Horizon default: sampai akhir bulan depan
		p := helper.PeriodOf(startLocal, loc).Next()
		_, nextEnd := p.Bounds(loc)
		endLocal = nextEnd.AddDate(0, 0, -1)
	}

	if endLocal.Before(startLocal) {
		return res, fmt.Errorf("invalid date range: start_date (%s) after end_date (%s)",
			startLocal.Format("2006-01-02"), endLocal.Format("2006-01-02"))
	}
	daysSpan := int(endLocal.Sub(startLocal).Hours()/24) + 1
	if daysSpan > maxExpandDays {
		return res, fmt.Errorf("date range too long for class %s: %d days (max %d)",
			classID, daysSpan, maxExpandDays)
	}

	// 2) Ambil slot template
	var slots []classModel.ClassTimeSlotModel
	if err := g.DB.WithContext(ctx).
		Where("class_time_slot_class_id = ?", classID).
		Order("class_time_slot_day_of_week, class_time_slot_start_time").
		Find(&slots).Error; err != nil {
		return res, err
	}

	valid, slotErrs := validateSlots(slots, cls.ClassTimezone)
	res.SlotErrors = slotErrs
	if len(valid) == 0 {
		return res, nil
	}

	// 3) Expand occurrences (pure) → rows
	occs := expandOccurrences(valid, startLocal, endLocal, loc)
	if len(occs) == 0 {
		return res, nil
	}

	rows := make([]sessModel.ClassSessionModel, 0, len(occs))
	for i, oc := range occs {
		title := fmt.Sprintf("%s pertemuan ke-%d", cls.ClassName, i+1)
		rows = append(rows, sessModel.ClassSessionModel{
			ClassSessionClassID:      classID,
			ClassSessionSlotID:       ptrUUID(oc.SlotID),
			ClassSessionSlotSnapshot: oc.Snapshot,
			ClassSessionTitle:        &title,
			ClassSessionStartsAt:     oc.StartAt,
			ClassSessionEndsAt:       oc.EndAt,
			ClassSessionStatus:       sessModel.SessionStatusScheduled,
		})
	}

	// 4) Idempotent insert (batch)
	tx := g.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, opts.BatchSize)
	if tx.Error != nil {
		return res, tx.Error
	}
	res.Created = int(tx.RowsAffected)
	res.Skipped = len(rows) - res.Created
	return res, nil
}

// ExpandAllActive: dipakai cron — expand semua kelas aktif sampai horizon.
// Kegagalan per-kelas diisolasi, tidak menggagalkan batch.
func (g *Expander) ExpandAllActive(ctx context.Context, now time.Time) helper.BatchResult {
	var out helper.BatchResult

	var ids []uuid.UUID
	if err := g.DB.WithContext(ctx).
		Model(&classModel.ClassModel{}).
		Where("class_status = ?", classModel.ClassStatusActive).
		Pluck("class_id", &ids).Error; err != nil {
		out.Add("list_classes", "failed", err.Error())
		return out
	}

	for _, id := range ids {
		r, err := g.ExpandForClass(ctx, id, ExpandOptions{StartDate: now})
		if err != nil {
			out.Add(id.String(), "failed", err.Error())
			continue
		}
		status := "ok"
		if r.Created > 0 {
			status = "created"
		} else if r.Skipped > 0 {
			status = "skipped"
		}
		out.Add(id.String(), status, fmt.Sprintf("created=%d skipped=%d slot_errors=%d",
			r.Created, r.Skipped, len(r.SlotErrors)))
	}
	return out
}
