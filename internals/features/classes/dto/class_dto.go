// file: internals/features/classes/dto/class_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorku_backend/internals/features/classes/model"
)

/* =========================
   Requests
========================= */

type TimeSlotInput struct {
	DayOfWeek int    `json:"day_of_week" validate:"required,min=1,max=7"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type ClassCreateRequest struct {
	ClassTutorID       uuid.UUID       `json:"class_tutor_id" validate:"required"`
	ClassName          string          `json:"class_name" validate:"required,min=3,max=120"`
	ClassSubject       string          `json:"class_subject" validate:"required,min=2,max=80"`
	ClassFeeMonthlyIDR int64           `json:"class_fee_monthly_idr" validate:"gte=0"`
	ClassTimezone      string          `json:"class_timezone" validate:"omitempty,max=64"`
	Slots              []TimeSlotInput `json:"slots" validate:"omitempty,dive"`

	// langsung generate sesi sampai akhir bulan depan setelah create
	ExpandNow bool `json:"expand_now"`
}

type ClassUpdateRequest struct {
	ClassName          *string `json:"class_name" validate:"omitempty,min=3,max=120"`
	ClassSubject       *string `json:"class_subject" validate:"omitempty,min=2,max=80"`
	ClassFeeMonthlyIDR *int64  `json:"class_fee_monthly_idr" validate:"omitempty,gte=0"`
	ClassStatus        *string `json:"class_status" validate:"omitempty,oneof=active archived"`
}

type EnrollRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
}

type ExpandRequest struct {
	// "YYYY-MM-DD", opsional — default hari ini s/d akhir bulan depan
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

/* =========================
   Responses
========================= */

type TimeSlotResponse struct {
	ClassTimeSlotID uuid.UUID `json:"class_time_slot_id"`
	DayOfWeek       int       `json:"day_of_week"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
}

type ClassResponse struct {
	ClassID            uuid.UUID          `json:"class_id"`
	ClassTutorID       uuid.UUID          `json:"class_tutor_id"`
	ClassName          string             `json:"class_name"`
	ClassSubject       string             `json:"class_subject"`
	ClassFeeMonthlyIDR int64              `json:"class_fee_monthly_idr"`
	ClassTimezone      string             `json:"class_timezone"`
	ClassStatus        model.ClassStatus  `json:"class_status"`
	ClassCreatedAt     time.Time          `json:"class_created_at"`
	Slots              []TimeSlotResponse `json:"slots,omitempty"`
}

func ToTimeSlotResponse(m model.ClassTimeSlotModel) TimeSlotResponse {
	return TimeSlotResponse{
		ClassTimeSlotID: m.ClassTimeSlotID,
		DayOfWeek:       m.ClassTimeSlotDayOfWeek,
		StartTime:       m.ClassTimeSlotStartTime,
		EndTime:         m.ClassTimeSlotEndTime,
	}
}

func ToClassResponse(m model.ClassModel, slots []model.ClassTimeSlotModel) ClassResponse {
	resp := ClassResponse{
		ClassID:            m.ClassID,
		ClassTutorID:       m.ClassTutorID,
		ClassName:          m.ClassName,
		ClassSubject:       m.ClassSubject,
		ClassFeeMonthlyIDR: m.ClassFeeMonthlyIDR,
		ClassTimezone:      m.ClassTimezone,
		ClassStatus:        m.ClassStatus,
		ClassCreatedAt:     m.ClassCreatedAt,
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, ToTimeSlotResponse(s))
	}
	return resp
}
