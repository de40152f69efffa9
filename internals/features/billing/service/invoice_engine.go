// file: internals/features/billing/service/invoice_engine.go
package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"tutorku_backend/internals/features/billing/model"
	helper "tutorku_backend/internals/helpers"
)

/* =========================
   Source & store (narrow, biar bisa distub)
========================= */

// BillableEnrollment: satu pasangan (siswa, kelas) aktif beserta tarif
// bulanannya — bahan mentah invoice siswa.
type BillableEnrollment struct {
	ClassID       uuid.UUID
	StudentID     uuid.UUID
	FeeMonthlyIDR int64
}

// TutorEarning: total invoice siswa yang PAID untuk kelas-kelas milik satu
// tutor pada satu periode. Fee platform belum dipotong.
type TutorEarning struct {
	TutorID      uuid.UUID
	GrossIDR     int64
	PaidInvoices int
}

type EnrollmentSource interface {
	ListBillableEnrollments(ctx context.Context) ([]BillableEnrollment, error)
	// SumPaidStudentInvoices: agregat per tutor atas invoice siswa berstatus
	// paid untuk periode yang diminta ("YYYY-MM").
	SumPaidStudentInvoices(ctx context.Context, period string) ([]TutorEarning, error)
}

type InvoiceStore interface {
	// CreateIfAbsent: insert idempoten — false berarti invoice untuk kunci
	// unik (payer, class, period, role) sudah ada, baris lama tidak disentuh.
	CreateIfAbsent(ctx context.Context, inv *model.InvoiceModel) (bool, error)
}

/* =========================
   Engine
========================= */

// InvoiceEngine: generator invoice bulanan. Siswa ditagih DI MUKA (periode
// berikutnya), tutor dibayar DI BELAKANG (periode sebelumnya) setelah
// dipotong fee platform. Dua-duanya idempoten lewat constraint unik di DB.
type InvoiceEngine struct {
	Source EnrollmentSource
	Store  InvoiceStore

	// persen fee platform yang dipotong dari payout tutor (mis. 20)
	FeePercent int
}

// GenerateStudentInvoices: satu invoice unpaid per enrollment aktif untuk
// periode target. Run kedua dengan input sama tidak menambah baris.
func (e *InvoiceEngine) GenerateStudentInvoices(ctx context.Context, period helper.InvoicePeriod) helper.BatchResult {
	var out helper.BatchResult

	if period.IsZero() {
		out.Add("period", "failed", "empty invoice period")
		return out
	}

	enrollments, err := e.Source.ListBillableEnrollments(ctx)
	if err != nil {
		out.Add("list_enrollments", "failed", err.Error())
		return out
	}

	for _, en := range enrollments {
		key := fmt.Sprintf("%s:%s", en.StudentID, en.ClassID)

		if en.FeeMonthlyIDR <= 0 {
			out.Add(key, "skipped", "class fee is zero")
			continue
		}

		inv := &model.InvoiceModel{
			InvoicePayerID:   en.StudentID,
			InvoicePayerRole: model.PayerRoleStudent,
			InvoiceClassID:   en.ClassID,
			InvoicePeriod:    period.String(),
			InvoiceAmountIDR: en.FeeMonthlyIDR,
			InvoiceStatus:    model.InvoiceStatusUnpaid,
		}

		created, err := e.Store.CreateIfAbsent(ctx, inv)
		if err != nil {
			out.Add(key, "failed", err.Error())
			continue
		}
		if !created {
			out.Add(key, "skipped", "invoice already exists")
			continue
		}
		out.Add(key, "created", "")
	}

	log.Printf("[INFO] invoice siswa periode %s: %d created, %d skipped, %d failed",
		period, countStatus(out, "created"), countStatus(out, "skipped"), out.Failed)
	return out
}

// GenerateTutorInvoices: payout tutor untuk periode yang sudah lewat —
// dasar hitungnya HANYA invoice siswa yang paid, dipotong fee platform.
// Tutor tanpa pemasukan paid tidak dapat invoice.
func (e *InvoiceEngine) GenerateTutorInvoices(ctx context.Context, period helper.InvoicePeriod) helper.BatchResult {
	var out helper.BatchResult

	if period.IsZero() {
		out.Add("period", "failed", "empty invoice period")
		return out
	}

	earnings, err := e.Source.SumPaidStudentInvoices(ctx, period.String())
	if err != nil {
		out.Add("sum_paid_invoices", "failed", err.Error())
		return out
	}

	for _, earn := range earnings {
		key := earn.TutorID.String()

		payout := earn.GrossIDR * int64(100-e.FeePercent) / 100
		if payout <= 0 {
			out.Add(key, "skipped", "payout is zero")
			continue
		}

		inv := &model.InvoiceModel{
			InvoicePayerID:   earn.TutorID,
			InvoicePayerRole: model.PayerRoleTutor,
			// invoice tutor agregat seluruh kelas — class id disentinelkan
			// uuid.Nil supaya tetap kena constraint unik (NULL di Postgres
			// dianggap distinct antar baris)
			InvoiceClassID:   uuid.Nil,
			InvoicePeriod:    period.String(),
			InvoiceAmountIDR: payout,
			InvoiceStatus:    model.InvoiceStatusUnpaid,
		}

		created, err := e.Store.CreateIfAbsent(ctx, inv)
		if err != nil {
			out.Add(key, "failed", err.Error())
			continue
		}
		if !created {
			out.Add(key, "skipped", "invoice already exists")
			continue
		}
		out.Add(key, "created", "")
	}

	log.Printf("[INFO] invoice tutor periode %s: %d created, %d skipped, %d failed",
		period, countStatus(out, "created"), countStatus(out, "skipped"), out.Failed)
	return out
}

func countStatus(r helper.BatchResult, status string) int {
	n := 0
	for _, d := range r.Details {
		if d.Status == status {
			n++
		}
	}
	return n
}
