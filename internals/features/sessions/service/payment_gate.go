// file: internals/features/sessions/service/payment_gate.go
package service

import (
	"time"

	billingModel "tutorku_backend/internals/features/billing/model"
	helper "tutorku_backend/internals/helpers"
)

/* =========================
   Payment gate (pure)
========================= */

type GateRole string

const (
	GateRoleStudent GateRole = "student"
	GateRoleTutor   GateRole = "tutor"
	GateRoleAdmin   GateRole = "admin"
)

const (
	GateReasonHost              = "host"
	GateReasonFreeTrial         = "free_trial_week"
	GateReasonVerified          = "payment_verified"
	GateReasonPaymentRequired   = "payment_required"
	GateReasonUnderVerification = "payment_under_verification"
	GateReasonPaymentRejected   = "payment_rejected"
)

type GateDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type GateConfig struct {
	FreeTrialDays int
	Location      *time.Location
}

// CanJoin: keputusan boleh/tidaknya user masuk kelas virtual.
// Murni — tanpa I/O, semua state lewat argumen. Penolakan BUKAN error,
// melainkan hasil normal dengan alasan yang bisa dirender caller.
//
// Urutan aturan:
//  1. tutor/admin kelas tidak pernah kena payment gate
//  2. n hari pertama bulan kalender sesi = minggu gratis (promosi)
//  3. selain itu: hanya status pembayaran yang TIDAK memblok yang boleh
func CanJoin(role GateRole, sessionDate time.Time, payStatus billingModel.PaymentStatus, cfg GateConfig) GateDecision {
	if role == GateRoleTutor || role == GateRoleAdmin {
		return GateDecision{Allowed: true, Reason: GateReasonHost,
			Message: "Host tidak dikenakan payment gate"}
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	if helper.WithinFirstDays(sessionDate, cfg.FreeTrialDays, loc) {
		return GateDecision{Allowed: true, Reason: GateReasonFreeTrial,
			Message: "Minggu pertama bulan berjalan gratis"}
	}

	switch payStatus {
	case billingModel.PaymentStatusVerified:
		return GateDecision{Allowed: true, Reason: GateReasonVerified,
			Message: "Pembayaran terverifikasi"}
	case billingModel.PaymentStatusPendingVerification:
		return GateDecision{Allowed: false, Reason: GateReasonUnderVerification,
			Message: "Pembayaran sedang diverifikasi — mohon tunggu"}
	case billingModel.PaymentStatusRejected:
		return GateDecision{Allowed: false, Reason: GateReasonPaymentRejected,
			Message: "Bukti pembayaran ditolak — silakan upload ulang"}
	case billingModel.PaymentStatusPending, billingModel.PaymentStatusNotPaid, "":
		return GateDecision{Allowed: false, Reason: GateReasonPaymentRequired,
			Message: "Tagihan bulan ini belum dibayar"}
	default:
		// Status lain (mis. waived oleh admin) tidak memblok
		return GateDecision{Allowed: true, Reason: GateReasonVerified,
			Message: "Pembayaran tidak memblok akses"}
	}
}
