// file: internals/features/billing/service/payment_state.go
package service

import (
	"fmt"

	"tutorku_backend/internals/features/billing/model"
)

/* =========================
   State machine pembayaran
========================= */

// allowedTransitions: tabel eksplisit — transisi di luar tabel ini ditolak,
// termasuk yang "kelihatan masuk akal" (verified → apapun, dsb).
var allowedTransitions = map[model.PaymentStatus][]model.PaymentStatus{
	model.PaymentStatusNotPaid: {
		model.PaymentStatusPending,             // checkout gateway dibuat
		model.PaymentStatusPendingVerification, // submit bukti manual
	},
	model.PaymentStatusPending: {
		model.PaymentStatusVerified,            // settlement dari gateway
		model.PaymentStatusPendingVerification, // user beralih ke bukti manual
	},
	model.PaymentStatusPendingVerification: {
		model.PaymentStatusVerified,
		model.PaymentStatusRejected,
	},
	model.PaymentStatusRejected: {
		model.PaymentStatusPendingVerification, // resubmit bukti baru
	},
	// verified terminal — tidak ada jalan keluar
}

// CanTransition: true bila perpindahan from → to ada di tabel.
func CanTransition(from, to model.PaymentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition: versi error-returning untuk dipakai controller — pesan error
// menyebut kedua status supaya gampang didebug dari log.
func Transition(from, to model.PaymentStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("invalid payment transition: %s → %s", from, to)
	}
	return nil
}
