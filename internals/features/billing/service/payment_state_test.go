package service

import (
	"testing"

	"tutorku_backend/internals/features/billing/model"
)

func TestPaymentTransitions(t *testing.T) {
	cases := []struct {
		from, to model.PaymentStatus
		ok       bool
	}{
		{model.PaymentStatusNotPaid, model.PaymentStatusPendingVerification, true},
		{model.PaymentStatusNotPaid, model.PaymentStatusPending, true},
		{model.PaymentStatusPending, model.PaymentStatusVerified, true},
		{model.PaymentStatusPending, model.PaymentStatusPendingVerification, true},
		{model.PaymentStatusPendingVerification, model.PaymentStatusVerified, true},
		{model.PaymentStatusPendingVerification, model.PaymentStatusRejected, true},
		{model.PaymentStatusRejected, model.PaymentStatusPendingVerification, true},

		// verified terminal
		{model.PaymentStatusVerified, model.PaymentStatusRejected, false},
		{model.PaymentStatusVerified, model.PaymentStatusPendingVerification, false},
		{model.PaymentStatusVerified, model.PaymentStatusNotPaid, false},

		// lompatan yang dilarang
		{model.PaymentStatusNotPaid, model.PaymentStatusVerified, false},
		{model.PaymentStatusNotPaid, model.PaymentStatusRejected, false},
		{model.PaymentStatusRejected, model.PaymentStatusVerified, false},
		{model.PaymentStatusPendingVerification, model.PaymentStatusNotPaid, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
		err := Transition(tc.from, tc.to)
		if tc.ok && err != nil {
			t.Errorf("Transition(%s, %s): unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("Transition(%s, %s): expected error", tc.from, tc.to)
		}
	}
}
