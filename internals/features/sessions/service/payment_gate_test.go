package service

import (
	"testing"
	"time"

	billingModel "tutorku_backend/internals/features/billing/model"
)

var gateCfg = GateConfig{FreeTrialDays: 7, Location: time.UTC}

func day(d int) time.Time {
	return time.Date(2026, 8, d, 15, 0, 0, 0, time.UTC)
}

func TestCanJoinDecisionTable(t *testing.T) {
	cases := []struct {
		name    string
		role    GateRole
		date    time.Time
		status  billingModel.PaymentStatus
		allowed bool
		reason  string
	}{
		{"student free week any status", GateRoleStudent, day(3), billingModel.PaymentStatusNotPaid, true, GateReasonFreeTrial},
		{"student free week rejected", GateRoleStudent, day(7), billingModel.PaymentStatusRejected, true, GateReasonFreeTrial},
		{"student third week verified", GateRoleStudent, day(18), billingModel.PaymentStatusVerified, true, GateReasonVerified},
		{"student third week pending", GateRoleStudent, day(18), billingModel.PaymentStatusPending, false, GateReasonPaymentRequired},
		{"student third week not paid", GateRoleStudent, day(18), billingModel.PaymentStatusNotPaid, false, GateReasonPaymentRequired},
		{"student third week pending verification", GateRoleStudent, day(18), billingModel.PaymentStatusPendingVerification, false, GateReasonUnderVerification},
		{"student third week rejected", GateRoleStudent, day(18), billingModel.PaymentStatusRejected, false, GateReasonPaymentRejected},
		{"student no payment row", GateRoleStudent, day(18), "", false, GateReasonPaymentRequired},
		{"student waived status", GateRoleStudent, day(18), "waived", true, GateReasonVerified},
		{"tutor any date not paid", GateRoleTutor, day(25), billingModel.PaymentStatusNotPaid, true, GateReasonHost},
		{"admin any date rejected", GateRoleAdmin, day(25), billingModel.PaymentStatusRejected, true, GateReasonHost},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanJoin(tc.role, tc.date, tc.status, gateCfg)
			if got.Allowed != tc.allowed {
				t.Fatalf("allowed = %v, want %v", got.Allowed, tc.allowed)
			}
			if got.Reason != tc.reason {
				t.Fatalf("reason = %q, want %q", got.Reason, tc.reason)
			}
			if got.Message == "" {
				t.Fatalf("message must never be empty")
			}
		})
	}
}

func TestCanJoinEighthDayNotFree(t *testing.T) {
	got := CanJoin(GateRoleStudent, day(8), billingModel.PaymentStatusNotPaid, gateCfg)
	if got.Allowed {
		t.Fatalf("day 8 should not be inside a 7-day free window")
	}
}

func TestCanJoinFreeWindowIsWallClock(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	cfg := GateConfig{FreeTrialDays: 7, Location: jakarta}

	// 2026-08-07 20:00 UTC = 2026-08-08 03:00 WIB → sudah hari ke-8 di zona kelas
	at := time.Date(2026, 8, 7, 20, 0, 0, 0, time.UTC)
	got := CanJoin(GateRoleStudent, at, billingModel.PaymentStatusNotPaid, cfg)
	if got.Allowed {
		t.Fatalf("free window must be evaluated in the class timezone")
	}
}

func TestCanJoinZeroFreeDaysDisablesTrial(t *testing.T) {
	cfg := GateConfig{FreeTrialDays: 0, Location: time.UTC}
	got := CanJoin(GateRoleStudent, day(1), billingModel.PaymentStatusNotPaid, cfg)
	if got.Allowed {
		t.Fatalf("trial disabled, expected denial")
	}
	if got.Reason != GateReasonPaymentRequired {
		t.Fatalf("reason = %q", got.Reason)
	}
}
