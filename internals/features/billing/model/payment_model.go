// file: internals/features/billing/model/payment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusNotPaid             PaymentStatus = "not_paid"
	PaymentStatusPending             PaymentStatus = "pending"
	PaymentStatusPendingVerification PaymentStatus = "pending_verification"
	PaymentStatusVerified            PaymentStatus = "verified"
	PaymentStatusRejected            PaymentStatus = "rejected"
)

// PaymentModel: satu lineage pembayaran per invoice. Payment yang ditolak
// di-resubmit (proof baru, status balik ke pending_verification) — riwayat
// penolakan tersimpan di notes + timestamp, bukan baris baru.
type PaymentModel struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_id"`

	PaymentInvoiceID uuid.UUID `gorm:"column:payment_invoice_id;type:uuid;not null;uniqueIndex" json:"payment_invoice_id"`

	PaymentProofURL *string `gorm:"column:payment_proof_url;type:text" json:"payment_proof_url,omitempty"`

	PaymentStatus PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'not_paid'" json:"payment_status"`

	PaymentSubmittedAt *time.Time `gorm:"column:payment_submitted_at;type:timestamptz" json:"payment_submitted_at,omitempty"`
	PaymentVerifiedAt  *time.Time `gorm:"column:payment_verified_at;type:timestamptz" json:"payment_verified_at,omitempty"`
	PaymentRejectedAt  *time.Time `gorm:"column:payment_rejected_at;type:timestamptz" json:"payment_rejected_at,omitempty"`

	PaymentNotes *string `gorm:"column:payment_notes;type:text" json:"payment_notes,omitempty"`

	PaymentCreatedAt time.Time      `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt *time.Time     `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at,omitempty"`
	PaymentDeletedAt gorm.DeletedAt `gorm:"column:payment_deleted_at;index" json:"payment_deleted_at,omitempty"`
}

func (PaymentModel) TableName() string { return "payments" }
