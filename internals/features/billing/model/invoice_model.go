// file: internals/features/billing/model/invoice_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayerRole string

const (
	PayerRoleStudent PayerRole = "student"
	PayerRoleTutor   PayerRole = "tutor"
)

type InvoiceStatus string

const (
	InvoiceStatusUnpaid InvoiceStatus = "unpaid"
	InvoiceStatusPaid   InvoiceStatus = "paid"
)

// InvoiceModel: maksimal satu invoice per (payer, class, period, role).
// Constraint unik di DB adalah kunci idempotensi generate — dua run
// concurrent untuk periode sama tetap menghasilkan satu baris.
type InvoiceModel struct {
	InvoiceID uuid.UUID `gorm:"column:invoice_id;type:uuid;default:gen_random_uuid();primaryKey" json:"invoice_id"`

	InvoicePayerID   uuid.UUID `gorm:"column:invoice_payer_id;type:uuid;not null;uniqueIndex:uq_invoice_payer_class_period_role" json:"invoice_payer_id"`
	InvoicePayerRole PayerRole `gorm:"column:invoice_payer_role;type:text;not null;uniqueIndex:uq_invoice_payer_class_period_role" json:"invoice_payer_role"`

	// NULL untuk invoice tutor (agregat seluruh kelas si tutor).
	// Catatan: uniqueIndex Postgres memperlakukan NULL sebagai distinct,
	// makanya invoice tutor pakai uuid.Nil eksplisit, bukan NULL.
	InvoiceClassID uuid.UUID `gorm:"column:invoice_class_id;type:uuid;not null;uniqueIndex:uq_invoice_payer_class_period_role" json:"invoice_class_id"`

	// "YYYY-MM"
	InvoicePeriod string `gorm:"column:invoice_period;type:text;not null;uniqueIndex:uq_invoice_payer_class_period_role" json:"invoice_period"`

	InvoiceAmountIDR int64 `gorm:"column:invoice_amount_idr;type:bigint;not null" json:"invoice_amount_idr"`

	InvoiceStatus InvoiceStatus `gorm:"column:invoice_status;type:text;not null;default:'unpaid'" json:"invoice_status"`

	// Link pembayaran midtrans Snap (khusus invoice siswa, best-effort)
	InvoiceCheckoutURL *string `gorm:"column:invoice_checkout_url;type:text" json:"invoice_checkout_url,omitempty"`

	InvoicePaidAt *time.Time `gorm:"column:invoice_paid_at;type:timestamptz" json:"invoice_paid_at,omitempty"`

	InvoiceCreatedAt time.Time      `gorm:"column:invoice_created_at;autoCreateTime" json:"invoice_created_at"`
	InvoiceUpdatedAt *time.Time     `gorm:"column:invoice_updated_at;autoUpdateTime" json:"invoice_updated_at,omitempty"`
	InvoiceDeletedAt gorm.DeletedAt `gorm:"column:invoice_deleted_at;index" json:"invoice_deleted_at,omitempty"`
}

func (InvoiceModel) TableName() string { return "invoices" }
