// file: internals/features/billing/dto/billing_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorku_backend/internals/features/billing/model"
)

/* =========================
   Requests
========================= */

type SubmitProofRequest struct {
	ProofURL string `json:"proof_url" validate:"required,url"`
}

type RejectPaymentRequest struct {
	Notes string `json:"notes" validate:"required,min=3,max=500"`
}

type CheckoutRequest struct {
	FirstName string `json:"first_name" validate:"required,max=80"`
	LastName  string `json:"last_name" validate:"omitempty,max=80"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
}

/* =========================
   Responses
========================= */

type InvoiceResponse struct {
	InvoiceID   uuid.UUID           `json:"invoice_id"`
	PayerID     uuid.UUID           `json:"payer_id"`
	PayerRole   model.PayerRole     `json:"payer_role"`
	ClassID     *uuid.UUID          `json:"class_id,omitempty"`
	Period      string              `json:"period"`
	AmountIDR   int64               `json:"amount_idr"`
	Status      model.InvoiceStatus `json:"status"`
	CheckoutURL *string             `json:"checkout_url,omitempty"`
	PaidAt      *time.Time          `json:"paid_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func ToInvoiceResponse(m model.InvoiceModel) InvoiceResponse {
	resp := InvoiceResponse{
		InvoiceID:   m.InvoiceID,
		PayerID:     m.InvoicePayerID,
		PayerRole:   m.InvoicePayerRole,
		Period:      m.InvoicePeriod,
		AmountIDR:   m.InvoiceAmountIDR,
		Status:      m.InvoiceStatus,
		CheckoutURL: m.InvoiceCheckoutURL,
		PaidAt:      m.InvoicePaidAt,
		CreatedAt:   m.InvoiceCreatedAt,
	}
	// uuid.Nil = sentinel invoice tutor (agregat, bukan per kelas)
	if m.InvoiceClassID != uuid.Nil {
		id := m.InvoiceClassID
		resp.ClassID = &id
	}
	return resp
}

type PaymentResponse struct {
	PaymentID   uuid.UUID           `json:"payment_id"`
	InvoiceID   uuid.UUID           `json:"invoice_id"`
	Status      model.PaymentStatus `json:"status"`
	ProofURL    *string             `json:"proof_url,omitempty"`
	SubmittedAt *time.Time          `json:"submitted_at,omitempty"`
	VerifiedAt  *time.Time          `json:"verified_at,omitempty"`
	RejectedAt  *time.Time          `json:"rejected_at,omitempty"`
	Notes       *string             `json:"notes,omitempty"`
}

func ToPaymentResponse(m model.PaymentModel) PaymentResponse {
	return PaymentResponse{
		PaymentID:   m.PaymentID,
		InvoiceID:   m.PaymentInvoiceID,
		Status:      m.PaymentStatus,
		ProofURL:    m.PaymentProofURL,
		SubmittedAt: m.PaymentSubmittedAt,
		VerifiedAt:  m.PaymentVerifiedAt,
		RejectedAt:  m.PaymentRejectedAt,
		Notes:       m.PaymentNotes,
	}
}
