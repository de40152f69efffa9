// file: internals/features/billing/controller/invoice_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dto "tutorku_backend/internals/features/billing/dto"
	model "tutorku_backend/internals/features/billing/model"
	service "tutorku_backend/internals/features/billing/service"
	helper "tutorku_backend/internals/helpers"
)

var validate = validator.New()

type InvoiceController struct {
	DB *gorm.DB
}

func NewInvoiceController(db *gorm.DB) *InvoiceController { return &InvoiceController{DB: db} }

func validationErrors(err error) map[string][]string {
	out := map[string][]string{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			out[fe.Field()] = append(out[fe.Field()], fe.Tag())
		}
	}
	return out
}

/* =======================================================
   READ
======================================================= */

// GET /api/a/invoices?payer_id=&role=&period=&status=
func (ctl *InvoiceController) ListInvoices(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.InvoiceModel{})
	if payerID := c.Query("payer_id"); payerID != "" {
		id, err := uuid.Parse(payerID)
		if err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "invalid payer_id")
		}
		q = q.Where("invoice_payer_id = ?", id)
	}
	if role := c.Query("role"); role != "" {
		q = q.Where("invoice_payer_role = ?", role)
	}
	if period := c.Query("period"); period != "" {
		if _, err := helper.ParsePeriod(period); err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "invalid period (YYYY-MM)")
		}
		q = q.Where("invoice_period = ?", period)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("invoice_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var rows []model.InvoiceModel
	if err := q.Order("invoice_period DESC, invoice_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	items := make([]dto.InvoiceResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.ToInvoiceResponse(r))
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /api/u/invoices/:id
func (ctl *InvoiceController) GetInvoice(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var inv model.InvoiceModel
	if err := ctl.DB.Where("invoice_id = ?", id).Take(&inv).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "invoice not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	resp := fiber.Map{"invoice": dto.ToInvoiceResponse(inv)}

	var pay model.PaymentModel
	err = ctl.DB.Where("payment_invoice_id = ?", id).Take(&pay).Error
	if err == nil {
		resp["payment"] = dto.ToPaymentResponse(pay)
	} else if !helper.IsNotFound(err) {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "ok", resp)
}

/* =======================================================
   CHECKOUT (gateway)
======================================================= */

// POST /api/u/invoices/:id/checkout
func (ctl *InvoiceController) CreateCheckout(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(in); err != nil {
		return helper.JsonValidationError(c, validationErrors(err))
	}

	var inv model.InvoiceModel
	if err := ctl.DB.Where("invoice_id = ?", id).Take(&inv).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "invoice not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if inv.InvoiceStatus == model.InvoiceStatusPaid {
		return helper.JsonError(c, http.StatusConflict, "invoice already paid")
	}

	pay, err := ctl.paymentLineage(inv.InvoiceID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if err := service.Transition(pay.PaymentStatus, model.PaymentStatusPending); err != nil {
		return helper.JsonError(c, http.StatusConflict, err.Error())
	}

	token, redirectURL, err := service.GenerateCheckoutURL(&inv, service.CustomerInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
	})
	if err != nil {
		return helper.JsonError(c, http.StatusBadGateway, "payment gateway error: "+err.Error())
	}

	if err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.InvoiceModel{}).
			Where("invoice_id = ?", inv.InvoiceID).
			Update("invoice_checkout_url", redirectURL).Error; err != nil {
			return err
		}
		return tx.Model(&model.PaymentModel{}).
			Where("payment_id = ?", pay.PaymentID).
			Update("payment_status", model.PaymentStatusPending).Error
	}); err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "checkout created", fiber.Map{
		"snap_token":   token,
		"checkout_url": redirectURL,
	})
}

/* =======================================================
   MANUAL PROOF (submit → verify/reject)
======================================================= */

// POST /api/u/invoices/:id/proof — submit atau resubmit bukti transfer
func (ctl *InvoiceController) SubmitProof(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var in dto.SubmitProofRequest
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(in); err != nil {
		return helper.JsonValidationError(c, validationErrors(err))
	}

	var inv model.InvoiceModel
	if err := ctl.DB.Where("invoice_id = ?", id).Take(&inv).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "invoice not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if inv.InvoiceStatus == model.InvoiceStatusPaid {
		return helper.JsonError(c, http.StatusConflict, "invoice already paid")
	}

	pay, err := ctl.paymentLineage(inv.InvoiceID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if err := service.Transition(pay.PaymentStatus, model.PaymentStatusPendingVerification); err != nil {
		return helper.JsonError(c, http.StatusConflict, err.Error())
	}

	now := time.Now()
	if err := ctl.DB.Model(&model.PaymentModel{}).
		Where("payment_id = ?", pay.PaymentID).
		Updates(map[string]any{
			"payment_status":       model.PaymentStatusPendingVerification,
			"payment_proof_url":    in.ProofURL,
			"payment_submitted_at": now,
		}).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	pay.PaymentStatus = model.PaymentStatusPendingVerification
	pay.PaymentProofURL = &in.ProofURL
	pay.PaymentSubmittedAt = &now
	return helper.JsonUpdated(c, "proof submitted, awaiting verification", dto.ToPaymentResponse(*pay))
}

// POST /api/a/payments/:id/verify
func (ctl *InvoiceController) VerifyPayment(c *fiber.Ctx) error {
	return ctl.reviewPayment(c, model.PaymentStatusVerified, nil)
}

// POST /api/a/payments/:id/reject
func (ctl *InvoiceController) RejectPayment(c *fiber.Ctx) error {
	var in dto.RejectPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(in); err != nil {
		return helper.JsonValidationError(c, validationErrors(err))
	}
	return ctl.reviewPayment(c, model.PaymentStatusRejected, &in.Notes)
}

func (ctl *InvoiceController) reviewPayment(c *fiber.Ctx, to model.PaymentStatus, notes *string) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var pay model.PaymentModel
	if err := ctl.DB.Where("payment_id = ?", id).Take(&pay).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "payment not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	if err := service.Transition(pay.PaymentStatus, to); err != nil {
		return helper.JsonError(c, http.StatusConflict, err.Error())
	}

	now := time.Now()
	patch := map[string]any{"payment_status": to}
	if to == model.PaymentStatusVerified {
		patch["payment_verified_at"] = now
	} else {
		patch["payment_rejected_at"] = now
	}
	if notes != nil {
		patch["payment_notes"] = *notes
	}

	if err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.PaymentModel{}).
			Where("payment_id = ?", pay.PaymentID).
			Updates(patch).Error; err != nil {
			return err
		}
		if to == model.PaymentStatusVerified {
			// invoice ikut paid — dasar payout tutor bulan depan
			return tx.Model(&model.InvoiceModel{}).
				Where("invoice_id = ?", pay.PaymentInvoiceID).
				Updates(map[string]any{
					"invoice_status":  model.InvoiceStatusPaid,
					"invoice_paid_at": now,
				}).Error
		}
		return nil
	}); err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	msg := "payment verified"
	if to == model.PaymentStatusRejected {
		msg = "payment rejected"
	}
	return helper.JsonUpdated(c, msg, fiber.Map{"payment_id": pay.PaymentID, "status": to})
}

// paymentLineage: ambil (atau buat) satu-satunya baris payment untuk invoice.
// Create pakai ON CONFLICT DO NOTHING — dua submit bersamaan tetap satu baris.
func (ctl *InvoiceController) paymentLineage(invoiceID uuid.UUID) (*model.PaymentModel, error) {
	var pay model.PaymentModel
	err := ctl.DB.Where("payment_invoice_id = ?", invoiceID).Take(&pay).Error
	if err == nil {
		return &pay, nil
	}
	if !helper.IsNotFound(err) {
		return nil, err
	}

	fresh := model.PaymentModel{
		PaymentInvoiceID: invoiceID,
		PaymentStatus:    model.PaymentStatusNotPaid,
	}
	if err := ctl.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, err
	}
	// re-read: bisa jadi kalah race dan baris yang ada punya orang lain
	if err := ctl.DB.Where("payment_invoice_id = ?", invoiceID).Take(&pay).Error; err != nil {
		return nil, err
	}
	return &pay, nil
}
