// file: internals/features/billing/controller/gateway_notification_controller.go
package controller

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	model "tutorku_backend/internals/features/billing/model"
	service "tutorku_backend/internals/features/billing/service"
	helper "tutorku_backend/internals/helpers"
)

type GatewayNotificationController struct {
	DB        *gorm.DB
	ServerKey string
}

func NewGatewayNotificationController(db *gorm.DB, serverKey string) *GatewayNotificationController {
	return &GatewayNotificationController{DB: db, ServerKey: serverKey}
}

type gatewayNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	SignatureKey      string `json:"signature_key"`
}

// signatureValid: skema midtrans — sha512(order_id + status_code +
// gross_amount + server_key).
func (ctl *GatewayNotificationController) signatureValid(n gatewayNotification) bool {
	h := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + ctl.ServerKey))
	expected := hex.EncodeToString(h[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}

// POST /webhooks/payments — notifikasi transaksi dari payment gateway.
// order_id = invoice_id; settlement → invoice paid + lineage verified.
func (ctl *GatewayNotificationController) HandleNotification(c *fiber.Ctx) error {
	var n gatewayNotification
	if err := c.BodyParser(&n); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if !ctl.signatureValid(n) {
		log.Printf("[WARN] notifikasi gateway dengan signature tidak valid, order %s", n.OrderID)
		return helper.JsonError(c, http.StatusUnauthorized, "invalid signature")
	}

	invoiceID, err := uuid.Parse(n.OrderID)
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "order_id is not an invoice id")
	}

	settled := n.TransactionStatus == "settlement" ||
		(n.TransactionStatus == "capture" && n.FraudStatus == "accept")
	if !settled {
		// pending/expire/cancel: ack tanpa aksi, invoice tetap unpaid
		return helper.JsonOK(c, "acknowledged", fiber.Map{"transaction_status": n.TransactionStatus})
	}

	now := time.Now()
	if err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		// idempotent: hanya invoice yang belum paid yang berubah
		res := tx.Model(&model.InvoiceModel{}).
			Where("invoice_id = ? AND invoice_status = ?", invoiceID, model.InvoiceStatusUnpaid).
			Updates(map[string]any{
				"invoice_status":  model.InvoiceStatusPaid,
				"invoice_paid_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var pay model.PaymentModel
		err := tx.Where("payment_invoice_id = ?", invoiceID).Take(&pay).Error
		if helper.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if service.CanTransition(pay.PaymentStatus, model.PaymentStatusVerified) {
			return tx.Model(&model.PaymentModel{}).
				Where("payment_id = ?", pay.PaymentID).
				Updates(map[string]any{
					"payment_status":      model.PaymentStatusVerified,
					"payment_verified_at": now,
				}).Error
		}
		return nil
	}); err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "settlement applied", fiber.Map{"invoice_id": invoiceID})
}
