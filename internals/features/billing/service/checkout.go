// file: internals/features/billing/service/checkout.go
package service

import (
	"errors"
	"fmt"
	"os"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"tutorku_backend/internals/features/billing/model"
)

/* =========================================================
   Midtrans Client
========================================================= */

var SnapClient snap.Client

// InitMidtrans dipanggil sekali saat bootstrap app.
// MIDTRANS_USE_PROD=true → environment Production, selain itu Sandbox.
func InitMidtrans(serverKey string) {
	if os.Getenv("MIDTRANS_USE_PROD") == "true" {
		SnapClient.New(serverKey, midtrans.Production)
	} else {
		SnapClient.New(serverKey, midtrans.Sandbox)
	}
}

type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// GenerateCheckoutURL: bikin transaksi Snap untuk satu invoice siswa.
// OrderID = invoice_id supaya notifikasi gateway gampang dicocokkan balik.
// Return (snapToken, redirectURL, error).
func GenerateCheckoutURL(inv *model.InvoiceModel, cust CustomerInput) (string, string, error) {
	if inv.InvoiceAmountIDR <= 0 {
		return "", "", errors.New("invalid invoice_amount_idr")
	}
	if inv.InvoicePayerRole != model.PayerRoleStudent {
		return "", "", errors.New("checkout link hanya untuk invoice siswa")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  inv.InvoiceID.String(),
			GrossAmt: inv.InvoiceAmountIDR,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.FirstName,
			LName: cust.LastName,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       inv.InvoiceID.String(),
				Price:    inv.InvoiceAmountIDR,
				Qty:      1,
				Name:     fmt.Sprintf("Biaya les periode %s", inv.InvoicePeriod),
				Category: "TUITION",
			},
		},
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}
