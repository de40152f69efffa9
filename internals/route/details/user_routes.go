// file: internals/route/details/user_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorku_backend/internals/configs"
	billingController "tutorku_backend/internals/features/billing/controller"
	sessionController "tutorku_backend/internals/features/sessions/controller"
	sessService "tutorku_backend/internals/features/sessions/service"
)

// UserRoutes: /api/u — dipanggil lewat BFF/gateway yang sudah
// mengautentikasi user; user_id datang dari body request.
func UserRoutes(app *fiber.App, db *gorm.DB, orch *sessService.MeetingOrchestrator) {
	user := app.Group("/api/u")

	gateCfg := sessService.GateConfig{FreeTrialDays: configs.FreeTrialDays()}
	sessions := sessionController.NewSessionController(db, orch, gateCfg)
	user.Get("/sessions", sessions.ListSessions)
	user.Get("/sessions/:id", sessions.GetSession)
	user.Post("/sessions/:id/join", sessions.JoinSession)

	invoices := billingController.NewInvoiceController(db)
	user.Get("/invoices", invoices.ListInvoices)
	user.Get("/invoices/:id", invoices.GetInvoice)
	user.Post("/invoices/:id/checkout", invoices.CreateCheckout)
	user.Post("/invoices/:id/proof", invoices.SubmitProof)
}
