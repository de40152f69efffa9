// file: internals/route/details/webhook_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorku_backend/internals/configs"
	billingController "tutorku_backend/internals/features/billing/controller"
	meetController "tutorku_backend/internals/features/meetings/controller"
	"tutorku_backend/internals/middlewares"
)

// WebhookRoutes: endpoint publik tanpa auth user — masing-masing payload
// diverifikasi kriptografis (HMAC provider / signature gateway).
func WebhookRoutes(app *fiber.App, db *gorm.DB) {
	hooks := app.Group("/webhooks", middlewares.WebhookRateLimiter())

	meetings := meetController.NewWebhookController(db, configs.MeetingWebhookSecret)
	hooks.Post("/meetings", meetings.HandleWebhook)

	payments := billingController.NewGatewayNotificationController(db, configs.GetEnv("MIDTRANS_SERVER_KEY"))
	hooks.Post("/payments", payments.HandleNotification)
}
