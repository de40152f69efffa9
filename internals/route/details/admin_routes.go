// file: internals/route/details/admin_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorku_backend/internals/configs"
	billingController "tutorku_backend/internals/features/billing/controller"
	classController "tutorku_backend/internals/features/classes/controller"
	authMiddleware "tutorku_backend/internals/middlewares/auth"
)

// AdminRoutes: /api/a — wajib JWT dengan role admin.
func AdminRoutes(app *fiber.App, db *gorm.DB) {
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(configs.JWTSecret),
		authMiddleware.RequireRole("admin"),
	)

	classes := classController.NewClassController(db)
	admin.Post("/classes", classes.CreateClass)
	admin.Get("/classes", classes.ListClasses)
	admin.Get("/classes/:id", classes.GetClass)
	admin.Patch("/classes/:id", classes.UpdateClass)
	admin.Post("/classes/:id/enrollments", classes.EnrollStudent)
	admin.Delete("/classes/:id/enrollments/:student_id", classes.UnenrollStudent)
	admin.Post("/classes/:id/expand-sessions", classes.ExpandSessions)

	invoices := billingController.NewInvoiceController(db)
	admin.Get("/invoices", invoices.ListInvoices)
	admin.Post("/payments/:id/verify", invoices.VerifyPayment)
	admin.Post("/payments/:id/reject", invoices.RejectPayment)
}
