// file: internals/route/details/cron_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorku_backend/internals/configs"
	billingService "tutorku_backend/internals/features/billing/service"
	classService "tutorku_backend/internals/features/classes/service"
	meetService "tutorku_backend/internals/features/meetings/service"
	"tutorku_backend/internals/features/notifier"
	cronController "tutorku_backend/internals/features/scheduler/controller"
	sessService "tutorku_backend/internals/features/sessions/service"
)

// CronRoutes: /api/cron — trigger scheduler eksternal, dilindungi bearer
// CRON_SECRET (bukan JWT user).
func CronRoutes(
	app *fiber.App,
	db *gorm.DB,
	expander *classService.Expander,
	orch *sessService.MeetingOrchestrator,
	engine *billingService.InvoiceEngine,
	backfiller *meetService.AttendanceBackfiller,
) {
	ctl := &cronController.CronController{
		DB:           db,
		Secret:       configs.CronSecret,
		Expander:     expander,
		Orchestrator: orch,
		Engine:       engine,
		Backfiller:   backfiller,
		Notifier:     notifier.LogNotifier{},
	}

	cron := app.Group("/api/cron", ctl.RequireCronSecret)
	cron.Post("/expand-sessions", ctl.ExpandSessions)
	cron.Post("/ensure-meetings", ctl.EnsureMeetings)
	cron.Post("/invoices/students", ctl.GenerateStudentInvoices)
	cron.Post("/invoices/tutors", ctl.GenerateTutorInvoices)
	cron.Post("/backfill-attendance", ctl.BackfillAttendance)
	cron.Post("/session-reminders", ctl.SessionReminders)
}
