// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorku_backend/internals/configs"
	billingService "tutorku_backend/internals/features/billing/service"
	classService "tutorku_backend/internals/features/classes/service"
	meetProvider "tutorku_backend/internals/features/meetings/provider"
	meetService "tutorku_backend/internals/features/meetings/service"
	sessService "tutorku_backend/internals/features/sessions/service"
	routeDetails "tutorku_backend/internals/route/details"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	start := time.Now()

	// ===================== SHARED SERVICES =====================
	provider := meetProvider.NewClient(
		configs.GetEnv("MEETING_API_BASE_URL", "https://api.zoom.us/v2"),
		configs.GetEnv("MEETING_AUTH_URL", "https://zoom.us/oauth/token"),
		configs.GetEnv("MEETING_ACCOUNT_ID"),
		configs.GetEnv("MEETING_CLIENT_ID"),
		configs.GetEnv("MEETING_CLIENT_SECRET"),
	)

	orchestrator := &sessService.MeetingOrchestrator{
		Store:     sessService.NewGormMeetingStore(db),
		Provider:  provider,
		SDKKey:    configs.MeetingSDKKey,
		SDKSecret: configs.MeetingSDKSecret,
	}

	engine := &billingService.InvoiceEngine{
		Source:     billingService.NewGormEnrollmentSource(db),
		Store:      billingService.NewGormInvoiceStore(db),
		FeePercent: configs.PlatformFeePercent(),
	}

	backfiller := &meetService.AttendanceBackfiller{
		Store:    meetService.NewGormReconcileStore(db),
		Provider: provider,
	}

	expander := &classService.Expander{DB: db}

	// ===================== MOUNTS =====================
	log.Println("[INFO] Setting up AdminRoutes...")
	routeDetails.AdminRoutes(app, db)

	log.Println("[INFO] Setting up UserRoutes...")
	routeDetails.UserRoutes(app, db, orchestrator)

	log.Println("[INFO] Setting up WebhookRoutes...")
	routeDetails.WebhookRoutes(app, db)

	log.Println("[INFO] Setting up CronRoutes...")
	routeDetails.CronRoutes(app, db, expander, orchestrator, engine, backfiller)

	log.Printf("[INFO] Routes siap dalam %s", time.Since(start))
}
