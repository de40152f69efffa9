// file: internals/features/scheduler/controller/cron_controller.go
package controller

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorku_backend/internals/configs"
	billingService "tutorku_backend/internals/features/billing/service"
	classModel "tutorku_backend/internals/features/classes/model"
	classService "tutorku_backend/internals/features/classes/service"
	meetService "tutorku_backend/internals/features/meetings/service"
	"tutorku_backend/internals/features/notifier"
	sessModel "tutorku_backend/internals/features/sessions/model"
	sessService "tutorku_backend/internals/features/sessions/service"
	helper "tutorku_backend/internals/helpers"
)

// CronController: trigger eksternal (Railway cron / GitHub Actions) untuk
// job batch. Semua endpoint idempoten — scheduler boleh retry kapan saja.
type CronController struct {
	DB *gorm.DB

	Secret string

	Expander     *classService.Expander
	Orchestrator *sessService.MeetingOrchestrator
	Engine       *billingService.InvoiceEngine
	Backfiller   *meetService.AttendanceBackfiller
	Notifier     notifier.Notifier
}

// RequireCronSecret: Authorization: Bearer <CRON_SECRET>, constant-time.
func (ctl *CronController) RequireCronSecret(c *fiber.Ctx) error {
	if ctl.Secret == "" {
		return helper.JsonError(c, http.StatusServiceUnavailable, "cron secret not configured")
	}
	auth := c.Get("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")
	if token == auth || subtle.ConstantTimeCompare([]byte(token), []byte(ctl.Secret)) != 1 {
		return helper.JsonError(c, http.StatusUnauthorized, "invalid cron token")
	}
	return c.Next()
}

// POST /api/cron/expand-sessions
func (ctl *CronController) ExpandSessions(c *fiber.Ctx) error {
	res := ctl.Expander.ExpandAllActive(c.Context(), time.Now())
	return helper.JsonOK(c, "expand done", res)
}

// POST /api/cron/ensure-meetings — sesi 24 jam ke depan
func (ctl *CronController) EnsureMeetings(c *fiber.Ctx) error {
	now := time.Now()
	res := ctl.Orchestrator.EnsureMeetingsWithin(c.Context(), now, now.Add(24*time.Hour))
	return helper.JsonOK(c, "ensure meetings done", res)
}

// Periode default dihitung di timezone bisnis, bukan UTC — jam 00:xx WIB
// tanggal 1 masih tanggal akhir bulan di UTC, salah zona = salah periode.
func defaultStudentPeriod(now time.Time) helper.InvoicePeriod {
	return helper.PeriodOf(now, configs.Location()).Next()
}

func defaultTutorPeriod(now time.Time) helper.InvoicePeriod {
	return helper.PeriodOf(now, configs.Location()).Prev()
}

// POST /api/cron/invoices/students — tagih DI MUKA untuk bulan depan
func (ctl *CronController) GenerateStudentInvoices(c *fiber.Ctx) error {
	period := defaultStudentPeriod(time.Now())
	if p := c.Query("period"); p != "" {
		parsed, err := helper.ParsePeriod(p)
		if err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "invalid period (YYYY-MM)")
		}
		period = parsed
	}
	res := ctl.Engine.GenerateStudentInvoices(c.Context(), period)
	return helper.JsonOK(c, "student invoices generated for "+period.String(), res)
}

// POST /api/cron/invoices/tutors — payout DI BELAKANG untuk bulan lalu
func (ctl *CronController) GenerateTutorInvoices(c *fiber.Ctx) error {
	period := defaultTutorPeriod(time.Now())
	if p := c.Query("period"); p != "" {
		parsed, err := helper.ParsePeriod(p)
		if err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "invalid period (YYYY-MM)")
		}
		period = parsed
	}
	res := ctl.Engine.GenerateTutorInvoices(c.Context(), period)
	return helper.JsonOK(c, "tutor invoices generated for "+period.String(), res)
}

// POST /api/cron/backfill-attendance — jaring pengaman webhook yang hilang
func (ctl *CronController) BackfillAttendance(c *fiber.Ctx) error {
	res := ctl.Backfiller.BackfillSince(c.Context(), time.Now().Add(-48*time.Hour))
	return helper.JsonOK(c, "attendance backfill done", res)
}

// POST /api/cron/session-reminders — ingatkan siswa H-1 sebelum sesi
func (ctl *CronController) SessionReminders(c *fiber.Ctx) error {
	now := time.Now()
	var out helper.BatchResult

	var sessions []sessModel.ClassSessionModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("class_session_status = ?", sessModel.SessionStatusScheduled).
		Where("class_session_starts_at >= ? AND class_session_starts_at < ?", now, now.Add(24*time.Hour)).
		Order("class_session_starts_at").
		Find(&sessions).Error; err != nil {
		out.Add("list_sessions", "failed", err.Error())
		return helper.JsonOK(c, "reminders done", out)
	}

	for _, sess := range sessions {
		var enrollments []classModel.ClassEnrollmentModel
		if err := ctl.DB.WithContext(c.Context()).
			Where("class_enrollment_class_id = ? AND class_enrollment_status = ?",
				sess.ClassSessionClassID, classModel.EnrollmentStatusActive).
			Find(&enrollments).Error; err != nil {
			out.Add(sess.ClassSessionID.String(), "failed", err.Error())
			continue
		}

		for _, en := range enrollments {
			ctl.Notifier.Notify("session.reminder", en.ClassEnrollmentStudentID, map[string]any{
				"session_id":      sess.ClassSessionID,
				"starts_at":       sess.ClassSessionStartsAt,
				"starts_at_local": helper.FormatLocal(sess.ClassSessionStartsAt, configs.Location()),
			})
		}
		out.Add(sess.ClassSessionID.String(), "ok", "")
	}
	return helper.JsonOK(c, "reminders done", out)
}
