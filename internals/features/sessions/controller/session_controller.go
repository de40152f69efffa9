// file: internals/features/sessions/controller/session_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorku_backend/internals/configs"
	billingModel "tutorku_backend/internals/features/billing/model"
	classModel "tutorku_backend/internals/features/classes/model"
	meetProvider "tutorku_backend/internals/features/meetings/provider"
	dto "tutorku_backend/internals/features/sessions/dto"
	model "tutorku_backend/internals/features/sessions/model"
	service "tutorku_backend/internals/features/sessions/service"
	helper "tutorku_backend/internals/helpers"
)

var validate = validator.New()

type SessionController struct {
	DB           *gorm.DB
	Orchestrator *service.MeetingOrchestrator
	GateConfig   service.GateConfig
}

func NewSessionController(db *gorm.DB, orch *service.MeetingOrchestrator, gateCfg service.GateConfig) *SessionController {
	return &SessionController{DB: db, Orchestrator: orch, GateConfig: gateCfg}
}

/* =======================================================
   READ
======================================================= */

// GET /api/u/sessions?class_id=&from=&to=
func (ctl *SessionController) ListSessions(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.ClassSessionModel{})
	if classID := c.Query("class_id"); classID != "" {
		id, err := uuid.Parse(classID)
		if err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "invalid class_id")
		}
		q = q.Where("class_session_class_id = ?", id)
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "invalid from (YYYY-MM-DD)")
		}
		q = q.Where("class_session_starts_at >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "invalid to (YYYY-MM-DD)")
		}
		q = q.Where("class_session_starts_at < ?", t.AddDate(0, 0, 1))
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("class_session_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var rows []model.ClassSessionModel
	if err := q.Order("class_session_starts_at").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	items := make([]dto.SessionResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.ToSessionResponse(r))
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /api/u/sessions/:id
func (ctl *SessionController) GetSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var m model.ClassSessionModel
	if err := ctl.DB.Where("class_session_id = ?", id).Take(&m).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "session not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var attendances []model.SessionAttendanceModel
	if err := ctl.DB.Where("session_attendance_session_id = ?", id).
		Order("session_attendance_joined_at").
		Find(&attendances).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"session":     dto.ToSessionResponse(m),
		"attendances": attendances,
	})
}

/* =======================================================
   JOIN (payment gate)
======================================================= */

// POST /api/u/sessions/:id/join
// Penolakan gate dibalas 200 dengan decision.allowed=false — itu hasil
// bisnis normal, bukan error. Error HTTP hanya untuk input/infra rusak.
func (ctl *SessionController) JoinSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var in dto.JoinRequest
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(in); err != nil {
		return helper.JsonValidationError(c, map[string][]string{"user_id": {"required"}})
	}

	var sess model.ClassSessionModel
	if err := ctl.DB.Where("class_session_id = ?", sessionID).Take(&sess).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "session not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var cls classModel.ClassModel
	if err := ctl.DB.Where("class_id = ?", sess.ClassSessionClassID).Take(&cls).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	now := time.Now()

	// Jendela join: 1 jam sebelum mulai s/d sesi berakhir
	if sess.ClassSessionStatus == model.SessionStatusEnded || now.After(sess.ClassSessionEndsAt) {
		return helper.JsonOK(c, "join denied", dto.JoinResponse{Decision: service.GateDecision{
			Allowed: false, Reason: "session_ended", Message: "Sesi sudah berakhir",
		}})
	}
	if now.Before(sess.JoinWindowOpensAt()) {
		return helper.JsonOK(c, "join denied", dto.JoinResponse{Decision: service.GateDecision{
			Allowed: false, Reason: "not_open_yet",
			Message: "Ruang kelas dibuka 1 jam sebelum jadwal",
		}})
	}

	// Role: tutor kelas = host, selain itu wajib enrolled
	role := service.GateRoleStudent
	isHost := in.UserID == cls.ClassTutorID
	if isHost {
		role = service.GateRoleTutor
	} else {
		var en classModel.ClassEnrollmentModel
		err := ctl.DB.Where(
			"class_enrollment_class_id = ? AND class_enrollment_student_id = ? AND class_enrollment_status = ?",
			sess.ClassSessionClassID, in.UserID, classModel.EnrollmentStatusActive,
		).Take(&en).Error
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusForbidden, "not enrolled in this class")
		}
		if err != nil {
			return helper.JsonError(c, http.StatusInternalServerError, err.Error())
		}
	}

	loc, err := time.LoadLocation(cls.ClassTimezone)
	if err != nil {
		loc = configs.Location()
	}

	payStatus, err := ctl.resolvePaymentStatus(c, in.UserID, sess, loc)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	cfg := ctl.GateConfig
	cfg.Location = loc
	decision := service.CanJoin(role, sess.ClassSessionStartsAt.In(loc), payStatus, cfg)
	if !decision.Allowed {
		return helper.JsonOK(c, "join denied", dto.JoinResponse{Decision: decision})
	}

	// Meeting dibuat lazy kalau cron belum sempat
	mapping, err := ctl.Orchestrator.EnsureMeeting(c.Context(), sessionID)
	if err != nil {
		if meetProvider.IsTransient(err) {
			return helper.JsonError(c, http.StatusServiceUnavailable, "meeting provider unavailable, try again")
		}
		return helper.JsonError(c, http.StatusBadGateway, "failed to prepare meeting")
	}

	token, err := ctl.Orchestrator.IssueJoinCredential(c.Context(), sessionID, decision, isHost)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	resp := dto.JoinResponse{
		Decision:  decision,
		SDKToken:  &token,
		MeetingID: &mapping.MeetingMappingExternalMeetingID,
		Passcode:  mapping.MeetingMappingPasscode,
	}
	if isHost {
		resp.JoinURL = mapping.MeetingMappingHostJoinURL
	} else {
		resp.JoinURL = mapping.MeetingMappingJoinURL
	}
	return helper.JsonOK(c, "join allowed", resp)
}

// resolvePaymentStatus: status pembayaran siswa untuk PERIODE sesi ini.
// Invoice paid (settlement gateway) dihitung verified; selain itu ikut
// status lineage payment manual; tanpa invoice = not_paid.
func (ctl *SessionController) resolvePaymentStatus(c *fiber.Ctx, userID uuid.UUID, sess model.ClassSessionModel, loc *time.Location) (billingModel.PaymentStatus, error) {
	period := helper.PeriodOf(sess.ClassSessionStartsAt, loc)

	var inv billingModel.InvoiceModel
	err := ctl.DB.Where(
		"invoice_payer_id = ? AND invoice_payer_role = ? AND invoice_class_id = ? AND invoice_period = ?",
		userID, billingModel.PayerRoleStudent, sess.ClassSessionClassID, period.String(),
	).Take(&inv).Error
	if helper.IsNotFound(err) {
		return billingModel.PaymentStatusNotPaid, nil
	}
	if err != nil {
		return "", err
	}

	if inv.InvoiceStatus == billingModel.InvoiceStatusPaid {
		return billingModel.PaymentStatusVerified, nil
	}

	var pay billingModel.PaymentModel
	err = ctl.DB.Where("payment_invoice_id = ?", inv.InvoiceID).Take(&pay).Error
	if helper.IsNotFound(err) {
		return billingModel.PaymentStatusNotPaid, nil
	}
	if err != nil {
		return "", err
	}
	return pay.PaymentStatus, nil
}
