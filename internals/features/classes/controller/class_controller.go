// file: internals/features/classes/controller/class_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "tutorku_backend/internals/features/classes/dto"
	model "tutorku_backend/internals/features/classes/model"
	service "tutorku_backend/internals/features/classes/service"
	helper "tutorku_backend/internals/helpers"
)

var validate = validator.New()

type ClassController struct {
	DB       *gorm.DB
	Expander *service.Expander
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{DB: db, Expander: &service.Expander{DB: db}}
}

func parseUUID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(param))
}

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
   CLASSES (ADMIN)
======================================================= */

// POST /api/a/classes
func (ctl *ClassController) CreateClass(c *fiber.Ctx) error {
	var in dto.ClassCreateRequest
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(in); err != nil {
		return helper.JsonValidationError(c, validationErrors(err))
	}

	tz := in.ClassTimezone
	if tz == "" {
		tz = "Asia/Jakarta"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid class_timezone (must be IANA)")
	}

	m := model.ClassModel{
		ClassTutorID:       in.ClassTutorID,
		ClassName:          in.ClassName,
		ClassSubject:       in.ClassSubject,
		ClassFeeMonthlyIDR: in.ClassFeeMonthlyIDR,
		ClassTimezone:      tz,
		ClassStatus:        model.ClassStatusActive,
	}

	var slots []model.ClassTimeSlotModel
	if err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		for _, s := range in.Slots {
			slots = append(slots, model.ClassTimeSlotModel{
				ClassTimeSlotClassID:   m.ClassID,
				ClassTimeSlotDayOfWeek: s.DayOfWeek,
				ClassTimeSlotStartTime: s.StartTime,
				ClassTimeSlotEndTime:   s.EndTime,
			})
		}
		if len(slots) > 0 {
			if err := tx.Create(&slots).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	resp := fiber.Map{"class": dto.ToClassResponse(m, slots)}

	if in.ExpandNow && len(slots) > 0 {
		r, err := ctl.Expander.ExpandForClass(c.Context(), m.ClassID, service.ExpandOptions{StartDate: time.Now()})
		if err != nil {
			// kelas sudah tersimpan — expand gagal dilaporkan, bukan rollback
			resp["expand_error"] = err.Error()
		} else {
			resp["expand"] = r
		}
	}

	return helper.JsonCreated(c, "class created", resp)
}

// GET /api/a/classes
func (ctl *ClassController) ListClasses(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.ClassModel{})
	if status := c.Query("status"); status != "" {
		q = q.Where("class_status = ?", status)
	}
	if tutorID := c.Query("tutor_id"); tutorID != "" {
		id, err := uuid.Parse(tutorID)
		if err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "invalid tutor_id")
		}
		q = q.Where("class_tutor_id = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var rows []model.ClassModel
	if err := q.Order("class_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	items := make([]dto.ClassResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.ToClassResponse(r, nil))
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /api/a/classes/:id
func (ctl *ClassController) GetClass(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var m model.ClassModel
	if err := ctl.DB.Where("class_id = ?", id).Take(&m).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "class not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var slots []model.ClassTimeSlotModel
	if err := ctl.DB.Where("class_time_slot_class_id = ?", id).
		Order("class_time_slot_day_of_week, class_time_slot_start_time").
		Find(&slots).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "ok", dto.ToClassResponse(m, slots))
}

// PATCH /api/a/classes/:id
func (ctl *ClassController) UpdateClass(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var in dto.ClassUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(in); err != nil {
		return helper.JsonValidationError(c, validationErrors(err))
	}

	patch := map[string]any{}
	if in.ClassName != nil {
		patch["class_name"] = *in.ClassName
	}
	if in.ClassSubject != nil {
		patch["class_subject"] = *in.ClassSubject
	}
	if in.ClassFeeMonthlyIDR != nil {
		patch["class_fee_monthly_idr"] = *in.ClassFeeMonthlyIDR
	}
	if in.ClassStatus != nil {
		patch["class_status"] = *in.ClassStatus
	}
	if len(patch) == 0 {
		return helper.JsonError(c, http.StatusBadRequest, "empty patch")
	}

	res := ctl.DB.Model(&model.ClassModel{}).Where("class_id = ?", id).Updates(patch)
	if res.Error != nil {
		return helper.JsonError(c, http.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, http.StatusNotFound, "class not found")
	}

	var m model.ClassModel
	if err := ctl.DB.Where("class_id = ?", id).Take(&m).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "class updated", dto.ToClassResponse(m, nil))
}

/* =======================================================
   ENROLLMENTS
======================================================= */

// POST /api/a/classes/:id/enrollments
func (ctl *ClassController) EnrollStudent(c *fiber.Ctx) error {
	classID, err := parseUUID(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var in dto.EnrollRequest
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(in); err != nil {
		return helper.JsonValidationError(c, validationErrors(err))
	}

	var cls model.ClassModel
	if err := ctl.DB.Where("class_id = ? AND class_status = ?", classID, model.ClassStatusActive).
		Take(&cls).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "active class not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var existing model.ClassEnrollmentModel
	err = ctl.DB.Where(
		"class_enrollment_class_id = ? AND class_enrollment_student_id = ?",
		classID, in.StudentID,
	).Take(&existing).Error
	if err != nil && !helper.IsNotFound(err) {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	prior := &existing
	if helper.IsNotFound(err) {
		prior = nil
	}

	switch service.ResolveEnrollmentAction(prior) {
	case service.EnrollmentActionCreate:
		en := model.ClassEnrollmentModel{
			ClassEnrollmentClassID:    classID,
			ClassEnrollmentStudentID:  in.StudentID,
			ClassEnrollmentStatus:     model.EnrollmentStatusActive,
			ClassEnrollmentEnrolledAt: time.Now(),
		}
		if err := ctl.DB.Create(&en).Error; err != nil {
			// race dua request enroll bersamaan — constraint unik yang menang
			if helper.IsUniqueViolation(err) {
				return helper.JsonError(c, http.StatusConflict, "student already enrolled in this class")
			}
			return helper.JsonError(c, http.StatusInternalServerError, err.Error())
		}
		return helper.JsonCreated(c, "student enrolled", en)

	case service.EnrollmentActionReactivate:
		// siswa yang pernah keluar daftar lagi — baris lama dihidupkan,
		// bukan insert baru (kena unique class+student)
		res := ctl.DB.Model(&model.ClassEnrollmentModel{}).
			Where("class_enrollment_id = ? AND class_enrollment_status = ?",
				existing.ClassEnrollmentID, model.EnrollmentStatusEnded).
			Updates(map[string]any{
				"class_enrollment_status":      model.EnrollmentStatusActive,
				"class_enrollment_enrolled_at": time.Now(),
				"class_enrollment_ended_at":    nil,
			})
		if res.Error != nil {
			return helper.JsonError(c, http.StatusInternalServerError, res.Error.Error())
		}
		if res.RowsAffected == 0 {
			return helper.JsonError(c, http.StatusConflict, "student already enrolled in this class")
		}
		if err := ctl.DB.Where("class_enrollment_id = ?", existing.ClassEnrollmentID).
			Take(&existing).Error; err != nil {
			return helper.JsonError(c, http.StatusInternalServerError, err.Error())
		}
		return helper.JsonUpdated(c, "enrollment reactivated", existing)

	default:
		return helper.JsonError(c, http.StatusConflict, "student already enrolled in this class")
	}
}

// DELETE /api/a/classes/:id/enrollments/:student_id
func (ctl *ClassController) UnenrollStudent(c *fiber.Ctx) error {
	classID, err := parseUUID(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}
	studentID, err := parseUUID(c, "student_id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid student_id")
	}

	res := ctl.DB.Model(&model.ClassEnrollmentModel{}).
		Where("class_enrollment_class_id = ? AND class_enrollment_student_id = ? AND class_enrollment_status = ?",
			classID, studentID, model.EnrollmentStatusActive).
		Updates(map[string]any{
			"class_enrollment_status":   model.EnrollmentStatusEnded,
			"class_enrollment_ended_at": time.Now(),
		})
	if res.Error != nil {
		return helper.JsonError(c, http.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, http.StatusNotFound, "active enrollment not found")
	}
	return helper.JsonUpdated(c, "student unenrolled", fiber.Map{
		"class_id":   classID,
		"student_id": studentID,
	})
}

/* =======================================================
   SESSION EXPANSION
======================================================= */

// POST /api/a/classes/:id/expand-sessions
func (ctl *ClassController) ExpandSessions(c *fiber.Ctx) error {
	classID, err := parseUUID(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var in dto.ExpandRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "invalid json")
		}
		if err := validate.Struct(in); err != nil {
			return helper.JsonValidationError(c, validationErrors(err))
		}
	}

	opts := service.ExpandOptions{StartDate: time.Now()}
	if in.StartDate != nil {
		t, _ := time.Parse("2006-01-02", *in.StartDate)
		opts.StartDate = t
	}
	if in.EndDate != nil {
		t, _ := time.Parse("2006-01-02", *in.EndDate)
		opts.EndDate = &t
	}

	r, err := ctl.Expander.ExpandForClass(c.Context(), classID, opts)
	if err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "class not found")
		}
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	return helper.JsonOK(c, "sessions expanded", r)
}
