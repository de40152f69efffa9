// file: internals/features/billing/service/invoice_store_gorm.go
package service

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tutorku_backend/internals/features/billing/model"
	classModel "tutorku_backend/internals/features/classes/model"
)

type GormEnrollmentSource struct{ DB *gorm.DB }

func NewGormEnrollmentSource(db *gorm.DB) *GormEnrollmentSource {
	return &GormEnrollmentSource{DB: db}
}

func (s *GormEnrollmentSource) ListBillableEnrollments(ctx context.Context) ([]BillableEnrollment, error) {
	var rows []BillableEnrollment
	err := s.DB.WithContext(ctx).
		Table("class_enrollments").
		Select(`class_enrollments.class_enrollment_class_id AS class_id,
			class_enrollments.class_enrollment_student_id AS student_id,
			classes.class_fee_monthly_idr AS fee_monthly_idr`).
		Joins("JOIN classes ON classes.class_id = class_enrollments.class_enrollment_class_id").
		Where("class_enrollments.class_enrollment_status = ?", classModel.EnrollmentStatusActive).
		Where("class_enrollments.class_enrollment_deleted_at IS NULL").
		Where("classes.class_status = ?", classModel.ClassStatusActive).
		Where("classes.class_deleted_at IS NULL").
		Scan(&rows).Error
	return rows, err
}

func (s *GormEnrollmentSource) SumPaidStudentInvoices(ctx context.Context, period string) ([]TutorEarning, error) {
	var rows []TutorEarning
	err := s.DB.WithContext(ctx).
		Table("invoices").
		Select(`classes.class_tutor_id AS tutor_id,
			COALESCE(SUM(invoices.invoice_amount_idr), 0) AS gross_idr,
			COUNT(*) AS paid_invoices`).
		Joins("JOIN classes ON classes.class_id = invoices.invoice_class_id").
		Where("invoices.invoice_payer_role = ?", model.PayerRoleStudent).
		Where("invoices.invoice_status = ?", model.InvoiceStatusPaid).
		Where("invoices.invoice_period = ?", period).
		Where("invoices.invoice_deleted_at IS NULL").
		Group("classes.class_tutor_id").
		Scan(&rows).Error
	return rows, err
}

type GormInvoiceStore struct{ DB *gorm.DB }

func NewGormInvoiceStore(db *gorm.DB) *GormInvoiceStore { return &GormInvoiceStore{DB: db} }

// CreateIfAbsent: ON CONFLICT DO NOTHING di kunci unik
// (payer, role, class, period). RowsAffected 0 = sudah ada.
func (s *GormInvoiceStore) CreateIfAbsent(ctx context.Context, inv *model.InvoiceModel) (bool, error) {
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(inv)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
