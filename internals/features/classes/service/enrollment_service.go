// file: internals/features/classes/service/enrollment_service.go
package service

import (
	model "tutorku_backend/internals/features/classes/model"
)

/* =========================
   Enrollment lifecycle
========================= */

// EnrollmentAction: keputusan saat siswa mendaftar ke kelas yang mungkin
// sudah punya baris enrollment (unique per pasangan class+student).
type EnrollmentAction string

const (
	// belum ada baris — insert baru
	EnrollmentActionCreate EnrollmentAction = "create"
	// baris lama berstatus ended — hidupkan lagi, jangan bikin baris kedua
	EnrollmentActionReactivate EnrollmentAction = "reactivate"
	// masih aktif — daftar ulang ditolak
	EnrollmentActionConflict EnrollmentAction = "conflict"
)

// ResolveEnrollmentAction memetakan status baris lama (nil = tidak ada) ke
// aksi pendaftaran. Siswa yang pernah keluar boleh masuk lagi.
func ResolveEnrollmentAction(existing *model.ClassEnrollmentModel) EnrollmentAction {
	if existing == nil {
		return EnrollmentActionCreate
	}
	if existing.ClassEnrollmentStatus == model.EnrollmentStatusEnded {
		return EnrollmentActionReactivate
	}
	return EnrollmentActionConflict
}
