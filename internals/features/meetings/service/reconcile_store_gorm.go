// file: internals/features/meetings/service/reconcile_store_gorm.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	sessModel "tutorku_backend/internals/features/sessions/model"
	helper "tutorku_backend/internals/helpers"
)

type GormReconcileStore struct{ DB *gorm.DB }

func NewGormReconcileStore(db *gorm.DB) *GormReconcileStore { return &GormReconcileStore{DB: db} }

func (s *GormReconcileStore) FindSessionByExternalID(ctx context.Context, externalID string) (*sessModel.ClassSessionModel, error) {
	var row sessModel.ClassSessionModel
	err := s.DB.WithContext(ctx).
		Where("class_session_external_meeting_id = ?", externalID).
		Take(&row).Error
	if helper.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// MarkSessionLive: conditional update — hanya dari scheduled. RowsAffected 0
// berarti sesi sudah live/ended, biarkan.
func (s *GormReconcileStore) MarkSessionLive(ctx context.Context, sessionID uuid.UUID, at time.Time) (bool, error) {
	res := s.DB.WithContext(ctx).
		Model(&sessModel.ClassSessionModel{}).
		Where("class_session_id = ? AND class_session_status = ?", sessionID, sessModel.SessionStatusScheduled).
		Updates(map[string]any{
			"class_session_status":  sessModel.SessionStatusLive,
			"class_session_live_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormReconcileStore) MarkSessionEnded(ctx context.Context, sessionID uuid.UUID, at time.Time) (bool, error) {
	res := s.DB.WithContext(ctx).
		Model(&sessModel.ClassSessionModel{}).
		Where("class_session_id = ? AND class_session_status IN ?", sessionID,
			[]sessModel.SessionStatus{sessModel.SessionStatusScheduled, sessModel.SessionStatusLive}).
		Updates(map[string]any{
			"class_session_status":   sessModel.SessionStatusEnded,
			"class_session_ended_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// AppendRecordingURL: append + dedup dalam satu statement, aman untuk
// delivery ganda dari provider.
func (s *GormReconcileStore) AppendRecordingURL(ctx context.Context, sessionID uuid.UUID, url string) (bool, error) {
	res := s.DB.WithContext(ctx).Exec(`
		UPDATE class_sessions
		SET class_session_recording_urls = array_append(class_session_recording_urls, ?)
		WHERE class_session_id = ?
		  AND NOT (? = ANY(class_session_recording_urls))`,
		url, sessionID, url)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormReconcileStore) InsertAttendanceIfAbsent(ctx context.Context, att *sessModel.SessionAttendanceModel) (bool, error) {
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(att)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormReconcileStore) ListEndedSessionsSince(ctx context.Context, since time.Time) ([]sessModel.ClassSessionModel, error) {
	var rows []sessModel.ClassSessionModel
	err := s.DB.WithContext(ctx).
		Where("class_session_status = ?", sessModel.SessionStatusEnded).
		Where("class_session_ends_at >= ?", since).
		Where("class_session_external_meeting_id IS NOT NULL").
		Order("class_session_ends_at").
		Find(&rows).Error
	return rows, err
}

func (s *GormReconcileStore) CloseAttendance(ctx context.Context, sessionID, userID uuid.UUID, leftAt time.Time) error {
	return s.DB.WithContext(ctx).
		Model(&sessModel.SessionAttendanceModel{}).
		Where("session_attendance_session_id = ? AND session_attendance_user_id = ?", sessionID, userID).
		Update("session_attendance_left_at", leftAt).Error
}
