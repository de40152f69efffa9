// file: internals/features/sessions/service/meeting_store_gorm.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	classModel "tutorku_backend/internals/features/classes/model"
	sessModel "tutorku_backend/internals/features/sessions/model"
	helper "tutorku_backend/internals/helpers"
)

type GormMeetingStore struct{ DB *gorm.DB }

func NewGormMeetingStore(db *gorm.DB) *GormMeetingStore { return &GormMeetingStore{DB: db} }

func (s *GormMeetingStore) GetSession(ctx context.Context, sessionID uuid.UUID) (*sessModel.ClassSessionModel, error) {
	var row sessModel.ClassSessionModel
	if err := s.DB.WithContext(ctx).
		Where("class_session_id = ?", sessionID).
		Take(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *GormMeetingStore) GetClass(ctx context.Context, classID uuid.UUID) (*classModel.ClassModel, error) {
	var row classModel.ClassModel
	if err := s.DB.WithContext(ctx).
		Where("class_id = ?", classID).
		Take(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *GormMeetingStore) GetMapping(ctx context.Context, sessionID uuid.UUID) (*sessModel.MeetingMappingModel, error) {
	var row sessModel.MeetingMappingModel
	err := s.DB.WithContext(ctx).
		Where("meeting_mapping_session_id = ?", sessionID).
		Take(&row).Error
	if helper.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ClaimExternalMeetingID: conditional write "set kalau masih NULL" —
// pengaman race dua EnsureMeeting concurrent untuk sesi yang sama.
func (s *GormMeetingStore) ClaimExternalMeetingID(ctx context.Context, sessionID uuid.UUID, externalID string) (bool, error) {
	res := s.DB.WithContext(ctx).
		Model(&sessModel.ClassSessionModel{}).
		Where("class_session_id = ? AND class_session_external_meeting_id IS NULL", sessionID).
		Update("class_session_external_meeting_id", externalID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormMeetingStore) SaveMapping(ctx context.Context, m *sessModel.MeetingMappingModel) error {
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "meeting_mapping_session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"meeting_mapping_external_meeting_id",
				"meeting_mapping_host_join_url",
				"meeting_mapping_join_url",
				"meeting_mapping_passcode",
			}),
		}).
		Create(m).Error
}

func (s *GormMeetingStore) ListSessionsNeedingMeeting(ctx context.Context, from, to time.Time) ([]sessModel.ClassSessionModel, error) {
	var rows []sessModel.ClassSessionModel
	err := s.DB.WithContext(ctx).
		Where("class_session_status = ?", sessModel.SessionStatusScheduled).
		Where("class_session_starts_at >= ? AND class_session_starts_at < ?", from, to).
		Where("class_session_external_meeting_id IS NULL").
		Order("class_session_starts_at").
		Find(&rows).Error
	return rows, err
}
