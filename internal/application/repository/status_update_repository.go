package repository

import (
	"errors"
	"time"

	appdomain "jobtrail-backend/internal/application/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// statusUpdateRepository implements StatusUpdateRepository interface
type statusUpdateRepository struct {
	db *gorm.DB
}

// NewStatusUpdateRepository creates a new instance of statusUpdateRepository
func NewStatusUpdateRepository(db *gorm.DB) StatusUpdateRepository {
	return &statusUpdateRepository{
		db: db,
	}
}

func (r *statusUpdateRepository) Create(record *appdomain.StatusUpdateRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Source == "" {
		record.Source = "email"
	}
	record.CreatedAt = time.Now()
	return r.db.Create(record).Error
}

func (r *statusUpdateRepository) ExistsForEmail(userID, emailID string) (bool, error) {
	var record appdomain.StatusUpdateRecord
	err := r.db.Where("user_id = ? AND email_id = ?", userID, emailID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *statusUpdateRepository) ListForApplication(applicationID string) ([]*appdomain.StatusUpdateRecord, error) {
	var records []*appdomain.StatusUpdateRecord
	err := r.db.Where("application_id = ?", applicationID).Order("occurred_at DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
