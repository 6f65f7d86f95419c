package repository

import (
	"errors"
	"time"

	appdomain "jobtrail-backend/internal/application/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// emailAccountRepository implements EmailAccountRepository interface
type emailAccountRepository struct {
	db *gorm.DB
}

// NewEmailAccountRepository creates a new instance of emailAccountRepository
func NewEmailAccountRepository(db *gorm.DB) EmailAccountRepository {
	return &emailAccountRepository{
		db: db,
	}
}

func (r *emailAccountRepository) GetAccount(userID, provider string) (*appdomain.EmailAccount, error) {
	var account appdomain.EmailAccount
	err := r.db.Where("user_id = ? AND provider = ?", userID, provider).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *emailAccountRepository) EnsureAccount(userID, provider string) (*appdomain.EmailAccount, error) {
	account, err := r.GetAccount(userID, provider)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return account, nil
	}

	now := time.Now()
	account = &appdomain.EmailAccount{
		ID:        uuid.New().String(),
		UserID:    userID,
		Provider:  provider,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func (r *emailAccountRepository) SetWatermark(userID, provider, lastEmailID string, lastInternalDate int64) error {
	return r.db.Model(&appdomain.EmailAccount{}).
		Where("user_id = ? AND provider = ?", userID, provider).
		Updates(map[string]interface{}{
			"last_email_id":            lastEmailID,
			"last_email_internal_date": lastInternalDate,
			"updated_at":               time.Now(),
		}).Error
}

func (r *emailAccountRepository) ListProviders(userID string) ([]string, error) {
	var providers []string
	err := r.db.Model(&appdomain.EmailAccount{}).
		Where("user_id = ?", userID).
		Pluck("provider", &providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}

func (r *emailAccountRepository) DeleteAccount(userID, provider string) error {
	return r.db.Where("user_id = ? AND provider = ?", userID, provider).
		Delete(&appdomain.EmailAccount{}).Error
}
