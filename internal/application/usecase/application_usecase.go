package usecase

import (
	"errors"

	appdomain "jobtrail-backend/internal/application/domain"
	"jobtrail-backend/internal/application/repository"
)

// ErrNotFound is returned when an application does not exist or belongs
// to a different user.
var ErrNotFound = errors.New("application not found")

// ApplicationUsecase defines business logic for tracked applications
type ApplicationUsecase interface {
	GetApplications(userID string) ([]*appdomain.Application, error)
	CreateApplication(userID, name, description, status string) (*appdomain.Application, error)
	// GetStatusUpdates returns the email-driven audit trail for one
	// application, newest first. Ownership is checked.
	GetStatusUpdates(userID, applicationID string) ([]*appdomain.StatusUpdateRecord, error)
}

type applicationUsecase struct {
	appRepo    repository.ApplicationRepository
	statusRepo repository.StatusUpdateRepository
}

// NewApplicationUsecase creates a new instance of applicationUsecase
func NewApplicationUsecase(appRepo repository.ApplicationRepository, statusRepo repository.StatusUpdateRepository) ApplicationUsecase {
	return &applicationUsecase{
		appRepo:    appRepo,
		statusRepo: statusRepo,
	}
}

func (u *applicationUsecase) GetApplications(userID string) ([]*appdomain.Application, error) {
	return u.appRepo.GetApplicationsForUser(userID)
}

func (u *applicationUsecase) CreateApplication(userID, name, description, status string) (*appdomain.Application, error) {
	if status == "" {
		status = appdomain.StatusApplied
	}
	if _, ok := appdomain.StatusPrecedence[status]; !ok {
		return nil, errors.New("invalid status")
	}

	app := &appdomain.Application{
		UserID:      userID,
		Name:        name,
		Description: description,
		Status:      status,
	}
	if err := u.appRepo.Create(app); err != nil {
		return nil, err
	}
	return app, nil
}

func (u *applicationUsecase) GetStatusUpdates(userID, applicationID string) ([]*appdomain.StatusUpdateRecord, error) {
	app, err := u.appRepo.FindByID(applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil || app.UserID != userID {
		return nil, ErrNotFound
	}
	return u.statusRepo.ListForApplication(applicationID)
}
