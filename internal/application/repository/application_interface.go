package repository

import appdomain "jobtrail-backend/internal/application/domain"

// ApplicationRepository defines persistence for tracked applications.
type ApplicationRepository interface {
	Create(app *appdomain.Application) error
	Update(app *appdomain.Application) error
	FindByID(id string) (*appdomain.Application, error)
	// GetApplicationsForUser returns every application the user owns,
	// newest first.
	GetApplicationsForUser(userID string) ([]*appdomain.Application, error)
}
