package dto

import appdomain "jobtrail-backend/internal/application/domain"

type CreateApplicationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type ApplicationsResponse struct {
	Applications []*appdomain.Application `json:"applications"`
}

type StatusUpdatesResponse struct {
	Updates []*appdomain.StatusUpdateRecord `json:"updates"`
}
