package delivery

import (
	"errors"
	"net/http"

	appdto "jobtrail-backend/internal/application/dto"
	"jobtrail-backend/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	appUsecase usecase.ApplicationUsecase
}

func NewApplicationHandler(appUsecase usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{
		appUsecase: appUsecase,
	}
}

func (h *ApplicationHandler) GetApplications(c *gin.Context) {
	userID := c.GetString("userID")

	apps, err := h.appUsecase.GetApplications(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, appdto.ApplicationsResponse{Applications: apps})
}

func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	userID := c.GetString("userID")

	var req appdto.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.appUsecase.CreateApplication(userID, req.Name, req.Description, req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) GetStatusUpdates(c *gin.Context) {
	userID := c.GetString("userID")
	applicationID := c.Param("id")

	updates, err := h.appUsecase.GetStatusUpdates(userID, applicationID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, appdto.StatusUpdatesResponse{Updates: updates})
}
