package delivery

import (
	"errors"
	"net/http"

	"jobtrail-backend/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	syncUsecase usecase.SyncUsecase
}

func NewSyncHandler(syncUsecase usecase.SyncUsecase) *SyncHandler {
	return &SyncHandler{
		syncUsecase: syncUsecase,
	}
}

// TriggerSync runs a full poll cycle for the authenticated user and
// returns the cycle summary. Concurrent triggers for the same user block
// until the running cycle finishes.
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	userID := c.GetString("userID")

	summary, err := h.syncUsecase.SyncUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrNoMailAccount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no mail account linked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *SyncHandler) GetStatus(c *gin.Context) {
	userID := c.GetString("userID")

	providers, err := h.syncUsecase.ConnectedProviders(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"connectedProviders": providers})
}

func (h *SyncHandler) DisconnectGoogle(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.syncUsecase.DisconnectGoogle(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "google account disconnected"})
}

// EnableWatch subscribes the user's Gmail inbox to push notifications.
func (h *SyncHandler) EnableWatch(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.syncUsecase.EnableWatch(c.Request.Context(), userID); err != nil {
		if errors.Is(err, usecase.ErrNoMailAccount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no mail account linked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "watch enabled"})
}
