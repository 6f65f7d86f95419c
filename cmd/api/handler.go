package api

import (
	appUsecase "jobtrail-backend/internal/application/usecase"
	authRepo "jobtrail-backend/internal/auth/repository"
	syncUsecase "jobtrail-backend/internal/sync/usecase"
	"jobtrail-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	syncUsecase syncUsecase.SyncUsecase
	appUsecase  appUsecase.ApplicationUsecase
	fcmRepo     authRepo.FCMTokenRepository
	config      *config.Config
}

func NewHandler(syncUc syncUsecase.SyncUsecase, appUc appUsecase.ApplicationUsecase, fcmRepo authRepo.FCMTokenRepository, cfg *config.Config) *Handler {
	return &Handler{
		syncUsecase: syncUc,
		appUsecase:  appUc,
		fcmRepo:     fcmRepo,
		config:      cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.syncUsecase, h.appUsecase, h.fcmRepo, h.config)

	return r.Run(addr)
}
