package api

import (
	"net/http"

	appDelivery "jobtrail-backend/internal/application/delivery"
	appUsecase "jobtrail-backend/internal/application/usecase"
	authDelivery "jobtrail-backend/internal/auth/delivery"
	authRepo "jobtrail-backend/internal/auth/repository"
	syncDelivery "jobtrail-backend/internal/sync/delivery"
	syncUsecase "jobtrail-backend/internal/sync/usecase"
	"jobtrail-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, syncUc syncUsecase.SyncUsecase, appUc appUsecase.ApplicationUsecase, fcmRepo authRepo.FCMTokenRepository, cfg *config.Config) {
	syncHandler := syncDelivery.NewSyncHandler(syncUc)
	appHandler := appDelivery.NewApplicationHandler(appUc)
	fcmHandler := authDelivery.NewFCMHandler(fcmRepo)

	authRequired := authDelivery.AuthMiddleware(cfg.JWTSecret)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Email sync routes (protected)
		email := api.Group("/email")
		email.Use(authRequired)
		{
			email.POST("/sync", syncHandler.TriggerSync)
			email.GET("/status", syncHandler.GetStatus)
			email.DELETE("/google", syncHandler.DisconnectGoogle)
			email.POST("/watch", syncHandler.EnableWatch)
		}

		// Application routes (protected)
		applications := api.Group("/applications")
		applications.Use(authRequired)
		{
			applications.GET("", appHandler.GetApplications)
			applications.POST("", appHandler.CreateApplication)
			applications.GET("/:id/updates", appHandler.GetStatusUpdates)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(authRequired)
		{
			fcm.POST("/register", fcmHandler.RegisterFCMToken)
			fcm.DELETE("/:token", fcmHandler.UnregisterFCMToken)
		}
	}
}
