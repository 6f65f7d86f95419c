package main

import (
	"context"
	"log"
	"strings"

	api "jobtrail-backend/cmd/api"
	appdomain "jobtrail-backend/internal/application/domain"
	appRepo "jobtrail-backend/internal/application/repository"
	appUsecase "jobtrail-backend/internal/application/usecase"
	authdomain "jobtrail-backend/internal/auth/domain"
	authRepo "jobtrail-backend/internal/auth/repository"
	"jobtrail-backend/internal/notification"
	syncUsecase "jobtrail-backend/internal/sync/usecase"
	"jobtrail-backend/pkg/config"
	"jobtrail-backend/pkg/database"
	"jobtrail-backend/pkg/fcm"
	"jobtrail-backend/pkg/gmail"
	"jobtrail-backend/pkg/imap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.FCMToken{}, &appdomain.Application{}, &appdomain.StatusUpdateRecord{}, &appdomain.EmailAccount{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	fcmTokenRepo := authRepo.NewFCMTokenRepository(db)
	applicationRepo := appRepo.NewApplicationRepository(db)
	statusUpdateRepo := appRepo.NewStatusUpdateRepository(db)
	emailAccountRepo := appRepo.NewEmailAccountRepository(db)

	// Initialize mail providers
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)
	imapService := imap.NewService()

	// Initialize FCM client (optional, sync works without it)
	var fcmClient *fcm.Client
	if cfg.FirebaseCredentials != "" {
		fcmClient, err = fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
			fcmClient = nil
		}
	}

	// Initialize use cases (dependency injection)
	syncUsecaseInstance := syncUsecase.NewSyncUsecase(userRepo, fcmTokenRepo, applicationRepo, statusUpdateRepo, emailAccountRepo, gmailService, imapService, fcmClient, cfg)
	appUsecaseInstance := appUsecase.NewApplicationUsecase(applicationRepo, statusUpdateRepo)

	// Initialize notification service (Pub/Sub push triggers)
	// Only start if project ID is configured
	if cfg.GoogleProjectID != "" {
		// Extract short topic name from full resource name if necessary
		topicName := cfg.GooglePubSubTopic
		if parts := strings.Split(topicName, "/"); len(parts) > 1 {
			topicName = parts[len(parts)-1]
		}
		if topicName == "" {
			topicName = "gmail-updates"
		}

		notifService, err := notification.NewService(cfg.GoogleProjectID, topicName, userRepo, syncUsecaseInstance, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("[ERROR] Failed to initialize notification service: %v", err)
		} else {
			go notifService.Start(context.Background())
		}
	} else {
		log.Printf("[WARN] GoogleProjectID not configured, notification service disabled")
	}

	// Initialize HTTP handler
	handler := api.NewHandler(syncUsecaseInstance, appUsecaseInstance, fcmTokenRepo, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
