// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tmsanders/go-preceptor/internal/config"
	"github.com/tmsanders/go-preceptor/internal/domain"
	"github.com/tmsanders/go-preceptor/internal/handlers"
	"github.com/tmsanders/go-preceptor/internal/middleware"
	"github.com/tmsanders/go-preceptor/internal/ratelimit"
	"github.com/tmsanders/go-preceptor/internal/repository/assistant"
	"github.com/tmsanders/go-preceptor/internal/repository/document"
	"github.com/tmsanders/go-preceptor/internal/repository/message"
	"github.com/tmsanders/go-preceptor/internal/repository/thread"
	"github.com/tmsanders/go-preceptor/internal/repository/user"
	"github.com/tmsanders/go-preceptor/internal/services"
	"github.com/tmsanders/go-preceptor/internal/services/ai"
	chatservice "github.com/tmsanders/go-preceptor/internal/services/chat"
	"github.com/tmsanders/go-preceptor/internal/services/ingest"
	"github.com/tmsanders/go-preceptor/internal/services/storage"
	"github.com/tmsanders/go-preceptor/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("go_preceptor")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Assistant{},
		&domain.Document{},
		&domain.ChatThread{},
		&domain.ChatMessage{},
	); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Redis (session denylist) ---
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		log.Fatalf("Redis Error: %v", err)
	}
	cancelPing()

	// --- Blob storage ---
	blobStore, err := storage.NewMinioStore(&storage.Config{
		Endpoint:      cfg.MinioEndpoint,
		AccessKey:     cfg.MinioAccessKey,
		SecretKey:     cfg.MinioSecretKey,
		Bucket:        cfg.MinioBucket,
		UseSSL:        cfg.MinioUseSSL,
		PublicBaseURL: cfg.MinioPublicBase,
	}, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize blob storage: %v", err)
	}

	// --- Hosted assistant gateway ---
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.OpenAIAPIKey
	aiConfig.Model = cfg.AssistantModel
	aiConfig.PollInterval = time.Duration(cfg.RunPollIntervalMS) * time.Millisecond
	aiConfig.RunTimeout = time.Duration(cfg.RunTimeoutSeconds) * time.Second
	gateway, err := ai.NewOpenAIGateway(aiConfig, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize AI gateway: %v", err)
	}

	// --- Upload validation ---
	ingestConfig := ingest.DefaultConfig()
	ingestConfig.MaxFileSize = cfg.MaxFileSizeBytes()
	ingestConfig.AllowedExtensions = config.AllowedExtensions
	validator, err := ingest.NewValidator(ingestConfig, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize upload validator: %v", err)
	}

	// --- Repositories ---
	userRepo := user.NewUserRepository(db)
	assistantRepo := assistant.NewAssistantRepository(db)
	documentRepo := document.NewDocumentRepository(db)
	threadRepo := thread.NewThreadRepository(db)
	messageRepo := message.NewMessageRepository(db)

	// --- Services ---
	denylist := user_services.NewRedisTokenDenylist(redisClient)
	authService := user_services.NewAuthService(userRepo, denylist, cfg.JWTSecretKey, logger)

	assistantService, err := services.NewAssistantService(assistantRepo, gateway, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Assistant Service: %v", err)
	}

	documentService, err := services.NewDocumentService(documentRepo, assistantRepo, validator, blobStore, gateway, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Document Service: %v", err)
	}

	chatConfig := &chatservice.Config{
		MaxThreadMessages: cfg.MaxThreadMessages,
		MaxMessageLength:  cfg.MaxMessageLength,
	}
	chatService, err := services.NewChatService(chatConfig, threadRepo, messageRepo, assistantRepo, gateway, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Service: %v", err)
	}

	// --- Rate limiting (auth endpoints) ---
	authLimiter := ratelimit.NewAttemptLimiter(ratelimit.DefaultAuthConfig())
	defer authLimiter.Close()

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, authLimiter)
	assistantHandler := handlers.NewAssistantHandler(assistantService)
	documentHandler := handlers.NewDocumentHandler(documentService, cfg.MaxFileSizeBytes()+multipartOverhead)
	chatHandler := handlers.NewChatHandler(chatService)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(authService)
	authThrottle := middleware.RateLimitMiddleware(authLimiter, "auth")

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")
	r.Handle("/api/auth/signup", authThrottle(http.HandlerFunc(authHandler.Signup))).Methods("POST")
	r.Handle("/api/auth/login", authThrottle(http.HandlerFunc(authHandler.Login))).Methods("POST")
	r.HandleFunc("/api/auth/logout", authHandler.Logout).Methods("POST")
	r.HandleFunc("/api/auth/me", authHandler.Me).Methods("GET")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/assistants", assistantHandler.List).Methods("GET")
	api.HandleFunc("/assistants", assistantHandler.Create).Methods("POST")
	api.HandleFunc("/assistants/{id}", assistantHandler.Get).Methods("GET")
	api.HandleFunc("/assistants/{id}", assistantHandler.Update).Methods("PATCH")
	api.HandleFunc("/assistants/{id}", assistantHandler.Delete).Methods("DELETE")
	api.HandleFunc("/assistants/{id}/documents", documentHandler.List).Methods("GET")
	api.HandleFunc("/assistants/{id}/documents", documentHandler.Upload).Methods("POST")
	api.HandleFunc("/documents/{id}", documentHandler.Delete).Methods("DELETE")
	api.HandleFunc("/threads", chatHandler.ListThreads).Methods("GET")
	api.HandleFunc("/threads", chatHandler.CreateThread).Methods("POST")
	api.HandleFunc("/threads/{id}", chatHandler.DeleteThread).Methods("DELETE")
	api.HandleFunc("/threads/{id}/messages", chatHandler.ListMessages).Methods("GET")
	api.HandleFunc("/threads/{id}/messages", chatHandler.SendMessage).Methods("POST")

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	// --- Startup Logging ---
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("==================================================")
	log.Printf("Preceptor - AI Teaching Assistant Platform")
	log.Printf("==================================================")
	log.Printf("Server starting on port %s", port)
	log.Printf("Local access: http://localhost%s", port)
	log.Printf("Health check: http://localhost%s/health", port)
	log.Printf("Server ready to accept connections!")
	log.Printf("==================================================")

	// --- Start Server in Goroutine ---
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// multipartOverhead leaves room for the multipart framing around an
// upload that is itself at the size ceiling.
const multipartOverhead = 1 << 20
