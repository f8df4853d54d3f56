package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pagemark-backend/internal/config"
	"pagemark-backend/internal/database"
	"pagemark-backend/internal/events"
	"pagemark-backend/internal/handlers"
	"pagemark-backend/internal/middleware"
	"pagemark-backend/internal/repository"
	"pagemark-backend/internal/router"
	"pagemark-backend/internal/services"
	"pagemark-backend/internal/store"
	"pagemark-backend/internal/study"
	"pagemark-backend/internal/websocket"
	"pagemark-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting Pagemark Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	if err := os.MkdirAll(cfg.StoragePath, 0o755); err != nil {
		log.Fatalf("✗ Storage path unavailable: %v", err)
	}

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	dbStores := handlers.Stores{
		Documents:  repository.NewDocumentRepo(pool),
		Highlights: repository.NewHighlightRepo(pool),
		Flashcards: repository.NewFlashcardRepo(pool),
	}

	// Guest traffic lives entirely in process memory
	memory := store.NewMemory()
	guestStores := handlers.Stores{
		Documents:  memory.Documents(),
		Highlights: memory.Highlights(),
		Flashcards: memory.Flashcards(),
	}

	// ──── Initialize Event Brokers ────
	broker := events.NewRedisBroker(redisClients.PubSub)
	guestBroker := events.NewMemoryBroker()

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	pdfInfo := services.NewPDFInfoService()
	authService := services.NewAuthService(userRepo, redisClients.Queue, jwtAuth, cfg.GoogleClientID)

	registry := study.NewSessionRegistry(time.Duration(cfg.QuizSessionTTLMin) * time.Minute)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	documentHandler := handlers.NewDocumentHandler(dbStores, guestStores, redisClients.Queue, broker, guestBroker, pdfInfo, cfg.StoragePath)
	highlightHandler := handlers.NewHighlightHandler(dbStores, guestStores, broker, guestBroker)
	flashcardHandler := handlers.NewFlashcardHandler(dbStores, guestStores, broker, guestBroker)
	quizHandler := handlers.NewQuizHandler(dbStores, guestStores, broker, guestBroker, registry)

	// ──── Step 5: Start Document Worker Pool ────
	workerPool := worker.NewPool(redisClients.Queue, dbStores.Documents, pdfInfo, broker, cfg.WorkerCount)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(broker, guestBroker, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		documentHandler,
		highlightHandler,
		flashcardHandler,
		quizHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Pagemark Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
