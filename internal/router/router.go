package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"pagemark-backend/internal/handlers"
	"pagemark-backend/internal/middleware"
	"pagemark-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	documentHandler *handlers.DocumentHandler,
	highlightHandler *handlers.HighlightHandler,
	flashcardHandler *handlers.FlashcardHandler,
	quizHandler *handlers.QuizHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/google", authHandler.GoogleLogin)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Everything below works signed-in or as a guest. Guest requests keep
		// all state in process memory and never reach Postgres.
		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.OptionalAuth)

			// ──── Document Routes ────
			r.Route("/documents", func(r chi.Router) {
				r.Post("/", documentHandler.Upload)
				r.Get("/", documentHandler.List)
				r.Get("/{documentID}", documentHandler.Get)
				r.Put("/{documentID}/chapters", documentHandler.SetChapters)
				r.Delete("/{documentID}", documentHandler.Delete)

				// ──── Highlight Routes ────
				r.Route("/{documentID}/highlights", func(r chi.Router) {
					r.Post("/", highlightHandler.Create)
					r.Get("/", highlightHandler.List)
					r.Put("/{id}/note", highlightHandler.SetNote)
					r.Delete("/{id}", highlightHandler.Delete)
					r.Post("/{id}/flashcard", highlightHandler.DeriveFlashcard)
				})

				// ──── Flashcard Routes ────
				r.Route("/{documentID}/flashcards", func(r chi.Router) {
					r.Post("/", flashcardHandler.Create)
					r.Get("/", flashcardHandler.List)
					r.Put("/{id}", flashcardHandler.Update)
					r.Delete("/{id}", flashcardHandler.Delete)
					r.Post("/{id}/review", flashcardHandler.Review)
				})
			})

			// ──── Quiz Routes ────
			r.Route("/quiz", func(r chi.Router) {
				r.Post("/start", quizHandler.Start)
				r.Get("/{id}", quizHandler.Get)
				r.Post("/{id}/answer", quizHandler.Answer)
				r.Get("/{id}/summary", quizHandler.Summary)
			})
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
