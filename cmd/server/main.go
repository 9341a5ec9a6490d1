package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wapio/backend/internal/config"
	"github.com/wapio/backend/internal/handler"
	"github.com/wapio/backend/internal/logging"
	"github.com/wapio/backend/internal/repository"
	"github.com/wapio/backend/internal/service"
	"github.com/wapio/backend/pkg/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("failed to load config", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	contactRepo := repository.NewPgContactRepository(pool)
	userRepo := repository.NewPgUserRepository(pool)
	contactService := service.NewContactService(contactRepo)
	authService := service.NewAuthService(userRepo)

	jwtSecret := []byte(cfg.JWTSecret)

	h := handler.New(pool, cfg.FrontendURL)
	contactHandler := handler.NewContactHandler(contactService)
	authHandler := handler.NewAuthHandler(authService, jwtSecret, cfg.JWTTTL)
	webhookHandler := handler.NewWebhookHandler(cfg.WebhookVerifyToken)

	contactLimiter := handler.NewRateLimiter(cfg.ContactRatePerMinute)
	loginLimiter := handler.NewRateLimiter(cfg.LoginRatePerMinute)
	requireAuth := auth.RequireAuth(jwtSecret)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)

	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.Handle("POST /api/auth/login", loginLimiter.Middleware(http.HandlerFunc(authHandler.Login)))
	mux.Handle("GET /api/auth/me", requireAuth(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /api/auth/profile", requireAuth(http.HandlerFunc(authHandler.UpdateProfile)))
	mux.Handle("PUT /api/auth/change-password", requireAuth(http.HandlerFunc(authHandler.ChangePassword)))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	// Public intake is rate limited; moderation requires an authenticated
	// admin (handlers enforce the role).
	mux.Handle("POST /api/contact", contactLimiter.Middleware(http.HandlerFunc(contactHandler.Create)))
	mux.Handle("GET /api/contact", requireAuth(http.HandlerFunc(contactHandler.List)))
	mux.Handle("GET /api/contact/stats", requireAuth(http.HandlerFunc(contactHandler.Stats)))
	mux.Handle("GET /api/contact/{id}", requireAuth(http.HandlerFunc(contactHandler.Get)))
	mux.Handle("PUT /api/contact/{id}/status", requireAuth(http.HandlerFunc(contactHandler.UpdateStatus)))
	mux.Handle("DELETE /api/contact/{id}", requireAuth(http.HandlerFunc(contactHandler.Delete)))

	// WhatsApp Cloud API webhook; Meta authenticates via the verify token.
	mux.HandleFunc("GET /api/webhook", webhookHandler.Verify)
	mux.HandleFunc("POST /api/webhook", webhookHandler.Receive)
	mux.HandleFunc("POST /api/webhook/send", webhookHandler.Send)

	mux.HandleFunc("/", h.NotFound)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.SecurityHeaders(h.CORS(handler.RequestLogger(mux))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
