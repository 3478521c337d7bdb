package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/soumenroy/portfolio/backend/internal/handler"
	"github.com/soumenroy/portfolio/backend/internal/logging"
	"github.com/soumenroy/portfolio/backend/internal/repository"
	"github.com/soumenroy/portfolio/backend/internal/service"
	"github.com/soumenroy/portfolio/backend/internal/storage"
	"github.com/soumenroy/portfolio/backend/pkg/mail"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	frontendURL := envOr("FRONTEND_URL", "http://localhost:3000")
	ownerEmail := envOr("OWNER_EMAIL", "roysowmen@gmail.com")
	assetsDir := envOr("ASSETS_DIR", "./assets")
	submissionsFile := envOr("SUBMISSIONS_FILE", "data/submissions.json")

	// Submission store: Postgres when DATABASE_URL is set (atomic
	// appends), otherwise the zero-config JSON file store.
	var repo repository.SubmissionRepository
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pool, err := repository.NewPool(context.Background(), dbURL)
		if err != nil {
			logging.Fatal("failed to connect to database", "error", err)
		}
		defer pool.Close()
		repo = repository.NewPgSubmissionRepository(pool)
		slog.Info("using postgres submission store")
	} else {
		repo = repository.NewFileSubmissionRepository(submissionsFile)
		slog.Info("using file submission store", "path", submissionsFile)
	}

	mailCfg := mail.Config{
		Host:       os.Getenv("SMTP_HOST"),
		Port:       envInt("SMTP_PORT", 587),
		Secure:     os.Getenv("SMTP_SECURE") == "true",
		User:       os.Getenv("SMTP_USER"),
		Pass:       os.Getenv("SMTP_PASS"),
		From:       os.Getenv("SMTP_FROM"),
		NotifyTo:   os.Getenv("NOTIFY_EMAIL"),
		OwnerEmail: ownerEmail,
	}
	notifier := service.NewNotifier(mailCfg)
	if !mailCfg.Enabled() {
		slog.Info("SMTP not configured, notifications disabled")
	}

	submissionService := service.NewSubmissionService(repo, notifier)

	h := handler.New(repo, frontendURL)
	submissionHandler := handler.NewSubmissionHandler(submissionService, os.Getenv("ADMIN_TOKEN"))
	downloadHandler := handler.NewDownloadHandler(storage.NewLocalAssetStore(assetsDir))
	contactLimiter := handler.NewRateLimiter(envInt("CONTACT_RATE_LIMIT", 5))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.Handle("POST /api/contact", contactLimiter.Middleware(http.HandlerFunc(submissionHandler.Submit)))
	mux.HandleFunc("GET /api/admin/submissions", submissionHandler.AdminList)
	mux.HandleFunc("GET /files/{name}", downloadHandler.Get)

	chain := handler.RequestLogger(handler.Recover(handler.SecurityHeaders(h.CORS(mux))))

	server := &http.Server{
		Addr:         envOr("LISTEN_ADDR", ":8080"),
		Handler:      chain,
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
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
