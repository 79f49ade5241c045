package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/roslynlu/TandaPay/internal/api"
	"github.com/roslynlu/TandaPay/internal/auth"
	"github.com/roslynlu/TandaPay/internal/config"
	"github.com/roslynlu/TandaPay/internal/service"
	"github.com/roslynlu/TandaPay/internal/storage/sqlite"
	"github.com/roslynlu/TandaPay/internal/tanda"
	"github.com/roslynlu/TandaPay/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.MustLoad()

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	// Bootstrap the administrator account. Its user ID is the one identity
	// allowed to create groups; the ID is stable across restarts because
	// the account is only created once.
	adminID, err := ensureAdmin(context.Background(), store, authenticator, cfg)
	if err != nil {
		slog.Error("Failed to bootstrap administrator", "error", err)
		os.Exit(1)
	}
	slog.Info("Administrator ready", "user_id", adminID)

	rules := tanda.NewRules(adminID)
	if cfg.MinGroupSize > 0 {
		rules.MinGroupSize = cfg.MinGroupSize
	}
	if cfg.MinActiveDuration > 0 {
		rules.MinActiveDuration = cfg.MinActiveDuration
	}

	pool := service.NewPoolService(rules, store)
	authSvc := service.NewAuthService(authenticator, jwtManager, slog.Default())

	handler := api.NewHandler(pool, authSvc)
	router := handler.Router(jwtManager)

	// Wrap with h2c for HTTP/2 without TLS
	h2cHandler := h2c.NewHandler(router, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("TandaPay server starting",
		"address", addr,
		"min_group_size", rules.MinGroupSize,
		"min_active_duration", rules.MinActiveDuration,
	)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// ensureAdmin looks up the administrator account and registers it on first
// startup, returning the administrator user ID either way.
func ensureAdmin(ctx context.Context, store *sqlite.SQLiteStore, authenticator auth.Authenticator, cfg config.Env) (string, error) {
	existing, err := store.GetUserByEmail(ctx, cfg.AdminEmail)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}

	admin, err := authenticator.Register(ctx, cfg.AdminEmail, "Administrator", cfg.AdminPassword)
	if err != nil {
		return "", err
	}
	slog.Info("Administrator account created", "email", cfg.AdminEmail)
	return admin.ID, nil
}
