package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dtroode/auth-service/internal/api/authctx"
	grpcRouter "github.com/dtroode/auth-service/internal/api/grpc/router"
	grpcServer "github.com/dtroode/auth-service/internal/api/grpc/server"
	httpRouter "github.com/dtroode/auth-service/internal/api/http/router"
	httpServer "github.com/dtroode/auth-service/internal/api/http/server"
	"github.com/dtroode/auth-service/internal/config"
	"github.com/dtroode/auth-service/internal/hasher"
	"github.com/dtroode/auth-service/internal/logger"
	"github.com/dtroode/auth-service/internal/metrics"
	"github.com/dtroode/auth-service/internal/model"
	"github.com/dtroode/auth-service/internal/repository/memory"
	"github.com/dtroode/auth-service/internal/repository/postgres"
	"github.com/dtroode/auth-service/internal/server"
	"github.com/dtroode/auth-service/internal/service"
	"github.com/dtroode/auth-service/internal/token"
	"github.com/dtroode/auth-service/internal/validation"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat)

	userStore, pinger, closeStore := openUserStore(ctx, cfg.Database.DSN, logger)
	defer closeStore()

	accessKey, refreshKey := signingKeys(cfg.JWT, logger)
	tokenManager, err := token.NewJWT(accessKey, refreshKey, cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL())
	if err != nil {
		logger.Fatal("failed to create token manager", "error", err)
	}

	passwordHasher, err := hasher.NewBcrypt(cfg.Hash.BcryptCost)
	if err != nil {
		logger.Fatal("failed to create password hasher", "error", err)
	}

	var (
		authMetrics model.AuthMetrics
		exporter    httpRouter.MetricsExporter
	)
	if cfg.Metrics.Enabled {
		m := metrics.New(buildVersion)
		authMetrics, exporter = m, m
	}

	tokenService := service.NewTokenService(tokenManager, userStore, cfg.JWT.RotateRefresh, authMetrics, logger)
	authService := service.NewAuth(
		userStore,
		passwordHasher,
		tokenService,
		validation.New(cfg.Auth.MinPasswordLength),
		service.AuthOptions{CaseInsensitiveEmail: cfg.Auth.EmailCaseInsensitive, Metrics: authMetrics},
		logger,
	)
	ctxMgr := authctx.NewManager()

	var sl model.SecurityLayer
	if cfg.TLS.EnableHTTPS {
		sl = server.NewTLSListener(cfg.TLS.CertFileName, cfg.TLS.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	handler := httpRouter.New(authService, tokenService, ctxMgr, pinger, httpRouter.Options{
		Version:          buildVersion,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: cfg.CORS.AllowCredentials,
		Metrics:          exporter,
	}, logger).Register()
	servers := []model.Server{
		httpServer.NewHTTPServer(handler, fmt.Sprintf(":%s", cfg.HTTP.Port)),
	}

	var gate *grpcRouter.Router
	if cfg.GRPC.Enabled {
		gate = grpcRouter.New(tokenService, ctxMgr, logger)
		servers = append(servers, grpcServer.NewGRPCServer(gate.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port)))
	}

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	if gate != nil {
		gate.Shutdown()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

// openUserStore connects to PostgreSQL when dsn is set and falls back to the in-memory store otherwise.
func openUserStore(ctx context.Context, dsn string, logger *logger.Logger) (model.UserStore, model.Pinger, func()) {
	if dsn == "" {
		logger.Warn("DATABASE_DSN is not set, using in-memory user store; accounts will not survive a restart")
		store := memory.NewUserRepository()
		return store, store, func() {}
	}

	db, err := postgres.NewConnection(ctx, dsn, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}

	return postgres.NewUserRepository(db), db, func() { _ = db.Close() }
}

// signingKeys returns the configured keys, generating a random one for each that is unset.
func signingKeys(cfg config.JWT, logger *logger.Logger) (token.Key, token.Key) {
	access := keyOrGenerate(cfg.AccessSecret, "JWT_ACCESS_SECRET", logger)
	refresh := keyOrGenerate(cfg.RefreshSecret, "JWT_REFRESH_SECRET", logger)
	return access, refresh
}

func keyOrGenerate(secret, name string, logger *logger.Logger) token.Key {
	if secret != "" {
		return token.Key(secret)
	}

	key, err := token.GenerateKey()
	if err != nil {
		logger.Fatal("failed to generate signing key", "variable", name, "error", err)
	}
	logger.Warn("signing key is not configured, generated a random one; issued tokens will not survive a restart",
		"variable", name)
	return key
}
