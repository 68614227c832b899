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

	httpctx "github.com/ideaforge/auth-server/internal/api/http/context"
	"github.com/ideaforge/auth-server/internal/api/http/router"
	httpserver "github.com/ideaforge/auth-server/internal/api/http/server"
	"github.com/ideaforge/auth-server/internal/config"
	"github.com/ideaforge/auth-server/internal/logger"
	"github.com/ideaforge/auth-server/internal/mailer"
	"github.com/ideaforge/auth-server/internal/password"
	"github.com/ideaforge/auth-server/internal/model"
	"github.com/ideaforge/auth-server/internal/repository/postgres"
	"github.com/ideaforge/auth-server/internal/server"
	"github.com/ideaforge/auth-server/internal/service"
	"github.com/ideaforge/auth-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	magicLinkRepo := postgres.NewMagicLinkRepository(db)
	sessionRepo := postgres.NewSessionAuditRepository(db)

	tokenManager := token.NewJWT(cfg.Auth.JWTSecret)
	refreshHasher := token.NewRefreshHasher(cfg.Auth.RefreshSecret)
	passwordHasher := password.NewHasher()
	magicMailer := mailer.New(cfg.Mail, logger)

	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, userRepo, roleRepo, refreshHasher, logger)
	authService := service.NewAuth(userRepo, roleRepo, profileRepo, magicLinkRepo, sessionRepo,
		passwordHasher, tokenService, magicMailer, cfg.HTTP.BaseURL, logger)

	r := router.New(authService, tokenService, httpctx.NewManager(), logger)
	srv := httpserver.NewHTTPServer(fmt.Sprintf(":%s", cfg.HTTP.Port), r.Handler())

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
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
