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

	"github.com/redis/go-redis/v9"

	httpctx "github.com/vacekto/streamit-auth/internal/api/http/context"
	"github.com/vacekto/streamit-auth/internal/api/http/handler"
	"github.com/vacekto/streamit-auth/internal/api/http/middleware"
	"github.com/vacekto/streamit-auth/internal/api/http/router"
	httpServer "github.com/vacekto/streamit-auth/internal/api/http/server"
	"github.com/vacekto/streamit-auth/internal/config"
	"github.com/vacekto/streamit-auth/internal/idp"
	"github.com/vacekto/streamit-auth/internal/logger"
	"github.com/vacekto/streamit-auth/internal/model"
	"github.com/vacekto/streamit-auth/internal/registry"
	"github.com/vacekto/streamit-auth/internal/repository/postgres"
	"github.com/vacekto/streamit-auth/internal/server"
	"github.com/vacekto/streamit-auth/internal/service"
	"github.com/vacekto/streamit-auth/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const statePrefix = "auth:state"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	userRepo := postgres.NewUserRepository(db)
	issuer := token.NewJWT(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	sessionRegistry := registry.NewRedis(redisClient, cfg.Redis.TokenPrefix, cfg.Redis.SessionPrefix, cfg.JWT.RefreshTTL)
	stateStore := registry.NewState(redisClient, statePrefix)

	google, err := idp.NewGoogle(ctx, cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
	if err != nil {
		logger.Fatal("failed to initialize identity provider", "error", err)
	}

	authService := service.NewAuth(userRepo, google, logger)
	tokenService := service.NewTokenService(issuer, sessionRegistry, userRepo, logger)
	ctxMgr := httpctx.NewManager()

	authHandler := handler.NewAuth(authService, tokenService, stateStore, google, ctxMgr, handler.Options{
		CookieName:   cfg.JWT.RefreshCookie,
		CookieSecure: cfg.IsProduction(),
		RefreshTTL:   cfg.JWT.RefreshTTL,
		AppOrigin:    cfg.AppOrigin,
	}, logger)
	healthHandler := handler.NewHealth(db, sessionRegistry, logger)
	guard := middleware.NewGuard(issuer, sessionRegistry, ctxMgr, cfg.JWT.RefreshCookie, logger)

	r := router.New(authHandler, healthHandler, guard, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

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
		err := s.Start(sl)
		if err != nil {
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
