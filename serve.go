package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"restaurant-menu-api/config"
	"restaurant-menu-api/handlers"
	"restaurant-menu-api/middleware"
	"restaurant-menu-api/routes"
	"restaurant-menu-api/services"
	"restaurant-menu-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	gin.SetMode(cfg.Server.Mode)

	db, err := config.InitDB(cfg.Database, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := config.Migrate(db); err != nil {
		return err
	}

	assets, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	log.Info("asset storage ready", zap.String("type", cfg.Storage.Type))

	issuer := middleware.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	authSvc := services.NewAuthService(db, issuer)
	categorySvc := services.NewCategoryService(db)
	templateSvc := services.NewTemplateService(db,
		services.WithAssetStore(assets),
		services.WithLogger(log),
	)

	h := handlers.New(handlers.Deps{
		Auth:        authSvc,
		Categories:  categorySvc,
		Items:       services.NewItemService(db, categorySvc),
		Templates:   templateSvc,
		Menus:       services.NewMenuService(db, templateSvc),
		FrontendURL: cfg.Frontend.BaseURL,
		Log:         log,
	})

	routerCfg := routes.RouterConfig{
		Handler:      h,
		Auth:         middleware.AuthRequired(issuer, authSvc),
		DB:           db,
		Log:          log,
		AllowOrigins: cfg.CORS.AllowOrigins,
	}
	if local, ok := assets.(*storage.LocalStore); ok && strings.HasPrefix(local.PublicBaseURL(), "/") {
		routerCfg.AssetsURL = local.PublicBaseURL()
		routerCfg.AssetsDir = local.BasePath()
	}
	r, err := routes.NewRouter(routerCfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
