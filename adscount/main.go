package main

import (
	"adscount/adscount/config"
	"adscount/adscount/controllers"
	"adscount/adscount/routes"
	"adscount/adscount/utils/logging"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.ErrorLogger.Error("config load error", zap.Error(err))
		os.Exit(1)
	}

	jobsCtrl, err := controllers.NewJobsController(cfg)
	if err != nil {
		logging.ErrorLogger.Error("jobs controller init error", zap.Error(err))
		os.Exit(1)
	}
	healthCtrl := controllers.NewHealthController()
	extractCtrl := controllers.NewExtractController(cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// no request timeout middleware: the progress websocket stays open for
	// the whole batch

	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/jobs", routes.JobRoutes(jobsCtrl))
	r.Mount("/extract", routes.ExtractRoutes(extractCtrl))

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	logging.AppLogger.Info("server listening", zap.String("addr", cfg.Server.Addr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
