package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"resume-viewer/internal/shared/config"
	"resume-viewer/internal/shared/server"
	"resume-viewer/internal/shared/telemetry"
	"resume-viewer/internal/web"
)

func main() {
	cfg := config.Load()
	telemetry.Init(cfg.LogLevel)
	if !config.IsDevLike(cfg.Env) {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              server.Addr(cfg.WebPort),
		Handler:           web.NewRouter(web.NewAPILister(cfg.APIURL)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			telemetry.Error("web.shutdown_failed", map[string]any{"error": err.Error()})
		}
	}()

	telemetry.Info("web.start", map[string]any{"addr": srv.Addr, "api_url": cfg.APIURL})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		telemetry.Error("web.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	<-stopped
	telemetry.Info("web.stopped", nil)
}
