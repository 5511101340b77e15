// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/junglecut/storyarc/internal/api"
	"github.com/junglecut/storyarc/internal/app"
	"github.com/junglecut/storyarc/internal/config"
	"github.com/junglecut/storyarc/internal/logging"
	"github.com/junglecut/storyarc/internal/services"
	"github.com/junglecut/storyarc/internal/utils"
)

func main() {
	// 1. Load base configuration from the environment.
	baseConfig, err := config.Load()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}

	// 2. Create the data directories.
	createDirectories(baseConfig)

	// 3. Initialize the configuration system (config.json overlay).
	if err := config.InitConfig(baseConfig.DataDir); err != nil {
		log.Fatalf("init configuration: %v", err)
	}
	cfg := config.GetCurrentConfig()

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("starting storyarc server", "port", cfg.Port, "data_dir", cfg.DataDir)

	// 4. Build the services in dependency order.
	if err := app.InitServices(cfg); err != nil {
		logger.Fatal("init services", "error", err)
	}

	// 5. Wire the HTTP layer.
	handler := buildHandler(logger)
	engineMetrics := utils.NewEngineMetrics()
	handler.EngineMetrics = engineMetrics

	notify, err := app.GetService[*services.NotifyService](app.ServiceNotify)
	if err != nil {
		logger.Fatal("resolve notify service", "error", err)
	}
	hub := api.NewNotificationHub(notify, logger, engineMetrics)
	go hub.Run()

	router := api.SetupRouter(handler, hub, logger, engineMetrics, cfg.DebugMode)

	runtimeCtx, cancelRuntime := context.WithCancel(context.Background())
	defer cancelRuntime()
	engineMetrics.StartRuntimeCollection(runtimeCtx)

	// 6. Serve until interrupted.
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}

	hub.Close()
	if err := handler.Stats.Close(); err != nil {
		logger.Warn("flush stats", "error", err)
	}

	logger.Info("shutdown complete")
}

// buildHandler resolves every service the HTTP layer needs. A missing
// service at this point is a programming error, so failures are fatal.
func buildHandler(logger *logging.Logger) *api.Handler {
	h := api.NewHandler()
	h.Logger = logger

	var err error
	resolve := func(do func() error) {
		if err != nil {
			return
		}
		err = do()
	}

	resolve(func() (e error) { h.Blocks, e = app.GetService[*services.BlockService](app.ServiceBlocks); return })
	resolve(func() (e error) { h.Structures, e = app.GetService[*services.StructureService](app.ServiceStructures); return })
	resolve(func() (e error) { h.Timeline, e = app.GetService[*services.TimelineService](app.ServiceTimeline); return })
	resolve(func() (e error) { h.Metrics, e = app.GetService[*services.MetricsService](app.ServiceMetrics); return })
	resolve(func() (e error) { h.Insights, e = app.GetService[*services.InsightService](app.ServiceInsights); return })
	resolve(func() (e error) { h.Suggestions, e = app.GetService[*services.SuggestionService](app.ServiceSuggestions); return })
	resolve(func() (e error) { h.Drag, e = app.GetService[*services.DragSession](app.ServiceDrag); return })
	resolve(func() (e error) { h.Notify, e = app.GetService[*services.NotifyService](app.ServiceNotify); return })
	resolve(func() (e error) { h.LLM, e = app.GetService[*services.LLMService](app.ServiceLLM); return })
	resolve(func() (e error) { h.Stats, e = app.GetService[*services.StatsService](app.ServiceStats); return })

	if err != nil {
		logger.Fatal("resolve services", "error", err)
	}
	return h
}

// createDirectories creates the directory layout the services expect.
func createDirectories(cfg *config.Config) {
	dirs := []string{
		cfg.DataDir,
		filepath.Join(cfg.DataDir, "project"),
		filepath.Join(cfg.DataDir, "stats"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("create directory %s: %v", dir, err)
		}
	}
}
