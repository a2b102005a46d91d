package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"taskboard/app/client"
	"taskboard/app/config"
	"taskboard/app/controllers"
	"taskboard/app/routes"
	"taskboard/app/services"
	"taskboard/app/ui"
)

func main() {
	mode := flag.String("mode", "serve", "serve|board")
	cfgPath := flag.String("config", "taskboard.toml", "path to config file")
	limit := flag.Int("limit", 0, "board mode: pending list bound (0 = server default)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "taskboard",
	})

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	switch *mode {
	case "serve":
		if err := serve(cfg, logger); err != nil {
			logger.Fatal("server", "err", err)
		}
	case "board":
		api := client.New(cfg.APIBaseURL)
		if err := ui.Run(context.Background(), api, *limit); err != nil {
			logger.Fatal("board", "err", err)
		}
	default:
		logger.Fatal("unknown mode", "mode", *mode)
	}
}

func serve(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.OpenDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// The database container may still be starting.
	if err := config.WaitPing(ctx, db, 15); err != nil {
		return err
	}
	logger.Info("database connected", "driver", cfg.Driver)

	taskService := services.NewTaskService(db, cfg.Driver)
	if err := taskService.Migrate(ctx); err != nil {
		return err
	}

	taskController := controllers.NewTaskController(taskService)

	router := mux.NewRouter()
	router.Use(routes.RequestLogger(logger))
	routes.RegisterRoutes(router, taskController)

	// CORS wraps the router rather than running as mux middleware: mux only
	// invokes Use middleware on method-matched routes, so a preflight
	// OPTIONS request would otherwise get a bare 405 without CORS headers.
	server := &http.Server{Addr: cfg.HTTPAddr, Handler: routes.CORS(router)}
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		_ = server.Shutdown(context.Background())
	}()

	logger.Info("listening", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
