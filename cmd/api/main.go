package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/config"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/attendance-dashboard-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/logger"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/repository/xlsx"
	attendanceService "github.com/cmlabs-hris/attendance-dashboard-go/internal/service/attendance"
)

const (
	appName    = "attendance-dashboard"
	appVersion = "v1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, appName, appVersion, cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rules, err := attendanceService.RulesByName(cfg.Source.RuleTable)
	if err != nil {
		slog.Error("Invalid rule table", "rule_table", cfg.Source.RuleTable, "error", err)
		os.Exit(1)
	}

	var (
		loader   attendance.SourceLoader
		uploader attendance.SourceUploader
	)
	switch cfg.Source.Type {
	case config.SourceXLSX:
		fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			slog.Error("Failed to initialize local storage", "error", err)
			os.Exit(1)
		}
		workbook := xlsx.NewAttendanceWorkbook(fileStorage, cfg.Source.FilePath, cfg.Source.Sheet)
		if exists, err := workbook.Exists(ctx); err != nil || !exists {
			slog.Warn("Attendance workbook not found, upload one via PUT /api/v1/attendance/source",
				"path", cfg.Source.FilePath, "error", err)
		}
		loader, uploader = workbook, workbook
	case config.SourcePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			slog.Error("Error connecting to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		loader = postgresql.NewAttendanceSource(db)
	}

	store := attendanceService.NewRecordStore(loader, rules, cfg.Source.CacheTTL)
	analyticsService := attendanceService.NewAnalyticsService(store, rules, uploader, cfg.Location())

	hub := sse.NewHub(0)
	attendanceService.NotifyReloads(store, hub, cfg.Location())

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(analyticsService, cfg.Source.CacheTTL).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	routerOpts := appHTTP.RouterOptions{
		Logger:         log,
		AllowedOrigins: cfg.App.AllowedOrigins,
		Events:         appHTTP.NewEventsHandler(hub),
	}
	if cfg.AuthEnabled() {
		routerOpts.JWTService = jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	} else {
		slog.Warn("JWT_SECRET_KEY is empty, API authentication disabled")
	}

	attendanceHandler := appHTTP.NewAttendanceHandler(analyticsService)
	router := appHTTP.NewRouter(routerOpts, attendanceHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "source", loader.Name(), "rule_table", rules.Name)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down", "stream_subscribers", hub.Subscribers())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
