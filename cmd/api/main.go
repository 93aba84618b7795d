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

	"github.com/shiftsync/timeclock-backend/internal/config"
	appHTTP "github.com/shiftsync/timeclock-backend/internal/handler/http"
	"github.com/shiftsync/timeclock-backend/internal/pkg/clover"
	"github.com/shiftsync/timeclock-backend/internal/pkg/cron"
	"github.com/shiftsync/timeclock-backend/internal/pkg/database"
	"github.com/shiftsync/timeclock-backend/internal/pkg/timewindow"
	"github.com/shiftsync/timeclock-backend/internal/repository/postgresql"
	employeeService "github.com/shiftsync/timeclock-backend/internal/service/employee"
	shiftService "github.com/shiftsync/timeclock-backend/internal/service/shift"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := appHTTP.NewLogger(cfg.App)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	codec, err := timewindow.NewCodec(cfg.Import.Timezone)
	if err != nil {
		return err
	}

	cloverClient, err := clover.NewClient(cfg.Clover)
	if err != nil {
		return fmt.Errorf("init clover client: %w", err)
	}

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	stagedShiftRepo := postgresql.NewStagedShiftRepository(db)

	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	shiftSvc := shiftService.NewShiftService(
		transactor,
		employeeRepo,
		shiftRepo,
		stagedShiftRepo,
		cloverClient,
		codec,
		cfg.Import,
	)

	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	timeHandler := appHTTP.NewTimeHandler(codec)

	router := appHTTP.NewRouter(cfg.App, logger, employeeHandler, shiftHandler, timeHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Import.Interval > 0 {
		scheduler := cron.NewScheduler()
		scheduler.AddJob(cron.ShiftImportJobName, cfg.Import.Interval, cron.NewShiftImportJob(shiftSvc))
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "env", cfg.App.Env, "timezone", cfg.Import.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
