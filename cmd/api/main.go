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

	"github.com/google/uuid"

	"github.com/fastprodman/txledger/internal/api"
	"github.com/fastprodman/txledger/internal/infra/logging"
	"github.com/fastprodman/txledger/internal/infra/pgutils"
	"github.com/fastprodman/txledger/internal/repos/accounts"
	pgaccounts "github.com/fastprodman/txledger/internal/repos/accounts/postgres"
	"github.com/fastprodman/txledger/internal/services/processing"
	"github.com/fastprodman/txledger/pkg/envconf"
	"github.com/fastprodman/txledger/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Optional export target ---
	var accountsRepo accounts.Accounts

	if cfg.PostgresDSN != "" {
		dbConns, derr := pgutils.OpenDB(ctx, cfg.PostgresDSN)
		if derr != nil {
			return fmt.Errorf("open db: %w", derr)
		}

		shutdownqueue.Add(func(context.Context) error {
			slog.Info("Close database pool")

			return dbConns.Close()
		})

		accountsRepo = pgaccounts.New(dbConns)
	}

	svc := processing.New(accountsRepo)

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, svc)

	// Register HTTP server graceful shutdown; final states are exported
	// (when a target is configured) before the pool closes.
	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		if accountsRepo != nil {
			runID := uuid.NewString()

			err = svc.Export(c, runID)
			if err != nil {
				return fmt.Errorf("export final states: %w", err)
			}

			slog.Info("Final states exported", "run_id", runID)
		}

		return nil
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("Ledger API started", "port", cfg.Port)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
