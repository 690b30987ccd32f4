// txprocessor reads a batch of transaction events from a CSV file, folds
// them through the ledger engine and prints the final account states as CSV
// on stdout.
//
// Usage: txprocessor transactions.csv > accounts.csv
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/fastprodman/txledger/internal/csvio"
	"github.com/fastprodman/txledger/internal/infra/logging"
	"github.com/fastprodman/txledger/internal/infra/pgutils"
	"github.com/fastprodman/txledger/internal/ledger"
	pgaccounts "github.com/fastprodman/txledger/internal/repos/accounts/postgres"
	"github.com/fastprodman/txledger/internal/services/processing"
	"github.com/fastprodman/txledger/pkg/envconf"
	"github.com/fastprodman/txledger/pkg/shutdownqueue"
)

const usageExitCode = 64 // EX_USAGE

type cliConfig struct {
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"WARN"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// Optional: when set, final account states are also exported to
	// Postgres under a fresh run id.
	PostgresDSN string `env:"PG_DSN" envDefault:""`
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Unexpected number of arguments: %d. Provide exactly 1 argument\n", len(os.Args)-1)
		fmt.Fprintln(os.Stderr, "\tUsage: txprocessor transactions.csv > accounts.csv")
		os.Exit(usageExitCode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error processing batch: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context, inputPath string) (retErr error) {
	cfg := new(cliConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	// logs go to stderr: stdout carries the CSV report
	logging.SetupText(os.Stderr, cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	//nolint:errcheck
	defer f.Close()

	eng := ledger.NewEngine()

	stats, err := csvio.Process(f, eng)
	if err != nil {
		return fmt.Errorf("process batch: %w", err)
	}

	slog.Info("batch processed",
		"applied", stats.Applied,
		"rejected", stats.TotalRejected(),
		"clients", len(eng.Clients()),
	)

	err = csvio.WriteAccounts(os.Stdout, eng)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if cfg.PostgresDSN != "" {
		err = exportStates(ctx, cfg.PostgresDSN, eng)
		if err != nil {
			return fmt.Errorf("export states: %w", err)
		}
	}

	return nil
}

func exportStates(ctx context.Context, dsn string, eng *ledger.Engine) error {
	db, err := pgutils.OpenDB(ctx, dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		return db.Close()
	})

	runID := uuid.NewString()

	err = processing.ExportEngine(ctx, pgaccounts.New(db), eng, runID)
	if err != nil {
		return err
	}

	slog.Info("final states exported", "run_id", runID)

	return nil
}
