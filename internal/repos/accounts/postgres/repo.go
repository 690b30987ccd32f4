package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastprodman/txledger/internal/infra/pgutils"
	"github.com/fastprodman/txledger/internal/repos/accounts"
)

var _ accounts.Accounts = (*accountsRepo)(nil)

type accountsRepo struct{ db *sql.DB }

func New(db *sql.DB) *accountsRepo {
	return &accountsRepo{db: db}
}

// ExportRun inserts all snapshots for one run inside a single transaction,
// so a partially exported run never becomes visible.
func (r *accountsRepo) ExportRun(ctx context.Context, runID string, snapshots []accounts.Snapshot) error {
	err := pgutils.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, snap := range snapshots {
			_, err := tx.Exec(`
				INSERT INTO account_snapshots (run_id, client_id, available, held, total, locked)
				VALUES ($1, $2, $3, $4, $5, $6)
			`,
				runID,
				snap.ClientID,
				snap.Available.String(),
				snap.Held.String(),
				snap.Total.String(),
				snap.Locked,
			)
			if err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
					return accounts.ErrDuplicateRun
				}

				return fmt.Errorf("insert snapshot for client %d: %w", snap.ClientID, err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("export run %s: %w", runID, err)
	}

	return nil
}
