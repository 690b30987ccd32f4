package accounts

import (
	"context"
	"errors"

	"github.com/fastprodman/txledger/internal/ledger"
)

var ErrDuplicateRun = errors.New("duplicate run")

// Snapshot is one exported account row: the final state of a client after a
// processing run.
type Snapshot struct {
	ClientID  uint16
	Available ledger.Amount
	Held      ledger.Amount
	Total     ledger.Amount
	Locked    bool
}

// Accounts persists final account states. This is an output sink only; the
// engine never reads exported rows back.
type Accounts interface {
	// ExportRun writes every snapshot under the given run id in one
	// transaction. A reused run id yields ErrDuplicateRun.
	ExportRun(ctx context.Context, runID string, snapshots []Snapshot) error
}
