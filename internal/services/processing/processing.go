// Package processing wraps the ledger engine for concurrent callers.
//
// The engine itself is single-writer with no internal locking; this service
// serializes access so the HTTP mode can share one engine across request
// goroutines, and drives the optional postgres export of final states.
package processing

import (
	"context"
	"fmt"
	"sync"

	"github.com/fastprodman/txledger/internal/ledger"
	"github.com/fastprodman/txledger/internal/repos/accounts"
)

type Service struct {
	mu       sync.Mutex
	engine   *ledger.Engine
	accounts accounts.Accounts // nil when no export target is configured
}

func New(repo accounts.Accounts) *Service {
	return &Service{
		engine:   ledger.NewEngine(),
		accounts: repo,
	}
}

// ProcessEvent applies one event and reports its outcome. The error is
// non-nil only for contract violations (ledger.ErrInvalidEvent).
func (s *Service) ProcessEvent(ev ledger.Event) (ledger.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.engine.Apply(ev)
	if err != nil {
		return outcome, fmt.Errorf("apply: %w", err)
	}

	return outcome, nil
}

// Snapshots returns final account states in first-seen client order.
func (s *Service) Snapshots() []accounts.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshotsLocked(s.engine)
}

// Account returns one client's state. The second return is false when the
// client was never referenced by any event.
func (s *Service) Account(clientID uint16) (ledger.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.engine.FinalStates()[clientID]

	return acc, ok
}

// Export writes the current snapshots to the accounts repo under runID.
func (s *Service) Export(ctx context.Context, runID string) error {
	if s.accounts == nil {
		return nil
	}

	snapshots := s.Snapshots()

	err := s.accounts.ExportRun(ctx, runID, snapshots)
	if err != nil {
		return fmt.Errorf("export snapshots: %w", err)
	}

	return nil
}

// ExportEngine writes eng's final states to repo under runID. Used by the
// batch CLI, which owns its engine directly and never contends on it.
func ExportEngine(ctx context.Context, repo accounts.Accounts, eng *ledger.Engine, runID string) error {
	err := repo.ExportRun(ctx, runID, snapshotsLocked(eng))
	if err != nil {
		return fmt.Errorf("export snapshots: %w", err)
	}

	return nil
}

func snapshotsLocked(eng *ledger.Engine) []accounts.Snapshot {
	states := eng.FinalStates()
	clients := eng.Clients()

	out := make([]accounts.Snapshot, 0, len(clients))
	for _, clientID := range clients {
		acc := states[clientID]
		out = append(out, accounts.Snapshot{
			ClientID:  clientID,
			Available: acc.Available,
			Held:      acc.Held,
			Total:     acc.Total(),
			Locked:    acc.Locked,
		})
	}

	return out
}
