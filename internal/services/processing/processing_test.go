package processing

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/txledger/internal/ledger"
	"github.com/fastprodman/txledger/internal/repos/accounts"
)

type fakeAccountsRepo struct {
	mu   sync.Mutex
	runs map[string][]accounts.Snapshot
}

func newFakeAccountsRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{runs: make(map[string][]accounts.Snapshot)}
}

func (f *fakeAccountsRepo) ExportRun(_ context.Context, runID string, snapshots []accounts.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.runs[runID]; ok {
		return accounts.ErrDuplicateRun
	}

	f.runs[runID] = snapshots

	return nil
}

func mustAmount(t *testing.T, s string) ledger.Amount {
	t.Helper()

	a, err := ledger.ParseAmount(s)
	require.NoError(t, err)

	return a
}

func TestService_ProcessEvent(t *testing.T) {
	t.Parallel()

	svc := New(nil)

	outcome, err := svc.ProcessEvent(ledger.NewDeposit(1, 1, mustAmount(t, "3.0")))
	require.NoError(t, err)
	assert.Equal(t, ledger.Applied, outcome)

	outcome, err = svc.ProcessEvent(ledger.NewWithdrawal(2, 1, mustAmount(t, "5.0")))
	require.NoError(t, err)
	assert.Equal(t, ledger.RejectedInsufficientFunds, outcome)

	acc, ok := svc.Account(1)
	require.True(t, ok)
	assert.Equal(t, "3.0000", acc.Available.StringFixed4())

	_, ok = svc.Account(99)
	assert.False(t, ok)
}

func TestService_ProcessEvent_InvalidEventPropagates(t *testing.T) {
	t.Parallel()

	svc := New(nil)

	_, err := svc.ProcessEvent(ledger.Event{Kind: ledger.EventKind("transfer"), TxID: 1, ClientID: 1})
	require.ErrorIs(t, err, ledger.ErrInvalidEvent)
}

func TestService_ConcurrentCallersSerialized(t *testing.T) {
	t.Parallel()

	svc := New(nil)

	const workers = 8
	const depositsEach = 50

	one := mustAmount(t, "1.0")

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < depositsEach; i++ {
				txID := uint32(w*depositsEach + i + 1)
				_, err := svc.ProcessEvent(ledger.NewDeposit(txID, 1, one))
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	acc, ok := svc.Account(1)
	require.True(t, ok)
	assert.Equal(t, "400.0000", acc.Available.StringFixed4())
}

func TestService_Export(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountsRepo()
	svc := New(repo)

	_, err := svc.ProcessEvent(ledger.NewDeposit(1, 1, mustAmount(t, "1.0")))
	require.NoError(t, err)
	_, err = svc.ProcessEvent(ledger.NewDeposit(2, 2, mustAmount(t, "2.0")))
	require.NoError(t, err)

	require.NoError(t, svc.Export(context.Background(), "run-1"))

	got := repo.runs["run-1"]
	require.Len(t, got, 2)
	assert.Equal(t, uint16(1), got[0].ClientID)
	assert.Equal(t, "1.0000", got[0].Total.StringFixed4())
	assert.Equal(t, uint16(2), got[1].ClientID)

	// reusing the run id is refused by the repo
	err = svc.Export(context.Background(), "run-1")
	require.ErrorIs(t, err, accounts.ErrDuplicateRun)
}

func TestService_ExportWithoutRepoIsNoop(t *testing.T) {
	t.Parallel()

	svc := New(nil)
	require.NoError(t, svc.Export(context.Background(), "run-1"))
}
