package ledger

import (
	"errors"
	"fmt"
)

// ErrInvalidEvent marks events that violate the input collaborator's
// contract (unknown kind, deposit/withdrawal without an amount). Receiving
// one aborts the batch; it is never a per-transaction rejection.
var ErrInvalidEvent = errors.New("invalid event")

// DisputeState tracks where a recorded transaction sits in the dispute
// lifecycle.
type DisputeState int

const (
	DisputeNone DisputeState = iota
	Disputed
	Resolved
	ChargedBack
)

// Account is the per-client balance state. Total is derived, never stored.
type Account struct {
	Available Amount
	Held      Amount
	Locked    bool
}

// Total returns available plus held funds.
func (a Account) Total() Amount {
	return a.Available.Add(a.Held)
}

// historyEntry records one accepted deposit or withdrawal so later
// dispute/resolve/chargeback events can find their referent. Entries are
// never deleted; rejected transactions never produce one.
type historyEntry struct {
	clientID uint16
	amount   Amount
	kind     EventKind
	dispute  DisputeState
}

// Engine owns all mutable ledger state: one account per client and the
// global transaction history. It consumes events one at a time in arrival
// order with no look-ahead and no reprocessing. A single goroutine must own
// an Engine; there is exactly one writer until the stream is exhausted.
type Engine struct {
	accounts map[uint16]*Account
	history  map[uint32]*historyEntry
	// first-seen client order, for reproducible read-out
	clientOrder []uint16
}

func NewEngine() *Engine {
	return &Engine{
		accounts: make(map[uint16]*Account),
		history:  make(map[uint32]*historyEntry),
	}
}

// Apply validates one event against current state and either mutates the
// target account or drops the event, reporting which via the Outcome. The
// returned error is non-nil only for ErrInvalidEvent, which is fatal to the
// batch; every business-rule rejection is a (non-Applied, nil) result.
func (e *Engine) Apply(ev Event) (Outcome, error) {
	if !ev.Kind.Valid() {
		return Applied, fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, ev.Kind)
	}

	if ev.Kind.RequiresAmount() && !ev.HasAmount {
		return Applied, fmt.Errorf("%w: %s tx %d has no amount", ErrInvalidEvent, ev.Kind, ev.TxID)
	}

	switch ev.Kind {
	case KindDeposit:
		return e.deposit(ev), nil
	case KindWithdrawal:
		return e.withdrawal(ev), nil
	case KindDispute:
		return e.dispute(ev), nil
	case KindResolve:
		return e.resolve(ev), nil
	case KindChargeback:
		return e.chargeback(ev), nil
	default:
		return Applied, fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, ev.Kind)
	}
}

// FinalStates returns a copy of every account ever referenced, keyed by
// client id. Safe to call only after the event stream is exhausted.
func (e *Engine) FinalStates() map[uint16]Account {
	out := make(map[uint16]Account, len(e.accounts))
	for id, acc := range e.accounts {
		out[id] = *acc
	}

	return out
}

// Clients returns client ids in first-seen order.
func (e *Engine) Clients() []uint16 {
	out := make([]uint16, len(e.clientOrder))
	copy(out, e.clientOrder)

	return out
}

func (e *Engine) deposit(ev Event) Outcome {
	if ev.Amount.IsNegative() {
		return RejectedNegativeAmount
	}

	acc := e.account(ev.ClientID)
	if acc.Locked {
		return RejectedLocked
	}

	if _, exists := e.history[ev.TxID]; exists {
		return RejectedDuplicateTx
	}

	acc.Available = acc.Available.Add(ev.Amount)
	e.history[ev.TxID] = &historyEntry{
		clientID: ev.ClientID,
		amount:   ev.Amount,
		kind:     KindDeposit,
		dispute:  DisputeNone,
	}

	return Applied
}

func (e *Engine) withdrawal(ev Event) Outcome {
	if ev.Amount.IsNegative() {
		return RejectedNegativeAmount
	}

	acc := e.account(ev.ClientID)
	if acc.Locked {
		return RejectedLocked
	}

	if acc.Available.Cmp(ev.Amount) < 0 {
		return RejectedInsufficientFunds
	}

	if _, exists := e.history[ev.TxID]; exists {
		return RejectedDuplicateTx
	}

	acc.Available = acc.Available.Sub(ev.Amount)
	e.history[ev.TxID] = &historyEntry{
		clientID: ev.ClientID,
		amount:   ev.Amount,
		kind:     KindWithdrawal,
		dispute:  DisputeNone,
	}

	return Applied
}

func (e *Engine) dispute(ev Event) Outcome {
	entry, outcome := e.lookupRef(ev)
	if outcome.Rejected() {
		return outcome
	}

	if entry.kind == KindWithdrawal {
		return RejectedNotDisputable
	}

	if entry.dispute == Disputed {
		return RejectedWrongDisputeState
	}

	acc := e.account(ev.ClientID)
	if acc.Locked {
		return RejectedLocked
	}

	// Disputing may drive available negative when the funds were already
	// spent; that is real exposure, not an error.
	acc.Available = acc.Available.Sub(entry.amount)
	acc.Held = acc.Held.Add(entry.amount)
	entry.dispute = Disputed

	return Applied
}

func (e *Engine) resolve(ev Event) Outcome {
	entry, outcome := e.lookupRef(ev)
	if outcome.Rejected() {
		return outcome
	}

	acc := e.account(ev.ClientID)
	if acc.Locked {
		return RejectedLocked
	}

	if entry.dispute != Disputed {
		return RejectedWrongDisputeState
	}

	acc.Held = acc.Held.Sub(entry.amount)
	acc.Available = acc.Available.Add(entry.amount)
	entry.dispute = Resolved

	return Applied
}

func (e *Engine) chargeback(ev Event) Outcome {
	entry, outcome := e.lookupRef(ev)
	if outcome.Rejected() {
		return outcome
	}

	acc := e.account(ev.ClientID)
	if acc.Locked {
		return RejectedLocked
	}

	if entry.dispute != Disputed {
		return RejectedWrongDisputeState
	}

	acc.Held = acc.Held.Sub(entry.amount)
	entry.dispute = ChargedBack
	// Locking is permanent; no event type unlocks an account.
	acc.Locked = true

	return Applied
}

// lookupRef runs the validations shared by dispute, resolve and chargeback:
// the referenced transaction must exist and belong to the same client. The
// per-operation locked and dispute-state checks follow at the call sites.
func (e *Engine) lookupRef(ev Event) (*historyEntry, Outcome) {
	entry, ok := e.history[ev.TxID]
	if !ok {
		return nil, RejectedUnknownTx
	}

	if entry.clientID != ev.ClientID {
		return nil, RejectedClientMismatch
	}

	return entry, Applied
}

// account returns the client's account, creating an empty unlocked one on
// first reference. Accounts are never deleted.
func (e *Engine) account(clientID uint16) *Account {
	acc, ok := e.accounts[clientID]
	if !ok {
		acc = &Account{}
		e.accounts[clientID] = acc
		e.clientOrder = append(e.clientOrder, clientID)
	}

	return acc
}
