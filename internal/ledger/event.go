package ledger

// EventKind identifies one of the five transaction event variants.
type EventKind string

const (
	KindDeposit    EventKind = "deposit"
	KindWithdrawal EventKind = "withdrawal"
	KindDispute    EventKind = "dispute"
	KindResolve    EventKind = "resolve"
	KindChargeback EventKind = "chargeback"
)

// RequiresAmount reports whether events of this kind carry an amount.
// Dispute, resolve and chargeback reference an earlier transaction's
// amount instead of carrying their own.
func (k EventKind) RequiresAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Valid reports whether k is one of the five known kinds.
func (k EventKind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return true
	default:
		return false
	}
}

// Event is one parsed transaction event.
//
// TxID is unique among deposits and withdrawals only; dispute, resolve and
// chargeback events reuse the TxID of the transaction they refer to.
// HasAmount records whether the input carried an amount field at all, so the
// engine can tell a missing amount from an explicit zero.
type Event struct {
	Kind      EventKind
	TxID      uint32
	ClientID  uint16
	Amount    Amount
	HasAmount bool
}

// NewDeposit builds a deposit event.
func NewDeposit(txID uint32, clientID uint16, amount Amount) Event {
	return Event{Kind: KindDeposit, TxID: txID, ClientID: clientID, Amount: amount, HasAmount: true}
}

// NewWithdrawal builds a withdrawal event.
func NewWithdrawal(txID uint32, clientID uint16, amount Amount) Event {
	return Event{Kind: KindWithdrawal, TxID: txID, ClientID: clientID, Amount: amount, HasAmount: true}
}

// NewReference builds a dispute, resolve or chargeback event referring to
// an earlier transaction.
func NewReference(kind EventKind, txID uint32, clientID uint16) Event {
	return Event{Kind: kind, TxID: txID, ClientID: clientID}
}
