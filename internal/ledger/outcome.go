package ledger

// Outcome is the result of applying a single event. Exactly one outcome is
// produced per Apply call; anything other than Applied means the event was
// dropped without touching account state. Rejections are normal operating
// results, not errors — the batch always continues past them.
type Outcome int

const (
	// Applied: the event mutated account state.
	Applied Outcome = iota
	// RejectedNegativeAmount: deposit or withdrawal with amount < 0.
	RejectedNegativeAmount
	// RejectedLocked: the target account is locked by an earlier chargeback.
	RejectedLocked
	// RejectedDuplicateTx: the tx id was already used by an accepted
	// deposit or withdrawal.
	RejectedDuplicateTx
	// RejectedInsufficientFunds: withdrawal larger than available funds.
	RejectedInsufficientFunds
	// RejectedUnknownTx: dispute/resolve/chargeback names a tx id with no
	// history entry.
	RejectedUnknownTx
	// RejectedClientMismatch: the referenced transaction belongs to a
	// different client.
	RejectedClientMismatch
	// RejectedNotDisputable: the referenced transaction is a withdrawal,
	// which has no hold semantics.
	RejectedNotDisputable
	// RejectedWrongDisputeState: dispute of an already-disputed tx, or
	// resolve/chargeback of a tx that is not currently disputed.
	RejectedWrongDisputeState
)

var outcomeNames = map[Outcome]string{
	Applied:                   "applied",
	RejectedNegativeAmount:    "rejected_negative_amount",
	RejectedLocked:            "rejected_account_locked",
	RejectedDuplicateTx:       "rejected_duplicate_tx",
	RejectedInsufficientFunds: "rejected_insufficient_funds",
	RejectedUnknownTx:         "rejected_unknown_tx",
	RejectedClientMismatch:    "rejected_client_mismatch",
	RejectedNotDisputable:     "rejected_not_disputable",
	RejectedWrongDisputeState: "rejected_wrong_dispute_state",
}

func (o Outcome) String() string {
	name, ok := outcomeNames[o]
	if !ok {
		return "unknown_outcome"
	}

	return name
}

// Rejected reports whether the event was dropped.
func (o Outcome) Rejected() bool {
	return o != Applied
}
