package csvio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fastprodman/txledger/internal/ledger"
)

// Stats counts per-outcome results of one batch.
type Stats struct {
	Applied  int
	Rejected map[ledger.Outcome]int
}

// TotalRejected sums every rejection bucket.
func (s Stats) TotalRejected() int {
	n := 0
	for _, c := range s.Rejected {
		n += c
	}

	return n
}

// Process folds the event stream from r through eng in a single pass.
// Business-rule rejections are counted and logged at debug level but never
// stop the batch; a malformed record or an invalid event aborts it.
func Process(r io.Reader, eng *ledger.Engine) (Stats, error) {
	stats := Stats{Rejected: make(map[ledger.Outcome]int)}

	reader, err := NewReader(r)
	if err != nil {
		return stats, fmt.Errorf("open input: %w", err)
	}

	for {
		ev, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return stats, nil
			}

			return stats, fmt.Errorf("read event: %w", err)
		}

		outcome, err := eng.Apply(ev)
		if err != nil {
			return stats, fmt.Errorf("apply event: %w", err)
		}

		if outcome.Rejected() {
			stats.Rejected[outcome]++
			slog.Debug("event rejected",
				"outcome", outcome.String(),
				"kind", string(ev.Kind),
				"tx", ev.TxID,
				"client", ev.ClientID,
			)

			continue
		}

		stats.Applied++
	}
}
