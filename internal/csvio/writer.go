package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fastprodman/txledger/internal/ledger"
)

// WriteAccounts renders final account states as CSV:
//
//	client,available,held,total,locked
//	1,1.5000,0.0000,1.5000,false
//
// All three amounts carry exactly four fractional digits; total is derived
// from available plus held. Rows follow first-seen client order so repeated
// runs over the same batch produce identical output.
func WriteAccounts(w io.Writer, eng *ledger.Engine) error {
	cw := csv.NewWriter(w)

	err := cw.Write([]string{"client", "available", "held", "total", "locked"})
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	states := eng.FinalStates()
	for _, clientID := range eng.Clients() {
		acc := states[clientID]

		err = cw.Write([]string{
			strconv.FormatUint(uint64(clientID), 10),
			acc.Available.StringFixed4(),
			acc.Held.StringFixed4(),
			acc.Total().StringFixed4(),
			strconv.FormatBool(acc.Locked),
		})
		if err != nil {
			return fmt.Errorf("write client %d: %w", clientID, err)
		}
	}

	cw.Flush()

	err = cw.Error()
	if err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	return nil
}
