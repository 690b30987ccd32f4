package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fastprodman/txledger/internal/ledger"
)

var ErrMalformedRecord = errors.New("malformed record")

// column indexes resolved from the header row
type columns struct {
	kind   int
	client int
	tx     int
	amount int // -1 when the file has no amount column
}

// Reader produces a lazy, forward-only sequence of parsed transaction
// events from CSV input:
//
//	type, client, tx, amount
//	deposit, 1, 1, 1.0
//	dispute, 1, 1,
//
// Column order is taken from the header; fields are whitespace-trimmed.
// Any malformed record stops iteration with an error that names the line.
type Reader struct {
	csv  *csv.Reader
	cols columns
}

// NewReader wraps r and consumes the header row.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // dispute rows often omit the trailing amount
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	return &Reader{csv: cr, cols: cols}, nil
}

func resolveColumns(header []string) (columns, error) {
	cols := columns{kind: -1, client: -1, tx: -1, amount: -1}

	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "type":
			cols.kind = i
		case "client":
			cols.client = i
		case "tx":
			cols.tx = i
		case "amount":
			cols.amount = i
		default:
			return cols, fmt.Errorf("%w: unknown column %q", ErrMalformedRecord, name)
		}
	}

	if cols.kind < 0 || cols.client < 0 || cols.tx < 0 {
		return cols, fmt.Errorf("%w: header must name type, client and tx columns", ErrMalformedRecord)
	}

	return cols, nil
}

// Next returns the next event, or io.EOF when the input is exhausted.
func (r *Reader) Next() (ledger.Event, error) {
	record, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ledger.Event{}, io.EOF
		}

		return ledger.Event{}, fmt.Errorf("read record: %w", err)
	}

	ev, err := r.parseRecord(record)
	if err != nil {
		line, _ := r.csv.FieldPos(0)

		return ledger.Event{}, fmt.Errorf("line %d: %w", line, err)
	}

	return ev, nil
}

func (r *Reader) parseRecord(record []string) (ledger.Event, error) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}

		return strings.TrimSpace(record[idx])
	}

	kind := ledger.EventKind(strings.ToLower(field(r.cols.kind)))
	if !kind.Valid() {
		return ledger.Event{}, fmt.Errorf("%w: unknown event type %q", ErrMalformedRecord, field(r.cols.kind))
	}

	client, err := strconv.ParseUint(field(r.cols.client), 10, 16)
	if err != nil {
		return ledger.Event{}, fmt.Errorf("%w: client %q: %v", ErrMalformedRecord, field(r.cols.client), err)
	}

	tx, err := strconv.ParseUint(field(r.cols.tx), 10, 32)
	if err != nil {
		return ledger.Event{}, fmt.Errorf("%w: tx %q: %v", ErrMalformedRecord, field(r.cols.tx), err)
	}

	ev := ledger.Event{
		Kind:     kind,
		TxID:     uint32(tx),
		ClientID: uint16(client),
	}

	rawAmount := field(r.cols.amount)
	if kind.RequiresAmount() {
		if rawAmount == "" {
			return ledger.Event{}, fmt.Errorf("%w: %s requires an amount", ErrMalformedRecord, kind)
		}

		amount, aerr := ledger.ParseAmount(rawAmount)
		if aerr != nil {
			return ledger.Event{}, fmt.Errorf("%w: %v", ErrMalformedRecord, aerr)
		}

		ev.Amount = amount
		ev.HasAmount = true
	}
	// an amount on a dispute/resolve/chargeback row is ignored: those events
	// always use the referenced transaction's amount

	return ev, nil
}
