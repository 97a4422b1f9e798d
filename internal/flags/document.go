package flags

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

var (
	// ErrMalformedDocument is returned when the input does not have the
	// expected shape.
	ErrMalformedDocument = errors.New("malformed financial document")

	// ErrNoReportingPeriods is returned when the document has no financial
	// entries to evaluate.
	ErrNoReportingPeriods = errors.New("financial document has no reporting periods")
)

// Nature tags how an entry was reported.
type Nature string

const (
	Standalone   Nature = "STANDALONE"
	Consolidated Nature = "CONSOLIDATED"
)

// Payload is the upload envelope: the document sits under "data".
type Payload struct {
	Data *Document `json:"data"`
}

// Document holds the reporting periods of one company, latest first.
type Document struct {
	Financials []*Entry `json:"financials"`
}

// Entry is one reporting period.
type Entry struct {
	Nature Nature         `json:"nature"`
	PnL    *ProfitAndLoss `json:"pnl"`
	BS     *BalanceSheet  `json:"bs"`
}

// ProfitAndLoss is the profit and loss statement of an entry.
type ProfitAndLoss struct {
	LineItems *PnLLineItems `json:"lineItems"`
}

// PnLLineItems holds the profit and loss figures used by the evaluator.
type PnLLineItems struct {
	NetRevenue                 decimal.NullDecimal `json:"net_revenue"`
	ProfitBeforeInterestAndTax decimal.NullDecimal `json:"profit_before_interest_and_tax"`
	Depreciation               decimal.NullDecimal `json:"depreciation"`
	Interest                   decimal.NullDecimal `json:"interest"`
}

// BalanceSheet is the balance sheet of an entry.
type BalanceSheet struct {
	Liabilities *Liabilities `json:"liabilities"`
}

// Liabilities holds the borrowing figures used by the evaluator.
type Liabilities struct {
	LongTermBorrowings  decimal.NullDecimal `json:"long_term_borrowings"`
	ShortTermBorrowings decimal.NullDecimal `json:"short_term_borrowings"`
}

// Entry returns the entry at index, or nil when the index is out of range.
func (d *Document) Entry(index int) *Entry {
	if d == nil || index < 0 || index >= len(d.Financials) {
		return nil
	}
	return d.Financials[index]
}

// DecodePayload reads a {"data": {...}} envelope and returns the wrapped document.
func DecodePayload(r io.Reader) (*Document, error) {
	var payload Payload
	if err := decodeStrictJSON(r, &payload); err != nil {
		return nil, err
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("%w: missing \"data\" object", ErrMalformedDocument)
	}
	return payload.Data, nil
}

// DecodeDocument reads a bare {"financials": [...]} document.
func DecodeDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := decodeStrictJSON(r, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func decodeStrictJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrMalformedDocument)
	}
	return nil
}
