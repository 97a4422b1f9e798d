// Package testutil provides common utility functions for testing.
package testutil

import (
	"encoding/json"
	"fmt"
)

// EntryFigures are the figures of one reporting period. Nil fields are
// omitted from the generated JSON.
type EntryFigures struct {
	Nature                     string
	NetRevenue                 *float64
	ProfitBeforeInterestAndTax *float64
	Depreciation               *float64
	Interest                   *float64
	LongTermBorrowings         *float64
	ShortTermBorrowings        *float64
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// HealthyEntry is a STANDALONE period that yields three GREEN flags:
// revenue 60,000,000, borrowing ratio 0.025 and ISCR ~3.5.
func HealthyEntry() EntryFigures {
	return EntryFigures{
		Nature:                     "STANDALONE",
		NetRevenue:                 Float(60_000_000),
		ProfitBeforeInterestAndTax: Float(3_000_000),
		Depreciation:               Float(500_000),
		Interest:                   Float(1_000_000),
		LongTermBorrowings:         Float(1_000_000),
		ShortTermBorrowings:        Float(500_000),
	}
}

// Entry converts the figures into the nested pnl/bs structure.
func (f EntryFigures) Entry() map[string]interface{} {
	entry := map[string]interface{}{}
	if f.Nature != "" {
		entry["nature"] = f.Nature
	}

	lineItems := map[string]interface{}{}
	setIfPresent(lineItems, "net_revenue", f.NetRevenue)
	setIfPresent(lineItems, "profit_before_interest_and_tax", f.ProfitBeforeInterestAndTax)
	setIfPresent(lineItems, "depreciation", f.Depreciation)
	setIfPresent(lineItems, "interest", f.Interest)
	entry["pnl"] = map[string]interface{}{"lineItems": lineItems}

	liabilities := map[string]interface{}{}
	setIfPresent(liabilities, "long_term_borrowings", f.LongTermBorrowings)
	setIfPresent(liabilities, "short_term_borrowings", f.ShortTermBorrowings)
	entry["bs"] = map[string]interface{}{"liabilities": liabilities}

	return entry
}

// Payload wraps entries in the {"data": {"financials": [...]}} envelope.
// Entries may be EntryFigures or raw values (maps, nil) for malformed cases.
func Payload(entries ...interface{}) map[string]interface{} {
	financials := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		if figures, ok := entry.(EntryFigures); ok {
			financials = append(financials, figures.Entry())
			continue
		}
		financials = append(financials, entry)
	}
	return map[string]interface{}{
		"data": map[string]interface{}{"financials": financials},
	}
}

// PayloadJSON is Payload encoded as JSON.
func PayloadJSON(entries ...interface{}) []byte {
	return MustJSON(Payload(entries...))
}

// MustJSON marshals v or panics.
func MustJSON(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: failed to marshal JSON: %v", err))
	}
	return data
}

func setIfPresent(m map[string]interface{}, key string, value *float64) {
	if value != nil {
		m[key] = *value
	}
}
