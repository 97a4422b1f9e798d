package flags

import (
	"encoding/json"

	"github.com/iwvelando/finance-flags/pkg/constants"
	"github.com/shopspring/decimal"
)

var sentinel = decimal.NewFromInt(constants.MissingValueSentinel)

// Metric is a computed figure that may be missing because its inputs were
// absent from the document.
type Metric struct {
	value   decimal.Decimal
	present bool
}

// Present wraps a computed value.
func Present(value decimal.Decimal) Metric {
	return Metric{value: value, present: true}
}

// Missing marks a metric whose inputs were absent.
func Missing() Metric {
	return Metric{}
}

// IsMissing reports whether the metric could not be computed.
func (m Metric) IsMissing() bool {
	return !m.present
}

// Decimal returns the value, or the missing-value sentinel (4) when missing.
func (m Metric) Decimal() decimal.Decimal {
	if !m.present {
		return sentinel
	}
	return m.value
}

// Float64 returns Decimal as a float64.
func (m Metric) Float64() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

type metricJSON struct {
	Value   float64 `json:"value"`
	Missing bool    `json:"missing,omitempty"`
}

// MarshalJSON emits {"value": n, "missing": true}; a missing metric carries
// the sentinel value.
func (m Metric) MarshalJSON() ([]byte, error) {
	return json.Marshal(metricJSON{Value: m.Float64(), Missing: m.IsMissing()})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (m *Metric) UnmarshalJSON(data []byte) error {
	var raw metricJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Missing {
		*m = Missing()
		return nil
	}
	*m = Present(decimal.NewFromFloat(raw.Value))
	return nil
}

// Metrics are the three figures behind the flags.
type Metrics struct {
	TotalRevenue   Metric `json:"totalRevenue"`
	BorrowingRatio Metric `json:"borrowingToRevenueRatio"`
	ISCR           Metric `json:"interestServiceCoverageRatio"`
}
