// Package flags evaluates a company's financial statements into traffic-light
// risk flags.
package flags

import "fmt"

// Flag is a traffic-light classification. The integer codes are part of the
// wire format.
type Flag int

const (
	Red        Flag = 0
	Green      Flag = 1
	Amber      Flag = 2
	MediumRisk Flag = 3 // display only
	White      Flag = 4 // data is missing for this field
)

var flagNames = map[Flag]string{
	Red:        "RED",
	Green:      "GREEN",
	Amber:      "AMBER",
	MediumRisk: "MEDIUM_RISK",
	White:      "WHITE",
}

// String returns the upper-case flag name, e.g. "GREEN".
func (f Flag) String() string {
	if name, ok := flagNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Flag(%d)", int(f))
}

// ParseFlag maps a flag name back to its Flag.
func ParseFlag(name string) (Flag, error) {
	for flag, flagName := range flagNames {
		if flagName == name {
			return flag, nil
		}
	}
	return Red, fmt.Errorf("unknown flag %q", name)
}

// Result is the output of an evaluation.
type Result struct {
	Flags FlagSet `json:"flags"`
}

// FlagSet holds one Flag per evaluated metric.
type FlagSet struct {
	TotalRevenue5Cr    Flag `json:"TOTAL_REVENUE_5CR_FLAG"`
	BorrowingToRevenue Flag `json:"BORROWING_TO_REVENUE_FLAG"`
	ISCR               Flag `json:"ISCR_FLAG"`
}

// Named flag keys in output order.
const (
	TotalRevenue5CrKey    = "TOTAL_REVENUE_5CR_FLAG"
	BorrowingToRevenueKey = "BORROWING_TO_REVENUE_FLAG"
	ISCRKey               = "ISCR_FLAG"
)

// NamedFlag pairs a flag key with its value.
type NamedFlag struct {
	Key  string
	Flag Flag
}

// Ordered returns the flags in output order.
func (s FlagSet) Ordered() []NamedFlag {
	return []NamedFlag{
		{Key: TotalRevenue5CrKey, Flag: s.TotalRevenue5Cr},
		{Key: BorrowingToRevenueKey, Flag: s.BorrowingToRevenue},
		{Key: ISCRKey, Flag: s.ISCR},
	}
}
