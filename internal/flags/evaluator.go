package flags

import (
	"fmt"

	"github.com/iwvelando/finance-flags/pkg/constants"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var one = decimal.NewFromInt(1)

// Thresholds are the classification boundaries. All comparisons are inclusive.
type Thresholds struct {
	MinRevenue        decimal.Decimal
	MaxBorrowingRatio decimal.Decimal
	MinISCR           decimal.Decimal
}

// NewThresholds builds Thresholds from configuration values.
func NewThresholds(minRevenue, maxBorrowingRatio, minISCR float64) Thresholds {
	return Thresholds{
		MinRevenue:        decimal.NewFromFloat(minRevenue),
		MaxBorrowingRatio: decimal.NewFromFloat(maxBorrowingRatio),
		MinISCR:           decimal.NewFromFloat(minISCR),
	}
}

// DefaultThresholds returns 50,000,000 revenue, 0.25 borrowing ratio and 2 ISCR.
func DefaultThresholds() Thresholds {
	return NewThresholds(constants.MinRevenue, constants.MaxBorrowingRatio, constants.MinISCR)
}

// Options configure an Evaluator.
type Options struct {
	Thresholds Thresholds

	// MissingData is constants.MissingDataSentinel (default) or
	// constants.MissingDataFlag.
	MissingData string
}

// DefaultOptions returns the default thresholds with the sentinel policy.
func DefaultOptions() Options {
	return Options{
		Thresholds:  DefaultThresholds(),
		MissingData: constants.MissingDataSentinel,
	}
}

// Evaluator computes ratios and flags for a Document. It holds no mutable
// state and is safe for concurrent use.
type Evaluator struct {
	logger      *zap.Logger
	thresholds  Thresholds
	flagMissing bool
}

// NewEvaluator constructs an Evaluator. A nil logger disables diagnostics.
func NewEvaluator(logger *zap.Logger, opts Options) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		logger:      logger,
		thresholds:  opts.Thresholds,
		flagMissing: opts.MissingData == constants.MissingDataFlag,
	}
}

// Thresholds returns the classification boundaries in use.
func (e *Evaluator) Thresholds() Thresholds {
	return e.thresholds
}

// Report is a Result together with the figures it was derived from.
type Report struct {
	Result
	ReportingPeriod int     `json:"reportingPeriod"`
	Nature          Nature  `json:"nature,omitempty"`
	Metrics         Metrics `json:"metrics"`
}

// Evaluate runs the default evaluator against doc.
func Evaluate(doc *Document) (Result, error) {
	return NewEvaluator(nil, DefaultOptions()).Evaluate(doc)
}

// SelectReportingPeriod returns the index of the first STANDALONE entry, or 0
// when there is none. An empty document also yields 0; callers must check
// for that before indexing.
func SelectReportingPeriod(doc *Document) int {
	if doc == nil {
		return constants.DefaultReportingPeriod
	}
	for index, entry := range doc.Financials {
		if entry != nil && entry.Nature == Standalone {
			return index
		}
	}
	return constants.DefaultReportingPeriod
}

// Evaluate selects the reporting period and classifies its three metrics.
func (e *Evaluator) Evaluate(doc *Document) (Result, error) {
	report, err := e.Assess(doc)
	if err != nil {
		return Result{}, err
	}
	return report.Result, nil
}

// Assess is Evaluate but also returns the selected period and the metrics.
func (e *Evaluator) Assess(doc *Document) (Report, error) {
	if doc == nil {
		return Report{}, fmt.Errorf("%w: no document", ErrMalformedDocument)
	}
	if len(doc.Financials) == 0 {
		return Report{}, ErrNoReportingPeriods
	}

	index := SelectReportingPeriod(doc)
	metrics := Metrics{
		TotalRevenue:   e.TotalRevenue(doc, index),
		BorrowingRatio: e.TotalBorrowingRatio(doc, index),
		ISCR:           e.InterestServiceCoverageRatio(doc, index),
	}

	report := Report{
		Result: Result{Flags: FlagSet{
			TotalRevenue5Cr:    e.classifyRevenue(metrics.TotalRevenue),
			BorrowingToRevenue: e.classifyBorrowingRatio(metrics.BorrowingRatio),
			ISCR:               e.classifyISCR(metrics.ISCR),
		}},
		ReportingPeriod: index,
		Metrics:         metrics,
	}
	if entry := doc.Entry(index); entry != nil {
		report.Nature = entry.Nature
	}

	e.logger.Debug("financial flags evaluated",
		zap.String("op", "flags.Assess"),
		zap.Int("reportingPeriod", index),
		zap.Stringer(TotalRevenue5CrKey, report.Flags.TotalRevenue5Cr),
		zap.Stringer(BorrowingToRevenueKey, report.Flags.BorrowingToRevenue),
		zap.Stringer(ISCRKey, report.Flags.ISCR),
	)
	return report, nil
}

// TotalRevenue returns financials[index].pnl.lineItems.net_revenue.
func (e *Evaluator) TotalRevenue(doc *Document, index int) Metric {
	const op = "flags.TotalRevenue"

	items, missingPath := e.lineItems(doc, index)
	if items == nil {
		return e.missing(op, index, missingPath)
	}
	if !items.NetRevenue.Valid {
		return e.missing(op, index, "pnl.lineItems.net_revenue")
	}
	return Present(items.NetRevenue.Decimal)
}

// TotalBorrowingRatio returns (long_term_borrowings + short_term_borrowings)
// divided by TotalRevenue. Under the sentinel policy a missing revenue
// divides by the sentinel.
func (e *Evaluator) TotalBorrowingRatio(doc *Document, index int) Metric {
	const op = "flags.TotalBorrowingRatio"

	entry := doc.Entry(index)
	if entry == nil {
		return e.missing(op, index, "")
	}
	if entry.BS == nil {
		return e.missing(op, index, "bs")
	}
	liabilities := entry.BS.Liabilities
	if liabilities == nil {
		return e.missing(op, index, "bs.liabilities")
	}
	if !liabilities.LongTermBorrowings.Valid {
		return e.missing(op, index, "bs.liabilities.long_term_borrowings")
	}
	if !liabilities.ShortTermBorrowings.Valid {
		return e.missing(op, index, "bs.liabilities.short_term_borrowings")
	}
	borrowings := liabilities.LongTermBorrowings.Decimal.Add(liabilities.ShortTermBorrowings.Decimal)

	revenue := e.TotalRevenue(doc, index)
	if revenue.IsMissing() && e.flagMissing {
		return e.missing(op, index, "pnl.lineItems.net_revenue")
	}
	denominator := revenue.Decimal()
	if denominator.IsZero() {
		return e.missing(op, index, "pnl.lineItems.net_revenue (zero)")
	}
	return Present(borrowings.Div(denominator))
}

// InterestServiceCoverageRatio returns
// (profit_before_interest_and_tax + depreciation + 1) / (interest + 1).
func (e *Evaluator) InterestServiceCoverageRatio(doc *Document, index int) Metric {
	const op = "flags.InterestServiceCoverageRatio"

	items, missingPath := e.lineItems(doc, index)
	if items == nil {
		return e.missing(op, index, missingPath)
	}
	if !items.ProfitBeforeInterestAndTax.Valid {
		return e.missing(op, index, "pnl.lineItems.profit_before_interest_and_tax")
	}
	if !items.Depreciation.Valid {
		return e.missing(op, index, "pnl.lineItems.depreciation")
	}
	if !items.Interest.Valid {
		return e.missing(op, index, "pnl.lineItems.interest")
	}

	numerator := items.ProfitBeforeInterestAndTax.Decimal.Add(items.Depreciation.Decimal).Add(one)
	denominator := items.Interest.Decimal.Add(one)
	if denominator.IsZero() {
		return e.missing(op, index, "pnl.lineItems.interest (-1)")
	}
	return Present(numerator.Div(denominator))
}

// ClassifyRevenue is GREEN when TotalRevenue reaches MinRevenue, RED otherwise.
func (e *Evaluator) ClassifyRevenue(doc *Document, index int) Flag {
	return e.classifyRevenue(e.TotalRevenue(doc, index))
}

// ClassifyBorrowingRatio is GREEN when TotalBorrowingRatio is at most
// MaxBorrowingRatio, AMBER otherwise.
func (e *Evaluator) ClassifyBorrowingRatio(doc *Document, index int) Flag {
	return e.classifyBorrowingRatio(e.TotalBorrowingRatio(doc, index))
}

// ClassifyISCR is GREEN when InterestServiceCoverageRatio reaches MinISCR,
// RED otherwise.
func (e *Evaluator) ClassifyISCR(doc *Document, index int) Flag {
	return e.classifyISCR(e.InterestServiceCoverageRatio(doc, index))
}

func (e *Evaluator) classifyRevenue(m Metric) Flag {
	return e.classify(m, m.Decimal().GreaterThanOrEqual(e.thresholds.MinRevenue), Green, Red)
}

func (e *Evaluator) classifyBorrowingRatio(m Metric) Flag {
	return e.classify(m, m.Decimal().LessThanOrEqual(e.thresholds.MaxBorrowingRatio), Green, Amber)
}

func (e *Evaluator) classifyISCR(m Metric) Flag {
	return e.classify(m, m.Decimal().GreaterThanOrEqual(e.thresholds.MinISCR), Green, Red)
}

func (e *Evaluator) classify(m Metric, pass bool, passFlag, failFlag Flag) Flag {
	if m.IsMissing() && e.flagMissing {
		return White
	}
	if pass {
		return passFlag
	}
	return failFlag
}

// lineItems walks to financials[index].pnl.lineItems. On a miss it returns
// nil and the path of the missing step.
func (e *Evaluator) lineItems(doc *Document, index int) (*PnLLineItems, string) {
	entry := doc.Entry(index)
	if entry == nil {
		return nil, ""
	}
	if entry.PnL == nil {
		return nil, "pnl"
	}
	if entry.PnL.LineItems == nil {
		return nil, "pnl.lineItems"
	}
	return entry.PnL.LineItems, ""
}

func (e *Evaluator) missing(op string, index int, path string) Metric {
	field := fmt.Sprintf("financials[%d]", index)
	if path != "" {
		field += "." + path
	}
	e.logger.Debug("financial field missing",
		zap.String("op", op),
		zap.String("field", field),
	)
	return Missing()
}
