// Package engine orchestrates a full pricing run: validation,
// normalization, catalog linking, surcharge evaluation, price solving
// and result composition, with a job-run audit record around the whole
// thing.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/donaldgifford/meli-pricer/internal/linker"
	"github.com/donaldgifford/meli-pricer/internal/metrics"
	"github.com/donaldgifford/meli-pricer/internal/report"
	"github.com/donaldgifford/meli-pricer/internal/sheet"
	"github.com/donaldgifford/meli-pricer/internal/shipping"
	"github.com/donaldgifford/meli-pricer/internal/store"
	"github.com/donaldgifford/meli-pricer/pkg/pricer"
	domain "github.com/donaldgifford/meli-pricer/pkg/types"
)

// JobPricingRun is the job name recorded for API and CLI pricing runs.
const JobPricingRun = "pricing_run"

// Engine runs the pricing pipeline with injected dependencies.
type Engine struct {
	store    store.Store
	shipping *shipping.Evaluator
	log      *slog.Logger
}

// NewEngine creates a new Engine.
func NewEngine(s store.Store, opts ...EngineOption) *Engine {
	eng := &Engine{
		store:    s,
		shipping: shipping.NewEvaluator(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithShippingEvaluator replaces the default surcharge eligibility set.
func WithShippingEvaluator(ev *shipping.Evaluator) EngineOption {
	return func(e *Engine) {
		e.shipping = ev
	}
}

// RunResult is the outcome of one pricing run.
type RunResult struct {
	Table report.Table
	Stats domain.RunStats
}

// Run executes the full pipeline over raw listing and catalog records.
// It fails only on schema errors (sheet.ErrMissingColumns); bad cell
// values degrade to zeros and per-row flags instead.
func (eng *Engine) Run(
	ctx context.Context,
	listings []domain.Record,
	catalog []domain.Record,
	opts domain.RunOptions,
) (*RunResult, error) {
	start := time.Now()
	defer func() {
		metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	opts = withDefaults(opts)

	runID, err := eng.store.InsertJobRun(ctx, JobPricingRun)
	if err != nil {
		// Audit bookkeeping must not block pricing.
		eng.log.Warn("recording job run failed", "error", err)
		runID = ""
	}

	result, err := eng.run(listings, catalog, opts)
	if err != nil {
		metrics.RunErrorsTotal.Inc()
		eng.completeRun(ctx, runID, store.StatusFailed, err.Error(), 0)
		return nil, err
	}

	eng.completeRun(ctx, runID, store.StatusCompleted, "", result.Stats.ResultRows)

	eng.log.Info("pricing run completed",
		"listing_rows", result.Stats.ListingRows,
		"catalog_rows", result.Stats.CatalogRows,
		"result_rows", result.Stats.ResultRows,
		"matched_rows", result.Stats.MatchedRows,
		"infeasible_rows", result.Stats.InfeasibleRows,
		"duration", time.Since(start),
	)
	return result, nil
}

func (eng *Engine) run(
	listings []domain.Record,
	catalog []domain.Record,
	opts domain.RunOptions,
) (*RunResult, error) {
	if err := sheet.Validate(sheet.Columns(listings), domain.SourceListing); err != nil {
		return nil, fmt.Errorf("listing source: %w", err)
	}
	if err := sheet.Validate(sheet.Columns(catalog), domain.SourceCatalog); err != nil {
		return nil, fmt.Errorf("catalog source: %w", err)
	}

	hasShipping := sheet.HasShippingColumn(listings)
	sheet.CanonicalizeShipping(listings)

	listingRows := sheet.ToListingRows(sheet.CleanListings(listings), hasShipping)
	catalogRows := sheet.ToCatalogRows(sheet.CleanCatalog(catalog))

	joined := linker.Join(listingRows, catalogRows)

	results := make([]domain.PricingResult, 0, len(joined))
	matched, infeasible := 0, 0
	for i := range joined {
		res := eng.priceRow(&joined[i], opts)
		if res.Row.Matched() {
			matched++
		} else {
			metrics.RunUnmatchedRowsTotal.Inc()
		}
		if res.Infeasible {
			infeasible++
			metrics.RunInfeasibleRowsTotal.Inc()
		}
		results = append(results, res)
	}
	metrics.RunRowsTotal.Add(float64(len(results)))

	stats := domain.RunStats{
		ListingRows:    len(listingRows),
		CatalogRows:    len(catalogRows),
		ResultRows:     len(results),
		MatchedRows:    matched,
		InfeasibleRows: infeasible,
	}
	if stats.ResultRows > 0 {
		stats.MatchRate = 100 * float64(matched) / float64(stats.ResultRows)
	}

	return &RunResult{
		Table: report.Compose(results, opts),
		Stats: stats,
	}, nil
}

// priceRow solves one joined row. The net target is the tariff price,
// tax-inflated when the include-taxes option is active, plus any
// shipping surcharge.
func (eng *Engine) priceRow(row *domain.JoinedRow, opts domain.RunOptions) domain.PricingResult {
	l := &row.Listing

	var tariff, taxPct float64
	if row.Catalog != nil {
		tariff = row.Catalog.TariffPrice
		taxPct = row.Catalog.TaxPct
	}
	tariffWithTax := tariff * (1 + taxPct)

	base := tariff
	if opts.IncludeTaxesInTariff {
		base = tariffWithTax
	}

	surcharge := eng.shipping.Surcharge(l, opts.SurchargeMode, opts.SurchargeValue, base)

	sol := pricer.Solve(pricer.Input{
		NetTarget:      base + surcharge,
		CommissionPct:  l.FeePct,
		FinancingPct:   l.FinancingPct,
		WithholdingPct: opts.WithholdingPct,
		FixedCharge:    l.FeeFixed,
	})

	res := domain.PricingResult{
		Row:               *row,
		TariffPrice:       tariff,
		TariffWithTax:     tariffWithTax,
		ShippingSurcharge: surcharge,
		ListingPrice:      sol.ListingPrice,
		CommissionCharge:  sol.CommissionCharge,
		CommissionPctAmt:  sol.ListingPrice * l.FeePct,
		FixedCharge:       l.FeeFixed,
		FinancingCharge:   sol.FinancingCharge,
		WithholdingCharge: sol.WithholdingCharge,
		NetProceeds:       sol.NetProceeds,
		Infeasible:        sol.Infeasible,
	}
	if sol.Infeasible {
		res.FixedCharge = 0
		linker.AppendNote(&res.Row, domain.NoteInfeasibleFees)
	}
	return res
}

func (eng *Engine) completeRun(ctx context.Context, runID, status, errText string, rows int) {
	if runID == "" {
		return
	}
	if err := eng.store.CompleteJobRun(ctx, runID, status, errText, rows); err != nil {
		eng.log.Warn("completing job run failed", "run_id", runID, "error", err)
	}
}

// withDefaults fills unset option fields the way an empty request
// resolves them.
func withDefaults(opts domain.RunOptions) domain.RunOptions {
	if opts.FinancingBase == "" {
		opts.FinancingBase = domain.FinancingBaseTariff
	}
	if opts.SurchargeMode == "" {
		opts.SurchargeMode = domain.SurchargeNone
	}
	// Explicit 0 is a real value (publish no stock); only nil is unset.
	if opts.StockPercentage == nil {
		opts.StockPercentage = domain.Float(100)
	}
	return opts
}
