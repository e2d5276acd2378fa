package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/time/rate"

	"github.com/donaldgifford/meli-pricer/internal/engine"
	"github.com/donaldgifford/meli-pricer/internal/metrics"
	"github.com/donaldgifford/meli-pricer/internal/report"
	"github.com/donaldgifford/meli-pricer/internal/sheet"
	domain "github.com/donaldgifford/meli-pricer/pkg/types"
)

// Runner defines the interface for executing a pricing run.
type Runner interface {
	Run(ctx context.Context, listings, catalog []domain.Record, opts domain.RunOptions) (*engine.RunResult, error)
}

// RunsHandler handles full pricing run requests. Runs are throttled with
// a token bucket; a full spreadsheet pass is expensive enough that bursts
// of repeated submissions would starve everything else.
type RunsHandler struct {
	runner   Runner
	defaults domain.RunOptions
	limiter  *rate.Limiter
}

// NewRunsHandler creates a new RunsHandler. defaults are the configured
// run options a request without options resolves to. runsPerMinute and
// burst bound how often runs may be triggered; non-positive values
// disable throttling.
func NewRunsHandler(r Runner, defaults domain.RunOptions, runsPerMinute float64, burst int) *RunsHandler {
	var limiter *rate.Limiter
	if runsPerMinute > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(runsPerMinute/60.0), burst)
	}
	return &RunsHandler{runner: r, defaults: defaults, limiter: limiter}
}

// RunInput is the request body for the runs endpoint. Both record sets
// are raw rows keyed by the exports' column names; cell values stay
// untyped text.
type RunInput struct {
	Body struct {
		Listings []domain.Record   `json:"listings" minItems:"1" doc:"MercadoLibre price-change export rows"`
		Catalog  []domain.Record   `json:"catalog" minItems:"1" doc:"Odoo product catalog export rows"`
		Options  domain.RunOptions `json:"options,omitempty" doc:"Run options; empty fields resolve to defaults"`
	}
}

// RunOutput is the response body for the runs endpoint.
type RunOutput struct {
	Body struct {
		Columns []string        `json:"columns" doc:"Output column labels in order"`
		Rows    []report.Row    `json:"rows"`
		Stats   domain.RunStats `json:"stats"`
	}
}

// Run executes a full pricing run over the submitted record sets.
func (h *RunsHandler) Run(ctx context.Context, input *RunInput) (*RunOutput, error) {
	if h.limiter != nil && !h.limiter.Allow() {
		metrics.RunThrottledTotal.Inc()
		return nil, huma.Error429TooManyRequests("pricing run limit reached, retry later")
	}

	opts := input.Body.Options
	if opts == (domain.RunOptions{}) {
		opts = h.defaults
	}

	result, err := h.runner.Run(ctx, input.Body.Listings, input.Body.Catalog, opts)
	if err != nil {
		if errors.Is(err, sheet.ErrMissingColumns) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, huma.Error500InternalServerError("pricing run failed: " + err.Error())
	}

	resp := &RunOutput{}
	resp.Body.Columns = result.Table.ColumnLabels
	resp.Body.Rows = result.Table.Rows
	resp.Body.Stats = result.Stats
	if resp.Body.Rows == nil {
		resp.Body.Rows = []report.Row{}
	}
	return resp, nil
}

// RegisterRunRoutes registers pricing run endpoints with the Huma API.
func RegisterRunRoutes(api huma.API, h *RunsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "run-pricing",
		Method:      http.MethodPost,
		Path:        "/api/v1/runs",
		Summary:     "Run the pricing pipeline",
		Description: "Validates, links and prices the submitted MercadoLibre and Odoo " +
			"exports, returning the display-ready result table.",
		Tags: []string{"pricing"},
		Errors: []int{
			http.StatusUnprocessableEntity,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
		},
	}, h.Run)
}
