package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/meli-pricer/pkg/pricer"
)

// PriceHandler handles single-row price solving requests.
type PriceHandler struct{}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler() *PriceHandler {
	return &PriceHandler{}
}

// PriceInput is the request body for the price endpoint. Percentages are
// decimal fractions of the listing price.
type PriceInput struct {
	Body struct {
		NetTarget      float64 `json:"net_target" minimum:"0" doc:"Amount the seller must receive" example:"12513.10"`
		CommissionPct  float64 `json:"commission_pct" minimum:"0" maximum:"1" doc:"Marketplace commission" example:"0.145"`
		FinancingPct   float64 `json:"financing_pct,omitempty" minimum:"0" maximum:"1" doc:"Installment financing cost" example:"0.04"`
		WithholdingPct float64 `json:"withholding_pct,omitempty" minimum:"0" maximum:"1" doc:"Tax withholding" example:"0.01"`
		FixedCharge    float64 `json:"fixed_charge,omitempty" minimum:"0" doc:"Fixed per-sale charge" example:"2190"`
	}
}

// PriceOutput is the response body for the price endpoint.
type PriceOutput struct {
	Body struct {
		ListingPrice      float64 `json:"listing_price" doc:"Solved publication price"`
		CommissionCharge  float64 `json:"commission_charge" doc:"Percentage commission plus fixed charge"`
		FinancingCharge   float64 `json:"financing_charge"`
		WithholdingCharge float64 `json:"withholding_charge"`
		NetProceeds       float64 `json:"net_proceeds"`
		Infeasible        bool    `json:"infeasible" doc:"True when the percentage fees consume the whole price"`
	}
}

// Price solves the listing price for one fee structure.
func (*PriceHandler) Price(_ context.Context, input *PriceInput) (*PriceOutput, error) {
	sol := pricer.Solve(pricer.Input{
		NetTarget:      input.Body.NetTarget,
		CommissionPct:  input.Body.CommissionPct,
		FinancingPct:   input.Body.FinancingPct,
		WithholdingPct: input.Body.WithholdingPct,
		FixedCharge:    input.Body.FixedCharge,
	})

	resp := &PriceOutput{}
	resp.Body.ListingPrice = sol.ListingPrice
	resp.Body.CommissionCharge = sol.CommissionCharge
	resp.Body.FinancingCharge = sol.FinancingCharge
	resp.Body.WithholdingCharge = sol.WithholdingCharge
	resp.Body.NetProceeds = sol.NetProceeds
	resp.Body.Infeasible = sol.Infeasible
	return resp, nil
}

// RegisterPriceRoutes registers price-solving endpoints with the Huma API.
func RegisterPriceRoutes(api huma.API, h *PriceHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "solve-price",
		Method:      http.MethodPost,
		Path:        "/api/v1/price",
		Summary:     "Solve a listing price",
		Description: "Finds the publication price that leaves the requested net amount " +
			"after percentage fees and the fixed per-sale charge are deducted.",
		Tags:   []string{"pricing"},
		Errors: []int{http.StatusUnprocessableEntity},
	}, h.Price)
}
