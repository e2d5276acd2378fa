package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/meli-pricer/internal/api/handlers"
)

func TestPriceHandler_Price(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       any
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name: "solves reference fee structure",
			body: map[string]any{
				"net_target":      12513.10,
				"commission_pct":  0.145,
				"financing_pct":   0.04,
				"withholding_pct": 0.01,
				"fixed_charge":    2190,
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var out struct {
					ListingPrice float64 `json:"listing_price"`
					NetProceeds  float64 `json:"net_proceeds"`
					Infeasible   bool    `json:"infeasible"`
				}
				require.NoError(t, json.Unmarshal(body, &out))
				assert.InDelta(t, 18264.72, out.ListingPrice, 0.01)
				assert.InDelta(t, 12513.10, out.NetProceeds, 0.001)
				assert.False(t, out.Infeasible)
			},
		},
		{
			name: "infeasible fees zero everything",
			body: map[string]any{
				"net_target":     1000,
				"commission_pct": 0.6,
				"financing_pct":  0.4,
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var out struct {
					ListingPrice float64 `json:"listing_price"`
					Infeasible   bool    `json:"infeasible"`
				}
				require.NoError(t, json.Unmarshal(body, &out))
				assert.Zero(t, out.ListingPrice)
				assert.True(t, out.Infeasible)
			},
		},
		{
			name: "commission above 1 rejected",
			body: map[string]any{
				"net_target":     1000,
				"commission_pct": 14.5,
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "negative net target rejected",
			body: map[string]any{
				"net_target":     -5,
				"commission_pct": 0.1,
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterPriceRoutes(api, handlers.NewPriceHandler())

			resp := api.Post("/api/v1/price", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code)
			if tt.check != nil {
				tt.check(t, resp.Body.Bytes())
			}
		})
	}
}
