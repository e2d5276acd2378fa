package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/donaldgifford/meli-pricer/pkg/types"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Mercado Envíos por mi cuenta", want: "mercado envios por mi cuenta"},
		{in: "MERCADO ENVÍOS GRATIS", want: "mercado envios gratis"},
		{in: "  Mercado Envios Clásico  ", want: "mercado envios clasico"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestEligible(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator()

	tests := []struct {
		name string
		row  domain.ListingRow
		want bool
	}{
		{
			name: "self funded with diacritics",
			row:  domain.ListingRow{ShippingMethod: "Mercado Envíos por mi cuenta", HasShipping: true},
			want: true,
		},
		{
			name: "free shipping label",
			row:  domain.ListingRow{ShippingMethod: "Mercado Envíos gratis", HasShipping: true},
			want: true,
		},
		{
			name: "classic shipping not eligible",
			row:  domain.ListingRow{ShippingMethod: "Mercado Envíos Clásico", HasShipping: true},
			want: false,
		},
		{
			name: "no shipping column in source",
			row:  domain.ListingRow{ShippingMethod: "Mercado Envíos gratis", HasShipping: false},
			want: false,
		},
		{
			name: "empty label",
			row:  domain.ListingRow{HasShipping: true},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ev.Eligible(&tt.row))
		})
	}
}

func TestSurcharge(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator()
	eligible := domain.ListingRow{ShippingMethod: "Mercado Envíos por mi cuenta", HasShipping: true}
	ineligible := domain.ListingRow{ShippingMethod: "Mercado Envíos Clásico", HasShipping: true}
	noColumn := domain.ListingRow{ShippingMethod: "Mercado Envíos gratis", HasShipping: false}

	tests := []struct {
		name string
		row  domain.ListingRow
		mode domain.SurchargeMode
		val  float64
		base float64
		want float64
	}{
		{name: "fixed on eligible row", row: eligible, mode: domain.SurchargeFixed, val: 150, want: 150},
		{name: "fixed on ineligible row", row: ineligible, mode: domain.SurchargeFixed, val: 150, want: 0},
		{name: "fixed without shipping column", row: noColumn, mode: domain.SurchargeFixed, val: 150, want: 0},
		{name: "whole percent", row: eligible, mode: domain.SurchargePercentage, val: 10, base: 1000, want: 100},
		{name: "fraction percent", row: eligible, mode: domain.SurchargePercentage, val: 0.1, base: 1000, want: 100},
		{name: "percentage on ineligible row", row: ineligible, mode: domain.SurchargePercentage, val: 10, base: 1000, want: 0},
		{name: "mode none", row: eligible, mode: domain.SurchargeNone, val: 150, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ev.Surcharge(&tt.row, tt.mode, tt.val, tt.base)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNewEvaluator_CustomLabels(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator("Retiro en Sucursal")
	assert.True(t, ev.Eligible(&domain.ListingRow{
		ShippingMethod: "retiro en sucursal",
		HasShipping:    true,
	}))
	assert.False(t, ev.Eligible(&domain.ListingRow{
		ShippingMethod: "Mercado Envíos gratis",
		HasShipping:    true,
	}))
}
