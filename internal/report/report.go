// Package report assembles the final per-row result records: tax
// back-calculation, display rounding, stock scaling, and the fixed output
// column ordering.
package report

import (
	"math"

	domain "github.com/donaldgifford/meli-pricer/pkg/types"
)

// Output column labels, in their fixed order. The vocabulary is the
// source system's; the exported workbook headers must match exactly.
const (
	ColItemID          = "Numero de publicación"
	ColSKU             = "SKU"
	ColDescription     = "Descripción del producto"
	ColStock           = "Stock"
	ColStockScaled     = "% Stock"
	ColTariff          = "Precio de Tarifa"
	ColTariffWithTax   = "Tarifa + impuestos"
	ColFinalPrice      = "Precio final"
	ColIVA             = "IVA"
	ColCommissionPct   = "Recargo % ML (importe)"
	ColCommissionFixed = "Recargo fijo ML ($)"
	ColSellingCharge   = "Cargo por vender ($)"
	ColFinancing       = "Recargo financiación (importe)"
	ColWithholding     = "Retenciones ML ($)"
	ColNetProceeds     = "Recibis ($)"
	ColSurcharge       = "Recargo envío ($)"
	ColCommissionPctAp = "% ML aplicado"
	ColFinancingPctAp  = "% financiación aplicado"
	ColListingType     = "Tipo de publicación"
	ColCurrentPrice    = "Precio actual en ML"
	ColCurrency        = "Moneda"
	ColNotes           = "Notas/Flags"
)

// Row is one display-ready result record. Currency fields are rounded to
// 2 decimals; the Pct fields are whole percentages (fee_pct * 100).
type Row struct {
	ItemID              string  `json:"item_id"`
	SKU                 string  `json:"sku"`
	Description         string  `json:"description"`
	Stock               int     `json:"stock"`
	StockScaled         int     `json:"stock_scaled"`
	TariffPrice         float64 `json:"tariff_price"`
	TariffWithTax       float64 `json:"tariff_with_tax"`
	FinalPrice          float64 `json:"final_price"`
	IVA                 float64 `json:"iva"`
	CommissionPctAmount float64 `json:"commission_pct_amount"`
	CommissionFixed     float64 `json:"commission_fixed"`
	SellingCharge       float64 `json:"selling_charge"`
	FinancingCharge     float64 `json:"financing_charge"`
	WithholdingCharge   float64 `json:"withholding_charge"`
	NetProceeds         float64 `json:"net_proceeds"`
	ShippingSurcharge   float64 `json:"shipping_surcharge"`
	CommissionPct       float64 `json:"commission_pct"`
	FinancingPct        float64 `json:"financing_pct"`
	ListingType         string  `json:"listing_type"`
	CurrentPrice        float64 `json:"current_price"`
	Currency            string  `json:"currency"`
	Notes               string  `json:"notes"`
}

// Table is the assembled result set: ordered column labels plus one Row
// per processed listing.
type Table struct {
	ColumnLabels []string `json:"columns"`
	Rows         []Row    `json:"rows"`
}

// Columns returns the output column labels in order. The tax-inclusive
// tariff column appears only when taxes were folded into the tariff, and
// the surcharge column only when a surcharge mode was active for the run.
func Columns(opts domain.RunOptions) []string {
	cols := []string{
		ColItemID,
		ColSKU,
		ColDescription,
		ColStock,
		ColStockScaled,
		ColTariff,
	}
	if opts.IncludeTaxesInTariff {
		cols = append(cols, ColTariffWithTax)
	}
	cols = append(cols,
		ColFinalPrice,
		ColIVA,
		ColCommissionPct,
		ColCommissionFixed,
		ColSellingCharge,
		ColFinancing,
		ColWithholding,
		ColNetProceeds,
	)
	if opts.SurchargeMode != domain.SurchargeNone && opts.SurchargeMode != "" {
		cols = append(cols, ColSurcharge)
	}
	cols = append(cols,
		ColCommissionPctAp,
		ColFinancingPctAp,
		ColListingType,
		ColCurrentPrice,
		ColCurrency,
		ColNotes,
	)
	return cols
}

// Compose builds the final table from solved pricing results.
func Compose(results []domain.PricingResult, opts domain.RunOptions) Table {
	rows := make([]Row, 0, len(results))
	for i := range results {
		rows = append(rows, composeRow(&results[i], opts))
	}
	return Table{ColumnLabels: Columns(opts), Rows: rows}
}

func composeRow(res *domain.PricingResult, opts domain.RunOptions) Row {
	l := &res.Row.Listing

	var stock float64
	description := l.Title
	if res.Row.Catalog != nil {
		stock = res.Row.Catalog.StockOnHand
		// Blank catalog names fall back to the marketplace title.
		if res.Row.Catalog.Name != "" {
			description = res.Row.Catalog.Name
		}
	}

	// Tax is extracted as a component already embedded in the solved
	// price, not added on top.
	var taxPct float64
	if res.Row.Catalog != nil {
		taxPct = res.Row.Catalog.TaxPct
	}
	var iva float64
	if taxPct > 0 {
		iva = res.ListingPrice * taxPct / (1 + taxPct)
	}

	stockPct := 100.0
	if opts.StockPercentage != nil {
		stockPct = *opts.StockPercentage
	}

	return Row{
		ItemID:              l.ItemID,
		SKU:                 l.SKU,
		Description:         description,
		Stock:               int(stock),
		StockScaled:         scaleStock(stock, stockPct),
		TariffPrice:         round2(res.TariffPrice),
		TariffWithTax:       round2(res.TariffWithTax),
		FinalPrice:          round2(res.ListingPrice),
		IVA:                 round2(iva),
		CommissionPctAmount: round2(res.CommissionPctAmt),
		CommissionFixed:     round2(res.FixedCharge),
		SellingCharge:       round2(res.CommissionCharge),
		FinancingCharge:     round2(res.FinancingCharge),
		WithholdingCharge:   round2(res.WithholdingCharge),
		NetProceeds:         round2(res.NetProceeds),
		ShippingSurcharge:   round2(res.ShippingSurcharge),
		CommissionPct:       round2(l.FeePct * 100),
		FinancingPct:        round2(l.FinancingPct * 100),
		ListingType:         l.ListingType,
		CurrentPrice:        round2(l.Price),
		Currency:            l.Currency,
		Notes:               res.Row.Notes,
	}
}

// Cells renders the table as ordered cell values aligned with
// ColumnLabels, for writers that emit positional rows (CSV, worksheets).
func (t *Table) Cells() [][]any {
	out := make([][]any, 0, len(t.Rows))
	for i := range t.Rows {
		out = append(out, t.rowCells(&t.Rows[i]))
	}
	return out
}

func (t *Table) rowCells(r *Row) []any {
	cells := make([]any, 0, len(t.ColumnLabels))
	for _, col := range t.ColumnLabels {
		cells = append(cells, cellValue(r, col))
	}
	return cells
}

func cellValue(r *Row, col string) any {
	switch col {
	case ColItemID:
		return r.ItemID
	case ColSKU:
		return r.SKU
	case ColDescription:
		return r.Description
	case ColStock:
		return r.Stock
	case ColStockScaled:
		return r.StockScaled
	case ColTariff:
		return r.TariffPrice
	case ColTariffWithTax:
		return r.TariffWithTax
	case ColFinalPrice:
		return r.FinalPrice
	case ColIVA:
		return r.IVA
	case ColCommissionPct:
		return r.CommissionPctAmount
	case ColCommissionFixed:
		return r.CommissionFixed
	case ColSellingCharge:
		return r.SellingCharge
	case ColFinancing:
		return r.FinancingCharge
	case ColWithholding:
		return r.WithholdingCharge
	case ColNetProceeds:
		return r.NetProceeds
	case ColSurcharge:
		return r.ShippingSurcharge
	case ColCommissionPctAp:
		return r.CommissionPct
	case ColFinancingPctAp:
		return r.FinancingPct
	case ColListingType:
		return r.ListingType
	case ColCurrentPrice:
		return r.CurrentPrice
	case ColCurrency:
		return r.Currency
	case ColNotes:
		return r.Notes
	default:
		return ""
	}
}

// scaleStock applies the caller-supplied stock percentage:
// round(stock * pct/100), halves rounding away from zero.
func scaleStock(stock, pct float64) int {
	return int(math.Round(stock * pct / 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
