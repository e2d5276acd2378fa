// Package domain defines the core business types for the MercadoLibre
// listing price calculator.
package domain

import "time"

// SourceKind identifies which spreadsheet export a record set came from.
type SourceKind string

// Source kind constants.
const (
	SourceListing SourceKind = "listing" // MercadoLibre price-change export
	SourceCatalog SourceKind = "catalog" // Odoo product.template export
)

// Record is one raw tabular row keyed by column name. Cell values are the
// untyped text the surrounding application read out of the worksheet; all
// numeric interpretation happens in pkg/parse.
type Record map[string]string

// MercadoLibre export column names. These are contractual strings: matching
// is exact and case sensitive, including the trailing space on
// ColShippingMethod (the export really ships the header that way).
const (
	ColItemID         = "ITEM_ID"
	ColSKU            = "SKU"
	ColTitle          = "TITLE"
	ColQuantity       = "QUANTITY"
	ColPrice          = "PRICE"
	ColCurrency       = "CURRENCY_ID"
	ColFeeCombo       = "FEE_PER_SALE_MARKETPLACE_V2"
	ColFinancingCost  = "COST_OF_FINANCING_MARKETPLACE"
	ColListingType    = "LISTING_TYPE_V3"
	ColShippingMethod = "SHIPPING_METHOD "

	// ColShippingMethodAlias is the one documented header variant: some
	// exports drop the trailing space. It is renamed to the canonical form
	// during validation.
	ColShippingMethodAlias = "SHIPPING_METHOD"
)

// Odoo export column names.
const (
	ColProductCode = "Código Neored"
	ColProductName = "Nombre"
	ColStockOnHand = "Cantidad a mano"
	ColTariffPrice = "Precio Tarifa"
	ColCustomerTax = "Impuestos del cliente"
)

// ItemIDPrefix is the marketplace's two-letter listing identifier prefix.
// Rows whose ITEM_ID does not start with it are export noise (subtotals,
// repeated header rows) and are dropped during cleaning.
const ItemIDPrefix = "ML"

// ListingRow is a cleaned MercadoLibre export row with its derived numeric
// fields. Derived fields are non-negative; unparsable source text yields 0,
// never an error (see pkg/parse).
type ListingRow struct {
	ItemID         string
	SKU            string
	Title          string
	ListingType    string
	Currency       string
	ShippingMethod string
	HasShipping    bool // false when the export lacks the shipping column entirely

	Price        float64
	Quantity     float64
	FeePct       float64 // marketplace commission, decimal fraction
	FeeFixed     float64 // fixed per-sale charge, currency units
	FinancingPct float64 // installment financing cost, decimal fraction
}

// CatalogRow is a cleaned Odoo export row with its derived numeric fields.
type CatalogRow struct {
	ProductCode string
	Name        string
	StockOnHand float64
	// StockMissing marks a blank stock cell. Zero stock is a legitimate
	// value, so the distinction can't be recovered from StockOnHand.
	StockMissing bool
	TariffPrice  float64
	TaxLabel     string
	TaxPct       float64 // extracted from TaxLabel, decimal fraction
}

// JoinedRow pairs one listing row with at most one catalog match. Notes is
// an ordered, "; "-joined list of validation flags, built additively and
// never cleared once set; it is the empty string iff no flag triggered.
type JoinedRow struct {
	Listing ListingRow
	Catalog *CatalogRow // nil when no catalog row matched the SKU
	Notes   string
}

// Matched reports whether the listing found a catalog row.
func (j *JoinedRow) Matched() bool {
	return j.Catalog != nil
}

// Validation flag literals, in their fixed check order. The vocabulary is
// the source system's; downstream consumers match on these exact strings.
const (
	NoteSKUNotFound    = "SKU no encontrado en Odoo"
	NoteTariffMissing  = "Precio Tarifa faltante"
	NoteStockMissing   = "Stock faltante"
	NoteInfeasibleFees = "Porcentajes ML sin solución (denominador <= 0)"
)

// NotesSeparator joins accumulated validation flags.
const NotesSeparator = "; "

// FinancingBase selects the declared base for the financing cost.
type FinancingBase string

// Financing base constants. Financing is computed on the listing price in
// both modes; the option is accepted and carried but does not change the
// calculation. See DESIGN.md.
const (
	FinancingBaseTariff       FinancingBase = "tarifa"
	FinancingBaseTariffPlusML FinancingBase = "tarifa_mas_ml"
)

// SurchargeMode selects how the shipping surcharge is applied.
type SurchargeMode string

// Surcharge mode constants.
const (
	SurchargeNone       SurchargeMode = "none"
	SurchargeFixed      SurchargeMode = "fixed"
	SurchargePercentage SurchargeMode = "percentage"
)

// RunOptions is the caller-selected configuration for one pricing run.
//
// StockPercentage is a pointer because 0 is a valid in-range value
// (publish no stock); only a nil field means "unset" and resolves to 100.
type RunOptions struct {
	FinancingBase        FinancingBase `json:"base_for_financing,omitempty"`
	IncludeTaxesInTariff bool          `json:"include_taxes_in_tariff,omitempty"`
	SurchargeMode        SurchargeMode `json:"shipping_surcharge_mode,omitempty"`
	SurchargeValue       float64       `json:"shipping_surcharge_value,omitempty"`
	StockPercentage      *float64      `json:"stock_percentage,omitempty"` // 0-100, nil resolves to 100
	WithholdingPct       float64       `json:"withholding_pct,omitempty"`  // decimal fraction, applied per run
}

// Float returns a pointer to v, for the optional numeric option fields.
func Float(v float64) *float64 {
	return &v
}

// DefaultRunOptions returns the options an empty request resolves to.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		FinancingBase:   FinancingBaseTariff,
		SurchargeMode:   SurchargeNone,
		StockPercentage: Float(100),
	}
}

// PricingResult is the per-row output of the pricing pipeline, before
// display rounding. When Infeasible is true every solved field, and the
// fixed charge, is 0; the tariff and surcharge inputs keep their values.
type PricingResult struct {
	Row JoinedRow

	TariffPrice       float64 // catalog tariff, 0 when unmatched
	TariffWithTax     float64 // tariff inflated by the customer tax rate
	ShippingSurcharge float64

	ListingPrice      float64 // solved publication price
	CommissionCharge  float64 // price*FeePct + FeeFixed
	CommissionPctAmt  float64 // price*FeePct alone
	FixedCharge       float64 // FeeFixed, zeroed on infeasible rows
	FinancingCharge   float64
	WithholdingCharge float64
	NetProceeds       float64
	TaxAmount         float64 // IVA embedded in the solved price

	Infeasible bool
}

// RunStats summarizes one pricing run.
type RunStats struct {
	ListingRows    int     `json:"listing_rows"`
	CatalogRows    int     `json:"catalog_rows"`
	ResultRows     int     `json:"result_rows"`
	MatchedRows    int     `json:"matched_rows"`
	MatchRate      float64 `json:"match_rate_pct"`
	InfeasibleRows int     `json:"infeasible_rows"`
}

// JobRun records a single execution of a pricing run or scheduled job.
type JobRun struct {
	ID           string     `json:"id"                      db:"id"`
	JobName      string     `json:"job_name"                db:"job_name"`
	StartedAt    time.Time  `json:"started_at"              db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"  db:"completed_at"`
	Status       string     `json:"status"                  db:"status"`
	ErrorText    string     `json:"error_text,omitempty"    db:"error_text"`
	RowsAffected int        `json:"rows_affected"           db:"rows_affected"`
}
