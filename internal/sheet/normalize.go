package sheet

import (
	"strings"

	"github.com/donaldgifford/meli-pricer/pkg/parse"
	domain "github.com/donaldgifford/meli-pricer/pkg/types"
)

// CleanListings drops MercadoLibre export rows that are not real listings:
// the item ID must be non-empty and carry the marketplace prefix, and the
// SKU must be non-empty. Exports routinely contain repeated header rows
// and subtotal rows; cleaning only narrows the set, it never fails.
func CleanListings(records []domain.Record) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		itemID := strings.TrimSpace(r[domain.ColItemID])
		sku := strings.TrimSpace(r[domain.ColSKU])
		if !strings.HasPrefix(itemID, domain.ItemIDPrefix) || sku == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// CleanCatalog drops Odoo export rows without a product code.
func CleanCatalog(records []domain.Record) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r[domain.ColProductCode]) == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ToListingRows converts cleaned listing records into typed rows,
// normalizing the fee combo, financing cost, price and quantity fields.
// hasShipping records whether the source schema carried the shipping
// column at all; rows from schema-less exports stay surcharge-ineligible.
func ToListingRows(records []domain.Record, hasShipping bool) []domain.ListingRow {
	rows := make([]domain.ListingRow, 0, len(records))
	for _, r := range records {
		feePct, feeFixed := parse.FeeCombo(r[domain.ColFeeCombo])
		rows = append(rows, domain.ListingRow{
			ItemID:         strings.TrimSpace(r[domain.ColItemID]),
			SKU:            strings.TrimSpace(r[domain.ColSKU]),
			Title:          r[domain.ColTitle],
			ListingType:    r[domain.ColListingType],
			Currency:       r[domain.ColCurrency],
			ShippingMethod: r[domain.ColShippingMethod],
			HasShipping:    hasShipping,
			Price:          parse.Money(r[domain.ColPrice]),
			Quantity:       parse.Money(r[domain.ColQuantity]),
			FeePct:         feePct,
			FeeFixed:       feeFixed,
			FinancingPct:   parse.Pct(r[domain.ColFinancingCost]),
		})
	}
	return rows
}

// ToCatalogRows converts cleaned catalog records into typed rows,
// normalizing the tariff price, stock quantity and customer tax label.
func ToCatalogRows(records []domain.Record) []domain.CatalogRow {
	rows := make([]domain.CatalogRow, 0, len(records))
	for _, r := range records {
		taxLabel := r[domain.ColCustomerTax]
		stockText := r[domain.ColStockOnHand]
		rows = append(rows, domain.CatalogRow{
			ProductCode:  strings.TrimSpace(r[domain.ColProductCode]),
			Name:         r[domain.ColProductName],
			StockOnHand:  parse.Money(stockText),
			StockMissing: strings.TrimSpace(stockText) == "",
			TariffPrice:  parse.Money(r[domain.ColTariffPrice]),
			TaxLabel:     taxLabel,
			TaxPct:       parse.TaxPct(taxLabel),
		})
	}
	return rows
}
