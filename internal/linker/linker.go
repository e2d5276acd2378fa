// Package linker joins MercadoLibre listing rows to Odoo catalog rows by
// product code and records per-row validation flags.
package linker

import (
	domain "github.com/donaldgifford/meli-pricer/pkg/types"
)

// Join left-joins listings to the catalog on SKU. The listing side is
// preserved entirely; unmatched rows carry a nil catalog. Output order
// follows the listing input order, so identical inputs always produce
// identical output.
//
// Flags are appended to Notes in a fixed check order, never overwritten:
//
//  1. no catalog match
//  2. tariff price missing or exactly zero
//  3. stock quantity missing
//
// Zero stock is a legitimate value; only a blank cell counts as missing,
// a distinction normalization preserves in CatalogRow.StockMissing.
func Join(listings []domain.ListingRow, catalog []domain.CatalogRow) []domain.JoinedRow {
	// First occurrence wins on duplicate product codes, matching how the
	// catalog export is ordered (current revision first).
	byCode := make(map[string]*domain.CatalogRow, len(catalog))
	for i := range catalog {
		code := catalog[i].ProductCode
		if _, ok := byCode[code]; !ok {
			byCode[code] = &catalog[i]
		}
	}

	joined := make([]domain.JoinedRow, 0, len(listings))
	for _, l := range listings {
		row := domain.JoinedRow{Listing: l}

		match, ok := byCode[l.SKU]
		if ok {
			c := *match
			row.Catalog = &c
		} else {
			appendNote(&row, domain.NoteSKUNotFound)
		}

		if row.Catalog == nil || row.Catalog.TariffPrice == 0 {
			appendNote(&row, domain.NoteTariffMissing)
		}
		if row.Catalog != nil && row.Catalog.StockMissing {
			appendNote(&row, domain.NoteStockMissing)
		}

		joined = append(joined, row)
	}
	return joined
}

// AppendNote adds a validation flag to the row's notes, joining with the
// fixed separator. Flags accumulate; nothing ever clears them.
func AppendNote(row *domain.JoinedRow, note string) {
	appendNote(row, note)
}

func appendNote(row *domain.JoinedRow, note string) {
	if row.Notes == "" {
		row.Notes = note
		return
	}
	row.Notes = row.Notes + domain.NotesSeparator + note
}
