// Package sheet validates and normalizes the two tabular record sets the
// pricing run consumes: the MercadoLibre price-change export and the Odoo
// product catalog export. It never touches files; the surrounding
// application hands it already-parsed rows.
package sheet

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	domain "github.com/donaldgifford/meli-pricer/pkg/types"
)

// ErrMissingColumns is the sentinel for the one fatal error class: a
// required column absent from a source record set. The run aborts before
// any row processing when it is returned.
var ErrMissingColumns = errors.New("missing required columns")

// listingColumns are the required MercadoLibre export headers.
// ColShippingMethod carries its trailing space on purpose.
var listingColumns = []string{
	domain.ColItemID,
	domain.ColSKU,
	domain.ColTitle,
	domain.ColQuantity,
	domain.ColPrice,
	domain.ColCurrency,
	domain.ColFeeCombo,
	domain.ColFinancingCost,
	domain.ColListingType,
	domain.ColShippingMethod,
}

// catalogColumns are the required Odoo export headers.
var catalogColumns = []string{
	domain.ColProductCode,
	domain.ColProductName,
	domain.ColStockOnHand,
	domain.ColTariffPrice,
	domain.ColCustomerTax,
}

// Validate checks that every required column for the given source kind is
// present in columns. Matching is exact and case sensitive, with one
// documented exception: a listing export may name the shipping column
// without the trailing space; Validate reports it present and the caller
// renames it via CanonicalizeShipping.
//
// The returned error wraps ErrMissingColumns and names every missing
// column.
func Validate(columns []string, kind domain.SourceKind) error {
	var required []string
	switch kind {
	case domain.SourceListing:
		required = listingColumns
	case domain.SourceCatalog:
		required = catalogColumns
	default:
		return fmt.Errorf("unknown source kind %q", kind)
	}

	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[c] = struct{}{}
	}

	var missing []string
	for _, c := range required {
		if _, ok := have[c]; ok {
			continue
		}
		if kind == domain.SourceListing && c == domain.ColShippingMethod {
			if _, ok := have[domain.ColShippingMethodAlias]; ok {
				continue
			}
		}
		missing = append(missing, c)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w in %s source: %s",
			ErrMissingColumns, kind, strings.Join(missing, ", "))
	}
	return nil
}

// CanonicalizeShipping renames the trailing-space-less shipping header to
// the canonical form on every record that carries it. Records already
// using the canonical header are left alone.
func CanonicalizeShipping(records []domain.Record) {
	for _, r := range records {
		if _, ok := r[domain.ColShippingMethod]; ok {
			continue
		}
		if v, ok := r[domain.ColShippingMethodAlias]; ok {
			r[domain.ColShippingMethod] = v
			delete(r, domain.ColShippingMethodAlias)
		}
	}
}

// Columns returns the sorted union of column names across a record set.
// Worksheet readers hand every row the same header set, but the union
// keeps validation deterministic for hand-built inputs too.
func Columns(records []domain.Record) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, r := range records {
		for c := range r {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			cols = append(cols, c)
		}
	}
	slices.Sort(cols)
	return cols
}

// HasShippingColumn reports whether any record in the set exposes a
// shipping-method header (canonical or alias). Older exports lack the
// column entirely; those rows never receive a shipping surcharge.
func HasShippingColumn(records []domain.Record) bool {
	for _, r := range records {
		if _, ok := r[domain.ColShippingMethod]; ok {
			return true
		}
		if _, ok := r[domain.ColShippingMethodAlias]; ok {
			return true
		}
	}
	return false
}
