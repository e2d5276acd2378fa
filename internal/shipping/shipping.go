// Package shipping decides the per-row shipping surcharge. Eligibility is
// driven by the listing's shipping-method label, compared
// diacritic- and case-insensitively against the set of self-funded
// shipping labels the marketplace uses.
package shipping

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	domain "github.com/donaldgifford/meli-pricer/pkg/types"
)

// DefaultEligibleLabels are the two self-funded-shipping labels, already
// in normalized form. Listings under these labels bear their own shipping
// cost, so a surcharge may be folded into the target price.
var DefaultEligibleLabels = []string{
	"mercado envios gratis",
	"mercado envios por mi cuenta",
}

// Evaluator decides surcharge eligibility against an immutable label set.
// The zero value is not usable; construct with NewEvaluator.
type Evaluator struct {
	eligible map[string]struct{}
}

// NewEvaluator builds an Evaluator from eligibility labels. Labels are
// normalized on the way in, so callers may pass display forms. Passing no
// labels selects DefaultEligibleLabels.
func NewEvaluator(labels ...string) *Evaluator {
	if len(labels) == 0 {
		labels = DefaultEligibleLabels
	}
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[Normalize(l)] = struct{}{}
	}
	return &Evaluator{eligible: set}
}

// stripMarks removes combining marks after NFKD decomposition, turning
// "Envíos" into "Envios".
var stripMarks = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
)

// Normalize lowers, trims, and removes diacritics from a shipping label.
func Normalize(label string) string {
	stripped, _, err := transform.String(stripMarks, label)
	if err != nil {
		stripped = label
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}

// Eligible reports whether a listing row qualifies for a surcharge. Rows
// from exports without a shipping column never qualify.
func (e *Evaluator) Eligible(row *domain.ListingRow) bool {
	if !row.HasShipping {
		return false
	}
	_, ok := e.eligible[Normalize(row.ShippingMethod)]
	return ok
}

// Surcharge computes the row's shipping surcharge in currency units.
// Ineligible rows get exactly 0 regardless of mode. For eligible rows:
//
//   - SurchargeFixed applies the literal value.
//   - SurchargePercentage applies value/100 * netTariffBase when the value
//     exceeds 1 (a whole percent), value * netTariffBase otherwise.
//   - SurchargeNone always yields 0.
//
// netTariffBase is the tariff price, already tax-inflated when the
// include-taxes option is active.
func (e *Evaluator) Surcharge(
	row *domain.ListingRow,
	mode domain.SurchargeMode,
	value float64,
	netTariffBase float64,
) float64 {
	if !e.Eligible(row) {
		return 0
	}

	switch mode {
	case domain.SurchargeFixed:
		return value
	case domain.SurchargePercentage:
		pct := value
		if pct > 1 {
			pct /= 100
		}
		return pct * netTariffBase
	default:
		return 0
	}
}
