// Package parse converts the heterogeneous textual encodings found in
// marketplace and catalog exports (money, percentages, combined fee
// expressions, tax labels) into canonical numeric form.
//
// Every function in this package is total: no input, however malformed,
// produces an error. Unparsable text degrades to 0, and downstream
// pricing treats the resulting zeros as legitimate values.
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	moneyStripRe = regexp.MustCompile(`[$\s]`)
	pctStripRe   = regexp.MustCompile(`[%\s]`)
	feePctRe     = regexp.MustCompile(`([\d.,]+)\s*%`)
	feeFixedRe   = regexp.MustCompile(`\$\s*([\d.,]+)`)
	taxPctRe     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
)

// Money parses monetary text into a float64.
//
// Currency symbols and whitespace are stripped. When both "," and "."
// appear, the rightmost one is the decimal separator and the other is a
// thousands separator. When only "," appears it is decimal only if
// followed by exactly 1-2 digits, otherwise thousands.
//
//	"$1,095.00" -> 1095.0
//	"1.095,50"  -> 1095.5
//	"1095"      -> 1095.0
func Money(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	text = moneyStripRe.ReplaceAllString(text, "")

	hasComma := strings.Contains(text, ",")
	hasDot := strings.Contains(text, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(text, ".") > strings.LastIndex(text, ",") {
			text = strings.ReplaceAll(text, ",", "")
		} else {
			text = strings.ReplaceAll(text, ".", "")
			text = strings.ReplaceAll(text, ",", ".")
		}
	case hasComma:
		parts := strings.Split(text, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			text = strings.ReplaceAll(text, ",", ".")
		} else {
			text = strings.ReplaceAll(text, ",", "")
		}
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return v
}

// Pct parses percentage text into a decimal fraction.
//
// "%" and whitespace are stripped and a decimal comma is normalized to a
// point. A magnitude greater than 1 is a whole percentage and is divided
// by 100, so "14.50%", "14.5" and "0.145" all normalize to 0.145.
func Pct(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	text = pctStripRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, ",", ".")

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	if v > 1 {
		return v / 100
	}
	return v
}

// FeeCombo extracts the percentage and fixed components from a combined
// fee expression such as "14.50% + $1095.00". Token order does not
// matter; a missing token yields 0 for that component.
func FeeCombo(text string) (pct, fixed float64) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, 0
	}
	if m := feePctRe.FindStringSubmatch(text); m != nil {
		pct = Pct(m[1] + "%")
	}
	if m := feeFixedRe.FindStringSubmatch(text); m != nil {
		fixed = Money("$" + m[1])
	}
	return pct, fixed
}

// TaxPct extracts the first "<number>%" token from a free-form tax label
// and returns it as a decimal fraction.
//
//	"IVA Ventas 21%" -> 0.21
func TaxPct(text string) float64 {
	text = strings.TrimSpace(text)
	m := taxPctRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v / 100
}
