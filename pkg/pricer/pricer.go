// Package pricer solves the net-to-gross inversion for a marketplace fee
// structure: given the net amount a seller needs to keep, it finds the
// listing price that yields it after the percentage fees and the fixed
// per-sale charge are deducted.
package pricer

// Input holds the five scalars the solver needs for one row. Percentages
// are decimal fractions of the listing price.
type Input struct {
	NetTarget      float64 // amount the seller must receive (tariff plus surcharges)
	CommissionPct  float64 // marketplace commission
	FinancingPct   float64 // installment financing cost
	WithholdingPct float64 // tax withholding
	FixedCharge    float64 // fixed per-sale charge, currency units
}

// Solution is the solved price with its deduction breakdown. When
// Infeasible is true every monetary field is exactly 0.
//
// For feasible inputs the defining invariant holds up to floating-point
// rounding:
//
//	NetProceeds == NetTarget
//	ListingPrice == NetProceeds + CommissionCharge + FinancingCharge + WithholdingCharge
type Solution struct {
	ListingPrice      float64
	CommissionCharge  float64 // ListingPrice*CommissionPct + FixedCharge
	FinancingCharge   float64
	WithholdingCharge float64
	NetProceeds       float64
	Infeasible        bool
}

// Solve inverts the fee structure in closed form:
//
//	ListingPrice = (NetTarget + FixedCharge) / (1 - CommissionPct - FinancingPct - WithholdingPct)
//
// When the percentage fees consume 100% or more of the listing price the
// denominator is <= 0 and no finite price reaches the target; the
// returned Solution has Infeasible set and all monetary fields zeroed.
func Solve(in Input) Solution {
	totalPct := in.CommissionPct + in.FinancingPct + in.WithholdingPct
	denominator := 1 - totalPct
	if denominator <= 0 {
		return Solution{Infeasible: true}
	}

	price := (in.NetTarget + in.FixedCharge) / denominator
	commission := price*in.CommissionPct + in.FixedCharge
	financing := price * in.FinancingPct
	withholding := price * in.WithholdingPct

	return Solution{
		ListingPrice:      price,
		CommissionCharge:  commission,
		FinancingCharge:   financing,
		WithholdingCharge: withholding,
		NetProceeds:       price - (commission + financing + withholding),
	}
}
