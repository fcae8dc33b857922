package service

// distribution_calc.go — pure percentage/amount math for the budget split.
//
// Rounding policy (applied consistently in both directions):
//   - amounts round half-even (banker's) to the whole peso
//   - percentages round half-even to 2 decimal places
// A distribution is savable when the active a_trato percentages sum to 100
// within ±0.05 percentage points.

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	percentageScale = 2
	amountScale     = 0
)

var (
	oneHundred = decimal.NewFromInt(100)
	// sumTolerance is the allowed deviation of the percentage sum from 100.
	sumTolerance = decimal.RequireFromString("0.05")
)

// DistributionEntry is one worker's slice of the task budget.
type DistributionEntry struct {
	WorkerID   uuid.UUID
	Percentage decimal.Decimal
	Amount     decimal.Decimal
}

// PercentageToAmount converts a percentage share of the budget to pesos.
func PercentageToAmount(budget, percentage decimal.Decimal) decimal.Decimal {
	return budget.Mul(percentage).Div(oneHundred).RoundBank(amountScale)
}

// AmountToPercentage back-computes the percentage a peso amount represents.
// With a zero (or negative) budget the percentage is undefined and must be
// supplied directly by the caller.
func AmountToPercentage(budget, amount decimal.Decimal) (decimal.Decimal, error) {
	if budget.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidBudget
	}
	return amount.Div(budget).Mul(oneHundred).RoundBank(percentageScale), nil
}

// ClampPercentage limits p to [0, 100].
func ClampPercentage(p decimal.Decimal) decimal.Decimal {
	switch {
	case p.LessThan(decimal.Zero):
		return decimal.Zero
	case p.GreaterThan(oneHundred):
		return oneHundred
	default:
		return p
	}
}

// RebalanceTwoParty applies newPercentage to the changed worker and, when
// exactly two participants exist, gives the other worker the complement so
// the pair keeps summing to 100. Both sides are clamped to [0,100]; at a
// clamped boundary the pair can momentarily sum below 100, which still fails
// ValidateSum downstream. With any other participant count only the changed
// entry is updated — there is no auto-complement to spread.
func RebalanceTwoParty(changedWorkerID uuid.UUID, newPercentage decimal.Decimal, participants []DistributionEntry) []DistributionEntry {
	newPercentage = ClampPercentage(newPercentage)
	out := make([]DistributionEntry, len(participants))
	copy(out, participants)

	twoParty := len(out) == 2
	for i := range out {
		if out[i].WorkerID == changedWorkerID {
			out[i].Percentage = newPercentage
		} else if twoParty {
			out[i].Percentage = ClampPercentage(oneHundred.Sub(newPercentage))
		}
	}
	return out
}

// ValidateSum reports whether the participants' percentages sum to 100
// within tolerance, and returns the total. It never mutates.
func ValidateSum(participants []DistributionEntry) (bool, decimal.Decimal) {
	total := decimal.Zero
	for _, p := range participants {
		total = total.Add(p.Percentage)
	}
	return total.Sub(oneHundred).Abs().LessThan(sumTolerance), total
}

// ApplyAmountAdjustment recomputes each entry's percentage from its peso
// amount against the task budget. A non-positive budget combined with any
// non-zero amount is rejected — the percentage would be undefined.
func ApplyAmountAdjustment(budget decimal.Decimal, entries []DistributionEntry) ([]DistributionEntry, error) {
	out := make([]DistributionEntry, len(entries))
	copy(out, entries)
	for i := range out {
		if budget.LessThanOrEqual(decimal.Zero) {
			if !out[i].Amount.IsZero() {
				return nil, ErrInvalidBudget
			}
			out[i].Percentage = decimal.Zero
			continue
		}
		pct, err := AmountToPercentage(budget, out[i].Amount)
		if err != nil {
			return nil, err
		}
		out[i].Percentage = pct
	}
	return out, nil
}
