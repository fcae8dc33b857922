package service_test

import (
	"testing"

	"github.com/nicofdz/JS-Master-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPercentageToAmount(t *testing.T) {
	budget := decimal.NewFromInt(500000)

	assert.True(t, decimal.NewFromInt(250000).Equal(service.PercentageToAmount(budget, dec("50"))))
	assert.True(t, decimal.NewFromInt(350000).Equal(service.PercentageToAmount(budget, dec("70"))))
	assert.True(t, decimal.Zero.Equal(service.PercentageToAmount(budget, decimal.Zero)))

	// Banker's rounding to the whole peso: 33.333% of 100 → 33.33… → 33
	assert.True(t, decimal.NewFromInt(33).Equal(service.PercentageToAmount(decimal.NewFromInt(100), dec("33.333"))))
	// Half-even: 12.5 rounds to 12, 13.5 rounds to 14
	assert.True(t, decimal.NewFromInt(12).Equal(service.PercentageToAmount(decimal.NewFromInt(100), dec("12.5"))))
	assert.True(t, decimal.NewFromInt(14).Equal(service.PercentageToAmount(decimal.NewFromInt(100), dec("13.5"))))
}

func TestAmountToPercentage(t *testing.T) {
	budget := decimal.NewFromInt(500000)

	pct, err := service.AmountToPercentage(budget, decimal.NewFromInt(350000))
	require.NoError(t, err)
	assert.True(t, dec("70").Equal(pct))

	// Thirds round half-even to 2 decimals
	pct, err = service.AmountToPercentage(decimal.NewFromInt(300000), decimal.NewFromInt(100000))
	require.NoError(t, err)
	assert.True(t, dec("33.33").Equal(pct))

	_, err = service.AmountToPercentage(decimal.Zero, decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, service.ErrInvalidBudget)

	_, err = service.AmountToPercentage(decimal.NewFromInt(-10), decimal.Zero)
	assert.ErrorIs(t, err, service.ErrInvalidBudget)
}

func TestClampPercentage(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(service.ClampPercentage(dec("-5"))))
	assert.True(t, dec("100").Equal(service.ClampPercentage(dec("130"))))
	assert.True(t, dec("42.5").Equal(service.ClampPercentage(dec("42.5"))))
}

func TestRebalanceTwoParty(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	t.Run("two participants keep summing to 100", func(t *testing.T) {
		participants := []service.DistributionEntry{
			{WorkerID: a, Percentage: dec("50")},
			{WorkerID: b, Percentage: dec("50")},
		}
		out := service.RebalanceTwoParty(a, dec("70"), participants)
		assert.True(t, dec("70").Equal(out[0].Percentage))
		assert.True(t, dec("30").Equal(out[1].Percentage))

		ok, total := service.ValidateSum(out)
		assert.True(t, ok)
		assert.True(t, dec("100").Equal(total))
	})

	t.Run("out-of-range input is clamped on both sides", func(t *testing.T) {
		participants := []service.DistributionEntry{
			{WorkerID: a, Percentage: dec("50")},
			{WorkerID: b, Percentage: dec("50")},
		}
		out := service.RebalanceTwoParty(a, dec("130"), participants)
		assert.True(t, dec("100").Equal(out[0].Percentage))
		assert.True(t, decimal.Zero.Equal(out[1].Percentage))
	})

	t.Run("three participants: only the changed entry moves", func(t *testing.T) {
		participants := []service.DistributionEntry{
			{WorkerID: a, Percentage: dec("40")},
			{WorkerID: b, Percentage: dec("30")},
			{WorkerID: c, Percentage: dec("30")},
		}
		out := service.RebalanceTwoParty(b, dec("50"), participants)
		assert.True(t, dec("40").Equal(out[0].Percentage))
		assert.True(t, dec("50").Equal(out[1].Percentage))
		assert.True(t, dec("30").Equal(out[2].Percentage))

		ok, _ := service.ValidateSum(out)
		assert.False(t, ok) // 120 — must be corrected before saving
	})

	t.Run("input slice is never mutated", func(t *testing.T) {
		participants := []service.DistributionEntry{
			{WorkerID: a, Percentage: dec("50")},
			{WorkerID: b, Percentage: dec("50")},
		}
		_ = service.RebalanceTwoParty(a, dec("80"), participants)
		assert.True(t, dec("50").Equal(participants[0].Percentage))
	})
}

func TestValidateSumTolerance(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	cases := []struct {
		name  string
		pcts  []string
		valid bool
	}{
		{"exact 100", []string{"50", "50"}, true},
		{"thirds within tolerance", []string{"33.33", "33.33", "33.34"}, true},
		{"rounded thirds off by 0.01", []string{"33.33", "33.33", "33.33"}, true},
		{"off by 0.05 exactly is rejected", []string{"50", "50.05"}, false},
		{"off by 0.04 passes", []string{"50", "50.04"}, true},
		{"wildly off", []string{"70", "50"}, false},
		{"empty set sums to zero", nil, false},
	}
	ids := []uuid.UUID{a, b, c}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var participants []service.DistributionEntry
			for i, p := range tc.pcts {
				participants = append(participants, service.DistributionEntry{WorkerID: ids[i], Percentage: dec(p)})
			}
			ok, _ := service.ValidateSum(participants)
			assert.Equal(t, tc.valid, ok)
		})
	}
}

func TestApplyAmountAdjustment(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	t.Run("percentages derived from amounts", func(t *testing.T) {
		out, err := service.ApplyAmountAdjustment(decimal.NewFromInt(500000), []service.DistributionEntry{
			{WorkerID: a, Amount: decimal.NewFromInt(350000)},
			{WorkerID: b, Amount: decimal.NewFromInt(150000)},
		})
		require.NoError(t, err)
		assert.True(t, dec("70").Equal(out[0].Percentage))
		assert.True(t, dec("30").Equal(out[1].Percentage))
	})

	t.Run("zero budget with nonzero amount is rejected", func(t *testing.T) {
		_, err := service.ApplyAmountAdjustment(decimal.Zero, []service.DistributionEntry{
			{WorkerID: a, Amount: decimal.NewFromInt(1000)},
		})
		assert.ErrorIs(t, err, service.ErrInvalidBudget)
	})

	t.Run("zero budget with zero amounts yields zero percentages", func(t *testing.T) {
		out, err := service.ApplyAmountAdjustment(decimal.Zero, []service.DistributionEntry{
			{WorkerID: a, Amount: decimal.Zero},
		})
		require.NoError(t, err)
		assert.True(t, out[0].Percentage.IsZero())
	})
}
