package calculations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettlement(t *testing.T) {
	tests := []struct {
		name      string
		financing Financing
		check     func(*testing.T, SettlementResult)
	}{
		{
			name: "cash is always zero",
			financing: Financing{
				Type:           FinanceCash,
				OriginalLoan:   25000,
				APR:            0.09,
				TermMonths:     60,
				MonthsElapsed:  12,
				BalloonPayment: 5000,
			},
			check: func(t *testing.T, r SettlementResult) {
				assert.Equal(t, SettlementResult{}, r)
			},
		},
		{
			name:      "hp at month zero settles full principal plus two months interest",
			financing: Financing{Type: FinanceHP, OriginalLoan: 25000, APR: 0.045, TermMonths: 60},
			check: func(t *testing.T, r SettlementResult) {
				assert.InDelta(t, 25000, r.PrincipalRemaining, 0.01)
				assert.InDelta(t, 187.5, r.InterestPenalty, 0.01)
				assert.InDelta(t, 25187.5, r.TotalSettlement, 0.01)
				assert.Equal(t, 60, r.MonthsRemaining)
			},
		},
		{
			name:      "hp at term end is zero",
			financing: Financing{Type: FinanceHP, OriginalLoan: 25000, APR: 0.045, TermMonths: 60, MonthsElapsed: 60},
			check: func(t *testing.T, r SettlementResult) {
				assert.Zero(t, r.TotalSettlement)
				assert.Zero(t, r.PrincipalRemaining)
				assert.Zero(t, r.MonthsRemaining)
			},
		},
		{
			name:      "hp with zero rate prorates linearly",
			financing: Financing{Type: FinanceHP, OriginalLoan: 12000, APR: 0, TermMonths: 12, MonthsElapsed: 3},
			check: func(t *testing.T, r SettlementResult) {
				assert.InDelta(t, 9000, r.PrincipalRemaining, 0.001)
				assert.Zero(t, r.InterestPenalty)
				assert.InDelta(t, 9000, r.TotalSettlement, 0.001)
			},
		},
		{
			name: "pcp at term end is the balloon",
			financing: Financing{
				Type:           FinancePCP,
				OriginalLoan:   43000,
				APR:            0.069,
				TermMonths:     48,
				MonthsElapsed:  48,
				BalloonPayment: 18000,
			},
			check: func(t *testing.T, r SettlementResult) {
				assert.InDelta(t, 18000, r.TotalSettlement, 0.01)
				assert.Zero(t, r.MonthsRemaining)
			},
		},
		{
			name: "pcp near term end is balloon plus remaining regular principal",
			financing: Financing{
				Type:           FinancePCP,
				OriginalLoan:   43000,
				APR:            0.069,
				TermMonths:     48,
				MonthsElapsed:  46,
				BalloonPayment: 18000,
			},
			check: func(t *testing.T, r SettlementResult) {
				principalPerMonth := (43000.0 - 18000.0) / 48.0
				expected := 18000 + principalPerMonth*2
				assert.InDelta(t, expected, r.PrincipalRemaining, 0.01)
				assert.InDelta(t, expected*0.069/12*2, r.InterestPenalty, 0.01)
				assert.Equal(t, 2, r.MonthsRemaining)
			},
		},
		{
			name: "pcp midway keeps balloon on top of unamortized principal",
			financing: Financing{
				Type:           FinancePCP,
				OriginalLoan:   43000,
				APR:            0.069,
				TermMonths:     48,
				MonthsElapsed:  24,
				BalloonPayment: 18000,
			},
			check: func(t *testing.T, r SettlementResult) {
				assert.InDelta(t, 18000+12500, r.PrincipalRemaining, 0.01)
			},
		},
		{
			name:      "negative elapsed is clamped to zero",
			financing: Financing{Type: FinanceHP, OriginalLoan: 10000, APR: 0.06, TermMonths: 24, MonthsElapsed: -5},
			check: func(t *testing.T, r SettlementResult) {
				assert.InDelta(t, 10000, r.PrincipalRemaining, 0.01)
				assert.Equal(t, 24, r.MonthsRemaining)
			},
		},
		{
			name:      "elapsed beyond term is clamped to term",
			financing: Financing{Type: FinanceHP, OriginalLoan: 10000, APR: 0.06, TermMonths: 24, MonthsElapsed: 40},
			check: func(t *testing.T, r SettlementResult) {
				assert.Zero(t, r.TotalSettlement)
				assert.Zero(t, r.MonthsRemaining)
			},
		},
		{
			name:      "zero term never divides by zero",
			financing: Financing{Type: FinanceHP, OriginalLoan: 10000, APR: 0.06},
			check: func(t *testing.T, r SettlementResult) {
				assert.Equal(t, SettlementResult{}, r)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Settlement(tt.financing))
		})
	}
}

func TestSettlementHPMonotonic(t *testing.T) {
	for _, apr := range []float64{0, 0.029, 0.045, 0.12, 0.3} {
		prev := Settlement(Financing{Type: FinanceHP, OriginalLoan: 25000, APR: apr, TermMonths: 60}).TotalSettlement
		for m := 1; m <= 60; m++ {
			cur := Settlement(Financing{Type: FinanceHP, OriginalLoan: 25000, APR: apr, TermMonths: 60, MonthsElapsed: m}).TotalSettlement
			assert.LessOrEqual(t, cur, prev, "apr %.3f month %d", apr, m)
			prev = cur
		}
	}
}

func TestSettlementPCPBalloonDominance(t *testing.T) {
	f := Financing{Type: FinancePCP, OriginalLoan: 43000, APR: 0.069, TermMonths: 48, BalloonPayment: 18000}
	principalPerMonth := (f.OriginalLoan - f.BalloonPayment) / float64(f.TermMonths)

	for remaining := 0; remaining <= BalloonDominanceMonths; remaining++ {
		f.MonthsElapsed = f.TermMonths - remaining
		r := Settlement(f)
		assert.InDelta(t, f.BalloonPayment+principalPerMonth*float64(remaining), r.PrincipalRemaining, 0.01)
		assert.GreaterOrEqual(t, r.TotalSettlement, f.BalloonPayment)
	}
}
