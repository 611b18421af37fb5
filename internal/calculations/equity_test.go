package calculations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func economyHP() (Vehicle, Financing) {
	v := Vehicle{
		Make:                  "Skoda",
		Model:                 "Octavia",
		Year:                  2024,
		Category:              CategoryEconomy,
		RetailPrice:           28000,
		ExpectedAnnualMileage: 10000,
	}
	f := Financing{
		Type:           FinanceHP,
		OriginalLoan:   25000,
		APR:            0.045,
		TermMonths:     60,
		MonthlyPayment: 466.05,
	}
	return v, f
}

func premiumPCP() (Vehicle, Financing) {
	v := Vehicle{
		Make:                  "BMW",
		Model:                 "3 Series",
		Year:                  2023,
		Category:              CategoryPremium,
		RetailPrice:           48000,
		CurrentMileage:        9000,
		ExpectedAnnualMileage: 9000,
	}
	f := Financing{
		Type:           FinancePCP,
		OriginalLoan:   43000,
		APR:            0.069,
		TermMonths:     48,
		MonthlyPayment: 590,
		MonthsElapsed:  12,
		BalloonPayment: 18000,
	}
	return v, f
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		position float64
		band     float64
		want     Status
	}{
		{position: 201, band: 200, want: StatusWinning},
		{position: 200, band: 200, want: StatusBreakeven},
		{position: 0, band: 200, want: StatusBreakeven},
		{position: -200, band: 200, want: StatusBreakeven},
		{position: -200.01, band: 200, want: StatusLosing},
		{position: 150, band: 100, want: StatusWinning},
		{position: -150, band: 100, want: StatusLosing},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyStatus(tt.position, tt.band), "position %.2f band %.0f", tt.position, tt.band)
	}
}

func TestCashPosition(t *testing.T) {
	assert.Equal(t, 500.0, CashPosition(20500, 20000))
	assert.Equal(t, -1500.0, CashPosition(18500, 20000))
}

func TestProjectedMileage(t *testing.T) {
	v := Vehicle{CurrentMileage: 15000, ExpectedAnnualMileage: 12000}
	assert.InDelta(t, 3000, ProjectedMileage(v, 12, 0), 1e-9)
	assert.InDelta(t, 27000, ProjectedMileage(v, 12, 24), 1e-9)

	v.CurrentMileage = 5000
	assert.Zero(t, ProjectedMileage(v, 12, 0))
}

func TestGenerateProjectionHP(t *testing.T) {
	v, f := economyHP()
	entries := GenerateProjection(v, f, ProjectionOptions{})

	require.Len(t, entries, 60+PostContractBufferMonths+1)

	first := entries[0]
	assert.Equal(t, 0, first.Month)
	assert.InDelta(t, 24640, first.TradeInValue, 0.01)
	assert.InDelta(t, 24640*PrivateSalePremium, first.PrivateValue, 0.01)
	assert.InDelta(t, 25187.5, first.Settlement, 0.01)
	assert.InDelta(t, 24640-25187.5, first.CashPosition.TradeIn, 0.01)
	assert.Equal(t, StatusLosing, first.Status)

	end := entries[60]
	assert.True(t, end.IsContractEnd)
	assert.False(t, end.IsBalloonDue)
	assert.Zero(t, end.Settlement)

	for i, e := range entries {
		assert.Equal(t, i, e.Month)
		if i != 60 {
			assert.False(t, e.IsContractEnd, "month %d", i)
		}
		if i > 60 {
			assert.Zero(t, e.Settlement, "month %d", i)
		}
	}

	optimal, ok := OptimalEntry(entries)
	require.True(t, ok)
	assert.Equal(t, 60, optimal.Month)
}

func TestGenerateProjectionPCP(t *testing.T) {
	v, f := premiumPCP()
	entries := GenerateProjection(v, f, ProjectionOptions{})

	require.Len(t, entries, 48+PostContractBufferMonths+1)

	balloonMonth := entries[48]
	assert.True(t, balloonMonth.IsContractEnd)
	assert.True(t, balloonMonth.IsBalloonDue)
	assert.InDelta(t, 18000, balloonMonth.Settlement, 0.01)

	for _, e := range entries[49:] {
		assert.False(t, e.IsBalloonDue)
		assert.InDelta(t, 18000, e.Settlement, 0.01)
	}
}

func TestGenerateProjectionExactlyOneOptimal(t *testing.T) {
	scenarios := map[string]func() (Vehicle, Financing){
		"hp":  economyHP,
		"pcp": premiumPCP,
		"cash": func() (Vehicle, Financing) {
			v, _ := economyHP()
			return v, Financing{Type: FinanceCash}
		},
	}

	for name, build := range scenarios {
		t.Run(name, func(t *testing.T) {
			v, f := build()
			entries := GenerateProjection(v, f, ProjectionOptions{})

			count := 0
			best := entries[0].CashPosition.TradeIn
			for _, e := range entries {
				if e.CashPosition.TradeIn > best {
					best = e.CashPosition.TradeIn
				}
			}
			for _, e := range entries {
				if e.IsOptimalMonth {
					count++
					assert.Equal(t, best, e.CashPosition.TradeIn)
				}
			}
			assert.Equal(t, 1, count)
		})
	}
}

func TestGenerateProjectionBreakEven(t *testing.T) {
	v, f := economyHP()
	entries := GenerateProjection(v, f, ProjectionOptions{})

	month := BreakEvenMonth(entries)
	require.GreaterOrEqual(t, month, 0)

	for _, e := range entries[:month] {
		assert.Less(t, e.CashPosition.TradeIn, 0.0)
		assert.False(t, e.IsBreakEven)
	}
	assert.GreaterOrEqual(t, entries[month].CashPosition.TradeIn, 0.0)
	for _, e := range entries[month+1:] {
		assert.False(t, e.IsBreakEven)
	}
}

func TestGenerateProjectionCash(t *testing.T) {
	v, _ := economyHP()
	entries := GenerateProjection(v, Financing{Type: FinanceCash}, ProjectionOptions{})

	require.Len(t, entries, DefaultCashHorizonMonths+PostContractBufferMonths+1)
	for _, e := range entries {
		assert.Zero(t, e.Settlement)
		assert.False(t, e.IsContractEnd)
		assert.Equal(t, e.TradeInValue, e.CashPosition.TradeIn)
	}
	assert.True(t, entries[0].IsBreakEven)
	assert.True(t, entries[0].IsOptimalMonth)
}

func TestGenerateProjectionOptions(t *testing.T) {
	v, f := economyHP()
	entries := GenerateProjection(v, f, ProjectionOptions{BufferMonths: 2}.WithBreakEvenBand(1000))

	require.Len(t, entries, 63)
	// -547.5 попадает в расширенную зону
	assert.Equal(t, StatusBreakeven, entries[0].Status)
}

func TestOptimalEntryMissing(t *testing.T) {
	_, ok := OptimalEntry(nil)
	assert.False(t, ok)
	assert.Equal(t, -1, BreakEvenMonth(nil))
}

func TestGenerateProjectionZeroBand(t *testing.T) {
	v, f := economyHP()
	f.OriginalLoan = 24600

	tests := []struct {
		name string
		opts ProjectionOptions
		want Status
	}{
		{"default band", ProjectionOptions{}, StatusBreakeven},
		{"zero band", ProjectionOptions{}.WithBreakEvenBand(0), StatusLosing},
		{"negative band falls back", ProjectionOptions{}.WithBreakEvenBand(-5), StatusBreakeven},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := GenerateProjection(v, f, tt.opts)
			require.NotEmpty(t, entries)
			// 24640 - (24600 + 184.50) = -144.50
			assert.InDelta(t, -144.5, entries[0].CashPosition.TradeIn, 0.01)
			assert.Equal(t, tt.want, entries[0].Status)
		})
	}
}
