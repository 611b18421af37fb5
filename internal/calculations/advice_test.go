package calculations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdviseCashSellsNow(t *testing.T) {
	v, _ := economyHP()
	a := Advise(v, Financing{Type: FinanceCash}, ProjectionOptions{})

	assert.Equal(t, ActionSellNow, a.Action)
	assert.Equal(t, 0, a.MonthsToWindow)
	assert.True(t, a.Window.IsInWindow)
	assert.Equal(t, 0, a.Window.PeakMonth)
	assert.Len(t, a.Projection, DefaultCashHorizonMonths+PostContractBufferMonths+1)
}

func TestAdviseHPWaitsForWindow(t *testing.T) {
	v, f := economyHP()
	a := Advise(v, f, ProjectionOptions{})

	require.True(t, a.Window.Found)
	assert.Equal(t, ActionWait, a.Action)
	assert.Greater(t, a.Window.StartMonth, 0)
	assert.Equal(t, a.Window.StartMonth, a.MonthsToWindow)
	assert.Equal(t, StatusLosing, a.Current.Status)
	assert.Equal(t, 0, a.CurrentMonth)
}

func TestAdviseUnderwaterPCPHolds(t *testing.T) {
	v := Vehicle{Category: CategoryElectric, RetailPrice: 28000}
	f := Financing{
		Type:           FinancePCP,
		OriginalLoan:   35000,
		APR:            0.08,
		TermMonths:     36,
		MonthlyPayment: 300,
		BalloonPayment: 30000,
	}

	a := Advise(v, f, ProjectionOptions{})

	assert.False(t, a.Window.Found)
	assert.Equal(t, ActionHold, a.Action)
	assert.Equal(t, -1, a.MonthsToWindow)
	assert.Equal(t, -1, a.BreakEvenMonth)
}

func TestAdviseClampsCurrentMonth(t *testing.T) {
	v, f := economyHP()
	f.MonthsElapsed = 500

	a := Advise(v, f, ProjectionOptions{})

	assert.Equal(t, len(a.Projection)-1, a.CurrentMonth)
}
