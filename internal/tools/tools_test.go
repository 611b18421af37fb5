package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cloud-ru/vehicle-equity-go/internal/calculations"
	"github.com/cloud-ru/vehicle-equity-go/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxPrice:        1e7,
		MaxMonths:       120,
		MaxAPRPercent:   100,
		MaxMileage:      1e6,
		BreakEvenBand:   200,
		BalloonVariance: 0.05,
	}
}

func testRegistry() *Registry {
	return NewRegistry(testConfig(), noop.NewTracerProvider().Tracer("test"), calculations.DefaultResidualTable())
}

func hpParams() map[string]interface{} {
	return map[string]interface{}{
		"category":                "economy",
		"retail_price":            28000.0,
		"expected_annual_mileage": 10000.0,
		"finance_type":            "hp",
		"original_loan":           25000.0,
		"apr_percent":             4.5,
		"term_months":             60.0,
		"monthly_payment":         466.05,
	}
}

func TestRegistryList(t *testing.T) {
	names := make([]string, 0)
	for _, tool := range testRegistry().List() {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
	}
	assert.Equal(t, []string{
		"compare_financing",
		"depreciation_curve",
		"equity_projection",
		"finance_quote",
		"ownership_cost",
		"residual_estimate",
		"settlement",
		"swap_window",
		"trade_in_value",
	}, names)
}

func TestRegistryUnknownTool(t *testing.T) {
	_, err := testRegistry().Call(context.Background(), "lease_quote", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestSettlementTool(t *testing.T) {
	ctx := context.Background()
	r := testRegistry()

	out, err := r.Call(ctx, "settlement", hpParams())
	require.NoError(t, err)
	result := out.(calculations.SettlementResult)
	assert.Equal(t, 25000.0, result.PrincipalRemaining)
	assert.Equal(t, 187.5, result.InterestPenalty)
	assert.Equal(t, 25187.5, result.TotalSettlement)

	params := hpParams()
	params["months_elapsed"] = -1.0
	_, err = r.Call(ctx, "settlement", params)
	assert.ErrorIs(t, err, ErrInvalidParams)

	params = hpParams()
	params["finance_type"] = "lease"
	_, err = r.Call(ctx, "settlement", params)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestSettlementToolComputesPayment(t *testing.T) {
	params := hpParams()
	delete(params, "monthly_payment")
	params["months_elapsed"] = 60.0

	out, err := testRegistry().Call(context.Background(), "settlement", params)
	require.NoError(t, err)
	assert.Zero(t, out.(calculations.SettlementResult).TotalSettlement)
}

func TestTradeInValueTool(t *testing.T) {
	out, err := testRegistry().Call(context.Background(), "trade_in_value", map[string]interface{}{
		"category":     "Economy",
		"retail_price": 28000.0,
		"months_owned": 0,
	})
	require.NoError(t, err)

	result := out.(TradeInValueResult)
	assert.Equal(t, 24640.0, result.TradeInValue)
	assert.Equal(t, 27596.8, result.PrivateValue)
	assert.Equal(t, 0.12, result.DriveOffRate)
	assert.Equal(t, 1.0, result.MileageFactor)
}

func TestTradeInValueToolInvalid(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]interface{}
	}{
		{name: "unknown category", params: map[string]interface{}{"category": "suv", "retail_price": 1.0, "months_owned": 1.0}},
		{name: "missing price", params: map[string]interface{}{"category": "economy", "months_owned": 1.0}},
		{name: "fractional months", params: map[string]interface{}{"category": "economy", "retail_price": 1.0, "months_owned": 1.5}},
		{name: "price as string", params: map[string]interface{}{"category": "economy", "retail_price": "1", "months_owned": 1.0}},
		{name: "negative mileage", params: map[string]interface{}{
			"category": "economy", "retail_price": 1.0, "months_owned": 1.0, "current_mileage": -5.0,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testRegistry().Call(context.Background(), "trade_in_value", tt.params)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestDepreciationCurveTool(t *testing.T) {
	out, err := testRegistry().Call(context.Background(), "depreciation_curve", map[string]interface{}{
		"category":     "premium",
		"retail_price": 48000.0,
		"months":       json.Number("24"),
	})
	require.NoError(t, err)

	curve := out.([]calculations.CurvePoint)
	require.Len(t, curve, 25)
	assert.Equal(t, 0, curve[0].Month)
	assert.Greater(t, curve[0].Value, curve[24].Value)
}

func TestEquityProjectionTool(t *testing.T) {
	out, err := testRegistry().Call(context.Background(), "equity_projection", hpParams())
	require.NoError(t, err)

	result := out.(ProjectionResult)
	assert.Len(t, result.Projection, 67)
	assert.Equal(t, 60, result.OptimalMonth)
	assert.Greater(t, result.BreakEvenMonth, 0)
	assert.True(t, result.Window.Found)
	assert.Equal(t, 60, result.Window.EndMonth)
}

func TestEquityProjectionToolBand(t *testing.T) {
	params := hpParams()
	params["break_even_band"] = 1000.0

	out, err := testRegistry().Call(context.Background(), "equity_projection", params)
	require.NoError(t, err)
	assert.Equal(t, calculations.StatusBreakeven, out.(ProjectionResult).Projection[0].Status)

	params["break_even_band"] = -1.0
	_, err = testRegistry().Call(context.Background(), "equity_projection", params)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestEquityProjectionToolZeroBand(t *testing.T) {
	params := hpParams()
	params["original_loan"] = 24600.0
	delete(params, "monthly_payment")

	out, err := testRegistry().Call(context.Background(), "equity_projection", params)
	require.NoError(t, err)
	assert.Equal(t, calculations.StatusBreakeven, out.(ProjectionResult).Projection[0].Status)

	params["break_even_band"] = 0.0
	out, err = testRegistry().Call(context.Background(), "equity_projection", params)
	require.NoError(t, err)
	first := out.(ProjectionResult).Projection[0]
	assert.InDelta(t, -144.5, first.CashPosition.TradeIn, 0.01)
	assert.Equal(t, calculations.StatusLosing, first.Status)
}

func TestEquityProjectionToolRejectsBalloonAboveLoan(t *testing.T) {
	params := hpParams()
	params["finance_type"] = "pcp"
	params["balloon_payment"] = 30000.0

	_, err := testRegistry().Call(context.Background(), "equity_projection", params)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestSwapWindowTool(t *testing.T) {
	out, err := testRegistry().Call(context.Background(), "swap_window", map[string]interface{}{
		"category":     "economy",
		"retail_price": 28000.0,
		"finance_type": "cash",
	})
	require.NoError(t, err)

	advice := out.(calculations.Advice)
	assert.Equal(t, calculations.ActionSellNow, advice.Action)
	assert.True(t, advice.Window.IsInWindow)
}

func TestResidualEstimateTool(t *testing.T) {
	ctx := context.Background()
	r := testRegistry()

	out, err := r.Call(ctx, "residual_estimate", map[string]interface{}{
		"category":       "economy",
		"purchase_price": 30000.0,
		"term_months":    36.0,
	})
	require.NoError(t, err)
	estimate := out.(calculations.BalloonEstimate)
	assert.Equal(t, 14100.0, estimate.Estimated)
	assert.Equal(t, 13395.0, estimate.Min)
	assert.Equal(t, 14805.0, estimate.Max)

	out, err = r.Call(ctx, "residual_estimate", map[string]interface{}{
		"category":       "economy",
		"purchase_price": 30000.0,
		"term_months":    36.0,
		"condition":      "POOR",
	})
	require.NoError(t, err)
	assert.Equal(t, 11985.0, out.(calculations.BalloonEstimate).Estimated)

	_, err = r.Call(ctx, "residual_estimate", map[string]interface{}{
		"category":       "economy",
		"purchase_price": 30000.0,
		"term_months":    36.0,
		"condition":      "mint",
	})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = r.Call(ctx, "residual_estimate", map[string]interface{}{
		"category":       "economy",
		"purchase_price": 0.0,
		"term_months":    36.0,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidParams)
	assert.Contains(t, err.Error(), "purchase price")
}

func TestResidualEstimateToolCustomTable(t *testing.T) {
	table := calculations.ResidualTable{calculations.CategoryEconomy: {36: 0.5}}
	handler := ResidualEstimateHandler(testConfig(), noop.NewTracerProvider().Tracer("test"), table)

	_, err := handler(context.Background(), map[string]interface{}{
		"category":       "exotic",
		"purchase_price": 90000.0,
		"term_months":    36.0,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no residual data")
}

func TestFinanceQuoteTool(t *testing.T) {
	ctx := context.Background()
	r := testRegistry()

	out, err := r.Call(ctx, "finance_quote", map[string]interface{}{
		"finance_type":    "pcp",
		"principal":       43000.0,
		"apr_percent":     6.9,
		"term_months":     48.0,
		"balloon_payment": 18000.0,
	})
	require.NoError(t, err)
	quote := out.(*calculations.QuoteResult)
	assert.Len(t, quote.Schedule, 48)
	assert.Equal(t, 18000.0, quote.Summary.BalloonPayment)

	_, err = r.Call(ctx, "finance_quote", map[string]interface{}{
		"finance_type": "cash",
		"principal":    43000.0,
		"apr_percent":  6.9,
		"term_months":  48.0,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calculation failed")

	_, err = r.Call(ctx, "finance_quote", map[string]interface{}{
		"finance_type":    "pcp",
		"principal":       10000.0,
		"apr_percent":     6.9,
		"term_months":     48.0,
		"balloon_payment": 18000.0,
	})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestCompareFinancingTool(t *testing.T) {
	out, err := testRegistry().Call(context.Background(), "compare_financing", map[string]interface{}{
		"principal":       30000.0,
		"apr_percent":     7.0,
		"term_months":     48.0,
		"balloon_payment": 12000.0,
	})
	require.NoError(t, err)

	result := out.(*calculations.ComparisonResult)
	assert.Equal(t, calculations.FinanceHP, result.CheaperType)
	assert.Greater(t, result.MonthlySaving, 0.0)
}

func TestOwnershipCostTool(t *testing.T) {
	params := hpParams()
	params["months_elapsed"] = 12.0
	params["current_mileage"] = 10000.0

	out, err := testRegistry().Call(context.Background(), "ownership_cost", params)
	require.NoError(t, err)

	summary := out.(calculations.OwnershipSummary)
	assert.Equal(t, 12, summary.MonthsOwned)
	assert.InDelta(t, 5592.6, summary.PaymentsMade, 0.01)
}
