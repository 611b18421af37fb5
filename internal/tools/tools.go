package tools

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/vehicle-equity-go/internal/calculations"
	"github.com/cloud-ru/vehicle-equity-go/internal/config"
	"github.com/cloud-ru/vehicle-equity-go/internal/metrics"
	"github.com/cloud-ru/vehicle-equity-go/internal/validators"
	"github.com/cloud-ru/vehicle-equity-go/pkg/utils"
)

// ToolHandler обработчик инструмента: параметры из JSON -> результат расчета
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// ErrInvalidParams оборачивает ошибки разбора и валидации параметров
var ErrInvalidParams = errors.New("invalid parameters")

func started(toolName string) {
	metrics.APICalls.WithLabelValues("tools", toolName, "started").Inc()
}

// invalid учитывает ошибку параметров и помечает спан
func invalid(span trace.Span, toolName string, err error) error {
	span.SetAttributes(attribute.String("error", "validation_error"))
	span.SetStatus(codes.Error, err.Error())
	metrics.RecordToolError(toolName, "validation_error", "validation")
	return fmt.Errorf("%w: %w", ErrInvalidParams, err)
}

// failed учитывает ошибку расчета
func failed(span trace.Span, toolName string, err error) error {
	span.SetAttributes(attribute.String("error", "calculation_error"))
	span.SetStatus(codes.Error, err.Error())
	metrics.RecordToolError(toolName, "error", "calculation")
	return fmt.Errorf("calculation failed: %w", err)
}

func succeeded(span trace.Span, toolName string) {
	span.SetAttributes(attribute.Bool("success", true))
	metrics.RecordToolSuccess(toolName)
}

func vehicleAttributes(v calculations.Vehicle) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("category", v.Category.String()),
		attribute.Float64("retail_price", v.RetailPrice),
		attribute.Float64("current_mileage", v.CurrentMileage),
	}
}

func financingAttributes(f calculations.Financing) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("finance_type", string(f.Type)),
		attribute.Float64("original_loan", f.OriginalLoan),
		attribute.Float64("apr", f.APR),
		attribute.Int("term_months", f.TermMonths),
		attribute.Int("months_elapsed", f.MonthsElapsed),
	}
}

// ParseVehicleAndFinancing разбирает и проверяет описание автомобиля и договора
func ParseVehicleAndFinancing(cfg *config.Config, params map[string]interface{}) (calculations.Vehicle, calculations.Financing, error) {
	v, err := VehicleFromParams(params)
	if err != nil {
		return v, calculations.Financing{}, err
	}
	f, err := FinancingFromParams(params)
	if err != nil {
		return v, f, err
	}
	if err := errors.Join(validators.CheckVehicle(cfg, v), validators.CheckFinancing(cfg, f)); err != nil {
		return v, f, err
	}
	return v, f, nil
}

func projectionOptions(cfg *config.Config, params map[string]interface{}) (calculations.ProjectionOptions, error) {
	band, err := optionalFloat(params, "break_even_band", cfg.BreakEvenBand)
	if err != nil {
		return calculations.ProjectionOptions{}, err
	}
	if err := validators.ValidatePositiveNumber("break_even_band", band, 0, cfg.MaxPrice); err != nil {
		return calculations.ProjectionOptions{}, err
	}
	return calculations.ProjectionOptions{}.WithBreakEvenBand(band), nil
}

// TradeInValueResult оценка стоимости автомобиля на заданный месяц владения
type TradeInValueResult struct {
	MonthsOwned   int     `json:"months_owned"`
	TradeInValue  float64 `json:"trade_in_value"`
	PrivateValue  float64 `json:"private_value"`
	DriveOffRate  float64 `json:"drive_off_rate"`
	MileageFactor float64 `json:"mileage_factor"`
}

// TradeInValueHandler оценивает стоимость выкупа дилером и частной продажи
func TradeInValueHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := "trade_in_value"

		_, span := tracer.Start(ctx, toolName)
		defer span.End()
		started(toolName)

		v, err := VehicleFromParams(params)
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		monthsOwned, err := intParam(params, "months_owned")
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		span.SetAttributes(vehicleAttributes(v)...)
		span.SetAttributes(attribute.Int("months_owned", monthsOwned))

		if err := errors.Join(validators.CheckVehicle(cfg, v), validators.CheckElapsed(cfg, monthsOwned)); err != nil {
			return nil, invalid(span, toolName, err)
		}

		tradeIn := calculations.TradeInValue(v.RetailPrice, v.Category, monthsOwned, v.CurrentMileage, v.AnnualMileage())
		result := TradeInValueResult{
			MonthsOwned:   monthsOwned,
			TradeInValue:  utils.Round2(tradeIn),
			PrivateValue:  utils.Round2(calculations.PrivateValue(tradeIn)),
			DriveOffRate:  calculations.DriveOffRate(v.Category),
			MileageFactor: calculations.MileageFactor(monthsOwned, v.CurrentMileage, v.AnnualMileage()),
		}

		succeeded(span, toolName)
		return result, nil
	}
}

// DepreciationCurveHandler строит кривую амортизации по фазам
func DepreciationCurveHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := "depreciation_curve"

		_, span := tracer.Start(ctx, toolName)
		defer span.End()
		started(toolName)

		category, err := categoryParam(params)
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		price, err := floatParam(params, "retail_price")
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		months, err := intParam(params, "months")
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		span.SetAttributes(
			attribute.String("category", category.String()),
			attribute.Float64("retail_price", price),
			attribute.Int("months", months),
		)

		if err := errors.Join(validators.CheckPrice(cfg, "retail_price", price), validators.CheckTerm(cfg, months)); err != nil {
			return nil, invalid(span, toolName, err)
		}

		curve := calculations.DepreciationCurve(price, category, months)

		succeeded(span, toolName)
		return curve, nil
	}
}

// SettlementHandler рассчитывает сумму досрочного погашения
func SettlementHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := "settlement"

		_, span := tracer.Start(ctx, toolName)
		defer span.End()
		started(toolName)

		f, err := FinancingFromParams(params)
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		span.SetAttributes(financingAttributes(f)...)

		if err := validators.CheckFinancing(cfg, f); err != nil {
			return nil, invalid(span, toolName, err)
		}

		result := calculations.Settlement(f)

		span.SetAttributes(attribute.Float64("total_settlement", result.TotalSettlement))
		succeeded(span, toolName)
		return result, nil
	}
}

// ProjectionResult помесячная проекция с итогами
type ProjectionResult struct {
	Projection     []calculations.ProjectionEntry `json:"projection"`
	BreakEvenMonth int                            `json:"break_even_month"`
	OptimalMonth   int                            `json:"optimal_month"`
	Window         calculations.SwapWindow        `json:"window"`
}

// BuildProjection строит проекцию и сводку по ней
func BuildProjection(v calculations.Vehicle, f calculations.Financing, opts calculations.ProjectionOptions) ProjectionResult {
	entries := calculations.GenerateProjection(v, f, opts)
	metrics.ProjectionMonths.Observe(float64(len(entries)))

	optimalMonth := -1
	if optimal, ok := calculations.OptimalEntry(entries); ok {
		optimalMonth = optimal.Month
	}

	return ProjectionResult{
		Projection:     entries,
		BreakEvenMonth: calculations.BreakEvenMonth(entries),
		OptimalMonth:   optimalMonth,
		Window:         calculations.AnalyzeSwapWindow(entries, f.MonthsElapsed),
	}
}

// EquityProjectionHandler строит помесячную проекцию денежной позиции
func EquityProjectionHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := "equity_projection"

		_, span := tracer.Start(ctx, toolName)
		defer span.End()
		started(toolName)

		v, f, err := ParseVehicleAndFinancing(cfg, params)
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		opts, err := projectionOptions(cfg, params)
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		span.SetAttributes(vehicleAttributes(v)...)
		span.SetAttributes(financingAttributes(f)...)

		result := BuildProjection(v, f, opts)

		span.SetAttributes(
			attribute.Int("projection_months", len(result.Projection)),
			attribute.Int("break_even_month", result.BreakEvenMonth),
		)
		succeeded(span, toolName)
		return result, nil
	}
}

// SwapWindowHandler находит окно продажи и дает рекомендацию на текущий месяц
func SwapWindowHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := "swap_window"

		_, span := tracer.Start(ctx, toolName)
		defer span.End()
		started(toolName)

		v, f, err := ParseVehicleAndFinancing(cfg, params)
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		opts, err := projectionOptions(cfg, params)
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		span.SetAttributes(vehicleAttributes(v)...)
		span.SetAttributes(financingAttributes(f)...)

		advice := calculations.Advise(v, f, opts)
		metrics.ProjectionMonths.Observe(float64(len(advice.Projection)))

		span.SetAttributes(
			attribute.String("action", string(advice.Action)),
			attribute.Bool("window_found", advice.Window.Found),
		)
		succeeded(span, toolName)
		return advice, nil
	}
}

// ResidualEstimateHandler оценивает балун для будущего PCP
func ResidualEstimateHandler(cfg *config.Config, tracer trace.Tracer, table calculations.ResidualTable) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := "residual_estimate"

		_, span := tracer.Start(ctx, toolName)
		defer span.End()
		started(toolName)

		req, err := balloonRequestFromParams(params)
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		span.SetAttributes(
			attribute.String("category", req.Category.String()),
			attribute.Float64("purchase_price", req.PurchasePrice),
			attribute.Int("term_months", req.TermMonths),
		)

		if err := validators.ValidateIntRange("term_months", req.TermMonths, 1, cfg.MaxMonths); err != nil {
			return nil, invalid(span, toolName, err)
		}

		estimate := calculations.EstimateBalloonWithVariance(req, table, cfg.BalloonVariance)
		if estimate.Error != "" {
			return nil, failed(span, toolName, errors.New(estimate.Error))
		}

		succeeded(span, toolName)
		return estimate, nil
	}
}

func balloonRequestFromParams(params map[string]interface{}) (calculations.BalloonRequest, error) {
	var req calculations.BalloonRequest

	category, err := categoryParam(params)
	if err != nil {
		return req, err
	}
	price, err := floatParam(params, "purchase_price")
	if err != nil {
		return req, err
	}
	term, err := intParam(params, "term_months")
	if err != nil {
		return req, err
	}
	req = calculations.BalloonRequest{PurchasePrice: price, TermMonths: term, Category: category}

	if req.CurrentMileage, err = optionalFloatPtr(params, "current_mileage"); err != nil {
		return req, err
	}
	if req.ExpectedAnnualMileage, err = optionalFloatPtr(params, "expected_annual_mileage"); err != nil {
		return req, err
	}
	if req.AgeYears, err = optionalFloatPtr(params, "age_years"); err != nil {
		return req, err
	}
	if req.MarketTrendFactor, err = optionalFloatPtr(params, "market_trend_factor"); err != nil {
		return req, err
	}
	if raw := optionalString(params, "condition"); raw != "" {
		c, err := calculations.ParseCondition(raw)
		if err != nil {
			return req, err
		}
		req.Condition = &c
	}
	return req, nil
}

// loanTerms разбирает условия еще не подписанного договора
func loanTerms(cfg *config.Config, params map[string]interface{}) (principal, aprPercent float64, months int, balloon float64, err error) {
	if principal, err = floatParam(params, "principal"); err != nil {
		return
	}
	if aprPercent, err = floatParam(params, "apr_percent"); err != nil {
		return
	}
	if months, err = intParam(params, "term_months"); err != nil {
		return
	}
	if balloon, err = optionalFloat(params, "balloon_payment", 0); err != nil {
		return
	}
	err = errors.Join(
		validators.CheckPrice(cfg, "principal", principal),
		validators.CheckAPRPercent(cfg, aprPercent),
		validators.CheckTerm(cfg, months),
		validators.CheckBalloon(principal, balloon),
	)
	return
}

// FinanceQuoteHandler рассчитывает платеж и график для HP или PCP
func FinanceQuoteHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := "finance_quote"

		_, span := tracer.Start(ctx, toolName)
		defer span.End()
		started(toolName)

		typeName, err := stringParam(params, "finance_type")
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		financeType, err := calculations.ParseFinanceType(typeName)
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		principal, aprPercent, months, balloon, err := loanTerms(cfg, params)
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		span.SetAttributes(
			attribute.String("finance_type", string(financeType)),
			attribute.Float64("principal", principal),
			attribute.Float64("apr_percent", aprPercent),
			attribute.Int("term_months", months),
			attribute.Float64("balloon_payment", balloon),
		)

		result, err := calculations.FinanceQuote(financeType, principal, aprPercent, months, balloon)
		if err != nil {
			return nil, failed(span, toolName, err)
		}

		succeeded(span, toolName)
		return result, nil
	}
}

// CompareFinancingHandler сравнивает HP и PCP на одинаковых условиях
func CompareFinancingHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := "compare_financing"

		_, span := tracer.Start(ctx, toolName)
		defer span.End()
		started(toolName)

		principal, aprPercent, months, balloon, err := loanTerms(cfg, params)
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		span.SetAttributes(
			attribute.Float64("principal", principal),
			attribute.Float64("apr_percent", aprPercent),
			attribute.Int("term_months", months),
			attribute.Float64("balloon_payment", balloon),
		)

		result, err := calculations.CompareFinancing(principal, aprPercent, months, balloon)
		if err != nil {
			return nil, failed(span, toolName, err)
		}

		span.SetAttributes(attribute.String("cheaper_type", string(result.CheaperType)))
		succeeded(span, toolName)
		return result, nil
	}
}

// OwnershipCostHandler считает стоимость владения на текущий месяц
func OwnershipCostHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := "ownership_cost"

		_, span := tracer.Start(ctx, toolName)
		defer span.End()
		started(toolName)

		v, f, err := ParseVehicleAndFinancing(cfg, params)
		if err != nil {
			return nil, invalid(span, toolName, err)
		}
		span.SetAttributes(vehicleAttributes(v)...)
		span.SetAttributes(financingAttributes(f)...)

		result := calculations.OwnershipCost(v, f)

		succeeded(span, toolName)
		return result, nil
	}
}
