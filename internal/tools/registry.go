package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/vehicle-equity-go/internal/calculations"
	"github.com/cloud-ru/vehicle-equity-go/internal/config"
)

// ErrUnknownTool возвращается при вызове незарегистрированного инструмента
var ErrUnknownTool = errors.New("unknown tool")

// Tool зарегистрированный инструмент
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Handler     ToolHandler `json:"-"`
}

// Registry набор инструментов по имени
type Registry struct {
	tools map[string]Tool
}

// NewRegistry регистрирует все инструменты движка
func NewRegistry(cfg *config.Config, tracer trace.Tracer, table calculations.ResidualTable) *Registry {
	r := &Registry{tools: make(map[string]Tool)}

	r.Register("trade_in_value", "Trade-in and private sale value after a number of months of ownership",
		TradeInValueHandler(cfg, tracer))
	r.Register("depreciation_curve", "Phased month-by-month depreciation forecast",
		DepreciationCurveHandler(cfg, tracer))
	r.Register("settlement", "Early settlement figure for HP or PCP finance",
		SettlementHandler(cfg, tracer))
	r.Register("equity_projection", "Month-by-month cash position projection",
		EquityProjectionHandler(cfg, tracer))
	r.Register("swap_window", "Swap window and sell-or-wait recommendation",
		SwapWindowHandler(cfg, tracer))
	r.Register("residual_estimate", "PCP balloon (guaranteed future value) estimate",
		ResidualEstimateHandler(cfg, tracer, table))
	r.Register("finance_quote", "Monthly payment and balance schedule for HP or PCP",
		FinanceQuoteHandler(cfg, tracer))
	r.Register("compare_financing", "HP versus PCP cost comparison",
		CompareFinancingHandler(cfg, tracer))
	r.Register("ownership_cost", "Cost of ownership to date",
		OwnershipCostHandler(cfg, tracer))

	return r
}

// Register добавляет или заменяет инструмент
func (r *Registry) Register(name, description string, handler ToolHandler) {
	r.tools[name] = Tool{Name: name, Description: description, Handler: handler}
}

// Get ищет инструмент по имени
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List возвращает инструменты в алфавитном порядке
func (r *Registry) List() []Tool {
	list := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Call вызывает инструмент по имени
func (r *Registry) Call(ctx context.Context, name string, params map[string]interface{}) (interface{}, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if params == nil {
		params = map[string]interface{}{}
	}
	return t.Handler(ctx, params)
}
