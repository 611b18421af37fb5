package calculations

import "fmt"

// Action рекомендуемое действие владельца
type Action string

const (
	ActionSellNow Action = "sell_now"
	ActionWait    Action = "wait"
	ActionHold    Action = "hold"
)

// Advice итог "продавать сейчас или ждать"
type Advice struct {
	CurrentMonth   int               `json:"current_month"`
	Current        ProjectionEntry   `json:"current"`
	Window         SwapWindow        `json:"window"`
	BreakEvenMonth int               `json:"break_even_month"`
	MonthsToWindow int               `json:"months_to_window"`
	Action         Action            `json:"action"`
	Recommendation string            `json:"recommendation"`
	Projection     []ProjectionEntry `json:"projection"`
}

// Advise строит проекцию, анализирует окно и формулирует рекомендацию для текущего месяца
func Advise(v Vehicle, f Financing, opts ProjectionOptions) Advice {
	entries := GenerateProjection(v, f, opts)
	current := max(f.MonthsElapsed, 0)
	if current >= len(entries) {
		current = len(entries) - 1
	}

	window := AnalyzeSwapWindow(entries, current)
	advice := Advice{
		CurrentMonth:   current,
		Current:        entries[current],
		Window:         window,
		BreakEvenMonth: BreakEvenMonth(entries),
		MonthsToWindow: -1,
		Projection:     entries,
	}

	switch {
	case !window.Found:
		advice.Action = ActionHold
		advice.Recommendation = "Selling would leave money owed in every projected month. Keep the car and keep paying down the finance."
	case window.IsInWindow && current >= window.PeakMonth:
		advice.Action = ActionSellNow
		advice.MonthsToWindow = 0
		advice.Recommendation = fmt.Sprintf("Equity has peaked at %.0f. This is a good time to sell or swap.", window.PeakEquity)
	case window.IsInWindow:
		advice.Action = ActionWait
		advice.MonthsToWindow = 0
		advice.Recommendation = fmt.Sprintf("You can already sell without owing money; equity keeps growing until month %d (%.0f).",
			window.PeakMonth, window.PeakEquity)
	case current < window.StartMonth:
		advice.Action = ActionWait
		advice.MonthsToWindow = window.StartMonth - current
		advice.Recommendation = fmt.Sprintf("Wait %d months: the swap window opens at month %d.",
			advice.MonthsToWindow, window.StartMonth)
	default:
		advice.Action = ActionHold
		advice.Recommendation = fmt.Sprintf("The swap window closed at month %d. Selling now means settling the shortfall.", window.EndMonth)
	}

	return advice
}
