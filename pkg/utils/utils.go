package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 округляет денежную сумму до 2 знаков после запятой.
// Округление идет через decimal, чтобы 1.005 давало 1.01, а не 1.00.
func Round2(value float64) float64 {
	if !IsFinite(value) {
		return value
	}
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// Clamp ограничивает значение отрезком [lo; hi]
func Clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}

// NonNegative обрезает отрицательные значения до нуля
func NonNegative(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
}
