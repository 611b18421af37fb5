package calculations

import (
	"github.com/cloud-ru/vehicle-equity-go/pkg/utils"
)

const (
	// DefaultBreakEvenBand полуширина зоны "в ноль" вокруг нулевой позиции, в валюте
	DefaultBreakEvenBand = 200.0

	// PostContractBufferMonths сколько месяцев проекция идет после окончания договора
	PostContractBufferMonths = 6

	// DefaultCashHorizonMonths горизонт проекции для покупки за наличные без срока
	DefaultCashHorizonMonths = 36
)

// ProjectionOptions настройки проекции. Незаданные значения заменяются значениями по умолчанию.
// BreakEvenBand равный нулю означает классификацию только по знаку позиции.
type ProjectionOptions struct {
	BreakEvenBand *float64
	BufferMonths  int
}

// WithBreakEvenBand копия настроек с заданной зоной "в ноль"
func (o ProjectionOptions) WithBreakEvenBand(band float64) ProjectionOptions {
	o.BreakEvenBand = &band
	return o
}

// Band зона "в ноль" с учетом значения по умолчанию
func (o ProjectionOptions) Band() float64 {
	if o.BreakEvenBand == nil || *o.BreakEvenBand < 0 || !utils.IsFinite(*o.BreakEvenBand) {
		return DefaultBreakEvenBand
	}
	return *o.BreakEvenBand
}

func (o ProjectionOptions) withDefaults() ProjectionOptions {
	o = o.WithBreakEvenBand(o.Band())
	if o.BufferMonths <= 0 {
		o.BufferMonths = PostContractBufferMonths
	}
	return o
}

// CashPosition денежная позиция: сколько останется (или придется доплатить) после продажи
func CashPosition(saleValue, settlement float64) float64 {
	return saleValue - settlement
}

// ClassifyStatus относит позицию к winning/losing/breakeven по симметричной зоне band
func ClassifyStatus(cashPosition, band float64) Status {
	switch {
	case cashPosition > band:
		return StatusWinning
	case cashPosition < -band:
		return StatusLosing
	default:
		return StatusBreakeven
	}
}

// ProjectionHorizon последний месяц проекции для договора
func ProjectionHorizon(f Financing, opts ProjectionOptions) int {
	opts = opts.withDefaults()
	term := f.TermMonths
	if f.Type == FinanceCash && term <= 0 {
		term = DefaultCashHorizonMonths
	}
	return max(term, 0) + opts.BufferMonths
}

// hasContractEnd у наличной покупки нет месяца окончания договора
func hasContractEnd(f Financing) bool {
	return f.Type != FinanceCash && f.TermMonths > 0
}

// ProjectedMileage пробег в месяце month при линейном годовом пробеге от текущего месяца
func ProjectedMileage(v Vehicle, currentMonth, month int) float64 {
	delta := float64(month - currentMonth)
	return utils.NonNegative(v.CurrentMileage + v.AnnualMileage()/12.0*delta)
}

// ProjectMonth считает одну строку проекции без пометок особых месяцев
func ProjectMonth(v Vehicle, f Financing, month int, band float64) ProjectionEntry {
	mileage := ProjectedMileage(v, f.MonthsElapsed, month)
	tradeIn := TradeInValue(v.RetailPrice, v.Category, month, mileage, v.AnnualMileage())
	private := PrivateValue(tradeIn)

	at := f
	at.MonthsElapsed = month
	settlement := Settlement(at).TotalSettlement

	position := CashPositions{
		TradeIn: utils.Round2(CashPosition(tradeIn, settlement)),
		Private: utils.Round2(CashPosition(private, settlement)),
	}

	return ProjectionEntry{
		Month:        month,
		TradeInValue: utils.Round2(tradeIn),
		PrivateValue: utils.Round2(private),
		Settlement:   settlement,
		CashPosition: position,
		Status:       ClassifyStatus(position.TradeIn, band),
	}
}

// GenerateProjection строит помесячную проекцию от 0 до срока договора плюс буфер.
// Ровно один месяц помечается оптимальным: первый с максимальной позицией при выкупе дилером.
func GenerateProjection(v Vehicle, f Financing, opts ProjectionOptions) []ProjectionEntry {
	opts = opts.withDefaults()
	horizon := ProjectionHorizon(f, opts)
	contractEnd := hasContractEnd(f)

	entries := make([]ProjectionEntry, 0, horizon+1)
	breakEvenFound := false

	for month := 0; month <= horizon; month++ {
		entry := ProjectMonth(v, f, month, opts.Band())

		if contractEnd && month == f.TermMonths {
			entry.IsContractEnd = true
			entry.IsBalloonDue = f.Type == FinancePCP
		}
		if !breakEvenFound && entry.CashPosition.TradeIn >= 0 {
			entry.IsBreakEven = true
			breakEvenFound = true
		}

		entries = append(entries, entry)
	}

	optimal := 0
	for i := range entries {
		if entries[i].CashPosition.TradeIn > entries[optimal].CashPosition.TradeIn {
			optimal = i
		}
	}
	entries[optimal].IsOptimalMonth = true

	return entries
}

// BreakEvenMonth месяц первой неотрицательной позиции, -1 если его нет
func BreakEvenMonth(entries []ProjectionEntry) int {
	for _, e := range entries {
		if e.IsBreakEven {
			return e.Month
		}
	}
	return -1
}

// OptimalEntry строка, помеченная оптимальной
func OptimalEntry(entries []ProjectionEntry) (ProjectionEntry, bool) {
	for _, e := range entries {
		if e.IsOptimalMonth {
			return e, true
		}
	}
	return ProjectionEntry{}, false
}
