package calculations

import (
	"math"

	"github.com/cloud-ru/vehicle-equity-go/pkg/utils"
)

// OwnershipCost считает стоимость владения на текущий месяц договора:
// сколько уже выплачено, сколько из этого проценты, сколько съела амортизация
// и какова денежная позиция при продаже дилеру.
func OwnershipCost(v Vehicle, f Financing) OwnershipSummary {
	monthsOwned := max(f.MonthsElapsed, 0)

	current := ProjectMonth(v, f, monthsOwned, DefaultBreakEvenBand)
	depreciation := utils.NonNegative(v.RetailPrice - current.TradeInValue)

	paidMonths := monthsOwned
	if f.TermMonths > 0 {
		paidMonths = min(monthsOwned, f.TermMonths)
	}

	var paymentsMade, interestPaid float64
	if f.Type != FinanceCash {
		paymentsMade = f.MonthlyPayment * float64(paidMonths)

		// Проценты: выплачено минус погашенная часть основного долга
		at := f
		at.MonthsElapsed = paidMonths
		principalRepaid := f.OriginalLoan - Settlement(at).PrincipalRemaining
		interestPaid = utils.NonNegative(paymentsMade - principalRepaid)
	}

	var depreciationPct float64
	if v.RetailPrice > 0 {
		depreciationPct = utils.Round2(depreciation / v.RetailPrice * 100)
	}

	var costPerMonth float64
	if monthsOwned > 0 {
		costPerMonth = utils.Round2((depreciation + interestPaid) / float64(monthsOwned))
	}

	// Среднегодовая потеря стоимости
	var annualizedLoss float64
	years := float64(monthsOwned) / 12.0
	if years > 0 && v.RetailPrice > 0 && current.TradeInValue > 0 {
		annualizedLoss = utils.Round2((1.0 - math.Pow(current.TradeInValue/v.RetailPrice, 1.0/years)) * 100)
	}

	return OwnershipSummary{
		MonthsOwned:       monthsOwned,
		PaymentsMade:      utils.Round2(paymentsMade),
		InterestPaid:      utils.Round2(interestPaid),
		Depreciation:      utils.Round2(depreciation),
		DepreciationPct:   depreciationPct,
		CurrentValue:      current.TradeInValue,
		Settlement:        current.Settlement,
		Equity:            current.CashPosition.TradeIn,
		CostPerMonth:      costPerMonth,
		AnnualizedLossPct: annualizedLoss,
	}
}
