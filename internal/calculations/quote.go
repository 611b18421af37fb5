package calculations

import (
	"fmt"
	"math"

	"github.com/cloud-ru/vehicle-equity-go/pkg/utils"
)

// MonthlyPayment рассчитывает фиксированный ежемесячный платеж.
// Для HP это обычный аннуитет, для PCP из суммы вычитается дисконтированный балун:
// M = (P - B/(1+r)^n) * r / (1 - (1+r)^-n). При нулевой ставке платеж линейный.
func MonthlyPayment(financeType FinanceType, principal, apr float64, months int, balloon float64) float64 {
	if financeType == FinanceCash || months <= 0 {
		return 0
	}
	if financeType != FinancePCP {
		balloon = 0
	}
	r := apr / 12.0
	n := float64(months)
	if r == 0.0 {
		return (principal - balloon) / n
	}
	discountedBalloon := balloon / math.Pow(1.0+r, n)
	return (principal - discountedBalloon) * r / (1.0 - math.Pow(1.0+r, -n))
}

// FinanceQuote строит котировку и график погашения для еще не подписанного договора.
// aprPercent задается в процентах годовых.
func FinanceQuote(financeType FinanceType, principal, aprPercent float64, months int, balloon float64) (*QuoteResult, error) {
	if financeType != FinanceHP && financeType != FinancePCP {
		return nil, fmt.Errorf("quote is only available for hp and pcp, got %q", financeType)
	}
	if months <= 0 {
		return nil, fmt.Errorf("term must be at least one month, got %d", months)
	}
	if financeType == FinanceHP {
		balloon = 0
	}
	if balloon > principal {
		return nil, fmt.Errorf("balloon payment %.2f exceeds principal %.2f", balloon, principal)
	}

	P := principal
	n := months
	r := aprPercent / 100.0 / 12.0
	monthlyPayment := MonthlyPayment(financeType, P, aprPercent/100.0, n, balloon)

	schedule := make([]ScheduleEntry, 0, n)
	remaining := P
	cumI := 0.0
	totalPaid := 0.0

	for m := 1; m <= n; m++ {
		interest := remaining * r
		principalComponent := monthlyPayment - interest
		monthly := monthlyPayment

		// Последний платеж добирает остаток до балуна (для HP до нуля)
		if m == n {
			principalComponent = remaining - balloon
			monthly = principalComponent + interest
		}

		interest = utils.Round2(interest)
		principalComponent = utils.Round2(principalComponent)
		monthly = utils.Round2(monthly)

		remaining = utils.Round2(remaining - principalComponent)
		cumI = utils.Round2(cumI + interest)
		totalPaid = utils.Round2(totalPaid + monthly)

		if remaining < balloon-0.01 {
			return nil, fmt.Errorf("численная ошибка: остаток кредита опустился ниже балуна")
		}

		schedule = append(schedule, ScheduleEntry{
			Month:              m,
			Payment:            monthly,
			Interest:           interest,
			PrincipalComponent: principalComponent,
			RemainingPrincipal: utils.NonNegative(remaining),
			CumulativeInterest: cumI,
		})
	}

	summary := QuoteSummary{
		Type:           financeType,
		Principal:      utils.Round2(P),
		APRPercent:     utils.Round2(aprPercent),
		TermMonths:     n,
		BalloonPayment: utils.Round2(balloon),
		MonthlyPayment: utils.Round2(monthlyPayment),
		TotalPaid:      utils.Round2(totalPaid + balloon),
		TotalInterest:  cumI,
	}

	return &QuoteResult{
		Summary:  summary,
		Schedule: schedule,
	}, nil
}
