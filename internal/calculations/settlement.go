package calculations

import (
	"math"

	"github.com/cloud-ru/vehicle-equity-go/pkg/utils"
)

const (
	// BalloonDominanceMonths порог, после которого остаток PCP пересчитывается от балуна
	BalloonDominanceMonths = 3

	// EarlySettlementPenaltyMonths число месяцев процентов в штрафе за досрочное погашение
	EarlySettlementPenaltyMonths = 2
)

// Settlement рассчитывает сумму досрочного погашения на месяц f.MonthsElapsed.
// Прошедшие месяцы ограничиваются отрезком [0; TermMonths].
func Settlement(f Financing) SettlementResult {
	if f.Type == FinanceCash || !f.Type.IsValid() || f.TermMonths <= 0 {
		return SettlementResult{}
	}

	elapsed := min(max(f.MonthsElapsed, 0), f.TermMonths)
	remainingMonths := f.TermMonths - elapsed
	r := f.APR / 12.0

	var principal float64
	switch f.Type {
	case FinanceHP:
		principal = hpRemainingPrincipal(f.OriginalLoan, r, f.TermMonths, elapsed)
	case FinancePCP:
		principal = pcpRemainingPrincipal(f.OriginalLoan, f.BalloonPayment, f.TermMonths, elapsed, remainingMonths)
	}
	principal = utils.NonNegative(principal)

	// В последний месяц договора погашение уже не досрочное
	var penalty float64
	if remainingMonths > 0 {
		penalty = utils.NonNegative(principal * r * EarlySettlementPenaltyMonths)
	}

	return SettlementResult{
		PrincipalRemaining: utils.Round2(principal),
		InterestPenalty:    utils.Round2(penalty),
		TotalSettlement:    utils.Round2(principal + penalty),
		MonthsRemaining:    remainingMonths,
	}
}

// hpRemainingPrincipal остаток по аннуитетной формуле
// B = P * ((1+r)^n - (1+r)^p) / ((1+r)^n - 1)
func hpRemainingPrincipal(loan, r float64, term, elapsed int) float64 {
	if r == 0.0 {
		return loan * (1.0 - float64(elapsed)/float64(term))
	}
	factor := math.Pow(1.0+r, float64(term))
	factorElapsed := math.Pow(1.0+r, float64(elapsed))
	return loan * (factor - factorElapsed) / (factor - 1.0)
}

// pcpRemainingPrincipal платежи гасят только часть (loan - balloon), балун остается до конца
func pcpRemainingPrincipal(loan, balloon float64, term, elapsed, remainingMonths int) float64 {
	amortizing := loan - balloon
	principalPerMonth := amortizing / float64(term)

	if remainingMonths <= BalloonDominanceMonths {
		return balloon + principalPerMonth*float64(remainingMonths)
	}
	return amortizing - principalPerMonth*float64(elapsed) + balloon
}
