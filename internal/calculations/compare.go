package calculations

import (
	"github.com/cloud-ru/vehicle-equity-go/pkg/utils"
)

// CompareFinancing сравнивает HP и PCP на одинаковых сумме, ставке и сроке.
// Для PCP балун считается частью общей суммы выплат: его нужно внести, чтобы оставить автомобиль.
func CompareFinancing(principal, aprPercent float64, months int, balloon float64) (*ComparisonResult, error) {
	hp, err := FinanceQuote(FinanceHP, principal, aprPercent, months, 0)
	if err != nil {
		return nil, err
	}

	pcp, err := FinanceQuote(FinancePCP, principal, aprPercent, months, balloon)
	if err != nil {
		return nil, err
	}

	totalPaidDiff := utils.Round2(hp.Summary.TotalPaid - pcp.Summary.TotalPaid)
	interestDiff := utils.Round2(hp.Summary.TotalInterest - pcp.Summary.TotalInterest)
	monthlySaving := utils.Round2(hp.Summary.MonthlyPayment - pcp.Summary.MonthlyPayment)

	var cheaper FinanceType
	var recommendation string

	switch {
	case totalPaidDiff > 0:
		cheaper = FinancePCP
		recommendation = "PCP is cheaper in total, including the balloon payment."
	case totalPaidDiff < 0:
		cheaper = FinanceHP
		recommendation = "HP is cheaper in total: the PCP balloon carries interest for the whole term. " +
			"PCP keeps monthly payments lower and leaves the option to hand the car back."
	default:
		recommendation = "Both options cost the same in total."
	}

	return &ComparisonResult{
		HP:             hp.Summary,
		PCP:            pcp.Summary,
		MonthlySaving:  monthlySaving,
		TotalPaidDiff:  totalPaidDiff,
		InterestDiff:   interestDiff,
		CheaperType:    cheaper,
		Recommendation: recommendation,
	}, nil
}
