package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloud-ru/vehicle-equity-go/internal/calculations"
)

func (a *app) settleCmd() *cobra.Command {
	var (
		deal   dealFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Calculate the early settlement figure for HP or PCP finance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := a.registry()
			if err != nil {
				return err
			}
			out, err := registry.Call(cmd.Context(), "settlement", deal.params(cmd))
			if err != nil {
				return err
			}
			result := out.(calculations.SettlementResult)

			if asJSON {
				return printJSON(cmd, result)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, titleStyle.Render("Settlement"))
			fmt.Fprintf(w, "Principal remaining: %s\n", money(result.PrincipalRemaining))
			fmt.Fprintf(w, "Interest penalty:    %s\n", money(result.InterestPenalty))
			fmt.Fprintf(w, "Total settlement:    %s\n", headerStyle.Render(money(result.TotalSettlement)))
			fmt.Fprintf(w, "Months remaining:    %d\n", result.MonthsRemaining)
			return nil
		},
	}

	deal.registerFinancing(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (a *app) residualCmd() *cobra.Command {
	var (
		category  string
		price     float64
		term      int
		mileage   float64
		annual    float64
		age       float64
		condition string
		trend     float64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "residual",
		Short: "Estimate the PCP balloon (guaranteed future value)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := a.registry()
			if err != nil {
				return err
			}

			params := map[string]interface{}{
				"category":       category,
				"purchase_price": price,
				"term_months":    float64(term),
			}
			optional := map[string]string{
				"mileage":        "current_mileage",
				"annual-mileage": "expected_annual_mileage",
				"age":            "age_years",
				"trend":          "market_trend_factor",
			}
			values := map[string]float64{"mileage": mileage, "annual-mileage": annual, "age": age, "trend": trend}
			for flag, key := range optional {
				if cmd.Flags().Changed(flag) {
					params[key] = values[flag]
				}
			}
			if condition != "" {
				params["condition"] = condition
			}

			out, err := registry.Call(cmd.Context(), "residual_estimate", params)
			if err != nil {
				return err
			}
			estimate := out.(calculations.BalloonEstimate)

			if asJSON {
				return printJSON(cmd, estimate)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, titleStyle.Render("Balloon estimate"))
			fmt.Fprintf(w, "Estimated balloon: %s (range %s - %s)\n",
				headerStyle.Render(money(estimate.Estimated)), money(estimate.Min), money(estimate.Max))
			fmt.Fprintf(w, "Base residual:     %.1f%%\n", estimate.BaseResidualPercent*100)
			fmt.Fprintf(w, "Adjustments:       mileage %+.1f%%, age %+.1f%%, condition %+.1f%%, market x%.2f\n",
				estimate.MileageAdjustment*100, estimate.YearAdjustment*100,
				estimate.ConditionAdjustment*100, estimate.MarketTrendFactor)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "economy", "vehicle category")
	cmd.Flags().Float64Var(&price, "price", 0, "purchase price")
	cmd.Flags().IntVar(&term, "term", 36, "contract term in months")
	cmd.Flags().Float64Var(&mileage, "mileage", 0, "current mileage")
	cmd.Flags().Float64Var(&annual, "annual-mileage", 0, "expected annual mileage")
	cmd.Flags().Float64Var(&age, "age", 0, "vehicle age in years")
	cmd.Flags().StringVar(&condition, "condition", "", "condition (excellent, good, fair, poor)")
	cmd.Flags().Float64Var(&trend, "trend", 1, "market trend multiplier")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// loanFlags условия будущего договора
type loanFlags struct {
	principal  float64
	aprPercent float64
	term       int
	balloon    float64
}

func (l *loanFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&l.principal, "principal", 0, "amount to finance")
	cmd.Flags().Float64Var(&l.aprPercent, "apr", 0, "annual percentage rate, in percent")
	cmd.Flags().IntVar(&l.term, "term", 48, "term in months")
	cmd.Flags().Float64Var(&l.balloon, "balloon", 0, "PCP balloon payment")
}

func (l *loanFlags) params() map[string]interface{} {
	return map[string]interface{}{
		"principal":       l.principal,
		"apr_percent":     l.aprPercent,
		"term_months":     float64(l.term),
		"balloon_payment": l.balloon,
	}
}

func (a *app) quoteCmd() *cobra.Command {
	var (
		loan         loanFlags
		financeType  string
		showSchedule bool
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote the monthly payment for HP or PCP finance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := a.registry()
			if err != nil {
				return err
			}
			params := loan.params()
			params["finance_type"] = financeType

			out, err := registry.Call(cmd.Context(), "finance_quote", params)
			if err != nil {
				return err
			}
			quote := out.(*calculations.QuoteResult)

			if asJSON {
				return printJSON(cmd, quote)
			}
			w := cmd.OutOrStdout()
			s := quote.Summary
			fmt.Fprintln(w, titleStyle.Render(strings.ToUpper(string(s.Type))+" quote"))
			fmt.Fprintf(w, "Monthly payment: %s\n", headerStyle.Render(money(s.MonthlyPayment)))
			if s.BalloonPayment > 0 {
				fmt.Fprintf(w, "Balloon:         %s\n", money(s.BalloonPayment))
			}
			fmt.Fprintf(w, "Total paid:      %s\n", money(s.TotalPaid))
			fmt.Fprintf(w, "Total interest:  %s\n", money(s.TotalInterest))

			if showSchedule {
				fmt.Fprintln(w)
				fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%5s  %10s  %10s  %10s  %12s",
					"Month", "Payment", "Interest", "Principal", "Remaining")))
				for _, e := range quote.Schedule {
					fmt.Fprintf(w, "%5d  %10s  %10s  %10s  %12s\n", e.Month,
						money(e.Payment), money(e.Interest), money(e.PrincipalComponent), money(e.RemainingPrincipal))
				}
			}
			return nil
		},
	}

	loan.register(cmd)
	cmd.Flags().StringVar(&financeType, "type", "hp", "finance type (hp, pcp)")
	cmd.Flags().BoolVar(&showSchedule, "schedule", false, "print the month-by-month schedule")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (a *app) compareCmd() *cobra.Command {
	var (
		loan   loanFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare HP and PCP on the same terms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := a.registry()
			if err != nil {
				return err
			}
			out, err := registry.Call(cmd.Context(), "compare_financing", loan.params())
			if err != nil {
				return err
			}
			result := out.(*calculations.ComparisonResult)

			if asJSON {
				return printJSON(cmd, result)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, titleStyle.Render("HP vs PCP"))
			fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-5s  %12s  %12s  %12s", "Type", "Monthly", "Total paid", "Interest")))
			for _, s := range []calculations.QuoteSummary{result.HP, result.PCP} {
				fmt.Fprintf(w, "%-5s  %12s  %12s  %12s\n", strings.ToUpper(string(s.Type)),
					money(s.MonthlyPayment), money(s.TotalPaid), money(s.TotalInterest))
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, boxStyle.Render(result.Recommendation))
			return nil
		},
	}

	loan.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
