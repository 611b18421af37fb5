package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cloud-ru/vehicle-equity-go/internal/calculations"
)

func (a *app) projectCmd() *cobra.Command {
	var (
		deal      dealFlags
		vehicleID string
		band      float64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project the cash position month by month and find the swap window",
		Long: `Project trade-in value, settlement and cash position for every month of the
contract plus six months after it, then report the swap window and whether to
sell now or wait.

Describe the deal with flags, or pass --vehicle to use a car from the garage.`,
		Example: `  equity project --category premium --price 48000 --mileage 9000 \
    --finance pcp --loan 43000 --apr 6.9 --term 48 --elapsed 12 --balloon 18000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var advice calculations.Advice

			if vehicleID != "" {
				repo, closeFn, err := a.openSavedGarage(ctx)
				if err != nil {
					return err
				}
				defer closeFn()

				rec, err := loadRecord(ctx, repo, vehicleID)
				if err != nil {
					return err
				}
				opts := calculations.ProjectionOptions{}.WithBreakEvenBand(a.cfg.BreakEvenBand)
				if cmd.Flags().Changed("band") {
					opts = opts.WithBreakEvenBand(band)
				}
				advice = calculations.Advise(rec.Vehicle, rec.Financing, opts)
			} else {
				registry, err := a.registry()
				if err != nil {
					return err
				}
				params := deal.params(cmd)
				if cmd.Flags().Changed("band") {
					params["break_even_band"] = band
				}
				out, err := registry.Call(ctx, "swap_window", params)
				if err != nil {
					return err
				}
				advice = out.(calculations.Advice)
			}

			if asJSON {
				return printJSON(cmd, advice)
			}
			renderAdvice(cmd.OutOrStdout(), advice)
			return nil
		},
	}

	deal.registerVehicle(cmd)
	deal.registerFinancing(cmd)
	cmd.Flags().StringVar(&vehicleID, "vehicle", "", "garage vehicle id")
	cmd.Flags().Float64Var(&band, "band", calculations.DefaultBreakEvenBand, "break-even band half-width")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func projectionNotes(e calculations.ProjectionEntry, currentMonth int) string {
	var notes []string
	if e.Month == currentMonth {
		notes = append(notes, "now")
	}
	if e.IsBreakEven {
		notes = append(notes, "break-even")
	}
	if e.IsContractEnd {
		notes = append(notes, "contract end")
	}
	if e.IsBalloonDue {
		notes = append(notes, "balloon due")
	}
	if e.IsOptimalMonth {
		notes = append(notes, "optimal")
	}
	return strings.Join(notes, ", ")
}

func renderAdvice(w io.Writer, advice calculations.Advice) {
	fmt.Fprintln(w, titleStyle.Render("Equity projection"))

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%5s  %12s  %12s  %12s  %12s  %-10s  %s",
		"Month", "Trade-in", "Private", "Settlement", "Position", "Status", "Notes")))
	fmt.Fprintln(w, subtleStyle.Render(strings.Repeat("─", 86)))

	for _, e := range advice.Projection {
		status := statusStyle(e.Status).Render(fmt.Sprintf("%-10s", e.Status))
		fmt.Fprintf(w, "%5d  %12s  %12s  %12s  %12s  %s  %s\n",
			e.Month,
			money(e.TradeInValue),
			money(e.PrivateValue),
			money(e.Settlement),
			money(e.CashPosition.TradeIn),
			status,
			projectionNotes(e, advice.CurrentMonth))
	}
	fmt.Fprintln(w)

	var summary []string
	if advice.Window.Found {
		summary = append(summary,
			fmt.Sprintf("Swap window: months %d-%d", advice.Window.StartMonth, advice.Window.EndMonth),
			fmt.Sprintf("Peak equity: %s at month %d", money(advice.Window.PeakEquity), advice.Window.PeakMonth))
	} else {
		summary = append(summary, "Swap window: none in the projection")
	}
	if advice.BreakEvenMonth >= 0 {
		summary = append(summary, fmt.Sprintf("Break-even: month %d", advice.BreakEvenMonth))
	}
	summary = append(summary, "", headerStyle.Render(string(advice.Action))+"  "+advice.Recommendation)

	fmt.Fprintln(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, summary...)))
}
