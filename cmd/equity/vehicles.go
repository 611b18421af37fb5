package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloud-ru/vehicle-equity-go/internal/calculations"
	"github.com/cloud-ru/vehicle-equity-go/internal/tools"
	"github.com/cloud-ru/vehicle-equity-go/internal/validators"
)

func (a *app) vehiclesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "Manage the cars in your garage",
		Long: `Store cars with their finance agreements so projections can be rerun as the
contract progresses. Use --storage sqlite or --storage redis to keep the garage
between runs.`,
	}

	cmd.AddCommand(a.vehiclesAddCmd())
	cmd.AddCommand(a.vehiclesListCmd())
	cmd.AddCommand(a.vehiclesShowCmd())
	cmd.AddCommand(a.vehiclesPayCmd())
	cmd.AddCommand(a.vehiclesRemoveCmd())
	return cmd
}

func (a *app) vehiclesAddCmd() *cobra.Command {
	var (
		deal     dealFlags
		nickname string
		brand    string
		model    string
		year     int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a car to the garage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, closeFn, err := a.openSavedGarage(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			params := deal.params(cmd)
			params["make"] = brand
			params["model"] = model
			params["year"] = float64(year)

			v, f, err := tools.ParseVehicleAndFinancing(a.cfg, params)
			if err != nil {
				return err
			}

			rec, err := repo.Create(cmd.Context(), nickname, v, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", winningStyle.Render("Added"), rec.ID)
			return nil
		},
	}

	deal.registerVehicle(cmd)
	deal.registerFinancing(cmd)
	cmd.Flags().StringVar(&nickname, "name", "", "nickname")
	cmd.Flags().StringVar(&brand, "make", "", "manufacturer")
	cmd.Flags().StringVar(&model, "model", "", "model")
	cmd.Flags().IntVar(&year, "year", 0, "model year")
	return cmd
}

func (a *app) vehiclesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cars in the garage with their current position",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, closeFn, err := a.openSavedGarage(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			records, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(w, subtleStyle.Render("The garage is empty. Use 'equity vehicles add' to add a car."))
				return nil
			}

			fmt.Fprintln(w, titleStyle.Render("Garage"))
			fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-36s  %-20s  %-8s  %-4s  %6s  %12s  %-10s",
				"ID", "Car", "Category", "Fin", "Month", "Position", "Status")))
			band := a.cfg.BreakEvenBand
			for _, rec := range records {
				entry := calculations.ProjectMonth(rec.Vehicle, rec.Financing, rec.Financing.MonthsElapsed, band)
				name := rec.Nickname
				if name == "" {
					name = rec.Vehicle.Make + " " + rec.Vehicle.Model
				}
				fmt.Fprintf(w, "%-36s  %-20.20s  %-8s  %-4s  %6d  %12s  %s\n",
					rec.ID, name, rec.Vehicle.Category, rec.Financing.Type, rec.Financing.MonthsElapsed,
					money(entry.CashPosition.TradeIn),
					statusStyle(entry.Status).Render(string(entry.Status)))
			}
			return nil
		},
	}
}

func (a *app) vehiclesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored car as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := a.openSavedGarage(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			rec, err := loadRecord(cmd.Context(), repo, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, rec)
		},
	}
}

func (a *app) vehiclesPayCmd() *cobra.Command {
	var mileage float64

	cmd := &cobra.Command{
		Use:   "pay <id>",
		Short: "Record a monthly payment and optionally the new odometer reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validators.CheckMileage(a.cfg, "mileage", mileage); err != nil {
				return err
			}

			repo, closeFn, err := a.openSavedGarage(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			rec, err := loadRecord(cmd.Context(), repo, args[0])
			if err != nil {
				return err
			}
			rec, err = repo.RecordPayment(cmd.Context(), rec.ID, mileage)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Month %d of %d recorded\n", rec.Financing.MonthsElapsed, rec.Financing.TermMonths)
			return nil
		},
	}

	cmd.Flags().Float64Var(&mileage, "mileage", 0, "current odometer reading")
	return cmd
}

func (a *app) vehiclesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a car from the garage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := a.openSavedGarage(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			rec, err := loadRecord(cmd.Context(), repo, args[0])
			if err != nil {
				return err
			}
			if err := repo.Delete(cmd.Context(), rec.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", losingStyle.Render("Removed"), rec.ID)
			return nil
		},
	}
}
