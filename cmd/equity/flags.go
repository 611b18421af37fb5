package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// dealFlags описание автомобиля и договора из флагов командной строки
type dealFlags struct {
	category      string
	price         float64
	mileage       float64
	annualMileage float64
	financeType   string
	loan          float64
	aprPercent    float64
	term          int
	payment       float64
	elapsed       int
	balloon       float64
}

func (d *dealFlags) registerVehicle(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.category, "category", "economy", "vehicle category (economy, premium, electric, exotic)")
	cmd.Flags().Float64Var(&d.price, "price", 0, "retail price when new")
	cmd.Flags().Float64Var(&d.mileage, "mileage", 0, "current odometer reading")
	cmd.Flags().Float64Var(&d.annualMileage, "annual-mileage", 0, "expected annual mileage (default 10000)")
}

func (d *dealFlags) registerFinancing(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.financeType, "finance", "hp", "finance type (cash, hp, pcp)")
	cmd.Flags().Float64Var(&d.loan, "loan", 0, "original loan amount")
	cmd.Flags().Float64Var(&d.aprPercent, "apr", 0, "annual percentage rate, in percent")
	cmd.Flags().IntVar(&d.term, "term", 0, "contract term in months")
	cmd.Flags().Float64Var(&d.payment, "payment", 0, "monthly payment (calculated when omitted)")
	cmd.Flags().IntVar(&d.elapsed, "elapsed", 0, "months elapsed since the contract started")
	cmd.Flags().Float64Var(&d.balloon, "balloon", 0, "PCP balloon payment")
}

// params параметры в формате инструментов
func (d *dealFlags) params(cmd *cobra.Command) map[string]interface{} {
	params := map[string]interface{}{
		"category":        d.category,
		"retail_price":    d.price,
		"current_mileage": d.mileage,
		"finance_type":    d.financeType,
		"original_loan":   d.loan,
		"apr_percent":     d.aprPercent,
		"term_months":     float64(d.term),
		"months_elapsed":  float64(d.elapsed),
		"balloon_payment": d.balloon,
	}
	if d.annualMileage > 0 {
		params["expected_annual_mileage"] = d.annualMileage
	}
	if cmd.Flags().Changed("payment") {
		params["monthly_payment"] = d.payment
	}
	return params
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
