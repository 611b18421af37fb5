package tools

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/cloud-ru/vehicle-equity-go/internal/calculations"
)

// Параметры приходят из JSON, поэтому числа обычно float64.
// Для вызовов из Go допускаются и целые типы.

func numberParam(params map[string]interface{}, name string) (float64, bool, error) {
	raw, present := params[name]
	if !present || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, true, nil
	case float32:
		return float64(v), true, nil
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, true, fmt.Errorf("invalid parameter: %s", name)
		}
		return f, true, nil
	default:
		return 0, true, fmt.Errorf("invalid parameter: %s", name)
	}
}

func floatParam(params map[string]interface{}, name string) (float64, error) {
	v, present, err := numberParam(params, name)
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, fmt.Errorf("missing parameter: %s", name)
	}
	return v, nil
}

func optionalFloat(params map[string]interface{}, name string, def float64) (float64, error) {
	v, present, err := numberParam(params, name)
	if err != nil || !present {
		return def, err
	}
	return v, nil
}

func optionalFloatPtr(params map[string]interface{}, name string) (*float64, error) {
	v, present, err := numberParam(params, name)
	if err != nil || !present {
		return nil, err
	}
	return &v, nil
}

func intParam(params map[string]interface{}, name string) (int, error) {
	v, err := floatParam(params, name)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("invalid parameter: %s must be a whole number", name)
	}
	return int(v), nil
}

func optionalInt(params map[string]interface{}, name string, def int) (int, error) {
	if _, present, _ := numberParam(params, name); !present {
		return def, nil
	}
	return intParam(params, name)
}

func stringParam(params map[string]interface{}, name string) (string, error) {
	v, ok := params[name].(string)
	if !ok {
		return "", fmt.Errorf("invalid parameter: %s", name)
	}
	return v, nil
}

func optionalString(params map[string]interface{}, name string) string {
	v, _ := params[name].(string)
	return v
}

func categoryParam(params map[string]interface{}) (calculations.Category, error) {
	name, err := stringParam(params, "category")
	if err != nil {
		return 0, err
	}
	return calculations.ParseCategory(name)
}

// VehicleFromParams собирает Vehicle из параметров инструмента
func VehicleFromParams(params map[string]interface{}) (calculations.Vehicle, error) {
	var v calculations.Vehicle

	category, err := categoryParam(params)
	if err != nil {
		return v, err
	}
	price, err := floatParam(params, "retail_price")
	if err != nil {
		return v, err
	}
	mileage, err := optionalFloat(params, "current_mileage", 0)
	if err != nil {
		return v, err
	}
	annual, err := optionalFloat(params, "expected_annual_mileage", 0)
	if err != nil {
		return v, err
	}
	year, err := optionalInt(params, "year", 0)
	if err != nil {
		return v, err
	}

	return calculations.Vehicle{
		Make:                  optionalString(params, "make"),
		Model:                 optionalString(params, "model"),
		Year:                  year,
		Category:              category,
		RetailPrice:           price,
		CurrentMileage:        mileage,
		ExpectedAnnualMileage: annual,
	}, nil
}

// FinancingFromParams собирает Financing из параметров инструмента.
// Ставка передается в процентах (apr_percent). Если monthly_payment не задан,
// он рассчитывается по условиям договора.
func FinancingFromParams(params map[string]interface{}) (calculations.Financing, error) {
	var f calculations.Financing

	typeName, err := stringParam(params, "finance_type")
	if err != nil {
		return f, err
	}
	financeType, err := calculations.ParseFinanceType(typeName)
	if err != nil {
		return f, err
	}
	elapsed, err := optionalInt(params, "months_elapsed", 0)
	if err != nil {
		return f, err
	}
	if financeType == calculations.FinanceCash {
		return calculations.Financing{Type: financeType, MonthsElapsed: elapsed}, nil
	}

	loan, err := floatParam(params, "original_loan")
	if err != nil {
		return f, err
	}
	aprPercent, err := floatParam(params, "apr_percent")
	if err != nil {
		return f, err
	}
	term, err := intParam(params, "term_months")
	if err != nil {
		return f, err
	}
	balloon, err := optionalFloat(params, "balloon_payment", 0)
	if err != nil {
		return f, err
	}
	payment, present, err := numberParam(params, "monthly_payment")
	if err != nil {
		return f, err
	}
	if !present {
		payment = calculations.MonthlyPayment(financeType, loan, aprPercent/100.0, term, balloon)
	}

	return calculations.Financing{
		Type:           financeType,
		OriginalLoan:   loan,
		APR:            aprPercent / 100.0,
		TermMonths:     term,
		MonthlyPayment: payment,
		MonthsElapsed:  elapsed,
		BalloonPayment: balloon,
	}, nil
}
