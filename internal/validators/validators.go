package validators

import (
	"errors"
	"fmt"

	"github.com/cloud-ru/vehicle-equity-go/internal/calculations"
	"github.com/cloud-ru/vehicle-equity-go/internal/config"
	"github.com/cloud-ru/vehicle-equity-go/pkg/utils"
)

// ValidatePositiveNumber проверяет, что число конечно и лежит в допустимом диапазоне
func ValidatePositiveNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("%s: value is not a finite number", name)
	}
	if value < minInclusive {
		return fmt.Errorf("%s: value must be >= %g", name, minInclusive)
	}
	if value > maxInclusive {
		return fmt.Errorf("%s: value is too large (>%g)", name, maxInclusive)
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fmt.Errorf("%s: value must be in range [%d; %d]", name, minInclusive, maxInclusive)
	}
	return nil
}

// CheckPrice проверяет розничную цену или сумму кредита
func CheckPrice(cfg *config.Config, name string, price float64) error {
	return ValidatePositiveNumber(name, price, 1e-9, cfg.MaxPrice)
}

// CheckAPRPercent проверяет годовую ставку в процентах
func CheckAPRPercent(cfg *config.Config, aprPercent float64) error {
	return ValidatePositiveNumber("apr_percent", aprPercent, 0.0, cfg.MaxAPRPercent)
}

// CheckTerm проверяет срок договора в месяцах
func CheckTerm(cfg *config.Config, months int) error {
	return ValidateIntRange("term_months", months, 1, cfg.MaxMonths)
}

// CheckElapsed проверяет число прошедших месяцев
func CheckElapsed(cfg *config.Config, elapsed int) error {
	return ValidateIntRange("months_elapsed", elapsed, 0, cfg.MaxMonths)
}

// CheckMileage проверяет пробег (текущий или годовой)
func CheckMileage(cfg *config.Config, name string, mileage float64) error {
	return ValidatePositiveNumber(name, mileage, 0.0, cfg.MaxMileage)
}

// CheckBalloon проверяет, что балун не превышает сумму кредита
func CheckBalloon(loan, balloon float64) error {
	if err := ValidatePositiveNumber("balloon_payment", balloon, 0.0, loan); err != nil {
		return fmt.Errorf("%w (balloon cannot exceed the loan)", err)
	}
	return nil
}

// CheckVehicle проверяет описание автомобиля
func CheckVehicle(cfg *config.Config, v calculations.Vehicle) error {
	var errs []error
	if !v.Category.IsValid() {
		errs = append(errs, fmt.Errorf("category: unknown category %d", int(v.Category)))
	}
	if err := CheckPrice(cfg, "retail_price", v.RetailPrice); err != nil {
		errs = append(errs, err)
	}
	if err := CheckMileage(cfg, "current_mileage", v.CurrentMileage); err != nil {
		errs = append(errs, err)
	}
	if err := CheckMileage(cfg, "expected_annual_mileage", v.ExpectedAnnualMileage); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// CheckFinancing проверяет договор финансирования. APR в Financing задан долей.
func CheckFinancing(cfg *config.Config, f calculations.Financing) error {
	if !f.Type.IsValid() {
		return fmt.Errorf("finance_type: unknown finance type %q", f.Type)
	}
	if err := CheckElapsed(cfg, f.MonthsElapsed); err != nil {
		return err
	}
	if f.Type == calculations.FinanceCash {
		return nil
	}

	var errs []error
	if err := CheckPrice(cfg, "original_loan", f.OriginalLoan); err != nil {
		errs = append(errs, err)
	}
	if err := CheckAPRPercent(cfg, f.APR*100); err != nil {
		errs = append(errs, err)
	}
	if err := CheckTerm(cfg, f.TermMonths); err != nil {
		errs = append(errs, err)
	}
	if err := ValidatePositiveNumber("monthly_payment", f.MonthlyPayment, 0.0, cfg.MaxPrice); err != nil {
		errs = append(errs, err)
	}
	if f.Type == calculations.FinancePCP {
		if err := CheckBalloon(f.OriginalLoan, f.BalloonPayment); err != nil {
			errs = append(errs, err)
		}
	} else if f.BalloonPayment != 0 {
		errs = append(errs, errors.New("balloon_payment: only pcp financing has a balloon"))
	}
	return errors.Join(errs...)
}
