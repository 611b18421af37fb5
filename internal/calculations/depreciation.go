package calculations

import (
	"math"

	"github.com/cloud-ru/vehicle-equity-go/pkg/utils"
)

const (
	// DefaultAnnualMileage используется, если ожидаемый пробег не задан
	DefaultAnnualMileage = 10000.0

	// PrivateSalePremium надбавка частной продажи к цене выкупа дилером
	PrivateSalePremium = 1.12

	mileageStepMiles     = 5000.0
	mileageStepAdjust    = 0.02
	minMileageFactor     = 0.7
	maxMileageFactor     = 1.3
	earlyPhaseMonths     = 12
	middlePhaseMonths    = 36
	earlyPhaseMultiplier = 1.15
	midPhaseMultiplier   = 0.95
	latePhaseMultiplier  = 0.65
)

// categoryRates параметры амортизации категории
type categoryRates struct {
	driveOff    float64
	monthlyRate float64
}

var depreciationRates = [categoryCount]categoryRates{
	CategoryEconomy:  {driveOff: 0.12, monthlyRate: 0.0040},
	CategoryPremium:  {driveOff: 0.15, monthlyRate: 0.0042},
	CategoryElectric: {driveOff: 0.18, monthlyRate: 0.0052},
	CategoryExotic:   {driveOff: 0.08, monthlyRate: 0.0023},
}

func ratesFor(c Category) categoryRates {
	if !c.IsValid() {
		return depreciationRates[CategoryEconomy]
	}
	return depreciationRates[c]
}

// DriveOffRate доля мгновенной потери стоимости после покупки
func DriveOffRate(c Category) float64 {
	return ratesFor(c).driveOff
}

// MonthlyDepreciationRate базовая месячная ставка амортизации категории
func MonthlyDepreciationRate(c Category) float64 {
	return ratesFor(c).monthlyRate
}

// MileageFactor корректирующий множитель за отклонение пробега от линейного графика.
// Каждые 5000 миль сверх графика снижают стоимость на 2%, недобег повышает.
// Итоговый множитель ограничен отрезком [0.7; 1.3].
func MileageFactor(monthsOwned int, currentMileage, expectedAnnualMileage float64) float64 {
	if expectedAnnualMileage <= 0 {
		expectedAnnualMileage = DefaultAnnualMileage
	}
	expected := expectedAnnualMileage / 12.0 * float64(max(monthsOwned, 0))
	deviation := currentMileage - expected
	adjustment := -(deviation / mileageStepMiles) * mileageStepAdjust
	return utils.Clamp(1.0+adjustment, minMileageFactor, maxMileageFactor)
}

// TradeInValue оценка выкупа автомобиля дилером через monthsOwned месяцев владения
func TradeInValue(retailPrice float64, category Category, monthsOwned int, currentMileage, expectedAnnualMileage float64) float64 {
	rates := ratesFor(category)
	afterDriveOff := retailPrice * (1.0 - rates.driveOff)
	depreciated := afterDriveOff * math.Pow(1.0-rates.monthlyRate, float64(max(monthsOwned, 0)))
	value := depreciated * MileageFactor(monthsOwned, currentMileage, expectedAnnualMileage)
	return utils.NonNegative(value)
}

// PrivateValue оценка частной продажи
func PrivateValue(tradeInValue float64) float64 {
	return tradeInValue * PrivateSalePremium
}

// phaseMultiplier множитель базовой ставки для month-го месяца (с единицы)
func phaseMultiplier(month int) float64 {
	switch {
	case month <= earlyPhaseMonths:
		return earlyPhaseMultiplier
	case month <= middlePhaseMonths:
		return midPhaseMultiplier
	default:
		return latePhaseMultiplier
	}
}

// ForecastValue долгосрочный прогноз стоимости по трехфазной кривой:
// первые 12 месяцев ставка 1.15x от базовой, месяцы 13-36 - 0.95x, дальше 0.65x.
// Пробег не учитывается.
func ForecastValue(retailPrice float64, category Category, months int) float64 {
	rates := ratesFor(category)
	value := retailPrice * (1.0 - rates.driveOff)
	for m := 1; m <= months; m++ {
		value *= 1.0 - rates.monthlyRate*phaseMultiplier(m)
	}
	return utils.NonNegative(value)
}

// CurvePoint точка кривой амортизации
type CurvePoint struct {
	Month           int     `json:"month"`
	Value           float64 `json:"value"`
	DepreciationPct float64 `json:"depreciation_percent"`
}

// DepreciationCurve помесячная трехфазная кривая от 0 до months включительно
func DepreciationCurve(retailPrice float64, category Category, months int) []CurvePoint {
	if months < 0 {
		months = 0
	}
	rates := ratesFor(category)
	curve := make([]CurvePoint, 0, months+1)
	value := retailPrice * (1.0 - rates.driveOff)
	for m := 0; m <= months; m++ {
		if m > 0 {
			value *= 1.0 - rates.monthlyRate*phaseMultiplier(m)
		}
		var pct float64
		if retailPrice > 0 {
			pct = utils.Round2((1.0 - value/retailPrice) * 100)
		}
		curve = append(curve, CurvePoint{
			Month:           m,
			Value:           utils.Round2(utils.NonNegative(value)),
			DepreciationPct: pct,
		})
	}
	return curve
}
