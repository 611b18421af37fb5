package calculations

import (
	"math"
	"sort"

	"github.com/cloud-ru/vehicle-equity-go/pkg/utils"
)

const (
	// BalloonVarianceBand относительная ширина диапазона оценки балуна
	BalloonVarianceBand = 0.05

	residualMileageStep    = 5000.0
	residualMileageAdjust  = 0.02
	maxResidualMileageAdj  = 0.15
	residualAgeAdjust      = 0.03
	maxResidualAgePenalty  = 0.20
	defaultMarketTrend     = 1.0
	residualYearsBeforeAge = 1.0
)

// ResidualTable остаточная стоимость (доля цены) по категории и сроку договора в месяцах
type ResidualTable map[Category]map[int]float64

// DefaultResidualTable встроенная таблица остаточных стоимостей
func DefaultResidualTable() ResidualTable {
	return ResidualTable{
		CategoryEconomy:  {24: 0.55, 36: 0.47, 48: 0.40, 60: 0.34},
		CategoryPremium:  {24: 0.52, 36: 0.44, 48: 0.37, 60: 0.31},
		CategoryElectric: {24: 0.48, 36: 0.40, 48: 0.33, 60: 0.27},
		CategoryExotic:   {24: 0.65, 36: 0.59, 48: 0.54, 60: 0.50},
	}
}

// InterpolateResidual ищет долю остаточной стоимости для срока term.
// Точное совпадение возвращается как есть, за пределами таблицы берется ближайшая граница,
// между известными сроками - линейная интерполяция. ok=false, если для категории нет данных.
func InterpolateResidual(table ResidualTable, category Category, term int) (float64, bool) {
	points := table[category]
	if len(points) == 0 {
		return 0, false
	}
	if v, exact := points[term]; exact {
		return v, true
	}

	terms := make([]int, 0, len(points))
	for t := range points {
		terms = append(terms, t)
	}
	sort.Ints(terms)

	if term <= terms[0] {
		return points[terms[0]], true
	}
	last := terms[len(terms)-1]
	if term >= last {
		return points[last], true
	}

	upperIdx := sort.SearchInts(terms, term)
	lowerTerm, upperTerm := terms[upperIdx-1], terms[upperIdx]
	lower, upper := points[lowerTerm], points[upperTerm]
	if upperTerm == lowerTerm {
		return lower, true
	}
	return lower + (upper-lower)*float64(term-lowerTerm)/float64(upperTerm-lowerTerm), true
}

// BalloonRequest входные данные для оценки балуна PCP.
// Необязательные поля задаются указателями; отсутствие поля означает нулевую поправку.
type BalloonRequest struct {
	PurchasePrice         float64    `json:"purchase_price"`
	TermMonths            int        `json:"term_months"`
	Category              Category   `json:"category"`
	CurrentMileage        *float64   `json:"current_mileage,omitempty"`
	ExpectedAnnualMileage *float64   `json:"expected_annual_mileage,omitempty"`
	AgeYears              *float64   `json:"age_years,omitempty"`
	Condition             *Condition `json:"condition,omitempty"`
	MarketTrendFactor     *float64   `json:"market_trend_factor,omitempty"`
}

// BalloonEstimate результат оценки. При ошибке все суммы нулевые, а Error заполнен.
type BalloonEstimate struct {
	Estimated           float64 `json:"estimated"`
	Min                 float64 `json:"min"`
	Max                 float64 `json:"max"`
	BaseResidualPercent float64 `json:"base_residual_percent"`
	MileageAdjustment   float64 `json:"mileage_adjustment"`
	YearAdjustment      float64 `json:"year_adjustment"`
	ConditionAdjustment float64 `json:"condition_adjustment"`
	MarketTrendFactor   float64 `json:"market_trend_factor"`
	Error               string  `json:"error,omitempty"`
}

// ConditionAdjustment поправка за состояние автомобиля
func ConditionAdjustment(c Condition) float64 {
	switch c {
	case ConditionExcellent:
		return 0.05
	case ConditionFair:
		return -0.07
	case ConditionPoor:
		return -0.15
	default:
		return 0
	}
}

// residualMileageAdjustment -2% за каждые 5000 миль сверх ожидаемого для возраста пробега.
// Без пробега или возраста поправка нулевая.
func residualMileageAdjustment(req BalloonRequest) float64 {
	if req.CurrentMileage == nil || req.AgeYears == nil {
		return 0
	}
	annual := DefaultAnnualMileage
	if req.ExpectedAnnualMileage != nil && *req.ExpectedAnnualMileage > 0 {
		annual = *req.ExpectedAnnualMileage
	}
	expected := annual * math.Max(*req.AgeYears, 0)
	adj := -((*req.CurrentMileage - expected) / residualMileageStep) * residualMileageAdjust
	return utils.Clamp(adj, -maxResidualMileageAdj, maxResidualMileageAdj)
}

// residualYearAdjustment -3% за каждый год возраста после первого
func residualYearAdjustment(req BalloonRequest) float64 {
	if req.AgeYears == nil {
		return 0
	}
	extra := *req.AgeYears - residualYearsBeforeAge
	if extra <= 0 {
		return 0
	}
	return math.Max(-extra*residualAgeAdjust, -maxResidualAgePenalty)
}

// EstimateBalloon оценивает балун (GMFV) для еще не подписанного PCP.
// Некорректные цена или срок не приводят к панике: возвращается нулевой результат с Error.
func EstimateBalloon(req BalloonRequest, table ResidualTable) BalloonEstimate {
	return EstimateBalloonWithVariance(req, table, BalloonVarianceBand)
}

// EstimateBalloonWithVariance как EstimateBalloon, но с заданной шириной диапазона min/max
func EstimateBalloonWithVariance(req BalloonRequest, table ResidualTable, variance float64) BalloonEstimate {
	if variance < 0 || !utils.IsFinite(variance) {
		variance = BalloonVarianceBand
	}
	if !utils.IsFinite(req.PurchasePrice) || req.PurchasePrice <= 0 {
		return BalloonEstimate{Error: "purchase price must be greater than zero"}
	}
	if req.TermMonths <= 0 {
		return BalloonEstimate{Error: "term must be greater than zero months"}
	}
	if table == nil {
		table = DefaultResidualTable()
	}

	base, ok := InterpolateResidual(table, req.Category, req.TermMonths)
	if !ok {
		return BalloonEstimate{Error: "no residual data for category " + req.Category.String()}
	}

	mileageAdj := residualMileageAdjustment(req)
	yearAdj := residualYearAdjustment(req)
	var conditionAdj float64
	if req.Condition != nil {
		conditionAdj = ConditionAdjustment(*req.Condition)
	}
	trend := defaultMarketTrend
	if req.MarketTrendFactor != nil && *req.MarketTrendFactor > 0 {
		trend = *req.MarketTrendFactor
	}

	estimated := math.Round(req.PurchasePrice * base * (1 + mileageAdj) * (1 + yearAdj) * (1 + conditionAdj) * trend)

	return BalloonEstimate{
		Estimated:           estimated,
		Min:                 math.Round(estimated * (1 - variance)),
		Max:                 math.Round(estimated * (1 + variance)),
		BaseResidualPercent: base,
		MileageAdjustment:   mileageAdj,
		YearAdjustment:      yearAdj,
		ConditionAdjustment: conditionAdj,
		MarketTrendFactor:   trend,
	}
}
