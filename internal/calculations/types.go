package calculations

import (
	"fmt"
	"strings"
)

// Category классифицирует автомобиль по характеру амортизации.
// Значение фиксируется при создании автомобиля и дальше не меняется.
type Category int

const (
	CategoryEconomy Category = iota
	CategoryPremium
	CategoryElectric
	CategoryExotic

	categoryCount
)

var categoryNames = [categoryCount]string{
	CategoryEconomy:  "economy",
	CategoryPremium:  "premium",
	CategoryElectric: "electric",
	CategoryExotic:   "exotic",
}

// AllCategories возвращает все категории в порядке объявления
func AllCategories() []Category {
	return []Category{CategoryEconomy, CategoryPremium, CategoryElectric, CategoryExotic}
}

// IsValid проверяет, что категория входит в фиксированный набор
func (c Category) IsValid() bool {
	return c >= 0 && c < categoryCount
}

func (c Category) String() string {
	if !c.IsValid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory разбирает название категории без учета регистра
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown vehicle category %q", s)
}

// MarshalText сериализует категорию по имени
func (c Category) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("invalid vehicle category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText разбирает категорию по имени
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FinanceType тип финансирования
type FinanceType string

const (
	FinanceCash FinanceType = "cash"
	FinanceHP   FinanceType = "hp"
	FinancePCP  FinanceType = "pcp"
)

// IsValid проверяет тип финансирования
func (f FinanceType) IsValid() bool {
	switch f {
	case FinanceCash, FinanceHP, FinancePCP:
		return true
	}
	return false
}

// ParseFinanceType разбирает тип финансирования без учета регистра
func ParseFinanceType(s string) (FinanceType, error) {
	f := FinanceType(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("unknown finance type %q", s)
	}
	return f, nil
}

// Vehicle описывает автомобиль на момент расчета
type Vehicle struct {
	Make                  string   `json:"make"`
	Model                 string   `json:"model"`
	Year                  int      `json:"year"`
	Category              Category `json:"category"`
	RetailPrice           float64  `json:"retail_price"`
	CurrentMileage        float64  `json:"current_mileage"`
	ExpectedAnnualMileage float64  `json:"expected_annual_mileage,omitempty"`
}

// AnnualMileage возвращает ожидаемый годовой пробег с учетом значения по умолчанию
func (v Vehicle) AnnualMileage() float64 {
	if v.ExpectedAnnualMileage <= 0 {
		return DefaultAnnualMileage
	}
	return v.ExpectedAnnualMileage
}

// Financing описывает договор финансирования.
// APR задается долей (0.045 = 4.5%). BalloonPayment ненулевой только для PCP.
type Financing struct {
	Type           FinanceType `json:"type"`
	OriginalLoan   float64     `json:"original_loan"`
	APR            float64     `json:"apr"`
	TermMonths     int         `json:"term_months"`
	MonthlyPayment float64     `json:"monthly_payment"`
	MonthsElapsed  int         `json:"months_elapsed"`
	BalloonPayment float64     `json:"balloon_payment,omitempty"`
}

// SettlementResult сумма досрочного погашения на заданный месяц
type SettlementResult struct {
	PrincipalRemaining float64 `json:"principal_remaining"`
	InterestPenalty    float64 `json:"interest_penalty"`
	TotalSettlement    float64 `json:"total_settlement"`
	MonthsRemaining    int     `json:"months_remaining"`
}

// Status качественная оценка денежной позиции
type Status string

const (
	StatusWinning   Status = "winning"
	StatusLosing    Status = "losing"
	StatusBreakeven Status = "breakeven"
)

// CashPositions денежная позиция при продаже дилеру и частному лицу
type CashPositions struct {
	TradeIn float64 `json:"trade_in"`
	Private float64 `json:"private"`
}

// ProjectionEntry одна строка помесячной проекции
type ProjectionEntry struct {
	Month          int           `json:"month"`
	TradeInValue   float64       `json:"trade_in_value"`
	PrivateValue   float64       `json:"private_value"`
	Settlement     float64       `json:"settlement"`
	CashPosition   CashPositions `json:"cash_position"`
	Status         Status        `json:"status"`
	IsContractEnd  bool          `json:"is_contract_end"`
	IsBalloonDue   bool          `json:"is_balloon_due"`
	IsBreakEven    bool          `json:"is_break_even"`
	IsOptimalMonth bool          `json:"is_optimal_month"`
}

// SwapWindow сводка по окну, в котором продажа не требует доплаты.
// StartMonth и EndMonth равны -1, если такого месяца нет.
type SwapWindow struct {
	StartMonth int     `json:"start_month"`
	EndMonth   int     `json:"end_month"`
	PeakMonth  int     `json:"peak_month"`
	PeakEquity float64 `json:"peak_equity"`
	IsInWindow bool    `json:"is_in_window"`
	Found      bool    `json:"found"`
}

// Condition состояние автомобиля для оценки остаточной стоимости
type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

// ParseCondition разбирает состояние без учета регистра
func ParseCondition(s string) (Condition, error) {
	c := Condition(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return c, nil
	}
	return "", fmt.Errorf("unknown vehicle condition %q", s)
}

// ScheduleEntry строка графика погашения
type ScheduleEntry struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Interest           float64 `json:"interest"`
	PrincipalComponent float64 `json:"principal_component"`
	RemainingPrincipal float64 `json:"remaining_principal"`
	CumulativeInterest float64 `json:"cumulative_interest"`
}

// QuoteSummary сводка по котировке финансирования
type QuoteSummary struct {
	Type           FinanceType `json:"type"`
	Principal      float64     `json:"principal"`
	APRPercent     float64     `json:"apr_percent"`
	TermMonths     int         `json:"term_months"`
	BalloonPayment float64     `json:"balloon_payment,omitempty"`
	MonthlyPayment float64     `json:"monthly_payment"`
	TotalPaid      float64     `json:"total_paid"`
	TotalInterest  float64     `json:"total_interest"`
}

// QuoteResult котировка вместе с графиком
type QuoteResult struct {
	Summary  QuoteSummary    `json:"summary"`
	Schedule []ScheduleEntry `json:"schedule"`
}

// ComparisonResult сравнение HP и PCP для одного автомобиля
type ComparisonResult struct {
	HP             QuoteSummary `json:"hp"`
	PCP            QuoteSummary `json:"pcp"`
	MonthlySaving  float64      `json:"monthly_saving"`
	TotalPaidDiff  float64      `json:"total_paid_diff"`
	InterestDiff   float64      `json:"interest_diff"`
	CheaperType    FinanceType  `json:"cheaper_type,omitempty"`
	Recommendation string       `json:"recommendation"`
}

// OwnershipSummary стоимость владения на текущий месяц
type OwnershipSummary struct {
	MonthsOwned       int     `json:"months_owned"`
	PaymentsMade      float64 `json:"payments_made"`
	InterestPaid      float64 `json:"interest_paid"`
	Depreciation      float64 `json:"depreciation"`
	DepreciationPct   float64 `json:"depreciation_percent"`
	CurrentValue      float64 `json:"current_value"`
	Settlement        float64 `json:"settlement"`
	Equity            float64 `json:"equity"`
	CostPerMonth      float64 `json:"cost_per_month"`
	AnnualizedLossPct float64 `json:"annualized_loss_percent"`
}
