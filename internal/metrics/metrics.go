package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToolCalls счетчик вызовов инструментов
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "equity_tool_calls_total",
			Help: "Общее количество вызовов инструментов",
		},
		[]string{"tool_name", "status"},
	)

	// CalculationErrors счетчик ошибок расчетов
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "equity_calculation_errors_total",
			Help: "Количество ошибок расчетов",
		},
		[]string{"tool_name", "error_type"},
	)

	// APICalls счетчик вызовов API
	APICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "equity_api_calls_total",
			Help: "Вызовы API инструментов",
		},
		[]string{"service", "endpoint", "status"},
	)

	// ProjectionMonths распределение длины построенных проекций
	ProjectionMonths = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "equity_projection_months",
			Help:    "Число месяцев в построенных проекциях",
			Buckets: []float64{12, 24, 36, 48, 60, 72, 96, 132},
		},
	)

	// StorageOperations счетчик операций с хранилищем гаража
	StorageOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "equity_storage_operations_total",
			Help: "Операции с хранилищем гаража",
		},
		[]string{"backend", "operation", "status"},
	)
)

// RecordToolError учитывает неуспешный вызов инструмента во всех счетчиках сразу
func RecordToolError(toolName, status, errorType string) {
	ToolCalls.WithLabelValues(toolName, status).Inc()
	CalculationErrors.WithLabelValues(toolName, errorType).Inc()
	APICalls.WithLabelValues("tools", toolName, "error").Inc()
}

// RecordToolSuccess учитывает успешный вызов инструмента
func RecordToolSuccess(toolName string) {
	ToolCalls.WithLabelValues(toolName, "success").Inc()
	APICalls.WithLabelValues("tools", toolName, "success").Inc()
}
