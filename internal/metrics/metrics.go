// Package metrics содержит счетчики Prometheus для бота.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "walriust"

// CommandUnrecognized - метка для сообщений, которые не удалось разобрать
const CommandUnrecognized = "unrecognized"

type Metrics struct {
	Commands             *prometheus.CounterVec
	TransactionsRecorded *prometheus.CounterVec
	AmountRecorded       *prometheus.CounterVec
	Failures             *prometheus.CounterVec
	HandleDuration       prometheus.Histogram
}

// New регистрирует метрики в reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Commands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Chat messages handled, by parsed command.",
		}, []string{"command"}),
		TransactionsRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_recorded_total",
			Help:      "Transactions persisted, by category.",
		}, []string{"category"}),
		AmountRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "amount_recorded_cents_total",
			Help:      "Sum of non-negative recorded amounts in cents, by category.",
		}, []string{"category"}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed operations, by stage.",
		}, []string{"stage"}),
		HandleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "message_handle_seconds",
			Help:      "Time spent handling one chat message including replies.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// ObserveCommand учитывает разобранную команду
func (m *Metrics) ObserveCommand(command string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(command).Inc()
}

// ObserveTransaction учитывает записанную транзакцию
func (m *Metrics) ObserveTransaction(category string, amount int64) {
	if m == nil {
		return
	}
	m.TransactionsRecorded.WithLabelValues(category).Inc()
	if amount > 0 {
		m.AmountRecorded.WithLabelValues(category).Add(float64(amount))
	}
}

// ObserveFailure учитывает ошибку на этапе stage
func (m *Metrics) ObserveFailure(stage string) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(stage).Inc()
}

// ObserveDuration записывает время обработки сообщения
func (m *Metrics) ObserveDuration(seconds float64) {
	if m == nil {
		return
	}
	m.HandleDuration.Observe(seconds)
}

// Handler отдает метрики из g в формате Prometheus
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
