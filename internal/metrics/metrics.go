// Package metrics records ledger activity with Prometheus collectors.
//
// Metrics are never served over HTTP. WriteTextfile writes them in the
// format read by the node_exporter textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "splitledger"

// Operation results used as the result label.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultPartial  = "partial"
	ResultError    = "error"
)

// Metrics holds the collectors for one ledger process.
type Metrics struct {
	registry *prometheus.Registry

	Operations     *prometheus.CounterVec
	ExpenseAmount  *prometheus.CounterVec
	UnknownEntries prometheus.Counter
	Participants   prometheus.Gauge
	Expenses       prometheus.Gauge
}

// New creates Metrics registered on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Ledger operations by name and result.",
		}, []string{"operation", "result"}),
		ExpenseAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expense_amount_total",
			Help:      "Sum of recorded expense amounts by split type.",
		}, []string{"split"}),
		UnknownEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_share_entries_total",
			Help:      "Custom shares that named a participant not in the ledger.",
		}),
		Participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "participants",
			Help:      "Number of participants in the ledger.",
		}),
		Expenses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expenses",
			Help:      "Number of recorded expenses.",
		}),
	}
	m.registry.MustRegister(m.Operations, m.ExpenseAmount, m.UnknownEntries, m.Participants, m.Expenses)
	return m
}

// Observe counts one operation outcome.
func (m *Metrics) Observe(operation, result string) {
	m.Operations.WithLabelValues(operation, result).Inc()
}

// AddExpense adds a recorded expense amount under its split type.
func (m *Metrics) AddExpense(split string, amount decimal.Decimal) {
	m.ExpenseAmount.WithLabelValues(split).Add(amount.InexactFloat64())
}

// SetSize sets the participant and expense gauges.
func (m *Metrics) SetSize(participants, expenses int) {
	m.Participants.Set(float64(participants))
	m.Expenses.Set(float64(expenses))
}

// Gatherer exposes the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
