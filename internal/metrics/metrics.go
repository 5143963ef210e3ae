// Package metrics exposes Prometheus collectors for the admin platform.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DepositMetrics implements the deposit service's metrics collector.
type DepositMetrics struct {
	TransitionsTotal      *prometheus.CounterVec
	DeductedAmountTotal   prometheus.Counter
	LedgerIncomeTotal     *prometheus.CounterVec
	AdvisoryFailuresTotal *prometheus.CounterVec
}

func NewDepositMetrics() *DepositMetrics {
	return &DepositMetrics{
		TransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deposit_transitions_total",
				Help: "Deposit lifecycle operations by operation and result",
			},
			[]string{"operation", "result"},
		),
		DeductedAmountTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "deposit_deducted_amount_total",
				Help: "Total amount deducted from merchant deposits over violations",
			},
		),
		LedgerIncomeTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "platform_ledger_income_total",
				Help: "Platform income booked to the ledger by income type",
			},
			[]string{"income_type"},
		),
		AdvisoryFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deposit_advisory_failures_total",
				Help: "Best-effort side effects that failed after a committed transition",
			},
			[]string{"operation", "effect"},
		),
	}
}

func (m *DepositMetrics) RecordTransition(operation, result string) {
	m.TransitionsTotal.WithLabelValues(operation, result).Inc()
}

func (m *DepositMetrics) RecordDeductedAmount(amount float64) {
	m.DeductedAmountTotal.Add(amount)
}

func (m *DepositMetrics) RecordLedgerIncome(incomeType string, amount float64) {
	m.LedgerIncomeTotal.WithLabelValues(incomeType).Add(amount)
}

func (m *DepositMetrics) RecordAdvisoryFailure(operation, effect string) {
	m.AdvisoryFailuresTotal.WithLabelValues(operation, effect).Inc()
}
