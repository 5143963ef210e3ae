package deposit

import (
	"context"

	"github.com/gungun88/merchant-platform-sub002/internal/models"
)

// Store is the persistence surface the lifecycle manager needs. The
// merchant-mutating methods use an optimistic concurrency check: the
// update only applies when the row's current deposit status matches the
// expected pre-state, otherwise ErrConcurrentModification is returned.
type Store interface {
	GetMerchant(id uint) (*models.Merchant, error)
	// UpdateMerchantDeposit writes the merchant's deposit fields iff the
	// stored deposit_status still equals expectedStatus.
	UpdateMerchantDeposit(m *models.Merchant, expectedStatus string) error
	SetMerchantActive(id uint, active bool) error
	SetMerchantRefundStatus(id uint, status string) error

	GetDepositApplication(id uint) (*models.DepositApplication, error)
	SaveDepositApplication(app *models.DepositApplication) error
	GetTopUpApplication(id uint) (*models.DepositTopUpApplication, error)
	SaveTopUpApplication(app *models.DepositTopUpApplication) error
	GetRefundApplication(id uint) (*models.DepositRefundApplication, error)
	SaveRefundApplication(app *models.DepositRefundApplication) error

	// Transaction runs fn against a store bound to a single database
	// transaction. The critical writes of every operation go through it.
	Transaction(fn func(Store) error) error
}

// Notifier delivers a fire-and-forget notification row to a user.
// Failures are logged by the caller and never abort the operation.
type Notifier interface {
	Notify(ctx context.Context, n *models.Notification) error
}

// Ledger appends platform income/expense entries.
type Ledger interface {
	Append(ctx context.Context, entry *models.PlatformLedgerEntry) error
}

// AuditLogger appends admin operation log entries.
type AuditLogger interface {
	Record(ctx context.Context, entry *models.AdminOperationLog) error
}

// CacheInvalidator drops cached merchant rows after a mutating write.
type CacheInvalidator interface {
	InvalidateMerchant(ctx context.Context, id uint) error
}

// MetricsCollector records lifecycle metrics.
type MetricsCollector interface {
	RecordTransition(operation, result string)
	RecordDeductedAmount(amount float64)
	RecordLedgerIncome(incomeType string, amount float64)
	RecordAdvisoryFailure(operation, effect string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTransition(string, string)     {}
func (NoopMetricsCollector) RecordDeductedAmount(float64)        {}
func (NoopMetricsCollector) RecordLedgerIncome(string, float64)  {}
func (NoopMetricsCollector) RecordAdvisoryFailure(string, string) {}
