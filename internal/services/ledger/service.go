// Package ledger maintains the platform's append-only financial record.
// Entries are never mutated after creation except for the admin note.
package ledger

import (
	"context"
	"fmt"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/repositories"

	"github.com/google/uuid"
)

var validIncomeTypes = map[string]bool{
	models.IncomeTypeDepositFee:          true,
	models.IncomeTypePartnerSubscription: true,
	models.IncomeTypeManualExpense:       true,
	models.IncomeTypeOperationalCost:     true,
	models.IncomeTypeMarketingCost:       true,
}

type Service struct {
	repo  repositories.LedgerRepository
	audit repositories.AuditRepository
}

func NewService(repo repositories.LedgerRepository, audit repositories.AuditRepository) *Service {
	return &Service{repo: repo, audit: audit}
}

// Append books an entry. A reference id is assigned when the caller did
// not provide one.
func (s *Service) Append(ctx context.Context, entry *models.PlatformLedgerEntry) error {
	if entry.Amount <= 0 {
		return errs.Invalid("ledger amount must be positive")
	}
	if entry.TransactionType != models.LedgerTypeIncome && entry.TransactionType != models.LedgerTypeExpense {
		return errs.Invalid("transaction type must be income or expense")
	}
	if !validIncomeTypes[entry.IncomeType] {
		return errs.Invalid("unknown ledger entry type")
	}
	if entry.ReferenceID == "" {
		entry.ReferenceID = uuid.NewString()
	}
	return s.repo.Create(ctx, entry)
}

// AppendManual books a hand-entered income or expense and audit-logs it.
func (s *Service) AppendManual(ctx context.Context, admin models.AdminContext, entry *models.PlatformLedgerEntry) error {
	entry.CreatedBy = admin.UserID
	if err := s.Append(ctx, entry); err != nil {
		return err
	}
	_ = s.audit.Create(ctx, &models.AdminOperationLog{
		AdminUserID:   admin.UserID,
		OperationType: models.OpLedgerManualEntry,
		TargetType:    "ledger_entry",
		TargetID:      entry.ID,
		Description:   fmt.Sprintf("manual %s entry %.2f (%s)", entry.TransactionType, entry.Amount, entry.IncomeType),
		Metadata:      models.JSON{"reference_id": entry.ReferenceID, "amount": entry.Amount},
	})
	return nil
}

// UpdateAdminNote changes the only mutable field of an entry.
func (s *Service) UpdateAdminNote(ctx context.Context, admin models.AdminContext, entryID uint, note string) error {
	if err := s.repo.UpdateAdminNote(ctx, entryID, note); err != nil {
		return err
	}
	_ = s.audit.Create(ctx, &models.AdminOperationLog{
		AdminUserID:   admin.UserID,
		OperationType: models.OpLedgerNoteUpdate,
		TargetType:    "ledger_entry",
		TargetID:      entryID,
		Description:   "updated ledger entry admin note",
	})
	return nil
}

// List returns ledger entries filtered by transaction and income type.
func (s *Service) List(ctx context.Context, filter repositories.LedgerFilter, limit, offset int) ([]models.PlatformLedgerEntry, int64, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

// Summary aggregates booked income and expense totals.
func (s *Service) Summary(ctx context.Context) (*repositories.LedgerSummary, error) {
	return s.repo.Summary(ctx)
}
