package repositories

import (
	"context"
	"errors"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"

	"gorm.io/gorm"
)

// LedgerFilter narrows ledger listings.
type LedgerFilter struct {
	TransactionType string
	IncomeType      string
	MerchantID      *uint
	PartnerID       *uint
}

// LedgerSummary aggregates booked totals.
type LedgerSummary struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Net          float64 `json:"net"`
}

type LedgerRepository interface {
	Create(ctx context.Context, entry *models.PlatformLedgerEntry) error
	GetByID(ctx context.Context, id uint) (*models.PlatformLedgerEntry, error)
	List(ctx context.Context, filter LedgerFilter, limit, offset int) ([]models.PlatformLedgerEntry, int64, error)
	UpdateAdminNote(ctx context.Context, id uint, note string) error
	Summary(ctx context.Context) (*LedgerSummary, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *models.PlatformLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ledgerRepository) GetByID(ctx context.Context, id uint) (*models.PlatformLedgerEntry, error) {
	var entry models.PlatformLedgerEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *ledgerRepository) List(ctx context.Context, filter LedgerFilter, limit, offset int) ([]models.PlatformLedgerEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.PlatformLedgerEntry{})
	if filter.TransactionType != "" {
		q = q.Where("transaction_type = ?", filter.TransactionType)
	}
	if filter.IncomeType != "" {
		q = q.Where("income_type = ?", filter.IncomeType)
	}
	if filter.MerchantID != nil {
		q = q.Where("merchant_id = ?", *filter.MerchantID)
	}
	if filter.PartnerID != nil {
		q = q.Where("partner_id = ?", *filter.PartnerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []models.PlatformLedgerEntry
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, total, err
}

// UpdateAdminNote is the only permitted mutation of a ledger row.
func (r *ledgerRepository) UpdateAdminNote(ctx context.Context, id uint, note string) error {
	res := r.db.WithContext(ctx).Model(&models.PlatformLedgerEntry{}).
		Where("id = ?", id).Update("admin_note", note)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *ledgerRepository) Summary(ctx context.Context) (*LedgerSummary, error) {
	var summary LedgerSummary
	row := r.db.WithContext(ctx).Model(&models.PlatformLedgerEntry{}).
		Select(
			"COALESCE(SUM(CASE WHEN transaction_type = ? THEN amount ELSE 0 END), 0) AS total_income, "+
				"COALESCE(SUM(CASE WHEN transaction_type = ? THEN amount ELSE 0 END), 0) AS total_expense",
			models.LedgerTypeIncome, models.LedgerTypeExpense,
		).Row()
	if err := row.Scan(&summary.TotalIncome, &summary.TotalExpense); err != nil {
		return nil, err
	}
	summary.Net = summary.TotalIncome - summary.TotalExpense
	return &summary, nil
}
