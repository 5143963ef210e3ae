package models

import "gorm.io/gorm"

// Ledger transaction directions.
const (
	LedgerTypeIncome  = "income"
	LedgerTypeExpense = "expense"
)

// Ledger entry categories.
const (
	IncomeTypeDepositFee          = "deposit_fee"
	IncomeTypePartnerSubscription = "partner_subscription"
	IncomeTypeManualExpense       = "manual_expense"
	IncomeTypeOperationalCost     = "operational_cost"
	IncomeTypeMarketingCost       = "marketing_cost"
)

// PlatformLedgerEntry is an append-only financial record. Rows are never
// mutated after creation except for AdminNote.
type PlatformLedgerEntry struct {
	gorm.Model
	ReferenceID     string `gorm:"uniqueIndex;not null"`
	TransactionType string `gorm:"not null;index"`
	IncomeType      string `gorm:"not null;index"`
	Amount          float64
	MerchantID      *uint `gorm:"index"`
	PartnerID       *uint `gorm:"index"`
	Description     string
	Details         JSON `gorm:"type:jsonb"`
	AdminNote       string
	CreatedBy       uint
}
