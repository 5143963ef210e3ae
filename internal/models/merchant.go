package models

import (
	"time"
)

// Deposit lifecycle states for a merchant.
//
//	unpaid -> paid -> refunded            (refund approved, terminal)
//	paid   -> frozen -> paid              (violation, partial compensation)
//	paid/frozen -> violated               (deposit exhausted, terminal)
const (
	DepositStatusUnpaid          = "unpaid"
	DepositStatusPaid            = "paid"
	DepositStatusFrozen          = "frozen"
	DepositStatusRefundRequested = "refund_requested"
	DepositStatusRefunded        = "refunded"
	DepositStatusViolated        = "violated"
)

const DefaultCreditScore = 100

type Merchant struct {
	ID                uint   `gorm:"primarykey"`
	OwnerUserID       uint   `gorm:"uniqueIndex;not null"`
	Name              string `gorm:"not null"`
	Description       string
	LogoURL           string
	IsActive          bool    `gorm:"default:true"`
	IsPinned          bool    `gorm:"default:false"`
	IsTop             bool    `gorm:"default:false"`
	IsDepositMerchant bool    `gorm:"default:false"`
	DepositAmount     float64 `gorm:"default:0"`
	DepositStatus     string  `gorm:"default:'unpaid';index"`
	DepositPaidAt     *time.Time
	// DepositRefundStatus tracks the merchant-facing refund flow
	// (none/pending/approved/rejected) independently of DepositStatus.
	DepositRefundStatus string `gorm:"default:'none'"`
	// LastRewardClaimAt gates the daily login reward for deposit
	// merchants; cleared when the deposit is refunded.
	LastRewardClaimAt *time.Time
	CreditScore       int  `gorm:"default:100"`
	Metadata          JSON `gorm:"type:jsonb"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
