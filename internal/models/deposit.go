package models

import (
	"time"

	"gorm.io/gorm"
)

// Review outcomes shared by all deposit-related applications.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// DepositApplication is a merchant's request to become a deposit merchant.
// Resolved exactly once; immutable afterwards except audit fields.
type DepositApplication struct {
	gorm.Model
	MerchantID      uint `gorm:"not null;index"`
	ApplicantUserID uint `gorm:"not null"`
	Amount          float64
	ProofImageURL   string
	TransactionHash string
	Status          string `gorm:"default:'pending';index"`
	RejectReason    string
	AdminNote       string
	ReviewedBy      *uint
	ReviewedAt      *time.Time
}

// DepositTopUpApplication requests an increase of an existing deposit.
// OriginalAmount snapshots the merchant's deposit at submission time;
// TotalAmount = OriginalAmount + TopUpAmount is authoritative on approval.
type DepositTopUpApplication struct {
	gorm.Model
	MerchantID      uint `gorm:"not null;index"`
	ApplicantUserID uint `gorm:"not null"`
	OriginalAmount  float64
	TopUpAmount     float64
	TotalAmount     float64
	ProofImageURL   string
	TransactionHash string
	Status          string `gorm:"default:'pending';index"`
	RejectReason    string
	AdminNote       string
	ReviewedBy      *uint
	ReviewedAt      *time.Time
}

// DepositRefundApplication requests withdrawal of a paid deposit.
// RefundAmount + FeeAmount must equal DepositAmount.
type DepositRefundApplication struct {
	gorm.Model
	MerchantID      uint `gorm:"not null;index"`
	ApplicantUserID uint `gorm:"not null"`
	DepositAmount   float64
	FeeRate         float64
	FeeAmount       float64
	RefundAmount    float64
	WalletAddress   string
	WalletNetwork   string
	DepositPaidAt   *time.Time
	Status          string `gorm:"default:'pending';index"`
	RejectReason    string
	AdminNote       string
	TransactionHash string
	ReviewedBy      *uint
	ReviewedAt      *time.Time
	CompletedAt     *time.Time
}
