package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// AbuseReport is a user complaint filed against a merchant. Resolving a
// report applies a credit-score penalty to the merchant.
type AbuseReport struct {
	gorm.Model
	ReporterUserID uint   `gorm:"not null;index"`
	MerchantID     uint   `gorm:"not null;index"`
	Category       string `gorm:"not null"`
	Content        string
	EvidenceURL    string
	Status         string `gorm:"default:'pending';index"`
	Penalty        int    `gorm:"default:0"`
	Resolution     string
	ReviewedBy     *uint
	ReviewedAt     *time.Time
}
