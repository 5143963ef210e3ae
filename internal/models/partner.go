package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PartnerStatusPending  = "pending"
	PartnerStatusActive   = "active"
	PartnerStatusExpired  = "expired"
	PartnerStatusDisabled = "disabled"
)

// Partner is an advertiser with a time-boxed subscription.
type Partner struct {
	gorm.Model
	OwnerUserID           uint   `gorm:"not null;index"`
	Name                  string `gorm:"not null"`
	LogoURL               string
	WebsiteURL            string
	Status                string `gorm:"default:'pending';index"`
	SubscriptionExpiresAt *time.Time
}

// PartnerSubscriptionApplication requests a new or extended subscription.
// On approval the partner's expiry is extended by PlanMonths and the
// Amount is booked as platform income.
type PartnerSubscriptionApplication struct {
	gorm.Model
	PartnerID       uint `gorm:"not null;index"`
	ApplicantUserID uint `gorm:"not null"`
	PlanMonths      int
	Amount          float64
	ProofImageURL   string
	TransactionHash string
	Status          string `gorm:"default:'pending';index"`
	RejectReason    string
	AdminNote       string
	ReviewedBy      *uint
	ReviewedAt      *time.Time
}
