package models

import "gorm.io/gorm"

// Notification categories emitted by admin operations.
const (
	NotificationDepositApproved      = "deposit_application_approved"
	NotificationDepositRejected      = "deposit_application_rejected"
	NotificationTopUpApproved        = "deposit_topup_approved"
	NotificationTopUpRejected        = "deposit_topup_rejected"
	NotificationRefundApproved       = "deposit_refund_approved"
	NotificationRefundRejected       = "deposit_refund_rejected"
	NotificationMerchantViolated     = "merchant_violated"
	NotificationCompensationComplete = "merchant_compensation_complete"
	NotificationMerchantActivated    = "merchant_activated"
	NotificationMerchantDeactivated  = "merchant_deactivated"
	NotificationSubscriptionApproved = "partner_subscription_approved"
	NotificationSubscriptionRejected = "partner_subscription_rejected"
	NotificationGroupReward          = "group_reward"
	NotificationReportResolved       = "abuse_report_resolved"
	NotificationReportDismissed      = "abuse_report_dismissed"
	NotificationCreditPenalty        = "credit_score_penalty"
)

// Notification is a fire-and-forget message row for a user. Delivery is
// handled outside this service; writing the row is best-effort.
type Notification struct {
	gorm.Model
	UserID            uint   `gorm:"not null;index"`
	Type              string `gorm:"default:'system'"`
	Category          string `gorm:"not null;index"`
	Title             string `gorm:"not null"`
	Content           string
	Priority          string `gorm:"default:'normal'"`
	IsRead            bool   `gorm:"default:false"`
	RelatedMerchantID *uint
	Metadata          JSON `gorm:"type:jsonb"`
}
