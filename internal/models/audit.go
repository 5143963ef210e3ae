package models

import "gorm.io/gorm"

// Admin operation types recorded in the audit trail.
const (
	OpDepositApprove       = "deposit_application_approve"
	OpDepositReject        = "deposit_application_reject"
	OpTopUpApprove         = "deposit_topup_approve"
	OpTopUpReject          = "deposit_topup_reject"
	OpRefundApprove        = "deposit_refund_approve"
	OpRefundReject         = "deposit_refund_reject"
	OpMerchantViolate      = "merchant_violate"
	OpCompensationComplete = "merchant_compensation_complete"
	OpMerchantActivate     = "merchant_activate"
	OpMerchantDeactivate   = "merchant_deactivate"
	OpMerchantPin          = "merchant_pin"
	OpMerchantTop          = "merchant_top"
	OpSubscriptionApprove  = "partner_subscription_approve"
	OpSubscriptionReject   = "partner_subscription_reject"
	OpReportResolve        = "abuse_report_resolve"
	OpReportDismiss        = "abuse_report_dismiss"
	OpLedgerManualEntry    = "ledger_manual_entry"
	OpLedgerNoteUpdate     = "ledger_note_update"
	OpRewardPlanCreate     = "reward_plan_create"
	OpRewardPlanCancel     = "reward_plan_cancel"
)

// AdminOperationLog is an append-only audit trail. Every mutating admin
// action appends exactly one entry.
type AdminOperationLog struct {
	gorm.Model
	AdminUserID   uint   `gorm:"not null;index"`
	OperationType string `gorm:"not null;index"`
	TargetType    string `gorm:"not null"`
	TargetID      uint   `gorm:"not null;index"`
	Description   string
	Metadata      JSON `gorm:"type:jsonb"`
}
