// Package deposit implements the lifecycle of a merchant's trust
// deposit: application review, top-ups, refunds, violation findings and
// compensation disbursement.
//
// Every operation splits its effects in two phases. Critical writes
// (application row + merchant row) run in one database transaction and
// must succeed for the operation to report success. Advisory effects
// (ledger entry, notification, audit log, cache invalidation) run after
// the transaction commits; their failures are logged and swallowed.
package deposit

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
)

type Service struct {
	store    Store
	notifier Notifier
	ledger   Ledger
	audit    AuditLogger
	cache    CacheInvalidator
	metrics  MetricsCollector
}

func NewService(store Store, notifier Notifier, ledger Ledger, audit AuditLogger, cache CacheInvalidator, metrics MetricsCollector) *Service {
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	return &Service{
		store:    store,
		notifier: notifier,
		ledger:   ledger,
		audit:    audit,
		cache:    cache,
		metrics:  metrics,
	}
}

type advisoryEffect struct {
	name string
	run  func() error
}

// runAdvisory executes best-effort side effects after the critical
// transaction committed. Failures never surface to the caller.
func (s *Service) runAdvisory(operation string, effects []advisoryEffect) {
	for _, e := range effects {
		if err := e.run(); err != nil {
			log.Printf("deposit: %s: advisory effect %q failed: %v", operation, e.name, err)
			s.metrics.RecordAdvisoryFailure(operation, e.name)
		}
	}
}

func (s *Service) invalidateEffect(ctx context.Context, merchantID uint) advisoryEffect {
	return advisoryEffect{"cache_invalidate", func() error {
		if s.cache == nil {
			return nil
		}
		return s.cache.InvalidateMerchant(ctx, merchantID)
	}}
}

// ApproveDepositApplication turns the applicant into a deposit merchant
// with the requested amount as the live deposit balance.
func (s *Service) ApproveDepositApplication(ctx context.Context, admin models.AdminContext, applicationID uint, adminNote string) (*ApplicationResult, error) {
	app, err := s.store.GetDepositApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusPending {
		s.metrics.RecordTransition("approve_application", "invalid_state")
		return nil, errs.ErrApplicationResolved
	}

	m, err := s.store.GetMerchant(app.MerchantID)
	if err != nil {
		return nil, err
	}
	switch m.DepositStatus {
	case models.DepositStatusPaid, models.DepositStatusFrozen:
		return nil, errs.State("merchant already holds an active deposit")
	}
	expected := m.DepositStatus

	now := time.Now()
	err = s.store.Transaction(func(tx Store) error {
		app.Status = models.ApplicationStatusApproved
		app.AdminNote = adminNote
		app.ReviewedBy = &admin.UserID
		app.ReviewedAt = &now
		if err := tx.SaveDepositApplication(app); err != nil {
			return err
		}
		m.IsDepositMerchant = true
		m.DepositStatus = models.DepositStatusPaid
		m.DepositAmount = app.Amount
		m.DepositPaidAt = &now
		return tx.UpdateMerchantDeposit(m, expected)
	})
	if err != nil {
		s.metrics.RecordTransition("approve_application", "error")
		return nil, err
	}
	s.metrics.RecordTransition("approve_application", "ok")

	s.runAdvisory("approve_application", []advisoryEffect{
		{"notify", func() error {
			return s.notifier.Notify(ctx, &models.Notification{
				UserID:            app.ApplicantUserID,
				Category:          models.NotificationDepositApproved,
				Title:             "Deposit application approved",
				Content:           fmt.Sprintf("Your trust deposit of %.2f has been confirmed. Deposit merchant privileges are now active.", app.Amount),
				RelatedMerchantID: &m.ID,
				Metadata:          models.JSON{"application_id": app.ID, "amount": app.Amount},
			})
		}},
		{"audit", func() error {
			return s.audit.Record(ctx, &models.AdminOperationLog{
				AdminUserID:   admin.UserID,
				OperationType: models.OpDepositApprove,
				TargetType:    "deposit_application",
				TargetID:      app.ID,
				Description:   fmt.Sprintf("approved deposit application for merchant %d, amount %.2f", m.ID, app.Amount),
				Metadata:      models.JSON{"merchant_id": m.ID, "amount": app.Amount, "admin_note": adminNote},
			})
		}},
		s.invalidateEffect(ctx, m.ID),
	})

	return &ApplicationResult{
		ApplicationID: app.ID,
		MerchantID:    m.ID,
		Status:        app.Status,
		DepositAmount: m.DepositAmount,
		DepositStatus: m.DepositStatus,
	}, nil
}

// RejectDepositApplication marks the application rejected. The merchant
// row is not touched.
func (s *Service) RejectDepositApplication(ctx context.Context, admin models.AdminContext, applicationID uint, reason string) (*ApplicationResult, error) {
	if reason == "" {
		return nil, errs.Invalid("rejection reason is required")
	}
	app, err := s.store.GetDepositApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, errs.ErrApplicationResolved
	}

	now := time.Now()
	app.Status = models.ApplicationStatusRejected
	app.RejectReason = reason
	app.ReviewedBy = &admin.UserID
	app.ReviewedAt = &now
	if err := s.store.SaveDepositApplication(app); err != nil {
		s.metrics.RecordTransition("reject_application", "error")
		return nil, err
	}
	s.metrics.RecordTransition("reject_application", "ok")

	s.runAdvisory("reject_application", []advisoryEffect{
		{"notify", func() error {
			return s.notifier.Notify(ctx, &models.Notification{
				UserID:            app.ApplicantUserID,
				Category:          models.NotificationDepositRejected,
				Title:             "Deposit application rejected",
				Content:           fmt.Sprintf("Your deposit application was rejected: %s", reason),
				RelatedMerchantID: &app.MerchantID,
			})
		}},
		{"audit", func() error {
			return s.audit.Record(ctx, &models.AdminOperationLog{
				AdminUserID:   admin.UserID,
				OperationType: models.OpDepositReject,
				TargetType:    "deposit_application",
				TargetID:      app.ID,
				Description:   fmt.Sprintf("rejected deposit application for merchant %d: %s", app.MerchantID, reason),
				Metadata:      models.JSON{"merchant_id": app.MerchantID, "reason": reason},
			})
		}},
	})

	return &ApplicationResult{
		ApplicationID: app.ID,
		MerchantID:    app.MerchantID,
		Status:        app.Status,
	}, nil
}

// ApproveTopUpApplication sets the merchant's live deposit to the
// application's total-amount snapshot. Approval fails when the live
// balance no longer matches the original-amount snapshot taken at
// submission, so a violation or compensation that raced the top-up
// cannot be silently overwritten.
func (s *Service) ApproveTopUpApplication(ctx context.Context, admin models.AdminContext, applicationID uint, adminNote string) (*ApplicationResult, error) {
	app, err := s.store.GetTopUpApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusPending {
		s.metrics.RecordTransition("approve_topup", "invalid_state")
		return nil, errs.ErrApplicationResolved
	}

	m, err := s.store.GetMerchant(app.MerchantID)
	if err != nil {
		return nil, err
	}
	if !m.IsDepositMerchant || m.DepositStatus != models.DepositStatusPaid {
		return nil, errs.State("merchant deposit is not in a paid state")
	}
	if math.Abs(m.DepositAmount-app.OriginalAmount) > balanceEpsilon {
		s.metrics.RecordTransition("approve_topup", "conflict")
		return nil, errs.ErrConcurrentModification
	}

	now := time.Now()
	err = s.store.Transaction(func(tx Store) error {
		app.Status = models.ApplicationStatusApproved
		app.AdminNote = adminNote
		app.ReviewedBy = &admin.UserID
		app.ReviewedAt = &now
		if err := tx.SaveTopUpApplication(app); err != nil {
			return err
		}
		m.DepositAmount = app.TotalAmount
		return tx.UpdateMerchantDeposit(m, models.DepositStatusPaid)
	})
	if err != nil {
		s.metrics.RecordTransition("approve_topup", "error")
		return nil, err
	}
	s.metrics.RecordTransition("approve_topup", "ok")

	s.runAdvisory("approve_topup", []advisoryEffect{
		{"notify", func() error {
			return s.notifier.Notify(ctx, &models.Notification{
				UserID:            app.ApplicantUserID,
				Category:          models.NotificationTopUpApproved,
				Title:             "Deposit top-up approved",
				Content:           fmt.Sprintf("Your deposit top-up of %.2f has been confirmed. New deposit balance: %.2f.", app.TopUpAmount, app.TotalAmount),
				RelatedMerchantID: &m.ID,
				Metadata:          models.JSON{"application_id": app.ID, "top_up_amount": app.TopUpAmount, "total_amount": app.TotalAmount},
			})
		}},
		{"audit", func() error {
			return s.audit.Record(ctx, &models.AdminOperationLog{
				AdminUserID:   admin.UserID,
				OperationType: models.OpTopUpApprove,
				TargetType:    "deposit_topup_application",
				TargetID:      app.ID,
				Description:   fmt.Sprintf("approved deposit top-up for merchant %d, %.2f -> %.2f", m.ID, app.OriginalAmount, app.TotalAmount),
				Metadata:      models.JSON{"merchant_id": m.ID, "top_up_amount": app.TopUpAmount},
			})
		}},
		s.invalidateEffect(ctx, m.ID),
	})

	return &ApplicationResult{
		ApplicationID: app.ID,
		MerchantID:    m.ID,
		Status:        app.Status,
		DepositAmount: m.DepositAmount,
		DepositStatus: m.DepositStatus,
	}, nil
}

// RejectTopUpApplication marks the top-up rejected without touching the
// merchant.
func (s *Service) RejectTopUpApplication(ctx context.Context, admin models.AdminContext, applicationID uint, reason string) (*ApplicationResult, error) {
	if reason == "" {
		return nil, errs.Invalid("rejection reason is required")
	}
	app, err := s.store.GetTopUpApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, errs.ErrApplicationResolved
	}

	now := time.Now()
	app.Status = models.ApplicationStatusRejected
	app.RejectReason = reason
	app.ReviewedBy = &admin.UserID
	app.ReviewedAt = &now
	if err := s.store.SaveTopUpApplication(app); err != nil {
		s.metrics.RecordTransition("reject_topup", "error")
		return nil, err
	}
	s.metrics.RecordTransition("reject_topup", "ok")

	s.runAdvisory("reject_topup", []advisoryEffect{
		{"notify", func() error {
			return s.notifier.Notify(ctx, &models.Notification{
				UserID:            app.ApplicantUserID,
				Category:          models.NotificationTopUpRejected,
				Title:             "Deposit top-up rejected",
				Content:           fmt.Sprintf("Your deposit top-up was rejected: %s", reason),
				RelatedMerchantID: &app.MerchantID,
			})
		}},
		{"audit", func() error {
			return s.audit.Record(ctx, &models.AdminOperationLog{
				AdminUserID:   admin.UserID,
				OperationType: models.OpTopUpReject,
				TargetType:    "deposit_topup_application",
				TargetID:      app.ID,
				Description:   fmt.Sprintf("rejected deposit top-up for merchant %d: %s", app.MerchantID, reason),
				Metadata:      models.JSON{"merchant_id": app.MerchantID, "reason": reason},
			})
		}},
	})

	return &ApplicationResult{
		ApplicationID: app.ID,
		MerchantID:    app.MerchantID,
		Status:        app.Status,
	}, nil
}

// ApproveRefundApplication pays out the deposit, ends the merchant's
// deposit-merchant status and books the retained fee as platform income.
// The fee ledger entry is advisory: if it fails the refund stands and
// the failure is logged.
func (s *Service) ApproveRefundApplication(ctx context.Context, admin models.AdminContext, applicationID uint, transactionHash, adminNote string) (*RefundResult, error) {
	if transactionHash == "" {
		return nil, errs.Invalid("transaction hash is required")
	}
	app, err := s.store.GetRefundApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusPending {
		s.metrics.RecordTransition("approve_refund", "invalid_state")
		return nil, errs.ErrApplicationResolved
	}

	m, err := s.store.GetMerchant(app.MerchantID)
	if err != nil {
		return nil, err
	}
	if m.DepositStatus != models.DepositStatusPaid {
		return nil, errs.State("merchant deposit is not in a refundable state")
	}

	now := time.Now()
	err = s.store.Transaction(func(tx Store) error {
		app.Status = models.ApplicationStatusApproved
		app.AdminNote = adminNote
		app.TransactionHash = transactionHash
		app.ReviewedBy = &admin.UserID
		app.ReviewedAt = &now
		app.CompletedAt = &now
		if err := tx.SaveRefundApplication(app); err != nil {
			return err
		}
		m.IsDepositMerchant = false
		m.DepositStatus = models.DepositStatusRefunded
		m.DepositAmount = 0
		m.DepositRefundStatus = models.ApplicationStatusApproved
		// Exiting the deposit tier revokes the daily reward perk; it is
		// not grandfathered.
		m.LastRewardClaimAt = nil
		return tx.UpdateMerchantDeposit(m, models.DepositStatusPaid)
	})
	if err != nil {
		s.metrics.RecordTransition("approve_refund", "error")
		return nil, err
	}
	s.metrics.RecordTransition("approve_refund", "ok")

	s.runAdvisory("approve_refund", []advisoryEffect{
		{"notify", func() error {
			return s.notifier.Notify(ctx, &models.Notification{
				UserID:            app.ApplicantUserID,
				Category:          models.NotificationRefundApproved,
				Title:             "Deposit refund completed",
				Content:           fmt.Sprintf("Your deposit refund of %.2f has been sent (fee %.2f). Transaction: %s", app.RefundAmount, app.FeeAmount, transactionHash),
				RelatedMerchantID: &m.ID,
				Metadata:          models.JSON{"refund_amount": app.RefundAmount, "fee_amount": app.FeeAmount, "transaction_hash": transactionHash},
			})
		}},
		{"ledger", func() error {
			if err := s.ledger.Append(ctx, &models.PlatformLedgerEntry{
				TransactionType: models.LedgerTypeIncome,
				IncomeType:      models.IncomeTypeDepositFee,
				Amount:          app.FeeAmount,
				MerchantID:      &m.ID,
				Description:     fmt.Sprintf("deposit refund fee, merchant %d", m.ID),
				Details: models.JSON{
					"original_deposit": app.DepositAmount,
					"refund_amount":    app.RefundAmount,
					"fee_rate":         app.FeeRate,
					"application_id":   app.ID,
				},
				CreatedBy: admin.UserID,
			}); err != nil {
				return err
			}
			s.metrics.RecordLedgerIncome(models.IncomeTypeDepositFee, app.FeeAmount)
			return nil
		}},
		{"audit", func() error {
			return s.audit.Record(ctx, &models.AdminOperationLog{
				AdminUserID:   admin.UserID,
				OperationType: models.OpRefundApprove,
				TargetType:    "deposit_refund_application",
				TargetID:      app.ID,
				Description:   fmt.Sprintf("approved deposit refund for merchant %d, refund %.2f fee %.2f", m.ID, app.RefundAmount, app.FeeAmount),
				Metadata:      models.JSON{"merchant_id": m.ID, "refund_amount": app.RefundAmount, "fee_amount": app.FeeAmount, "transaction_hash": transactionHash},
			})
		}},
		s.invalidateEffect(ctx, m.ID),
	})

	return &RefundResult{
		ApplicationID:   app.ID,
		MerchantID:      m.ID,
		Status:          app.Status,
		RefundAmount:    app.RefundAmount,
		FeeAmount:       app.FeeAmount,
		TransactionHash: transactionHash,
	}, nil
}

// RejectRefundApplication rejects the refund request; the merchant keeps
// the deposit and the deposit status is untouched.
func (s *Service) RejectRefundApplication(ctx context.Context, admin models.AdminContext, applicationID uint, reason string) (*RefundResult, error) {
	if reason == "" {
		return nil, errs.Invalid("rejection reason is required")
	}
	app, err := s.store.GetRefundApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, errs.ErrApplicationResolved
	}

	now := time.Now()
	err = s.store.Transaction(func(tx Store) error {
		app.Status = models.ApplicationStatusRejected
		app.RejectReason = reason
		app.ReviewedBy = &admin.UserID
		app.ReviewedAt = &now
		if err := tx.SaveRefundApplication(app); err != nil {
			return err
		}
		return tx.SetMerchantRefundStatus(app.MerchantID, models.ApplicationStatusRejected)
	})
	if err != nil {
		s.metrics.RecordTransition("reject_refund", "error")
		return nil, err
	}
	s.metrics.RecordTransition("reject_refund", "ok")

	s.runAdvisory("reject_refund", []advisoryEffect{
		{"notify", func() error {
			return s.notifier.Notify(ctx, &models.Notification{
				UserID:            app.ApplicantUserID,
				Category:          models.NotificationRefundRejected,
				Title:             "Deposit refund rejected",
				Content:           fmt.Sprintf("Your deposit refund request was rejected: %s. Your deposit remains in place.", reason),
				RelatedMerchantID: &app.MerchantID,
			})
		}},
		{"audit", func() error {
			return s.audit.Record(ctx, &models.AdminOperationLog{
				AdminUserID:   admin.UserID,
				OperationType: models.OpRefundReject,
				TargetType:    "deposit_refund_application",
				TargetID:      app.ID,
				Description:   fmt.Sprintf("rejected deposit refund for merchant %d: %s", app.MerchantID, reason),
				Metadata:      models.JSON{"merchant_id": app.MerchantID, "reason": reason},
			})
		}},
		s.invalidateEffect(ctx, app.MerchantID),
	})

	return &RefundResult{
		ApplicationID: app.ID,
		MerchantID:    app.MerchantID,
		Status:        app.Status,
		RefundAmount:  app.RefundAmount,
		FeeAmount:     app.FeeAmount,
	}, nil
}

// ViolateMerchant deducts deductAmount from the merchant's deposit over
// a violation finding. 30% of the deduction is retained by the platform,
// 70% is earmarked as compensation for the injured party. The deposit is
// frozen pending compensation; a deduction that exhausts the deposit
// ends the merchant's deposit tier entirely. The merchant is delisted
// either way.
func (s *Service) ViolateMerchant(ctx context.Context, admin models.AdminContext, merchantID uint, reason string, deductAmount float64) (*ViolationResult, error) {
	if reason == "" {
		return nil, errs.Invalid("violation reason is required")
	}
	if deductAmount <= 0 {
		return nil, errs.Invalid("deduct amount must be positive")
	}

	m, err := s.store.GetMerchant(merchantID)
	if err != nil {
		return nil, err
	}
	if !m.IsDepositMerchant {
		return nil, errs.ErrNotDepositMerchant
	}
	if m.DepositStatus != models.DepositStatusPaid {
		return nil, errs.State("merchant deposit is frozen pending compensation")
	}
	if deductAmount > m.DepositAmount {
		s.metrics.RecordTransition("violate", "insufficient_balance")
		return nil, errs.ErrInsufficientBalance
	}

	penalty := deductAmount * PenaltyShare
	compensation := deductAmount * CompensationShare
	remaining := m.DepositAmount - deductAmount

	err = s.store.Transaction(func(tx Store) error {
		m.DepositAmount = remaining
		m.IsActive = false
		if remaining <= 0 {
			m.DepositStatus = models.DepositStatusViolated
			m.IsDepositMerchant = false
		} else {
			m.DepositStatus = models.DepositStatusFrozen
		}
		return tx.UpdateMerchantDeposit(m, models.DepositStatusPaid)
	})
	if err != nil {
		s.metrics.RecordTransition("violate", "error")
		return nil, err
	}
	s.metrics.RecordTransition("violate", "ok")
	s.metrics.RecordDeductedAmount(deductAmount)

	s.runAdvisory("violate", []advisoryEffect{
		{"audit", func() error {
			return s.audit.Record(ctx, &models.AdminOperationLog{
				AdminUserID:   admin.UserID,
				OperationType: models.OpMerchantViolate,
				TargetType:    "merchant",
				TargetID:      m.ID,
				Description:   fmt.Sprintf("violation finding against merchant %d: %s", m.ID, reason),
				Metadata: models.JSON{
					"reason":              reason,
					"deducted_amount":     deductAmount,
					"penalty_amount":      penalty,
					"compensation_amount": compensation,
					"remaining_deposit":   remaining,
				},
			})
		}},
		{"notify", func() error {
			return s.notifier.Notify(ctx, &models.Notification{
				UserID:            m.OwnerUserID,
				Category:          models.NotificationMerchantViolated,
				Title:             "Violation finding against your store",
				Content:           fmt.Sprintf("A violation was recorded: %s. Deducted %.2f from your deposit (%.2f earmarked as compensation). Remaining deposit: %.2f. Your store has been delisted.", reason, deductAmount, compensation, remaining),
				Priority:          "high",
				RelatedMerchantID: &m.ID,
				Metadata: models.JSON{
					"deducted_amount":     deductAmount,
					"compensation_amount": compensation,
					"remaining_deposit":   remaining,
				},
			})
		}},
		s.invalidateEffect(ctx, m.ID),
	})

	return &ViolationResult{
		MerchantID:         m.ID,
		DeductedAmount:     deductAmount,
		PenaltyAmount:      penalty,
		CompensationAmount: compensation,
		RemainingDeposit:   remaining,
		DepositStatus:      m.DepositStatus,
	}, nil
}

// CompleteCompensation disburses compensationAmount from a frozen
// deposit and exits the frozen state: back to paid when a balance
// remains, to violated when the deposit is consumed. The disbursed
// amount is independent of the earmark computed at violation time;
// settlements vary.
func (s *Service) CompleteCompensation(ctx context.Context, admin models.AdminContext, merchantID uint, compensationAmount float64) (*CompensationResult, error) {
	if compensationAmount <= 0 {
		return nil, errs.Invalid("compensation amount must be positive")
	}

	m, err := s.store.GetMerchant(merchantID)
	if err != nil {
		return nil, err
	}
	if m.DepositStatus != models.DepositStatusFrozen {
		s.metrics.RecordTransition("complete_compensation", "invalid_state")
		return nil, errs.ErrDepositNotFrozen
	}
	if compensationAmount > m.DepositAmount {
		s.metrics.RecordTransition("complete_compensation", "insufficient_balance")
		return nil, errs.ErrInsufficientBalance
	}

	remaining := m.DepositAmount - compensationAmount
	depleted := remaining <= balanceEpsilon

	err = s.store.Transaction(func(tx Store) error {
		m.DepositAmount = math.Max(0, remaining)
		if depleted {
			m.DepositStatus = models.DepositStatusViolated
			m.IsDepositMerchant = false
		} else {
			m.DepositStatus = models.DepositStatusPaid
		}
		return tx.UpdateMerchantDeposit(m, models.DepositStatusFrozen)
	})
	if err != nil {
		s.metrics.RecordTransition("complete_compensation", "error")
		return nil, err
	}
	s.metrics.RecordTransition("complete_compensation", "ok")

	content := fmt.Sprintf("Compensation of %.2f has been disbursed from your frozen deposit. Remaining deposit: %.2f. Your deposit has been unfrozen.", compensationAmount, m.DepositAmount)
	if depleted {
		content = fmt.Sprintf("Compensation of %.2f has been disbursed from your frozen deposit. Your deposit is now depleted and deposit merchant status has ended.", compensationAmount)
	}

	s.runAdvisory("complete_compensation", []advisoryEffect{
		{"audit", func() error {
			return s.audit.Record(ctx, &models.AdminOperationLog{
				AdminUserID:   admin.UserID,
				OperationType: models.OpCompensationComplete,
				TargetType:    "merchant",
				TargetID:      m.ID,
				Description:   fmt.Sprintf("completed compensation for merchant %d, amount %.2f", m.ID, compensationAmount),
				Metadata: models.JSON{
					"compensation_amount": compensationAmount,
					"remaining_deposit":   m.DepositAmount,
					"depleted":            depleted,
				},
			})
		}},
		{"notify", func() error {
			return s.notifier.Notify(ctx, &models.Notification{
				UserID:            m.OwnerUserID,
				Category:          models.NotificationCompensationComplete,
				Title:             "Compensation disbursed",
				Content:           content,
				RelatedMerchantID: &m.ID,
				Metadata:          models.JSON{"compensation_amount": compensationAmount, "remaining_deposit": m.DepositAmount},
			})
		}},
		s.invalidateEffect(ctx, m.ID),
	})

	return &CompensationResult{
		MerchantID:        m.ID,
		CompensatedAmount: compensationAmount,
		RemainingDeposit:  m.DepositAmount,
		DepositStatus:     m.DepositStatus,
		Depleted:          depleted,
	}, nil
}

// ActivateMerchant relists a merchant. No deposit-state interaction.
func (s *Service) ActivateMerchant(ctx context.Context, admin models.AdminContext, merchantID uint) error {
	m, err := s.store.GetMerchant(merchantID)
	if err != nil {
		return err
	}
	if m.IsActive {
		return errs.State("merchant is already active")
	}
	if err := s.store.SetMerchantActive(m.ID, true); err != nil {
		return err
	}

	s.runAdvisory("activate", []advisoryEffect{
		{"notify", func() error {
			return s.notifier.Notify(ctx, &models.Notification{
				UserID:            m.OwnerUserID,
				Category:          models.NotificationMerchantActivated,
				Title:             "Store reactivated",
				Content:           "Your store has been reactivated and is visible in the marketplace again.",
				RelatedMerchantID: &m.ID,
			})
		}},
		{"audit", func() error {
			return s.audit.Record(ctx, &models.AdminOperationLog{
				AdminUserID:   admin.UserID,
				OperationType: models.OpMerchantActivate,
				TargetType:    "merchant",
				TargetID:      m.ID,
				Description:   fmt.Sprintf("activated merchant %d", m.ID),
			})
		}},
		s.invalidateEffect(ctx, m.ID),
	})
	return nil
}

// DeactivateMerchant delists a merchant with a mandatory reason. No
// deposit-state interaction.
func (s *Service) DeactivateMerchant(ctx context.Context, admin models.AdminContext, merchantID uint, reason string) error {
	if reason == "" {
		return errs.Invalid("deactivation reason is required")
	}
	m, err := s.store.GetMerchant(merchantID)
	if err != nil {
		return err
	}
	if !m.IsActive {
		return errs.State("merchant is already inactive")
	}
	if err := s.store.SetMerchantActive(m.ID, false); err != nil {
		return err
	}

	s.runAdvisory("deactivate", []advisoryEffect{
		{"notify", func() error {
			return s.notifier.Notify(ctx, &models.Notification{
				UserID:            m.OwnerUserID,
				Category:          models.NotificationMerchantDeactivated,
				Title:             "Store deactivated",
				Content:           fmt.Sprintf("Your store has been deactivated: %s", reason),
				Priority:          "high",
				RelatedMerchantID: &m.ID,
			})
		}},
		{"audit", func() error {
			return s.audit.Record(ctx, &models.AdminOperationLog{
				AdminUserID:   admin.UserID,
				OperationType: models.OpMerchantDeactivate,
				TargetType:    "merchant",
				TargetID:      m.ID,
				Description:   fmt.Sprintf("deactivated merchant %d: %s", m.ID, reason),
				Metadata:      models.JSON{"reason": reason},
			})
		}},
		s.invalidateEffect(ctx, m.ID),
	})
	return nil
}
