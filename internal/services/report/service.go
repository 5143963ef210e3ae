// Package report handles abuse reports filed against merchants.
// Resolving a report applies a credit-score penalty to the merchant;
// dismissing it leaves the merchant untouched.
package report

import (
	"context"
	"fmt"
	"log"
	"time"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
)

type Store interface {
	GetReport(id uint) (*models.AbuseReport, error)
	SaveReport(r *models.AbuseReport) error
	GetMerchant(id uint) (*models.Merchant, error)
	// ApplyCreditPenalty deducts penalty points, flooring the score at 0,
	// and returns the new score.
	ApplyCreditPenalty(merchantID uint, penalty int) (int, error)
	Transaction(fn func(Store) error) error
}

type Notifier interface {
	Notify(ctx context.Context, n *models.Notification) error
}

type AuditLogger interface {
	Record(ctx context.Context, entry *models.AdminOperationLog) error
}

type Service struct {
	store    Store
	notifier Notifier
	audit    AuditLogger
}

func NewService(store Store, notifier Notifier, audit AuditLogger) *Service {
	return &Service{store: store, notifier: notifier, audit: audit}
}

// ResolveResult echoes a resolved report.
type ResolveResult struct {
	ReportID   uint   `json:"report_id"`
	MerchantID uint   `json:"merchant_id"`
	Status     string `json:"status"`
	Penalty    int    `json:"penalty"`
	NewScore   int    `json:"new_credit_score"`
}

// Resolve upholds the report and deducts penalty points from the
// merchant's credit score. Both the reporter and the merchant owner are
// notified.
func (s *Service) Resolve(ctx context.Context, admin models.AdminContext, reportID uint, penalty int, resolution string) (*ResolveResult, error) {
	if penalty <= 0 {
		return nil, errs.Invalid("penalty must be positive")
	}
	if resolution == "" {
		return nil, errs.Invalid("resolution summary is required")
	}
	r, err := s.store.GetReport(reportID)
	if err != nil {
		return nil, err
	}
	if r.Status != models.ReportStatusPending {
		return nil, errs.State("report has already been reviewed")
	}
	m, err := s.store.GetMerchant(r.MerchantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var newScore int
	err = s.store.Transaction(func(tx Store) error {
		r.Status = models.ReportStatusResolved
		r.Penalty = penalty
		r.Resolution = resolution
		r.ReviewedBy = &admin.UserID
		r.ReviewedAt = &now
		if err := tx.SaveReport(r); err != nil {
			return err
		}
		var err error
		newScore, err = tx.ApplyCreditPenalty(m.ID, penalty)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.Notify(ctx, &models.Notification{
		UserID:            m.OwnerUserID,
		Category:          models.NotificationCreditPenalty,
		Title:             "Credit score penalty applied",
		Content:           fmt.Sprintf("An abuse report against your store was upheld: %s. Your credit score was reduced by %d points to %d.", resolution, penalty, newScore),
		Priority:          "high",
		RelatedMerchantID: &m.ID,
		Metadata:          models.JSON{"report_id": r.ID, "penalty": penalty, "new_score": newScore},
	}); err != nil {
		log.Printf("report: merchant notification for report %d failed: %v", r.ID, err)
	}
	if err := s.notifier.Notify(ctx, &models.Notification{
		UserID:   r.ReporterUserID,
		Category: models.NotificationReportResolved,
		Title:    "Your report was resolved",
		Content:  "Thank you for your report. It was reviewed and upheld, and action has been taken against the merchant.",
		Metadata: models.JSON{"report_id": r.ID},
	}); err != nil {
		log.Printf("report: reporter notification for report %d failed: %v", r.ID, err)
	}
	if err := s.audit.Record(ctx, &models.AdminOperationLog{
		AdminUserID:   admin.UserID,
		OperationType: models.OpReportResolve,
		TargetType:    "abuse_report",
		TargetID:      r.ID,
		Description:   fmt.Sprintf("resolved abuse report against merchant %d, penalty %d", m.ID, penalty),
		Metadata:      models.JSON{"merchant_id": m.ID, "penalty": penalty, "new_score": newScore, "resolution": resolution},
	}); err != nil {
		log.Printf("report: audit log for report %d failed: %v", r.ID, err)
	}

	return &ResolveResult{
		ReportID:   r.ID,
		MerchantID: m.ID,
		Status:     r.Status,
		Penalty:    penalty,
		NewScore:   newScore,
	}, nil
}

// Dismiss closes the report without penalty. A reason is mandatory.
func (s *Service) Dismiss(ctx context.Context, admin models.AdminContext, reportID uint, reason string) error {
	if reason == "" {
		return errs.Invalid("dismissal reason is required")
	}
	r, err := s.store.GetReport(reportID)
	if err != nil {
		return err
	}
	if r.Status != models.ReportStatusPending {
		return errs.State("report has already been reviewed")
	}

	now := time.Now()
	r.Status = models.ReportStatusDismissed
	r.Resolution = reason
	r.ReviewedBy = &admin.UserID
	r.ReviewedAt = &now
	if err := s.store.SaveReport(r); err != nil {
		return err
	}

	if err := s.notifier.Notify(ctx, &models.Notification{
		UserID:   r.ReporterUserID,
		Category: models.NotificationReportDismissed,
		Title:    "Your report was dismissed",
		Content:  fmt.Sprintf("Your report was reviewed and dismissed: %s", reason),
		Metadata: models.JSON{"report_id": r.ID},
	}); err != nil {
		log.Printf("report: reporter notification for report %d failed: %v", r.ID, err)
	}
	if err := s.audit.Record(ctx, &models.AdminOperationLog{
		AdminUserID:   admin.UserID,
		OperationType: models.OpReportDismiss,
		TargetType:    "abuse_report",
		TargetID:      r.ID,
		Description:   fmt.Sprintf("dismissed abuse report against merchant %d: %s", r.MerchantID, reason),
		Metadata:      models.JSON{"merchant_id": r.MerchantID, "reason": reason},
	}); err != nil {
		log.Printf("report: audit log for report %d failed: %v", r.ID, err)
	}
	return nil
}
