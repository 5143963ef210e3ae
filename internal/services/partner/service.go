// Package partner reviews advertiser subscription applications. An
// approval activates the partner, extends its subscription window and
// books the paid amount as platform income.
package partner

import (
	"context"
	"fmt"
	"log"
	"time"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
)

// Store is the persistence surface for partner review.
type Store interface {
	GetPartner(id uint) (*models.Partner, error)
	GetApplication(id uint) (*models.PartnerSubscriptionApplication, error)
	SaveApplication(app *models.PartnerSubscriptionApplication) error
	// ActivateSubscription marks the partner active with the new expiry.
	ActivateSubscription(partnerID uint, expiresAt time.Time) error
	Transaction(fn func(Store) error) error
}

// Notifier and friends mirror the deposit service's advisory contracts.
type Notifier interface {
	Notify(ctx context.Context, n *models.Notification) error
}

type Ledger interface {
	Append(ctx context.Context, entry *models.PlatformLedgerEntry) error
}

type AuditLogger interface {
	Record(ctx context.Context, entry *models.AdminOperationLog) error
}

type Service struct {
	store    Store
	notifier Notifier
	ledger   Ledger
	audit    AuditLogger
}

func NewService(store Store, notifier Notifier, ledger Ledger, audit AuditLogger) *Service {
	return &Service{store: store, notifier: notifier, ledger: ledger, audit: audit}
}

// ReviewResult echoes the state written by a subscription review.
type ReviewResult struct {
	ApplicationID         uint       `json:"application_id"`
	PartnerID             uint       `json:"partner_id"`
	Status                string     `json:"status"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
}

// ApproveSubscription activates the partner and extends the expiry by
// the plan length. A lapsed subscription extends from now, a running one
// from its current expiry.
func (s *Service) ApproveSubscription(ctx context.Context, admin models.AdminContext, applicationID uint, adminNote string) (*ReviewResult, error) {
	app, err := s.store.GetApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, errs.ErrApplicationResolved
	}
	p, err := s.store.GetPartner(app.PartnerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	base := now
	if p.SubscriptionExpiresAt != nil && p.SubscriptionExpiresAt.After(now) {
		base = *p.SubscriptionExpiresAt
	}
	expiresAt := base.AddDate(0, app.PlanMonths, 0)

	err = s.store.Transaction(func(tx Store) error {
		app.Status = models.ApplicationStatusApproved
		app.AdminNote = adminNote
		app.ReviewedBy = &admin.UserID
		app.ReviewedAt = &now
		if err := tx.SaveApplication(app); err != nil {
			return err
		}
		return tx.ActivateSubscription(p.ID, expiresAt)
	})
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Append(ctx, &models.PlatformLedgerEntry{
		TransactionType: models.LedgerTypeIncome,
		IncomeType:      models.IncomeTypePartnerSubscription,
		Amount:          app.Amount,
		PartnerID:       &p.ID,
		Description:     fmt.Sprintf("partner subscription, %d months, partner %d", app.PlanMonths, p.ID),
		Details:         models.JSON{"application_id": app.ID, "plan_months": app.PlanMonths, "expires_at": expiresAt},
		CreatedBy:       admin.UserID,
	}); err != nil {
		log.Printf("partner: ledger entry for application %d failed: %v", app.ID, err)
	}
	if err := s.notifier.Notify(ctx, &models.Notification{
		UserID:   app.ApplicantUserID,
		Category: models.NotificationSubscriptionApproved,
		Title:    "Partner subscription approved",
		Content:  fmt.Sprintf("Your partner subscription has been approved and runs until %s.", expiresAt.Format("2006-01-02")),
		Metadata: models.JSON{"partner_id": p.ID, "expires_at": expiresAt},
	}); err != nil {
		log.Printf("partner: notification for application %d failed: %v", app.ID, err)
	}
	if err := s.audit.Record(ctx, &models.AdminOperationLog{
		AdminUserID:   admin.UserID,
		OperationType: models.OpSubscriptionApprove,
		TargetType:    "partner_subscription_application",
		TargetID:      app.ID,
		Description:   fmt.Sprintf("approved subscription for partner %d, %d months, %.2f", p.ID, app.PlanMonths, app.Amount),
		Metadata:      models.JSON{"partner_id": p.ID, "amount": app.Amount},
	}); err != nil {
		log.Printf("partner: audit log for application %d failed: %v", app.ID, err)
	}

	return &ReviewResult{
		ApplicationID:         app.ID,
		PartnerID:             p.ID,
		Status:                app.Status,
		SubscriptionExpiresAt: &expiresAt,
	}, nil
}

// RejectSubscription marks the application rejected; the partner row is
// not touched.
func (s *Service) RejectSubscription(ctx context.Context, admin models.AdminContext, applicationID uint, reason string) (*ReviewResult, error) {
	if reason == "" {
		return nil, errs.Invalid("rejection reason is required")
	}
	app, err := s.store.GetApplication(applicationID)
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
	if err := s.store.SaveApplication(app); err != nil {
		return nil, err
	}

	if err := s.notifier.Notify(ctx, &models.Notification{
		UserID:   app.ApplicantUserID,
		Category: models.NotificationSubscriptionRejected,
		Title:    "Partner subscription rejected",
		Content:  fmt.Sprintf("Your partner subscription application was rejected: %s", reason),
	}); err != nil {
		log.Printf("partner: notification for application %d failed: %v", app.ID, err)
	}
	if err := s.audit.Record(ctx, &models.AdminOperationLog{
		AdminUserID:   admin.UserID,
		OperationType: models.OpSubscriptionReject,
		TargetType:    "partner_subscription_application",
		TargetID:      app.ID,
		Description:   fmt.Sprintf("rejected subscription for partner %d: %s", app.PartnerID, reason),
		Metadata:      models.JSON{"partner_id": app.PartnerID, "reason": reason},
	}); err != nil {
		log.Printf("partner: audit log for application %d failed: %v", app.ID, err)
	}

	return &ReviewResult{
		ApplicationID: app.ID,
		PartnerID:     app.PartnerID,
		Status:        app.Status,
	}, nil
}
