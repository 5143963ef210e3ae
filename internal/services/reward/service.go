// Package reward manages scheduled point grants to user groups and the
// daily login reward for deposit merchants.
package reward

import (
	"context"
	"fmt"
	"log"
	"time"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
)

type Store interface {
	CreatePlan(plan *models.RewardPlan) error
	GetPlan(id uint) (*models.RewardPlan, error)
	ListPlans(limit, offset int) ([]models.RewardPlan, int64, error)
	// ListDuePlans returns scheduled plans whose time has passed.
	ListDuePlans(now time.Time) ([]models.RewardPlan, error)
	SavePlan(plan *models.RewardPlan) error
	// GrantPointsToGroup credits points to every active user of the
	// group and returns how many users were credited.
	GrantPointsToGroup(group string, points int) (int64, error)
	ListGroupUserIDs(group string) ([]uint, error)

	// Daily login reward backing methods.
	GetMerchantByOwner(userID uint) (*models.Merchant, error)
	MarkRewardClaimed(merchantID uint, at time.Time) error
	AddUserPoints(userID uint, points int) error
}

type Notifier interface {
	Notify(ctx context.Context, n *models.Notification) error
}

type AuditLogger interface {
	Record(ctx context.Context, entry *models.AdminOperationLog) error
}

type Service struct {
	store       Store
	notifier    Notifier
	audit       AuditLogger
	dailyPoints int
}

func NewService(store Store, notifier Notifier, audit AuditLogger, dailyPoints int) *Service {
	if dailyPoints <= 0 {
		dailyPoints = 10
	}
	return &Service{store: store, notifier: notifier, audit: audit, dailyPoints: dailyPoints}
}

// CreatePlan schedules a point grant for a user group.
func (s *Service) CreatePlan(ctx context.Context, admin models.AdminContext, plan *models.RewardPlan) error {
	if plan.TargetGroup == "" {
		return errs.Invalid("target group is required")
	}
	if plan.Points <= 0 {
		return errs.Invalid("points must be positive")
	}
	if plan.Title == "" {
		return errs.Invalid("title is required")
	}
	if plan.ScheduledAt.Before(time.Now()) {
		return errs.Invalid("scheduled time must be in the future")
	}
	plan.Status = models.RewardPlanStatusScheduled
	plan.CreatedBy = admin.UserID
	if err := s.store.CreatePlan(plan); err != nil {
		return err
	}

	if err := s.audit.Record(ctx, &models.AdminOperationLog{
		AdminUserID:   admin.UserID,
		OperationType: models.OpRewardPlanCreate,
		TargetType:    "reward_plan",
		TargetID:      plan.ID,
		Description:   fmt.Sprintf("scheduled %d points for group %q at %s", plan.Points, plan.TargetGroup, plan.ScheduledAt.Format(time.RFC3339)),
		Metadata:      models.JSON{"target_group": plan.TargetGroup, "points": plan.Points},
	}); err != nil {
		log.Printf("reward: audit log for plan %d failed: %v", plan.ID, err)
	}
	return nil
}

// CancelPlan withdraws a plan that has not been dispatched yet.
func (s *Service) CancelPlan(ctx context.Context, admin models.AdminContext, planID uint) error {
	plan, err := s.store.GetPlan(planID)
	if err != nil {
		return err
	}
	if plan.Status != models.RewardPlanStatusScheduled {
		return errs.State("plan is no longer scheduled")
	}
	plan.Status = models.RewardPlanStatusCancelled
	if err := s.store.SavePlan(plan); err != nil {
		return err
	}

	if err := s.audit.Record(ctx, &models.AdminOperationLog{
		AdminUserID:   admin.UserID,
		OperationType: models.OpRewardPlanCancel,
		TargetType:    "reward_plan",
		TargetID:      plan.ID,
		Description:   fmt.Sprintf("cancelled reward plan %d", plan.ID),
	}); err != nil {
		log.Printf("reward: audit log for plan %d failed: %v", plan.ID, err)
	}
	return nil
}

// ListPlans returns plans, newest first.
func (s *Service) ListPlans(ctx context.Context, limit, offset int) ([]models.RewardPlan, int64, error) {
	return s.store.ListPlans(limit, offset)
}

// ClaimResult echoes a successful daily reward claim.
type ClaimResult struct {
	Points    int       `json:"points"`
	ClaimedAt time.Time `json:"claimed_at"`
}

// ClaimDailyReward grants the daily login reward to a deposit merchant's
// owner. One claim per calendar day; only merchants with a paid deposit
// are eligible.
func (s *Service) ClaimDailyReward(ctx context.Context, userID uint) (*ClaimResult, error) {
	m, err := s.store.GetMerchantByOwner(userID)
	if err != nil {
		return nil, err
	}
	if !m.IsDepositMerchant || m.DepositStatus != models.DepositStatusPaid {
		return nil, errs.State("daily reward requires an active paid deposit")
	}

	now := time.Now()
	if m.LastRewardClaimAt != nil && sameDay(*m.LastRewardClaimAt, now) {
		return nil, errs.State("daily reward already claimed today")
	}

	if err := s.store.MarkRewardClaimed(m.ID, now); err != nil {
		return nil, err
	}
	if err := s.store.AddUserPoints(userID, s.dailyPoints); err != nil {
		return nil, err
	}
	return &ClaimResult{Points: s.dailyPoints, ClaimedAt: now}, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// DispatchDuePlans grants points for every plan whose scheduled time has
// passed. Called by the dispatcher loop; safe to call repeatedly because
// a plan exits the scheduled state once dispatched.
func (s *Service) DispatchDuePlans(ctx context.Context, now time.Time) (int, error) {
	due, err := s.store.ListDuePlans(now)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for i := range due {
		plan := &due[i]
		granted, err := s.store.GrantPointsToGroup(plan.TargetGroup, plan.Points)
		if err != nil {
			log.Printf("reward: granting plan %d to group %q failed: %v", plan.ID, plan.TargetGroup, err)
			continue
		}

		plan.Status = models.RewardPlanStatusDispatched
		plan.DispatchedAt = &now
		plan.GrantedCount = int(granted)
		if err := s.store.SavePlan(plan); err != nil {
			log.Printf("reward: marking plan %d dispatched failed: %v", plan.ID, err)
			continue
		}
		dispatched++

		// Notification rows are best-effort, one per group member.
		userIDs, err := s.store.ListGroupUserIDs(plan.TargetGroup)
		if err != nil {
			log.Printf("reward: listing group %q for plan %d failed: %v", plan.TargetGroup, plan.ID, err)
			continue
		}
		for _, uid := range userIDs {
			if err := s.notifier.Notify(ctx, &models.Notification{
				UserID:   uid,
				Category: models.NotificationGroupReward,
				Title:    plan.Title,
				Content:  fmt.Sprintf("%s You received %d points.", plan.Content, plan.Points),
				Metadata: models.JSON{"plan_id": plan.ID, "points": plan.Points},
			}); err != nil {
				log.Printf("reward: notification to user %d for plan %d failed: %v", uid, plan.ID, err)
			}
		}
	}
	return dispatched, nil
}
