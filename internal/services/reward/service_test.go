package reward

import (
	"context"
	"testing"
	"time"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	plans      map[uint]*models.RewardPlan
	nextPlanID uint

	groupUsers map[string][]uint
	userPoints map[uint]int

	merchantsByOwner map[uint]*models.Merchant
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		plans:            make(map[uint]*models.RewardPlan),
		groupUsers:       make(map[string][]uint),
		userPoints:       make(map[uint]int),
		merchantsByOwner: make(map[uint]*models.Merchant),
	}
}

func (s *fakeStore) CreatePlan(plan *models.RewardPlan) error {
	s.nextPlanID++
	plan.ID = s.nextPlanID
	cp := *plan
	s.plans[plan.ID] = &cp
	return nil
}

func (s *fakeStore) GetPlan(id uint) (*models.RewardPlan, error) {
	plan, ok := s.plans[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *plan
	return &cp, nil
}

func (s *fakeStore) ListPlans(limit, offset int) ([]models.RewardPlan, int64, error) {
	var out []models.RewardPlan
	for _, p := range s.plans {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) ListDuePlans(now time.Time) ([]models.RewardPlan, error) {
	var due []models.RewardPlan
	for _, p := range s.plans {
		if p.Status == models.RewardPlanStatusScheduled && !p.ScheduledAt.After(now) {
			due = append(due, *p)
		}
	}
	return due, nil
}

func (s *fakeStore) SavePlan(plan *models.RewardPlan) error {
	cp := *plan
	s.plans[plan.ID] = &cp
	return nil
}

func (s *fakeStore) GrantPointsToGroup(group string, points int) (int64, error) {
	users := s.groupUsers[group]
	for _, uid := range users {
		s.userPoints[uid] += points
	}
	return int64(len(users)), nil
}

func (s *fakeStore) ListGroupUserIDs(group string) ([]uint, error) {
	return s.groupUsers[group], nil
}

func (s *fakeStore) GetMerchantByOwner(userID uint) (*models.Merchant, error) {
	m, ok := s.merchantsByOwner[userID]
	if !ok {
		return nil, errs.ErrMerchantNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *fakeStore) MarkRewardClaimed(merchantID uint, at time.Time) error {
	for _, m := range s.merchantsByOwner {
		if m.ID == merchantID {
			t := at
			m.LastRewardClaimAt = &t
			return nil
		}
	}
	return errs.ErrMerchantNotFound
}

func (s *fakeStore) AddUserPoints(userID uint, points int) error {
	s.userPoints[userID] += points
	return nil
}

type recorder struct {
	notifications []*models.Notification
	auditEntries  []*models.AdminOperationLog
}

func (r *recorder) Notify(_ context.Context, n *models.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *recorder) Record(_ context.Context, entry *models.AdminOperationLog) error {
	r.auditEntries = append(r.auditEntries, entry)
	return nil
}

var testAdmin = models.AdminContext{UserID: 42, Role: models.RoleAdmin}

func TestCreatePlan(t *testing.T) {
	store := newFakeStore()
	rec := &recorder{}
	svc := NewService(store, rec, rec, 10)

	t.Run("valid plan is scheduled", func(t *testing.T) {
		plan := &models.RewardPlan{
			TargetGroup: "vip",
			Points:      50,
			Title:       "VIP bonus",
			ScheduledAt: time.Now().Add(time.Hour),
		}
		require.NoError(t, svc.CreatePlan(context.Background(), testAdmin, plan))
		assert.Equal(t, models.RewardPlanStatusScheduled, plan.Status)
		assert.Equal(t, testAdmin.UserID, plan.CreatedBy)
		assert.Len(t, rec.auditEntries, 1)
	})

	t.Run("validation failures", func(t *testing.T) {
		base := models.RewardPlan{TargetGroup: "vip", Points: 50, Title: "x", ScheduledAt: time.Now().Add(time.Hour)}

		p := base
		p.TargetGroup = ""
		assert.ErrorIs(t, svc.CreatePlan(context.Background(), testAdmin, &p), errs.ErrInvalidInput)

		p = base
		p.Points = 0
		assert.ErrorIs(t, svc.CreatePlan(context.Background(), testAdmin, &p), errs.ErrInvalidInput)

		p = base
		p.ScheduledAt = time.Now().Add(-time.Hour)
		assert.ErrorIs(t, svc.CreatePlan(context.Background(), testAdmin, &p), errs.ErrInvalidInput)
	})
}

func TestCancelPlan(t *testing.T) {
	store := newFakeStore()
	rec := &recorder{}
	svc := NewService(store, rec, rec, 10)

	plan := &models.RewardPlan{TargetGroup: "vip", Points: 50, Title: "x", ScheduledAt: time.Now().Add(time.Hour)}
	require.NoError(t, svc.CreatePlan(context.Background(), testAdmin, plan))

	require.NoError(t, svc.CancelPlan(context.Background(), testAdmin, plan.ID))
	assert.Equal(t, models.RewardPlanStatusCancelled, store.plans[plan.ID].Status)

	err := svc.CancelPlan(context.Background(), testAdmin, plan.ID)
	assert.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestDispatchDuePlans(t *testing.T) {
	store := newFakeStore()
	store.groupUsers["vip"] = []uint{10, 11, 12}
	rec := &recorder{}
	svc := NewService(store, rec, rec, 10)

	due := &models.RewardPlan{
		TargetGroup: "vip",
		Points:      50,
		Title:       "VIP bonus",
		Status:      models.RewardPlanStatusScheduled,
		ScheduledAt: time.Now().Add(-time.Minute),
	}
	due.ID = 1
	store.plans[1] = due

	future := &models.RewardPlan{
		TargetGroup: "vip",
		Points:      25,
		Title:       "Later",
		Status:      models.RewardPlanStatusScheduled,
		ScheduledAt: time.Now().Add(time.Hour),
	}
	future.ID = 2
	store.plans[2] = future

	dispatched, err := svc.DispatchDuePlans(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, dispatched)

	got := store.plans[1]
	assert.Equal(t, models.RewardPlanStatusDispatched, got.Status)
	assert.Equal(t, 3, got.GrantedCount)
	assert.NotNil(t, got.DispatchedAt)

	assert.Equal(t, models.RewardPlanStatusScheduled, store.plans[2].Status)

	assert.Equal(t, 50, store.userPoints[10])
	assert.Equal(t, 50, store.userPoints[11])
	assert.Equal(t, 50, store.userPoints[12])
	assert.Len(t, rec.notifications, 3)

	// A dispatched plan is not picked up again.
	dispatched, err = svc.DispatchDuePlans(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, dispatched)
	assert.Equal(t, 50, store.userPoints[10])
}

func TestClaimDailyReward(t *testing.T) {
	newStore := func(status string, isDeposit bool) *fakeStore {
		store := newFakeStore()
		store.merchantsByOwner[10] = &models.Merchant{
			ID:                1,
			OwnerUserID:       10,
			IsDepositMerchant: isDeposit,
			DepositStatus:     status,
		}
		return store
	}

	t.Run("eligible merchant claims once", func(t *testing.T) {
		store := newStore(models.DepositStatusPaid, true)
		rec := &recorder{}
		svc := NewService(store, rec, rec, 10)

		result, err := svc.ClaimDailyReward(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, 10, result.Points)
		assert.Equal(t, 10, store.userPoints[10])
		assert.NotNil(t, store.merchantsByOwner[10].LastRewardClaimAt)

		_, err = svc.ClaimDailyReward(context.Background(), 10)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, 10, store.userPoints[10])
	})

	t.Run("claim resets the next day", func(t *testing.T) {
		store := newStore(models.DepositStatusPaid, true)
		yesterday := time.Now().AddDate(0, 0, -1)
		store.merchantsByOwner[10].LastRewardClaimAt = &yesterday

		rec := &recorder{}
		svc := NewService(store, rec, rec, 10)
		_, err := svc.ClaimDailyReward(context.Background(), 10)
		assert.NoError(t, err)
	})

	t.Run("non-deposit merchant is ineligible", func(t *testing.T) {
		store := newStore(models.DepositStatusUnpaid, false)
		rec := &recorder{}
		svc := NewService(store, rec, rec, 10)
		_, err := svc.ClaimDailyReward(context.Background(), 10)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("frozen deposit is ineligible", func(t *testing.T) {
		store := newStore(models.DepositStatusFrozen, true)
		rec := &recorder{}
		svc := NewService(store, rec, rec, 10)
		_, err := svc.ClaimDailyReward(context.Background(), 10)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})
}
