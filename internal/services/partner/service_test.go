package partner

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
	partners     map[uint]*models.Partner
	applications map[uint]*models.PartnerSubscriptionApplication
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		partners:     make(map[uint]*models.Partner),
		applications: make(map[uint]*models.PartnerSubscriptionApplication),
	}
}

func (s *fakeStore) GetPartner(id uint) (*models.Partner, error) {
	p, ok := s.partners[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) GetApplication(id uint) (*models.PartnerSubscriptionApplication, error) {
	app, ok := s.applications[id]
	if !ok {
		return nil, errs.ErrApplicationNotFound
	}
	cp := *app
	return &cp, nil
}

func (s *fakeStore) SaveApplication(app *models.PartnerSubscriptionApplication) error {
	cp := *app
	s.applications[app.ID] = &cp
	return nil
}

func (s *fakeStore) ActivateSubscription(partnerID uint, expiresAt time.Time) error {
	p, ok := s.partners[partnerID]
	if !ok {
		return errs.ErrNotFound
	}
	p.Status = models.PartnerStatusActive
	p.SubscriptionExpiresAt = &expiresAt
	return nil
}

func (s *fakeStore) Transaction(fn func(Store) error) error {
	return fn(s)
}

type recorder struct {
	notifications []*models.Notification
	ledgerEntries []*models.PlatformLedgerEntry
	auditEntries  []*models.AdminOperationLog
}

func (r *recorder) Notify(_ context.Context, n *models.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *recorder) Append(_ context.Context, entry *models.PlatformLedgerEntry) error {
	r.ledgerEntries = append(r.ledgerEntries, entry)
	return nil
}

func (r *recorder) Record(_ context.Context, entry *models.AdminOperationLog) error {
	r.auditEntries = append(r.auditEntries, entry)
	return nil
}

var testAdmin = models.AdminContext{UserID: 42, Role: models.RoleAdmin}

func seedApplication(store *fakeStore, planMonths int, amount float64) {
	app := &models.PartnerSubscriptionApplication{
		PartnerID:       1,
		ApplicantUserID: 10,
		PlanMonths:      planMonths,
		Amount:          amount,
		Status:          models.ApplicationStatusPending,
	}
	app.ID = 3
	store.applications[3] = app
}

func TestApproveSubscription(t *testing.T) {
	t.Run("lapsed partner extends from now", func(t *testing.T) {
		store := newFakeStore()
		p := &models.Partner{OwnerUserID: 10, Name: "AdCo", Status: models.PartnerStatusPending}
		p.ID = 1
		store.partners[1] = p
		seedApplication(store, 3, 900)

		rec := &recorder{}
		svc := NewService(store, rec, rec, rec)
		result, err := svc.ApproveSubscription(context.Background(), testAdmin, 3, "verified")
		require.NoError(t, err)

		assert.Equal(t, models.ApplicationStatusApproved, result.Status)
		require.NotNil(t, result.SubscriptionExpiresAt)
		expected := time.Now().AddDate(0, 3, 0)
		assert.WithinDuration(t, expected, *result.SubscriptionExpiresAt, time.Minute)

		got := store.partners[1]
		assert.Equal(t, models.PartnerStatusActive, got.Status)

		require.Len(t, rec.ledgerEntries, 1)
		entry := rec.ledgerEntries[0]
		assert.Equal(t, models.LedgerTypeIncome, entry.TransactionType)
		assert.Equal(t, models.IncomeTypePartnerSubscription, entry.IncomeType)
		assert.Equal(t, 900.0, entry.Amount)

		require.Len(t, rec.notifications, 1)
		assert.Equal(t, models.NotificationSubscriptionApproved, rec.notifications[0].Category)
		assert.Len(t, rec.auditEntries, 1)
	})

	t.Run("running subscription extends from current expiry", func(t *testing.T) {
		store := newFakeStore()
		current := time.Now().AddDate(0, 2, 0)
		p := &models.Partner{OwnerUserID: 10, Name: "AdCo", Status: models.PartnerStatusActive, SubscriptionExpiresAt: &current}
		p.ID = 1
		store.partners[1] = p
		seedApplication(store, 6, 1800)

		rec := &recorder{}
		svc := NewService(store, rec, rec, rec)
		result, err := svc.ApproveSubscription(context.Background(), testAdmin, 3, "")
		require.NoError(t, err)
		assert.WithinDuration(t, current.AddDate(0, 6, 0), *result.SubscriptionExpiresAt, time.Second)
	})

	t.Run("already reviewed application", func(t *testing.T) {
		store := newFakeStore()
		p := &models.Partner{Name: "AdCo"}
		p.ID = 1
		store.partners[1] = p
		seedApplication(store, 3, 900)
		store.applications[3].Status = models.ApplicationStatusRejected

		rec := &recorder{}
		svc := NewService(store, rec, rec, rec)
		_, err := svc.ApproveSubscription(context.Background(), testAdmin, 3, "")
		assert.ErrorIs(t, err, errs.ErrApplicationResolved)
		assert.Empty(t, rec.ledgerEntries)
	})
}

func TestRejectSubscription(t *testing.T) {
	t.Run("reason is mandatory", func(t *testing.T) {
		store := newFakeStore()
		rec := &recorder{}
		svc := NewService(store, rec, rec, rec)
		_, err := svc.RejectSubscription(context.Background(), testAdmin, 3, "")
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("partner row untouched", func(t *testing.T) {
		store := newFakeStore()
		p := &models.Partner{OwnerUserID: 10, Name: "AdCo", Status: models.PartnerStatusPending}
		p.ID = 1
		store.partners[1] = p
		seedApplication(store, 3, 900)

		rec := &recorder{}
		svc := NewService(store, rec, rec, rec)
		result, err := svc.RejectSubscription(context.Background(), testAdmin, 3, "payment unverified")
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusRejected, result.Status)

		assert.Equal(t, models.PartnerStatusPending, store.partners[1].Status)
		assert.Nil(t, store.partners[1].SubscriptionExpiresAt)
		assert.Empty(t, rec.ledgerEntries)
		require.Len(t, rec.notifications, 1)
		assert.Equal(t, models.NotificationSubscriptionRejected, rec.notifications[0].Category)
	})
}
