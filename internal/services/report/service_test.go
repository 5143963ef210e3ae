package report

import (
	"context"
	"testing"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	reports   map[uint]*models.AbuseReport
	merchants map[uint]*models.Merchant
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		reports:   make(map[uint]*models.AbuseReport),
		merchants: make(map[uint]*models.Merchant),
	}
}

func (s *fakeStore) GetReport(id uint) (*models.AbuseReport, error) {
	r, ok := s.reports[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *fakeStore) SaveReport(r *models.AbuseReport) error {
	cp := *r
	s.reports[r.ID] = &cp
	return nil
}

func (s *fakeStore) GetMerchant(id uint) (*models.Merchant, error) {
	m, ok := s.merchants[id]
	if !ok {
		return nil, errs.ErrMerchantNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *fakeStore) ApplyCreditPenalty(merchantID uint, penalty int) (int, error) {
	m, ok := s.merchants[merchantID]
	if !ok {
		return 0, errs.ErrMerchantNotFound
	}
	m.CreditScore -= penalty
	if m.CreditScore < 0 {
		m.CreditScore = 0
	}
	return m.CreditScore, nil
}

func (s *fakeStore) Transaction(fn func(Store) error) error {
	return fn(s)
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

func seed(store *fakeStore, creditScore int) {
	m := &models.Merchant{ID: 1, OwnerUserID: 10, Name: "Acme", CreditScore: creditScore}
	store.merchants[1] = m
	r := &models.AbuseReport{ReporterUserID: 20, MerchantID: 1, Category: "counterfeit", Status: models.ReportStatusPending}
	r.ID = 4
	store.reports[4] = r
}

func TestResolve(t *testing.T) {
	t.Run("penalty applied and both sides notified", func(t *testing.T) {
		store := newFakeStore()
		seed(store, 100)

		rec := &recorder{}
		svc := NewService(store, rec, rec)
		result, err := svc.Resolve(context.Background(), testAdmin, 4, 30, "counterfeit confirmed")
		require.NoError(t, err)

		assert.Equal(t, models.ReportStatusResolved, result.Status)
		assert.Equal(t, 30, result.Penalty)
		assert.Equal(t, 70, result.NewScore)
		assert.Equal(t, 70, store.merchants[1].CreditScore)
		assert.Equal(t, models.ReportStatusResolved, store.reports[4].Status)

		require.Len(t, rec.notifications, 2)
		assert.Equal(t, models.NotificationCreditPenalty, rec.notifications[0].Category)
		assert.Equal(t, uint(10), rec.notifications[0].UserID)
		assert.Equal(t, models.NotificationReportResolved, rec.notifications[1].Category)
		assert.Equal(t, uint(20), rec.notifications[1].UserID)
		assert.Len(t, rec.auditEntries, 1)
	})

	t.Run("credit score floors at zero", func(t *testing.T) {
		store := newFakeStore()
		seed(store, 20)

		rec := &recorder{}
		svc := NewService(store, rec, rec)
		result, err := svc.Resolve(context.Background(), testAdmin, 4, 50, "severe violation")
		require.NoError(t, err)
		assert.Equal(t, 0, result.NewScore)
		assert.Equal(t, 0, store.merchants[1].CreditScore)
	})

	t.Run("penalty and resolution are mandatory", func(t *testing.T) {
		store := newFakeStore()
		rec := &recorder{}
		svc := NewService(store, rec, rec)
		_, err := svc.Resolve(context.Background(), testAdmin, 4, 0, "x")
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
		_, err = svc.Resolve(context.Background(), testAdmin, 4, 10, "")
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("already reviewed report", func(t *testing.T) {
		store := newFakeStore()
		seed(store, 100)
		store.reports[4].Status = models.ReportStatusDismissed

		rec := &recorder{}
		svc := NewService(store, rec, rec)
		_, err := svc.Resolve(context.Background(), testAdmin, 4, 30, "x")
		assert.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, 100, store.merchants[1].CreditScore)
	})
}

func TestDismiss(t *testing.T) {
	t.Run("reason is mandatory", func(t *testing.T) {
		store := newFakeStore()
		rec := &recorder{}
		svc := NewService(store, rec, rec)
		err := svc.Dismiss(context.Background(), testAdmin, 4, "")
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("dismissal leaves the merchant untouched", func(t *testing.T) {
		store := newFakeStore()
		seed(store, 100)

		rec := &recorder{}
		svc := NewService(store, rec, rec)
		err := svc.Dismiss(context.Background(), testAdmin, 4, "no evidence")
		require.NoError(t, err)

		assert.Equal(t, models.ReportStatusDismissed, store.reports[4].Status)
		assert.Equal(t, 100, store.merchants[1].CreditScore)
		require.Len(t, rec.notifications, 1)
		assert.Equal(t, models.NotificationReportDismissed, rec.notifications[0].Category)
		assert.Equal(t, uint(20), rec.notifications[0].UserID)
	})
}
