package deposit

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store. Getters hand out copies so that
// service-side mutations only become visible through
// UpdateMerchantDeposit, mirroring how the real store behaves.
type fakeStore struct {
	merchants   map[uint]*models.Merchant
	depositApps map[uint]*models.DepositApplication
	topUpApps   map[uint]*models.DepositTopUpApplication
	refundApps  map[uint]*models.DepositRefundApplication

	// beforeTx runs at the start of Transaction, simulating a
	// concurrent writer that slips in between read and write.
	beforeTx func(s *fakeStore)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		merchants:   make(map[uint]*models.Merchant),
		depositApps: make(map[uint]*models.DepositApplication),
		topUpApps:   make(map[uint]*models.DepositTopUpApplication),
		refundApps:  make(map[uint]*models.DepositRefundApplication),
	}
}

func (s *fakeStore) GetMerchant(id uint) (*models.Merchant, error) {
	m, ok := s.merchants[id]
	if !ok {
		return nil, errs.ErrMerchantNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *fakeStore) UpdateMerchantDeposit(m *models.Merchant, expectedStatus string) error {
	stored, ok := s.merchants[m.ID]
	if !ok {
		return errs.ErrMerchantNotFound
	}
	if stored.DepositStatus != expectedStatus {
		return errs.ErrConcurrentModification
	}
	stored.IsDepositMerchant = m.IsDepositMerchant
	stored.IsActive = m.IsActive
	stored.DepositAmount = m.DepositAmount
	stored.DepositStatus = m.DepositStatus
	stored.DepositPaidAt = m.DepositPaidAt
	stored.DepositRefundStatus = m.DepositRefundStatus
	stored.LastRewardClaimAt = m.LastRewardClaimAt
	return nil
}

func (s *fakeStore) SetMerchantActive(id uint, active bool) error {
	m, ok := s.merchants[id]
	if !ok {
		return errs.ErrMerchantNotFound
	}
	m.IsActive = active
	return nil
}

func (s *fakeStore) SetMerchantRefundStatus(id uint, status string) error {
	m, ok := s.merchants[id]
	if !ok {
		return errs.ErrMerchantNotFound
	}
	m.DepositRefundStatus = status
	return nil
}

func (s *fakeStore) GetDepositApplication(id uint) (*models.DepositApplication, error) {
	app, ok := s.depositApps[id]
	if !ok {
		return nil, errs.ErrApplicationNotFound
	}
	cp := *app
	return &cp, nil
}

func (s *fakeStore) SaveDepositApplication(app *models.DepositApplication) error {
	cp := *app
	s.depositApps[app.ID] = &cp
	return nil
}

func (s *fakeStore) GetTopUpApplication(id uint) (*models.DepositTopUpApplication, error) {
	app, ok := s.topUpApps[id]
	if !ok {
		return nil, errs.ErrApplicationNotFound
	}
	cp := *app
	return &cp, nil
}

func (s *fakeStore) SaveTopUpApplication(app *models.DepositTopUpApplication) error {
	cp := *app
	s.topUpApps[app.ID] = &cp
	return nil
}

func (s *fakeStore) GetRefundApplication(id uint) (*models.DepositRefundApplication, error) {
	app, ok := s.refundApps[id]
	if !ok {
		return nil, errs.ErrApplicationNotFound
	}
	cp := *app
	return &cp, nil
}

func (s *fakeStore) SaveRefundApplication(app *models.DepositRefundApplication) error {
	cp := *app
	s.refundApps[app.ID] = &cp
	return nil
}

func (s *fakeStore) Transaction(fn func(Store) error) error {
	if s.beforeTx != nil {
		s.beforeTx(s)
	}
	return fn(s)
}

// recorder captures advisory effects.
type recorder struct {
	notifications []*models.Notification
	ledgerEntries []*models.PlatformLedgerEntry
	auditEntries  []*models.AdminOperationLog
	failLedger    bool
}

func (r *recorder) Notify(_ context.Context, n *models.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *recorder) Append(_ context.Context, entry *models.PlatformLedgerEntry) error {
	if r.failLedger {
		return errors.New("ledger unavailable")
	}
	r.ledgerEntries = append(r.ledgerEntries, entry)
	return nil
}

func (r *recorder) Record(_ context.Context, entry *models.AdminOperationLog) error {
	r.auditEntries = append(r.auditEntries, entry)
	return nil
}

var testAdmin = models.AdminContext{UserID: 42, Role: models.RoleAdmin}

func newTestService(store *fakeStore) (*Service, *recorder) {
	rec := &recorder{}
	svc := NewService(store, rec, rec, rec, nil, nil)
	return svc, rec
}

func seedMerchant(store *fakeStore, m models.Merchant) {
	cp := m
	store.merchants[m.ID] = &cp
}

func paidMerchant(amount float64) models.Merchant {
	now := time.Now()
	return models.Merchant{
		ID:                1,
		OwnerUserID:       10,
		Name:              "Acme Store",
		IsActive:          true,
		IsDepositMerchant: true,
		DepositAmount:     amount,
		DepositStatus:     models.DepositStatusPaid,
		DepositPaidAt:     &now,
	}
}

func TestApproveDepositApplication(t *testing.T) {
	t.Run("pending application on unpaid merchant", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, models.Merchant{ID: 1, OwnerUserID: 10, IsActive: true, DepositStatus: models.DepositStatusUnpaid})
		app := &models.DepositApplication{MerchantID: 1, ApplicantUserID: 10, Amount: 1000, Status: models.ApplicationStatusPending}
		app.ID = 5
		store.depositApps[5] = app

		svc, rec := newTestService(store)
		result, err := svc.ApproveDepositApplication(context.Background(), testAdmin, 5, "proof checked")
		require.NoError(t, err)

		assert.Equal(t, models.ApplicationStatusApproved, result.Status)
		assert.Equal(t, models.DepositStatusPaid, result.DepositStatus)
		assert.Equal(t, 1000.0, result.DepositAmount)

		m := store.merchants[1]
		assert.True(t, m.IsDepositMerchant)
		assert.Equal(t, models.DepositStatusPaid, m.DepositStatus)
		assert.Equal(t, 1000.0, m.DepositAmount)
		assert.NotNil(t, m.DepositPaidAt)

		require.Len(t, rec.notifications, 1)
		assert.Equal(t, models.NotificationDepositApproved, rec.notifications[0].Category)
		require.Len(t, rec.auditEntries, 1)
		assert.Equal(t, testAdmin.UserID, rec.auditEntries[0].AdminUserID)
	})

	t.Run("already reviewed application", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, models.Merchant{ID: 1, DepositStatus: models.DepositStatusUnpaid})
		app := &models.DepositApplication{MerchantID: 1, Amount: 1000, Status: models.ApplicationStatusApproved}
		app.ID = 5
		store.depositApps[5] = app

		svc, _ := newTestService(store)
		_, err := svc.ApproveDepositApplication(context.Background(), testAdmin, 5, "")
		assert.ErrorIs(t, err, errs.ErrApplicationResolved)
	})

	t.Run("merchant already holds a deposit", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, paidMerchant(500))
		app := &models.DepositApplication{MerchantID: 1, Amount: 1000, Status: models.ApplicationStatusPending}
		app.ID = 5
		store.depositApps[5] = app

		svc, _ := newTestService(store)
		_, err := svc.ApproveDepositApplication(context.Background(), testAdmin, 5, "")
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("concurrent status change between read and write", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, models.Merchant{ID: 1, DepositStatus: models.DepositStatusUnpaid})
		app := &models.DepositApplication{MerchantID: 1, Amount: 1000, Status: models.ApplicationStatusPending}
		app.ID = 5
		store.depositApps[5] = app
		store.beforeTx = func(s *fakeStore) {
			s.merchants[1].DepositStatus = models.DepositStatusPaid
		}

		svc, rec := newTestService(store)
		_, err := svc.ApproveDepositApplication(context.Background(), testAdmin, 5, "")
		assert.ErrorIs(t, err, errs.ErrConcurrentModification)
		assert.Empty(t, rec.notifications)
	})
}

func TestRejectDepositApplication(t *testing.T) {
	t.Run("reason is mandatory", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestService(store)
		_, err := svc.RejectDepositApplication(context.Background(), testAdmin, 5, "")
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("merchant deposit fields untouched", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, models.Merchant{ID: 1, OwnerUserID: 10, DepositStatus: models.DepositStatusUnpaid})
		app := &models.DepositApplication{MerchantID: 1, ApplicantUserID: 10, Amount: 1000, Status: models.ApplicationStatusPending}
		app.ID = 5
		store.depositApps[5] = app
		before := *store.merchants[1]

		svc, rec := newTestService(store)
		result, err := svc.RejectDepositApplication(context.Background(), testAdmin, 5, "unverifiable proof")
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusRejected, result.Status)

		after := *store.merchants[1]
		assert.Equal(t, before.DepositAmount, after.DepositAmount)
		assert.Equal(t, before.DepositStatus, after.DepositStatus)
		assert.Equal(t, before.IsDepositMerchant, after.IsDepositMerchant)

		assert.Equal(t, "unverifiable proof", store.depositApps[5].RejectReason)
		require.Len(t, rec.notifications, 1)
		assert.Equal(t, models.NotificationDepositRejected, rec.notifications[0].Category)
	})
}

func TestApproveTopUpApplication(t *testing.T) {
	newTopUp := func(original, topUp float64) *models.DepositTopUpApplication {
		app := &models.DepositTopUpApplication{
			MerchantID:      1,
			ApplicantUserID: 10,
			OriginalAmount:  original,
			TopUpAmount:     topUp,
			TotalAmount:     original + topUp,
			Status:          models.ApplicationStatusPending,
		}
		app.ID = 7
		return app
	}

	t.Run("snapshot matches live balance", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, paidMerchant(1000))
		store.topUpApps[7] = newTopUp(1000, 500)

		svc, _ := newTestService(store)
		result, err := svc.ApproveTopUpApplication(context.Background(), testAdmin, 7, "")
		require.NoError(t, err)
		assert.Equal(t, 1500.0, result.DepositAmount)
		assert.Equal(t, 1500.0, store.merchants[1].DepositAmount)
		assert.Equal(t, models.DepositStatusPaid, store.merchants[1].DepositStatus)
	})

	t.Run("live balance drifted from snapshot", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, paidMerchant(700))
		store.topUpApps[7] = newTopUp(1000, 500)

		svc, _ := newTestService(store)
		_, err := svc.ApproveTopUpApplication(context.Background(), testAdmin, 7, "")
		assert.ErrorIs(t, err, errs.ErrConcurrentModification)
		assert.Equal(t, 700.0, store.merchants[1].DepositAmount)
	})

	t.Run("deposit not in paid state", func(t *testing.T) {
		store := newFakeStore()
		m := paidMerchant(1000)
		m.DepositStatus = models.DepositStatusFrozen
		seedMerchant(store, m)
		store.topUpApps[7] = newTopUp(1000, 500)

		svc, _ := newTestService(store)
		_, err := svc.ApproveTopUpApplication(context.Background(), testAdmin, 7, "")
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})
}

func TestApproveRefundApplication(t *testing.T) {
	newRefund := func(deposit float64) *models.DepositRefundApplication {
		app := &models.DepositRefundApplication{
			MerchantID:      1,
			ApplicantUserID: 10,
			DepositAmount:   deposit,
			FeeRate:         10,
			FeeAmount:       deposit * 0.10,
			RefundAmount:    deposit * 0.90,
			Status:          models.ApplicationStatusPending,
		}
		app.ID = 9
		return app
	}

	t.Run("refund ends deposit tier and books the fee", func(t *testing.T) {
		store := newFakeStore()
		m := paidMerchant(500)
		claimed := time.Now()
		m.LastRewardClaimAt = &claimed
		seedMerchant(store, m)
		store.refundApps[9] = newRefund(500)

		svc, rec := newTestService(store)
		result, err := svc.ApproveRefundApplication(context.Background(), testAdmin, 9, "0xabc123", "paid out")
		require.NoError(t, err)
		assert.Equal(t, 450.0, result.RefundAmount)
		assert.Equal(t, 50.0, result.FeeAmount)

		got := store.merchants[1]
		assert.Equal(t, models.DepositStatusRefunded, got.DepositStatus)
		assert.Equal(t, 0.0, got.DepositAmount)
		assert.False(t, got.IsDepositMerchant)
		assert.Nil(t, got.LastRewardClaimAt)
		assert.Equal(t, models.ApplicationStatusApproved, got.DepositRefundStatus)

		require.Len(t, rec.ledgerEntries, 1)
		entry := rec.ledgerEntries[0]
		assert.Equal(t, models.LedgerTypeIncome, entry.TransactionType)
		assert.Equal(t, models.IncomeTypeDepositFee, entry.IncomeType)
		assert.Equal(t, 50.0, entry.Amount)
	})

	t.Run("second approval is rejected and books nothing", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, paidMerchant(500))
		store.refundApps[9] = newRefund(500)

		svc, rec := newTestService(store)
		_, err := svc.ApproveRefundApplication(context.Background(), testAdmin, 9, "0xabc123", "")
		require.NoError(t, err)

		_, err = svc.ApproveRefundApplication(context.Background(), testAdmin, 9, "0xdef456", "")
		assert.ErrorIs(t, err, errs.ErrApplicationResolved)
		assert.Len(t, rec.ledgerEntries, 1)
	})

	t.Run("transaction hash is mandatory", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestService(store)
		_, err := svc.ApproveRefundApplication(context.Background(), testAdmin, 9, "", "")
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("ledger failure does not undo the refund", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, paidMerchant(500))
		store.refundApps[9] = newRefund(500)

		svc, rec := newTestService(store)
		rec.failLedger = true
		_, err := svc.ApproveRefundApplication(context.Background(), testAdmin, 9, "0xabc123", "")
		require.NoError(t, err)
		assert.Equal(t, models.DepositStatusRefunded, store.merchants[1].DepositStatus)
		assert.Empty(t, rec.ledgerEntries)
	})
}

func TestRejectRefundApplication(t *testing.T) {
	store := newFakeStore()
	seedMerchant(store, paidMerchant(500))
	app := &models.DepositRefundApplication{
		MerchantID:      1,
		ApplicantUserID: 10,
		DepositAmount:   500,
		Status:          models.ApplicationStatusPending,
	}
	app.ID = 9
	store.refundApps[9] = app

	svc, _ := newTestService(store)
	result, err := svc.RejectRefundApplication(context.Background(), testAdmin, 9, "wallet unverified")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, result.Status)

	m := store.merchants[1]
	assert.Equal(t, models.DepositStatusPaid, m.DepositStatus)
	assert.Equal(t, 500.0, m.DepositAmount)
	assert.True(t, m.IsDepositMerchant)
	assert.Equal(t, models.ApplicationStatusRejected, m.DepositRefundStatus)
}

func TestViolateMerchant(t *testing.T) {
	t.Run("partial deduction freezes the deposit", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, paidMerchant(1000))

		svc, rec := newTestService(store)
		result, err := svc.ViolateMerchant(context.Background(), testAdmin, 1, "counterfeit goods", 300)
		require.NoError(t, err)

		assert.Equal(t, 300.0, result.DeductedAmount)
		assert.InDelta(t, 90.0, result.PenaltyAmount, 0.001)
		assert.InDelta(t, 210.0, result.CompensationAmount, 0.001)
		assert.Equal(t, 700.0, result.RemainingDeposit)
		assert.Equal(t, models.DepositStatusFrozen, result.DepositStatus)

		m := store.merchants[1]
		assert.Equal(t, models.DepositStatusFrozen, m.DepositStatus)
		assert.Equal(t, 700.0, m.DepositAmount)
		assert.True(t, m.IsDepositMerchant)
		assert.False(t, m.IsActive)

		require.Len(t, rec.notifications, 1)
		assert.Equal(t, models.NotificationMerchantViolated, rec.notifications[0].Category)
	})

	t.Run("full deduction ends the deposit tier", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, paidMerchant(1000))

		svc, _ := newTestService(store)
		result, err := svc.ViolateMerchant(context.Background(), testAdmin, 1, "fraud", 1000)
		require.NoError(t, err)
		assert.Equal(t, models.DepositStatusViolated, result.DepositStatus)
		assert.Equal(t, 0.0, result.RemainingDeposit)

		m := store.merchants[1]
		assert.False(t, m.IsDepositMerchant)
		assert.False(t, m.IsActive)
		assert.Equal(t, 0.0, m.DepositAmount)
	})

	t.Run("deduction exceeding the deposit", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, paidMerchant(200))

		svc, _ := newTestService(store)
		_, err := svc.ViolateMerchant(context.Background(), testAdmin, 1, "fraud", 300)
		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
		assert.Equal(t, 200.0, store.merchants[1].DepositAmount)
	})

	t.Run("frozen deposit cannot be violated again", func(t *testing.T) {
		store := newFakeStore()
		m := paidMerchant(700)
		m.DepositStatus = models.DepositStatusFrozen
		seedMerchant(store, m)

		svc, _ := newTestService(store)
		_, err := svc.ViolateMerchant(context.Background(), testAdmin, 1, "fraud", 100)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("non-deposit merchant", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, models.Merchant{ID: 1, IsActive: true, DepositStatus: models.DepositStatusUnpaid})

		svc, _ := newTestService(store)
		_, err := svc.ViolateMerchant(context.Background(), testAdmin, 1, "fraud", 100)
		assert.ErrorIs(t, err, errs.ErrNotDepositMerchant)
	})

	t.Run("reason and positive amount required", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestService(store)
		_, err := svc.ViolateMerchant(context.Background(), testAdmin, 1, "", 100)
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
		_, err = svc.ViolateMerchant(context.Background(), testAdmin, 1, "fraud", 0)
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestCompleteCompensation(t *testing.T) {
	frozenMerchant := func(amount float64) models.Merchant {
		m := paidMerchant(amount)
		m.DepositStatus = models.DepositStatusFrozen
		m.IsActive = false
		return m
	}

	t.Run("partial compensation unfreezes the deposit", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, frozenMerchant(700))

		svc, _ := newTestService(store)
		result, err := svc.CompleteCompensation(context.Background(), testAdmin, 1, 200)
		require.NoError(t, err)
		assert.Equal(t, 500.0, result.RemainingDeposit)
		assert.Equal(t, models.DepositStatusPaid, result.DepositStatus)
		assert.False(t, result.Depleted)

		m := store.merchants[1]
		assert.Equal(t, models.DepositStatusPaid, m.DepositStatus)
		assert.True(t, m.IsDepositMerchant)
	})

	t.Run("full compensation ends the deposit tier", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, frozenMerchant(700))

		svc, _ := newTestService(store)
		result, err := svc.CompleteCompensation(context.Background(), testAdmin, 1, 700)
		require.NoError(t, err)
		assert.Equal(t, 0.0, result.RemainingDeposit)
		assert.Equal(t, models.DepositStatusViolated, result.DepositStatus)
		assert.True(t, result.Depleted)
		assert.False(t, store.merchants[1].IsDepositMerchant)
	})

	t.Run("residual below epsilon counts as depleted", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, frozenMerchant(700))

		svc, _ := newTestService(store)
		result, err := svc.CompleteCompensation(context.Background(), testAdmin, 1, 699.995)
		require.NoError(t, err)
		assert.True(t, result.Depleted)
		assert.Equal(t, models.DepositStatusViolated, result.DepositStatus)
		assert.GreaterOrEqual(t, store.merchants[1].DepositAmount, 0.0)
	})

	t.Run("amount exceeding frozen balance", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, frozenMerchant(100))

		svc, _ := newTestService(store)
		_, err := svc.CompleteCompensation(context.Background(), testAdmin, 1, 150)
		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
	})

	t.Run("deposit not frozen", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, paidMerchant(700))

		svc, _ := newTestService(store)
		_, err := svc.CompleteCompensation(context.Background(), testAdmin, 1, 100)
		assert.ErrorIs(t, err, errs.ErrDepositNotFrozen)
	})
}

func TestActivateDeactivateMerchant(t *testing.T) {
	t.Run("deactivation requires a reason", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestService(store)
		err := svc.DeactivateMerchant(context.Background(), testAdmin, 1, "")
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("deactivate then activate leaves deposit untouched", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, paidMerchant(1000))

		svc, rec := newTestService(store)
		require.NoError(t, svc.DeactivateMerchant(context.Background(), testAdmin, 1, "policy breach"))
		assert.False(t, store.merchants[1].IsActive)
		assert.Equal(t, 1000.0, store.merchants[1].DepositAmount)
		assert.Equal(t, models.DepositStatusPaid, store.merchants[1].DepositStatus)

		require.NoError(t, svc.ActivateMerchant(context.Background(), testAdmin, 1))
		assert.True(t, store.merchants[1].IsActive)
		assert.Len(t, rec.notifications, 2)
	})

	t.Run("double activation", func(t *testing.T) {
		store := newFakeStore()
		seedMerchant(store, paidMerchant(1000))

		svc, _ := newTestService(store)
		err := svc.ActivateMerchant(context.Background(), testAdmin, 1)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})
}
