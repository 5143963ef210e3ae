package repositories

import (
	"errors"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/services/deposit"

	"gorm.io/gorm"
)

// DepositStore is the gorm-backed implementation of deposit.Store.
type DepositStore struct {
	db *gorm.DB
}

func NewDepositStore(db *gorm.DB) *DepositStore {
	return &DepositStore{db: db}
}

func (s *DepositStore) GetMerchant(id uint) (*models.Merchant, error) {
	var m models.Merchant
	if err := s.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrMerchantNotFound
		}
		return nil, err
	}
	return &m, nil
}

// UpdateMerchantDeposit writes the deposit-related columns with an
// optimistic concurrency check on deposit_status. Zero rows affected
// means another transition won the race.
func (s *DepositStore) UpdateMerchantDeposit(m *models.Merchant, expectedStatus string) error {
	res := s.db.Model(&models.Merchant{}).
		Where("id = ? AND deposit_status = ?", m.ID, expectedStatus).
		Updates(map[string]interface{}{
			"is_deposit_merchant":   m.IsDepositMerchant,
			"deposit_amount":        m.DepositAmount,
			"deposit_status":        m.DepositStatus,
			"deposit_paid_at":       m.DepositPaidAt,
			"deposit_refund_status": m.DepositRefundStatus,
			"last_reward_claim_at":  m.LastRewardClaimAt,
			"is_active":             m.IsActive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrConcurrentModification
	}
	return nil
}

func (s *DepositStore) SetMerchantActive(id uint, active bool) error {
	res := s.db.Model(&models.Merchant{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrMerchantNotFound
	}
	return nil
}

func (s *DepositStore) SetMerchantRefundStatus(id uint, status string) error {
	res := s.db.Model(&models.Merchant{}).Where("id = ?", id).Update("deposit_refund_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrMerchantNotFound
	}
	return nil
}

func (s *DepositStore) GetDepositApplication(id uint) (*models.DepositApplication, error) {
	var app models.DepositApplication
	if err := s.db.First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (s *DepositStore) SaveDepositApplication(app *models.DepositApplication) error {
	return s.db.Save(app).Error
}

func (s *DepositStore) GetTopUpApplication(id uint) (*models.DepositTopUpApplication, error) {
	var app models.DepositTopUpApplication
	if err := s.db.First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (s *DepositStore) SaveTopUpApplication(app *models.DepositTopUpApplication) error {
	return s.db.Save(app).Error
}

func (s *DepositStore) GetRefundApplication(id uint) (*models.DepositRefundApplication, error) {
	var app models.DepositRefundApplication
	if err := s.db.First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (s *DepositStore) SaveRefundApplication(app *models.DepositRefundApplication) error {
	return s.db.Save(app).Error
}

func (s *DepositStore) CreateDepositApplication(app *models.DepositApplication) error {
	return s.db.Create(app).Error
}

func (s *DepositStore) CreateTopUpApplication(app *models.DepositTopUpApplication) error {
	return s.db.Create(app).Error
}

func (s *DepositStore) CreateRefundApplication(app *models.DepositRefundApplication) error {
	return s.db.Create(app).Error
}

func (s *DepositStore) HasPendingDepositApplication(merchantID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.DepositApplication{}).
		Where("merchant_id = ? AND status = ?", merchantID, models.ApplicationStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (s *DepositStore) HasPendingTopUpApplication(merchantID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.DepositTopUpApplication{}).
		Where("merchant_id = ? AND status = ?", merchantID, models.ApplicationStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (s *DepositStore) HasPendingRefundApplication(merchantID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.DepositRefundApplication{}).
		Where("merchant_id = ? AND status = ?", merchantID, models.ApplicationStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (s *DepositStore) Transaction(fn func(deposit.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewDepositStore(tx))
	})
}

// ListDepositApplications returns applications filtered by status,
// newest first.
func (s *DepositStore) ListDepositApplications(status string, limit, offset int) ([]models.DepositApplication, int64, error) {
	var apps []models.DepositApplication
	var total int64
	q := s.db.Model(&models.DepositApplication{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&apps).Error
	return apps, total, err
}

func (s *DepositStore) ListTopUpApplications(status string, limit, offset int) ([]models.DepositTopUpApplication, int64, error) {
	var apps []models.DepositTopUpApplication
	var total int64
	q := s.db.Model(&models.DepositTopUpApplication{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&apps).Error
	return apps, total, err
}

func (s *DepositStore) ListRefundApplications(status string, limit, offset int) ([]models.DepositRefundApplication, int64, error) {
	var apps []models.DepositRefundApplication
	var total int64
	q := s.db.Model(&models.DepositRefundApplication{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&apps).Error
	return apps, total, err
}
