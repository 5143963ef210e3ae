package repositories

import (
	"errors"
	"time"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/services/partner"

	"gorm.io/gorm"
)

// PartnerStore is the gorm-backed implementation of partner.Store.
type PartnerStore struct {
	db *gorm.DB
}

func NewPartnerStore(db *gorm.DB) *PartnerStore {
	return &PartnerStore{db: db}
}

func (s *PartnerStore) GetPartner(id uint) (*models.Partner, error) {
	var p models.Partner
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *PartnerStore) GetApplication(id uint) (*models.PartnerSubscriptionApplication, error) {
	var app models.PartnerSubscriptionApplication
	if err := s.db.First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (s *PartnerStore) SaveApplication(app *models.PartnerSubscriptionApplication) error {
	return s.db.Save(app).Error
}

func (s *PartnerStore) ActivateSubscription(partnerID uint, expiresAt time.Time) error {
	res := s.db.Model(&models.Partner{}).Where("id = ?", partnerID).
		Updates(map[string]interface{}{
			"status":                  models.PartnerStatusActive,
			"subscription_expires_at": expiresAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *PartnerStore) Transaction(fn func(partner.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewPartnerStore(tx))
	})
}

// ListPartners returns partners filtered by status, newest first.
func (s *PartnerStore) ListPartners(status string, limit, offset int) ([]models.Partner, int64, error) {
	q := s.db.Model(&models.Partner{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var partners []models.Partner
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&partners).Error
	return partners, total, err
}

func (s *PartnerStore) ListApplications(status string, limit, offset int) ([]models.PartnerSubscriptionApplication, int64, error) {
	q := s.db.Model(&models.PartnerSubscriptionApplication{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var apps []models.PartnerSubscriptionApplication
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&apps).Error
	return apps, total, err
}

func (s *PartnerStore) CreatePartner(p *models.Partner) error {
	return s.db.Create(p).Error
}

func (s *PartnerStore) CreateApplication(app *models.PartnerSubscriptionApplication) error {
	return s.db.Create(app).Error
}

// ExpireLapsedPartners marks active partners whose subscription window
// has passed.
func (s *PartnerStore) ExpireLapsedPartners(now time.Time) (int64, error) {
	res := s.db.Model(&models.Partner{}).
		Where("status = ? AND subscription_expires_at IS NOT NULL AND subscription_expires_at < ?", models.PartnerStatusActive, now).
		Update("status", models.PartnerStatusExpired)
	return res.RowsAffected, res.Error
}
