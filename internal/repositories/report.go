package repositories

import (
	"errors"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/services/report"

	"gorm.io/gorm"
)

// ReportStore is the gorm-backed implementation of report.Store.
type ReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

func (s *ReportStore) GetReport(id uint) (*models.AbuseReport, error) {
	var r models.AbuseReport
	if err := s.db.First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *ReportStore) SaveReport(r *models.AbuseReport) error {
	return s.db.Save(r).Error
}

func (s *ReportStore) GetMerchant(id uint) (*models.Merchant, error) {
	var m models.Merchant
	if err := s.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrMerchantNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ApplyCreditPenalty deducts penalty points with a floor of zero and
// returns the resulting score.
func (s *ReportStore) ApplyCreditPenalty(merchantID uint, penalty int) (int, error) {
	res := s.db.Model(&models.Merchant{}).Where("id = ?", merchantID).
		Update("credit_score", gorm.Expr("GREATEST(credit_score - ?, 0)", penalty))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, errs.ErrMerchantNotFound
	}

	var m models.Merchant
	if err := s.db.Select("credit_score").First(&m, merchantID).Error; err != nil {
		return 0, err
	}
	return m.CreditScore, nil
}

func (s *ReportStore) Transaction(fn func(report.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewReportStore(tx))
	})
}

func (s *ReportStore) CreateReport(r *models.AbuseReport) error {
	return s.db.Create(r).Error
}

// ListReports returns reports filtered by status and merchant, newest
// first.
func (s *ReportStore) ListReports(status string, merchantID *uint, limit, offset int) ([]models.AbuseReport, int64, error) {
	q := s.db.Model(&models.AbuseReport{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if merchantID != nil {
		q = q.Where("merchant_id = ?", *merchantID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var reports []models.AbuseReport
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error
	return reports, total, err
}
