package repositories

import (
	"errors"
	"time"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"

	"gorm.io/gorm"
)

// RewardStore is the gorm-backed implementation of reward.Store.
type RewardStore struct {
	db *gorm.DB
}

func NewRewardStore(db *gorm.DB) *RewardStore {
	return &RewardStore{db: db}
}

func (s *RewardStore) CreatePlan(plan *models.RewardPlan) error {
	return s.db.Create(plan).Error
}

func (s *RewardStore) GetPlan(id uint) (*models.RewardPlan, error) {
	var plan models.RewardPlan
	if err := s.db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (s *RewardStore) ListPlans(limit, offset int) ([]models.RewardPlan, int64, error) {
	var total int64
	if err := s.db.Model(&models.RewardPlan{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var plans []models.RewardPlan
	err := s.db.Order("scheduled_at DESC").Limit(limit).Offset(offset).Find(&plans).Error
	return plans, total, err
}

func (s *RewardStore) ListDuePlans(now time.Time) ([]models.RewardPlan, error) {
	var plans []models.RewardPlan
	err := s.db.Where("status = ? AND scheduled_at <= ?", models.RewardPlanStatusScheduled, now).
		Order("scheduled_at ASC").Find(&plans).Error
	return plans, err
}

func (s *RewardStore) SavePlan(plan *models.RewardPlan) error {
	return s.db.Save(plan).Error
}

// GrantPointsToGroup credits every active user of the group in a single
// UPDATE and reports how many rows it touched.
func (s *RewardStore) GrantPointsToGroup(group string, points int) (int64, error) {
	res := s.db.Model(&models.User{}).
		Where("user_group = ? AND status = ?", group, "active").
		Update("points", gorm.Expr("points + ?", points))
	return res.RowsAffected, res.Error
}

func (s *RewardStore) ListGroupUserIDs(group string) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.User{}).
		Where("user_group = ? AND status = ?", group, "active").
		Pluck("id", &ids).Error
	return ids, err
}

func (s *RewardStore) GetMerchantByOwner(userID uint) (*models.Merchant, error) {
	var m models.Merchant
	if err := s.db.Where("owner_user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrMerchantNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *RewardStore) MarkRewardClaimed(merchantID uint, at time.Time) error {
	res := s.db.Model(&models.Merchant{}).Where("id = ?", merchantID).
		Update("last_reward_claim_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrMerchantNotFound
	}
	return nil
}

func (s *RewardStore) AddUserPoints(userID uint, points int) error {
	res := s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", points))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
