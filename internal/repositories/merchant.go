package repositories

import (
	"context"
	"errors"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/repositories/cache"

	"gorm.io/gorm"
)

// MerchantFilter narrows merchant listings.
type MerchantFilter struct {
	DepositStatus string
	IsActive      *bool
	DepositOnly   bool
}

type MerchantRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Merchant, error)
	GetByOwner(ctx context.Context, ownerUserID uint) (*models.Merchant, error)
	List(ctx context.Context, filter MerchantFilter, limit, offset int) ([]models.Merchant, int64, error)
	SetPinned(ctx context.Context, id uint, pinned bool) error
	SetTop(ctx context.Context, id uint, top bool) error
	Create(ctx context.Context, m *models.Merchant) error
}

type merchantRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewMerchantRepository(db *gorm.DB, cacheSvc *cache.CacheService) MerchantRepository {
	return &merchantRepository{db: db, cache: cacheSvc}
}

// GetByID is cache-aside: reads used for listings may be slightly stale;
// deposit transitions read the row directly through the deposit store.
func (r *merchantRepository) GetByID(ctx context.Context, id uint) (*models.Merchant, error) {
	if r.cache != nil {
		if m, err := r.cache.GetMerchant(ctx, id); err == nil && m != nil {
			return m, nil
		}
	}

	var m models.Merchant
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrMerchantNotFound
		}
		return nil, err
	}
	if r.cache != nil {
		_ = r.cache.CacheMerchant(ctx, &m)
	}
	return &m, nil
}

func (r *merchantRepository) GetByOwner(ctx context.Context, ownerUserID uint) (*models.Merchant, error) {
	var m models.Merchant
	if err := r.db.WithContext(ctx).Where("owner_user_id = ?", ownerUserID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrMerchantNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *merchantRepository) List(ctx context.Context, filter MerchantFilter, limit, offset int) ([]models.Merchant, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Merchant{})
	if filter.DepositStatus != "" {
		q = q.Where("deposit_status = ?", filter.DepositStatus)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	if filter.DepositOnly {
		q = q.Where("is_deposit_merchant = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var merchants []models.Merchant
	err := q.Order("is_pinned DESC, created_at DESC").Limit(limit).Offset(offset).Find(&merchants).Error
	return merchants, total, err
}

func (r *merchantRepository) SetPinned(ctx context.Context, id uint, pinned bool) error {
	return r.setFlag(ctx, id, "is_pinned", pinned)
}

func (r *merchantRepository) SetTop(ctx context.Context, id uint, top bool) error {
	return r.setFlag(ctx, id, "is_top", top)
}

func (r *merchantRepository) setFlag(ctx context.Context, id uint, column string, value bool) error {
	res := r.db.WithContext(ctx).Model(&models.Merchant{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrMerchantNotFound
	}
	if r.cache != nil {
		_ = r.cache.InvalidateMerchant(ctx, id)
	}
	return nil
}

func (r *merchantRepository) Create(ctx context.Context, m *models.Merchant) error {
	return r.db.WithContext(ctx).Create(m).Error
}
