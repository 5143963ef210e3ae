package repositories

import (
	"context"
	"errors"
	"time"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"

	"gorm.io/gorm"
)

// ContentRepository stores banners and announcements.
type ContentRepository interface {
	CreateBanner(ctx context.Context, b *models.Banner) error
	SetBannerActive(ctx context.Context, id uint, active bool) error
	ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error)
	DeleteBanner(ctx context.Context, id uint) error
	// DisableExpiredBanners flips is_active off for banners past their
	// expiry and returns how many rows it touched.
	DisableExpiredBanners(ctx context.Context, now time.Time) (int64, error)

	CreateAnnouncement(ctx context.Context, a *models.Announcement) error
	UpdateAnnouncement(ctx context.Context, a *models.Announcement) error
	ListAnnouncements(ctx context.Context, publishedOnly bool, limit, offset int) ([]models.Announcement, int64, error)
	DeleteAnnouncement(ctx context.Context, id uint) error
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) CreateBanner(ctx context.Context, b *models.Banner) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *contentRepository) SetBannerActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.Banner{}).Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *contentRepository) ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	q := r.db.WithContext(ctx).Model(&models.Banner{})
	if activeOnly {
		now := time.Now()
		q = q.Where("is_active = ?", true).
			Where("starts_at IS NULL OR starts_at <= ?", now).
			Where("expires_at IS NULL OR expires_at > ?", now)
	}
	var banners []models.Banner
	err := q.Order("sort_order ASC, created_at DESC").Find(&banners).Error
	return banners, err
}

func (r *contentRepository) DeleteBanner(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Banner{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *contentRepository) DisableExpiredBanners(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Banner{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

func (r *contentRepository) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *contentRepository) UpdateAnnouncement(ctx context.Context, a *models.Announcement) error {
	var existing models.Announcement
	if err := r.db.WithContext(ctx).First(&existing, a.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return err
	}
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *contentRepository) ListAnnouncements(ctx context.Context, publishedOnly bool, limit, offset int) ([]models.Announcement, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Announcement{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.Announcement
	err := q.Order("is_pinned DESC, created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *contentRepository) DeleteAnnouncement(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Announcement{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
