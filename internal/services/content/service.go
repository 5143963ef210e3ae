// Package content manages banners and announcements. Banners carry an
// active window; a periodic sweep disables the expired ones.
package content

import (
	"context"
	"log"
	"time"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/repositories"
)

type Service struct {
	repo repositories.ContentRepository
}

func NewService(repo repositories.ContentRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateBanner(ctx context.Context, b *models.Banner) error {
	if b.Title == "" || b.ImageURL == "" {
		return errs.Invalid("banner title and image are required")
	}
	if b.StartsAt != nil && b.ExpiresAt != nil && !b.ExpiresAt.After(*b.StartsAt) {
		return errs.Invalid("banner expiry must be after its start")
	}
	return s.repo.CreateBanner(ctx, b)
}

func (s *Service) SetBannerActive(ctx context.Context, id uint, active bool) error {
	return s.repo.SetBannerActive(ctx, id, active)
}

func (s *Service) ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	return s.repo.ListBanners(ctx, activeOnly)
}

func (s *Service) DeleteBanner(ctx context.Context, id uint) error {
	return s.repo.DeleteBanner(ctx, id)
}

func (s *Service) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	if a.Title == "" {
		return errs.Invalid("announcement title is required")
	}
	return s.repo.CreateAnnouncement(ctx, a)
}

func (s *Service) UpdateAnnouncement(ctx context.Context, a *models.Announcement) error {
	return s.repo.UpdateAnnouncement(ctx, a)
}

func (s *Service) ListAnnouncements(ctx context.Context, publishedOnly bool, limit, offset int) ([]models.Announcement, int64, error) {
	return s.repo.ListAnnouncements(ctx, publishedOnly, limit, offset)
}

func (s *Service) DeleteAnnouncement(ctx context.Context, id uint) error {
	return s.repo.DeleteAnnouncement(ctx, id)
}

// RunBannerSweep disables expired banners every interval until ctx is
// cancelled. Start it in its own goroutine.
func (s *Service) RunBannerSweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := s.repo.DisableExpiredBanners(ctx, now)
			if err != nil {
				log.Printf("banner sweep: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("banner sweep: disabled %d expired banner(s)", n)
			}
		}
	}
}
