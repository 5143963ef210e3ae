// Package notification writes notification rows for users. Delivery to
// devices happens outside this service; callers treat Notify as
// fire-and-forget and log failures instead of propagating them.
package notification

import (
	"context"

	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/repositories"
)

type Service struct {
	repo repositories.NotificationRepository
}

func NewService(repo repositories.NotificationRepository) *Service {
	return &Service{repo: repo}
}

// Notify persists a notification row for the user.
func (s *Service) Notify(ctx context.Context, n *models.Notification) error {
	if n.Type == "" {
		n.Type = "system"
	}
	if n.Priority == "" {
		n.Priority = "normal"
	}
	return s.repo.Create(ctx, n)
}

// ListForUser returns a user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, int64, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// MarkRead flags a notification as read.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}
