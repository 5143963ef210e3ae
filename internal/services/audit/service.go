// Package audit appends admin operation log entries. The log is
// append-only; there is no update or delete path.
package audit

import (
	"context"

	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/repositories"
)

type Service struct {
	repo repositories.AuditRepository
}

func NewService(repo repositories.AuditRepository) *Service {
	return &Service{repo: repo}
}

// Record appends one audit entry.
func (s *Service) Record(ctx context.Context, entry *models.AdminOperationLog) error {
	return s.repo.Create(ctx, entry)
}

// List returns audit entries, optionally filtered by operation type and
// admin, newest first.
func (s *Service) List(ctx context.Context, filter repositories.AuditFilter, limit, offset int) ([]models.AdminOperationLog, int64, error) {
	return s.repo.List(ctx, filter, limit, offset)
}
