package repositories

import (
	"context"

	"github.com/gungun88/merchant-platform-sub002/internal/models"

	"gorm.io/gorm"
)

// AuditFilter narrows audit log listings.
type AuditFilter struct {
	OperationType string
	AdminUserID   *uint
	TargetType    string
}

type AuditRepository interface {
	Create(ctx context.Context, entry *models.AdminOperationLog) error
	List(ctx context.Context, filter AuditFilter, limit, offset int) ([]models.AdminOperationLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AdminOperationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter, limit, offset int) ([]models.AdminOperationLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.AdminOperationLog{})
	if filter.OperationType != "" {
		q = q.Where("operation_type = ?", filter.OperationType)
	}
	if filter.AdminUserID != nil {
		q = q.Where("admin_user_id = ?", *filter.AdminUserID)
	}
	if filter.TargetType != "" {
		q = q.Where("target_type = ?", filter.TargetType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []models.AdminOperationLog
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, total, err
}
