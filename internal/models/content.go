package models

import (
	"time"

	"gorm.io/gorm"
)

// Banner is a time-boxed promotional slot. Expired banners are disabled
// by a periodic sweep, not deleted.
type Banner struct {
	gorm.Model
	Title     string `gorm:"not null"`
	ImageURL  string `gorm:"not null"`
	LinkURL   string
	SortOrder int  `gorm:"default:0"`
	IsActive  bool `gorm:"default:true;index"`
	StartsAt  *time.Time
	ExpiresAt *time.Time
	CreatedBy uint
}

// Announcement is a platform-wide notice.
type Announcement struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Content     string
	IsPinned    bool `gorm:"default:false"`
	IsPublished bool `gorm:"default:true;index"`
	CreatedBy   uint
}
