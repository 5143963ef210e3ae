package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RewardPlanStatusScheduled  = "scheduled"
	RewardPlanStatusDispatched = "dispatched"
	RewardPlanStatusCancelled  = "cancelled"
)

// RewardPlan grants points to every user of a target group at a scheduled
// time. The dispatcher picks up due plans and marks them dispatched.
type RewardPlan struct {
	gorm.Model
	TargetGroup  string `gorm:"not null;index"`
	Points       int    `gorm:"not null"`
	Title        string `gorm:"not null"`
	Content      string
	ScheduledAt  time.Time `gorm:"index"`
	Status       string    `gorm:"default:'scheduled';index"`
	DispatchedAt *time.Time
	GrantedCount int `gorm:"default:0"`
	CreatedBy    uint
}
