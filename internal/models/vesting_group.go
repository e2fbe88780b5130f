package models

import (
	"time"
)

// VestingGroup is one group's schedule. Groups are only ever replaced as a
// whole collection; there is no partial update or deletion primitive.
type VestingGroup struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	GroupID          string    `gorm:"size:64;not null;uniqueIndex" json:"group_id"`
	CliffMs          int64     `gorm:"not null;default:0" json:"cliff_ms"`
	VestingMs        int64     `gorm:"not null;default:0" json:"vesting_ms"`
	InitialUnlockBps int64     `gorm:"not null;default:0" json:"initial_unlock_bps"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (VestingGroup) TableName() string {
	return "vesting_group"
}
