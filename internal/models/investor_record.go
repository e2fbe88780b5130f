package models

import (
	"time"
)

// InvestorRecord is one account's allocation. Records are created by the
// first upsert and never deleted. Invariant: 0 <= Claimed <= TotalAllocation.
// GroupID may reference a group absent from the current registry; such an
// investor simply has a claimable amount of 0 until the id is restored.
type InvestorRecord struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Account         string    `gorm:"size:100;not null;uniqueIndex" json:"account"`
	GroupID         string    `gorm:"size:64;not null" json:"group_id"`
	TotalAllocation Amount    `gorm:"type:numeric(78,0);not null;default:0" json:"total_allocation"`
	Claimed         Amount    `gorm:"type:numeric(78,0);not null;default:0" json:"claimed"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (InvestorRecord) TableName() string {
	return "investor_record"
}
