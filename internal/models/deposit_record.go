package models

import (
	"time"
)

// DepositRecord logs every inbound deposit accepted from the token service.
type DepositRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Sender    string    `gorm:"size:100;not null;index" json:"sender"`
	Amount    Amount    `gorm:"type:numeric(78,0);not null" json:"amount"`
	Memo      string    `gorm:"size:255" json:"memo"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (DepositRecord) TableName() string {
	return "deposit_record"
}
