package models

import (
	"time"
)

// LedgerStateID is the primary key of the single ledger state row.
const LedgerStateID uint = 1

// LedgerState is the singleton configuration and pool accounting row.
// Invariant at every commit: PoolBalance = TotalDeposited - TotalClaimed - TotalWithdrawn.
type LedgerState struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	Initialized    bool   `gorm:"default:false" json:"initialized"`
	Owner          string `gorm:"size:100" json:"owner"`
	TokenServiceID string `gorm:"size:100" json:"token_service_id"`
	TokenMint      string `gorm:"size:100" json:"token_mint"`

	// TGE and the global initial-claim overlay, Unix milliseconds.
	TgeTimestampMs            int64 `gorm:"default:0" json:"tge_timestamp_ms"`
	InitialClaimBps           int64 `gorm:"default:0" json:"initial_claim_bps"`
	InitialClaimAvailableAtMs int64 `gorm:"default:0" json:"initial_claim_available_at_ms"`

	TotalDeposited Amount `gorm:"type:numeric(78,0);default:0" json:"total_deposited"`
	TotalClaimed   Amount `gorm:"type:numeric(78,0);default:0" json:"total_claimed"`
	TotalWithdrawn Amount `gorm:"type:numeric(78,0);default:0" json:"total_withdrawn"`
	PoolBalance    Amount `gorm:"type:numeric(78,0);default:0" json:"pool_balance"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (LedgerState) TableName() string {
	return "ledger_state"
}
