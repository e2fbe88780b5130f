package models

import (
	"time"
)

// PendingTransfer kinds.
const (
	TransferKindClaim    = "claim"
	TransferKindWithdraw = "withdraw"
)

// PendingTransfer statuses.
const (
	TransferStatusPending    = "pending"
	TransferStatusCommitted  = "committed"
	TransferStatusRolledBack = "rolled_back"
)

// TransferOutcome is the asynchronous result of a submitted transfer as
// reported by the token service.
type TransferOutcome int

const (
	TransferOutcomePending TransferOutcome = iota
	TransferOutcomeSuccess
	TransferOutcomeFailed
)

// PendingTransfer is the durable record of an outbound transfer whose ledger
// mutation has already been applied but whose on-chain outcome is not yet
// known. It is written in the same transaction as the optimistic mutation so
// a crash between the two phases can be reconciled on restart.
type PendingTransfer struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	Kind       string     `gorm:"size:20;not null" json:"kind"`
	Account    string     `gorm:"size:100;not null;index" json:"account"`
	Amount     Amount     `gorm:"type:numeric(78,0);not null" json:"amount"`
	Status     string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Signature  string     `gorm:"size:120" json:"signature"`
	Memo       string     `gorm:"size:255" json:"memo"`
	FailReason string     `gorm:"size:500" json:"fail_reason,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (PendingTransfer) TableName() string {
	return "pending_transfer"
}
