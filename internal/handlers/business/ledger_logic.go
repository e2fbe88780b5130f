package business

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vestingledger/internal/models"
)

// InitInput configures the ledger once, at first deployment.
type InitInput struct {
	Owner                     string       `json:"owner"`
	TokenServiceID            string       `json:"token_service_id" binding:"required"`
	TokenMint                 string       `json:"token_mint"`
	TgeTimestampMs            int64        `json:"tge_timestamp_ms" binding:"required"`
	Groups                    []GroupInput `json:"groups"`
	InitialClaimBps           int64        `json:"initial_claim_bps"`
	InitialClaimAvailableAtMs int64        `json:"initial_claim_available_at_ms"`
}

// InitLedger creates the singleton state row and the initial group registry.
// caller becomes the owner when the input leaves Owner empty. A second call
// fails with ErrAlreadyInitialized.
func InitLedger(db *gorm.DB, caller string, in InitInput) (*models.LedgerState, error) {
	owner := in.Owner
	if owner == "" {
		owner = caller
	}
	if owner == "" {
		return nil, fmt.Errorf("%w: no owner and no caller identity", ErrUnauthorized)
	}
	if err := ValidateGroups(in.Groups); err != nil {
		return nil, err
	}
	if err := validateInitialClaim(in.InitialClaimBps, in.InitialClaimAvailableAtMs); err != nil {
		return nil, err
	}

	state := models.LedgerState{
		ID:                        models.LedgerStateID,
		Initialized:               true,
		Owner:                     owner,
		TokenServiceID:            in.TokenServiceID,
		TokenMint:                 in.TokenMint,
		TgeTimestampMs:            in.TgeTimestampMs,
		InitialClaimBps:           in.InitialClaimBps,
		InitialClaimAvailableAtMs: in.InitialClaimAvailableAtMs,
		TotalDeposited:            models.ZeroAmount(),
		TotalClaimed:              models.ZeroAmount(),
		TotalWithdrawn:            models.ZeroAmount(),
		PoolBalance:               models.ZeroAmount(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.LedgerState
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&existing, models.LedgerStateID).Error
		if err == nil && existing.Initialized {
			return ErrAlreadyInitialized
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			state.CreatedAt = existing.CreatedAt
			if err := tx.Save(&state).Error; err != nil {
				return err
			}
		} else if err := tx.Create(&state).Error; err != nil {
			return err
		}

		for _, g := range in.Groups {
			record := models.VestingGroup{
				GroupID:          g.GroupID,
				CliffMs:          g.CliffMs,
				VestingMs:        g.VestingMs,
				InitialUnlockBps: g.InitialUnlockBps,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// ConfigureInitialClaim updates the global schedule overlay. At least one
// field must be supplied; a positive percentage requires an availability
// timestamp (either in this call or already configured).
func ConfigureInitialClaim(db *gorm.DB, bps, availableAtMs *int64) (*models.LedgerState, error) {
	if bps == nil && availableAtMs == nil {
		return nil, fmt.Errorf("%w: at least one of bps and available_at must be supplied", ErrInvalidInitialClaim)
	}

	var state models.LedgerState
	err := db.Transaction(func(tx *gorm.DB) error {
		s, err := lockLedgerState(tx)
		if err != nil {
			return err
		}
		newBps := s.InitialClaimBps
		newAt := s.InitialClaimAvailableAtMs
		if bps != nil {
			newBps = *bps
		}
		if availableAtMs != nil {
			newAt = *availableAtMs
		}
		if err := validateInitialClaim(newBps, newAt); err != nil {
			return err
		}
		s.InitialClaimBps = newBps
		s.InitialClaimAvailableAtMs = newAt
		state = *s
		return tx.Save(s).Error
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func validateInitialClaim(bps, availableAtMs int64) error {
	if bps < 0 || bps > 10000 {
		return fmt.Errorf("%w: initial claim bps %d out of [0,10000]", ErrInvalidInitialClaim, bps)
	}
	if bps > 0 && availableAtMs == 0 {
		return fmt.Errorf("%w: initial claim bps set without availability timestamp", ErrInvalidInitialClaim)
	}
	return nil
}

// Deposit credits an inbound transfer reported by the token service and logs
// it. The ledger always accepts the full amount; the returned refused amount
// is therefore always zero.
func Deposit(db *gorm.DB, sender string, amount models.Amount, memo string) (*models.DepositRecord, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDepositAmount, amount)
	}

	var record models.DepositRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		state, err := lockLedgerState(tx)
		if err != nil {
			return err
		}
		ApplyDeposit(state, amount)
		if err := tx.Save(state).Error; err != nil {
			return err
		}
		record = models.DepositRecord{Sender: sender, Amount: amount, Memo: memo}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}
