package business

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vestingledger/internal/models"
	"vestingledger/pkg/utils"
)

// TokenTransferor moves tokens out of the pool treasury. Transfer returns a
// signature whose final outcome arrives later via Status or a confirmation
// stream; a synchronous error means the transfer never left the process.
type TokenTransferor interface {
	Transfer(ctx context.Context, recipient string, amount models.Amount, memo string) (signature string, err error)
	Status(ctx context.Context, signature string) (models.TransferOutcome, string, error)
}

// EventPublisher publishes resolution events. *config.Publisher satisfies it;
// a nil publisher disables events.
type EventPublisher interface {
	Publish(queueName string, message interface{}) error
}

// ApplyClaim applies the optimistic claim mutation to the in-memory rows.
// The caller persists both rows in the same transaction.
func ApplyClaim(state *models.LedgerState, rec *models.InvestorRecord, amount models.Amount) {
	rec.Claimed = rec.Claimed.Add(amount)
	state.TotalClaimed = state.TotalClaimed.Add(amount)
	state.PoolBalance = state.PoolBalance.Sub(amount)
}

// RevertClaim is the exact-magnitude compensating reversal of ApplyClaim.
func RevertClaim(state *models.LedgerState, rec *models.InvestorRecord, amount models.Amount) {
	rec.Claimed = rec.Claimed.Sub(amount)
	state.TotalClaimed = state.TotalClaimed.Sub(amount)
	state.PoolBalance = state.PoolBalance.Add(amount)
}

// ApplyWithdraw applies the optimistic withdraw mutation.
func ApplyWithdraw(state *models.LedgerState, amount models.Amount) {
	state.TotalWithdrawn = state.TotalWithdrawn.Add(amount)
	state.PoolBalance = state.PoolBalance.Sub(amount)
}

// RevertWithdraw is the compensating reversal of ApplyWithdraw.
func RevertWithdraw(state *models.LedgerState, amount models.Amount) {
	state.TotalWithdrawn = state.TotalWithdrawn.Sub(amount)
	state.PoolBalance = state.PoolBalance.Add(amount)
}

// ApplyDeposit credits an accepted deposit.
func ApplyDeposit(state *models.LedgerState, amount models.Amount) {
	state.TotalDeposited = state.TotalDeposited.Add(amount)
	state.PoolBalance = state.PoolBalance.Add(amount)
}

// lockLedgerState loads the singleton state row under FOR UPDATE.
func lockLedgerState(tx *gorm.DB) (*models.LedgerState, error) {
	var state models.LedgerState
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&state, models.LedgerStateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, err
	}
	if !state.Initialized {
		return nil, ErrNotInitialized
	}
	return &state, nil
}

// groupTermsFor resolves an investor's group schedule. ok is false when the
// group id is absent from the registry.
func groupTermsFor(tx *gorm.DB, groupID string) (utils.GroupTerms, bool, error) {
	var group models.VestingGroup
	err := tx.Where("group_id = ?", groupID).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.GroupTerms{}, false, nil
	}
	if err != nil {
		return utils.GroupTerms{}, false, err
	}
	return utils.GroupTerms{
		CliffMs:          group.CliffMs,
		VestingMs:        group.VestingMs,
		InitialUnlockBps: group.InitialUnlockBps,
	}, true, nil
}

// Claimable returns the amount account could claim at nowMs. Unknown
// accounts and accounts referencing an unknown group yield 0.
func Claimable(db *gorm.DB, account string, nowMs int64) (models.Amount, error) {
	var state models.LedgerState
	if err := db.First(&state, models.LedgerStateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ZeroAmount(), nil
		}
		return models.ZeroAmount(), err
	}

	var rec models.InvestorRecord
	if err := db.Where("account = ?", account).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ZeroAmount(), nil
		}
		return models.ZeroAmount(), err
	}

	terms, ok, err := groupTermsFor(db, rec.GroupID)
	if err != nil {
		return models.ZeroAmount(), err
	}
	if !ok {
		return models.ZeroAmount(), nil
	}

	overlay := utils.InitialClaimTerms{
		Bps:           state.InitialClaimBps,
		AvailableAtMs: state.InitialClaimAvailableAtMs,
	}
	claimable := utils.ClaimableAmount(
		rec.TotalAllocation.Int, rec.Claimed.Int, terms, overlay, state.TgeTimestampMs, nowMs)
	return models.NewAmount(claimable), nil
}

// Claim runs the synchronous phase of the claim protocol for account at
// nowMs: it deducts the claimable amount from the ledger, records a pending
// transfer, commits, and only then submits the treasury transfer. Deducting
// before the transfer is even attempted means any interleaved claim or view
// already observes funds as in flight; two claims can never be granted
// against the same unconfirmed balance.
//
// A synchronous submission error resolves the transfer as failed at once,
// reversing the deduction, and returns ErrTransferFailed.
func Claim(db *gorm.DB, transferor TokenTransferor, pub EventPublisher, account string, nowMs int64) (*models.PendingTransfer, error) {
	var pending models.PendingTransfer
	var amount models.Amount

	err := db.Transaction(func(tx *gorm.DB) error {
		state, err := lockLedgerState(tx)
		if err != nil {
			return err
		}

		var rec models.InvestorRecord
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account = ?", account).First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %q", ErrNoAllocation, account)
		}
		if err != nil {
			return err
		}

		terms, ok, err := groupTermsFor(tx, rec.GroupID)
		if err != nil {
			return err
		}
		if !ok {
			// Group removed from the registry; claimable frozen at 0.
			return ErrNothingToClaim
		}

		overlay := utils.InitialClaimTerms{
			Bps:           state.InitialClaimBps,
			AvailableAtMs: state.InitialClaimAvailableAtMs,
		}
		claimable := utils.ClaimableAmount(
			rec.TotalAllocation.Int, rec.Claimed.Int, terms, overlay, state.TgeTimestampMs, nowMs)
		if claimable.IsZero() {
			return ErrNothingToClaim
		}
		amount = models.NewAmount(claimable)
		if amount.Cmp(state.PoolBalance) > 0 {
			return fmt.Errorf("%w: claimable %s exceeds pool balance %s",
				ErrInsufficientPoolBalance, amount, state.PoolBalance)
		}

		ApplyClaim(state, &rec, amount)
		if err := tx.Save(state).Error; err != nil {
			return err
		}
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}

		pending = models.PendingTransfer{
			Kind:    models.TransferKindClaim,
			Account: account,
			Amount:  amount,
			Status:  models.TransferStatusPending,
			Memo:    "vesting claim",
		}
		return tx.Create(&pending).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"transfer_id": pending.ID,
		"account":     account,
		"amount":      amount.String(),
	}).Info("Claim deducted, submitting treasury transfer")

	return submitTransfer(db, transferor, pub, &pending)
}

// Withdraw runs the withdraw protocol over surplus pool funds: owner-only
// mirror of Claim against PoolBalance/TotalWithdrawn.
func Withdraw(db *gorm.DB, transferor TokenTransferor, pub EventPublisher, amount models.Amount, recipient, memo string) (*models.PendingTransfer, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWithdrawAmount, amount)
	}
	if memo == "" {
		memo = "pool withdrawal"
	}

	var pending models.PendingTransfer
	err := db.Transaction(func(tx *gorm.DB) error {
		state, err := lockLedgerState(tx)
		if err != nil {
			return err
		}
		if recipient == "" {
			recipient = state.Owner
		}
		if amount.Cmp(state.PoolBalance) > 0 {
			return fmt.Errorf("%w: %s exceeds pool balance %s",
				ErrInsufficientPoolBalance, amount, state.PoolBalance)
		}

		ApplyWithdraw(state, amount)
		if err := tx.Save(state).Error; err != nil {
			return err
		}

		pending = models.PendingTransfer{
			Kind:    models.TransferKindWithdraw,
			Account: recipient,
			Amount:  amount,
			Status:  models.TransferStatusPending,
			Memo:    memo,
		}
		return tx.Create(&pending).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"transfer_id": pending.ID,
		"recipient":   recipient,
		"amount":      amount.String(),
	}).Info("Withdraw deducted, submitting treasury transfer")

	return submitTransfer(db, transferor, pub, &pending)
}

// submitTransfer hands the already-committed pending transfer to the token
// service. Submission failure triggers the compensating rollback immediately.
func submitTransfer(db *gorm.DB, transferor TokenTransferor, pub EventPublisher, pending *models.PendingTransfer) (*models.PendingTransfer, error) {
	signature, err := transferor.Transfer(context.Background(), pending.Account, pending.Amount, pending.Memo)
	if err != nil {
		log.WithFields(log.Fields{
			"transfer_id": pending.ID,
			"account":     pending.Account,
		}).Errorf("Transfer submission failed: %v", err)
		if rbErr := ResolveTransfer(db, pub, pending.ID, false, err.Error()); rbErr != nil {
			return nil, rbErr
		}
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	if err := db.Model(&models.PendingTransfer{}).
		Where("id = ? AND status = ?", pending.ID, models.TransferStatusPending).
		Update("signature", signature).Error; err != nil {
		return nil, err
	}
	pending.Signature = signature
	return pending, nil
}
