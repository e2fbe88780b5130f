package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vestingledger/internal/models"
)

// EventsQueue is the durable queue resolution events are published to.
const EventsQueue = "vesting_ledger_events"

// TransferEvent is the message published when a pending transfer resolves.
type TransferEvent struct {
	Event     string        `json:"event"` // "transfer_committed" | "transfer_rolled_back"
	ID        uint          `json:"id"`
	Kind      string        `json:"kind"`
	Account   string        `json:"account"`
	Amount    models.Amount `json:"amount"`
	Signature string        `json:"signature,omitempty"`
	Reason    string        `json:"reason,omitempty"`
}

// ResolveTransfer is the resolution continuation of the claim/withdraw
// protocols. It is never exposed over HTTP; only the worker and cron
// binaries invoke it. On success the pending transfer is committed with no
// further ledger change. On failure the optimistic mutation is reversed by
// the exact amount, bit for bit, and the failure is re-reported through the
// event bus so it stays externally visible.
//
// Resolving an already-resolved transfer is a no-op.
func ResolveTransfer(db *gorm.DB, pub EventPublisher, transferID uint, success bool, reason string) error {
	var resolved models.PendingTransfer

	err := db.Transaction(func(tx *gorm.DB) error {
		var pending models.PendingTransfer
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&pending, transferID).Error
		if err != nil {
			return err
		}
		if pending.Status != models.TransferStatusPending {
			resolved = pending
			return nil
		}

		now := time.Now()
		pending.ResolvedAt = &now

		if success {
			pending.Status = models.TransferStatusCommitted
			resolved = pending
			return tx.Save(&pending).Error
		}

		state, err := lockLedgerState(tx)
		if err != nil {
			return err
		}

		switch pending.Kind {
		case models.TransferKindClaim:
			var rec models.InvestorRecord
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("account = ?", pending.Account).First(&rec).Error
			if err != nil {
				return err
			}
			RevertClaim(state, &rec, pending.Amount)
			if err := tx.Save(&rec).Error; err != nil {
				return err
			}
		case models.TransferKindWithdraw:
			RevertWithdraw(state, pending.Amount)
		default:
			return fmt.Errorf("unknown transfer kind %q", pending.Kind)
		}

		if err := tx.Save(state).Error; err != nil {
			return err
		}

		pending.Status = models.TransferStatusRolledBack
		pending.FailReason = reason
		resolved = pending
		return tx.Save(&pending).Error
	})
	if err != nil {
		return err
	}

	publishResolution(pub, &resolved)

	if resolved.Status == models.TransferStatusRolledBack {
		log.WithFields(log.Fields{
			"transfer_id": resolved.ID,
			"kind":        resolved.Kind,
			"account":     resolved.Account,
			"amount":      resolved.Amount.String(),
			"reason":      reason,
		}).Error("Transfer failed, ledger mutation rolled back")
	}
	return nil
}

// publishResolution emits the resolution event; a nil or failing publisher
// only logs, it never blocks the rollback.
func publishResolution(pub EventPublisher, pt *models.PendingTransfer) {
	if pub == nil || pt.Status == models.TransferStatusPending {
		return
	}
	event := "transfer_committed"
	if pt.Status == models.TransferStatusRolledBack {
		event = "transfer_rolled_back"
	}
	msg := TransferEvent{
		Event:     event,
		ID:        pt.ID,
		Kind:      pt.Kind,
		Account:   pt.Account,
		Amount:    pt.Amount,
		Signature: pt.Signature,
		Reason:    pt.FailReason,
	}
	if err := pub.Publish(EventsQueue, msg); err != nil {
		log.Errorf("Failed to publish %s event for transfer %d: %v", event, pt.ID, err)
	}
}

// ResolvePendingTransfers polls the token service for every pending transfer
// with a known signature and resolves the ones whose outcome is final. Used
// by the cron resolver as a catch-all behind the websocket confirmations.
// Returns the number of transfers resolved.
func ResolvePendingTransfers(db *gorm.DB, transferor TokenTransferor, pub EventPublisher) (int, error) {
	var pendings []models.PendingTransfer
	if err := db.Where("status = ? AND signature <> ''", models.TransferStatusPending).
		Find(&pendings).Error; err != nil {
		return 0, err
	}

	resolved := 0
	for _, pt := range pendings {
		outcome, reason, err := transferor.Status(context.Background(), pt.Signature)
		if err != nil {
			log.Warnf("Status check failed for transfer %d (%s): %v", pt.ID, pt.Signature, err)
			continue
		}
		switch outcome {
		case models.TransferOutcomeSuccess:
			err = ResolveTransfer(db, pub, pt.ID, true, "")
		case models.TransferOutcomeFailed:
			err = ResolveTransfer(db, pub, pt.ID, false, reason)
		default:
			continue
		}
		if err != nil {
			log.Errorf("Failed to resolve transfer %d: %v", pt.ID, err)
			continue
		}
		resolved++
	}
	return resolved, nil
}

// SubmissionTimeout is how long a pending transfer may sit without a
// signature before the sweep treats the submission as lost.
const SubmissionTimeout = 10 * time.Minute

// ResolveAbandonedTransfers rolls back pending transfers that never received
// a signature. A crash between the committed optimistic deduction and the
// treasury submission leaves such a row behind; no confirmation can ever
// arrive for it, so after olderThan the deduction is reversed. The threshold
// keeps the sweep clear of transfers whose submission is still in flight.
// Returns the number of transfers rolled back.
func ResolveAbandonedTransfers(db *gorm.DB, pub EventPublisher, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	var abandoned []models.PendingTransfer
	if err := db.Where("status = ? AND signature = '' AND created_at < ?",
		models.TransferStatusPending, cutoff).
		Find(&abandoned).Error; err != nil {
		return 0, err
	}

	resolved := 0
	for _, pt := range abandoned {
		err := ResolveTransfer(db, pub, pt.ID, false, "submission lost before a signature was recorded")
		if err != nil {
			log.Errorf("Failed to roll back abandoned transfer %d: %v", pt.ID, err)
			continue
		}
		resolved++
	}
	return resolved, nil
}

// CheckPoolInvariant recomputes the pool identity from the counters and
// reports a mismatch. Run by the cron reconciliation job.
func CheckPoolInvariant(db *gorm.DB) error {
	var state models.LedgerState
	if err := db.First(&state, models.LedgerStateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	expected := state.TotalDeposited.Sub(state.TotalClaimed).Sub(state.TotalWithdrawn)
	if state.PoolBalance.Cmp(expected) != 0 {
		return fmt.Errorf("pool balance %s does not reconcile with deposits-claims-withdrawals %s",
			state.PoolBalance, expected)
	}
	return nil
}
