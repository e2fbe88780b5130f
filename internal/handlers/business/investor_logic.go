package business

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vestingledger/internal/models"
)

// InvestorInput is one entry in a batch upsert.
type InvestorInput struct {
	Account string        `json:"account" binding:"required"`
	GroupID string        `json:"group_id" binding:"required"`
	Amount  models.Amount `json:"amount"`
}

// UpsertInvestors applies a batch of allocation assignments all-or-nothing.
// The whole batch is validated before any write, and every write happens in
// one transaction, so no entry's mutation survives a failing sibling.
//
// For a new account a record is created with claimed = 0. For an existing
// account the allocation is updated, preserving claimed; lowering the
// allocation below the already-claimed amount is rejected. Fails with
// ErrNotInitialized before the ledger exists.
func UpsertInvestors(db *gorm.DB, entries []InvestorInput) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: empty batch", ErrInvalidInvestorEntry)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockLedgerState(tx); err != nil {
			return err
		}
		var groups []models.VestingGroup
		if err := tx.Find(&groups).Error; err != nil {
			return err
		}
		knownGroups := make(map[string]bool, len(groups))
		for _, g := range groups {
			knownGroups[g.GroupID] = true
		}

		seen := make(map[string]bool, len(entries))
		existing := make(map[string]*models.InvestorRecord, len(entries))
		for _, e := range entries {
			if e.Account == "" {
				return fmt.Errorf("%w: missing account", ErrInvalidInvestorEntry)
			}
			if seen[e.Account] {
				return fmt.Errorf("%w: duplicate account %q in batch", ErrInvalidInvestorEntry, e.Account)
			}
			seen[e.Account] = true
			if !knownGroups[e.GroupID] {
				return fmt.Errorf("%w: %q", ErrUnknownGroup, e.GroupID)
			}
			if !e.Amount.IsPositive() {
				return fmt.Errorf("%w: non-positive amount for %q", ErrInvalidInvestorEntry, e.Account)
			}

			var rec models.InvestorRecord
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("account = ?", e.Account).First(&rec).Error
			if err == nil {
				if e.Amount.Cmp(rec.Claimed) < 0 {
					return fmt.Errorf("%w: allocation %s below claimed %s for %q",
						ErrInvalidInvestorEntry, e.Amount, rec.Claimed, e.Account)
				}
				existing[e.Account] = &rec
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		for _, e := range entries {
			if rec, ok := existing[e.Account]; ok {
				if err := tx.Model(&models.InvestorRecord{}).
					Where("id = ?", rec.ID).
					Updates(map[string]interface{}{
						"group_id":         e.GroupID,
						"total_allocation": e.Amount,
					}).Error; err != nil {
					return err
				}
				continue
			}
			rec := models.InvestorRecord{
				Account:         e.Account,
				GroupID:         e.GroupID,
				TotalAllocation: e.Amount,
				Claimed:         models.ZeroAmount(),
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
