package business

import (
	"fmt"

	"gorm.io/gorm"

	"vestingledger/internal/models"
)

// GroupInput is one group in a registry replacement request.
type GroupInput struct {
	GroupID          string `json:"group_id" binding:"required"`
	CliffMs          int64  `json:"cliff_ms"`
	VestingMs        int64  `json:"vesting_ms"`
	InitialUnlockBps int64  `json:"initial_unlock_bps"`
}

// ValidateGroups checks a full registry replacement. Each failure is
// distinct; the first one aborts the whole call.
func ValidateGroups(groups []GroupInput) error {
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		if g.GroupID == "" {
			return fmt.Errorf("%w: missing group id", ErrInvalidGroupConfig)
		}
		if seen[g.GroupID] {
			return fmt.Errorf("%w: duplicate group id %q", ErrInvalidGroupConfig, g.GroupID)
		}
		seen[g.GroupID] = true
		if g.CliffMs < 0 {
			return fmt.Errorf("%w: negative cliff for group %q", ErrInvalidGroupConfig, g.GroupID)
		}
		if g.VestingMs < 0 {
			return fmt.Errorf("%w: negative vesting duration for group %q", ErrInvalidGroupConfig, g.GroupID)
		}
		if g.InitialUnlockBps < 0 || g.InitialUnlockBps > 10000 {
			return fmt.Errorf("%w: initial unlock bps %d out of [0,10000] for group %q",
				ErrInvalidGroupConfig, g.InitialUnlockBps, g.GroupID)
		}
	}
	return nil
}

// ReplaceVestingGroups atomically replaces the whole registry. Existing
// investor records are not revalidated against the new registry: an investor
// may reference a group id absent from the new configuration, which freezes
// that investor's claimable amount at 0 until the id is restored. Fails with
// ErrNotInitialized before the ledger exists.
func ReplaceVestingGroups(db *gorm.DB, groups []GroupInput) error {
	if err := ValidateGroups(groups); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockLedgerState(tx); err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.VestingGroup{}).Error; err != nil {
			return err
		}
		for _, g := range groups {
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
}
