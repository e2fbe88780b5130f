package business

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vestingledger/internal/models"
)

func TestValidateGroups(t *testing.T) {
	t.Run("Valid Registry", func(t *testing.T) {
		err := ValidateGroups([]GroupInput{
			{GroupID: "seed", CliffMs: 1000, VestingMs: 2000, InitialUnlockBps: 500},
			{GroupID: "team", CliffMs: 0, VestingMs: 0, InitialUnlockBps: 0},
			{GroupID: "advisors", CliffMs: 500, VestingMs: 1500, InitialUnlockBps: 10000},
		})
		assert.NoError(t, err)
	})

	t.Run("Empty Registry Is Valid", func(t *testing.T) {
		assert.NoError(t, ValidateGroups(nil))
	})

	t.Run("Missing Group ID", func(t *testing.T) {
		err := ValidateGroups([]GroupInput{{GroupID: ""}})
		assert.ErrorIs(t, err, ErrInvalidGroupConfig)
	})

	t.Run("Duplicate Group ID", func(t *testing.T) {
		err := ValidateGroups([]GroupInput{
			{GroupID: "seed"},
			{GroupID: "seed"},
		})
		assert.ErrorIs(t, err, ErrInvalidGroupConfig)
	})

	t.Run("Negative Cliff", func(t *testing.T) {
		err := ValidateGroups([]GroupInput{{GroupID: "seed", CliffMs: -1}})
		assert.ErrorIs(t, err, ErrInvalidGroupConfig)
	})

	t.Run("Negative Vesting Duration", func(t *testing.T) {
		err := ValidateGroups([]GroupInput{{GroupID: "seed", VestingMs: -1}})
		assert.ErrorIs(t, err, ErrInvalidGroupConfig)
	})

	t.Run("Unlock Bps Out Of Range", func(t *testing.T) {
		err := ValidateGroups([]GroupInput{{GroupID: "seed", InitialUnlockBps: 10001}})
		assert.ErrorIs(t, err, ErrInvalidGroupConfig)

		err = ValidateGroups([]GroupInput{{GroupID: "seed", InitialUnlockBps: -1}})
		assert.ErrorIs(t, err, ErrInvalidGroupConfig)
	})
}

func TestValidateInitialClaim(t *testing.T) {
	t.Run("Disabled Overlay", func(t *testing.T) {
		assert.NoError(t, validateInitialClaim(0, 0))
	})

	t.Run("Enabled With Timestamp", func(t *testing.T) {
		assert.NoError(t, validateInitialClaim(2500, 1700000000000))
	})

	t.Run("Bps Out Of Range", func(t *testing.T) {
		assert.ErrorIs(t, validateInitialClaim(10001, 1700000000000), ErrInvalidInitialClaim)
		assert.ErrorIs(t, validateInitialClaim(-1, 1700000000000), ErrInvalidInitialClaim)
	})

	t.Run("Bps Without Timestamp", func(t *testing.T) {
		assert.ErrorIs(t, validateInitialClaim(100, 0), ErrInvalidInitialClaim)
	})
}

func TestReplaceVestingGroupsRequiresInitializedLedger(t *testing.T) {
	db := openTestDB(t)

	err := ReplaceVestingGroups(db, []GroupInput{{GroupID: "seed"}})
	assert.ErrorIs(t, err, ErrNotInitialized)

	// Nothing may leak into the registry that could collide with the
	// init-time group inserts.
	var count int64
	require.NoError(t, db.Model(&models.VestingGroup{}).Count(&count).Error)
	assert.Zero(t, count)

	initTestLedger(t, db)
	assert.NoError(t, ReplaceVestingGroups(db, []GroupInput{
		{GroupID: "seed", VestingMs: 1000},
		{GroupID: "team", CliffMs: 500},
	}))
}
