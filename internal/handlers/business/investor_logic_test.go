package business

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vestingledger/internal/models"
)

func TestUpsertInvestors(t *testing.T) {
	t.Run("Requires Initialized Ledger", func(t *testing.T) {
		db := openTestDB(t)

		err := UpsertInvestors(db, []InvestorInput{
			{Account: "alice.sol", GroupID: "seed", Amount: models.AmountFromInt64(1000)},
		})
		assert.ErrorIs(t, err, ErrNotInitialized)

		var count int64
		require.NoError(t, db.Model(&models.InvestorRecord{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("All Or Nothing On Unknown Group", func(t *testing.T) {
		db := openTestDB(t)
		initTestLedger(t, db)

		err := UpsertInvestors(db, []InvestorInput{
			{Account: "alice.sol", GroupID: "seed", Amount: models.AmountFromInt64(1000)},
			{Account: "bob.sol", GroupID: "ghost", Amount: models.AmountFromInt64(1000)},
		})
		assert.ErrorIs(t, err, ErrUnknownGroup)

		var count int64
		require.NoError(t, db.Model(&models.InvestorRecord{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("Update Preserves Claimed", func(t *testing.T) {
		db := openTestDB(t)
		initTestLedger(t, db)

		require.NoError(t, UpsertInvestors(db, []InvestorInput{
			{Account: "alice.sol", GroupID: "seed", Amount: models.AmountFromInt64(1000)},
		}))
		require.NoError(t, db.Model(&models.InvestorRecord{}).
			Where("account = ?", "alice.sol").
			Update("claimed", models.AmountFromInt64(400)).Error)

		err := UpsertInvestors(db, []InvestorInput{
			{Account: "alice.sol", GroupID: "seed", Amount: models.AmountFromInt64(300)},
		})
		assert.ErrorIs(t, err, ErrInvalidInvestorEntry)

		require.NoError(t, UpsertInvestors(db, []InvestorInput{
			{Account: "alice.sol", GroupID: "seed", Amount: models.AmountFromInt64(2000)},
		}))

		var rec models.InvestorRecord
		require.NoError(t, db.Where("account = ?", "alice.sol").First(&rec).Error)
		assert.Equal(t, "2000", rec.TotalAllocation.String())
		assert.Equal(t, "400", rec.Claimed.String())
	})
}
