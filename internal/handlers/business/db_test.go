package business

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vestingledger/internal/models"
)

// openTestDB backs a test with a throwaway sqlite database. The sqlite
// dialector drops row-level locking clauses, so the FOR UPDATE paths run
// unchanged. Amounts in these tests stay within 64 bits; sqlite's numeric
// affinity would not round-trip wider values exactly.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ledger.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.LedgerState{},
		&models.VestingGroup{},
		&models.InvestorRecord{},
		&models.PendingTransfer{},
		&models.DepositRecord{},
	))
	return db
}

// initTestLedger initializes the ledger with a single immediate-unlock
// group, so a test investor's full allocation is claimable right away.
func initTestLedger(t *testing.T, db *gorm.DB) *models.LedgerState {
	t.Helper()
	state, err := InitLedger(db, "owner.sol", InitInput{
		TokenServiceID: "token-service.sol",
		TgeTimestampMs: 1700000000000,
		Groups: []GroupInput{
			{GroupID: "seed", CliffMs: 0, VestingMs: 0, InitialUnlockBps: 0},
		},
	})
	require.NoError(t, err)
	return state
}

func currentState(t *testing.T, db *gorm.DB) *models.LedgerState {
	t.Helper()
	var state models.LedgerState
	require.NoError(t, db.First(&state, models.LedgerStateID).Error)
	return &state
}

// fakeTransferor stands in for the treasury client.
type fakeTransferor struct {
	signature string
	submitErr error
	outcome   models.TransferOutcome
	reason    string
}

func (f *fakeTransferor) Transfer(ctx context.Context, recipient string, amount models.Amount, memo string) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.signature, nil
}

func (f *fakeTransferor) Status(ctx context.Context, signature string) (models.TransferOutcome, string, error) {
	return f.outcome, f.reason, nil
}

// recordingPublisher captures every published resolution event.
type recordingPublisher struct {
	events []TransferEvent
}

func (p *recordingPublisher) Publish(queueName string, message interface{}) error {
	p.events = append(p.events, message.(TransferEvent))
	return nil
}
