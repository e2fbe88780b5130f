package main

import (
	"os"

	"github.com/robfig/cron/v3"
	logger "github.com/sirupsen/logrus"

	"vestingledger/internal/handlers/business"
	dbconfig "vestingledger/pkg/config"
	"vestingledger/pkg/solana"
)

// ResolveStaleTransfers polls the cluster for every submitted transfer that
// is still pending and applies the outcome to the ledger. This backstops the
// worker's websocket stream: anything it missed is caught here.
func ResolveStaleTransfers(transferor business.TokenTransferor, publisher business.EventPublisher) error {
	logger.Info("> Resolving stale transfers")

	resolved, err := business.ResolvePendingTransfers(dbconfig.DB, transferor, publisher)
	if err != nil {
		logger.Errorf("> Transfer resolution sweep failed: %v", err)
		return err
	}

	logger.Infof("> Transfer resolution sweep done, resolved %d", resolved)
	return nil
}

// ReclaimAbandonedTransfers rolls back deductions whose treasury submission
// died before a signature was recorded. The poll sweep cannot see these
// rows, so without this job the deducted funds would stay earmarked forever.
func ReclaimAbandonedTransfers(publisher business.EventPublisher) error {
	resolved, err := business.ResolveAbandonedTransfers(dbconfig.DB, publisher, business.SubmissionTimeout)
	if err != nil {
		logger.Errorf("> Abandoned transfer sweep failed: %v", err)
		return err
	}
	if resolved > 0 {
		logger.Warnf("> Rolled back %d abandoned transfers", resolved)
	}
	return nil
}

// VerifyPoolAccounting recomputes the pool identity from the ledger totals
// and logs loudly when the stored balance has drifted.
func VerifyPoolAccounting() error {
	if err := business.CheckPoolInvariant(dbconfig.DB); err != nil {
		logger.Errorf("> Pool accounting check failed: %v", err)
		return err
	}
	logger.Info("> Pool accounting verified")
	return nil
}

func main() {
	os.MkdirAll("logs", 0755)
	file, err := os.OpenFile("logs/transfer_resolver.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		logger.SetOutput(file)
	} else {
		logger.Warn("Cannot open log file, logging to stdout")
	}

	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logger.InfoLevel)
	logger.Info("> Initializing...")

	dbconfig.InitDB()
	logger.Info("> Database connection initialized")

	transferor, err := solana.NewTreasuryClientFromEnv()
	if err != nil {
		logger.Fatalf("> Failed to create treasury client: %v", err)
	}

	var publisher business.EventPublisher
	if os.Getenv("RABBITMQ_HOST") != "" {
		dbconfig.InitRabbitMQ()
		pub, err := dbconfig.NewPublisher()
		if err != nil {
			logger.Fatalf("> Failed to create publisher: %v", err)
		}
		defer pub.Close()
		publisher = pub
	}

	c := cron.New(cron.WithSeconds())

	// Every minute
	_, err = c.AddFunc("0 * * * * *", func() {
		if err := ResolveStaleTransfers(transferor, publisher); err != nil {
			logger.Errorf("> Stale transfer sweep failed: %v", err)
		}
	})
	if err != nil {
		logger.Fatalf("> Failed to add cron job: %v", err)
	}

	// Every 5 minutes, offset from the status sweep
	_, err = c.AddFunc("30 */5 * * * *", func() {
		if err := ReclaimAbandonedTransfers(publisher); err != nil {
			logger.Errorf("> Abandoned transfer job failed: %v", err)
		}
	})
	if err != nil {
		logger.Fatalf("> Failed to add cron job: %v", err)
	}

	// Every 15 minutes
	_, err = c.AddFunc("0 */15 * * * *", func() {
		if err := VerifyPoolAccounting(); err != nil {
			logger.Errorf("> Pool accounting job failed: %v", err)
		}
	})
	if err != nil {
		logger.Fatalf("> Failed to add cron job: %v", err)
	}

	logger.Info("> Cron jobs scheduled")
	c.Start()

	select {}
}
