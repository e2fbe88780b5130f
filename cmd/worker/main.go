package main

import (
	"errors"
	"os"
	"time"

	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"vestingledger/internal/handlers/business"
	"vestingledger/internal/models"
	"vestingledger/pkg/config"
	"vestingledger/pkg/solana"
)

const (
	watchInterval = 10 * time.Second // how often new pending transfers are picked up
	pollInterval  = 60 * time.Second // RPC status poll fallback for missed notifications
)

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	config.InitDB()

	// Initialize RabbitMQ (optional)
	var publisher business.EventPublisher
	if os.Getenv("RABBITMQ_HOST") != "" {
		config.InitRabbitMQ()
		defer config.RabbitMQ.Close()

		pub, err := config.NewPublisher()
		if err != nil {
			logrus.Fatal("Failed to create publisher: ", err)
		}
		defer pub.Close()
		publisher = pub
	} else {
		logrus.Info("RabbitMQ not configured, resolution events will only be logged")
	}

	transferor, err := solana.NewTreasuryClientFromEnv()
	if err != nil {
		logrus.Fatal("Failed to create treasury client: ", err)
	}

	// WebSocket stream resolves transfers as their signatures finalize.
	listener, err := solana.NewConfirmationListener(func(signature string, success bool, reason string) {
		resolveBySignature(publisher, signature, success, reason)
	})
	if err != nil {
		logrus.Fatal("Failed to create confirmation listener: ", err)
	}
	listener.Start()
	defer listener.Stop()

	logrus.Info("Transfer resolution worker started")

	watchTicker := time.NewTicker(watchInterval)
	defer watchTicker.Stop()
	pollTicker := time.NewTicker(pollInterval)
	defer pollTicker.Stop()

	for {
		select {
		case <-watchTicker.C:
			watchPendingTransfers(listener)
		case <-pollTicker.C:
			// Fallback for notifications lost across reconnects.
			resolved, err := business.ResolvePendingTransfers(config.DB, transferor, publisher)
			if err != nil {
				logrus.Error("Status poll failed: ", err)
			} else if resolved > 0 {
				logrus.WithFields(logrus.Fields{
					"resolved": resolved,
				}).Info("Resolved transfers via status poll")
			}
		}
	}
}

// watchPendingTransfers subscribes the listener to every submitted transfer
// that is still pending. Watch is idempotent per signature.
func watchPendingTransfers(listener *solana.ConfirmationListener) {
	var transfers []models.PendingTransfer
	err := config.DB.
		Where("status = ? AND signature <> ''", models.TransferStatusPending).
		Find(&transfers).Error
	if err != nil {
		logrus.Error("Failed to load pending transfers: ", err)
		return
	}

	for _, transfer := range transfers {
		if err := listener.Watch(transfer.Signature); err != nil {
			logrus.WithFields(logrus.Fields{
				"transfer_id": transfer.ID,
				"signature":   transfer.Signature,
				"error":       err.Error(),
			}).Error("Failed to watch transfer signature")
		}
	}
}

func resolveBySignature(publisher business.EventPublisher, signature string, success bool, reason string) {
	var transfer models.PendingTransfer
	err := config.DB.Where("signature = ?", signature).First(&transfer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithFields(logrus.Fields{
				"signature": signature,
			}).Warn("Notification for unknown transfer signature")
			return
		}
		logrus.Error("Failed to look up transfer by signature: ", err)
		return
	}

	if err := business.ResolveTransfer(config.DB, publisher, transfer.ID, success, reason); err != nil {
		logrus.WithFields(logrus.Fields{
			"transfer_id": transfer.ID,
			"signature":   signature,
			"error":       err.Error(),
		}).Error("Failed to resolve transfer")
	}
}
