package main

import (
	"encoding/json"
	"log"

	logrus "github.com/sirupsen/logrus"

	"vestingledger/internal/handlers/business"
	"vestingledger/pkg/config"
)

// Tails the resolution event queue and logs every commit and rollback.
// Operators run it to watch transfer outcomes without database access.
func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	config.InitRabbitMQ()
	defer config.RabbitMQ.Close()

	consumer, err := config.NewConsumer(business.EventsQueue)
	if err != nil {
		logrus.Fatal("Failed to create consumer: ", err)
	}
	defer consumer.Close()

	logrus.Info("Listening for transfer resolution events...")

	err = consumer.Consume(func(msg []byte) error {
		var event business.TransferEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			logrus.Errorf("Failed to unmarshal event: %v", err)
			return err
		}

		fields := logrus.Fields{
			"transfer_id": event.ID,
			"kind":        event.Kind,
			"account":     event.Account,
			"amount":      event.Amount.String(),
			"signature":   event.Signature,
		}
		if event.Event == "transfer_rolled_back" {
			fields["reason"] = event.Reason
			logrus.WithFields(fields).Warn("Transfer rolled back")
		} else {
			logrus.WithFields(fields).Info("Transfer committed")
		}
		return nil
	})
	if err != nil {
		log.Fatal("Failed to start consumer: ", err)
	}
}
