package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"localoffice/internal/adapters/out/rabbitmq"
	"localoffice/internal/core/application/usecases/commands"
	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/core/ports"
)

// NewDeliveryUpdateConsumer feeds the delivery-updates queue into the
// status reconciler. A malformed payload is a permanent failure and goes
// straight to the dead-letter queue through the attempt counter.
func NewDeliveryUpdateConsumer(
	client *rabbitmq.Client,
	handler commands.ApplyDeliveryUpdateCommandHandler,
	logger *slog.Logger,
) *Consumer {
	reconcilerLogger := logger.With("component", "delivery_update_consumer")

	return NewConsumer(client, ports.QueueDeliveryUpdates, "delivery-update-worker",
		func(ctx context.Context, payload []byte) error {
			var update delivery.Update
			if err := json.Unmarshal(payload, &update); err != nil {
				return err
			}

			cmd, err := commands.NewApplyDeliveryUpdateCommand(update)
			if err != nil {
				return err
			}

			if err = handler.Handle(ctx, cmd); err != nil {
				reconcilerLogger.Error("failed to apply delivery update",
					"provider", update.Provider, "externalJobId", update.ExternalJobID, "error", err)
				return err
			}

			reconcilerLogger.Info("delivery update applied",
				"provider", update.Provider, "externalJobId", update.ExternalJobID,
				"status", update.Status)
			return nil
		}, logger)
}
