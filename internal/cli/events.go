package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"findash/internal/amqp"
	applog "findash/internal/log"
)

func newEventsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Consume and log dataset-imported notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.AMQPURL == "" {
				return errors.New("AMQP_URL is required for events")
			}
			ctx, cancel := GracefulShutdown(cmd.Context(), a.logger)
			defer cancel()

			client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
			if err != nil {
				return fmt.Errorf("connect to broker: %w", err)
			}
			defer client.Close()

			logger := a.logger.WithComponent(applog.ComponentAMQP)
			logger.Info("Waiting for dataset imports", "queue", a.cfg.AMQPQueue)

			err = client.ConsumeDatasetImported(ctx, logImported(logger))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func logImported(logger *applog.Logger) func(context.Context, *amqp.DatasetImportedMessage) error {
	return func(ctx context.Context, msg *amqp.DatasetImportedMessage) error {
		logger.InfoContext(ctx, "Dataset imported",
			applog.FieldOperation, applog.OpConsume,
			applog.FieldImportID, msg.ImportID,
			applog.FieldBackend, msg.Backend,
			applog.FieldSource, msg.Source,
			applog.FieldRecords, msg.Records,
			"imported_at", msg.ImportedAt)
		return nil
	}
}
