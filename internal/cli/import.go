package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"findash/internal/amqp"
	"findash/internal/backend"
	"findash/internal/config"
	applog "findash/internal/log"
	"findash/internal/source"
)

func newImportCommand(a *app) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Read a report source and store it as the SQLite snapshot",
		Long: "Read every record from an xlsx, csv or Google Sheets source and replace the " +
			"records in the SQLite database. When AMQP_URL is set a dataset-imported " +
			"notification is published afterwards.",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runImport(cmd.Context(), a.cfg, a.logger, importOptions{From: from, Files: args})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records from %s (import %s)\n", res.Records, res.Source, res.ImportID)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Source backend: xlsx, csv or sheets (defaults to DATA_BACKEND)")
	return cmd
}

type importOptions struct {
	From  string
	Files []string
}

type importResult struct {
	ImportID string
	Source   string
	Records  int
}

func runImport(ctx context.Context, cfg *config.Config, logger *applog.Logger, opts importOptions) (importResult, error) {
	srcCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return importResult{}, err
	}
	if opts.From != "" {
		srcCfg.Type = backend.BackendType(strings.ToLower(opts.From))
	}
	if !srcCfg.Type.FileBased() && srcCfg.Type != backend.SheetsBackend {
		return importResult{}, fmt.Errorf("cannot import from %q: must be one of xlsx, csv, sheets", srcCfg.Type)
	}
	if len(opts.Files) > 0 {
		srcCfg.Files = opts.Files
	}

	factory := backend.NewFactory(logger.WithComponent(applog.ComponentLoader).Logger)

	src, err := factory.CreateBackend(ctx, srcCfg)
	if err != nil {
		return importResult{}, fmt.Errorf("create %s backend: %w", srcCfg.Type, err)
	}
	defer src.Close()

	records, err := src.Reader.ReadRecords(ctx)
	if err != nil {
		return importResult{}, fmt.Errorf("read records: %w", err)
	}

	dst, err := factory.CreateBackend(ctx, backend.Config{
		Type:         backend.SQLiteBackend,
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		return importResult{}, fmt.Errorf("open sqlite: %w", err)
	}
	defer dst.Close()

	label := sourceLabel(srcCfg)
	importID, err := dst.Writer.ReplaceRecords(ctx, source.Import{
		Source:     label,
		Records:    records,
		ImportedAt: time.Now().UTC(),
	})
	if err != nil {
		return importResult{}, fmt.Errorf("store import: %w", err)
	}
	applog.NewStructuredLogger(logger).LogImport(ctx, label, importID, len(records))

	if cfg.AMQPURL != "" {
		msg := amqp.NewDatasetImportedMessage(importID, srcCfg.Type.String(), label, len(records))
		if err := publishImported(ctx, cfg, msg); err != nil {
			// The stored import stands even when the notification fails.
			logger.WithComponent(applog.ComponentAMQP).Warn("Failed to publish import notification",
				applog.FieldImportID, importID, "error", err)
		}
	}

	return importResult{ImportID: importID, Source: label, Records: len(records)}, nil
}

func publishImported(ctx context.Context, cfg *config.Config, msg *amqp.DatasetImportedMessage) error {
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	return errors.Join(client.PublishDatasetImported(ctx, msg), client.Close())
}

func sourceLabel(c backend.Config) string {
	if c.Type == backend.SheetsBackend {
		return c.GoogleSpreadsheetID + "!" + c.GoogleSheetRange
	}
	return strings.Join(c.Files, ",")
}
