package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/ofx"
	"github.com/Veraticus/fintrack/internal/service"
	"github.com/Veraticus/fintrack/internal/storage"
	"github.com/spf13/cobra"
)

const importBatchSize = 100

// flaggedRow is an imported transaction that resembles stored history.
type flaggedRow struct {
	result *model.DuplicateCheckResult
	txn    model.Transaction
}

type importStats struct {
	flagged []flaggedRow
	parsed  int
	saved   int
	skipped int
}

func importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX files exported from your bank.

Rows already imported are skipped. Every new row is checked against your
history first and likely duplicates are listed after the import; they are
still saved.`,
		Example: `  fintrack import ~/Downloads/checking_jan_2024.qfx
  fintrack import ~/Downloads/*.qfx --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Rows saved before the interrupt are kept; re-run the import to finish.")
			ctx, stop := interrupts.HandleInterrupts(cmd.Context())
			defer stop()

			return withOwnerStore(ctx, func(store *storage.SQLiteStorage, ownerID string) error {
				txns, err := parseFiles(ctx, files, ownerID)
				if err != nil {
					return err
				}
				if len(txns) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("No transactions found in any file"))
					return nil
				}

				stats, err := importTransactions(ctx, cmd, store, ownerID, txns, dryRun)
				printImportSummary(cmd, stats, dryRun)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "check for duplicates without saving")

	return cmd
}

// expandFiles resolves globs, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}

	if len(files) == 0 {
		return nil, common.NewUserError("no files found to import", nil)
	}
	return files, nil
}

// parseFiles parses every file, dropping rows repeated across overlapping statements.
func parseFiles(ctx context.Context, files []string, ownerID string) ([]model.Transaction, error) {
	parser := ofx.NewParser()
	seen := make(map[string]bool)
	var all []model.Transaction

	for _, path := range files {
		f, err := os.Open(path) //nolint:gosec // user-supplied import path
		if err != nil {
			slog.Error("Failed to open file", "file", path, "error", err)
			continue
		}

		txns, err := parser.ParseFile(ctx, f, ownerID)
		_ = f.Close()
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
			continue
		}

		added := 0
		for _, txn := range txns {
			if !seen[txn.ID] {
				seen[txn.ID] = true
				all = append(all, txn)
				added++
			}
		}

		slog.Info("Processed file",
			"file", filepath.Base(path),
			"transactions_found", len(txns),
			"added", added)
	}

	return all, nil
}

func importTransactions(ctx context.Context, cmd *cobra.Command, store service.Storage, ownerID string, txns []model.Transaction, dryRun bool) (importStats, error) {
	stats := importStats{parsed: len(txns)}
	eng := newEngineFor(store)
	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(txns), "Importing transactions...")

	batch := make([]model.Transaction, 0, importBatchSize)
	flush := func() error {
		if len(batch) == 0 || dryRun {
			batch = batch[:0]
			return nil
		}
		err := common.WithRetry(ctx, func() error {
			return store.SaveTransactions(ctx, batch)
		}, common.RetryOptions{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond})
		if err != nil {
			return fmt.Errorf("failed to save transactions: %w", err)
		}
		stats.saved += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, txn := range txns {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		_, err := store.GetTransactionByID(ctx, txn.ID)
		switch {
		case err == nil:
			stats.skipped++
		case errors.Is(err, common.ErrNotFound):
			result, checkErr := eng.CheckDuplicate(ctx, ownerID, model.DuplicateCandidate{
				Amount:      txn.Amount,
				Description: txn.Description,
				Date:        txn.Date,
			})
			if checkErr != nil {
				slog.Warn("Duplicate check failed", "transaction_id", txn.ID, "error", checkErr)
			} else if result.IsDuplicate {
				stats.flagged = append(stats.flagged, flaggedRow{txn: txn, result: result})
			}

			batch = append(batch, txn)
			if len(batch) == importBatchSize {
				if err := flush(); err != nil {
					return stats, err
				}
			}
		default:
			return stats, fmt.Errorf("failed to look up transaction: %w", err)
		}

		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	return stats, flush()
}

func printImportSummary(cmd *cobra.Command, stats importStats, dryRun bool) {
	out := cmd.OutOrStdout()
	renderer := cli.NewRenderer(out)

	if dryRun {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d parsed, %d already imported, nothing saved",
			stats.parsed, stats.skipped)))
	} else {
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d of %d transaction(s); %d already present",
			stats.saved, stats.parsed, stats.skipped)))
	}

	for _, row := range stats.flagged {
		fmt.Fprintf(out, "\n%s %s %s\n", row.txn.Date.Format("2006-01-02"), row.txn.Amount.StringFixed(2), row.txn.DescriptionText())
		if err := renderer.DuplicateCheck(row.result); err != nil {
			slog.Warn("Failed to render duplicate check", "error", err)
		}
	}
}
