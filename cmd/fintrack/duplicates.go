package main

import (
	"encoding/json"
	"errors"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/duplicate"
	"github.com/Veraticus/fintrack/internal/storage"
	"github.com/spf13/cobra"
)

func duplicatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "duplicates",
		Aliases: []string{"dupes"},
		Short:   "Find transactions recorded more than once",
	}

	cmd.AddCommand(scanDuplicatesCmd())
	cmd.AddCommand(checkDuplicateCmd())

	return cmd
}

func scanDuplicatesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan recent transactions for likely duplicates",
		Long: `Compare the 500 most recent transactions with each other and list pairs
with near-identical amounts, dates within three days, and similar descriptions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withOwnerStore(cmd.Context(), func(store *storage.SQLiteStorage, ownerID string) error {
				report, err := newEngine(store).FindDuplicates(cmd.Context(), ownerID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, report)
				}
				return cli.NewRenderer(cmd.OutOrStdout()).Duplicates(report)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func checkDuplicateCmd() *cobra.Command {
	var (
		amount      string
		description string
		date        string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:     "check",
		Short:   "Check whether a transaction was already recorded",
		Example: `  fintrack duplicates check --amount 42.17 --description "Corner Market" --date 2024-03-14`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var desc *string
			if cmd.Flags().Changed("description") {
				desc = &description
			}

			candidate, err := duplicate.ParseCandidate(amount, desc, date)
			if err != nil {
				return common.NewUserError(err.Error(), err)
			}

			return withOwnerStore(cmd.Context(), func(store *storage.SQLiteStorage, ownerID string) error {
				result, err := newEngine(store).CheckDuplicate(cmd.Context(), ownerID, candidate)
				if errors.Is(err, common.ErrInvalidInput) {
					return common.NewUserError(err.Error(), err)
				}
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, result)
				}
				return cli.NewRenderer(cmd.OutOrStdout()).DuplicateCheck(result)
			})
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount to check (required)")
	cmd.Flags().StringVar(&description, "description", "", "description to compare")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD or RFC 3339 (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
