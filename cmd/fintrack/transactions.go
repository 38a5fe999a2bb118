package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/duplicate"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/service"
	"github.com/Veraticus/fintrack/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Record and review transactions",
	}

	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(categorizeTransactionCmd())

	return cmd
}

type addOptions struct {
	amount           string
	description      string
	date             string
	category         string
	income           bool
	acceptSuggestion bool
}

func addTransactionCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Long: `Record a single income or expense.

Before saving, the transaction is checked against nearby history and a
warning is printed if it looks like something already recorded. Without
--category, a category is suggested from similar past transactions.`,
		Example: `  fintrack tx add --amount 4.50 --description "Blue Bottle Coffee"
  fintrack tx add --amount 2500 --income --description "ACME payroll" --date 2024-03-01`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withOwnerStore(cmd.Context(), func(store *storage.SQLiteStorage, ownerID string) error {
				return runAddTransaction(cmd, store, ownerID, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.amount, "amount", "", "transaction amount (required)")
	cmd.Flags().StringVar(&opts.description, "description", "", "what the transaction was for")
	cmd.Flags().StringVar(&opts.date, "date", "", "date as YYYY-MM-DD or RFC 3339 (default: today)")
	cmd.Flags().StringVar(&opts.category, "category", "", "category name")
	cmd.Flags().BoolVar(&opts.income, "income", false, "record as income instead of expense")
	cmd.Flags().BoolVar(&opts.acceptSuggestion, "accept-suggestion", false, "file under the suggested category when none is given")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runAddTransaction(cmd *cobra.Command, store *storage.SQLiteStorage, ownerID string, opts addOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	renderer := cli.NewRenderer(out)
	eng := newEngine(store)

	amount, err := decimal.NewFromString(strings.TrimSpace(opts.amount))
	if err != nil {
		return common.NewUserError(fmt.Sprintf("amount %q is not a number", opts.amount), err)
	}

	date := time.Now()
	if opts.date != "" {
		if date, err = duplicate.ParseDate(opts.date); err != nil {
			return common.NewUserError(err.Error(), err)
		}
	}

	txn := model.Transaction{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Amount:  amount,
		Date:    date,
		Type:    model.TypeExpense,
	}
	if opts.income {
		txn.Type = model.TypeIncome
	}
	if strings.TrimSpace(opts.description) != "" {
		txn.Description = model.StringPtr(opts.description)
	}

	if opts.category != "" {
		id, err := resolveCategory(cmd, store, ownerID, opts.category)
		if err != nil {
			return err
		}
		txn.CategoryID = &id
	}

	check, err := eng.CheckDuplicate(ctx, ownerID, model.DuplicateCandidate{
		Amount:      txn.Amount,
		Description: txn.Description,
		Date:        txn.Date,
	})
	if err != nil {
		slog.Warn("Duplicate check failed", "error", err)
	} else if err := renderer.DuplicateCheck(check); err != nil {
		return err
	}

	if txn.CategoryID == nil && txn.Description != nil {
		suggestion, err := eng.SuggestCategory(ctx, ownerID, txn.Description)
		if err != nil {
			slog.Warn("Category suggestion failed", "error", err)
		} else {
			if err := renderer.Suggestion(suggestion); err != nil {
				return err
			}
			if opts.acceptSuggestion && suggestion.CategoryID != nil {
				txn.CategoryID = suggestion.CategoryID
			}
		}
	}

	if err := store.SaveTransactions(ctx, []model.Transaction{txn}); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess("Recorded transaction "+txn.ID))
	return nil
}

func listTransactionsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withOwnerStore(cmd.Context(), func(store *storage.SQLiteStorage, ownerID string) error {
				ctx := cmd.Context()
				txns, err := store.RecentTransactions(ctx, service.TransactionFilter{
					OwnerID: ownerID,
					Limit:   limit,
				})
				if err != nil {
					return fmt.Errorf("failed to list transactions: %w", err)
				}

				categories, err := store.GetCategories(ctx, ownerID)
				if err != nil {
					return fmt.Errorf("failed to get categories: %w", err)
				}
				names := make(map[int]string, len(categories))
				for _, cat := range categories {
					names[cat.ID] = cat.Name
				}

				return cli.NewRenderer(cmd.OutOrStdout()).Transactions(txns, names)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum transactions to show (0 for all)")

	return cmd
}

func categorizeTransactionCmd() *cobra.Command {
	var clearCategory bool

	cmd := &cobra.Command{
		Use:   "categorize <transaction-id> [category]",
		Short: "Assign or clear a transaction's category",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !clearCategory && len(args) != 2 {
				return common.NewUserError("give a category name or --clear", nil)
			}

			return withOwnerStore(cmd.Context(), func(store *storage.SQLiteStorage, ownerID string) error {
				ctx := cmd.Context()

				txn, err := store.GetTransactionByID(ctx, args[0])
				if errors.Is(err, common.ErrNotFound) || (err == nil && txn.OwnerID != ownerID) {
					return common.NewUserError(fmt.Sprintf("transaction %q not found", args[0]), common.ErrNotFound)
				}
				if err != nil {
					return fmt.Errorf("failed to get transaction: %w", err)
				}

				var categoryID *int
				if !clearCategory {
					id, err := resolveCategory(cmd, store, ownerID, args[1])
					if err != nil {
						return err
					}
					categoryID = &id
				}

				if err := store.SetTransactionCategory(ctx, txn.ID, categoryID); err != nil {
					return fmt.Errorf("failed to update transaction: %w", err)
				}

				msg := "Cleared category"
				if categoryID != nil {
					msg = "Filed under " + args[1]
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearCategory, "clear", false, "remove the transaction's category")

	return cmd
}
