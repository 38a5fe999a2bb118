package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/storage"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  `List and add the categories transactions are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withOwnerStore(cmd.Context(), func(store *storage.SQLiteStorage, ownerID string) error {
				categories, err := store.GetCategories(cmd.Context(), ownerID)
				if err != nil {
					return fmt.Errorf("failed to get categories: %w", err)
				}
				return cli.NewRenderer(cmd.OutOrStdout()).Categories(categories)
			})
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var income bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryType := model.CategoryTypeExpense
			if income {
				categoryType = model.CategoryTypeIncome
			}

			return withOwnerStore(cmd.Context(), func(store *storage.SQLiteStorage, ownerID string) error {
				category, err := store.CreateCategory(cmd.Context(), ownerID, args[0], categoryType)
				if errors.Is(err, common.ErrDuplicateEntry) {
					return common.NewUserError(fmt.Sprintf("category %q already exists", args[0]), err)
				}
				if err != nil {
					return fmt.Errorf("failed to create category: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
					fmt.Sprintf("Created %s category %q (id %d)", category.Type, category.Name, category.ID)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&income, "income", false, "create an income category")

	return cmd
}

// resolveCategory maps a category name to its id, failing with a user error
// when the owner has no such category.
func resolveCategory(cmd *cobra.Command, store *storage.SQLiteStorage, ownerID, name string) (int, error) {
	category, err := store.GetCategoryByName(cmd.Context(), ownerID, name)
	if errors.Is(err, common.ErrNotFound) {
		return 0, common.NewUserError(
			fmt.Sprintf("category %q not found; create it with 'fintrack categories add'", name), err)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up category: %w", err)
	}
	return category.ID, nil
}
