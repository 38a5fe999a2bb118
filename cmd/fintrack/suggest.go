package main

import (
	"strings"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/storage"
	"github.com/spf13/cobra"
)

func suggestCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "suggest <description>",
		Short: "Suggest a category for a description",
		Long: `Score the description against your categorized history and report the
category whose transactions it most resembles.`,
		Example: `  fintrack suggest "whole foods"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.Join(args, " ")

			return withOwnerStore(cmd.Context(), func(store *storage.SQLiteStorage, ownerID string) error {
				suggestion, err := newEngine(store).SuggestCategory(cmd.Context(), ownerID, &description)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, suggestion)
				}
				return cli.NewRenderer(cmd.OutOrStdout()).Suggestion(suggestion)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")

	return cmd
}

func patternsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Show the common words in each category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withOwnerStore(cmd.Context(), func(store *storage.SQLiteStorage, ownerID string) error {
				patterns, err := newEngine(store).CategoryPatterns(cmd.Context(), ownerID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, patterns)
				}
				return cli.NewRenderer(cmd.OutOrStdout()).Patterns(patterns)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}
