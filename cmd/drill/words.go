package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pavelanni/drill/internal/quiz"
)

func newCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a quiz and enter its words",
		Args:  cobra.MinimumNArgs(1),
		RunE:  withApp(runNew),
	}
	addStorageFlags(cmd.Flags())
	cmd.Flags().String("format", "json", "File format for the new quiz (json, yaml)")
	return cmd
}

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <quiz> [<word> <translation>]",
		Short: "Add words to a quiz",
		Long: `Add one word and its translation, or with only a quiz name enter words
interactively until an empty word is given.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: withApp(runAdd),
	}
	addStorageFlags(cmd.Flags())
	return cmd
}

func runNew(ctx context.Context, a *app, args []string) error {
	name := strings.Join(args, " ")
	if _, err := a.lib.Create(name); err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}
	return a.enterWords(ctx, quiz.NormalizeName(name))
}

func runAdd(ctx context.Context, a *app, args []string) error {
	name := args[0]
	switch len(args) {
	case 3:
		if err := a.lib.AddWord(name, args[1], args[2]); err != nil {
			return fmt.Errorf("add word: %w", err)
		}
		return nil
	case 2:
		return fmt.Errorf("missing translation for %q", args[1])
	}
	if !a.lib.Exists(name) {
		return fmt.Errorf("add words: %w: %q", quiz.ErrNotFound, name)
	}
	return a.enterWords(ctx, name)
}
