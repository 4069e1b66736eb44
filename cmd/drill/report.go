package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

const tableTime = "2006-01-02 15:04"

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quizzes and saved sessions",
		Args:  cobra.NoArgs,
		RunE:  withApp(runList),
	}
	addStorageFlags(cmd.Flags())
	return cmd
}

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Show the session log",
		Args:  cobra.NoArgs,
		RunE:  withApp(runSessions),
	}
	addStorageFlags(cmd.Flags())
	cmd.Flags().String("quiz", "", "Only show sessions of this quiz")
	cmd.Flags().Int("limit", 20, "Maximum number of sessions (0 = all)")
	return cmd
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-quiz totals from the session log",
		Args:  cobra.NoArgs,
		RunE:  withApp(runStats),
	}
	addStorageFlags(cmd.Flags())
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the session log as JSON",
		Args:  cobra.NoArgs,
		RunE:  withApp(runExport),
	}
	addStorageFlags(cmd.Flags())
	cmd.Flags().String("quiz", "", "Only export sessions of this quiz")
	cmd.Flags().StringP("output", "o", "-", "Output file path (- for stdout)")
	return cmd
}

func runList(ctx context.Context, a *app, _ []string) error {
	names, err := a.lib.List()
	if err != nil {
		return fmt.Errorf("list quizzes: %w", err)
	}
	if len(names) == 0 {
		_, _ = fmt.Fprintln(a.out, a.printer.Td("NoQuizzes", map[string]any{"Dir": a.lib.Dir}))
	} else {
		_, _ = fmt.Fprintln(a.out, a.printer.T("QuizzesHeader"))
		for _, name := range names {
			qf, err := a.lib.Read(name)
			if err != nil {
				slog.Warn("unreadable quiz", "quiz", name, "error", err)
				continue
			}
			_, _ = fmt.Fprintf(a.out, "  %s (%s)\n", name, a.printer.Tp("WordCount", len(qf.Words)))
		}
	}

	saved, err := a.checkpoints.List(ctx)
	if err != nil {
		return fmt.Errorf("list saved sessions: %w", err)
	}
	if len(saved) > 0 {
		_, _ = fmt.Fprintln(a.out, a.printer.T("InProgressHeader"))
		for _, name := range saved {
			_, _ = fmt.Fprintf(a.out, "  %s\n", name)
		}
	}
	return nil
}

func runSessions(ctx context.Context, a *app, _ []string) error {
	sessions, err := a.db.ListSessions(ctx, a.v.GetString("quiz"), a.v.GetInt("limit"))
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(a.out, a.printer.T("NoSessions"))
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, a.printer.T("SessionsTableHeader"))
	for _, s := range sessions {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d/%d\n",
			s.StartedAt.Local().Format(tableTime), s.Quiz, s.Policy, s.Status,
			s.Items, s.Correct, s.Attempts)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.out, a.printer.Tp("SessionCount", len(sessions)))
	return nil
}

func runStats(ctx context.Context, a *app, _ []string) error {
	totals, err := a.db.QuizStats(ctx)
	if err != nil {
		return fmt.Errorf("quiz statistics: %w", err)
	}
	if len(totals) == 0 {
		_, _ = fmt.Fprintln(a.out, a.printer.T("NoSessions"))
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, a.printer.T("StatsTableHeader"))
	for _, q := range totals {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f%%\t%s\n",
			q.Quiz, q.Sessions, q.Finished, q.Attempts, q.Accuracy(), formatWhen(q.LastStudied))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	n, err := a.db.SessionCount(ctx)
	if err != nil {
		return fmt.Errorf("count sessions: %w", err)
	}
	_, _ = fmt.Fprintln(a.out, a.printer.Tp("SessionCount", n))
	return nil
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(tableTime)
}

func runExport(ctx context.Context, a *app, _ []string) error {
	export, err := a.db.ExportSessions(ctx, a.v.GetString("quiz"))
	if err != nil {
		return fmt.Errorf("export sessions: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := a.v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = a.out
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)

	slog.Info("sessions exported", "sessions", export.Totals.Sessions, "output", outPath)
	return nil
}
