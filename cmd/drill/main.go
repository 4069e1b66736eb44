package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pavelanni/drill/internal/model"
	"github.com/pavelanni/drill/internal/scheduler"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "drill",
		Short: "Adaptive vocabulary drill",
		Long: `drill asks the words of a quiz until you know them.

Without a subcommand it walks you through choosing, editing or creating a
quiz. While studying, type "saveas <name>" to save the session for later and
"ss" or "skip" to skip a word.`,
		SilenceUsage: true,
		RunE:         withApp(runWizard),
	}
	addStorageFlags(root.Flags())
	addStudyFlags(root.Flags())

	root.AddCommand(
		studyCmd(),
		resumeCmd(),
		newCmd(),
		addCmd(),
		listCmd(),
		sessionsCmd(),
		statsCmd(),
		exportCmd(),
		serveCmd(),
	)
	return root
}

// addStorageFlags registers the flags every command needs to reach quizzes,
// snapshots and the session log.
func addStorageFlags(f *pflag.FlagSet) {
	f.StringP("words-dir", "w", "words", "Directory holding the quiz files")
	f.String("storage", "file", "Snapshot backend (file, sqlite, redis, memory)")
	f.String("db", "drill.db", "SQLite database path (session log, sqlite snapshots)")
	f.String("redis-addr", "localhost:6379", "Redis address for the redis snapshot backend")
	f.String("redis-password", "", "Redis password")
	f.Int("redis-db", 0, "Redis database number")
	f.Duration("redis-ttl", 0, "Expire unused redis snapshots after this long (0 = never)")
	f.String("redis-prefix", "", "Redis key prefix for snapshots")
	f.StringP("lang", "l", "en", "Message language (en, de)")
	f.Bool("no-color", false, "Disable colored output")
	f.String("log-level", "warn", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

// addStudyFlags registers the flags that shape a drill session.
func addStudyFlags(f *pflag.FlagSet) {
	f.StringP("policy", "p", string(model.PolicyAdaptive), "Scheduling policy (adaptive, linear)")
	f.Bool("shuffle", true, "Randomize the initial order")
	f.BoolP("reverse", "r", false, "Ask the answer side and expect the prompt side")
	f.Bool("only-verbs", false, `Keep only items starting with "to "`)
	f.Int("mastery-window", scheduler.DefaultMasteryWindow, "Recent attempts that decide mastery")
	f.Bool("case-sensitive", false, "Compare answers without folding case")
	f.String("format", "json", "File format for new quizzes (json, yaml)")
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("DRILL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("drill")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/drill")
	v.AddConfigPath("/etc/drill")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}
