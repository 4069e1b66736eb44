package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/drill/internal/checkpoint"
	"github.com/pavelanni/drill/internal/console"
	"github.com/pavelanni/drill/internal/i18n"
	"github.com/pavelanni/drill/internal/quiz"
	"github.com/pavelanni/drill/internal/snapshot"
	"github.com/pavelanni/drill/internal/store"
)

// app wires the collaborators of one command invocation.
type app struct {
	v *viper.Viper

	lib         *quiz.Library
	db          *store.Store
	checkpoints *checkpoint.Manager
	redis       *redis.Client

	printer  *i18n.Printer
	prompter *console.Prompter
	display  *console.Display
	out      io.Writer
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	lang := v.GetString("lang")
	if err := i18n.Init(lang); err != nil {
		return nil, fmt.Errorf("init i18n: %w", err)
	}
	if !slices.Contains(i18n.Languages(), strings.ToLower(lang)) {
		slog.Warn("no messages for language, using fallback", "lang", lang, "available", i18n.Languages(), "fallback", i18n.DefaultLang)
	}

	a := &app{v: v, out: cmd.OutOrStdout()}
	a.printer = i18n.NewPrinter(lang)
	a.prompter = console.NewPrompter(cmd.InOrStdin(), a.out, a.printer)
	a.display = console.NewDisplay(a.out, a.printer, v.GetBool("no-color"))

	a.lib = quiz.NewLibrary(v.GetString("words-dir"))
	if f := quiz.Format(strings.ToLower(v.GetString("format"))); f == quiz.FormatYAML {
		a.lib.Format = f
	}

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.db = db

	st, err := a.snapshotStorage(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.checkpoints = checkpoint.New(st)

	slog.Debug("drill ready",
		"words_dir", a.lib.Dir,
		"storage", v.GetString("storage"),
		"db", v.GetString("db"),
		"lang", lang,
	)
	return a, nil
}

func (a *app) snapshotStorage(ctx context.Context) (checkpoint.Storage, error) {
	switch backend := strings.ToLower(a.v.GetString("storage")); backend {
	case "", "file":
		return snapshot.NewFileStore(a.lib.Dir), nil
	case "sqlite":
		return a.db, nil
	case "memory":
		return snapshot.NewMemoryStore(), nil
	case "redis":
		a.redis = redis.NewClient(&redis.Options{
			Addr:     a.v.GetString("redis-addr"),
			Password: a.v.GetString("redis-password"),
			DB:       a.v.GetInt("redis-db"),
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", a.v.GetString("redis-addr"), err)
		}
		return snapshot.NewRedisStore(a.redis, a.v.GetString("redis-prefix"), a.v.GetDuration("redis-ttl")), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Warn("close redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			slog.Warn("close database", "error", err)
		}
	}
}

// withApp builds the app for a RunE and closes it afterwards.
func withApp(run func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		err = run(ctx, a, args)
		switch {
		case errors.Is(err, io.EOF):
			// End of input ends the dialogue quietly.
			return nil
		case errors.Is(err, console.ErrTooManyAttempts):
			a.display.Warn(a.printer.T("TooManyAttempts"))
		}
		return err
	}
}
