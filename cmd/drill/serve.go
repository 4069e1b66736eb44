package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/pavelanni/drill/internal/handler"
	"github.com/pavelanni/drill/internal/i18n"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve quizzes, the session log and saved sessions as JSON",
		Args:  cobra.NoArgs,
		RunE:  withApp(runServe),
	}
	addStorageFlags(cmd.Flags())
	f := cmd.Flags()
	f.String("addr", ":8080", "Listen address")
	f.String("base-path", "/api", "URL path prefix for the API")
	return cmd
}

// newRouter mounts the API under basePath.
func newRouter(a *app, basePath string) http.Handler {
	h := handler.New(a.lib, a.db, a.checkpoints)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(i18n.Middleware(a.v.GetString("lang")))

	if basePath != "" {
		r.Route(basePath, h.Routes)
	} else {
		h.Routes(r)
	}
	return r
}

func runServe(ctx context.Context, a *app, _ []string) error {
	basePath := strings.TrimRight(a.v.GetString("base-path"), "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	srv := &http.Server{
		Addr:              a.v.GetString("addr"),
		Handler:           newRouter(a, basePath),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"addr", srv.Addr,
			"base_path", basePath,
			"words_dir", a.lib.Dir,
			"storage", a.v.GetString("storage"),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	slog.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
