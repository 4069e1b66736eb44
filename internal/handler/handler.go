// Package handler serves the quiz library, the session log and saved sessions
// as a read-mostly JSON API.
package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/drill/internal/checkpoint"
	"github.com/pavelanni/drill/internal/i18n"
	"github.com/pavelanni/drill/internal/model"
	"github.com/pavelanni/drill/internal/quiz"
)

// DefaultLimit caps GET /sessions when no limit is given.
const DefaultLimit = 50

// maxBody bounds request bodies of POST /quizzes/{name}/words.
const maxBody = 64 << 10

// Sessions is the session log the API reports on.
type Sessions interface {
	ListSessions(ctx context.Context, quiz string, limit int) ([]model.SessionResult, error)
	GetSession(ctx context.Context, id string) (model.SessionResult, error)
	QuizStats(ctx context.Context) ([]model.QuizTotals, error)
	ExportSessions(ctx context.Context, quiz string) (model.SessionExport, error)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	lib         *quiz.Library
	sessions    Sessions
	checkpoints *checkpoint.Manager
}

// New creates a new Handler.
func New(lib *quiz.Library, sessions Sessions, checkpoints *checkpoint.Manager) *Handler {
	return &Handler{lib: lib, sessions: sessions, checkpoints: checkpoints}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/quizzes", h.handleListQuizzes)
	r.Get("/quizzes/{name}", h.handleGetQuiz)
	r.Post("/quizzes/{name}/words", h.handleAddWord)
	r.Get("/sessions", h.handleListSessions)
	r.Get("/sessions/{id}", h.handleGetSession)
	r.Get("/stats", h.handleStats)
	r.Get("/export", h.handleExport)
	r.Get("/snapshots", h.handleListSnapshots)
	r.Get("/snapshots/{name}", h.handleGetSnapshot)
}

// QuizSummary is one entry of GET /quizzes.
type QuizSummary struct {
	Name  string          `json:"name"`
	Words int             `json:"words"`
	Label string          `json:"label"`
	Stats model.QuizStats `json:"stats"`
}

func (h *Handler) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	names, err := h.lib.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	summaries := make([]QuizSummary, 0, len(names))
	for _, name := range names {
		qf, err := h.lib.Read(name)
		if err != nil {
			slog.Warn("unreadable quiz", "quiz", name, "error", err)
			continue
		}
		summaries = append(summaries, QuizSummary{
			Name:  name,
			Words: len(qf.Words),
			Label: i18n.Tp(r.Context(), "WordCount", len(qf.Words)),
			Stats: qf.Stats,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	qf, err := h.lib.Read(chi.URLParam(r, "name"))
	if errors.Is(err, quiz.ErrNotFound) {
		writeError(w, http.StatusNotFound, i18n.T(r.Context(), "QuizNotFound"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, qf)
}

// WordRequest is the body of POST /quizzes/{name}/words.
type WordRequest struct {
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

func (h *Handler) handleAddWord(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	var req WordRequest
	if err := json.Unmarshal(data, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" || strings.TrimSpace(req.Answer) == "" {
		writeError(w, http.StatusBadRequest, "prompt and answer required")
		return
	}

	err = h.lib.AddWord(name, req.Prompt, req.Answer)
	if errors.Is(err, quiz.ErrNotFound) {
		writeError(w, http.StatusNotFound, i18n.T(r.Context(), "QuizNotFound"))
		return
	}
	if err != nil {
		slog.Error("failed to add word", "quiz", name, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	slog.Info("word added", "quiz", name, "prompt", req.Prompt)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := DefaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	sessions, err := h.sessions.ListSessions(r.Context(), r.URL.Query().Get("quiz"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sessions == nil {
		sessions = []model.SessionResult{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.GetSession(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, i18n.T(r.Context(), "NoSessions"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	totals, err := h.sessions.QuizStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	export, err := h.sessions.ExportSessions(r.Context(), r.URL.Query().Get("quiz"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="drill-sessions.json"`)
	writeJSON(w, http.StatusOK, export)
}

func (h *Handler) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	names, err := h.checkpoints.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	cp, err := h.checkpoints.Load(r.Context(), chi.URLParam(r, "name"))
	switch {
	case errors.Is(err, checkpoint.ErrNotFound), errors.Is(err, checkpoint.ErrInvalidName):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
