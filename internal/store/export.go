package store

import (
	"context"
	"fmt"

	"github.com/pavelanni/drill/internal/model"
)

// ExportSessions builds the export document for one quiz, or for every quiz
// when quiz is empty. Sessions are oldest first.
func (s *Store) ExportSessions(ctx context.Context, quiz string) (model.SessionExport, error) {
	sessions, err := s.ListSessions(ctx, quiz, 0)
	if err != nil {
		return model.SessionExport{}, fmt.Errorf("list sessions: %w", err)
	}

	// ListSessions is newest first.
	ordered := make([]model.SessionResult, len(sessions))
	for i, r := range sessions {
		ordered[len(sessions)-1-i] = r
	}

	return model.SessionExport{
		ExportedAt: s.now(),
		Quiz:       quiz,
		Sessions:   ordered,
		Totals:     model.Summarize(ordered),
	}, nil
}
