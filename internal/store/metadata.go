package store

import (
	"context"
	"database/sql"
	"errors"
)

// Metadata keys.
const (
	KeyLastQuiz   = "last_quiz"
	KeyLastPolicy = "last_policy"
)

// SetMetadata upserts a key-value pair in the metadata table.
func (s *Store) SetMetadata(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// GetMetadata returns the value for a metadata key.
// Returns empty string and nil error if the key is missing.
func (s *Store) GetMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// RememberQuiz stores the quiz and policy of the latest session so the
// interactive setup can offer them again.
func (s *Store) RememberQuiz(ctx context.Context, quiz, policy string) error {
	pairs := []struct{ k, v string }{
		{KeyLastQuiz, quiz},
		{KeyLastPolicy, policy},
	}
	for _, p := range pairs {
		if err := s.SetMetadata(ctx, p.k, p.v); err != nil {
			return err
		}
	}
	return nil
}

// LastQuiz returns the quiz and policy stored by RememberQuiz.
func (s *Store) LastQuiz(ctx context.Context) (quiz, policy string, err error) {
	if quiz, err = s.GetMetadata(ctx, KeyLastQuiz); err != nil {
		return "", "", err
	}
	if policy, err = s.GetMetadata(ctx, KeyLastPolicy); err != nil {
		return "", "", err
	}
	return quiz, policy, nil
}
