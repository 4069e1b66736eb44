package model

import "time"

// SessionExport is the top-level JSON structure written by `drill export`.
type SessionExport struct {
	ExportedAt time.Time       `json:"exported_at"`
	Quiz       string          `json:"quiz,omitempty"`
	Sessions   []SessionResult `json:"sessions"`
	Totals     ExportTotals    `json:"totals"`
}

// ExportTotals aggregates every exported session.
type ExportTotals struct {
	Sessions   int     `json:"sessions"`
	Finished   int     `json:"finished"`
	Attempts   int     `json:"attempts"`
	Correct    int     `json:"correct"`
	AccuracyPc float64 `json:"accuracy_pct"`
}

// Summarize builds the totals for a list of sessions.
func Summarize(sessions []SessionResult) ExportTotals {
	var t ExportTotals
	for _, s := range sessions {
		t.Sessions++
		if s.Status == StatusFinished {
			t.Finished++
		}
		t.Attempts += s.Attempts
		t.Correct += s.Correct
	}
	if t.Attempts > 0 {
		t.AccuracyPc = float64(t.Correct) * 100 / float64(t.Attempts)
	}
	return t
}

// QuizTotals is one row of `drill stats`: every logged session of a quiz
// folded together.
type QuizTotals struct {
	Quiz        string    `json:"quiz"`
	Sessions    int       `json:"sessions"`
	Finished    int       `json:"finished"`
	Attempts    int       `json:"attempts"`
	Correct     int       `json:"correct"`
	LastStudied time.Time `json:"last_studied"`
}

// Accuracy returns the share of correct attempts in percent.
func (q QuizTotals) Accuracy() float64 {
	if q.Attempts == 0 {
		return 0
	}
	return float64(q.Correct) * 100 / float64(q.Attempts)
}
