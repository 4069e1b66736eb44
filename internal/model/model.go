package model

import (
	"strings"
	"time"
)

// Entry is one schedulable quiz item: the text shown to the learner and every
// accepted solution in first-seen order.
type Entry struct {
	Prompt    string   `json:"prompt"`
	Solutions []string `json:"solutions"`
}

// CacheKey identifies the entry in the distinct-progress cache.
func (e Entry) CacheKey() string {
	return e.Prompt + "--" + strings.Join(e.Solutions, "-")
}

// Clone returns a copy that shares no memory with e.
func (e Entry) Clone() Entry {
	return Entry{Prompt: e.Prompt, Solutions: append([]string(nil), e.Solutions...)}
}

// RawEntry is a single prompt/answer pair as written in a quiz file.
type RawEntry struct {
	Prompt string
	Answer string
}

// Policy selects how the scheduler treats an item after an attempt.
type Policy string

const (
	// PolicyAdaptive re-inserts items based on their recent history.
	PolicyAdaptive Policy = "adaptive"
	// PolicyLinear asks every item exactly once.
	PolicyLinear Policy = "linear"
)

// IsValid reports whether p is a known policy.
func (p Policy) IsValid() bool {
	return p == PolicyAdaptive || p == PolicyLinear
}

// QuizStats holds the lifetime statistics stored inside a quiz file.
type QuizStats struct {
	Attempts        int `json:"attempts" yaml:"attempts"`
	WordAttempts    int `json:"word_attempts" yaml:"word_attempts"`
	WordSuccesses   int `json:"word_successes" yaml:"word_successes"`
	AllCorrectCount int `json:"all_correct_count" yaml:"all_correct_count"`
}

// QuizFile is the on-disk representation of a quiz.
type QuizFile struct {
	CreatedAt string    `json:"created_at" yaml:"created_at"`
	Stats     QuizStats `json:"stats" yaml:"stats"`
	Words     Words     `json:"words" yaml:"words"`
}

// CheckpointVersion is the current snapshot layout version.
const CheckpointVersion = 1

// Checkpoint is a self-contained snapshot of a scheduler. It is the field set
// every snapshot backend persists.
type Checkpoint struct {
	Version   int               `json:"version"`
	Source    string            `json:"source,omitempty"`
	Policy    Policy            `json:"policy"`
	Reverse   bool              `json:"reverse"`
	StartedAt time.Time         `json:"started_at"`
	SavedAt   time.Time         `json:"saved_at"`
	Index     int               `json:"index"`
	Queue     []Entry           `json:"queue"`
	Cache     []string          `json:"cache"`
	Total     int               `json:"total"`
	Attempts  int               `json:"attempts"`
	Correct   int               `json:"correct"`
	History   map[string][]bool `json:"history"`

	// MasteryWindow is the window the session was started with. Zero in
	// snapshots written before it was recorded.
	MasteryWindow int `json:"mastery_window,omitempty"`
}

// Clone returns a deep copy of the checkpoint.
func (c Checkpoint) Clone() Checkpoint {
	out := c
	out.Queue = make([]Entry, len(c.Queue))
	for i, e := range c.Queue {
		out.Queue[i] = e.Clone()
	}
	out.Cache = append([]string(nil), c.Cache...)
	out.History = make(map[string][]bool, len(c.History))
	for k, v := range c.History {
		out.History[k] = append([]bool(nil), v...)
	}
	return out
}

// SessionStatus represents how a drill session ended.
type SessionStatus string

const (
	StatusFinished  SessionStatus = "finished"
	StatusSuspended SessionStatus = "suspended"
	StatusAborted   SessionStatus = "aborted"
)

// SessionResult is one logged drill session.
type SessionResult struct {
	ID         string        `json:"id"`
	Quiz       string        `json:"quiz"`
	Policy     Policy        `json:"policy"`
	Status     SessionStatus `json:"status"`
	StartedAt  time.Time     `json:"started_at"`
	EndedAt    time.Time     `json:"ended_at"`
	Items      int           `json:"items"`
	Distinct   int           `json:"distinct"`
	Attempts   int           `json:"attempts"`
	Correct    int           `json:"correct"`
	Checkpoint string        `json:"checkpoint,omitempty"`
}

// Accuracy returns the share of correct attempts in percent.
func (r SessionResult) Accuracy() float64 {
	if r.Attempts == 0 {
		return 0
	}
	return float64(r.Correct) * 100 / float64(r.Attempts)
}

// StudyConfig holds runtime drill parameters set via CLI flags or config.
type StudyConfig struct {
	Policy        Policy
	Shuffle       bool
	Reverse       bool
	MasteryWindow int
	OnlyVerbs     bool
}
