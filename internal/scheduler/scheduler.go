// Package scheduler runs a drill session: it asks the item at the current
// index, records the result and decides where the item re-enters the queue.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/pavelanni/drill/internal/history"
	"github.com/pavelanni/drill/internal/matcher"
	"github.com/pavelanni/drill/internal/model"
)

// Sentinel errors for the scheduler package.
var (
	ErrInvalidConfig     = errors.New("scheduler: invalid config")
	ErrInvalidCheckpoint = errors.New("scheduler: invalid checkpoint")
	ErrNotRunnable       = errors.New("scheduler: session already ended")
	ErrNoSaver           = errors.New("scheduler: no checkpoint saver configured")
)

// Outcome summarizes a Run.
type Outcome struct {
	State    State
	Elapsed  time.Duration
	Attempts int
	Correct  int
	Distinct int
	Items    int
	SavedAs  string
}

// Scheduler owns the queue, the progress cache and the live history of one
// session. It is not safe for concurrent use.
type Scheduler struct {
	cfg     Config
	matcher matcher.Matcher

	queue   []model.Entry
	index   int
	cache   []string
	cached  map[string]struct{}
	history *history.Tracker

	total     int
	attempts  int
	correct   int
	startedAt time.Time

	// resumed suppresses the progress cache update for the first item asked
	// after Restore.
	resumed bool
	state   State
}

// New creates a scheduler over items. items is copied.
func New(cfg Config, items []model.Entry) (*Scheduler, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	queue := make([]model.Entry, len(items))
	for i, e := range items {
		queue[i] = e.Clone()
	}
	if cfg.Shuffle {
		cfg.Rand.Shuffle(len(queue), func(i, j int) {
			queue[i], queue[j] = queue[j], queue[i]
		})
	}
	return &Scheduler{
		cfg:       cfg,
		matcher:   matcher.Matcher{CaseSensitive: cfg.CaseSensitive},
		queue:     queue,
		cached:    make(map[string]struct{}),
		history:   history.New(nil),
		total:     len(items),
		startedAt: cfg.Now(),
		state:     StateReady,
	}, nil
}

// Restore rebuilds a scheduler from a checkpoint. The policy, source,
// direction and mastery window stored in cp take precedence over cfg.
func Restore(cfg Config, cp model.Checkpoint) (*Scheduler, error) {
	if cp.Version > model.CheckpointVersion {
		return nil, fmt.Errorf("%w: version %d is newer than %d", ErrInvalidCheckpoint, cp.Version, model.CheckpointVersion)
	}
	if cp.Index < 0 || cp.Index > len(cp.Queue) {
		return nil, fmt.Errorf("%w: index %d outside queue of %d", ErrInvalidCheckpoint, cp.Index, len(cp.Queue))
	}
	if cp.Policy != "" {
		cfg.Policy = cp.Policy
	}
	cfg.Source = cp.Source
	cfg.Reverse = cp.Reverse
	if cp.MasteryWindow > 0 {
		cfg.MasteryWindow = cp.MasteryWindow
	}
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	cp = cp.Clone()
	cached := make(map[string]struct{}, len(cp.Cache))
	for _, k := range cp.Cache {
		cached[k] = struct{}{}
	}
	return &Scheduler{
		cfg:       cfg,
		matcher:   matcher.Matcher{CaseSensitive: cfg.CaseSensitive},
		queue:     cp.Queue,
		index:     cp.Index,
		cache:     cp.Cache,
		cached:    cached,
		history:   history.New(cp.History),
		total:     cp.Total,
		attempts:  cp.Attempts,
		correct:   cp.Correct,
		startedAt: cp.StartedAt,
		resumed:   true,
		state:     StateReady,
	}, nil
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State { return s.state }

// Index returns the position of the next item to ask.
func (s *Scheduler) Index() int { return s.index }

// Queue returns a copy of the active queue, including items already asked.
func (s *Scheduler) Queue() []model.Entry { return slices.Clone(s.queue) }

// History returns a copy of the attempt history.
func (s *Scheduler) History() map[string][]bool { return s.history.Snapshot() }

// Distinct returns the number of distinct items seen so far.
func (s *Scheduler) Distinct() int { return len(s.cache) }

// Checkpoint returns a snapshot of the full session state.
func (s *Scheduler) Checkpoint() model.Checkpoint {
	cp := model.Checkpoint{
		Version:   model.CheckpointVersion,
		Source:    s.cfg.Source,
		Policy:    s.cfg.Policy,
		Reverse:   s.cfg.Reverse,
		StartedAt: s.startedAt,

		MasteryWindow: s.cfg.MasteryWindow,
		SavedAt:   s.cfg.Now(),
		Index:     s.index,
		Queue:     s.queue,
		Cache:     s.cache,
		Total:     s.total,
		Attempts:  s.attempts,
		Correct:   s.correct,
		History:   s.history.Snapshot(),
	}
	return cp.Clone()
}

// Run asks items until the queue is exhausted, the learner saves the session
// or ctx is cancelled. A nil saver turns save commands into SaveFailed events.
func (s *Scheduler) Run(ctx context.Context, in Prompter, out Display, saver Saver) (Outcome, error) {
	if s.state.Terminal() {
		return s.outcome(""), ErrNotRunnable
	}
	s.state = StateRunning
	slog.Debug("session running", "source", s.cfg.Source, "items", s.total, "index", s.index, "queue", len(s.queue))

	for s.index < len(s.queue) {
		if err := ctx.Err(); err != nil {
			return s.outcome(""), err
		}

		item := s.queue[s.index]
		progress, fresh := s.progress(item)
		answer, err := in.NextAnswer(ctx, Prompt{Text: item.Prompt, Progress: progress, Total: s.total})
		if err != nil {
			return s.outcome(""), fmt.Errorf("read answer: %w", err)
		}

		cmd := ParseCommand(answer)
		switch cmd.Kind {
		case CommandSave:
			if err := s.save(ctx, saver, cmd.Name, item, fresh); err != nil {
				slog.Warn("checkpoint not saved", "name", cmd.Name, "error", err)
				out.Show(SaveFailed{Name: cmd.Name, Err: err})
				continue
			}
			s.state = StateSuspended
			out.Show(Saved{Name: cmd.Name})
			return s.outcome(cmd.Name), nil
		case CommandSkip:
			out.Show(Skipped{Entry: item})
			s.index++
			continue
		}

		if fresh {
			s.remember(item)
		}
		s.attempt(item, answer, out)
		s.index++
	}

	s.state = StateFinished
	o := s.outcome("")
	out.Show(Finished{Elapsed: o.Elapsed, CorrectCount: s.correct, TotalCount: s.attempts, Items: s.total})
	return o, nil
}

// progress returns the distinct-progress number to show for item and whether
// item is new to the cache. The number is 0, shown as a placeholder, when the
// item was seen before or is the first one asked after a resume. The cache
// itself only changes in remember.
func (s *Scheduler) progress(item model.Entry) (int, bool) {
	if s.resumed {
		s.resumed = false
		return 0, false
	}
	if _, ok := s.cached[item.CacheKey()]; ok {
		return 0, false
	}
	return len(s.cache) + 1, true
}

func (s *Scheduler) remember(item model.Entry) {
	key := item.CacheKey()
	s.cached[key] = struct{}{}
	s.cache = append(s.cache, key)
}

// save writes a checkpoint positioned on item. A fresh item is part of the
// saved cache; the live cache only takes it once the write succeeded.
func (s *Scheduler) save(ctx context.Context, saver Saver, name string, item model.Entry, fresh bool) error {
	if saver == nil {
		return ErrNoSaver
	}
	cp := s.Checkpoint()
	if fresh {
		cp.Cache = append(cp.Cache, item.CacheKey())
	}
	if err := saver.Save(ctx, name, cp); err != nil {
		return err
	}
	if fresh {
		s.remember(item)
	}
	return nil
}

func (s *Scheduler) attempt(item model.Entry, answer string, out Display) {
	ok := s.matcher.MatchAny(answer, item.Solutions)
	s.history.Record(item.Prompt, ok)
	s.attempts++
	if ok {
		s.correct++
		out.Show(Correct{Entry: item})
	} else {
		out.Show(Incorrect{Entry: item, Answer: answer, Expected: item.Solutions})
	}

	if s.cfg.Policy == model.PolicyLinear {
		return
	}

	d := Decide(s.history.Get(item.Prompt), s.cfg.MasteryWindow, len(s.queue), s.cfg.Rand)
	switch d.Action {
	case Defer:
		s.queue = append(s.queue, item)
	case Reinsert:
		pos := min(s.index+d.Offset, len(s.queue))
		s.queue = slices.Insert(s.queue, pos, item)
	case Master:
		slog.Debug("item mastered", "prompt", item.Prompt, "attempts", s.history.Len(item.Prompt))
	}
}

func (s *Scheduler) outcome(savedAs string) Outcome {
	return Outcome{
		State:    s.state,
		Elapsed:  s.cfg.Now().Sub(s.startedAt),
		Attempts: s.attempts,
		Correct:  s.correct,
		Distinct: len(s.cache),
		Items:    s.total,
		SavedAs:  savedAs,
	}
}
