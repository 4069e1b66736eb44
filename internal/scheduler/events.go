package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/pavelanni/drill/internal/model"
)

// Prompt is what the learner sees before typing an answer.
type Prompt struct {
	Text     string
	Progress int // distinct items seen so far; 0 shows the placeholder
	Total    int // number of grouped items
}

// ProgressLabel formats the progress counter, e.g. "(3/10)" or "(x/10)".
func (p Prompt) ProgressLabel() string {
	if p.Progress == 0 {
		return fmt.Sprintf("(x/%d)", p.Total)
	}
	return fmt.Sprintf("(%d/%d)", p.Progress, p.Total)
}

func (p Prompt) String() string {
	return p.ProgressLabel() + " " + p.Text + " = "
}

// Prompter supplies the learner's raw answers. NextAnswer blocks.
type Prompter interface {
	NextAnswer(ctx context.Context, p Prompt) (string, error)
}

// Saver persists a checkpoint under a name.
type Saver interface {
	Save(ctx context.Context, name string, cp model.Checkpoint) error
}

// Display receives the outcome of every step. It decides how to render them.
type Display interface {
	Show(e Event)
}

// Event is one of Correct, Incorrect, Skipped, Saved, SaveFailed or Finished.
type Event interface {
	isEvent()
}

// Correct is shown after a right answer.
type Correct struct {
	Entry model.Entry
}

// Incorrect is shown after a wrong answer.
type Incorrect struct {
	Entry    model.Entry
	Answer   string
	Expected []string
}

// Skipped is shown when the learner skips an item.
type Skipped struct {
	Entry model.Entry
}

// Saved is shown once the session was checkpointed under Name.
type Saved struct {
	Name string
}

// SaveFailed is shown when a checkpoint could not be written. The session
// continues with the same item.
type SaveFailed struct {
	Name string
	Err  error
}

// Finished is shown when the queue is exhausted.
type Finished struct {
	Elapsed      time.Duration
	CorrectCount int
	TotalCount   int
	Items        int
}

// ElapsedSeconds returns the session duration in seconds.
func (f Finished) ElapsedSeconds() float64 {
	return f.Elapsed.Seconds()
}

func (Correct) isEvent()    {}
func (Incorrect) isEvent()  {}
func (Skipped) isEvent()    {}
func (Saved) isEvent()      {}
func (SaveFailed) isEvent() {}
func (Finished) isEvent()   {}
