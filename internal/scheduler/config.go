package scheduler

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pavelanni/drill/internal/model"
)

// DefaultMasteryWindow is the number of recent attempts the policy looks at.
const DefaultMasteryWindow = 4

// Config configures a Scheduler.
// Zero values produce the defaults noted on each field.
type Config struct {
	Policy        model.Policy     // "" → adaptive
	MasteryWindow int              // zero → DefaultMasteryWindow
	Shuffle       bool             // randomize the initial order
	CaseSensitive bool             // false folds case when matching
	Rand          *rand.Rand       // nil → time-seeded PCG
	Now           func() time.Time // nil → time.Now

	// Source and Reverse describe where the items came from. They are only
	// copied into checkpoints.
	Source  string
	Reverse bool
}

func (c Config) withDefaults() (Config, error) {
	if c.Policy == "" {
		c.Policy = model.PolicyAdaptive
	}
	if !c.Policy.IsValid() {
		return c, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, c.Policy)
	}
	if c.MasteryWindow == 0 {
		c.MasteryWindow = DefaultMasteryWindow
	}
	if c.MasteryWindow < 1 {
		return c, fmt.Errorf("%w: mastery window %d must be positive", ErrInvalidConfig, c.MasteryWindow)
	}
	if c.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		c.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c, nil
}
