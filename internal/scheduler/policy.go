package scheduler

import (
	"math/rand/v2"

	"github.com/pavelanni/drill/internal/history"
)

// Action is what happens to an item after an attempt.
type Action int

const (
	// Defer appends the item to the end of the queue.
	Defer Action = iota
	// Reinsert puts the item back Offset positions after the current index.
	Reinsert
	// Master drops the item for the rest of the session.
	Master
)

func (a Action) String() string {
	switch a {
	case Defer:
		return "defer"
	case Reinsert:
		return "reinsert"
	case Master:
		return "master"
	}
	return "unknown"
}

// Decision is the outcome of the re-insertion policy.
type Decision struct {
	Action Action
	Offset int
}

// Decide applies the adaptive policy to record, the item's full history
// including the attempt just made. window is the mastery window and queueLen
// the current queue length.
func Decide(record []bool, window, queueLen int, rng *rand.Rand) Decision {
	recent := history.Tail(record, window)
	correct := history.CountTrue(recent)

	if len(record) == 1 && correct == 1 {
		return Decision{Action: Defer}
	}
	if len(record) > window-1 && history.CountTrue(history.Tail(record, window+1)) == window {
		return Decision{Action: Master}
	}

	lo, hi, ok := OffsetRange(Percent(recent), queueLen)
	if !ok {
		return Decision{Action: Master}
	}
	return Decision{Action: Reinsert, Offset: lo + rng.IntN(hi-lo+1)}
}

// Percent returns the share of correct attempts in recent, 0 to 100.
func Percent(recent []bool) float64 {
	if len(recent) == 0 {
		return 0
	}
	return float64(history.CountTrue(recent)) * 100 / float64(len(recent))
}

// OffsetRange returns the inclusive offset bounds for a success percentage.
// ok is false at 100%, where the item is not re-inserted.
func OffsetRange(percent float64, queueLen int) (lo, hi int, ok bool) {
	switch {
	case percent < 20:
		return 2, 5, true
	case percent < 40:
		return 2, 6, true
	case percent <= 50:
		return 3, 7, true
	case percent < 100:
		return max(queueLen/3, 0), queueLen, true
	}
	return 0, 0, false
}
