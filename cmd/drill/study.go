package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pavelanni/drill/internal/checkpoint"
	"github.com/pavelanni/drill/internal/grouper"
	"github.com/pavelanni/drill/internal/model"
	"github.com/pavelanni/drill/internal/quiz"
	"github.com/pavelanni/drill/internal/scheduler"
	"github.com/pavelanni/drill/internal/snapshot"
)

func studyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "study <quiz>",
		Short: "Study a quiz, all quizzes (all, allverbs) or a list (\"a, b\")",
		Args:  cobra.MinimumNArgs(1),
		RunE:  withApp(runStudy),
	}
	addStorageFlags(cmd.Flags())
	addStudyFlags(cmd.Flags())
	return cmd
}

func resumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume <name>",
		Short: "Continue a session saved with saveas",
		Args:  cobra.MinimumNArgs(1),
		RunE:  withApp(runResume),
	}
	addStorageFlags(cmd.Flags())
	addStudyFlags(cmd.Flags())
	return cmd
}

func runStudy(ctx context.Context, a *app, args []string) error {
	selection := strings.Join(args, " ")
	if quiz.IsSnapshotName(selection) {
		return a.resumeLoop(ctx, snapshotName(selection))
	}
	cfg, err := a.studyConfig()
	if err != nil {
		return err
	}
	return a.studyLoop(ctx, selection, cfg)
}

func runResume(ctx context.Context, a *app, args []string) error {
	return a.resumeLoop(ctx, snapshotName(strings.Join(args, " ")))
}

// snapshotName accepts both "later" and the file name "xx-inprogress-later".
func snapshotName(s string) string {
	return strings.TrimPrefix(quiz.NormalizeName(s), snapshot.FilePrefix)
}

func (a *app) studyConfig() (model.StudyConfig, error) {
	p := model.Policy(strings.ToLower(a.v.GetString("policy")))
	if !p.IsValid() {
		return model.StudyConfig{}, fmt.Errorf("unknown policy %q (want adaptive or linear)", p)
	}
	return model.StudyConfig{
		Policy:        p,
		Shuffle:       a.v.GetBool("shuffle"),
		Reverse:       a.v.GetBool("reverse"),
		MasteryWindow: a.v.GetInt("mastery-window"),
		OnlyVerbs:     a.v.GetBool("only-verbs"),
	}, nil
}

// studyLoop runs source until the learner stops asking for another round.
func (a *app) studyLoop(ctx context.Context, source string, cfg model.StudyConfig) error {
	for {
		a.display.Notice(a.printer.T("QuizStarting"))
		o, err := a.study(ctx, source, cfg)
		if err != nil {
			return err
		}
		if o.State != scheduler.StateFinished {
			return nil
		}
		again, err := a.prompter.YesNo(ctx, a.printer.T("AskStudyAgain"))
		if err != nil || !again {
			return err
		}
	}
}

// resumeLoop continues a saved session. Once it is finished the learner may
// start the quiz it came from again.
func (a *app) resumeLoop(ctx context.Context, name string) error {
	a.display.Notice(a.printer.T("QuizStarting"))
	o, cp, err := a.resume(ctx, name)
	if err != nil || o.State != scheduler.StateFinished || cp.Source == "" {
		return err
	}
	again, err := a.prompter.YesNo(ctx, a.printer.T("AskStudyAgain"))
	if err != nil || !again {
		return err
	}
	return a.studyLoop(ctx, cp.Source, model.StudyConfig{
		Policy:        cp.Policy,
		Shuffle:       true,
		Reverse:       cp.Reverse,
		MasteryWindow: a.v.GetInt("mastery-window"),
	})
}

func (a *app) schedulerConfig(window int) scheduler.Config {
	return scheduler.Config{
		MasteryWindow: window,
		CaseSensitive: a.v.GetBool("case-sensitive"),
	}
}

func (a *app) study(ctx context.Context, source string, cfg model.StudyConfig) (scheduler.Outcome, error) {
	sel, err := a.lib.Load(source)
	if err != nil {
		return scheduler.Outcome{}, err
	}
	items := grouper.Group(sel.Words, grouper.Options{
		Reverse:   cfg.Reverse,
		OnlyVerbs: cfg.OnlyVerbs || sel.OnlyVerbs,
	})

	sc := a.schedulerConfig(cfg.MasteryWindow)
	sc.Policy = cfg.Policy
	sc.Shuffle = cfg.Shuffle
	sc.Source = sel.Name
	sc.Reverse = cfg.Reverse
	sch, err := scheduler.New(sc, items)
	if err != nil {
		return scheduler.Outcome{}, err
	}

	slog.Info("session starting", "quiz", sel.Name, "items", len(items), "policy", cfg.Policy)
	return a.drive(ctx, sch, runInfo{
		quiz:   sel.Name,
		policy: cfg.Policy,
		stats:  !sel.Merged && cfg.Policy == model.PolicyLinear,
	})
}

func (a *app) resume(ctx context.Context, name string) (scheduler.Outcome, model.Checkpoint, error) {
	cp, err := a.checkpoints.Load(ctx, name)
	if err != nil {
		return scheduler.Outcome{}, cp, err
	}
	sch, err := scheduler.Restore(a.schedulerConfig(a.v.GetInt("mastery-window")), cp)
	if err != nil {
		return scheduler.Outcome{}, cp, err
	}

	a.display.Notice(a.printer.Td("Resuming", map[string]any{"Name": name, "Left": len(cp.Queue) - cp.Index}))
	o, err := a.drive(ctx, sch, runInfo{
		quiz:         cp.Source,
		policy:       cp.Policy,
		resumedFrom:  name,
		baseAttempts: cp.Attempts,
		baseCorrect:  cp.Correct,
	})
	if o.State == scheduler.StateFinished {
		if derr := a.checkpoints.Delete(context.WithoutCancel(ctx), name); derr != nil && !errors.Is(derr, checkpoint.ErrNotFound) {
			slog.Warn("finished checkpoint not removed", "name", name, "error", derr)
		}
	}
	return o, cp, err
}

// runInfo describes a session for the session log.
type runInfo struct {
	quiz   string
	policy model.Policy
	// stats updates the quiz file's lifetime statistics when the run finishes.
	stats       bool
	resumedFrom string

	// Counters carried over from the checkpoint, not part of this run.
	baseAttempts int
	baseCorrect  int
}

// drive runs sch against the terminal and records the result, whatever the
// outcome.
func (a *app) drive(ctx context.Context, sch *scheduler.Scheduler, info runInfo) (scheduler.Outcome, error) {
	started := time.Now()
	o, err := sch.Run(ctx, a.prompter, a.display, a.checkpoints)

	rec := model.SessionResult{
		Quiz:       info.quiz,
		Policy:     info.policy,
		Status:     model.StatusAborted,
		StartedAt:  started,
		EndedAt:    time.Now(),
		Items:      o.Items,
		Distinct:   o.Distinct,
		Attempts:   o.Attempts - info.baseAttempts,
		Correct:    o.Correct - info.baseCorrect,
		Checkpoint: info.resumedFrom,
	}
	switch o.State {
	case scheduler.StateFinished:
		rec.Status = model.StatusFinished
	case scheduler.StateSuspended:
		rec.Status = model.StatusSuspended
		rec.Checkpoint = o.SavedAs
	}

	// The log is written even when ctx was cancelled by an interrupt.
	logCtx := context.WithoutCancel(ctx)
	if id, lerr := a.db.RecordSession(logCtx, rec); lerr != nil {
		slog.Warn("session not logged", "error", lerr)
	} else {
		slog.Info("session logged", "id", id, "status", rec.Status, "attempts", rec.Attempts, "correct", rec.Correct)
	}
	if lerr := a.db.RememberQuiz(logCtx, info.quiz, string(info.policy)); lerr != nil {
		slog.Warn("last quiz not remembered", "error", lerr)
	}
	if info.stats && rec.Status == model.StatusFinished {
		if serr := a.lib.RecordRun(info.quiz, o.Items, o.Correct); serr != nil {
			slog.Warn("quiz statistics not updated", "quiz", info.quiz, "error", serr)
		}
	}
	return o, err
}
