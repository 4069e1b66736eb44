package main

import (
	"context"
	"errors"
	"strings"

	"github.com/pavelanni/drill/internal/console"
	"github.com/pavelanni/drill/internal/model"
	"github.com/pavelanni/drill/internal/quiz"
)

// maxSetupAttempts bounds how often the setup dialogue starts over after a
// missing or clashing quiz name.
const maxSetupAttempts = 5

// runWizard is the interactive setup: pick, edit or create a quiz, choose
// the mode and study it.
func runWizard(ctx context.Context, a *app, _ []string) error {
	source, resumeName, err := a.chooseQuiz(ctx)
	if err != nil {
		return err
	}
	if resumeName != "" {
		return a.resumeLoop(ctx, resumeName)
	}

	cfg, err := a.studyConfig()
	if err != nil {
		return err
	}
	smart, err := a.prompter.YesNo(ctx, a.printer.T("AskSmart"))
	if err != nil {
		return err
	}
	if cfg.Shuffle, err = a.prompter.YesNo(ctx, a.printer.T("AskRandom")); err != nil {
		return err
	}
	if cfg.Reverse, err = a.prompter.YesNo(ctx, a.printer.T("AskReverse")); err != nil {
		return err
	}
	cfg.Policy = model.PolicyLinear
	if smart {
		cfg.Policy = model.PolicyAdaptive
	}
	return a.studyLoop(ctx, source, cfg)
}

// chooseQuiz returns either a quiz selection to study or the name of a
// saved session to resume.
func (a *app) chooseQuiz(ctx context.Context) (source, resume string, err error) {
	if last, _, err := a.db.LastQuiz(ctx); err == nil && last != "" {
		a.display.Notice(a.printer.Td("LastQuiz", map[string]any{"Quiz": last}))
	}

	for range maxSetupAttempts {
		existing, err := a.prompter.YesNo(ctx, a.printer.T("AskStudyExisting"))
		if err != nil {
			return "", "", err
		}
		if existing {
			name, err := a.prompter.Ask(ctx, a.printer.T("AskQuizName"))
			if err != nil {
				return "", "", err
			}
			name = strings.TrimSpace(name)
			if quiz.IsSnapshotName(name) {
				return "", snapshotName(name), nil
			}
			if _, err := a.lib.Load(name); err != nil {
				a.restart(err)
				continue
			}
			return name, "", nil
		}

		edit, err := a.prompter.YesNo(ctx, a.printer.T("AskEditExisting"))
		if err != nil {
			return "", "", err
		}
		var name string
		if edit {
			name, err = a.prompter.Ask(ctx, a.printer.T("AskEditName"))
			if err != nil {
				return "", "", err
			}
			if !a.lib.Exists(name) {
				a.restart(quiz.ErrNotFound)
				continue
			}
		} else if name, err = a.createQuiz(ctx); err != nil {
			return "", "", err
		}
		if err := a.enterWords(ctx, name); err != nil {
			return "", "", err
		}
		return quiz.NormalizeName(name), "", nil
	}
	return "", "", console.ErrTooManyAttempts
}

func (a *app) restart(err error) {
	if errors.Is(err, quiz.ErrNotFound) {
		a.display.Notice(a.printer.T("QuizNotFound"))
	} else {
		a.display.Warn(err.Error())
	}
	a.display.Warn(a.printer.T("Restarting"))
}

// createQuiz asks for a new quiz name until one is free.
func (a *app) createQuiz(ctx context.Context) (string, error) {
	for range maxSetupAttempts {
		name, err := a.prompter.Ask(ctx, a.printer.T("AskNewName"))
		if err != nil {
			return "", err
		}
		_, err = a.lib.Create(name)
		switch {
		case err == nil:
			return quiz.NormalizeName(name), nil
		case errors.Is(err, quiz.ErrExists):
			a.display.Warn(a.printer.T("QuizExists"))
		case errors.Is(err, quiz.ErrInvalidName):
			a.display.Warn(err.Error())
		default:
			return "", err
		}
	}
	return "", console.ErrTooManyAttempts
}

// enterWords adds words to the quiz until the learner enters an empty word.
// Each pair is confirmed by pressing enter.
func (a *app) enterWords(ctx context.Context, name string) error {
	for {
		word, err := a.prompter.Ask(ctx, a.printer.T("EnterWord"))
		if err != nil {
			return err
		}
		if word = strings.TrimSpace(word); word == "" {
			return nil
		}
		translation, err := a.prompter.Ask(ctx, a.printer.T("EnterTranslation"))
		if err != nil {
			return err
		}
		if translation = strings.TrimSpace(translation); translation == "" {
			continue
		}
		ok, err := a.prompter.Confirm(ctx, a.printer.T("PressEnterToAccept"))
		if err != nil {
			return err
		}
		if !ok {
			a.display.Notice(a.printer.T("WordNotSaved"))
			continue
		}
		if err := a.lib.AddWord(name, word, translation); err != nil {
			return err
		}
	}
}
