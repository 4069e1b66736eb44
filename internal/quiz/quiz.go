// Package quiz reads and writes quiz files in the words directory and turns
// a quiz selection into the raw pairs the grouper consumes.
//
// A quiz is a single file named <name>.json, <name>.yaml or <name>.yml.
// Files whose names start with "-" are kept out of the "all" selections and
// snapshot files (see snapshot.FilePrefix) are never treated as quizzes.
package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pavelanni/drill/internal/model"
	"github.com/pavelanni/drill/internal/snapshot"
)

var (
	// ErrNotFound is returned when no file exists for a quiz name.
	ErrNotFound = errors.New("quiz: not found")
	// ErrExists is returned by Create when the name is taken.
	ErrExists = errors.New("quiz: already exists")
	// ErrMultipleInProgress is returned when a list selection names a saved
	// session.
	ErrMultipleInProgress = errors.New("quiz: an in-progress session cannot be merged with other quizzes")
	// ErrInvalidName is returned for names that cannot be a quiz file.
	ErrInvalidName = errors.New("quiz: invalid name")
)

// Selection keywords understood by Load.
const (
	SelectAll      = "all"
	SelectAllVerbs = "allverbs"
	selectAllVerbs = "all_verbs"
	listSeparator  = ", "
)

// Format is the encoding used for newly created quizzes.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var extensions = []string{".json", ".yaml", ".yml"}

// Selection is the result of Load.
type Selection struct {
	// Name is the selection as given, lower-cased.
	Name string
	// Words holds every pair of the selected quizzes in file order. Later
	// quizzes override answers of prompts already seen.
	Words model.Words
	// Merged is true when more than one file may have contributed.
	Merged bool
	// OnlyVerbs is set by the "allverbs" selection.
	OnlyVerbs bool
}

// Library is a directory of quiz files.
type Library struct {
	Dir    string
	Format Format
	Now    func() time.Time
}

// NewLibrary returns a library over dir writing new quizzes as JSON.
func NewLibrary(dir string) *Library {
	return &Library{Dir: dir, Format: FormatJSON, Now: time.Now}
}

// NormalizeName lower-cases and trims a quiz name and drops a known file
// extension.
func NormalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, ext := range extensions {
		if strings.HasSuffix(n, ext) {
			return strings.TrimSuffix(n, ext)
		}
	}
	return n
}

func validName(n string) bool {
	return n != "" && !strings.ContainsAny(n, `/\`) && !strings.HasPrefix(n, ".")
}

// IsSnapshotName reports whether name refers to an in-progress snapshot file
// rather than a quiz.
func IsSnapshotName(name string) bool {
	return strings.HasPrefix(NormalizeName(name), snapshot.FilePrefix)
}

// List returns the names of all quizzes in the directory, sorted.
func (l *Library) List() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read words dir: %w", err)
	}
	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		fn := e.Name()
		ext := filepath.Ext(fn)
		if e.IsDir() || !slices.Contains(extensions, ext) || strings.HasPrefix(fn, snapshot.FilePrefix) {
			continue
		}
		n := strings.TrimSuffix(fn, ext)
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Load resolves a selection: a single quiz name, "all", "allverbs" (or
// "all_verbs"), or a ", "-separated list of quiz names.
func (l *Library) Load(selection string) (Selection, error) {
	name := strings.ToLower(strings.TrimSpace(selection))
	sel := Selection{Name: name}

	switch {
	case name == SelectAll || name == SelectAllVerbs || name == selectAllVerbs:
		names, err := l.List()
		if err != nil {
			return Selection{}, err
		}
		for _, n := range names {
			if strings.HasPrefix(n, "-") {
				continue
			}
			qf, err := l.Read(n)
			if err != nil {
				return Selection{}, err
			}
			sel.Words.Merge(qf.Words)
		}
		sel.Merged = true
		sel.OnlyVerbs = name != SelectAll

	case strings.Contains(name, listSeparator):
		for _, part := range strings.Split(name, listSeparator) {
			if IsSnapshotName(part) {
				return Selection{}, fmt.Errorf("%w: %q", ErrMultipleInProgress, part)
			}
			qf, err := l.Read(part)
			if err != nil {
				return Selection{}, err
			}
			sel.Words.Merge(qf.Words)
		}
		sel.Merged = true

	case IsSnapshotName(name):
		return Selection{}, fmt.Errorf("%w: %q is an in-progress session", ErrInvalidName, name)

	default:
		qf, err := l.Read(name)
		if err != nil {
			return Selection{}, err
		}
		sel.Name = NormalizeName(name)
		sel.Words = qf.Words
	}

	slog.Debug("quiz loaded", "selection", sel.Name, "words", len(sel.Words), "merged", sel.Merged)
	return sel, nil
}

// path returns the existing file for name, or ErrNotFound.
func (l *Library) path(name string) (string, error) {
	n := NormalizeName(name)
	if !validName(n) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, ext := range extensions {
		p := filepath.Join(l.Dir, n+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, n)
}

// Exists reports whether a quiz file for name exists.
func (l *Library) Exists(name string) bool {
	_, err := l.path(name)
	return err == nil
}

// Read decodes a single quiz file.
func (l *Library) Read(name string) (*model.QuizFile, error) {
	p, err := l.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read quiz: %w", err)
	}
	var qf model.QuizFile
	if isYAML(p) {
		err = yaml.Unmarshal(data, &qf)
	} else {
		err = json.Unmarshal(data, &qf)
	}
	if err != nil {
		return nil, fmt.Errorf("decode quiz %s: %w", filepath.Base(p), err)
	}
	return &qf, nil
}

// Create writes an empty quiz named name in the library's format.
func (l *Library) Create(name string) (*model.QuizFile, error) {
	n := NormalizeName(name)
	if !validName(n) || IsSnapshotName(n) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if l.Exists(n) {
		return nil, fmt.Errorf("%w: %q", ErrExists, n)
	}
	qf := &model.QuizFile{CreatedAt: l.now().Format(time.RFC3339), Words: model.Words{}}
	if err := l.write(l.newPath(n), qf); err != nil {
		return nil, err
	}
	slog.Info("quiz created", "name", n)
	return qf, nil
}

// Save overwrites the existing quiz file for name.
func (l *Library) Save(name string, qf *model.QuizFile) error {
	p, err := l.path(name)
	if err != nil {
		return err
	}
	return l.write(p, qf)
}

// AddWord stores one prompt/answer pair in the quiz and saves it. An existing
// prompt gets the new answer.
func (l *Library) AddWord(name, prompt, answer string) error {
	qf, err := l.Read(name)
	if err != nil {
		return err
	}
	qf.Words.Set(strings.TrimSpace(prompt), strings.TrimSpace(answer))
	return l.Save(name, qf)
}

// RecordRun adds one finished run to the lifetime statistics of a single
// quiz. items is the number of items asked and correct the number answered
// right.
func (l *Library) RecordRun(name string, items, correct int) error {
	qf, err := l.Read(name)
	if err != nil {
		return err
	}
	qf.Stats.Attempts++
	qf.Stats.WordAttempts += items
	qf.Stats.WordSuccesses += correct
	if items == correct {
		qf.Stats.AllCorrectCount++
	}
	return l.Save(name, qf)
}

func (l *Library) newPath(n string) string {
	ext := ".json"
	if l.Format == FormatYAML {
		ext = ".yaml"
	}
	return filepath.Join(l.Dir, n+ext)
}

func (l *Library) write(p string, qf *model.QuizFile) error {
	var (
		data []byte
		err  error
	)
	if isYAML(p) {
		data, err = yaml.Marshal(qf)
	} else {
		data, err = json.MarshalIndent(qf, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode quiz: %w", err)
	}
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return fmt.Errorf("create words dir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write quiz: %w", err)
	}
	return nil
}

func (l *Library) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

func isYAML(p string) bool {
	ext := filepath.Ext(p)
	return ext == ".yaml" || ext == ".yml"
}
