package quiz

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/pavelanni/drill/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "animals.json", `{
  "created_at": "2024-03-01T09:00:00Z",
  "stats": {"attempts": 2, "word_attempts": 10, "word_successes": 7, "all_correct_count": 0},
  "words": {"Hund": "dog", "Katze": "cat"}
}`)
	writeFile(t, dir, "verbs.yaml", `created_at: "2024-03-02T09:00:00Z"
words:
  laufen: to run
  Katze: kitty
  gehen: to go
`)
	writeFile(t, dir, "-draft.json", `{"words": {"Maus": "mouse"}}`)
	writeFile(t, dir, "xx-inprogress-later.json", `{"version": 1, "index": 0}`)
	writeFile(t, dir, "notes.txt", "not a quiz")

	lib := NewLibrary(dir)
	lib.Now = func() time.Time { return time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC) }
	return lib
}

func prompts(w model.Words) []string {
	out := make([]string, len(w))
	for i, e := range w {
		out[i] = e.Prompt
	}
	return out
}

func TestList(t *testing.T) {
	lib := newTestLibrary(t)
	names, err := lib.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"-draft", "animals", "verbs"}
	if !slices.Equal(names, want) {
		t.Errorf("List = %v, want %v", names, want)
	}

	empty := NewLibrary(filepath.Join(t.TempDir(), "missing"))
	if names, err := empty.List(); err != nil || len(names) != 0 {
		t.Errorf("expected empty list for missing dir, got %v, %v", names, err)
	}
}

func TestLoad(t *testing.T) {
	lib := newTestLibrary(t)

	tests := []struct {
		name      string
		selection string
		prompts   []string
		merged    bool
		onlyVerbs bool
	}{
		{"single json", "animals", []string{"Hund", "Katze"}, false, false},
		{"single with extension and case", " Animals.JSON ", []string{"Hund", "Katze"}, false, false},
		{"single yaml keeps order", "verbs", []string{"laufen", "Katze", "gehen"}, false, false},
		{"all skips dash files", "all", []string{"Hund", "Katze", "laufen", "gehen"}, true, false},
		{"allverbs", "allverbs", []string{"Hund", "Katze", "laufen", "gehen"}, true, true},
		{"all_verbs", "ALL_VERBS", []string{"Hund", "Katze", "laufen", "gehen"}, true, true},
		{"list", "verbs, animals", []string{"laufen", "Katze", "gehen", "Hund"}, true, false},
		{"list may name dash files", "-draft, animals", []string{"Maus", "Hund", "Katze"}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := lib.Load(tt.selection)
			if err != nil {
				t.Fatalf("Load(%q): %v", tt.selection, err)
			}
			if got := prompts(sel.Words); !slices.Equal(got, tt.prompts) {
				t.Errorf("prompts = %v, want %v", got, tt.prompts)
			}
			if sel.Merged != tt.merged || sel.OnlyVerbs != tt.onlyVerbs {
				t.Errorf("merged/onlyVerbs = %v/%v, want %v/%v", sel.Merged, sel.OnlyVerbs, tt.merged, tt.onlyVerbs)
			}
		})
	}
}

func TestLoadMergeOverridesAnswers(t *testing.T) {
	lib := newTestLibrary(t)
	sel, err := lib.Load("animals, verbs")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, _ := sel.Words.Get("Katze"); got != "kitty" {
		t.Errorf("expected later quiz to override Katze, got %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	lib := newTestLibrary(t)

	tests := []struct {
		selection string
		want      error
	}{
		{"colors", ErrNotFound},
		{"animals, colors", ErrNotFound},
		{"animals, xx-inprogress-later", ErrMultipleInProgress},
		{"xx-inprogress-later", ErrInvalidName},
		{"../animals", ErrInvalidName},
		{"", ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.selection, func(t *testing.T) {
			if _, err := lib.Load(tt.selection); !errors.Is(err, tt.want) {
				t.Errorf("Load(%q): expected %v, got %v", tt.selection, tt.want, err)
			}
		})
	}
}

func TestCreateAndAddWord(t *testing.T) {
	lib := newTestLibrary(t)

	if _, err := lib.Create("Colors"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := lib.Create("colors"); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}
	if _, err := lib.Create("animals"); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists for existing quiz, got %v", err)
	}
	if _, err := lib.Create("xx-inprogress-x"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}

	for _, w := range [][2]string{{"rot", "red"}, {" blau ", " blue "}, {"rot", "red (colour)"}} {
		if err := lib.AddWord("colors", w[0], w[1]); err != nil {
			t.Fatalf("AddWord: %v", err)
		}
	}

	qf, err := lib.Read("colors")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if qf.CreatedAt != "2024-04-01T12:00:00Z" {
		t.Errorf("unexpected created_at %q", qf.CreatedAt)
	}
	want := model.Words{{Prompt: "rot", Answer: "red (colour)"}, {Prompt: "blau", Answer: "blue"}}
	if !slices.Equal(qf.Words, want) {
		t.Errorf("words = %v, want %v", qf.Words, want)
	}

	if err := lib.AddWord("missing", "a", "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateYAML(t *testing.T) {
	lib := newTestLibrary(t)
	lib.Format = FormatYAML

	if _, err := lib.Create("numbers"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := lib.AddWord("numbers", "eins", "one"); err != nil {
		t.Fatalf("AddWord: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(lib.Dir, "numbers.yaml"))
	if err != nil {
		t.Fatalf("expected numbers.yaml: %v", err)
	}
	if !strings.Contains(string(data), "eins: one") {
		t.Errorf("unexpected YAML:\n%s", data)
	}
}

func TestRecordRun(t *testing.T) {
	lib := newTestLibrary(t)

	if err := lib.RecordRun("animals", 2, 2); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := lib.RecordRun("animals", 2, 1); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	qf, err := lib.Read("animals")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := model.QuizStats{Attempts: 4, WordAttempts: 14, WordSuccesses: 10, AllCorrectCount: 1}
	if qf.Stats != want {
		t.Errorf("stats = %+v, want %+v", qf.Stats, want)
	}
	if got := prompts(qf.Words); !slices.Equal(got, []string{"Hund", "Katze"}) {
		t.Errorf("RecordRun must keep the words, got %v", got)
	}
}

func TestIsSnapshotName(t *testing.T) {
	if !IsSnapshotName("XX-InProgress-later") {
		t.Error("expected snapshot name")
	}
	if IsSnapshotName("animals") {
		t.Error("animals is a quiz")
	}
}
