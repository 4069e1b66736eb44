package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pavelanni/drill/internal/model"
	"github.com/pavelanni/drill/internal/quiz"
)

// setupWords creates a words directory holding the "numbers" quiz.
func setupWords(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	lib := quiz.NewLibrary(filepath.Join(dir, "words"))
	if _, err := lib.Create("numbers"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, w := range [][2]string{{"eins", "one"}, {"zwei", "two"}} {
		if err := lib.AddWord("numbers", w[0], w[1]); err != nil {
			t.Fatalf("AddWord: %v", err)
		}
	}
	return dir
}

// execute runs the CLI with input on stdin and returns what it printed.
func execute(t *testing.T, dir, input string, args ...string) string {
	t.Helper()
	args = append(args,
		"--words-dir", filepath.Join(dir, "words"),
		"--db", filepath.Join(dir, "drill.db"),
		"--no-color",
	)
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("drill %v: %v\noutput:\n%s", args, err, out.String())
	}
	return out.String()
}

func TestStudyLinear(t *testing.T) {
	dir := setupWords(t)
	out := execute(t, dir, "one\ntwo\nn\n",
		"study", "numbers", "--policy", "linear", "--shuffle=false")

	for _, want := range []string{"(1/2) eins = ", "(2/2) zwei = ", "[C] Correct!", "[2/2]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out = execute(t, dir, "", "sessions")
	if !strings.Contains(out, "numbers") || !strings.Contains(out, "finished") {
		t.Errorf("session log missing finished run:\n%s", out)
	}

	lib := quiz.NewLibrary(filepath.Join(dir, "words"))
	qf, err := lib.Read("numbers")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := model.QuizStats{Attempts: 1, WordAttempts: 2, WordSuccesses: 2, AllCorrectCount: 1}
	if qf.Stats != want {
		t.Errorf("Stats = %+v, want %+v", qf.Stats, want)
	}
}

func TestStudyWrongAnswer(t *testing.T) {
	dir := setupWords(t)
	out := execute(t, dir, "uno\ntwo\nn\n",
		"study", "numbers", "--policy", "linear", "--shuffle=false")

	if !strings.Contains(out, `[X] The answer was "one"`) {
		t.Errorf("missing correction:\n%s", out)
	}
	// Linear runs do not repeat missed words.
	if !strings.Contains(out, "[1/2]") {
		t.Errorf("want score [1/2]:\n%s", out)
	}
}

func TestSaveAndResume(t *testing.T) {
	dir := setupWords(t)
	out := execute(t, dir, "one\nsaveas later\n",
		"study", "numbers", "--policy", "linear", "--shuffle=false")
	if !strings.Contains(out, "Saved quiz for later use (later)") {
		t.Fatalf("session not saved:\n%s", out)
	}

	out = execute(t, dir, "", "list")
	if !strings.Contains(out, "In progress:") || !strings.Contains(out, "later") {
		t.Errorf("list does not show saved session:\n%s", out)
	}

	out = execute(t, dir, "two\nn\n", "resume", "later")
	if !strings.Contains(out, "(x/2) zwei = ") {
		t.Errorf("resume did not continue at the second word:\n%s", out)
	}
	if !strings.Contains(out, "[2/2]") {
		t.Errorf("want score [2/2] across both runs:\n%s", out)
	}

	out = execute(t, dir, "", "list")
	if strings.Contains(out, "In progress:") {
		t.Errorf("finished session still listed:\n%s", out)
	}
}

func TestWizardStudiesExistingQuiz(t *testing.T) {
	dir := setupWords(t)
	// existing? name, smart? random? reverse?, answers, again?
	out := execute(t, dir, "y\nnumbers\nn\nn\nn\none\ntwo\nn\n")

	if !strings.Contains(out, "The quiz is now starting") {
		t.Errorf("quiz did not start:\n%s", out)
	}
	if !strings.Contains(out, "[2/2]") {
		t.Errorf("want score [2/2]:\n%s", out)
	}
}

func TestWizardCreatesQuiz(t *testing.T) {
	dir := t.TempDir()
	// existing? edit? name, word, translation, accept, empty word,
	// smart? random? reverse?, answer, again?
	input := "n\nn\nanimals\ndog\nHund\n\n\nn\nn\nn\nHund\nn\n"
	out := execute(t, dir, input)

	if !strings.Contains(out, "(1/1) dog = ") {
		t.Errorf("new word not asked:\n%s", out)
	}
	lib := quiz.NewLibrary(filepath.Join(dir, "words"))
	qf, err := lib.Read("animals")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got, _ := qf.Words.Get("dog"); got != "Hund" {
		t.Errorf("dog = %q, want Hund", got)
	}
}

func TestAddAndExport(t *testing.T) {
	dir := setupWords(t)
	execute(t, dir, "", "add", "numbers", "drei", "three")
	execute(t, dir, "one\ntwo\nthree\nn\n", "study", "numbers", "--policy", "linear", "--shuffle=false")

	out := execute(t, dir, "", "export", "--quiz", "numbers")
	var export model.SessionExport
	if err := json.Unmarshal([]byte(out), &export); err != nil {
		t.Fatalf("export is not JSON: %v\n%s", err, out)
	}
	if export.Totals.Sessions != 1 || export.Totals.Correct != 3 {
		t.Errorf("totals = %+v, want 1 session with 3 correct", export.Totals)
	}

	out = execute(t, dir, "", "stats")
	if !strings.Contains(out, "numbers") || !strings.Contains(out, "100.0%") {
		t.Errorf("stats missing quiz row:\n%s", out)
	}
}

func TestStudyUnknownPolicy(t *testing.T) {
	dir := setupWords(t)
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"study", "numbers", "--policy", "random",
		"--words-dir", filepath.Join(dir, "words"), "--db", filepath.Join(dir, "drill.db")})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestServeRouter(t *testing.T) {
	dir := setupWords(t)
	cmd := serveCmd()
	for name, value := range map[string]string{
		"words-dir": filepath.Join(dir, "words"),
		"db":        filepath.Join(dir, "drill.db"),
	} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	a, err := newApp(context.Background(), cmd)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()

	srv := httptest.NewServer(newRouter(a, "/api"))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/quizzes")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `"name": "numbers"`) {
		t.Errorf("quiz missing from response: %s", body)
	}
}
