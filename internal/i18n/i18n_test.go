package i18n

import (
	"context"
	"slices"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	return WithPrinter(context.Background(), NewPrinter(lang))
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "Correct"); got != "Correct!" {
		t.Errorf("T(Correct) = %q, want 'Correct!'", got)
	}
	if got := T(ctx, "Skipping"); got != "Skipping..." {
		t.Errorf("T(Skipping) = %q, want 'Skipping...'", got)
	}
}

func TestTranslateGerman(t *testing.T) {
	ctx := initLang(t, "de")

	if got := T(ctx, "Correct"); got != "Richtig!" {
		t.Errorf("T(Correct) = %q, want 'Richtig!'", got)
	}
	if got := T(ctx, "YesNoHint"); got != "[j/n]" {
		t.Errorf("T(YesNoHint) = %q, want '[j/n]'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	if got := Tp(ctx, "WordCount", 1); got != "1 word" {
		t.Errorf("Tp(WordCount, 1) = %q, want '1 word'", got)
	}
	if got := Tp(ctx, "WordCount", 5); got != "5 words" {
		t.Errorf("Tp(WordCount, 5) = %q, want '5 words'", got)
	}

	de := NewPrinter("de")
	if got := de.Tp("WordCount", 2); got != "2 Wörter" {
		t.Errorf("de Tp(WordCount, 2) = %q, want '2 Wörter'", got)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "QuizFinished", map[string]any{"Seconds": "12.50", "Correct": 2, "Total": 3})
	if got != "The quiz was finished in 12.50s [2/3]" {
		t.Errorf("Td(QuizFinished) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "NonExistentKey"); got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestFallbacks(t *testing.T) {
	if err := Init("not a language!"); err != nil {
		t.Fatalf("Init with bad tag: %v", err)
	}
	// No printer in the context: English.
	if got := T(context.Background(), "Correct"); got != "Correct!" {
		t.Errorf("default printer: got %q", got)
	}
	// A language without a locale file falls back to English.
	if got := NewPrinter("fr").T("Correct"); got != "Correct!" {
		t.Errorf("fr printer: got %q", got)
	}
}

func TestLanguages(t *testing.T) {
	initLang(t, "en")
	langs := Languages()
	slices.Sort(langs)
	if !slices.Equal(langs, []string{"de", "en"}) {
		t.Errorf("Languages() = %v, want [de en]", langs)
	}
}
