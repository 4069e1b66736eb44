// Package i18n localizes the messages drill prints to the learner.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// DefaultLang is used when no language is configured or the configured one
// has no locale file.
const DefaultLang = "en"

//go:embed locales/*.json
var localeFS embed.FS

type ctxKey struct{}

var (
	bundle    *i18n.Bundle
	languages []string
)

// Init loads every embedded locale file. lang becomes the bundle's default
// language; it falls back to DefaultLang when it cannot be parsed.
func Init(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		slog.Warn("unknown language, using default", "lang", lang, "default", DefaultLang)
		tag = language.MustParse(DefaultLang)
	}

	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	var langs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
			return fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		langs = append(langs, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
		slog.Debug("loaded locale file", "file", e.Name())
	}

	bundle = b
	languages = langs
	return nil
}

// Languages returns the language tags that have a locale file.
func Languages() []string {
	return append([]string(nil), languages...)
}

// Printer renders messages in one language. Missing messages render as
// their ID.
type Printer struct {
	loc *i18n.Localizer
}

// NewPrinter returns a printer for lang, falling back to DefaultLang for
// messages lang does not translate. Init must have been called.
func NewPrinter(lang string) *Printer {
	return &Printer{loc: i18n.NewLocalizer(bundle, lang, DefaultLang)}
}

func (p *Printer) localize(cfg *i18n.LocalizeConfig) string {
	s, err := p.loc.Localize(cfg)
	if err != nil {
		slog.Warn("missing translation", "id", cfg.MessageID, "error", err)
		return cfg.MessageID
	}
	return s
}

// T translates a message by ID.
func (p *Printer) T(msgID string) string {
	return p.localize(&i18n.LocalizeConfig{MessageID: msgID})
}

// Td translates a message by ID with template data.
func (p *Printer) Td(msgID string, data map[string]any) string {
	return p.localize(&i18n.LocalizeConfig{MessageID: msgID, TemplateData: data})
}

// Tp translates a pluralized message by ID. The template sees the count as
// .Count.
func (p *Printer) Tp(msgID string, count int) string {
	return p.localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}

// WithPrinter stores a printer in the context.
func WithPrinter(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the printer stored by WithPrinter, or a DefaultLang
// printer.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return NewPrinter(DefaultLang)
}

// T translates a message by ID using the context's printer.
func T(ctx context.Context, msgID string) string {
	return FromContext(ctx).T(msgID)
}

// Td translates a message by ID with template data using the context's
// printer.
func Td(ctx context.Context, msgID string, data map[string]any) string {
	return FromContext(ctx).Td(msgID, data)
}

// Tp translates a pluralized message using the context's printer.
func Tp(ctx context.Context, msgID string, count int) string {
	return FromContext(ctx).Tp(msgID, count)
}
