// Package i18n localizes report labels and summaries.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/mamadbah2/linetrack/internal/domain/models"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLocale is used when nothing else matches.
const DefaultLocale = "pt-BR"

// Message identifiers shared by exporters and the scheduler.
const (
	MsgAll          = "label.all"
	MsgNotAvailable = "label.not_available"
	MsgUnspecified  = "label.unspecified"
	MsgActive       = "status.active"
	MsgEnded        = "status.ended"
	MsgInProgress   = "status.in_progress"
	MsgDailySummary = "summary.daily"
)

type ctxKey struct{}

// Bundle holds every parsed locale file.
type Bundle struct {
	bundle        *i18n.Bundle
	defaultLocale string
}

// New loads the embedded locale files. defaultLocale is appended to every
// lookup so unsupported requests fall back to it.
func New(defaultLocale string) (*Bundle, error) {
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}

	bundle := i18n.NewBundle(language.MustParse(DefaultLocale))
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
	}

	return &Bundle{bundle: bundle, defaultLocale: defaultLocale}, nil
}

// MustNew is New for static setups.
func MustNew(defaultLocale string) *Bundle {
	b, err := New(defaultLocale)
	if err != nil {
		panic(err)
	}
	return b
}

// Localizer picks the best match among langs, which may be plain tags or
// Accept-Language header values.
func (b *Bundle) Localizer(langs ...string) *Localizer {
	langs = append(langs, b.defaultLocale)
	return &Localizer{l: i18n.NewLocalizer(b.bundle, langs...)}
}

// FromContext builds a localizer for the locale stored with WithLocale.
func (b *Bundle) FromContext(ctx context.Context) *Localizer {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return b.Localizer(v)
	}
	return b.Localizer()
}

// WithLocale returns a context carrying the requested locale.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

// Localizer translates message ids for one resolved language.
type Localizer struct {
	l *i18n.Localizer
}

// T translates id, falling back to the id itself when it is unknown.
func (l *Localizer) T(id string, data ...map[string]any) string {
	cfg := &i18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 && data[0] != nil {
		cfg.TemplateData = data[0]
	}
	msg, err := l.l.Localize(cfg)
	if err != nil {
		return id
	}
	return msg
}

// Sector renders a sector label ("Caixa 01", "Embalagem").
func (l *Localizer) Sector(s models.Sector) string {
	if !s.Valid() {
		return l.T(MsgNotAvailable)
	}
	return l.T("sector." + string(s))
}

// Box renders a production line label.
func (l *Localizer) Box(b models.BoxNumber) string {
	switch b {
	case models.Box1:
		return l.Sector(models.SectorBox1)
	case models.Box2:
		return l.Sector(models.SectorBox2)
	default:
		return l.T(MsgNotAvailable)
	}
}

// Status renders the state of a stop.
func (l *Localizer) Status(s models.StopRecord) string {
	if s.IsActive {
		return l.T(MsgActive)
	}
	return l.T(MsgEnded)
}

// Filter renders a report filter value, translating "all" and sector codes.
func (l *Localizer) Filter(value string) string {
	if value == "" || value == models.FilterAll {
		return l.T(MsgAll)
	}
	if s := models.Sector(value); s.Valid() {
		return l.Sector(s)
	}
	return value
}
