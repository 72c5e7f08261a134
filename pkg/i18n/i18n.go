// Package i18n loads the embedded translation files and resolves a
// per-request localizer from the Accept-Language header.
//
//	loc := i18n.FromCtx(r.Context())
//	loc.T("flash.unknown_email", map[string]interface{}{"Email": email})
package i18n

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files.
//
//go:embed locales/*.yaml
var localeFS embed.FS

var (
	once    sync.Once
	bundle  *goi18n.Bundle
	matcher language.Matcher
	loadErr error
)

// load parses every embedded locale. Spanish is the source language.
func load() error {
	once.Do(func() {
		b := goi18n.NewBundle(language.Spanish)
		b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

		files, err := fs.ReadDir(localeFS, "locales")
		if err != nil {
			loadErr = err
			return
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			data, err := localeFS.ReadFile("locales/" + f.Name())
			if err != nil {
				loadErr = err
				return
			}
			if _, err := b.ParseMessageFileBytes(data, f.Name()); err != nil {
				loadErr = fmt.Errorf("i18n: parse %s: %w", f.Name(), err)
				return
			}
		}
		bundle = b
		matcher = language.NewMatcher(b.LanguageTags())
	})
	return loadErr
}

// Languages lists the loaded locales, source language first.
func Languages() []string {
	if err := load(); err != nil {
		return nil
	}
	tags := bundle.LanguageTags()
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}

// Localizer translates message ids for one language.
type Localizer struct {
	tag language.Tag
	l   *goi18n.Localizer
}

// New picks the best supported language for the given preferences
// (Accept-Language values or plain tags like "en").
func New(prefs ...string) *Localizer {
	if err := load(); err != nil {
		panic(err)
	}

	var wanted []language.Tag
	for _, p := range prefs {
		tags, _, err := language.ParseAcceptLanguage(p)
		if err == nil {
			wanted = append(wanted, tags...)
		}
	}
	tag := language.Spanish
	if len(wanted) > 0 {
		_, idx, conf := matcher.Match(wanted...)
		if conf != language.No {
			tag = bundle.LanguageTags()[idx]
		}
	}

	return &Localizer{tag: tag, l: goi18n.NewLocalizer(bundle, tag.String())}
}

// Lang is the BCP 47 tag in use, e.g. "es".
func (l *Localizer) Lang() string { return l.tag.String() }

// T translates id. An optional map supplies template data. An unknown id
// is returned unchanged.
func (l *Localizer) T(id string, data ...map[string]interface{}) string {
	cfg := &goi18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}
	msg, err := l.l.Localize(cfg)
	if err != nil {
		return id
	}
	return msg
}

// ─── Request wiring ───────────────────────────────────────────────────────────

type ctxKey struct{}

// WithLocalizer stores l in ctx.
func WithLocalizer(ctx context.Context, l *Localizer) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromCtx returns the request localizer, or the source language one.
func FromCtx(ctx context.Context) *Localizer {
	if l, ok := ctx.Value(ctxKey{}).(*Localizer); ok && l != nil {
		return l
	}
	return New()
}

// Middleware resolves the visitor's language from Accept-Language, with
// fallback used when the header names nothing we ship.
func Middleware(fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := New(r.Header.Get("Accept-Language"), fallback)
			w.Header().Set("Content-Language", l.Lang())
			next.ServeHTTP(w, r.WithContext(WithLocalizer(r.Context(), l)))
		})
	}
}
