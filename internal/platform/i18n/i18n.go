package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"leavedesk/internal/requestctx"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator renders error codes in the caller's language. Messages for the
// default locale come from the error itself, so only other locales need
// catalog entries.
type Translator struct {
	bundle        *goi18n.Bundle
	defaultLocale string
	supported     []language.Tag
	matcher       language.Matcher
}

func New(defaultLocale string) (*Translator, error) {
	base, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
	}

	bundle := goi18n.NewBundle(base)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
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

	supported := []language.Tag{base}
	for _, tag := range bundle.LanguageTags() {
		if tag != base {
			supported = append(supported, tag)
		}
	}
	return &Translator{
		bundle:        bundle,
		defaultLocale: base.String(),
		supported:     supported,
		matcher:       language.NewMatcher(supported),
	}, nil
}

func (t *Translator) DefaultLocale() string {
	return t.defaultLocale
}

// Negotiate picks the best supported locale for an Accept-Language value.
func (t *Translator) Negotiate(acceptLanguage string) string {
	if acceptLanguage == "" {
		return t.defaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.defaultLocale
	}
	_, idx, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return t.defaultLocale
	}
	return t.supported[idx].String()
}

// Message returns the translation of code for the locale stored in ctx, or
// fallback when the locale is the default or has no entry for code.
func (t *Translator) Message(ctx context.Context, code, fallback string) string {
	if t == nil {
		return fallback
	}
	locale := requestctx.GetLocale(ctx)
	if locale == "" || locale == t.defaultLocale {
		return fallback
	}
	localizer := goi18n.NewLocalizer(t.bundle, locale)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{MessageID: code})
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}

type ctxKey struct{}

// WithTranslator makes t available to error writers further down the chain.
func WithTranslator(ctx context.Context, t *Translator) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext returns the translator stored in ctx; nil is a valid
// Translator that always returns the fallback message.
func FromContext(ctx context.Context) *Translator {
	t, _ := ctx.Value(ctxKey{}).(*Translator)
	return t
}
