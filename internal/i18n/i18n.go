package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator renders user-facing messages in one language.
type Translator struct {
	lang      string
	localizer *i18n.Localizer
	logger    *zap.Logger
}

// New loads every embedded locale and returns a translator for lang.
// Unsupported languages and messages missing in lang fall back to Japanese.
func New(lang string, logger *zap.Logger) (*Translator, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("parse language %q: %w", lang, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bundle := i18n.NewBundle(language.Japanese)
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
			return nil, fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
	}

	if _, _, conf := language.NewMatcher(bundle.LanguageTags()).Match(tag); conf == language.No {
		logger.Warn("unsupported language, using japanese", zap.String("lang", tag.String()))
		tag = language.Japanese
	}

	return &Translator{
		lang:      tag.String(),
		localizer: i18n.NewLocalizer(bundle, tag.String()),
		logger:    logger,
	}, nil
}

// Lang returns the translator's language tag.
func (t *Translator) Lang() string {
	return t.lang
}

// T translates a message by ID.
func (t *Translator) T(msgID string) string {
	return t.Td(msgID, nil)
}

// Td translates a message by ID with template data.
func (t *Translator) Td(msgID string, data map[string]any) string {
	s, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
	if err != nil {
		t.logger.Warn("missing translation", zap.String("id", msgID), zap.String("lang", t.lang), zap.Error(err))
		return msgID
	}
	return s
}
