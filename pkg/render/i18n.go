package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-stepform/pkg/model"
)

const (
	labelKeyHint       = "labelKey"
	placeholderKeyHint = "placeholderKey"
	helpKeyHint        = "helpKey"
	tabLabelKeyPrefix  = "tabs."
	tabLabelKeySuffix  = ".labelKey"
)

// ErrMissingTranslator is reported to the MissingTranslationHandler when no
// Translator was configured.
var ErrMissingTranslator = errors.New("render: translator is not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides what to show when a key cannot be
// translated.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		if values, ok := arg.(map[string]any); ok {
			if fallback, ok := values["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// LocalizeDefinition translates the `*Key` hints stored in field metadata
// (labelKey, placeholderKey, helpKey) and the `tabs.<name>.labelKey` entries
// of the form metadata. It is best-effort: failures are routed through
// onMissing, which defaults to keeping the untranslated text.
func LocalizeDefinition(def *model.FormDefinition, locale string, t Translator, onMissing MissingTranslationHandler) {
	if def == nil {
		return
	}
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	for i := range def.Tabs {
		tab := &def.Tabs[i]
		if key := strings.TrimSpace(def.Metadata[tabLabelKeyPrefix+tab.Name+tabLabelKeySuffix]); key != "" {
			tab.Label = translate(locale, key, tab.Label, t, onMissing)
		}
		for j := range tab.Fields {
			localizeField(&tab.Fields[j], locale, t, onMissing)
		}
	}
}

// Localizer returns a decorator that runs LocalizeDefinition, ready for
// definition.WithDecorators.
func Localizer(locale string, t Translator, onMissing MissingTranslationHandler) model.Decorator {
	return model.DecoratorFunc(func(def *model.FormDefinition) error {
		LocalizeDefinition(def, locale, t, onMissing)
		return nil
	})
}

func localizeField(field *model.Field, locale string, t Translator, onMissing MissingTranslationHandler) {
	if key := strings.TrimSpace(field.Metadata[labelKeyHint]); key != "" {
		field.Label = translate(locale, key, field.Label, t, onMissing)
	}
	if key := strings.TrimSpace(field.Metadata[placeholderKeyHint]); key != "" {
		field.Placeholder = translate(locale, key, field.Placeholder, t, onMissing)
	}
	if key := strings.TrimSpace(field.Metadata[helpKeyHint]); key != "" {
		field.Help = translate(locale, key, field.Help, t, onMissing)
	}
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	args := []any{map[string]any{"default": fallback}}
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, args, err)
}
