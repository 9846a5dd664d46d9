package generator

import (
	"go.uber.org/zap"

	"github.com/clinsheet/formgen/pkg/metadata"
)

// Option configures a Generator.
type Option func(*Generator)

// WithOptionSets supplies the option set table answers are resolved from.
// Without it, any sheet that references an option set fails with
// ErrOptionSetsNotLoaded.
func WithOptionSets(table *metadata.OptionSetTable) Option {
	return func(g *Generator) {
		g.optionSets = table
	}
}

// WithLogger sets the structured logger for generation diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithLanguage sets the translation document language. Defaults to "ar".
func WithLanguage(language string) Option {
	return func(g *Generator) {
		if language != "" {
			g.language = language
		}
	}
}

// WithDescriptionPrefix overrides the prefix prepended to the sheet name in
// the form description.
func WithDescriptionPrefix(prefix string) Option {
	return func(g *Generator) {
		g.descriptionPrefix = prefix
	}
}

// WithEncounter overrides the encounter type recorded on generated forms.
func WithEncounter(encounter string) Option {
	return func(g *Generator) {
		if encounter != "" {
			g.encounter = encounter
		}
	}
}
