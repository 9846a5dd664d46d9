package generator

import (
	"strings"

	"go.uber.org/zap"
)

// TranslationCollector accumulates label → translated-string pairs while a
// form is built. Like the Registry it is scoped to a single run. A label
// recorded twice with conflicting non-null values keeps its first value;
// the conflict is a log-level concern, never an error.
type TranslationCollector struct {
	logger  *zap.Logger
	entries map[string]*string
}

// NewTranslationCollector returns an empty collector. A nil logger is
// replaced with a no-op one.
func NewTranslationCollector(logger *zap.Logger) *TranslationCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranslationCollector{
		logger:  logger,
		entries: make(map[string]*string),
	}
}

// Record stores the translation for label. A nil translated value marks the
// label as seen without a translation and may be filled in by a later
// non-null write.
func (c *TranslationCollector) Record(label string, translated *string) {
	if translated == nil {
		c.logger.Debug("translation missing for label", zap.String("label", label))
	}
	existing, seen := c.entries[label]
	if !seen {
		c.entries[label] = translated
		return
	}
	if existing == nil {
		if translated != nil {
			c.entries[label] = translated
		}
		return
	}
	if translated != nil && *translated != *existing {
		c.logger.Warn("conflicting translations for label",
			zap.String("label", label),
			zap.String("kept", *existing),
			zap.String("ignored", *translated))
	}
}

// Snapshot returns the collected translations. The map is the document
// payload; JSON marshaling emits its keys in sorted order.
func (c *TranslationCollector) Snapshot() map[string]*string {
	out := make(map[string]*string, len(c.entries))
	for label, translated := range c.entries {
		out[label] = translated
	}
	return out
}

// cleanTranslation strips quote characters and normalizes backslashes in a
// translated string from the source sheet. It returns nil for blank cells.
func cleanTranslation(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	cleaned := strings.NewReplacer(`"`, "", `'`, "", `\`, "/").Replace(raw)
	return &cleaned
}
