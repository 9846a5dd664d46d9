package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// The identifier derivation below is an ordered rewrite pipeline. Each rule is
// kept as its own named pattern so precedence between rules stays visible and
// individually testable; reordering them changes the output for inputs such as
// "1 - type" or "10-20".
var (
	// rangePattern flags numeric ranges ("10-20", "> 5", "10 - 20") anywhere
	// in the text. Range-bearing labels keep their dashes until the range
	// rewrite turns them into "To".
	rangePattern = regexp.MustCompile(`\d+-\d+|> \d+|< \d+|\d+ - \d+`)

	// pureIntegerPattern matches strings that are nothing but digits. Those
	// are answer values, not outline prefixes, and pass through untouched.
	pureIntegerPattern = regexp.MustCompile(`^\d+$`)

	// dashGluePattern matches "<digits> - <text>" where the text does not
	// start with a digit; the match collapses to "<digits><text>".
	dashGluePattern = regexp.MustCompile(`^(\d+)\s*-\s*([^0-9].*)$`)

	// outlinePrefixPattern strips leading outline numbering ("1. ", "1.2.3 ").
	outlinePrefixPattern = regexp.MustCompile(`^\d+(\.\d+)*[\s.]*`)

	parentheticalPattern = regexp.MustCompile(`\s*\(.*?\)`)

	// digitsThenLetterPattern recognizes tokens already in glued "1type" form,
	// which must not have their dashes rewritten a second time.
	digitsThenLetterPattern = regexp.MustCompile(`^\d+[a-zA-Z]`)

	nonIdentifierPattern = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	edgeUnderscores      = regexp.MustCompile(`^_+|_+$`)
	repeatedUnderscores  = regexp.MustCompile(`_+`)
)

// DetectRangePrefix reports whether text contains a numeric range such as
// "10-20" or "> 5". Identifier derivation suppresses dash and underscore
// substitution for range-bearing text so the range survives structurally.
func DetectRangePrefix(text string) bool {
	return rangePattern.MatchString(text)
}

// StripPositionalPrefix removes leading outline numbering from a label.
// Pure integers are preserved (they are answer values), and a leading
// "<digits> - <text>" segment is glued into "<digits><text>" before the
// generic prefix rule can touch it.
func StripPositionalPrefix(text string) string {
	if DetectRangePrefix(text) {
		return text
	}
	if pureIntegerPattern.MatchString(text) {
		return text
	}
	if m := dashGluePattern.FindStringSubmatch(text); m != nil {
		return m[1] + m[2]
	}
	return outlinePrefixPattern.ReplaceAllString(text, "")
}

// DeriveIdentifier turns free text into a canonical camelCase identifier
// token. The returned bool reports whether the token had to be synthesized
// because nothing usable survived cleaning.
func DeriveIdentifier(text string) (string, bool) {
	cleaned := StripPositionalPrefix(text)
	cleaned = parentheticalPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, "/", " Or ")
	if !DetectRangePrefix(cleaned) {
		if !digitsThenLetterPattern.MatchString(cleaned) {
			cleaned = strings.ReplaceAll(cleaned, "-", " ")
		}
		cleaned = strings.ReplaceAll(cleaned, "_", " ")
	}
	if !digitsThenLetterPattern.MatchString(cleaned) {
		cleaned = strings.ReplaceAll(cleaned, "-", "To")
	}
	cleaned = strings.ReplaceAll(cleaned, "<", " Less Than ")
	cleaned = strings.ReplaceAll(cleaned, ">", " More Than ")
	cleaned = camelCase(cleaned)
	cleaned = strings.ReplaceAll(cleaned, "+", "Plus")
	cleaned = nonIdentifierPattern.ReplaceAllString(cleaned, "")
	cleaned = edgeUnderscores.ReplaceAllString(cleaned, "")
	cleaned = repeatedUnderscores.ReplaceAllString(cleaned, "_")
	if cleaned == "" {
		return "id_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8], true
	}
	return lowerFirst(cleaned), false
}

// CleanDisplayLabel stringifies a raw cell value for use as a display label.
// Unlike identifiers, display labels stay close to the source text.
func CleanDisplayLabel(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// camelCase joins whitespace-separated words, lowercasing the first word and
// capitalizing the rest. Text with no usable words (or the literal "%")
// yields a random token instead of an empty string.
func camelCase(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 || text == "%" {
		return uuid.NewString()
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, word := range words[1:] {
		b.WriteString(capitalize(word))
	}
	return b.String()
}

// capitalize upper-cases the first rune and lower-cases the remainder,
// matching the word shaping the rest of the pipeline expects.
func capitalize(word string) string {
	if word == "" {
		return word
	}
	runes := []rune(word)
	return strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToLower(string(runes[0])) + string(runes[1:])
}
