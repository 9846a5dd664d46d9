// Package skiplogic compiles human-readable "hide when" expressions into
// boolean expressions over resolved question identifiers and answer
// concepts. The grammar is deliberately small: a bracketed label, one of the
// operators <>, !== or ==, and one or more quoted answer values either
// comma-separated or in {...} set notation.
package skiplogic

import (
	"fmt"
	"regexp"
	"strings"
)

// InvalidExpression is returned when no grammar rule matches. It is embedded
// in the output document as a user-visible placeholder rather than raised as
// an error; a malformed expression never aborts row processing.
const InvalidExpression = "Invalid expression format"

// Resolver turns label references into stable identifiers and answer
// concepts. Resolution is order-sensitive: it consults whatever has been
// registered at the time the referencing row is processed.
type Resolver interface {
	// ResolveLabel maps a question label to its identifier, deriving a
	// best-effort token when the label is unknown.
	ResolveLabel(label string) string
	// ResolveAnswerConcept maps an answer label within the referenced
	// question to its concept, deriving a best-effort token when unknown.
	ResolveAnswerConcept(questionLabel, answerLabel string) string
}

// The three grammar rules, tried in priority order. A single quoted value is
// a valid one-element comma list, so rule 1 shadows rule 3 for such inputs
// and the result is parenthesized; this precedence is load-bearing for the
// consuming engine and must not be "simplified" away.
var (
	commaListPattern = regexp.MustCompile(`\[([^\]]+)\]\s*(<>|!==|==)\s*'[^']+'(?:\s*,\s*'[^']+')*`)
	setPattern       = regexp.MustCompile(`\[([^\]]+)\]\s*(<>|!==|==)\s*\{(.+?)\}`)
	singlePattern    = regexp.MustCompile(`\[([^\]]+)\]\s*(<>|!==|==)\s*'([^']*)'`)

	quotedValuePattern = regexp.MustCompile(`'([^']+)'`)

	// uuidShapedPattern accepts canonical 8-4-4-4-12 or bare 32-hex tokens at
	// the start of the string; such references are used verbatim instead of
	// being resolved.
	uuidShapedPattern = regexp.MustCompile(`^([a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{12}|[a-fA-F0-9]{32})`)
)

// Compile translates expression into a boolean expression over resolved
// identifiers. Comparisons against multiple values join with || for !== and
// && for ==, and the joined result is parenthesized. A bare single-value
// expression (only reachable when the quoted value is empty) stays
// unparenthesized.
func Compile(expression string, r Resolver) string {
	if loc := commaListPattern.FindStringSubmatchIndex(expression); loc != nil {
		label := expression[loc[2]:loc[3]]
		op := normalizeOperator(expression[loc[4]:loc[5]])
		segment := expression[loc[0]:loc[1]]

		var values []string
		for _, m := range quotedValuePattern.FindAllStringSubmatch(segment, -1) {
			values = append(values, m[1])
		}
		return joinConditions(resolveQuestion(label, r), op, label, values, r)
	}

	if m := setPattern.FindStringSubmatch(expression); m != nil {
		label := m[1]
		op := normalizeOperator(m[2])

		var values []string
		for _, raw := range strings.Split(m[3], ",") {
			values = append(values, strings.Trim(strings.TrimSpace(raw), `'"`))
		}
		return joinConditions(resolveQuestion(label, r), op, label, values, r)
	}

	if m := singlePattern.FindStringSubmatch(expression); m != nil {
		label := m[1]
		op := normalizeOperator(m[2])
		value := m[3]
		return fmt.Sprintf("%s %s '%s'", resolveQuestion(label, r), op, resolveValue(value, label, r))
	}

	return InvalidExpression
}

func joinConditions(questionID, op, label string, values []string, r Resolver) string {
	conditions := make([]string, 0, len(values))
	for _, value := range values {
		conditions = append(conditions, fmt.Sprintf("%s %s '%s'", questionID, op, resolveValue(value, label, r)))
	}
	// "hide unless different from all" reads as any-of, so !== joins with ||.
	joiner := " && "
	if op == "!==" {
		joiner = " || "
	}
	return "(" + strings.Join(conditions, joiner) + ")"
}

func resolveQuestion(label string, r Resolver) string {
	if uuidShapedPattern.MatchString(label) {
		return label
	}
	return r.ResolveLabel(label)
}

func resolveValue(value, questionLabel string, r Resolver) string {
	if uuidShapedPattern.MatchString(value) {
		return value
	}
	return r.ResolveAnswerConcept(questionLabel, value)
}

func normalizeOperator(op string) string {
	if op == "<>" {
		return "!=="
	}
	return op
}
