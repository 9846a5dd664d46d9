package generator

import (
	"fmt"
	"strings"

	"github.com/clinsheet/formgen/pkg/form"
	"github.com/clinsheet/formgen/pkg/normalize"
)

// IdentifierKind distinguishes question identifiers, which are registered
// and kept globally unique within a run, from answer identifiers, which are
// only checked against the registered set.
type IdentifierKind int

const (
	KindQuestion IdentifierKind = iota
	KindAnswer
)

// Registry tracks every question identifier issued during one
// form-generation run, resolves skip-logic label references against them,
// and records renames applied to keep identifiers unique. A Registry belongs
// to exactly one run; the generator constructs a fresh one per GenerateForm
// call so stale state cannot leak between runs.
type Registry struct {
	questions []*registeredQuestion
	renames   []rename
}

type registeredQuestion struct {
	id            string
	originalLabel string
	answers       []form.Answer
}

type rename struct {
	originalLabel string
	finalID       string
}

// NewRegistry returns an empty registry for a single run.
func NewRegistry() *Registry {
	return &Registry{}
}

// Issue derives an identifier from rawText and guarantees it does not
// collide with any identifier issued earlier in the run, suffixing _1, _2, …
// until unique. Answer identifiers that derive to the generic "other" token
// are prefixed with their question's identifier instead. The returned bool
// reports whether the identifier differs from its plain derivation.
func (r *Registry) Issue(rawText string, kind IdentifierKind, contextQuestionID string) (string, bool, string) {
	originalLabel := rawText

	id, modified := normalize.DeriveIdentifier(rawText)
	if kind == KindAnswer && id == "other" {
		id = contextQuestionID + "Other"
		modified = true
	}

	base := id
	for n := 1; r.isTaken(id); n++ {
		id = fmt.Sprintf("%s_%d", base, n)
		modified = true
	}
	if id != base {
		r.recordRename(originalLabel, id)
	}

	if kind == KindQuestion {
		r.questions = append(r.questions, &registeredQuestion{id: id, originalLabel: originalLabel})
	}
	return id, modified, originalLabel
}

// SetAnswers attaches the final answer list of a built question so later
// skip-logic references can resolve answer labels to concepts.
func (r *Registry) SetAnswers(questionID string, answers []form.Answer) {
	for _, q := range r.questions {
		if q.id == questionID {
			q.answers = answers
			return
		}
	}
}

// ResolveLabel maps a question label to its issued identifier. Unregistered
// labels fall back to a fresh, non-registering derivation; a forward
// reference or typo therefore yields a plausible but disconnected
// identifier rather than an error.
func (r *Registry) ResolveLabel(label string) string {
	for _, q := range r.questions {
		if q.originalLabel == label {
			return q.id
		}
	}
	// Rename rewriting replaces bracketed labels with final identifiers, so a
	// reference may already hold an issued identifier verbatim.
	for _, q := range r.questions {
		if q.id == label {
			return q.id
		}
	}
	id, _ := normalize.DeriveIdentifier(label)
	return id
}

// ResolveAnswerConcept finds the concept recorded for answerLabel under the
// question referenced by questionLabel, deriving a fallback token when
// either lookup misses.
func (r *Registry) ResolveAnswerConcept(questionLabel, answerLabel string) string {
	questionID := r.ResolveLabel(questionLabel)
	for _, q := range r.questions {
		if q.id != questionID {
			continue
		}
		for _, answer := range q.answers {
			if answer.Label == answerLabel {
				return answer.Concept
			}
		}
	}
	id, _ := normalize.DeriveIdentifier(answerLabel)
	return id
}

// recordRename stores the mapping from a label to its final identifier. A
// label renamed more than once keeps only the most recent identifier.
func (r *Registry) recordRename(label, finalID string) {
	for i := range r.renames {
		if r.renames[i].originalLabel == label {
			r.renames[i].finalID = finalID
			return
		}
	}
	r.renames = append(r.renames, rename{originalLabel: label, finalID: finalID})
}

// RewriteRenamedLabels replaces bracketed references to labels the registry
// has renamed with their final identifiers. Skip-logic text is rewritten
// this way before compilation.
func (r *Registry) RewriteRenamedLabels(expression string) string {
	for _, ren := range r.renames {
		expression = strings.ReplaceAll(expression, "["+ren.originalLabel+"]", "["+ren.finalID+"]")
	}
	return expression
}

func (r *Registry) isTaken(id string) bool {
	for _, q := range r.questions {
		if q.id == id {
			return true
		}
	}
	return false
}
