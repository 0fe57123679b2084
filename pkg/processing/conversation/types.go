package conversation

import "strings"

// Signals is the per-request snapshot the router acts on.
// It is computed once from the message list and never mutated.
type Signals struct {
	// LastUserText is the text of the most recent user message. For block
	// content it is the last text block only.
	LastUserText string

	// HasImage is true when the most recent user message has an image block.
	HasImage bool

	// HasPDF is true when the most recent user message has a file or
	// document block declared as application/pdf.
	HasPDF bool

	// IsMeta marks auxiliary chat tooling requests (titles, tags, follow-ups).
	IsMeta bool

	// IsSearch marks retrieval-augmented prompts.
	IsSearch bool
}

// HasAttachment reports whether the utterance carries an image or PDF.
func (s Signals) HasAttachment() bool {
	return s.HasImage || s.HasPDF
}

// RuleSet maps a category to its literal trigger phrases.
type RuleSet map[string][]string

// NewRuleSet copies rules so later changes to the source do not leak in.
func NewRuleSet(rules map[string][]string) RuleSet {
	rs := make(RuleSet, len(rules))
	for category, phrases := range rules {
		rs[category] = append([]string(nil), phrases...)
	}
	return rs
}

// Matches reports whether text contains any phrase of category.
// Matching is case-sensitive.
func (rs RuleSet) Matches(category, text string) bool {
	if text == "" {
		return false
	}
	for _, phrase := range rs[category] {
		if phrase != "" && strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
