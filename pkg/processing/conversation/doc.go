// Package conversation extracts routing signals from an incoming
// conversation.
//
// The analyzer looks at the most recent user message only:
//
//   - LastUserText: the plain text, or the last text block of block content
//   - HasImage / HasPDF: attachment flags for that message
//   - IsMeta / IsSearch: keyword classification of LastUserText
//
// Keyword classification is data-driven. A RuleSet maps a category to the
// literal phrases that trigger it:
//
//	rules := conversation.NewRuleSet(map[string][]string{
//		"meta":   {"Generate 1-3 broad tags"},
//		"search": {"generating search queries"},
//	})
//	sig := conversation.NewAnalyzer(rules).Analyze(req.Messages)
//
package conversation
