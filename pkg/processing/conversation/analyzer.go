package conversation

import (
	"mercator-hq/switchboard/pkg/config"
	"mercator-hq/switchboard/pkg/proxy/types"
)

const mimePDF = "application/pdf"

// Analyzer extracts routing signals from a conversation.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	rules RuleSet
}

// NewAnalyzer creates an analyzer for the given rule set.
func NewAnalyzer(rules RuleSet) *Analyzer {
	return &Analyzer{rules: rules}
}

// NewAnalyzerFromConfig creates an analyzer from the routing configuration.
func NewAnalyzerFromConfig(cfg *config.RoutingConfig) *Analyzer {
	return NewAnalyzer(NewRuleSet(cfg.Rules))
}

// Analyze computes the signals for messages. Content that is neither text
// nor blocks yields empty text rather than an error.
func (a *Analyzer) Analyze(messages []types.Message) Signals {
	var sig Signals

	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		if msg.Role != types.RoleUser {
			continue
		}

		switch msg.Content.Kind() {
		case types.ContentText:
			sig.LastUserText = msg.Content.Text()
		case types.ContentBlocks:
			for _, block := range msg.Content.Blocks() {
				switch block.Type {
				case types.BlockImageURL:
					sig.HasImage = true
				case types.BlockFile, types.BlockDocument:
					if block.MimeType == mimePDF {
						sig.HasPDF = true
					}
				case types.BlockText:
					// Only the last text block counts.
					sig.LastUserText = block.Text
				}
			}
		}
		break
	}

	sig.IsMeta = a.rules.Matches(config.CategoryMeta, sig.LastUserText)
	sig.IsSearch = a.rules.Matches(config.CategorySearch, sig.LastUserText)
	return sig
}
