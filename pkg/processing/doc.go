// Package processing groups the request analysis stages that run before a
// model is chosen.
//
// # Components
//
//   - conversation: finds the latest user utterance, matches it against the
//     meta and search trigger phrases and detects attachments
//   - complexity: asks the rating model for a 0..1 complexity score, with a
//     length short-circuit for long prompts
//   - content: converts the OpenAI message list into Gemini contents, with
//     system messages folded into user turns
//
// # Usage
//
//	analyzer := conversation.NewAnalyzer(conversation.NewRuleSet(cfg.Routing.Rules))
//	signals := analyzer.Analyze(req.Messages)
//
//	score, err := classifier.Rate(ctx, signals.LastUserText)
//
//	contents := content.NewConverter(logger).Convert(req.Messages)
package processing
