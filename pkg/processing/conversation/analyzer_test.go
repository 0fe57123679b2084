package conversation

import (
	"testing"

	"mercator-hq/switchboard/pkg/config"
	"mercator-hq/switchboard/pkg/proxy/types"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(NewRuleSet(config.DefaultRules()))
}

func userBlocks(blocks ...types.ContentBlock) types.Message {
	return types.Message{Role: types.RoleUser, Content: types.BlockContent(blocks...)}
}

func textBlock(s string) types.ContentBlock {
	return types.ContentBlock{Type: types.BlockText, Text: s, HasText: true}
}

func TestAnalyzer_Analyze(t *testing.T) {
	analyzer := newTestAnalyzer()

	tests := []struct {
		name     string
		messages []types.Message
		want     Signals
	}{
		{
			name: "empty conversation",
			want: Signals{},
		},
		{
			name: "no user message",
			messages: []types.Message{
				{Role: types.RoleSystem, Content: types.TextContent("be nice")},
				{Role: types.RoleAssistant, Content: types.TextContent("hi")},
			},
			want: Signals{},
		},
		{
			name: "plain text is verbatim",
			messages: []types.Message{
				{Role: types.RoleUser, Content: types.TextContent("  What's 2+2?  ")},
			},
			want: Signals{LastUserText: "  What's 2+2?  "},
		},
		{
			name: "most recent user message wins",
			messages: []types.Message{
				{Role: types.RoleUser, Content: types.TextContent("first")},
				{Role: types.RoleAssistant, Content: types.TextContent("reply")},
				{Role: types.RoleUser, Content: types.TextContent("second")},
				{Role: types.RoleAssistant, Content: types.TextContent("trailing")},
			},
			want: Signals{LastUserText: "second"},
		},
		{
			name: "last text block not concatenation",
			messages: []types.Message{
				userBlocks(textBlock("one"), textBlock("two"), textBlock("three")),
			},
			want: Signals{LastUserText: "three"},
		},
		{
			name: "image flag",
			messages: []types.Message{
				userBlocks(textBlock("describe"), types.ContentBlock{Type: types.BlockImageURL, ImageURL: "data:image/png;base64,AAAA"}),
			},
			want: Signals{LastUserText: "describe", HasImage: true},
		},
		{
			name: "pdf flag on file and document",
			messages: []types.Message{
				userBlocks(types.ContentBlock{Type: types.BlockDocument, MimeType: "application/pdf", Data: "JVBER", HasData: true}),
			},
			want: Signals{HasPDF: true},
		},
		{
			name: "non-pdf file does not set pdf flag",
			messages: []types.Message{
				userBlocks(types.ContentBlock{Type: types.BlockFile, MimeType: "text/csv", Data: "YSxi", HasData: true}),
			},
			want: Signals{},
		},
		{
			name: "earlier attachments are ignored",
			messages: []types.Message{
				userBlocks(types.ContentBlock{Type: types.BlockImageURL, ImageURL: "data:image/png;base64,AAAA"}),
				{Role: types.RoleUser, Content: types.TextContent("now text only")},
			},
			want: Signals{LastUserText: "now text only"},
		},
		{
			name: "invalid content degrades to empty",
			messages: []types.Message{
				{Role: types.RoleUser, Content: types.TextContent("older")},
				{Role: types.RoleUser},
			},
			want: Signals{},
		},
		{
			name: "meta phrase",
			messages: []types.Message{
				{Role: types.RoleUser, Content: types.TextContent("### Task:\nGenerate 1-3 broad tags categorizing the main themes")},
			},
			want: Signals{LastUserText: "### Task:\nGenerate 1-3 broad tags categorizing the main themes", IsMeta: true},
		},
		{
			name: "search phrase",
			messages: []types.Message{
				{Role: types.RoleUser, Content: types.TextContent("Respond to the user query using the provided context. Query: x")},
			},
			want: Signals{LastUserText: "Respond to the user query using the provided context. Query: x", IsSearch: true},
		},
		{
			name: "matching is case-sensitive",
			messages: []types.Message{
				{Role: types.RoleUser, Content: types.TextContent("generate a concise title")},
			},
			want: Signals{LastUserText: "generate a concise title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.Analyze(tt.messages)
			if got != tt.want {
				t.Errorf("Analyze() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAnalyzer_BothCategories(t *testing.T) {
	text := "Generate a concise answer. Respond to the user query using the provided context"
	got := newTestAnalyzer().Analyze([]types.Message{{Role: types.RoleUser, Content: types.TextContent(text)}})
	if !got.IsMeta || !got.IsSearch {
		t.Errorf("expected both categories, got %+v", got)
	}
}

func TestRuleSet(t *testing.T) {
	source := map[string][]string{"meta": {"title please"}}
	rs := NewRuleSet(source)
	source["meta"][0] = "changed"

	if !rs.Matches("meta", "a title please b") {
		t.Error("expected match")
	}
	if rs.Matches("meta", "changed") {
		t.Error("rule set must not alias the source map")
	}
	if rs.Matches("unknown", "title please") {
		t.Error("unknown category must not match")
	}
	if NewRuleSet(map[string][]string{"meta": {""}}).Matches("meta", "anything") {
		t.Error("empty phrase must not match everything")
	}
}

func TestSignals_HasAttachment(t *testing.T) {
	if (Signals{}).HasAttachment() {
		t.Error("expected no attachment")
	}
	if !(Signals{HasPDF: true}).HasAttachment() || !(Signals{HasImage: true}).HasAttachment() {
		t.Error("expected attachment")
	}
}
