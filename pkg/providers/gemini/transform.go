package gemini

import (
	"encoding/json"

	"mercator-hq/switchboard/pkg/providers"
)

// GenerateRequest is the generateContent / streamGenerateContent body.
type GenerateRequest struct {
	Contents         []providers.Content        `json:"contents"`
	GenerationConfig providers.GenerationConfig `json:"generationConfig"`
}

// GenerateResponse is a generateContent reply, and also the payload of each
// event in a streamGenerateContent SSE stream.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated alternative.
type Candidate struct {
	Content      providers.Content `json:"content"`
	FinishReason string            `json:"finishReason,omitempty"`
}

// Text returns the text of the first part of the first candidate.
// ok is false when the response has no such part.
func (r *GenerateResponse) Text() (text string, ok bool) {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return "", false
	}
	return r.Candidates[0].Content.Parts[0].Text, true
}

// parseResponse decodes a reply body and extracts its text.
func parseResponse(data []byte) (string, error) {
	var resp GenerateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}
	text, ok := resp.Text()
	if !ok {
		return "", errNoCandidates
	}
	return text, nil
}

// userText wraps plain text as a single user turn.
func userText(text string) []providers.Content {
	return []providers.Content{{
		Role:  providers.RoleUser,
		Parts: []providers.Part{providers.TextPart(text)},
	}}
}
