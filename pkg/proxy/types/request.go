package types

// ChatCompletionRequest represents an OpenAI-compatible chat completion request.
// Only the fields the router acts on are modelled; unknown fields are ignored.
type ChatCompletionRequest struct {
	// Model is the ID of the requested model. "Auto", or any identifier not in
	// the advertised catalog, leaves the choice to the router.
	Model string `json:"model"`

	// Messages is the conversation history as a list of messages.
	Messages []Message `json:"messages"`

	// Stream enables server-sent events (SSE) streaming.
	// Optional, defaults to true when absent.
	Stream *bool `json:"stream,omitempty"`
}

// WantsStream reports whether the caller asked for a streamed response.
// An absent flag means streaming.
func (r *ChatCompletionRequest) WantsStream() bool {
	return r.Stream == nil || *r.Stream
}

// Role values accepted in Message.Role.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	// Role is the author of the message ("system", "user" or "assistant").
	Role string `json:"role"`

	// Content is either plain text or a sequence of content blocks.
	Content Content `json:"content"`
}

// Block types recognized in ContentBlock.Type.
const (
	BlockText     = "text"
	BlockImageURL = "image_url"
	BlockFile     = "file"
	BlockDocument = "document"
)

// ContentBlock is one element of a multimodal message.
//
// The block is a tagged union on Type:
//   - "text": Text
//   - "image_url": ImageURL, a data URL with inline base64 payload or a remote URL
//   - "file"/"document": MimeType with either literal Text or a Data payload
type ContentBlock struct {
	// Type is the block tag.
	Type string

	// Text is the literal text of a text block, or the pre-extracted text of
	// a file block.
	Text string

	// HasText is true when the block carried a string "text" field, even an
	// empty one.
	HasText bool

	// ImageURL is the URL of an image_url block. Both the object form
	// {"url": "..."} and the bare string form are accepted.
	ImageURL string

	// MimeType is the declared media type of a file block.
	MimeType string

	// Data is the raw payload of a file block, from "data" or "content".
	Data string

	// HasData is true when "data" or "content" carried a string.
	HasData bool

	// Name is the optional file name.
	Name string
}

// ContentKind discriminates Content.
type ContentKind int

const (
	// ContentInvalid marks content that is neither a string nor a block array
	// (including a missing or null content field).
	ContentInvalid ContentKind = iota
	// ContentText marks plain string content.
	ContentText
	// ContentBlocks marks an array of content blocks.
	ContentBlocks
)

// Content is the content of a Message: plain text or a block sequence.
// Malformed content decodes successfully as ContentInvalid so that request
// parsing never fails on shape alone.
type Content struct {
	kind   ContentKind
	text   string
	blocks []ContentBlock
}

// TextContent builds plain text content.
func TextContent(text string) Content {
	return Content{kind: ContentText, text: text}
}

// BlockContent builds block content.
func BlockContent(blocks ...ContentBlock) Content {
	return Content{kind: ContentBlocks, blocks: blocks}
}

// Kind returns the content discriminator.
func (c Content) Kind() ContentKind { return c.kind }

// Text returns the plain text of ContentText content, or "".
func (c Content) Text() string { return c.text }

// Blocks returns the blocks of ContentBlocks content, or nil.
func (c Content) Blocks() []ContentBlock { return c.blocks }
