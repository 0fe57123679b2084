package content

import (
	"encoding/base64"
	"log/slog"
	"strings"
	"unicode/utf8"

	"mercator-hq/switchboard/pkg/providers"
	"mercator-hq/switchboard/pkg/proxy/types"
)

// Placeholder texts substituted for content that cannot be forwarded.
const (
	PlaceholderInvalidContent = "[Invalid content format]"
	PlaceholderArchive        = "[Archive files not supported]"

	systemPrefix   = "[System]: "
	documentPrefix = "[Document]\n"
	defaultMime    = "text/plain"
)

var archiveMimeTypes = map[string]bool{
	"application/zip":              true,
	"application/x-zip":            true,
	"application/x-zip-compressed": true,
	"application/vnd.rar":          true,
	"application/x-rar":            true,
	"application/x-rar-compressed": true,
	"application/x-7z-compressed":  true,
}

// Converter turns OpenAI messages into provider content.
// It is stateless and safe for concurrent use.
type Converter struct {
	logger *slog.Logger
}

// NewConverter creates a converter. A nil logger uses slog.Default().
func NewConverter(logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{logger: logger}
}

// Convert translates messages in order.
//
// Each run of consecutive system messages becomes one synthetic user turn,
// placed right before the next user turn. A run with no user turn after it
// is placed at the end. User turns that end up with no parts are dropped.
func (c *Converter) Convert(messages []types.Message) []providers.Content {
	out := make([]providers.Content, 0, len(messages))
	var system []string

	flushSystem := func() {
		if len(system) == 0 {
			return
		}
		out = append(out, providers.Content{
			Role:  providers.RoleUser,
			Parts: []providers.Part{providers.TextPart(systemPrefix + strings.Join(system, "\n\n"))},
		})
		system = nil
	}

	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			system = append(system, plainText(msg.Content))

		case types.RoleUser:
			flushSystem()
			if parts := c.userParts(msg.Content); len(parts) > 0 {
				out = append(out, providers.Content{Role: providers.RoleUser, Parts: parts})
			}

		case types.RoleAssistant:
			out = append(out, providers.Content{
				Role:  providers.RoleModel,
				Parts: []providers.Part{providers.TextPart(plainText(msg.Content))},
			})

		default:
			c.logger.Debug("skipping message with unknown role", "role", msg.Role)
		}
	}
	flushSystem()

	return out
}

func (c *Converter) userParts(content types.Content) []providers.Part {
	switch content.Kind() {
	case types.ContentText:
		return []providers.Part{providers.TextPart(content.Text())}
	case types.ContentBlocks:
		parts := make([]providers.Part, 0, len(content.Blocks()))
		for _, block := range content.Blocks() {
			if part, ok := c.blockPart(block); ok {
				parts = append(parts, part)
			}
		}
		return parts
	default:
		return []providers.Part{providers.TextPart(PlaceholderInvalidContent)}
	}
}

func (c *Converter) blockPart(block types.ContentBlock) (providers.Part, bool) {
	switch block.Type {
	case types.BlockText:
		if block.Text == "" {
			return providers.Part{}, false
		}
		return providers.TextPart(block.Text), true

	case types.BlockImageURL:
		mime, data, ok := parseDataURL(block.ImageURL)
		if !ok {
			return providers.Part{}, false
		}
		return providers.InlinePart(mime, data), true

	case types.BlockFile, types.BlockDocument:
		return c.filePart(block)

	default:
		return providers.Part{}, false
	}
}

func (c *Converter) filePart(block types.ContentBlock) (providers.Part, bool) {
	if block.HasText {
		return providers.TextPart(documentPrefix + block.Text), true
	}
	if !block.HasData {
		return providers.Part{}, false
	}

	mime := block.MimeType
	if mime == "" {
		mime = defaultMime
	}

	switch {
	case archiveMimeTypes[mime]:
		return providers.TextPart(PlaceholderArchive), true
	case isInlineMime(mime):
		return providers.InlinePart(mime, block.Data), true
	}

	text, ok := decodeText(block.Data)
	if !ok {
		c.logger.Warn("failed to decode document", "mime_type", mime, "name", block.Name)
		return providers.TextPart("[Failed to read document of type " + mime + "]"), true
	}
	return providers.TextPart("[Document: " + mime + "]\n" + text), true
}

// isInlineMime reports whether the provider accepts mime as inline data.
func isInlineMime(mime string) bool {
	return mime == "application/pdf" ||
		strings.HasPrefix(mime, "image/") ||
		strings.HasPrefix(mime, "video/") ||
		strings.HasPrefix(mime, "audio/")
}

// parseDataURL splits data:<mime>;base64,<payload>.
func parseDataURL(url string) (mime, data string, ok bool) {
	rest, found := strings.CutPrefix(url, "data:")
	if !found {
		return "", "", false
	}
	mime, data, found = strings.Cut(rest, ";base64,")
	if !found || mime == "" {
		return "", "", false
	}
	return mime, data, true
}

// decodeText decodes base64 (padded or not, whitespace ignored) into valid
// UTF-8 text.
func decodeText(data string) (string, bool) {
	data = strings.Join(strings.Fields(data), "")
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(data)
		if err != nil {
			return "", false
		}
	}
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

// plainText returns string content as is and joins the text blocks of block
// content with newlines.
func plainText(content types.Content) string {
	switch content.Kind() {
	case types.ContentText:
		return content.Text()
	case types.ContentBlocks:
		var texts []string
		for _, block := range content.Blocks() {
			if block.Type == types.BlockText && block.Text != "" {
				texts = append(texts, block.Text)
			}
		}
		return strings.Join(texts, "\n")
	default:
		return ""
	}
}
