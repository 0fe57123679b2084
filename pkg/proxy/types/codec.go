package types

import (
	"bytes"
	"encoding/json"
)

// UnmarshalJSON accepts a string, an array of blocks, or anything else. The
// last case yields ContentInvalid rather than an error.
func (c *Content) UnmarshalJSON(data []byte) error {
	*c = Content{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = TextContent(s)
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		blocks := make([]ContentBlock, len(raw))
		for i, r := range raw {
			if err := blocks[i].UnmarshalJSON(r); err != nil {
				return err
			}
		}
		*c = BlockContent(blocks...)
	}
	return nil
}

// MarshalJSON renders text as a string, blocks as an array and invalid
// content as null.
func (c Content) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case ContentText:
		return json.Marshal(c.text)
	case ContentBlocks:
		blocks := c.blocks
		if blocks == nil {
			blocks = []ContentBlock{}
		}
		return json.Marshal(blocks)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a block leniently. Fields of the wrong JSON type are
// treated as absent; a non-object element decodes as an untyped block.
func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	*b = ContentBlock{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	b.Type, _ = stringField(fields, "type")
	b.Text, b.HasText = stringField(fields, "text")
	b.MimeType, _ = stringField(fields, "mime_type")
	b.Name, _ = stringField(fields, "name")

	if raw, ok := fields["image_url"]; ok {
		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil {
			b.ImageURL = obj.URL
		} else {
			var s string
			if json.Unmarshal(raw, &s) == nil {
				b.ImageURL = s
			}
		}
	}

	// "data" wins when it is a non-empty string; "content" is the fallback.
	data1, ok1 := stringField(fields, "data")
	data2, ok2 := stringField(fields, "content")
	switch {
	case ok1 && data1 != "":
		b.Data, b.HasData = data1, true
	case ok2:
		b.Data, b.HasData = data2, true
	case ok1:
		b.Data, b.HasData = data1, true
	}
	return nil
}

// MarshalJSON renders the block in its wire form.
func (b ContentBlock) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": b.Type}
	if b.HasText || (b.Type == BlockText) {
		out["text"] = b.Text
	}
	if b.ImageURL != "" {
		out["image_url"] = map[string]string{"url": b.ImageURL}
	}
	if b.MimeType != "" {
		out["mime_type"] = b.MimeType
	}
	if b.HasData {
		out["data"] = b.Data
	}
	if b.Name != "" {
		out["name"] = b.Name
	}
	return json.Marshal(out)
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
