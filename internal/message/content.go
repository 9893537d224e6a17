// Package message defines the wire envelopes exchanged with the agent
// process: outbound inputs, inbound outputs, and the content blocks carried
// inside both.
package message

import (
	"encoding/json"

	"github.com/protomux/claude-codes-go/internal/errors"
)

// Block type constants.
const (
	BlockTypeText       = "text"
	BlockTypeThinking   = "thinking"
	BlockTypeToolUse    = "tool_use"
	BlockTypeToolResult = "tool_result"
	BlockTypeImage      = "image"
)

// ContentBlock represents a block of content within a message.
type ContentBlock interface {
	BlockType() string
}

// Compile-time verification that all content block types implement ContentBlock.
var (
	_ ContentBlock = (*TextBlock)(nil)
	_ ContentBlock = (*ThinkingBlock)(nil)
	_ ContentBlock = (*ToolUseBlock)(nil)
	_ ContentBlock = (*ToolResultBlock)(nil)
	_ ContentBlock = (*ImageBlock)(nil)
	_ ContentBlock = (*UnknownBlock)(nil)
)

// TextBlock contains plain text content.
type TextBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// BlockType implements the ContentBlock interface.
func (b *TextBlock) BlockType() string { return BlockTypeText }

// ThinkingBlock contains the model's thinking process.
type ThinkingBlock struct {
	Type      string `json:"type"`
	Thinking  string `json:"thinking"`
	Signature string `json:"signature,omitempty"`
}

// BlockType implements the ContentBlock interface.
func (b *ThinkingBlock) BlockType() string { return BlockTypeThinking }

// ToolUseBlock represents the agent invoking a tool.
type ToolUseBlock struct {
	Type  string         `json:"type"`
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// BlockType implements the ContentBlock interface.
func (b *ToolUseBlock) BlockType() string { return BlockTypeToolUse }

// ToolResultBlock carries the result of a tool execution back to the agent.
//
//nolint:tagliatelle // the CLI uses snake_case for JSON fields
type ToolResultBlock struct {
	Type      string         `json:"type"`
	ToolUseID string         `json:"tool_use_id"`
	Content   []ContentBlock `json:"content,omitempty"`
	IsError   bool           `json:"is_error,omitempty"`
}

// BlockType implements the ContentBlock interface.
func (b *ToolResultBlock) BlockType() string { return BlockTypeToolResult }

// UnmarshalJSON implements json.Unmarshaler for ToolResultBlock.
// Handles both string content and array content.
func (b *ToolResultBlock) UnmarshalJSON(data []byte) error {
	type Alias ToolResultBlock

	aux := &struct {
		Content json.RawMessage `json:"content,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(b),
	}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if len(aux.Content) == 0 || string(aux.Content) == "null" {
		return nil
	}

	// Try string first
	var text string
	if err := json.Unmarshal(aux.Content, &text); err == nil {
		b.Content = []ContentBlock{&TextBlock{Type: BlockTypeText, Text: text}}

		return nil
	}

	// Try array of blocks
	var rawBlocks []json.RawMessage
	if err := json.Unmarshal(aux.Content, &rawBlocks); err != nil {
		return err
	}

	b.Content = make([]ContentBlock, 0, len(rawBlocks))

	for _, raw := range rawBlocks {
		block, err := UnmarshalContentBlock(raw)
		if err != nil {
			return err
		}

		b.Content = append(b.Content, block)
	}

	return nil
}

// ImageBlock carries base64-encoded image data.
//
//nolint:tagliatelle // the CLI uses snake_case for JSON fields
type ImageBlock struct {
	Type   string      `json:"type"`
	Source ImageSource `json:"source"`
}

// ImageSource is the nested source object of an ImageBlock.
//
//nolint:tagliatelle // the CLI uses snake_case for JSON fields
type ImageSource struct {
	Type      string    `json:"type"`
	MediaType MediaType `json:"media_type"`
	Data      string    `json:"data"`
}

// BlockType implements the ContentBlock interface.
func (b *ImageBlock) BlockType() string { return BlockTypeImage }

// NewImageBlock builds an image block from base64 data, rejecting media
// types the agent does not accept. Inbound traffic is never validated this
// way; any media type string survives a parse round trip.
func NewImageBlock(mediaType MediaType, base64Data string) (*ImageBlock, error) {
	if !mediaType.Supported() {
		return nil, &errors.UnsupportedMediaTypeError{MediaType: string(mediaType)}
	}

	return &ImageBlock{
		Type: BlockTypeImage,
		Source: ImageSource{
			Type:      "base64",
			MediaType: mediaType,
			Data:      base64Data,
		},
	}, nil
}

// UnknownBlock preserves a content block whose type this module does not
// recognize. The raw JSON survives a marshal round trip byte for byte.
type UnknownBlock struct {
	TypeName string
	Raw      json.RawMessage
}

// BlockType implements the ContentBlock interface.
func (b *UnknownBlock) BlockType() string { return b.TypeName }

// MarshalJSON implements json.Marshaler; the original wire bytes are
// re-emitted unchanged.
func (b *UnknownBlock) MarshalJSON() ([]byte, error) {
	return b.Raw, nil
}

// UnmarshalContentBlock unmarshals a single content block from JSON.
// Unrecognized block types decode into UnknownBlock rather than failing,
// so a single new block type never poisons a whole envelope.
func UnmarshalContentBlock(data []byte) (ContentBlock, error) {
	var typeHolder struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &typeHolder); err != nil {
		return nil, err
	}

	switch typeHolder.Type {
	case BlockTypeText:
		var block TextBlock
		if err := json.Unmarshal(data, &block); err != nil {
			return nil, err
		}

		return &block, nil
	case BlockTypeThinking:
		var block ThinkingBlock
		if err := json.Unmarshal(data, &block); err != nil {
			return nil, err
		}

		return &block, nil
	case BlockTypeToolUse:
		var block ToolUseBlock
		if err := json.Unmarshal(data, &block); err != nil {
			return nil, err
		}

		return &block, nil
	case BlockTypeToolResult:
		var block ToolResultBlock
		if err := json.Unmarshal(data, &block); err != nil {
			return nil, err
		}

		return &block, nil
	case BlockTypeImage:
		var block ImageBlock
		if err := json.Unmarshal(data, &block); err != nil {
			return nil, err
		}

		return &block, nil
	default:
		raw := make(json.RawMessage, len(data))
		copy(raw, data)

		return &UnknownBlock{TypeName: typeHolder.Type, Raw: raw}, nil
	}
}

// UnmarshalContentBlocks unmarshals an array of content blocks.
func UnmarshalContentBlocks(data []byte) ([]ContentBlock, error) {
	var rawBlocks []json.RawMessage
	if err := json.Unmarshal(data, &rawBlocks); err != nil {
		return nil, err
	}

	blocks := make([]ContentBlock, 0, len(rawBlocks))

	for _, raw := range rawBlocks {
		block, err := UnmarshalContentBlock(raw)
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, block)
	}

	return blocks, nil
}
