package message

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	codeserrors "github.com/protomux/claude-codes-go/internal/errors"
)

func TestNewImageBlock_SupportedTypes(t *testing.T) {
	for _, mt := range []MediaType{MediaTypeJPEG, MediaTypePNG, MediaTypeGIF, MediaTypeWebP} {
		block, err := NewImageBlock(mt, "aGVsbG8=")
		require.NoError(t, err)
		require.Equal(t, "image", block.BlockType())
		require.Equal(t, "base64", block.Source.Type)
		require.Equal(t, mt, block.Source.MediaType)
	}
}

func TestNewImageBlock_UnsupportedType(t *testing.T) {
	block, err := NewImageBlock("image/bmp", "aGVsbG8=")
	require.Nil(t, block)

	var mediaErr *codeserrors.UnsupportedMediaTypeError
	require.ErrorAs(t, err, &mediaErr)
	require.Equal(t, "image/bmp", mediaErr.MediaType)
}

func TestMediaType_OpenOnTheWire(t *testing.T) {
	// Unrecognized media types parse fine; only construction restricts them.
	raw := []byte(`{"type":"image","source":{"type":"base64","media_type":"image/avif","data":"x"}}`)

	block, err := UnmarshalContentBlock(raw)
	require.NoError(t, err)

	img, ok := block.(*ImageBlock)
	require.True(t, ok)
	require.Equal(t, MediaType("image/avif"), img.Source.MediaType)
	require.False(t, img.Source.MediaType.Supported())
}

func TestToolResultBlock_StringContent(t *testing.T) {
	raw := []byte(`{"type":"tool_result","tool_use_id":"toolu_1","content":"file1\nfile2"}`)

	var block ToolResultBlock
	require.NoError(t, json.Unmarshal(raw, &block))
	require.Equal(t, "toolu_1", block.ToolUseID)
	require.Len(t, block.Content, 1)

	text, ok := block.Content[0].(*TextBlock)
	require.True(t, ok)
	require.Equal(t, "file1\nfile2", text.Text)
}

func TestToolResultBlock_ArrayContent(t *testing.T) {
	raw := []byte(`{
		"type": "tool_result",
		"tool_use_id": "toolu_1",
		"is_error": true,
		"content": [{"type": "text", "text": "command not found"}]
	}`)

	var block ToolResultBlock
	require.NoError(t, json.Unmarshal(raw, &block))
	require.True(t, block.IsError)
	require.Len(t, block.Content, 1)
}

func TestUnknownBlock_RoundTrip(t *testing.T) {
	raw := []byte(`{"type":"redacted_thinking","data":"EqQBCkYIARgCKkBq"}`)

	block, err := UnmarshalContentBlock(raw)
	require.NoError(t, err)

	unknown, ok := block.(*UnknownBlock)
	require.True(t, ok)
	require.Equal(t, "redacted_thinking", unknown.BlockType())

	out, err := json.Marshal(unknown)
	require.NoError(t, err)
	require.JSONEq(t, string(raw), string(out))
}

func TestUnmarshalContentBlocks_MixedTypes(t *testing.T) {
	raw := []byte(`[
		{"type": "text", "text": "hello"},
		{"type": "tool_use", "id": "toolu_1", "name": "Bash", "input": {"command": "ls"}},
		{"type": "mystery", "payload": 1}
	]`)

	blocks, err := UnmarshalContentBlocks(raw)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	require.IsType(t, &TextBlock{}, blocks[0])
	require.IsType(t, &ToolUseBlock{}, blocks[1])
	require.IsType(t, &UnknownBlock{}, blocks[2])
}
