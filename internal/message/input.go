package message

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Input represents one outbound envelope: a single line written to the
// agent's stdin.
type Input interface {
	InputType() string
}

// Compile-time verification that all input types implement Input.
var (
	_ Input = (*UserMessage)(nil)
	_ Input = (*ControlResponse)(nil)
	_ Input = (*ControlRequestOut)(nil)
)

// UserMessage is an outbound conversational turn.
type UserMessage struct {
	Content   []ContentBlock
	SessionID uuid.UUID
}

// InputType implements the Input interface.
func (m *UserMessage) InputType() string { return "user" }

// NewUserMessage builds a single-text-block user message.
func NewUserMessage(text string, sessionID uuid.UUID) *UserMessage {
	return &UserMessage{
		Content:   []ContentBlock{&TextBlock{Type: BlockTypeText, Text: text}},
		SessionID: sessionID,
	}
}

// NewUserMessageBlocks builds a user message from explicit content blocks.
func NewUserMessageBlocks(blocks []ContentBlock, sessionID uuid.UUID) *UserMessage {
	return &UserMessage{Content: blocks, SessionID: sessionID}
}

// NewUserMessageWithImage builds a user message carrying one image and an
// optional caption. The caption text block, when present, precedes the image.
func NewUserMessageWithImage(
	caption string,
	mediaType MediaType,
	base64Data string,
	sessionID uuid.UUID,
) (*UserMessage, error) {
	img, err := NewImageBlock(mediaType, base64Data)
	if err != nil {
		return nil, err
	}

	var blocks []ContentBlock
	if caption != "" {
		blocks = append(blocks, &TextBlock{Type: BlockTypeText, Text: caption})
	}

	blocks = append(blocks, img)

	return &UserMessage{Content: blocks, SessionID: sessionID}, nil
}

// userEnvelope is the wire form of a user message: the content nests under
// a "message" object while the session id stays at the top level.
//
//nolint:tagliatelle // the CLI uses snake_case for JSON fields
type userEnvelope struct {
	Type    string `json:"type"`
	Message struct {
		Role    string         `json:"role"`
		Content []ContentBlock `json:"content"`
	} `json:"message"`
	SessionID string `json:"session_id"`
}

// MarshalJSON implements json.Marshaler.
func (m *UserMessage) MarshalJSON() ([]byte, error) {
	var env userEnvelope
	env.Type = "user"
	env.Message.Role = "user"
	env.Message.Content = m.Content
	env.SessionID = m.SessionID.String()

	return json.Marshal(env)
}

// UnmarshalJSON implements json.Unmarshaler. Useful for round-tripping
// envelopes the agent echoes back.
func (m *UserMessage) UnmarshalJSON(data []byte) error {
	var env struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
		SessionID string `json:"session_id"` //nolint:tagliatelle
	}

	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	blocks, err := UnmarshalContentBlocks(env.Message.Content)
	if err != nil {
		return err
	}

	sessionID, err := uuid.Parse(env.SessionID)
	if err != nil {
		return err
	}

	m.Content = blocks
	m.SessionID = sessionID

	return nil
}

// ControlRequestOut is an outbound control-plane request, used for the tool
// approval handshake. Construct with NewInitializeRequest.
type ControlRequestOut struct {
	RequestID string
	Subtype   string
	Payload   map[string]any
}

// InputType implements the Input interface.
func (m *ControlRequestOut) InputType() string { return "control_request" }

// NewInitializeRequest builds the handshake request that enables the tool
// approval subchannel. The request id must be unique per connection.
func NewInitializeRequest(requestID string) *ControlRequestOut {
	return &ControlRequestOut{
		RequestID: requestID,
		Subtype:   "initialize",
	}
}

// MarshalJSON implements json.Marshaler.
func (m *ControlRequestOut) MarshalJSON() ([]byte, error) {
	request := map[string]any{
		"subtype": m.Subtype,
	}
	for k, v := range m.Payload {
		request[k] = v
	}

	return json.Marshal(map[string]any{
		"type":       "control_request",
		"request_id": m.RequestID,
		"request":    request,
	})
}
