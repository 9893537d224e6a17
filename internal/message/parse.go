package message

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/protomux/claude-codes-go/internal/errors"
)

// ParseOutput converts one wire line into a typed Output.
//
// A failure covers exactly that line: the returned OutputParseError
// preserves the raw bytes and the connection remains usable. Unknown
// envelope types are parse errors too; unknown content block types inside a
// recognized envelope are not (they decode into UnknownBlock).
func ParseOutput(log *slog.Logger, line []byte) (Output, error) {
	log = log.With("component", "output_parser")

	var data map[string]any
	if err := json.Unmarshal(line, &data); err != nil {
		log.Debug("Line is not valid JSON", "error", err)

		return nil, &errors.OutputParseError{Raw: string(line), Err: err}
	}

	msgType, ok := data["type"].(string)
	if !ok {
		log.Debug("Envelope missing 'type' field")

		return nil, &errors.OutputParseError{
			Raw: string(line),
			Err: fmt.Errorf("missing or invalid 'type' field"),
		}
	}

	log.Debug("Parsing output envelope", "envelope_type", msgType)

	var (
		msg Output
		err error
	)

	switch msgType {
	case "system":
		msg, err = parseSystemMessage(data)
	case "assistant":
		msg, err = parseAssistantMessage(data)
	case "user":
		msg, err = parseUserEchoMessage(data)
	case "result":
		msg, err = parseResultMessage(data)
	case "error":
		msg, err = parseAnthropicError(data)
	case "control_request":
		msg, err = parseControlRequest(data)
	case "control_response":
		msg, err = parseControlResponseEcho(data)
	default:
		log.Debug("Unknown envelope type", "envelope_type", msgType)

		err = fmt.Errorf("unknown envelope type %q", msgType)
	}

	if err != nil {
		return nil, &errors.OutputParseError{Raw: string(line), Err: err}
	}

	return msg, nil
}

// parseSystemMessage parses a SystemMessage from raw JSON. Everything beyond
// type and subtype lands in Data so projections like AsInit can pick fields
// without the parser knowing every subtype.
func parseSystemMessage(data map[string]any) (*SystemMessage, error) {
	subtype, ok := data["subtype"].(string)
	if !ok {
		return nil, fmt.Errorf("system message: missing or invalid 'subtype' field")
	}

	msg := &SystemMessage{
		Subtype: subtype,
		Data:    make(map[string]any, len(data)),
	}

	for k, v := range data {
		if k != "type" && k != "subtype" {
			msg.Data[k] = v
		}
	}

	return msg, nil
}

// parseAssistantMessage parses an AssistantMessage from raw JSON.
// The wire format nests role, model, and content under a "message" field.
func parseAssistantMessage(data map[string]any) (*AssistantMessage, error) {
	messageData, ok := data["message"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("assistant message: missing or invalid 'message' field")
	}

	msg := &AssistantMessage{}

	if model, ok := messageData["model"].(string); ok {
		msg.Model = model
	}

	if contentData, ok := messageData["content"]; ok {
		content, err := reparseContentBlocks(contentData)
		if err != nil {
			return nil, fmt.Errorf("assistant message: %w", err)
		}

		msg.Content = content
	}

	// session_id and parent_tool_use_id stay at the top level
	if sessionID, ok := data["session_id"].(string); ok {
		msg.SessionID = sessionID
	}

	if parentToolUseID, ok := data["parent_tool_use_id"].(string); ok {
		msg.ParentToolUseID = &parentToolUseID
	}

	return msg, nil
}

// parseUserEchoMessage parses a user-role envelope emitted by the agent.
func parseUserEchoMessage(data map[string]any) (*UserEchoMessage, error) {
	messageData, ok := data["message"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("user message: missing or invalid 'message' field")
	}

	msg := &UserEchoMessage{}

	contentData, ok := messageData["content"]
	if !ok {
		return nil, fmt.Errorf("user message: missing 'content' field")
	}

	content, err := reparseContentBlocks(contentData)
	if err != nil {
		return nil, fmt.Errorf("user message: %w", err)
	}

	msg.Content = content

	if sessionID, ok := data["session_id"].(string); ok {
		msg.SessionID = sessionID
	}

	if parentToolUseID, ok := data["parent_tool_use_id"].(string); ok {
		msg.ParentToolUseID = &parentToolUseID
	}

	return msg, nil
}

// parseResultMessage parses a ResultMessage from raw JSON.
func parseResultMessage(data map[string]any) (*ResultMessage, error) {
	if _, ok := data["subtype"].(string); !ok {
		return nil, fmt.Errorf("result message: missing or invalid 'subtype' field")
	}

	// Re-marshal and unmarshal to use json struct tags for proper parsing
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	var msg ResultMessage
	if err := json.Unmarshal(jsonBytes, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}

	return &msg, nil
}

// parseAnthropicError parses an API error envelope.
func parseAnthropicError(data map[string]any) (*AnthropicError, error) {
	errorData, ok := data["error"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("error envelope: missing or invalid 'error' field")
	}

	msg := &AnthropicError{}

	if v, ok := errorData["type"].(string); ok {
		msg.ErrType = v
	}

	if v, ok := errorData["message"].(string); ok {
		msg.Message = v
	}

	if v, ok := data["request_id"].(string); ok {
		msg.RequestID = &v
	}

	return msg, nil
}

// parseControlRequest parses an inbound control request.
func parseControlRequest(data map[string]any) (*ControlRequest, error) {
	requestID, ok := data["request_id"].(string)
	if !ok {
		return nil, fmt.Errorf("control request: missing or invalid 'request_id' field")
	}

	requestData, ok := data["request"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("control request: missing or invalid 'request' field")
	}

	msg := &ControlRequest{
		RequestID: requestID,
		Request:   requestData,
	}

	if subtype, ok := requestData["subtype"].(string); ok {
		msg.Subtype = subtype
	}

	return msg, nil
}

// parseControlResponseEcho parses an inbound control response. The wire
// nests subtype and request id under a "response" object.
func parseControlResponseEcho(data map[string]any) (*ControlResponseEcho, error) {
	responseData, ok := data["response"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("control response: missing or invalid 'response' field")
	}

	msg := &ControlResponseEcho{}

	if v, ok := responseData["request_id"].(string); ok {
		msg.RequestID = v
	}

	if v, ok := responseData["subtype"].(string); ok {
		msg.Subtype = v
	}

	if v, ok := responseData["response"].(map[string]any); ok {
		msg.Response = v
	}

	if v, ok := responseData["error"].(string); ok {
		msg.Error = v
	}

	return msg, nil
}

// reparseContentBlocks re-marshals decoded content and runs it through the
// block unmarshaller, so unknown block types keep their raw form.
func reparseContentBlocks(contentData any) ([]ContentBlock, error) {
	jsonBytes, err := json.Marshal(contentData)
	if err != nil {
		return nil, fmt.Errorf("marshal content: %w", err)
	}

	// String content appears on some user echoes; normalize to a text block.
	var text string
	if err := json.Unmarshal(jsonBytes, &text); err == nil {
		return []ContentBlock{&TextBlock{Type: BlockTypeText, Text: text}}, nil
	}

	return UnmarshalContentBlocks(jsonBytes)
}
