package message

import (
	"encoding/json"

	"github.com/protomux/claude-codes-go/internal/permission"
)

// CanUseToolRequest is the tool approval payload of an inbound control
// request: the agent asking whether it may run a tool.
type CanUseToolRequest struct {
	RequestID      string
	ToolName       string
	Input          map[string]any
	Suggestions    []permission.Suggestion
	DecisionReason *string
	ToolUseID      *string
}

// AsCanUseTool projects a can_use_tool control request into its typed
// payload. Returns false for any other subtype.
func (m *ControlRequest) AsCanUseTool() (*CanUseToolRequest, bool) {
	if m.Subtype != "can_use_tool" {
		return nil, false
	}

	req := &CanUseToolRequest{RequestID: m.RequestID}

	if v, ok := m.Request["tool_name"].(string); ok {
		req.ToolName = v
	}

	if v, ok := m.Request["input"].(map[string]any); ok {
		req.Input = v
	}

	if v, ok := m.Request["decision_reason"].(string); ok {
		req.DecisionReason = &v
	}

	if v, ok := m.Request["tool_use_id"].(string); ok {
		req.ToolUseID = &v
	}

	if rawSuggestions, ok := m.Request["permission_suggestions"].([]any); ok {
		for _, rawSuggestion := range rawSuggestions {
			suggestionMap, ok := rawSuggestion.(map[string]any)
			if !ok {
				continue
			}

			req.Suggestions = append(req.Suggestions, permission.SuggestionFromMap(suggestionMap))
		}
	}

	return req, true
}

// ControlResponse is an outbound control-plane answer, correlated to the
// originating request by its echoed request id. Construct values with the
// decision helpers on CanUseToolRequest.
type ControlResponse struct {
	RequestID string
	Subtype   string
	Payload   map[string]any
}

// InputType implements the Input interface.
func (m *ControlResponse) InputType() string { return "control_response" }

// MarshalJSON implements json.Marshaler. The answer nests twice on the wire:
// an outer response object carrying subtype and request id, and an inner
// response object carrying the decision payload.
func (m *ControlResponse) MarshalJSON() ([]byte, error) {
	response := map[string]any{
		"subtype":    m.Subtype,
		"request_id": m.RequestID,
	}
	if m.Payload != nil {
		response["response"] = m.Payload
	}

	return json.Marshal(map[string]any{
		"type":     "control_response",
		"response": response,
	})
}

// Allow approves the tool call with its input unchanged.
func (r *CanUseToolRequest) Allow() *ControlResponse {
	return &ControlResponse{
		RequestID: r.RequestID,
		Subtype:   "success",
		Payload: map[string]any{
			"behavior": "allow",
		},
	}
}

// Deny rejects the tool call with a reason the agent relays to the model.
func (r *CanUseToolRequest) Deny(reason string) *ControlResponse {
	return &ControlResponse{
		RequestID: r.RequestID,
		Subtype:   "success",
		Payload: map[string]any{
			"behavior": "deny",
			"message":  reason,
		},
	}
}

// AllowAndRemember approves the tool call and establishes standing
// permission updates so the agent stops asking.
func (r *CanUseToolRequest) AllowAndRemember(perms ...permission.Permission) *ControlResponse {
	updated := make([]map[string]any, len(perms))
	for i, perm := range perms {
		updated[i] = perm.ToWire()
	}

	return &ControlResponse{
		RequestID: r.RequestID,
		Subtype:   "success",
		Payload: map[string]any{
			"behavior":           "allow",
			"updatedPermissions": updated,
		},
	}
}

// AllowAndRememberSuggestion approves the tool call and adopts the first
// actionable suggestion the agent attached to the request. Returns
// permission.ErrEmptySuggestion when no suggestion can be converted.
func (r *CanUseToolRequest) AllowAndRememberSuggestion() (*ControlResponse, error) {
	var lastErr error = permission.ErrEmptySuggestion

	for _, s := range r.Suggestions {
		perm, err := permission.FromSuggestion(s)
		if err != nil {
			lastErr = err

			continue
		}

		return r.AllowAndRemember(perm), nil
	}

	return nil, lastErr
}
