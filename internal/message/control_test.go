package message

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/protomux/claude-codes-go/internal/permission"
)

func canUseToolFixture(t *testing.T) *CanUseToolRequest {
	t.Helper()

	line := []byte(`{
		"type": "control_request",
		"request_id": "req_42",
		"request": {
			"subtype": "can_use_tool",
			"tool_name": "Bash",
			"input": {"command": "rm -rf /tmp/x"},
			"permission_suggestions": [
				{"type": "addRules", "rules": [{"toolName": "Bash"}], "behavior": "allow"}
			]
		}
	}`)

	out, err := ParseOutput(testLogger(), line)
	require.NoError(t, err)

	ctrl, ok := out.(*ControlRequest)
	require.True(t, ok)

	req, ok := ctrl.AsCanUseTool()
	require.True(t, ok)

	return req
}

func TestCanUseTool_Allow(t *testing.T) {
	req := canUseToolFixture(t)

	resp := req.Allow()
	require.Equal(t, "control_response", resp.InputType())

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"type": "control_response",
		"response": {
			"subtype": "success",
			"request_id": "req_42",
			"response": {"behavior": "allow"}
		}
	}`, string(out))
}

func TestCanUseTool_Deny(t *testing.T) {
	req := canUseToolFixture(t)

	out, err := json.Marshal(req.Deny("too dangerous"))
	require.NoError(t, err)
	require.JSONEq(t, `{
		"type": "control_response",
		"response": {
			"subtype": "success",
			"request_id": "req_42",
			"response": {"behavior": "deny", "message": "too dangerous"}
		}
	}`, string(out))
}

func TestCanUseTool_AllowAndRemember(t *testing.T) {
	req := canUseToolFixture(t)

	resp := req.AllowAndRemember(permission.AllowTool("Bash", nil))

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"type": "control_response",
		"response": {
			"subtype": "success",
			"request_id": "req_42",
			"response": {
				"behavior": "allow",
				"updatedPermissions": [{
					"type": "addRules",
					"rules": [{"toolName": "Bash"}],
					"behavior": "allow",
					"destination": "session"
				}]
			}
		}
	}`, string(out))
}

func TestCanUseTool_AllowAndRememberSuggestion(t *testing.T) {
	req := canUseToolFixture(t)

	resp, err := req.AllowAndRememberSuggestion()
	require.NoError(t, err)
	require.Equal(t, "req_42", resp.RequestID)

	updated, ok := resp.Payload["updatedPermissions"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, updated, 1)
	require.Equal(t, "addRules", updated[0]["type"])
}

func TestCanUseTool_AllowAndRememberSuggestion_NoSuggestions(t *testing.T) {
	req := &CanUseToolRequest{RequestID: "req_1", ToolName: "Read"}

	_, err := req.AllowAndRememberSuggestion()
	require.ErrorIs(t, err, permission.ErrEmptySuggestion)
}
