package message

// Output represents one inbound envelope: a single line read from the
// agent's stdout.
type Output interface {
	OutputType() string
}

// Compile-time verification that all output types implement Output.
var (
	_ Output = (*SystemMessage)(nil)
	_ Output = (*AssistantMessage)(nil)
	_ Output = (*UserEchoMessage)(nil)
	_ Output = (*ResultMessage)(nil)
	_ Output = (*AnthropicError)(nil)
	_ Output = (*ControlRequest)(nil)
	_ Output = (*ControlResponseEcho)(nil)
)

// SystemMessage is lifecycle metadata from the agent: session init, subagent
// task notifications, and similar. Fields beyond type and subtype are
// preserved in Data.
type SystemMessage struct {
	Subtype string
	Data    map[string]any
}

// OutputType implements the Output interface.
func (m *SystemMessage) OutputType() string { return "system" }

// IsInit reports whether this is a session initialization message.
func (m *SystemMessage) IsInit() bool { return m.Subtype == "init" }

// Init is the projection of a session initialization message.
type Init struct {
	SessionID      string
	Model          string
	Cwd            string
	PermissionMode string
	Tools          []string
}

// AsInit projects an init system message into its typed form. Returns false
// for any other subtype.
func (m *SystemMessage) AsInit() (*Init, bool) {
	if !m.IsInit() {
		return nil, false
	}

	init := &Init{}

	if v, ok := m.Data["session_id"].(string); ok {
		init.SessionID = v
	}

	if v, ok := m.Data["model"].(string); ok {
		init.Model = v
	}

	if v, ok := m.Data["cwd"].(string); ok {
		init.Cwd = v
	}

	if v, ok := m.Data["permissionMode"].(string); ok {
		init.PermissionMode = v
	}

	if rawTools, ok := m.Data["tools"].([]any); ok {
		for _, rawTool := range rawTools {
			if tool, ok := rawTool.(string); ok {
				init.Tools = append(init.Tools, tool)
			}
		}
	}

	return init, true
}

// TaskType identifies what kind of task a subagent notification describes.
type TaskType string

// TaskTypeLocalAgent is an in-process subagent spawned by the Task tool.
const TaskTypeLocalAgent TaskType = "local_agent"

// TaskStarted is the projection of a subagent task_started message. ToolUseID
// links the notification to the Task tool_use block that spawned it.
type TaskStarted struct {
	TaskID    string
	TaskType  TaskType
	ToolUseID string
}

// AsTaskStarted projects a task_started system message into its typed form.
// Returns false for any other subtype.
func (m *SystemMessage) AsTaskStarted() (*TaskStarted, bool) {
	if m.Subtype != "task_started" {
		return nil, false
	}

	task := &TaskStarted{}

	if v, ok := m.Data["task_id"].(string); ok {
		task.TaskID = v
	}

	if v, ok := m.Data["task_type"].(string); ok {
		task.TaskType = TaskType(v)
	}

	if v, ok := m.Data["tool_use_id"].(string); ok {
		task.ToolUseID = v
	}

	return task, true
}

// AssistantMessage is one assistant reply envelope.
type AssistantMessage struct {
	Model           string
	Content         []ContentBlock
	SessionID       string
	ParentToolUseID *string
}

// OutputType implements the Output interface.
func (m *AssistantMessage) OutputType() string { return "assistant" }

// Text concatenates the text blocks of the reply, skipping everything else.
func (m *AssistantMessage) Text() string {
	var out string

	for _, block := range m.Content {
		if text, ok := block.(*TextBlock); ok {
			out += text.Text
		}
	}

	return out
}

// UserEchoMessage is a user-role envelope emitted by the agent itself, such
// as tool results it injects into the transcript.
type UserEchoMessage struct {
	Content         []ContentBlock
	SessionID       string
	ParentToolUseID *string
}

// OutputType implements the Output interface.
func (m *UserEchoMessage) OutputType() string { return "user" }

// Usage contains token usage statistics for a turn.
//
//nolint:tagliatelle // the CLI uses snake_case for JSON fields
type Usage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens,omitempty"`
}

// ResultMessage terminates a turn. Exactly one arrives per completed query.
//
//nolint:tagliatelle // the CLI uses snake_case for JSON fields
type ResultMessage struct {
	Type          string   `json:"type"`
	Subtype       string   `json:"subtype"`
	DurationMs    int      `json:"duration_ms"`
	DurationAPIMs int      `json:"duration_api_ms,omitempty"`
	IsError       bool     `json:"is_error"`
	NumTurns      int      `json:"num_turns"`
	SessionID     string   `json:"session_id"`
	Result        *string  `json:"result,omitempty"`
	TotalCostUSD  *float64 `json:"total_cost_usd,omitempty"`
	Usage         *Usage   `json:"usage,omitempty"`
}

// OutputType implements the Output interface.
func (m *ResultMessage) OutputType() string { return "result" }

// AnthropicError is an API-level error reported by the agent as ordinary
// traffic. It is an envelope, not a Go error: the connection stays healthy
// and the caller decides how to react.
type AnthropicError struct {
	ErrType   string
	Message   string
	RequestID *string
}

// OutputType implements the Output interface.
func (m *AnthropicError) OutputType() string { return "error" }

// IsServerError reports whether the error originated server-side, as opposed
// to invalid requests or client-side quota.
func (m *AnthropicError) IsServerError() bool {
	switch m.ErrType {
	case "api_error", "overloaded_error", "internal_server_error":
		return true
	default:
		return false
	}
}

// IsOverloaded reports whether the API rejected the request due to load.
func (m *AnthropicError) IsOverloaded() bool {
	return m.ErrType == "overloaded_error"
}

// ControlRequest is an inbound control-plane request: the agent asking the
// client for something, correlated by request id. Only visible to raw pump
// consumers; streaming queries never see it.
type ControlRequest struct {
	RequestID string
	Subtype   string
	Request   map[string]any
}

// OutputType implements the Output interface.
func (m *ControlRequest) OutputType() string { return "control_request" }

// ControlResponseEcho is an inbound control_response envelope: the agent
// answering a request the client previously sent.
type ControlResponseEcho struct {
	RequestID string
	Subtype   string
	Response  map[string]any
	Error     string
}

// OutputType implements the Output interface.
func (m *ControlResponseEcho) OutputType() string { return "control_response" }

// IsSuccess reports whether the agent acknowledged the request.
func (m *ControlResponseEcho) IsSuccess() bool { return m.Subtype == "success" }
