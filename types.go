package claudecodes

import (
	"github.com/google/uuid"

	"github.com/protomux/claude-codes-go/internal/engine"
	"github.com/protomux/claude-codes-go/internal/message"
	"github.com/protomux/claude-codes-go/internal/permission"
	"github.com/protomux/claude-codes-go/internal/session"
)

// Re-export types from internal packages

// ===== Envelopes =====

// Input is one outbound envelope: a single line written to the agent.
type Input = message.Input

// Output is one inbound envelope: a single line read from the agent.
type Output = message.Output

// UserMessage is an outbound conversational turn.
type UserMessage = message.UserMessage

// SystemMessage is lifecycle metadata from the agent.
type SystemMessage = message.SystemMessage

// Init is the typed projection of a session initialization message.
type Init = message.Init

// TaskStarted is the typed projection of a subagent task notification.
type TaskStarted = message.TaskStarted

// TaskType identifies what kind of task a subagent notification describes.
type TaskType = message.TaskType

// TaskTypeLocalAgent is an in-process subagent spawned by the Task tool.
const TaskTypeLocalAgent = message.TaskTypeLocalAgent

// AssistantMessage is one assistant reply envelope.
type AssistantMessage = message.AssistantMessage

// UserEchoMessage is a user-role envelope emitted by the agent itself.
type UserEchoMessage = message.UserEchoMessage

// ResultMessage terminates a turn.
type ResultMessage = message.ResultMessage

// Usage contains token usage statistics for a turn.
type Usage = message.Usage

// AnthropicError is an API-level error delivered as ordinary traffic.
type AnthropicError = message.AnthropicError

// ControlRequest is an inbound control-plane request from the agent.
type ControlRequest = message.ControlRequest

// ControlResponse is an outbound control-plane answer.
type ControlResponse = message.ControlResponse

// ControlResponseEcho is the agent's acknowledgement of a control request.
type ControlResponseEcho = message.ControlResponseEcho

// CanUseToolRequest is the tool approval payload of a control request.
type CanUseToolRequest = message.CanUseToolRequest

// ===== Content Blocks =====

// ContentBlock represents a block of content within a message.
type ContentBlock = message.ContentBlock

// TextBlock contains plain text content.
type TextBlock = message.TextBlock

// ThinkingBlock contains the model's thinking process.
type ThinkingBlock = message.ThinkingBlock

// ToolUseBlock represents the agent invoking a tool.
type ToolUseBlock = message.ToolUseBlock

// ToolResultBlock carries a tool execution result.
type ToolResultBlock = message.ToolResultBlock

// ImageBlock carries base64-encoded image data.
type ImageBlock = message.ImageBlock

// ImageSource is the nested source object of an ImageBlock.
type ImageSource = message.ImageSource

// UnknownBlock preserves a content block of an unrecognized type.
type UnknownBlock = message.UnknownBlock

// MediaType is an image MIME type, open on the wire and restricted only at
// construction time.
type MediaType = message.MediaType

// Media types the agent accepts for outbound images.
const (
	MediaTypeJPEG = message.MediaTypeJPEG
	MediaTypePNG  = message.MediaTypePNG
	MediaTypeGIF  = message.MediaTypeGIF
	MediaTypeWebP = message.MediaTypeWebP
)

// NewUserMessage builds a single-text-block user message.
func NewUserMessage(text string, sessionID uuid.UUID) *UserMessage {
	return message.NewUserMessage(text, sessionID)
}

// NewUserMessageBlocks builds a user message from explicit content blocks.
func NewUserMessageBlocks(blocks []ContentBlock, sessionID uuid.UUID) *UserMessage {
	return message.NewUserMessageBlocks(blocks, sessionID)
}

// NewUserMessageWithImage builds a user message carrying one image and an
// optional caption.
func NewUserMessageWithImage(
	caption string,
	mediaType MediaType,
	base64Data string,
	sessionID uuid.UUID,
) (*UserMessage, error) {
	return message.NewUserMessageWithImage(caption, mediaType, base64Data, sessionID)
}

// NewImageBlock builds an image block, rejecting unsupported media types.
func NewImageBlock(mediaType MediaType, base64Data string) (*ImageBlock, error) {
	return message.NewImageBlock(mediaType, base64Data)
}

// ===== Permissions =====

// Permission is one permission update: a rule addition or a mode switch.
type Permission = permission.Permission

// PermissionSuggestion is an update proposed by the agent alongside a tool
// approval request.
type PermissionSuggestion = permission.Suggestion

// PermissionRule matches a tool, optionally narrowed by rule content.
type PermissionRule = permission.Rule

// PermissionMode represents an agent permission handling mode.
type PermissionMode = permission.Mode

const (
	// PermissionModeDefault uses standard permission prompts.
	PermissionModeDefault = permission.ModeDefault
	// PermissionModeAcceptEdits automatically accepts file edits.
	PermissionModeAcceptEdits = permission.ModeAcceptEdits
	// PermissionModePlan enables plan mode.
	PermissionModePlan = permission.ModePlan
	// PermissionModeBypassPermissions bypasses all permission checks.
	PermissionModeBypassPermissions = permission.ModeBypassPermissions
)

// PermissionDestination represents where a permission update is stored.
type PermissionDestination = permission.Destination

const (
	// PermissionDestUserSettings stores in user-level settings.
	PermissionDestUserSettings = permission.DestUserSettings
	// PermissionDestProjectSettings stores in project-level settings.
	PermissionDestProjectSettings = permission.DestProjectSettings
	// PermissionDestLocalSettings stores in local-level settings.
	PermissionDestLocalSettings = permission.DestLocalSettings
	// PermissionDestSession stores in the current session only.
	PermissionDestSession = permission.DestSession
)

// AllowTool builds an addRules update allowing the named tool for the
// current session.
func AllowTool(toolName string, ruleContent *string) Permission {
	return permission.AllowTool(toolName, ruleContent)
}

// SetPermissionMode builds a setMode update.
func SetPermissionMode(mode PermissionMode, dest PermissionDestination) Permission {
	return permission.SetMode(mode, dest)
}

// PermissionFromSuggestion converts an agent-proposed suggestion into a
// concrete permission update.
func PermissionFromSuggestion(s PermissionSuggestion) (Permission, error) {
	return permission.FromSuggestion(s)
}

// ===== Session Tracking =====

// SessionTracker observes outputs and maintains session identity, reset,
// and subagent lifecycle state.
type SessionTracker = session.Tracker

// TaskRecord tracks one Task tool invocation and its subagent.
type TaskRecord = session.TaskRecord

// Anomaly reports a lifecycle irregularity observed at turn end.
type Anomaly = session.Anomaly

// ===== Transport =====

// Pipes bundles the stdio halves of an agent process plus an optional
// handle to the process itself.
type Pipes = engine.Pipes

// ProcessHandle exposes the lifecycle of the agent process behind the pipes.
type ProcessHandle = engine.ProcessHandle
