// Package permission models the permission updates exchanged on the tool
// approval subchannel: standing rules, mode switches, and the suggestions
// the agent attaches to an approval request.
package permission

import "errors"

// ErrEmptySuggestion indicates a suggestion carried neither rules nor a mode
// and cannot be converted into a permission update.
var ErrEmptySuggestion = errors.New("permission suggestion has neither rules nor a mode")

// Mode represents an agent permission handling mode.
type Mode string

const (
	// ModeDefault uses standard permission prompts.
	ModeDefault Mode = "default"
	// ModeAcceptEdits automatically accepts file edits.
	ModeAcceptEdits Mode = "acceptEdits"
	// ModePlan enables plan mode for implementation planning.
	ModePlan Mode = "plan"
	// ModeBypassPermissions bypasses all permission checks.
	ModeBypassPermissions Mode = "bypassPermissions"
)

// UpdateType represents the kind of permission update.
type UpdateType string

const (
	// UpdateAddRules adds standing permission rules.
	UpdateAddRules UpdateType = "addRules"
	// UpdateSetMode switches the permission mode.
	UpdateSetMode UpdateType = "setMode"
)

// Destination represents where a permission update is stored.
type Destination string

const (
	// DestUserSettings stores in user-level settings.
	DestUserSettings Destination = "userSettings"
	// DestProjectSettings stores in project-level settings.
	DestProjectSettings Destination = "projectSettings"
	// DestLocalSettings stores in local-level settings.
	DestLocalSettings Destination = "localSettings"
	// DestSession stores in the current session only.
	DestSession Destination = "session"
)

// Behavior represents the standing behavior a rule establishes.
type Behavior string

const (
	// BehaviorAllow automatically allows matching tool calls.
	BehaviorAllow Behavior = "allow"
	// BehaviorDeny automatically denies matching tool calls.
	BehaviorDeny Behavior = "deny"
)

// Rule matches a tool, optionally narrowed by rule content.
type Rule struct {
	ToolName    string
	RuleContent *string
}

// Permission is one permission update, either a rule addition or a mode
// switch. Construct values with AllowTool, SetMode, or FromSuggestion.
type Permission struct {
	Type        UpdateType
	Rules       []Rule
	Behavior    *Behavior
	Mode        *Mode
	Destination Destination
}

// AllowTool builds an addRules update allowing the named tool for the
// current session. ruleContent narrows the rule when non-nil.
func AllowTool(toolName string, ruleContent *string) Permission {
	behavior := BehaviorAllow

	return Permission{
		Type:        UpdateAddRules,
		Rules:       []Rule{{ToolName: toolName, RuleContent: ruleContent}},
		Behavior:    &behavior,
		Destination: DestSession,
	}
}

// SetMode builds a setMode update.
func SetMode(mode Mode, dest Destination) Permission {
	return Permission{
		Type:        UpdateSetMode,
		Mode:        &mode,
		Destination: dest,
	}
}

// Suggestion is a permission update proposed by the agent alongside a tool
// approval request. Every field except Destination may be absent.
type Suggestion struct {
	Type        string
	Rules       []Rule
	Behavior    *Behavior
	Mode        *Mode
	Destination *Destination
}

// FromSuggestion converts an agent-proposed suggestion into a concrete
// permission update the client can send back. Rules win over a mode when a
// suggestion carries both. Returns ErrEmptySuggestion when the suggestion
// proposes nothing actionable.
func FromSuggestion(s Suggestion) (Permission, error) {
	dest := DestSession
	if s.Destination != nil {
		dest = *s.Destination
	}

	switch {
	case len(s.Rules) > 0:
		behavior := BehaviorAllow
		if s.Behavior != nil {
			behavior = *s.Behavior
		}

		return Permission{
			Type:        UpdateAddRules,
			Rules:       s.Rules,
			Behavior:    &behavior,
			Destination: dest,
		}, nil
	case s.Mode != nil:
		return Permission{
			Type:        UpdateSetMode,
			Mode:        s.Mode,
			Destination: dest,
		}, nil
	default:
		return Permission{}, ErrEmptySuggestion
	}
}

// ToWire converts the Permission to its wire map.
func (p Permission) ToWire() map[string]any {
	result := make(map[string]any, 4)
	result["type"] = string(p.Type)
	result["destination"] = string(p.Destination)

	if len(p.Rules) > 0 {
		rules := make([]map[string]any, len(p.Rules))
		for i, rule := range p.Rules {
			ruleMap := map[string]any{
				"toolName": rule.ToolName,
			}
			if rule.RuleContent != nil {
				ruleMap["ruleContent"] = *rule.RuleContent
			}

			rules[i] = ruleMap
		}

		result["rules"] = rules
	}

	if p.Behavior != nil {
		result["behavior"] = string(*p.Behavior)
	}

	if p.Mode != nil {
		result["mode"] = string(*p.Mode)
	}

	return result
}

// SuggestionFromMap decodes a suggestion from its raw wire map. Fields with
// unexpected shapes are dropped rather than failing the whole payload.
func SuggestionFromMap(data map[string]any) Suggestion {
	var s Suggestion

	if v, ok := data["type"].(string); ok {
		s.Type = v
	}

	if v, ok := data["behavior"].(string); ok {
		behavior := Behavior(v)
		s.Behavior = &behavior
	}

	if v, ok := data["mode"].(string); ok {
		mode := Mode(v)
		s.Mode = &mode
	}

	if v, ok := data["destination"].(string); ok {
		dest := Destination(v)
		s.Destination = &dest
	}

	if rawRules, ok := data["rules"].([]any); ok {
		for _, rawRule := range rawRules {
			ruleMap, ok := rawRule.(map[string]any)
			if !ok {
				continue
			}

			var rule Rule
			if v, ok := ruleMap["toolName"].(string); ok {
				rule.ToolName = v
			}

			if v, ok := ruleMap["ruleContent"].(string); ok {
				rule.RuleContent = &v
			}

			s.Rules = append(s.Rules, rule)
		}
	}

	return s
}
