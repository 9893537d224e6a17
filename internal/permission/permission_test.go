package permission

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowTool_Wire(t *testing.T) {
	rule := "npm test"
	perm := AllowTool("Bash", &rule)

	wire := perm.ToWire()
	require.Equal(t, "addRules", wire["type"])
	require.Equal(t, "session", wire["destination"])
	require.Equal(t, "allow", wire["behavior"])

	rules, ok := wire["rules"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, rules, 1)
	require.Equal(t, "Bash", rules[0]["toolName"])
	require.Equal(t, "npm test", rules[0]["ruleContent"])
}

func TestAllowTool_NoRuleContent(t *testing.T) {
	perm := AllowTool("Read", nil)

	wire := perm.ToWire()
	rules, ok := wire["rules"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, rules, 1)
	require.Equal(t, "Read", rules[0]["toolName"])
	require.NotContains(t, rules[0], "ruleContent")
}

func TestSetMode_Wire(t *testing.T) {
	perm := SetMode(ModeAcceptEdits, DestSession)

	wire := perm.ToWire()
	require.Equal(t, "setMode", wire["type"])
	require.Equal(t, "acceptEdits", wire["mode"])
	require.Equal(t, "session", wire["destination"])
	require.NotContains(t, wire, "rules")
	require.NotContains(t, wire, "behavior")
}

func TestFromSuggestion_Rules(t *testing.T) {
	content := "git status"
	s := Suggestion{
		Type:  "addRules",
		Rules: []Rule{{ToolName: "Bash", RuleContent: &content}},
	}

	perm, err := FromSuggestion(s)
	require.NoError(t, err)
	require.Equal(t, UpdateAddRules, perm.Type)
	require.Len(t, perm.Rules, 1)
	require.Equal(t, "Bash", perm.Rules[0].ToolName)
	require.NotNil(t, perm.Behavior)
	require.Equal(t, BehaviorAllow, *perm.Behavior)
	require.Equal(t, DestSession, perm.Destination)
}

func TestFromSuggestion_ModeOnly(t *testing.T) {
	mode := ModePlan
	dest := DestProjectSettings
	s := Suggestion{Mode: &mode, Destination: &dest}

	perm, err := FromSuggestion(s)
	require.NoError(t, err)
	require.Equal(t, UpdateSetMode, perm.Type)
	require.NotNil(t, perm.Mode)
	require.Equal(t, ModePlan, *perm.Mode)
	require.Equal(t, DestProjectSettings, perm.Destination)
}

func TestFromSuggestion_RulesWinOverMode(t *testing.T) {
	mode := ModeAcceptEdits
	deny := BehaviorDeny
	s := Suggestion{
		Rules:    []Rule{{ToolName: "Write"}},
		Behavior: &deny,
		Mode:     &mode,
	}

	perm, err := FromSuggestion(s)
	require.NoError(t, err)
	require.Equal(t, UpdateAddRules, perm.Type)
	require.Equal(t, BehaviorDeny, *perm.Behavior)
}

func TestFromSuggestion_Empty(t *testing.T) {
	_, err := FromSuggestion(Suggestion{Type: "addRules"})
	require.ErrorIs(t, err, ErrEmptySuggestion)
}

func TestSuggestionFromMap(t *testing.T) {
	data := map[string]any{
		"type":        "addRules",
		"behavior":    "allow",
		"destination": "localSettings",
		"rules": []any{
			map[string]any{"toolName": "Bash", "ruleContent": "ls"},
			map[string]any{"toolName": "Read"},
			"not a rule",
		},
	}

	s := SuggestionFromMap(data)
	require.Equal(t, "addRules", s.Type)
	require.NotNil(t, s.Behavior)
	require.Equal(t, BehaviorAllow, *s.Behavior)
	require.NotNil(t, s.Destination)
	require.Equal(t, DestLocalSettings, *s.Destination)
	require.Len(t, s.Rules, 2)
	require.Equal(t, "Bash", s.Rules[0].ToolName)
	require.NotNil(t, s.Rules[0].RuleContent)
	require.Equal(t, "ls", *s.Rules[0].RuleContent)
	require.Nil(t, s.Rules[1].RuleContent)
}

func TestSuggestionFromMap_MalformedFieldsDropped(t *testing.T) {
	s := SuggestionFromMap(map[string]any{
		"type":  42,
		"mode":  true,
		"rules": "nope",
	})

	require.Empty(t, s.Type)
	require.Nil(t, s.Mode)
	require.Empty(t, s.Rules)
}
