package claudecodes

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// The root package re-exports the internal types; these tests pin the
// public surface a consumer actually compiles against.

func TestPublicSurface_Messages(t *testing.T) {
	sessionID := uuid.New()

	msg := NewUserMessage("hello", sessionID)
	require.Equal(t, "user", msg.InputType())

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.Contains(t, string(data), sessionID.String())
}

func TestPublicSurface_ImageValidation(t *testing.T) {
	_, err := NewImageBlock(MediaTypeWebP, "aGVsbG8=")
	require.NoError(t, err)

	_, err = NewImageBlock("image/svg+xml", "PHN2Zz4=")

	var mediaErr *UnsupportedMediaTypeError
	require.ErrorAs(t, err, &mediaErr)
}

func TestPublicSurface_Permissions(t *testing.T) {
	perm := SetPermissionMode(PermissionModeAcceptEdits, PermissionDestSession)
	wire := perm.ToWire()
	require.Equal(t, "setMode", wire["type"])

	rule := "git diff"
	perm = AllowTool("Bash", &rule)
	require.Len(t, perm.Rules, 1)

	mode := PermissionModePlan
	converted, err := PermissionFromSuggestion(PermissionSuggestion{Mode: &mode})
	require.NoError(t, err)
	require.NotNil(t, converted.Mode)
}

func TestNopLogger_Disabled(t *testing.T) {
	log := NopLogger()
	require.False(t, log.Enabled(context.Background(), slog.LevelError))
}

func TestPublicSurface_AnthropicErrorPredicates(t *testing.T) {
	overloaded := &AnthropicError{ErrType: "overloaded_error", Message: "busy"}
	require.True(t, overloaded.IsServerError())
	require.True(t, overloaded.IsOverloaded())

	invalid := &AnthropicError{ErrType: "invalid_request_error", Message: "bad"}
	require.False(t, invalid.IsServerError())
	require.False(t, invalid.IsOverloaded())
}
