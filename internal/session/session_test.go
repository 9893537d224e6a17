package session

import (
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/protomux/claude-codes-go/internal/message"
)

func newTestTracker() *Tracker {
	return NewTracker(slog.New(slog.DiscardHandler))
}

func initMsg(sessionID string) *message.SystemMessage {
	return &message.SystemMessage{
		Subtype: "init",
		Data:    map[string]any{"session_id": sessionID},
	}
}

func resultMsg(sessionID string) *message.ResultMessage {
	return &message.ResultMessage{
		Type:      "result",
		Subtype:   "success",
		SessionID: sessionID,
	}
}

func TestTracker_CapturesSessionID(t *testing.T) {
	tracker := newTestTracker()

	_, ok := tracker.SessionID()
	require.False(t, ok)

	id := uuid.New().String()
	tracker.Observe(initMsg(id))

	got, ok := tracker.SessionID()
	require.True(t, ok)
	require.Equal(t, id, got)

	parsed, ok := tracker.SessionUUID()
	require.True(t, ok)
	require.Equal(t, id, parsed.String())
}

func TestTracker_SessionUUID_Unparsable(t *testing.T) {
	tracker := newTestTracker()
	tracker.Observe(initMsg("not-a-uuid"))

	got, ok := tracker.SessionID()
	require.True(t, ok)
	require.Equal(t, "not-a-uuid", got)

	_, ok = tracker.SessionUUID()
	require.False(t, ok)
}

func TestTracker_EpochBumpsOnInitAfterResult(t *testing.T) {
	tracker := newTestTracker()
	require.Equal(t, 0, tracker.Epoch())

	tracker.Observe(initMsg(uuid.New().String()))
	require.Equal(t, 1, tracker.Epoch())

	// Init without a completed turn in between is not a reset.
	tracker.Observe(initMsg(uuid.New().String()))
	require.Equal(t, 1, tracker.Epoch())

	tracker.Observe(resultMsg("s"))

	// The id may or may not change on reset; the epoch bumps either way.
	tracker.Observe(initMsg(uuid.New().String()))
	require.Equal(t, 2, tracker.Epoch())
}

func TestTracker_SubagentLifecycleJoin(t *testing.T) {
	tracker := newTestTracker()
	tracker.Observe(initMsg(uuid.New().String()))

	tracker.Observe(&message.AssistantMessage{
		Content: []message.ContentBlock{
			&message.ToolUseBlock{
				Type: "tool_use",
				ID:   "toolu_task",
				Name: "Task",
				Input: map[string]any{
					"description": "explore repo",
				},
			},
		},
	})

	open := tracker.OpenTasks()
	require.Len(t, open, 1)
	require.Equal(t, "toolu_task", open[0].ToolUseID)
	require.False(t, open[0].Started)

	tracker.Observe(&message.SystemMessage{
		Subtype: "task_started",
		Data: map[string]any{
			"task_id":     "task_1",
			"task_type":   "local_agent",
			"tool_use_id": "toolu_task",
		},
	})

	open = tracker.OpenTasks()
	require.Len(t, open, 1)
	require.True(t, open[0].Started)
	require.Equal(t, "task_1", open[0].TaskID)
	require.Equal(t, message.TaskTypeLocalAgent, open[0].TaskType)

	tracker.Observe(&message.UserEchoMessage{
		Content: []message.ContentBlock{
			&message.ToolResultBlock{
				Type:      "tool_result",
				ToolUseID: "toolu_task",
			},
		},
	})

	require.Empty(t, tracker.OpenTasks())

	tracker.Observe(resultMsg("s"))
	require.Empty(t, tracker.Anomalies())
}

func TestTracker_NonTaskToolUseIgnored(t *testing.T) {
	tracker := newTestTracker()

	tracker.Observe(&message.AssistantMessage{
		Content: []message.ContentBlock{
			&message.ToolUseBlock{Type: "tool_use", ID: "toolu_bash", Name: "Bash"},
		},
	})

	require.Empty(t, tracker.OpenTasks())
}

func TestTracker_UnclosedTaskReportedAtResult(t *testing.T) {
	tracker := newTestTracker()

	tracker.Observe(&message.AssistantMessage{
		Content: []message.ContentBlock{
			&message.ToolUseBlock{Type: "tool_use", ID: "toolu_a", Name: "Task"},
			&message.ToolUseBlock{Type: "tool_use", ID: "toolu_b", Name: "Task"},
		},
	})
	tracker.Observe(&message.SystemMessage{
		Subtype: "task_started",
		Data:    map[string]any{"tool_use_id": "toolu_b", "task_type": "local_agent"},
	})
	tracker.Observe(resultMsg("s"))

	anomalies := tracker.Anomalies()
	require.Len(t, anomalies, 2)

	byID := map[string]string{}
	for _, a := range anomalies {
		byID[a.ToolUseID] = a.Detail
	}

	require.Equal(t, "task spawned but never started", byID["toolu_a"])
	require.Equal(t, "task started but produced no result", byID["toolu_b"])

	// The next turn starts clean.
	require.Empty(t, tracker.OpenTasks())
}

func TestTracker_ResultUpdatesSessionID(t *testing.T) {
	tracker := newTestTracker()
	id := uuid.New().String()
	tracker.Observe(resultMsg(id))

	got, ok := tracker.SessionID()
	require.True(t, ok)
	require.Equal(t, id, got)
}
