// Package session derives session identity, reset, and subagent lifecycle
// facts from the output stream. The tracker is a pure projection: it
// consumes envelopes the engine already yields and never touches the wire.
package session

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/protomux/claude-codes-go/internal/message"
)

// TaskRecord tracks one Task tool invocation and the subagent it spawned,
// joined on the tool use id.
type TaskRecord struct {
	ToolUseID string
	TaskID    string
	TaskType  message.TaskType
	Started   bool
	Completed bool
}

// Anomaly reports a lifecycle irregularity observed at turn end, such as a
// subagent task that never produced a result.
type Anomaly struct {
	ToolUseID string
	Detail    string
}

// Tracker observes outputs and maintains session state. Safe for concurrent
// use; the engine and the caller may observe from different goroutines.
type Tracker struct {
	mu  sync.Mutex
	log *slog.Logger

	sessionID string
	epoch     int
	completed bool

	tasks     map[string]*TaskRecord
	anomalies []Anomaly
}

// NewTracker builds a tracker logging through log.
func NewTracker(log *slog.Logger) *Tracker {
	return &Tracker{
		log:   log.With("component", "session_tracker"),
		tasks: make(map[string]*TaskRecord),
	}
}

// Observe folds one output envelope into the tracked state.
func (t *Tracker) Observe(out message.Output) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch msg := out.(type) {
	case *message.SystemMessage:
		t.observeSystem(msg)
	case *message.AssistantMessage:
		t.observeAssistant(msg)
	case *message.UserEchoMessage:
		t.observeUserEcho(msg)
	case *message.ResultMessage:
		t.observeResult(msg)
	}
}

func (t *Tracker) observeSystem(msg *message.SystemMessage) {
	if init, ok := msg.AsInit(); ok {
		// A fresh init after a completed turn is a reset, whether or not
		// the session id changed.
		if t.epoch == 0 || t.completed {
			t.epoch++
			t.completed = false

			t.log.Debug("Session epoch started", "epoch", t.epoch, "session_id", init.SessionID)
		}

		if init.SessionID != "" {
			t.sessionID = init.SessionID
		}

		return
	}

	if task, ok := msg.AsTaskStarted(); ok && task.ToolUseID != "" {
		rec, ok := t.tasks[task.ToolUseID]
		if !ok {
			rec = &TaskRecord{ToolUseID: task.ToolUseID}
			t.tasks[task.ToolUseID] = rec
		}

		rec.TaskID = task.TaskID
		rec.TaskType = task.TaskType
		rec.Started = true
	}
}

func (t *Tracker) observeAssistant(msg *message.AssistantMessage) {
	if msg.SessionID != "" {
		t.sessionID = msg.SessionID
	}

	for _, block := range msg.Content {
		use, ok := block.(*message.ToolUseBlock)
		if !ok || use.Name != "Task" {
			continue
		}

		if _, exists := t.tasks[use.ID]; !exists {
			t.tasks[use.ID] = &TaskRecord{ToolUseID: use.ID}
		}
	}
}

func (t *Tracker) observeUserEcho(msg *message.UserEchoMessage) {
	for _, block := range msg.Content {
		result, ok := block.(*message.ToolResultBlock)
		if !ok {
			continue
		}

		if rec, exists := t.tasks[result.ToolUseID]; exists {
			rec.Completed = true
		}
	}
}

func (t *Tracker) observeResult(msg *message.ResultMessage) {
	if msg.SessionID != "" {
		t.sessionID = msg.SessionID
	}

	t.completed = true

	for _, rec := range t.tasks {
		if rec.Completed {
			continue
		}

		detail := "task spawned but never started"
		if rec.Started {
			detail = "task started but produced no result"
		}

		t.log.Debug("Unclosed subagent task at turn end",
			"tool_use_id", rec.ToolUseID, "detail", detail)
		t.anomalies = append(t.anomalies, Anomaly{
			ToolUseID: rec.ToolUseID,
			Detail:    detail,
		})
	}

	clear(t.tasks)
}

// SessionID returns the most recently observed session id.
func (t *Tracker) SessionID() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.sessionID, t.sessionID != ""
}

// SessionUUID returns the most recent session id parsed as a uuid. Returns
// false when no id has been observed or it is not a valid uuid.
func (t *Tracker) SessionUUID() (uuid.UUID, bool) {
	t.mu.Lock()
	id := t.sessionID
	t.mu.Unlock()

	if id == "" {
		return uuid.Nil, false
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, false
	}

	return parsed, true
}

// Epoch returns the number of session initializations observed, counting a
// fresh init after a completed turn as a new epoch.
func (t *Tracker) Epoch() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.epoch
}

// OpenTasks returns the subagent tasks of the current turn that have not
// completed yet.
func (t *Tracker) OpenTasks() []TaskRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	var open []TaskRecord

	for _, rec := range t.tasks {
		if !rec.Completed {
			open = append(open, *rec)
		}
	}

	return open
}

// Anomalies returns all lifecycle irregularities observed so far.
func (t *Tracker) Anomalies() []Anomaly {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Anomaly, len(t.anomalies))
	copy(out, t.anomalies)

	return out
}
