// Package cli launches the agent process in stream-json mode and hands its
// pipes to the engine. Executable discovery, argument construction, and
// environment shaping all live here; the engine never sees a flag.
package cli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/protomux/claude-codes-go/internal/engine"
	"github.com/protomux/claude-codes-go/internal/errors"
)

// stderrCap bounds how much of the process's stderr is retained for error
// reporting.
const stderrCap = 64 * 1024

// Builder assembles the command line and environment for one agent process.
// Methods chain; the zero Builder launches with defaults.
type Builder struct {
	path                 string
	model                string
	sessionID            string
	resume               string
	forkSession          bool
	permissionPromptTool string
	skipPermissions      bool
	allowRecursion       bool
	env                  map[string]string
	log                  *slog.Logger
}

// NewBuilder returns a Builder with defaults.
func NewBuilder() *Builder {
	return &Builder{log: slog.New(slog.DiscardHandler)}
}

// Path sets an explicit CLI binary path, skipping discovery.
func (b *Builder) Path(path string) *Builder {
	b.path = path

	return b
}

// Model selects the model the agent runs.
func (b *Builder) Model(model string) *Builder {
	b.model = model

	return b
}

// SessionID fixes the session id for a fresh session.
func (b *Builder) SessionID(id uuid.UUID) *Builder {
	b.sessionID = id.String()

	return b
}

// Resume continues a previous session. Mutually exclusive with SessionID
// unless ForkSession is also set.
func (b *Builder) Resume(id uuid.UUID) *Builder {
	b.resume = id.String()

	return b
}

// ForkSession branches the resumed session into a new one instead of
// appending to it.
func (b *Builder) ForkSession() *Builder {
	b.forkSession = true

	return b
}

// PermissionPromptTool routes permission prompts through the named tool.
// Pass "stdio" to receive can_use_tool control requests on this connection.
func (b *Builder) PermissionPromptTool(name string) *Builder {
	b.permissionPromptTool = name

	return b
}

// DangerouslySkipPermissions disables all permission prompting.
func (b *Builder) DangerouslySkipPermissions() *Builder {
	b.skipPermissions = true

	return b
}

// AllowRecursion scrubs the nesting guard variables so the agent can run
// inside another agent's tool call.
func (b *Builder) AllowRecursion() *Builder {
	b.allowRecursion = true

	return b
}

// Env adds or overrides one environment variable for the process.
func (b *Builder) Env(key, value string) *Builder {
	if b.env == nil {
		b.env = make(map[string]string)
	}

	b.env[key] = value

	return b
}

// Logger sets the logger used during discovery and launch.
func (b *Builder) Logger(log *slog.Logger) *Builder {
	b.log = log

	return b
}

// BuildArgs constructs the argument list for stream-json operation.
func (b *Builder) BuildArgs() ([]string, error) {
	if b.sessionID != "" && b.resume != "" && !b.forkSession {
		return nil, errors.ErrResumeConflict
	}

	args := []string{
		"--output-format", "stream-json",
		"--input-format", "stream-json",
		"--verbose",
	}

	if b.model != "" {
		args = append(args, "--model", b.model)
	}

	if b.sessionID != "" {
		args = append(args, "--session-id", b.sessionID)
	}

	if b.resume != "" {
		args = append(args, "--resume", b.resume)
	}

	if b.forkSession {
		args = append(args, "--fork-session")
	}

	if b.permissionPromptTool != "" {
		args = append(args, "--permission-prompt-tool", b.permissionPromptTool)
	}

	if b.skipPermissions {
		args = append(args, "--dangerously-skip-permissions")
	}

	return args, nil
}

// BuildEnv constructs the process environment, starting from the current one.
func (b *Builder) BuildEnv() []string {
	env := make([]string, 0, len(os.Environ())+len(b.env)+1)

	for _, kv := range os.Environ() {
		if b.allowRecursion {
			// The CLI refuses to start when it detects itself as an
			// ancestor; dropping the guard variables lifts that check.
			if strings.HasPrefix(kv, "CLAUDECODE=") ||
				strings.HasPrefix(kv, "CLAUDE_CODE_ENTRYPOINT=") {
				continue
			}
		}

		env = append(env, kv)
	}

	env = append(env, "CLAUDE_CODE_ENTRYPOINT=sdk-go")

	for key, value := range b.env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}

	return env
}

// Spawn discovers the binary, starts the process, and returns its pipes.
// The caller owns the connection from here; stderr is captured internally
// for error reporting.
func (b *Builder) Spawn(ctx context.Context) (engine.Pipes, error) {
	args, err := b.BuildArgs()
	if err != nil {
		return engine.Pipes{}, err
	}

	cliPath, err := findCLI(b.log, b.path)
	if err != nil {
		return engine.Pipes{}, err
	}

	b.log.Debug("Launching agent CLI", "cli_path", cliPath, "args", args)

	cmd := exec.CommandContext(ctx, cliPath, args...)
	cmd.Env = b.BuildEnv()

	stderr := &cappedBuffer{max: stderrCap}
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return engine.Pipes{}, &errors.ConnectionError{Op: "stdin pipe", Err: err}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return engine.Pipes{}, &errors.ConnectionError{Op: "stdout pipe", Err: err}
	}

	if err := cmd.Start(); err != nil {
		return engine.Pipes{}, &errors.ConnectionError{Op: "start", Err: err}
	}

	return engine.Pipes{
		Stdin:   stdin,
		Stdout:  stdout,
		Process: &processHandle{cmd: cmd, stderr: stderr},
	}, nil
}

// processHandle adapts exec.Cmd to the engine's ProcessHandle, attaching
// captured stderr to abnormal exits.
type processHandle struct {
	cmd    *exec.Cmd
	stderr *cappedBuffer
}

func (p *processHandle) Wait() error {
	err := p.cmd.Wait()
	if err == nil {
		return nil
	}

	exitCode := -1
	if p.cmd.ProcessState != nil {
		exitCode = p.cmd.ProcessState.ExitCode()
	}

	return &errors.ProcessError{
		ExitCode: exitCode,
		Stderr:   p.stderr.String(),
		Err:      err,
	}
}

func (p *processHandle) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}

	return p.cmd.Process.Kill()
}

// cappedBuffer retains the first max bytes written and silently discards the
// rest, so a chatty process can never grow the capture unbounded.
type cappedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
	max int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if remaining := b.max - b.buf.Len(); remaining > 0 {
		if len(p) > remaining {
			b.buf.Write(p[:remaining])
		} else {
			b.buf.Write(p)
		}
	}

	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
