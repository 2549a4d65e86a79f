package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// Runner executes external commands.
type Runner interface {
	// Run executes name with args in dir and returns its combined output. A failed
	// command returns a *CommandError.
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)

	// LookPath resolves name to an executable. Absolute paths are checked for
	// existence; other names are searched on PATH.
	LookPath(name string) (string, error)
}

// CommandError describes a failed external command.
type CommandError struct {
	Command  string // Command is the command line that was executed.
	ExitCode int    // ExitCode is the process exit code, -1 if unknown.
	Output   string // Output holds the combined stdout and stderr, trimmed.
	Err      error
}

const maxErrorOutput = 2048

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s (exit %d)", e.Command, e.ExitCode)
	if e.Err != nil && e.ExitCode < 0 {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		out := e.Output
		if len(out) > maxErrorOutput {
			out = "..." + out[len(out)-maxErrorOutput:]
		}
		msg += "\n" + out
	}

	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// NewCommandError creates a CommandError. output is trimmed.
func NewCommandError(command string, exitCode int, output string, err error) *CommandError {
	return &CommandError{
		Command:  command,
		ExitCode: exitCode,
		Output:   strings.TrimSpace(output),
		Err:      err,
	}
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner { return &ExecRunner{} }

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}

		return out, NewCommandError(commandLine(name, args), exitCode, string(out), err)
	}

	return out, nil
}

func (ExecRunner) LookPath(name string) (string, error) {
	if filepath.IsAbs(name) {
		info, err := os.Stat(name)
		if err != nil {
			return "", err
		}
		if info.IsDir() {
			return "", fmt.Errorf("%s is a directory", name)
		}

		return name, nil
	}

	return exec.LookPath(name)
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// MockCall records one MockRunner.Run invocation.
type MockCall struct {
	Dir  string
	Name string
	Args []string
}

// MockRunner is a Runner for tests.
//
// RunFunc and LookPathFunc are optional: a nil RunFunc succeeds with no output, a nil
// LookPathFunc resolves every name to itself.
type MockRunner struct {
	RunFunc      func(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	LookPathFunc func(name string) (string, error)

	mu    sync.Mutex
	calls []MockCall
}

func (m *MockRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Dir: dir, Name: name, Args: append([]string(nil), args...)})
	fn := m.RunFunc
	m.mu.Unlock()

	if fn == nil {
		return nil, nil
	}

	return fn(ctx, dir, name, args...)
}

func (m *MockRunner) LookPath(name string) (string, error) {
	if m.LookPathFunc == nil {
		return name, nil
	}

	return m.LookPathFunc(name)
}

// Calls returns a copy of the recorded invocations.
func (m *MockRunner) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]MockCall(nil), m.calls...)
}
