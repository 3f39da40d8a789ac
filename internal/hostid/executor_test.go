package hostid

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// mockExecutor is a test double that implements CommandExecutor for testing.
type mockExecutor struct {
	// outputs maps command name to expected output
	outputs map[string]string
	// errors maps command name to expected error
	errors map[string]error
	// callCount tracks how many times each command was called
	callCount map[string]int
}

// newMockExecutor creates a new mock executor for testing.
func newMockExecutor() *mockExecutor {
	return &mockExecutor{
		outputs:   make(map[string]string),
		errors:    make(map[string]error),
		callCount: make(map[string]int),
	}
}

// Execute implements CommandExecutor interface.
func (m *mockExecutor) Execute(_ context.Context, name string, _ ...string) (string, error) {
	m.callCount[name]++

	if err, exists := m.errors[name]; exists {
		return "", err
	}

	if output, exists := m.outputs[name]; exists {
		return output, nil
	}

	return "", fmt.Errorf("command %q not configured in mock", name)
}

func (m *mockExecutor) setOutput(command, output string) {
	m.outputs[command] = output
}

func (m *mockExecutor) setError(command string, err error) {
	m.errors[command] = err
}

// TestExecuteTimeout tests that command execution respects the caller's deadline.
func TestExecuteTimeout(t *testing.T) {
	executor := &defaultCommandExecutor{}
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Nanosecond)
	defer cancel()

	time.Sleep(2 * time.Millisecond) // Ensure timeout expires

	_, err := executor.Execute(ctx, "echo", "test")
	if err == nil {
		t.Error("Expected timeout error but got none")
	}
}

// TestExecuteMissingCommand tests that a missing binary surfaces as a CommandError.
func TestExecuteMissingCommand(t *testing.T) {
	executor := &defaultCommandExecutor{Timeout: time.Second}

	_, err := executor.Execute(context.Background(), "definitely-not-a-real-command-4f2a")
	if err == nil {
		t.Fatal("Expected error for missing command")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("errors.As() should find CommandError, got %T", err)
	}

	if cmdErr.Command != "definitely-not-a-real-command-4f2a" {
		t.Errorf("CommandError.Command = %q", cmdErr.Command)
	}
}

// TestExecuteCommandUsesProvidedExecutor tests that executeCommand delegates to the given executor.
func TestExecuteCommandUsesProvidedExecutor(t *testing.T) {
	mock := newMockExecutor()
	mock.setOutput("ioreg", "output")

	got, err := executeCommand(context.Background(), mock, "ioreg", "-rd1")
	if err != nil {
		t.Fatalf("executeCommand() error = %v", err)
	}

	if got != "output" {
		t.Errorf("executeCommand() = %q, want %q", got, "output")
	}

	if mock.callCount["ioreg"] != 1 {
		t.Errorf("ioreg called %d times, want 1", mock.callCount["ioreg"])
	}
}

// TestWithTimeout tests that the timeout only applies to the default executor.
func TestWithTimeout(t *testing.T) {
	p := New().WithTimeout(42 * time.Second)

	e, ok := p.commandExecutor.(*defaultCommandExecutor)
	if !ok {
		t.Fatalf("default executor type = %T", p.commandExecutor)
	}

	if e.Timeout != 42*time.Second {
		t.Errorf("Timeout = %v, want 42s", e.Timeout)
	}

	mock := newMockExecutor()
	p = New().WithExecutor(mock).WithTimeout(time.Second)
	if p.commandExecutor != mock {
		t.Error("WithTimeout() must not replace a custom executor")
	}
}
