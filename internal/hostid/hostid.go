// Package hostid derives a stable, namespaced reference for the current
// machine from identifiers the operating system already maintains.
//
// The reference is a SHA-256 digest over the namespace and the collected
// identifiers, so two products on the same host receive different values
// while each product sees the same value across reboots and reinstalls.
//
// Sources per platform:
//
//   - linux: systemd machine-id (/etc/machine-id, /var/lib/dbus/machine-id)
//   - darwin: IOPlatformUUID (ioreg, with system_profiler as fallback)
//   - windows: HKLM\SOFTWARE\Microsoft\Cryptography\MachineGuid, with the
//     SMBIOS product UUID from PowerShell as fallback
//   - others: /etc/hostid
//
// Only identifiers readable without elevation are used, so the reference does
// not change between service and interactive runs.
package hostid

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Component names used as keys in DiagnosticInfo.
const (
	ComponentMachineID    = "machine-id"    // Linux systemd machine-id
	ComponentPlatformUUID = "platform-uuid" // macOS IOPlatformUUID
	ComponentMachineGUID  = "machine-guid"  // Windows cryptography MachineGuid
	ComponentHostID       = "hostid"        // BSD and other unix /etc/hostid
)

// defaultTimeout bounds every system command run while collecting identifiers.
const defaultTimeout = 5 * time.Second

// DiagnosticInfo contains information about what was collected for the last reference.
type DiagnosticInfo struct {
	Errors    map[string]error // Component names that failed with their errors
	Collected []string         // Component names that were successfully collected
}

// CommandExecutor is an interface for executing system commands, allowing for dependency injection and testing.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
}

// Provider computes namespaced machine references.
// Provider methods are safe for concurrent use after configuration is complete.
// Nothing is cached: every call to Reference re-reads the platform sources.
type Provider struct {
	commandExecutor CommandExecutor
	logger          *slog.Logger
	diagnostics     *DiagnosticInfo
	mu              sync.Mutex
}

// New creates a new Provider that runs real system commands.
func New() *Provider {
	return &Provider{
		commandExecutor: &defaultCommandExecutor{
			Timeout: defaultTimeout,
		},
	}
}

// WithExecutor sets a custom [CommandExecutor], enabling deterministic testing
// without real system commands.
func (p *Provider) WithExecutor(executor CommandExecutor) *Provider {
	p.commandExecutor = executor

	return p
}

// WithTimeout changes the per-command timeout of the default executor.
// It has no effect once a custom executor is set.
func (p *Provider) WithTimeout(timeout time.Duration) *Provider {
	if e, ok := p.commandExecutor.(*defaultCommandExecutor); ok {
		e.Timeout = timeout
	}

	return p
}

// WithLogger sets an optional [*slog.Logger]. A nil logger disables logging.
func (p *Provider) WithLogger(logger *slog.Logger) *Provider {
	p.logger = logger

	return p
}

// Reference returns the machine reference for namespace as 64 lower-case hex
// characters. The same machine and namespace always produce the same value.
func (p *Provider) Reference(ctx context.Context, namespace string) (string, error) {
	if strings.TrimSpace(namespace) == "" {
		return "", ErrEmptyNamespace
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.logDebug("resolving machine reference", "platform", runtime.GOOS, "namespace", namespace)

	diag := &DiagnosticInfo{
		Errors: make(map[string]error),
	}

	identifiers := collectIdentifiers(ctx, p, diag)
	p.diagnostics = diag

	if len(identifiers) == 0 {
		p.logWarn("no machine identifiers collected", "errors", diag.Errors)

		return "", ErrNoIdentifiers
	}

	ref := hashIdentifiers(identifiers, namespace)
	p.logDebug("machine reference resolved", "collected", diag.Collected)

	return ref, nil
}

// Diagnostics returns information about which components were collected and
// which failed during the last call to [Provider.Reference].
// Returns nil if Reference has not been called yet.
func (p *Provider) Diagnostics() *DiagnosticInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.diagnostics
}

// hashIdentifiers combines the namespace and the sorted identifiers into a
// single SHA-256 digest.
func hashIdentifiers(identifiers []string, namespace string) string {
	sorted := make([]string, len(identifiers))
	copy(sorted, identifiers)
	sort.Strings(sorted)

	combined := namespace + "|" + strings.Join(sorted, "|")
	hash := sha256.Sum256([]byte(combined))

	return hex.EncodeToString(hash[:])
}

func (p *Provider) logDebug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Provider) logWarn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

// appendIdentifierIfValid adds the result of getValue to identifiers with the given prefix if valid.
// It records the result in diag under the given component name.
func appendIdentifierIfValid(identifiers []string, getValue func() (string, error), prefix string, diag *DiagnosticInfo, component string, logger *slog.Logger) []string {
	value, err := getValue()
	if err != nil {
		diag.Errors[component] = &ComponentError{Component: component, Err: err}
		if logger != nil {
			logger.Warn("component failed", "component", component, "error", err)
		}

		return identifiers
	}

	value = strings.TrimSpace(value)
	if value == "" {
		diag.Errors[component] = &ComponentError{Component: component, Err: ErrEmptyValue}
		if logger != nil {
			logger.Warn("component returned empty value", "component", component)
		}

		return identifiers
	}

	diag.Collected = append(diag.Collected, component)
	if logger != nil {
		logger.Debug("component collected", "component", component)
	}

	return append(identifiers, prefix+value)
}
