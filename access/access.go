// Package access changes package visibility through the npm CLI. It is a
// thin process-execution wrapper: the CLI does the talking to the registry,
// this package only classifies the outcome.
package access

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrUnscopedPackage is returned when npm refuses to change the access
// level of a package without a scope. Only @scope/name packages can be
// restricted.
var ErrUnscopedPackage = errors.New("cannot change access level of unscoped package")

// npm prints a sentence about "unscoped packages" when asked to restrict
// one. The exact wording shifts between npm versions; this fragment does not.
const unscopedFragment = "unscoped packages"

// UnscopedError reports which package could not be restricted.
type UnscopedError struct {
	Package string
}

func (e *UnscopedError) Error() string {
	return fmt.Sprintf("cannot change access level of unscoped package %s", e.Package)
}

func (e *UnscopedError) Unwrap() error {
	return ErrUnscopedPackage
}

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Setter invokes the npm CLI to change package access levels.
type Setter struct {
	path    string
	timeout time.Duration
	run     Runner
}

// Option configures a Setter.
type Option func(*Setter)

// WithPath sets the npm binary path.
func WithPath(path string) Option {
	return func(s *Setter) {
		s.path = path
	}
}

// WithTimeout bounds each CLI invocation.
func WithTimeout(d time.Duration) Option {
	return func(s *Setter) {
		s.timeout = d
	}
}

// WithRunner replaces the command runner. Tests use this to avoid
// spawning processes.
func WithRunner(run Runner) Option {
	return func(s *Setter) {
		s.run = run
	}
}

// NewSetter creates a Setter with the given options.
func NewSetter(opts ...Option) *Setter {
	s := &Setter{
		path:    "npm",
		timeout: 30 * time.Second,
		run:     defaultRunner,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restrict marks a package as visible only to users with access.
// Returns an *UnscopedError when the package has no scope.
func (s *Setter) Restrict(ctx context.Context, pkg string) error {
	return s.set(ctx, "restricted", pkg)
}

// Public marks a package as publicly visible.
func (s *Setter) Public(ctx context.Context, pkg string) error {
	return s.set(ctx, "public", pkg)
}

func (s *Setter) set(ctx context.Context, level, pkg string) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.run(ctx, s.path, "access", level, pkg)
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(string(out)), unscopedFragment) {
		return &UnscopedError{Package: pkg}
	}
	if line := firstLine(out); line != "" {
		return fmt.Errorf("npm access %s %s: %w: %s", level, pkg, err, line)
	}
	return fmt.Errorf("npm access %s %s: %w", level, pkg, err)
}

// firstLine trims command output to its first non-empty line, enough for
// an error message without dumping the whole npm log.
func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	return s
}
