// Package capture manages the per-invocation stdout/stderr capture files.
// Names are ULID-derived so they are unique across a process lifetime
// without a shared counter, and sortable by creation time to the
// millisecond (names created within the same millisecond sort randomly).
package capture

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
)

// Pair holds the absolute paths of one invocation's stdout and stderr
// capture files, and the handles this process opened when creating them.
// The worker stub opens the files by path itself to redirect its file
// descriptors; the handles here are only closed.
type Pair struct {
	StdoutPath string
	StderrPath string

	Stdout *os.File
	Stderr *os.File
}

// Manager creates capture file pairs under a single per-process root
// directory. The root is created once at startup and never cleaned up by
// the daemon — capture files outlive the response line that announces them,
// since the client reads them after the fact.
type Manager struct {
	root string
}

// NewManager creates (or reuses, if dir is non-empty) the capture root
// directory.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		root, err := os.MkdirTemp("", "hookd-")
		if err != nil {
			return nil, fmt.Errorf("capture: create temp root: %w", err)
		}
		return &Manager{root: root}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("capture: create root %s: %w", dir, err)
	}
	return &Manager{root: dir}, nil
}

// Root returns the capture root directory.
func (m *Manager) Root() string { return m.root }

// New allocates a fresh, open capture file pair for one hook invocation.
// Callers must Close the pair once the invocation has finished; the files
// themselves are left on disk.
func (m *Manager) New() (*Pair, error) {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()

	stdoutPath := filepath.Join(m.root, id+".stdout")
	stderrPath := filepath.Join(m.root, id+".stderr")

	stdout, err := os.Create(stdoutPath)
	if err != nil {
		return nil, fmt.Errorf("capture: create stdout file: %w", err)
	}
	stderr, err := os.Create(stderrPath)
	if err != nil {
		_ = stdout.Close()
		return nil, fmt.Errorf("capture: create stderr file: %w", err)
	}
	return &Pair{
		StdoutPath: stdoutPath,
		StderrPath: stderrPath,
		Stdout:     stdout,
		Stderr:     stderr,
	}, nil
}

// Close flushes and closes both capture files. It does not delete them.
func (p *Pair) Close() {
	if p.Stdout != nil {
		_ = p.Stdout.Close()
	}
	if p.Stderr != nil {
		_ = p.Stderr.Close()
	}
}

// WriteTraceback persists traceback text for one failed request under the
// capture root and returns its absolute path. Every classified error gets a
// traceback file, even a synthesized one-line explanation for failures the
// protocol engine itself detects (an invalid hook name, malformed JSON)
// before ever reaching the worker. Within a run request, a reported ERROR
// only omits the TRACEBACK path ("<none>") when the traceback file itself
// fails to write; an UnknownAction error, reported by the session loop
// outside any run request, always carries "<none>".
func (m *Manager) WriteTraceback(content string) (string, error) {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	path := filepath.Join(m.root, id+".traceback")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("capture: write traceback: %w", err)
	}
	return path, nil
}
