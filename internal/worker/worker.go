package worker

import (
	_ "embed"
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/zeebo/blake3"
)

//go:embed stub/hookd_worker.py
var stubSource []byte

// Worker supervises a single, persistent Python subprocess that performs
// the backend import, attribute walk, and hook call for every "run"
// request. It is restarted lazily if the previous process has exited, so
// one crashed hook never prevents the next from running (non-fatality).
type Worker struct {
	mu sync.Mutex

	python    string
	stubPath  string
	stubDebug string // DEBUG-line text announcing the stub's fingerprint, computed once

	cmd     *exec.Cmd
	reqW    *os.File
	respR   *os.File
	scanner *bufio.Scanner
}

// New prepares (but does not yet start) a worker that will spawn `python`
// to run the embedded stub script materialized under stateDir.
func New(python, stateDir string) (*Worker, error) {
	stubPath, fingerprint, err := materializeStub(stateDir)
	if err != nil {
		return nil, err
	}
	return &Worker{
		python:    python,
		stubPath:  stubPath,
		stubDebug: fmt.Sprintf("Prepared hook worker stub %s (blake3 %s)", stubPath, fingerprint),
	}, nil
}

// StubDebug returns the one-line diagnostic describing the materialized
// worker stub, suitable for a DEBUG line at startup.
func (w *Worker) StubDebug() string { return w.stubDebug }

// materializeStub writes the embedded stub script to a deterministic path
// under stateDir, skipping the write if a file with the same BLAKE3 digest
// is already there (idempotent across daemon restarts sharing a state dir).
func materializeStub(stateDir string) (path string, fingerprint string, err error) {
	sum := blake3.Sum256(stubSource)
	fingerprint = hex.EncodeToString(sum[:])[:16]

	path = filepath.Join(stateDir, "hookd_worker.py")
	if existing, readErr := os.ReadFile(path); readErr == nil {
		existingSum := blake3.Sum256(existing)
		if hex.EncodeToString(existingSum[:]) == hex.EncodeToString(sum[:]) {
			return path, fingerprint, nil
		}
	}
	if err := os.WriteFile(path, stubSource, 0o755); err != nil {
		return "", "", fmt.Errorf("worker: write stub: %w", err)
	}
	return path, fingerprint, nil
}

// ensureStarted spawns the worker subprocess if it isn't already running.
func (w *Worker) ensureStarted() error {
	if w.cmd != nil && w.cmd.ProcessState == nil {
		return nil
	}

	reqR, reqW, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("worker: create request pipe: %w", err)
	}
	respR, respW, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("worker: create response pipe: %w", err)
	}

	cmd := exec.Command(w.python, w.stubPath)
	// fd 3 (first ExtraFiles entry) is the request pipe read end the stub
	// reads from; fd 4 is the response pipe write end it writes to. The
	// stub's own stdout/stderr are left alone here — the stub itself
	// reassigns them per call onto the paths each Request carries, not at
	// spawn time, since this process outlives many invocations.
	cmd.ExtraFiles = []*os.File{reqR, respW}
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		_ = reqR.Close()
		_ = reqW.Close()
		_ = respR.Close()
		_ = respW.Close()
		return fmt.Errorf("worker: start %s: %w", w.python, err)
	}

	// The child inherited duplicates of reqR/respW; the parent only needs
	// the write/read ends it keeps.
	_ = reqR.Close()
	_ = respW.Close()

	w.cmd = cmd
	w.reqW = reqW
	w.respR = respR
	w.scanner = bufio.NewScanner(respR)
	w.scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return nil
}

// Call sends one request to the worker and waits for its response. req's
// StdoutPath/StderrPath must already name paths the stub can create and
// write to: it reopens its own fd 1/2 onto those paths for the duration of
// the hook call and restores them before replying, which is what lets one
// persistent process serve many invocations with distinct per-call capture
// files. A non-nil error return means the worker process
// itself is unusable (died, refused to start, or closed its pipes) — the
// caller classifies this as HookRuntimeError, since a dead child is the
// broadest possible backend failure a worker-process model can report.
func (w *Worker) Call(req Request) (Response, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureStarted(); err != nil {
		return Response{}, err
	}

	line, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("worker: marshal request: %w", err)
	}
	if _, err := w.reqW.Write(append(line, '\n')); err != nil {
		w.kill()
		return Response{}, fmt.Errorf("worker: write request: %w", err)
	}

	if !w.scanner.Scan() {
		err := w.scanner.Err()
		w.kill()
		if err == nil {
			return Response{}, fmt.Errorf("worker: process exited without a response")
		}
		return Response{}, fmt.Errorf("worker: read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(w.scanner.Bytes(), &resp); err != nil {
		w.kill()
		return Response{}, fmt.Errorf("worker: decode response: %w", err)
	}
	return resp, nil
}

// kill terminates a misbehaving worker so the next Call restarts it fresh.
func (w *Worker) kill() {
	if w.cmd != nil && w.cmd.Process != nil {
		_ = w.cmd.Process.Kill()
		_ = w.cmd.Wait()
	}
	if w.reqW != nil {
		_ = w.reqW.Close()
	}
	if w.respR != nil {
		_ = w.respR.Close()
	}
	w.cmd = nil
}

// Close terminates the worker process, if running.
func (w *Worker) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.kill()
}
