// Package daemon wires the protocol engine, hook request parser, capture
// manager, and worker together into the one HandleRun implementation that
// drives a single "run" request end to end.
package daemon

import (
	"fmt"
	"time"

	"github.com/danshapiro/hookd/internal/capture"
	"github.com/danshapiro/hookd/internal/classify"
	"github.com/danshapiro/hookd/internal/hookreq"
	"github.com/danshapiro/hookd/internal/protocol"
	"github.com/danshapiro/hookd/internal/worker"
)

// hookWorker is the subset of *worker.Worker that HandleRun depends on,
// narrowed to an interface so tests can exercise the dispatch logic against
// a fake instead of spawning a real Python subprocess.
type hookWorker interface {
	Call(worker.Request) (worker.Response, error)
}

// Daemon implements protocol.RunHandler against one tree root, one worker
// process, and one capture-file manager.
type Daemon struct {
	Cwd     string
	Capture *capture.Manager
	Worker  hookWorker
}

// New builds a Daemon. cwd is the already-resolved tree root that relative
// path arguments are resolved against.
func New(cwd string, cm *capture.Manager, w *worker.Worker) *Daemon {
	return &Daemon{Cwd: cwd, Capture: cm, Worker: w}
}

// HandleRun implements protocol.RunHandler. It prompts for the request
// preamble and arguments, announces the call, reserves a capture-file pair,
// dispatches to the worker, and reports success itself (OK + the trailing
// DEBUG Ran-hook line); any classified failure is returned for the session
// loop to report as ERROR/TRACEBACK, and any control-pipe I/O failure is
// returned as the second, fatal value.
func (d *Daemon) HandleRun(c *protocol.IO) (*classify.Error, error) {
	parseStart := time.Now()
	req, cerr, err := hookreq.Parse(c, d.Cwd)
	if err != nil {
		return nil, err
	}
	if cerr != nil {
		return d.fail(cerr.Kind, cerr.Message, ""), nil
	}

	if err := c.Debugf("Calling %s(%s)", req.Spec.QualifiedHook(string(req.Hook)), req.Formatted()); err != nil {
		return nil, err
	}
	if err := c.Debugf("Parsed hook inputs in %s", time.Since(parseStart)); err != nil {
		return nil, err
	}

	pair, err := d.Capture.New()
	if err != nil {
		return d.fail(classify.HookRuntimeError, fmt.Sprintf("Failed to prepare capture files: %s", err), ""), nil
	}
	defer pair.Close()

	if err := c.Stdout(pair.StdoutPath); err != nil {
		return nil, err
	}
	if err := c.Stderr(pair.StderrPath); err != nil {
		return nil, err
	}

	runStart := time.Now()
	resp, callErr := d.Worker.Call(buildWorkerRequest(req, pair))
	if callErr != nil {
		return d.fail(classify.HookRuntimeError, fmt.Sprintf("The hook worker process failed: %s", callErr), ""), nil
	}
	if !resp.OK {
		return d.fail(classify.Kind(resp.Kind), resp.Message, resp.Traceback), nil
	}

	if err := c.OK(resp.Value); err != nil {
		return nil, err
	}
	if err := c.Debugf("Ran hook in %s", time.Since(runStart)); err != nil {
		return nil, err
	}
	return nil, nil
}

// fail persists tb (falling back to message, so every classified error gets
// a real traceback file) and returns the resulting classified error. A
// failure to write the traceback file itself degrades to no traceback
// rather than masking the original classified error.
func (d *Daemon) fail(kind classify.Kind, message, tb string) *classify.Error {
	cerr := classify.New(kind, message)
	if tb == "" {
		tb = message
	}
	path, err := d.Capture.WriteTraceback(tb)
	if err != nil {
		return cerr
	}
	return cerr.WithTraceback(path)
}

func buildWorkerRequest(req *hookreq.Request, pair *capture.Pair) worker.Request {
	argNames := make([]string, len(req.Args))
	args := make(map[string]any, len(req.Args))
	for i, a := range req.Args {
		argNames[i] = a.Name
		switch {
		case a.SettingsSet:
			args[a.Name] = a.Settings
		case a.PathSet:
			args[a.Name] = a.PathValue
		default:
			args[a.Name] = nil
		}
	}
	return worker.Request{
		Module:      req.Spec.Module,
		HasAttr:     req.Spec.HasAttr,
		Attr:        req.Spec.Attr,
		Spec:        req.Spec.String(),
		BackendPath: req.BackendPath,
		Hook:        string(req.Hook),
		ArgNames:    argNames,
		Args:        args,
		StdoutPath:  pair.StdoutPath,
		StderrPath:  pair.StderrPath,
	}
}
