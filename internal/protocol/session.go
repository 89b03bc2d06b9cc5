package protocol

import (
	"io"

	"github.com/danshapiro/hookd/internal/classify"
)

// RunHandler executes a single "run" request. It owns the interleaved
// EXPECT/DEBUG/STDOUT/STDERR prompting for that request and, on success,
// emits the OK line and the trailing "DEBUG Ran hook in…"
// line itself (their ordering and elapsed-time measurement are internal to
// the hook dispatch). Its two returns are distinguished the same way
// hookreq.Parse's are: a non-nil classified error is a non-fatal protocol
// failure the loop reports as ERROR/TRACEBACK; a non-nil plain error means
// the control pipe itself failed and is fatal.
type RunHandler interface {
	HandleRun(c *IO) (*classify.Error, error)
}

// Loop is the top-level session state machine: emit READY, prompt for an
// action, dispatch, repeat. It is strictly sequential — there
// is no request pipelining, matching the single-threaded scheduling model.
type Loop struct {
	IO      *IO
	Handler RunHandler
}

// NewLoop constructs a session loop over the given channel and handler.
func NewLoop(c *IO, h RunHandler) *Loop {
	return &Loop{IO: c, Handler: h}
}

// Run executes the loop until shutdown is requested or the input is closed.
// It returns nil on a clean "shutdown" verb or EOF (both are "exit 0" to the
// caller); any other error is a control-pipe I/O failure and is fatal.
func (l *Loop) Run() error {
	for {
		if err := l.IO.Ready(); err != nil {
			return err
		}
		if err := l.IO.Expect("action"); err != nil {
			return err
		}
		action, err := l.IO.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch action {
		case "shutdown":
			return l.IO.Shutdown()
		case "run":
			runErr, err := l.Handler.HandleRun(l.IO)
			if err != nil {
				return err
			}
			if runErr != nil {
				if err := l.IO.Error(string(runErr.Kind), runErr.Message); err != nil {
					return err
				}
				if err := l.IO.Traceback(runErr.TracebackPath); err != nil {
					return err
				}
			}
		default:
			if err := l.IO.Error(string(classify.UnknownAction), "Unknown action: '"+action+"'"); err != nil {
				return err
			}
			if err := l.IO.Traceback(""); err != nil {
				return err
			}
		}
	}
}
