// Command hookd is the build-backend hook daemon: a single long-lived
// process that speaks the line-delimited protocol in internal/protocol over
// its own stdin/stdout, dispatching "run" requests to a Python worker
// subprocess (internal/worker).
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/danshapiro/hookd/internal/capture"
	"github.com/danshapiro/hookd/internal/config"
	"github.com/danshapiro/hookd/internal/daemon"
	"github.com/danshapiro/hookd/internal/protocol"
	"github.com/danshapiro/hookd/internal/telemetry"
	"github.com/danshapiro/hookd/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hookd:", err)
		os.Exit(1)
	}
}

// installSignalExit terminates the process immediately on SIGINT/SIGTERM
// with no further output — the daemon does not attempt to drain an
// in-flight hook call or emit SHUTDOWN on a signal, only on the "shutdown"
// verb. The handler resets the signal's disposition to default and
// re-raises it against this process rather than calling os.Exit, so a
// parent observes the child as killed by the real signal (WIFSIGNALED),
// not as a normal exit with a 128+n status.
func installSignalExit() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		num, ok := sig.(syscall.Signal)
		if !ok {
			os.Exit(1)
		}
		signal.Reset(sig)
		if err := syscall.Kill(os.Getpid(), num); err != nil {
			os.Exit(128 + int(num))
		}
	}()
}

func run() error {
	installSignalExit()

	if len(os.Args) > 1 {
		if err := os.Chdir(os.Args[1]); err != nil {
			return fmt.Errorf("change working directory to %s: %w", os.Args[1], err)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	cfgPath, err := config.Discover(cwd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	cm, err := capture.NewManager(cfg.CaptureDir)
	if err != nil {
		return err
	}

	w, err := worker.New(cfg.Python, cm.Root())
	if err != nil {
		return err
	}
	defer w.Close()

	c := protocol.New(os.Stdin, os.Stdout)

	if cfg.Transcript {
		tw, err := telemetry.Open(filepath.Join(cm.Root(), "transcript.msgpack"))
		if err != nil {
			return err
		}
		defer tw.Close()
		c.SetRecorder(tw)
	}

	if err := c.Debugf("Changed working directory to %s", cwd); err != nil {
		return err
	}
	if err := c.Debug(w.StubDebug()); err != nil {
		return err
	}

	d := daemon.New(cwd, cm, w)
	return protocol.NewLoop(c, d).Run()
}
