// Package telemetry writes an optional, per-run session transcript: one
// MessagePack-encoded record per protocol line, for tooling that wants to
// replay a session without re-parsing sentinel text. It is write-only —
// the daemon never reads a transcript back.
package telemetry

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Direction distinguishes a line the daemon wrote from a line it read.
type Direction string

const (
	Sent     Direction = "sent"
	Received Direction = "received"
)

// Record is one transcript entry.
type Record struct {
	At        time.Time `msgpack:"at"`
	Direction Direction `msgpack:"dir"`
	Line      string    `msgpack:"line"`
}

// Writer appends Records to a file as a stream of MessagePack values. It is
// safe for concurrent use, though the daemon itself is single-threaded.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *msgpack.Encoder
}

// Open creates (truncating) the transcript file at path.
func Open(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create %s: %w", path, err)
	}
	return &Writer{f: f, enc: msgpack.NewEncoder(f)}, nil
}

// Append records one protocol line.
func (w *Writer) Append(dir Direction, line string) error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(Record{At: time.Now(), Direction: dir, Line: line})
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	return w.f.Close()
}

// Record implements protocol.Recorder, adapting its plain-string direction
// ("sent"/"received") onto the Direction type.
func (w *Writer) Record(direction, line string) error {
	return w.Append(Direction(direction), line)
}
