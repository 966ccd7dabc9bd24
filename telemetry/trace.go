package telemetry

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ErrTraceClosed is returned when writing to a closed trace.
var ErrTraceClosed = errors.New("trace writer closed")

// TraceRecord is one sampled tick.
type TraceRecord struct {
	Tick      int32        `json:"tick"`
	Period    int          `json:"period"`
	Clock     float64      `json:"clock"`
	HomeScore int          `json:"home"`
	AwayScore int          `json:"away"`
	Carrier   uint32       `json:"carrier,omitempty"` // body ID, 0 when loose
	Bodies    []TraceBody  `json:"bodies"`
	Events    []TraceEvent `json:"events,omitempty"`
}

// TraceBody is a body's kinematic state in a trace record.
type TraceBody struct {
	ID uint32  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

// TraceEvent is an event that happened since the previous record.
type TraceEvent struct {
	Type   string `json:"type"`
	Player uint32 `json:"player,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// TraceWriter writes TraceRecords as zstd-compressed JSON lines.
// It is safe to Close from another goroutine while the match writes.
type TraceWriter struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	n   int
}

// NewTraceWriter creates path and starts a compressed stream. level is a
// zstd level name (fastest, default, better, best); empty means fastest.
func NewTraceWriter(path, level string) (*TraceWriter, error) {
	lvl := zstd.SpeedFastest
	if level != "" {
		ok, l := zstd.EncoderLevelFromString(level)
		if !ok {
			return nil, fmt.Errorf("unknown trace compression level %q", level)
		}
		lvl = l
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating trace dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(lvl))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("starting trace encoder: %w", err)
	}
	return &TraceWriter{f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}, nil
}

// Write appends one record.
func (t *TraceWriter) Write(rec TraceRecord) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.w == nil {
		return ErrTraceClosed
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := t.w.Write(b); err != nil {
		return err
	}
	if err := t.w.WriteByte('\n'); err != nil {
		return err
	}
	t.n++
	return nil
}

// Records returns the number of records written.
func (t *TraceWriter) Records() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n
}

// Close flushes the stream and closes the file. Closing twice is a no-op.
func (t *TraceWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.w == nil {
		return nil
	}

	err := t.w.Flush()
	if cerr := t.enc.Close(); err == nil {
		err = cerr
	}
	if cerr := t.f.Close(); err == nil {
		err = cerr
	}
	t.w, t.enc, t.f = nil, nil, nil
	return err
}

// ReadTrace decodes every record in a trace file.
func ReadTrace(path string) ([]TraceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("starting trace decoder: %w", err)
	}
	defer dec.Close()

	var out []TraceRecord
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		var rec TraceRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("decoding trace line %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return out, nil
}
