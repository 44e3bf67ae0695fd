package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dudu/facerig/internal/landmark"
)

// MaxLineBytes bounds one recorded message. A 478 point mesh with z
// coordinates is around 30KB.
const MaxLineBytes = 4 << 20

// Replay reads a recording of detector messages, one JSON message per line.
// Blank lines and messages without a face are skipped.
type Replay struct {
	closer   io.Closer
	scanner  *bufio.Scanner
	interval time.Duration
	last     time.Time
	messages int
}

// NewReplay reads messages from r. A non-zero interval paces Next so the
// recording plays back at roughly its capture rate.
func NewReplay(r io.Reader, interval time.Duration) *Replay {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), MaxLineBytes)
	rp := &Replay{
		scanner:  scanner,
		interval: interval,
	}
	if c, ok := r.(io.Closer); ok {
		rp.closer = c
	}
	return rp
}

// OpenReplay opens a recording on disk
func OpenReplay(path string, interval time.Duration) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay file %s: %w", path, err)
	}
	return NewReplay(f, interval), nil
}

// Next returns the first face of the next message that has one
func (r *Replay) Next() (*landmark.Frame, error) {
	for r.scanner.Scan() {
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		r.messages++

		frame, err := Decode(line)
		if errors.Is(err, ErrNoFace) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("message %d: %w", r.messages, err)
		}
		r.pace()
		return frame, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read replay: %w", err)
	}
	return nil, io.EOF
}

func (r *Replay) pace() {
	if r.interval <= 0 {
		return
	}
	if !r.last.IsZero() {
		if wait := r.interval - time.Since(r.last); wait > 0 {
			time.Sleep(wait)
		}
	}
	r.last = time.Now()
}

// Messages returns how many messages have been read
func (r *Replay) Messages() int {
	return r.messages
}

// Close releases the underlying reader
func (r *Replay) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
