package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when a read is abandoned because the context ended.
var ErrInputCancelled = errors.New("input canceled")

// LineReader reads trimmed lines from an input stream without blocking
// past context cancellation.
type LineReader struct {
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{reader: bufio.NewReader(r)}
}

type lineResult struct {
	err  error
	line string
}

// ReadLine returns the next line with surrounding whitespace removed. A final
// line without a newline is returned with a nil error; io.EOF is only
// reported when nothing was read.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ErrInputCancelled
	}

	results := make(chan lineResult, 1)
	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		line, err := r.reader.ReadString('\n')
		if errors.Is(err, io.EOF) && line != "" {
			err = nil
		}
		results <- lineResult{line: strings.TrimSpace(line), err: err}
	}()

	// The reading goroutine outlives a cancellation; it finishes on the next
	// line of input or when the stream closes.
	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-results:
		return res.line, res.err
	}
}
