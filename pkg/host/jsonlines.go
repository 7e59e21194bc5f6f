package host

import (
	"fmt"
	"io"
	"sync"

	"github.com/vango-go/reactor/pkg/reactor"
)

// JSONLines writes one JSON record per commit to an io.Writer.
type JSONLines struct {
	mu sync.Mutex
	w  io.Writer
}

// NewJSONLines creates a JSONLines host writing to w.
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{w: w}
}

// Commit implements reactor.Host.
func (j *JSONLines) Commit(c *reactor.Commit) error {
	data, err := Encode(c)
	if err != nil {
		return fmt.Errorf("encode commit %d: %w", c.Seq, err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.w.Write(data); err != nil {
		return fmt.Errorf("write commit %d: %w", c.Seq, err)
	}
	return nil
}
