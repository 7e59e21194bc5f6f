package host

import (
	"encoding/json"
	"time"

	"github.com/vango-go/reactor/pkg/reactor"
	"github.com/vango-go/reactor/pkg/vdom"
)

// Record is the serialized form of a commit.
type Record struct {
	RootID   string      `json:"rootId"`
	Seq      uint64      `json:"seq"`
	At       time.Time   `json:"at"`
	Rendered []string    `json:"rendered,omitempty"`
	Tree     *vdom.VNode `json:"tree"`
}

// NewRecord converts a commit.
func NewRecord(c *reactor.Commit) Record {
	return Record{
		RootID:   c.RootID,
		Seq:      c.Seq,
		At:       c.At.UTC(),
		Rendered: c.Rendered,
		Tree:     c.Tree,
	}
}

// Encode returns the JSON encoding of c.
func Encode(c *reactor.Commit) ([]byte, error) {
	return json.Marshal(NewRecord(c))
}
