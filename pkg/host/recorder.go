package host

import (
	"sync"

	"github.com/vango-go/reactor/pkg/reactor"
)

// Recorder keeps commits in memory. A positive limit keeps only the most
// recent commits.
type Recorder struct {
	mu      sync.Mutex
	limit   int
	commits []*reactor.Commit
	subs    []chan *reactor.Commit
}

// NewRecorder creates a recorder that keeps every commit.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// NewRingRecorder creates a recorder that keeps the last limit commits.
func NewRingRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Commit implements reactor.Host.
func (r *Recorder) Commit(c *reactor.Commit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commits = append(r.commits, c)
	if r.limit > 0 && len(r.commits) > r.limit {
		r.commits = append(r.commits[:0:0], r.commits[len(r.commits)-r.limit:]...)
	}
	for _, ch := range r.subs {
		select {
		case ch <- c:
		default:
			// Slow subscriber
		}
	}
	return nil
}

// Commits returns a copy of the kept commits, oldest first.
func (r *Recorder) Commits() []*reactor.Commit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*reactor.Commit(nil), r.commits...)
}

// Last returns the most recent commit, or nil.
func (r *Recorder) Last() *reactor.Commit {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.commits) == 0 {
		return nil
	}
	return r.commits[len(r.commits)-1]
}

// Len returns the number of kept commits.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.commits)
}

// Reset drops every kept commit.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.commits = nil
	r.mu.Unlock()
}

// Subscribe returns a channel receiving each new commit and a cancel func
// that stops delivery and closes the channel. Commits are dropped for a
// subscriber whose buffer is full.
func (r *Recorder) Subscribe(buffer int) (<-chan *reactor.Commit, func()) {
	ch := make(chan *reactor.Commit, buffer)
	r.mu.Lock()
	r.subs = append(r.subs, ch)
	r.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for i, sub := range r.subs {
				if sub == ch {
					r.subs = append(r.subs[:i], r.subs[i+1:]...)
					break
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}
