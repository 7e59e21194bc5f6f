package host

import (
	"errors"

	"github.com/vango-go/reactor/pkg/reactor"
)

type multi []reactor.Host

// Multi commits to every host in order. A failing host does not stop the
// others; their errors are joined.
func Multi(hosts ...reactor.Host) reactor.Host {
	out := make(multi, 0, len(hosts))
	for _, h := range hosts {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

func (m multi) Commit(c *reactor.Commit) error {
	var errs []error
	for _, h := range m {
		if err := h.Commit(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
