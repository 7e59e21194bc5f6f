package lessons

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vango-go/reactor/pkg/deps"
	"github.com/vango-go/reactor/pkg/reactor"
	"github.com/vango-go/reactor/pkg/vdom"
)

// User is a profile returned by a UserFetcher.
type User struct {
	ID   string
	Name string
}

// UserFetcher loads users. FetchUser must honor ctx cancellation.
type UserFetcher interface {
	FetchUser(ctx context.Context, id string) (User, error)
}

// Directory is an in-memory UserFetcher with a fixed latency.
type Directory struct {
	Latency time.Duration

	mu    sync.Mutex
	users map[string]User
	calls int
}

// NewDirectory creates a directory holding users.
func NewDirectory(latency time.Duration, users ...User) *Directory {
	d := &Directory{Latency: latency, users: make(map[string]User)}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

// Calls returns how many fetches were started.
func (d *Directory) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func (d *Directory) FetchUser(ctx context.Context, id string) (User, error) {
	d.mu.Lock()
	d.calls++
	u, ok := d.users[id]
	d.mu.Unlock()

	select {
	case <-ctx.Done():
		return User{}, ctx.Err()
	case <-time.After(d.Latency):
	}
	if !ok {
		return User{}, fmt.Errorf("user %q not found", id)
	}
	return u, nil
}

type profileState struct {
	loading bool
	user    User
	err     error
}

// UserProfile loads and shows one user. A response that arrives after
// UserID changed or the profile unmounted is dropped by the effect's
// cleanup.
type UserProfile struct {
	UserID  string
	Fetcher UserFetcher
}

func (p UserProfile) Render(ctx context.Context) *vdom.VNode {
	state, set := reactor.UseState(ctx, profileState{loading: true})
	dispatch := reactor.UseDispatch(ctx)

	reactor.UseEffect(ctx, func() reactor.Cleanup {
		fetchCtx, cancel := context.WithCancel(context.Background())
		id := p.UserID
		set.Set(profileState{loading: true})
		go func() {
			u, err := p.Fetcher.FetchUser(fetchCtx, id)
			if fetchCtx.Err() != nil {
				return
			}
			dispatch(func() {
				if fetchCtx.Err() == nil {
					set.Set(profileState{user: u, err: err})
				}
			})
		}()
		return reactor.Cleanup(cancel)
	}, deps.On(p.UserID))

	switch {
	case state.loading:
		return vdom.P(vdom.Class("profile"), vdom.Text("Loading "+p.UserID+"..."))
	case state.err != nil:
		return vdom.P(vdom.Class("profile error"), vdom.Text(state.err.Error()))
	}
	return vdom.Div(vdom.Class("profile"),
		vdom.H2(vdom.Text(state.user.Name)),
		vdom.Span(vdom.Key("user-id"), vdom.Text("#"+state.user.ID)),
	)
}

// UserPageFor builds a page with one button per id.
func UserPageFor(f UserFetcher) func(ctx context.Context) *vdom.VNode {
	return func(ctx context.Context) *vdom.VNode {
		id, set := reactor.UseState(ctx, "1")
		return vdom.Div(vdom.Class("users"),
			vdom.Nav(
				vdom.Button(vdom.Key("user-1"), vdom.OnClick(func() { set.Set("1") }), vdom.Text("Ada")),
				vdom.Button(vdom.Key("user-2"), vdom.OnClick(func() { set.Set("2") }), vdom.Text("Grace")),
				vdom.Button(vdom.Key("user-9"), vdom.OnClick(func() { set.Set("9") }), vdom.Text("Nobody")),
			),
			UserProfile{UserID: id, Fetcher: f},
		)
	}
}
