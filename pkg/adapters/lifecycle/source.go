package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/storyboard/pkg/core"
)

// Reload reports that the board was reloaded from disk.
type Reload struct {
	Path  string
	Notes int
	At    time.Time
}

func (r Reload) String() string {
	return fmt.Sprintf("board reloaded: %d notes", r.Notes)
}

type reloadSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits a Reload for every board
// reload. Raw MODIFY and DELETE events are dropped.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &reloadSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *reloadSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start runs until the upstream channel closes or ctx ends, then closes Events.
func (s *reloadSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			var e core.Event
			var ok bool
			select {
			case <-ctx.Done():
				return nil
			case e, ok = <-s.events:
			}
			if !ok {
				return nil
			}
			if e.Type != core.EventReload {
				continue
			}
			r := Reload{Path: e.Path, Notes: e.Notes, At: time.Unix(e.Timestamp, 0)}
			select {
			case s.out <- r:
			case <-ctx.Done():
				return nil
			}
		}
	})
	return nil
}
