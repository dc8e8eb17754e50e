// Package liveview keeps a local, ordered copy of the guestbook in sync with
// a subscription and re-renders it on every change.
package liveview

import (
	"context"
	"sync"

	"github.com/lysyi3m/wedding-feed/app/guestbook"
)

type Renderer interface {
	Render(entries []guestbook.Entry) error
}

// View is the projection of one subscription. UI state such as an open
// delete dialog belongs to the caller, not here.
type View struct {
	renderer Renderer
	mu       sync.Mutex
	revision int64
	entries  []guestbook.Entry
}

func NewView(renderer Renderer) *View {
	return &View{renderer: renderer, revision: -1}
}

// Apply replaces the local list with snapshot and renders it. Snapshots that
// are not newer than the current one are ignored.
func (v *View) Apply(snapshot guestbook.Snapshot) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if snapshot.Revision <= v.revision {
		return false, nil
	}

	v.revision = snapshot.Revision
	v.entries = append([]guestbook.Entry(nil), snapshot.Entries...)

	return true, v.renderer.Render(v.entries)
}

// Reset forgets the current revision so the next snapshot is always applied.
// Used when a new connection starts over with a fresh snapshot.
func (v *View) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.revision = -1
}

func (v *View) Revision() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.revision
}

func (v *View) Entries() []guestbook.Entry {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]guestbook.Entry(nil), v.entries...)
}

// Follow applies snapshots from an in-process subscription until ctx is done
// or the channel closes.
func Follow(ctx context.Context, snapshots <-chan guestbook.Snapshot, view *View) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snapshot, ok := <-snapshots:
			if !ok {
				return nil
			}
			if _, err := view.Apply(snapshot); err != nil {
				return err
			}
		}
	}
}
