package guestbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotAt(revision int64) Snapshot {
	return Snapshot{Revision: revision, Entries: []Entry{}}
}

func TestHubIgnoresStaleSnapshots(t *testing.T) {
	hub := NewHub(4)
	sub := hub.Subscribe(snapshotAt(0))
	defer sub.Close()

	assert.True(t, hub.Publish(snapshotAt(1)))
	assert.False(t, hub.Publish(snapshotAt(1)))
	assert.False(t, hub.Publish(snapshotAt(0)))
	assert.Equal(t, int64(1), hub.Revision())

	assert.Equal(t, int64(0), (<-sub.C()).Revision)
	assert.Equal(t, int64(1), (<-sub.C()).Revision)
	assert.Len(t, sub.C(), 0)
}

func TestHubDropsOldestWhenFull(t *testing.T) {
	hub := NewHub(2)
	sub := hub.Subscribe(snapshotAt(0))
	defer sub.Close()

	for rev := int64(1); rev <= 5; rev++ {
		require.True(t, hub.Publish(snapshotAt(rev)))
	}

	// the newest snapshot always survives
	assert.Equal(t, int64(4), (<-sub.C()).Revision)
	assert.Equal(t, int64(5), (<-sub.C()).Revision)
	assert.Equal(t, int64(4), hub.Dropped())
}

func TestHubSlowReaderConvergesOnNewest(t *testing.T) {
	hub := NewHub(1)
	fast := hub.Subscribe(snapshotAt(0))
	defer fast.Close()
	slow := hub.Subscribe(snapshotAt(0))
	defer slow.Close()

	var seen []int64
	for rev := int64(1); rev <= 4; rev++ {
		require.True(t, hub.Publish(snapshotAt(rev)))
		seen = append(seen, (<-fast.C()).Revision)
	}

	assert.Equal(t, []int64{1, 2, 3, 4}, seen)
	assert.Equal(t, int64(4), (<-slow.C()).Revision)
}

func TestHubCloseEndsSubscriptions(t *testing.T) {
	hub := NewHub(1)
	sub := hub.Subscribe(snapshotAt(0))
	<-sub.C()

	hub.Close()

	_, ok := <-sub.C()
	assert.False(t, ok)
	assert.Equal(t, 0, hub.SubscriberCount())
	assert.False(t, hub.Publish(snapshotAt(1)))

	late := hub.Subscribe(snapshotAt(1))
	_, ok = <-late.C()
	assert.False(t, ok)
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	hub := NewHub(1)
	sub := hub.Subscribe(snapshotAt(0))

	sub.Close()
	sub.Close()

	assert.Equal(t, 0, hub.SubscriberCount())
	assert.True(t, hub.Publish(snapshotAt(1)))
}
