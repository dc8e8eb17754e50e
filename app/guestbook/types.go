package guestbook

import (
	"time"

	"github.com/lysyi3m/wedding-feed/app/database"
)

// Entry is the public view of a guestbook message. The password hash never
// leaves the store.
type Entry struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"author_name"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// Snapshot is the complete, ordered listing of entries at a revision.
// Entries are newest first. Receivers must not modify the slice.
type Snapshot struct {
	Revision int64   `json:"revision"`
	Entries  []Entry `json:"entries"`
}

type AppendRequest struct {
	AuthorName     string
	Message        string
	DeletePassword string
}

type Stats struct {
	Revision    int64
	Subscribers int
	Dropped     int64
}

func toEntry(e database.Entry) Entry {
	return Entry{
		ID:         e.ID,
		AuthorName: e.AuthorName,
		Message:    e.Message,
		CreatedAt:  e.CreatedAt,
	}
}

func toSnapshot(entries []database.Entry, revision int64) Snapshot {
	snapshot := Snapshot{
		Revision: revision,
		Entries:  make([]Entry, 0, len(entries)),
	}
	for _, e := range entries {
		snapshot.Entries = append(snapshot.Entries, toEntry(e))
	}
	return snapshot
}

const MessageTypeSnapshot = "snapshot"

// Message is the stream frame that carries a snapshot to remote subscribers.
type Message struct {
	Type string `json:"type"`
	Snapshot
}

func NewSnapshotMessage(snapshot Snapshot) Message {
	return Message{Type: MessageTypeSnapshot, Snapshot: snapshot}
}
