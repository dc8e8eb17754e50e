package database

import (
	"time"
)

type Entry struct {
	Seq          int64 // Insertion order, breaks created_at ties
	ID           string
	AuthorName   string
	Message      string
	PasswordHash string
	ContentHash  string
	CreatedAt    time.Time
}

type RSVP struct {
	Seq            int64
	ID             string
	Name           string
	Attending      bool
	PartySize      int
	MealPreference *bool // nil when unspecified
	CreatedAt      time.Time
}

// RSVPSummary counts responses; meal counts are in heads, attending only.
type RSVPSummary struct {
	Responses       int
	Attending       int
	Declined        int
	Headcount       int
	MealYes         int
	MealNo          int
	MealUnspecified int
}
