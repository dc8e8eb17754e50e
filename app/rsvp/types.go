package rsvp

import (
	"time"

	"github.com/lysyi3m/wedding-feed/app/database"
)

// RSVP is one attendance response. PartySize is 0 and MealPreference is nil
// when the guest is not attending.
type RSVP struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Attending      bool      `json:"attending"`
	PartySize      int       `json:"party_size"`
	MealPreference *bool     `json:"meal_preference"`
	CreatedAt      time.Time `json:"created_at"`
}

// SubmitRequest mirrors the attendance form. Attending has no default.
type SubmitRequest struct {
	Name           string
	Attending      *bool
	PartySize      int
	MealPreference *bool
}

type Summary struct {
	Responses       int       `json:"responses"`
	Attending       int       `json:"attending"`
	Declined        int       `json:"declined"`
	Headcount       int       `json:"headcount"`
	MealYes         int       `json:"meal_yes"`
	MealNo          int       `json:"meal_no"`
	MealUnspecified int       `json:"meal_unspecified"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toRSVP(r database.RSVP) RSVP {
	return RSVP{
		ID:             r.ID,
		Name:           r.Name,
		Attending:      r.Attending,
		PartySize:      r.PartySize,
		MealPreference: r.MealPreference,
		CreatedAt:      r.CreatedAt,
	}
}

func toSummary(s database.RSVPSummary, updatedAt time.Time) Summary {
	return Summary{
		Responses:       s.Responses,
		Attending:       s.Attending,
		Declined:        s.Declined,
		Headcount:       s.Headcount,
		MealYes:         s.MealYes,
		MealNo:          s.MealNo,
		MealUnspecified: s.MealUnspecified,
		UpdatedAt:       updatedAt,
	}
}
