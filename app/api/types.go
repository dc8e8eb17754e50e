package api

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/lysyi3m/wedding-feed/app/feed"
	"github.com/lysyi3m/wedding-feed/app/guestbook"
	"github.com/lysyi3m/wedding-feed/app/invitation"
	"github.com/lysyi3m/wedding-feed/app/rsvp"
	"github.com/lysyi3m/wedding-feed/app/tasks"
)

type GeneratorInterface interface {
	Run(config *invitation.Config, entries []guestbook.Entry) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	store        *guestbook.Store
	rsvps        *rsvp.Service
	invitation   *invitation.Cache
	generator    GeneratorInterface
	scheduler    tasks.TaskSchedulerInterface
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	writeTimeout time.Duration
}

type CreateEntryRequest struct {
	AuthorName     string `json:"author_name"`
	Message        string `json:"message"`
	DeletePassword string `json:"delete_password"`
}

type DeleteEntryRequest struct {
	DeletePassword string `json:"delete_password"`
}

type CreateRSVPRequest struct {
	Name           string `json:"name"`
	Attending      *bool  `json:"attending"`
	PartySize      int    `json:"party_size"`
	MealPreference *bool  `json:"meal_preference"`
}

// CreatedResponse is returned for every accepted submission.
type CreatedResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
