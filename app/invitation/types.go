package invitation

import "time"

type Config struct {
	Title     string            `yaml:"title"`
	Groom     Person            `yaml:"groom"`
	Bride     Person            `yaml:"bride"`
	Date      string            `yaml:"date"` // YYYY-MM-DD
	Venue     string            `yaml:"venue"`
	Language  string            `yaml:"language"`
	Guestbook GuestbookSettings `yaml:"guestbook"`
	RSVP      RSVPSettings      `yaml:"rsvp"`
}

type Person struct {
	Name   string `yaml:"name"`
	Father string `yaml:"father"`
	Mother string `yaml:"mother"`
}

type GuestbookSettings struct {
	MaxNameLength     int      `yaml:"max_name_length"`
	MaxMessageLength  int      `yaml:"max_message_length"`
	MaxPasswordLength int      `yaml:"max_password_length"`
	DuplicateWindow   int      `yaml:"duplicate_window"` // seconds, -1 disables
	Filters           []Filter `yaml:"filters"`
}

type RSVPSettings struct {
	Enabled      *bool      `yaml:"enabled"`
	MaxPartySize int        `yaml:"max_party_size"`
	Deadline     *time.Time `yaml:"deadline"`
}

type Filter struct {
	Field    string   `yaml:"field"` // author_name or message
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

func (s GuestbookSettings) GetDuplicateWindow() time.Duration {
	if s.DuplicateWindow < 0 {
		return 0
	}
	return time.Duration(s.DuplicateWindow) * time.Second
}

func (s RSVPSettings) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// IsOpen reports whether submissions are accepted at now.
func (s RSVPSettings) IsOpen(now time.Time) bool {
	if !s.IsEnabled() {
		return false
	}
	return s.Deadline == nil || now.Before(*s.Deadline)
}

// DisplayTitle falls back to "<groom> & <bride>" when no title is configured.
func (c *Config) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	if c.Groom.Name != "" && c.Bride.Name != "" {
		return c.Groom.Name + " & " + c.Bride.Name
	}
	return "Wedding Guestbook"
}
