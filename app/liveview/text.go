package liveview

import (
	"fmt"
	"io"
	"time"

	"github.com/lysyi3m/wedding-feed/app/guestbook"
)

const EmptyPlaceholder = "Be the first to leave a message!"

// TextRenderer prints the full guestbook on every render.
type TextRenderer struct {
	w      io.Writer
	layout string
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w, layout: "2006-01-02 15:04"}
}

func (r *TextRenderer) Render(entries []guestbook.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintf(r.w, "%s\n\n", EmptyPlaceholder)
		return err
	}

	if _, err := fmt.Fprintf(r.w, "Guestbook (%d)\n", len(entries)); err != nil {
		return err
	}
	for _, e := range entries {
		_, err := fmt.Fprintf(r.w, "[%s] %s: %s\n", e.CreatedAt.In(time.Local).Format(r.layout), e.AuthorName, e.Message)
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.w)
	return err
}
