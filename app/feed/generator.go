package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/lysyi3m/wedding-feed/app/cfg"
	"github.com/lysyi3m/wedding-feed/app/guestbook"
	"github.com/lysyi3m/wedding-feed/app/invitation"
)

// Generator renders the guestbook as an RSS 2.0 document.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(config *invitation.Config, entries []guestbook.Entry) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	title := config.DisplayTitle()
	g.writeElement(&buf, "title", title, 4)
	g.writeElement(&buf, "link", cfg.Get().SelfURL("/"), 4)
	g.writeElement(&buf, "description", g.describe(config, title), 4)

	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(cfg.Get().SelfURL("/guestbook.xml"))))

	lastBuildDate := time.Now().In(time.Local)
	if len(entries) > 0 {
		lastBuildDate = entries[0].CreatedAt.In(time.Local)
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Wedding-Feed/%s", cfg.Get().Version), 4)
	g.writeElement(&buf, "language", config.Language, 4)

	for _, entry := range entries {
		g.writeItem(&buf, entry)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) describe(config *invitation.Config, title string) string {
	description := fmt.Sprintf("Guestbook messages for %s", title)
	if config.Date != "" {
		description += ", " + config.Date
	}
	if config.Venue != "" {
		description += " at " + config.Venue
	}
	return description
}

func (g *Generator) writeItem(buf *bytes.Buffer, entry guestbook.Entry) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(entry.ID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", entry.AuthorName, 6)
	g.writeElement(buf, "description", entry.Message, 6)
	g.writeElement(buf, "pubDate", entry.CreatedAt.In(time.Local).Format(time.RFC1123Z), 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
