package guestbook

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lysyi3m/wedding-feed/app/common"
	"github.com/lysyi3m/wedding-feed/app/invitation"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims surrounding whitespace and composes the text to NFC so
// that visually equal Hangul input compares equal.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func validateAppend(author, message, password string, settings invitation.GuestbookSettings) error {
	if author == "" {
		return common.NewValidationError("author_name", "is required")
	}
	if message == "" {
		return common.NewValidationError("message", "is required")
	}
	if strings.TrimSpace(password) == "" {
		return common.NewValidationError("delete_password", "is required")
	}

	maxLengths := []struct {
		field string
		value string
		max   int
	}{
		{"author_name", author, settings.MaxNameLength},
		{"message", message, settings.MaxMessageLength},
		{"delete_password", password, settings.MaxPasswordLength},
	}
	for _, m := range maxLengths {
		if m.max > 0 && utf8.RuneCountInString(m.value) > m.max {
			return common.NewValidationError(m.field, fmt.Sprintf("must be at most %d characters", m.max))
		}
	}

	return nil
}

func contentHash(author, message string) string {
	fold := cases.Fold()
	content := fmt.Sprintf("%s|%s", fold.String(author), fold.String(message))

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
