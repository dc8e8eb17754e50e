package guestbook

import (
	"fmt"
	"strings"

	"github.com/lysyi3m/wedding-feed/app/invitation"
)

// Filterer applies the invitation's include/exclude rules to a new entry.
type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run returns the offending field and a reason when the entry is rejected.
func (f *Filterer) Run(author, message string, filters []invitation.Filter) (bool, string, string) {
	for _, filter := range filters {
		value := f.getFieldValue(author, message, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, filter.Field, fmt.Sprintf("contains blocked text '%s'", exclude)
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, filter.Field, fmt.Sprintf("must contain one of %v", filter.Includes)
			}
		}
	}

	return false, "", ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(author, message, field string) string {
	switch field {
	case "author_name":
		return author
	case "message":
		return message
	default:
		return ""
	}
}
