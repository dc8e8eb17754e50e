package guestbook

import (
	"testing"

	"github.com/lysyi3m/wedding-feed/app/invitation"
	"github.com/stretchr/testify/assert"
)

func TestFiltererNoFilters(t *testing.T) {
	filtered, _, _ := NewFilterer().Run("Yuna", "Congrats!", nil)
	assert.False(t, filtered)
}

func TestFiltererExclude(t *testing.T) {
	filters := []invitation.Filter{{Field: "message", Excludes: []string{"http://"}}}

	filtered, field, reason := NewFilterer().Run("Bot", "see HTTP://spam.example", filters)
	assert.True(t, filtered)
	assert.Equal(t, "message", field)
	assert.Contains(t, reason, "http://")

	filtered, _, _ = NewFilterer().Run("Yuna", "Congrats!", filters)
	assert.False(t, filtered)
}

func TestFiltererInclude(t *testing.T) {
	filters := []invitation.Filter{{Field: "author_name", Includes: []string{"kim", "lee"}}}

	filtered, field, _ := NewFilterer().Run("Park", "hi", filters)
	assert.True(t, filtered)
	assert.Equal(t, "author_name", field)

	filtered, _, _ = NewFilterer().Run("Kim Yuna", "hi", filters)
	assert.False(t, filtered)
}

func TestNormalizeText(t *testing.T) {
	// decomposed jamo compose to the same syllables
	decomposed := "\u1112\u1161\u11ab"
	assert.Equal(t, "한", NormalizeText("  "+decomposed+"\n"))
	assert.Equal(t, contentHash("한", "축하"), contentHash(NormalizeText(decomposed), "축하"))
}

func TestContentHashFoldsCase(t *testing.T) {
	assert.Equal(t, contentHash("Yuna", "Congrats!"), contentHash("YUNA", "congrats!"))
	assert.NotEqual(t, contentHash("Yuna", "Congrats!"), contentHash("Yuna", "Congrats?"))
}
