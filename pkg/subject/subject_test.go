package subject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var config = Config{
	{Name: "Math", Keywords: []string{"math", "algebra", "calculus"}},
	{Name: "Reading", Keywords: []string{"read", "book"}},
	{Name: "Physics", Keywords: []string{"physics"}},
}

func TestMatches_CaseInsensitive(t *testing.T) {
	assert.True(t, Matches("MATH homework", []string{"math"}))
	assert.True(t, Matches("Calculus review", []string{"math", "calculus"}))
	assert.False(t, Matches("History essay", []string{"math"}))
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, config.MatchesAny("Evening book club"))
	assert.True(t, config.MatchesAny("Algebra drills"))
	assert.False(t, config.MatchesAny("Piano lesson"))
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// given: the title matches both Math and Reading keywords
	name, ok := config.Classify("Math and Reading Combined")

	// then: only the first configured subject counts
	assert.True(t, ok)
	assert.Equal(t, "Math", name)
}

func TestClassify_NoMatch(t *testing.T) {
	name, ok := config.Classify("Gym session")

	assert.False(t, ok)
	assert.Equal(t, "", name)
}

func TestHas(t *testing.T) {
	assert.True(t, config.Has("Reading"))
	assert.False(t, config.Has("reading"))
	assert.False(t, config.Has("History"))
}
