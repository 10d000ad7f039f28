package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestIdentifierPicksClosest(t *testing.T) {
	got, ok := nearestIdentifier("test", []string{"teest", "frobnicate"})
	assert.True(t, ok)
	assert.Equal(t, "teest", got)
}

func TestNearestIdentifierNoCandidates(t *testing.T) {
	_, ok := nearestIdentifier("test", nil)
	assert.False(t, ok)
}

func TestNearestIdentifierNoThreshold(t *testing.T) {
	// Even a very distant candidate is suggested: §4.6 specifies no minimum
	// distance cutoff.
	got, ok := nearestIdentifier("zzz", []string{"completely_unrelated_name"})
	assert.True(t, ok)
	assert.Equal(t, "completely_unrelated_name", got)
}
