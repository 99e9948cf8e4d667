package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("Stocks That Hit 52-Week Highs On Friday, a Q&A")
	assert.Equal(t, []string{"stocks", "that", "hit", "52", "week", "highs", "on", "friday"}, got)
	assert.Empty(t, Tokenize(""))
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("the"))
	assert.True(t, IsStopword("on"))
	assert.False(t, IsStopword("earnings"))
}
