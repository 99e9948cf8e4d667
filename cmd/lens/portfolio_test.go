package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/model"
)

func TestParseWeightArgs(t *testing.T) {
	w, err := parseWeightArgs([]string{"aapl=0.6", "MSFT=40%"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"AAPL": 0.6, "MSFT": 0.4}, w)

	p, err := model.NewPortfolio(w)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, p.Symbols())
}

func TestParseWeightArgs_Invalid(t *testing.T) {
	for _, args := range [][]string{{"AAPL"}, {"=0.5"}, {"AAPL=half"}} {
		_, err := parseWeightArgs(args)
		assert.ErrorIs(t, err, model.ErrInvalidWeights, "%v", args)
	}
}
