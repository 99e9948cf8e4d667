package model

import (
	"fmt"
	"math"
	"sort"
)

// WeightTolerance is the allowed deviation of the weight sum from 1.0.
const WeightTolerance = 1e-6

// Holding is one constituent of a portfolio.
type Holding struct {
	Symbol string
	Weight float64
}

// Portfolio is a validated set of weighted holdings, sorted by symbol.
type Portfolio struct {
	holdings []Holding
}

// NewPortfolio validates weights and builds a Portfolio.
func NewPortfolio(weights map[string]float64) (*Portfolio, error) {
	if len(weights) == 0 {
		return nil, ErrEmptyPortfolio
	}
	holdings := make([]Holding, 0, len(weights))
	sum := 0.0
	for sym, w := range weights {
		if sym == "" {
			return nil, fmt.Errorf("%w: empty symbol", ErrInvalidWeights)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: %s weight %v", ErrInvalidWeights, sym, w)
		}
		sum += w
		holdings = append(holdings, Holding{Symbol: sym, Weight: w})
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return nil, fmt.Errorf("%w: weights sum to %.6f", ErrInvalidWeights, sum)
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Symbol < holdings[j].Symbol })
	return &Portfolio{holdings: holdings}, nil
}

// Holdings returns a copy of the constituents.
func (p *Portfolio) Holdings() []Holding {
	if p == nil {
		return nil
	}
	return append([]Holding(nil), p.holdings...)
}

// Len returns the number of holdings.
func (p *Portfolio) Len() int {
	if p == nil {
		return 0
	}
	return len(p.holdings)
}

// Symbols returns the constituent symbols in sorted order.
func (p *Portfolio) Symbols() []string {
	syms := make([]string, p.Len())
	for i, h := range p.Holdings() {
		syms[i] = h.Symbol
	}
	return syms
}
