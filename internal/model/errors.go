package model

import "errors"

// Analysis failures reported to callers. Wrapped with context via %w, so
// match with errors.Is.
var (
	ErrInsufficientData    = errors.New("insufficient data")
	ErrInsufficientOverlap = errors.New("insufficient overlap")
	ErrUnknownSymbol       = errors.New("unknown symbol")
	ErrEmptyPortfolio      = errors.New("empty portfolio")
	ErrInvalidWeights      = errors.New("invalid weights")
	ErrInvalidSeries       = errors.New("invalid series")
	ErrUndefinedStatistic  = errors.New("undefined statistic")
)
