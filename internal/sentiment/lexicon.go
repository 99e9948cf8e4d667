package sentiment

import (
	"MarketLens/internal/model"
	"MarketLens/internal/text"
)

// Scorer assigns a polarity in [-1, 1] to a headline.
type Scorer interface {
	Score(headline string) float64
}

// LexiconScorer scores headlines by counting finance-flavoured positive and
// negative words. A negator flips the polarity of the word that follows it.
type LexiconScorer struct {
	Positive map[string]struct{}
	Negative map[string]struct{}
	Negators map[string]struct{}
}

// NewLexiconScorer returns a scorer with the built-in word lists.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{
		Positive: wordSet(positiveWords),
		Negative: wordSet(negativeWords),
		Negators: wordSet(negators),
	}
}

// Score returns (pos-neg)/(pos+neg) over the matched words, or 0 when none match.
func (l *LexiconScorer) Score(headline string) float64 {
	var pos, neg int
	negate := false
	for _, tok := range text.Tokenize(headline) {
		if _, ok := l.Negators[tok]; ok {
			negate = true
			continue
		}
		_, isPos := l.Positive[tok]
		_, isNeg := l.Negative[tok]
		if negate {
			isPos, isNeg = isNeg, isPos
		}
		negate = false
		switch {
		case isPos:
			pos++
		case isNeg:
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

// ScoreMissing returns a copy of news where every unscored record has been
// scored from its headline.
func ScoreMissing(news []model.NewsRecord, scorer Scorer) []model.NewsRecord {
	out := make([]model.NewsRecord, len(news))
	for i, rec := range news {
		if !rec.HasSentiment() {
			s := scorer.Score(rec.Headline)
			rec.Sentiment = &s
		}
		out[i] = rec
	}
	return out
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

var negators = []string{"not", "no", "never", "without", "fails", "failed", "lack"}

var positiveWords = []string{
	"beat", "beats", "bullish", "gain", "gains", "gained", "growth", "grow", "grows",
	"higher", "high", "highs", "jump", "jumps", "jumped", "outperform", "outperforms",
	"profit", "profits", "profitable", "rally", "rallies", "record", "rise", "rises",
	"rising", "soar", "soars", "strong", "stronger", "surge", "surges", "upgrade",
	"upgraded", "upgrades", "buy", "positive", "boost", "boosts", "raises", "raised",
	"exceed", "exceeds", "optimistic", "win", "wins", "success", "successful",
	"improve", "improves", "improved", "expand", "expands", "recovery", "rebound",
}

var negativeWords = []string{
	"bearish", "cut", "cuts", "decline", "declines", "declined", "downgrade",
	"downgraded", "downgrades", "drop", "drops", "dropped", "fall", "falls", "fell",
	"loss", "losses", "lower", "low", "lows", "miss", "misses", "missed", "plunge",
	"plunges", "sell", "selloff", "slump", "slumps", "weak", "weaker", "warning",
	"warns", "lawsuit", "fraud", "probe", "recall", "layoffs", "negative", "risk",
	"risks", "crash", "crashes", "tumble", "tumbles", "bankruptcy", "debt", "sinks",
	"concern", "concerns", "underperform", "underperforms", "short", "halt",
}
