package collector

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"MarketLens/internal/model"
)

// newsRow mirrors the columns of the analyst-ratings news dataset.
type newsRow struct {
	Headline  string `csv:"headline"`
	URL       string `csv:"url"`
	Publisher string `csv:"publisher"`
	Date      string `csv:"date"`
	Stock     string `csv:"stock"`
	Sentiment string `csv:"sentiment"`
}

// LoadNews reads a news CSV. Unparseable dates leave Date zero rather than
// failing the whole file; an unparseable sentiment cell is an error.
func LoadNews(r io.Reader) ([]model.NewsRecord, error) {
	var rows []*newsRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("read news: %w", err)
	}
	out := make([]model.NewsRecord, 0, len(rows))
	for i, row := range rows {
		rec := model.NewsRecord{
			Headline:  row.Headline,
			URL:       row.URL,
			Publisher: strings.TrimSpace(row.Publisher),
			Symbol:    strings.ToUpper(strings.TrimSpace(row.Stock)),
		}
		if t, err := ParseDate(row.Date); err == nil {
			rec.Date = t
		}
		if raw := strings.TrimSpace(row.Sentiment); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("news line %d: bad sentiment %q", i+2, raw)
			}
			rec.Sentiment = &v
		}
		out = append(out, rec)
	}
	return out, nil
}

// LoadNewsFile opens path and calls LoadNews.
func LoadNewsFile(path string) ([]model.NewsRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open news: %w", err)
	}
	defer f.Close()
	return LoadNews(f)
}
