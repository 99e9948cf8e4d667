package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"MarketLens/internal/model"
)

// dateLayouts are tried in order for every date cell.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	time.DateOnly,
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04",
	"1/2/2006",
}

// ParseDate parses s with the first matching layout.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// priceRow mirrors the columns of a historical price export.
type priceRow struct {
	Date     string `csv:"Date"`
	Open     string `csv:"Open"`
	High     string `csv:"High"`
	Low      string `csv:"Low"`
	Close    string `csv:"Close"`
	AdjClose string `csv:"Adj Close"`
	Volume   string `csv:"Volume"`
}

// LoadPrices reads a price CSV into a validated series sorted by date.
func LoadPrices(r io.Reader, symbol string) (model.PriceSeries, error) {
	var rows []*priceRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return model.PriceSeries{}, fmt.Errorf("read %s prices: %w", symbol, err)
	}
	bars := make([]model.OHLCV, 0, len(rows))
	for i, row := range rows {
		bar, err := row.bar()
		if err != nil {
			// header is line 1
			return model.PriceSeries{}, fmt.Errorf("%s prices line %d: %w", symbol, i+2, err)
		}
		bars = append(bars, bar)
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return model.NewPriceSeries(symbol, bars)
}

func (r *priceRow) bar() (model.OHLCV, error) {
	t, err := ParseDate(r.Date)
	if err != nil {
		return model.OHLCV{}, err
	}
	var b model.OHLCV
	b.Time = t
	fields := []struct {
		name string
		raw  string
		dst  *float64
		opt  bool
	}{
		{"Open", r.Open, &b.Open, true},
		{"High", r.High, &b.High, true},
		{"Low", r.Low, &b.Low, true},
		{"Close", r.Close, &b.Close, false},
		{"Adj Close", r.AdjClose, &b.AdjClose, true},
		{"Volume", r.Volume, &b.Volume, true},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(f.raw)
		if raw == "" {
			if !f.opt {
				return model.OHLCV{}, fmt.Errorf("missing %s", f.name)
			}
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.OHLCV{}, fmt.Errorf("bad %s %q", f.name, raw)
		}
		*f.dst = v
	}
	if b.AdjClose == 0 {
		b.AdjClose = b.Close
	}
	if b.High == 0 {
		b.High = b.Close
	}
	if b.Low == 0 {
		b.Low = b.Close
	}
	return b, nil
}

// CSVFetcher implements Fetcher over a directory of <SYMBOL>.csv files.
type CSVFetcher struct {
	Dir string
}

// NewCSVFetcher creates a fetcher rooted at dir.
func NewCSVFetcher(dir string) *CSVFetcher { return &CSVFetcher{Dir: dir} }

func (f *CSVFetcher) Name() string { return "csv" }

// Path returns the file that holds symbol's prices.
func (f *CSVFetcher) Path(symbol string) string {
	return filepath.Join(f.Dir, strings.ToUpper(symbol)+".csv")
}

func (f *CSVFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path(symbol))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s has no price file in %s", model.ErrUnknownSymbol, symbol, f.Dir)
	}
	if err != nil {
		return nil, fmt.Errorf("open prices: %w", err)
	}
	defer file.Close()

	ps, err := LoadPrices(file, symbol)
	if err != nil {
		return nil, err
	}
	return lastN(ps.Bars, days), nil
}
