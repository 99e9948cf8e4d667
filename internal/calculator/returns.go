package calculator

import "MarketLens/internal/model"

// DailyReturns computes close[t]/close[t-1] - 1 for every bar after the first.
func DailyReturns(ps model.PriceSeries) (model.ReturnSeries, error) {
	if err := requireBars(ps, "daily return", 2); err != nil {
		return model.ReturnSeries{}, err
	}
	pts := make([]model.Point, 0, ps.Len()-1)
	for t := 1; t < ps.Len(); t++ {
		pts = append(pts, model.Point{
			Date:  ps.Bars[t].Time,
			Value: ps.Bars[t].Close/ps.Bars[t-1].Close - 1,
		})
	}
	return model.NewReturnSeries(ps.Symbol, pts)
}
