package backtest

import "sort"

// Entry is one row of a strategy comparison
type Entry struct {
	Rank        int
	Strategy    string
	Description string
	Stats       Stats
}

// Ranking orders strategies by descending Sharpe ratio
type Ranking []Entry

// Compare ranks results by Sharpe ratio, best first. Ties keep input order.
func Compare(results []*Result) Ranking {
	ranking := make(Ranking, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		ranking = append(ranking, Entry{
			Strategy:    r.Strategy,
			Description: r.Description,
			Stats:       r.Stats,
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Stats.SharpeRatio > ranking[j].Stats.SharpeRatio
	})
	for i := range ranking {
		ranking[i].Rank = i + 1
	}
	return ranking
}

// Best returns the top-ranked entry
func (r Ranking) Best() (Entry, bool) {
	if len(r) == 0 {
		return Entry{}, false
	}
	return r[0], true
}
