package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/newthinker/sentiq/internal/core"
)

// DefaultTradeTimeLayout matches the ledger's "Timestamp IST" column, e.g. 02-12-2024 22:50
const DefaultTradeTimeLayout = "02-01-2006 15:04"

// Trade ledger columns
const (
	colAccount    = "Account"
	colCoin       = "Coin"
	colPrice      = "Execution Price"
	colSizeTokens = "Size Tokens"
	colSizeUSD    = "Size USD"
	colClosedPnL  = "Closed PnL"
	colFee        = "Fee"
	colTimeLocal  = "Timestamp IST"
)

// OpenTrades loads the trade ledger from a CSV file
func OpenTrades(path, layout string) ([]core.Fill, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, core.WrapError(core.ErrInputMissing, err)
	}
	defer f.Close()

	fills, stats, err := LoadTrades(f, layout)
	if err != nil {
		return nil, stats, fmt.Errorf("loading %s: %w", path, err)
	}
	return fills, stats, nil
}

// LoadTrades parses the trade ledger. The calendar date of a fill comes from
// its local wall-clock timestamp; non-numeric amounts are kept as NaN.
func LoadTrades(r io.Reader, layout string) ([]core.Fill, LoadStats, error) {
	var stats LoadStats
	if layout == "" {
		layout = DefaultTradeTimeLayout
	}

	tbl, err := newTable(r, colTimeLocal, colClosedPnL)
	if err != nil {
		return nil, stats, err
	}

	var fills []core.Fill
	for {
		rec, err := tbl.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, err
		}
		stats.Rows++

		raw := tbl.field(rec, colTimeLocal)
		at, err := time.ParseInLocation(layout, raw, time.UTC)
		if err != nil {
			return nil, stats, core.WrapError(core.ErrInputInvalid,
				fmt.Errorf("line %d: invalid %s %q", tbl.line, colTimeLocal, raw))
		}

		fill := core.Fill{
			Account: tbl.field(rec, colAccount),
			Coin:    tbl.field(rec, colCoin),
			Time:    at,
		}
		for _, f := range []struct {
			name string
			dst  *float64
		}{
			{colPrice, &fill.Price},
			{colSizeTokens, &fill.SizeTokens},
			{colSizeUSD, &fill.SizeUSD},
			{colClosedPnL, &fill.ClosedPnL},
			{colFee, &fill.Fee},
		} {
			v, ok := tbl.number(rec, f.name)
			if !ok && tbl.has(f.name) {
				stats.Coerced++
			}
			*f.dst = v
		}

		fills = append(fills, fill)
	}

	return fills, stats, nil
}
