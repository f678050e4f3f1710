package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/newthinker/sentiq/internal/core"
)

// Sentiment index columns
const (
	colTimestamp      = "timestamp"
	colValue          = "value"
	colClassification = "classification"
	colDate           = "date"
)

// LoadStats describes how many rows a loader accepted
type LoadStats struct {
	Rows    int // data rows read
	Skipped int // rows dropped entirely
	Coerced int // numeric fields replaced by NaN
}

// OpenSentiment loads the fear/greed index from a CSV file
func OpenSentiment(path string) ([]core.SentimentPoint, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, core.WrapError(core.ErrInputMissing, err)
	}
	defer f.Close()

	points, stats, err := LoadSentiment(f)
	if err != nil {
		return nil, stats, fmt.Errorf("loading %s: %w", path, err)
	}
	return points, stats, nil
}

// LoadSentiment parses a fear/greed index CSV with columns
// timestamp (epoch seconds), value, classification and date (YYYY-MM-DD).
// Rows whose value is not numeric are skipped.
func LoadSentiment(r io.Reader) ([]core.SentimentPoint, LoadStats, error) {
	var stats LoadStats

	tbl, err := newTable(r, colValue)
	if err != nil {
		return nil, stats, err
	}
	if !tbl.has(colDate) && !tbl.has(colTimestamp) {
		return nil, stats, core.WrapError(core.ErrInputInvalid,
			errors.New("need a date or timestamp column"))
	}

	var points []core.SentimentPoint
	for {
		rec, err := tbl.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, err
		}
		stats.Rows++

		value, ok := tbl.number(rec, colValue)
		if !ok {
			stats.Skipped++
			continue
		}

		ts, date, err := sentimentTime(tbl.field(rec, colTimestamp), tbl.field(rec, colDate))
		if err != nil {
			return nil, stats, core.WrapError(core.ErrInputInvalid,
				fmt.Errorf("line %d: %w", tbl.line, err))
		}

		points = append(points, core.SentimentPoint{
			Date:           date,
			Timestamp:      ts,
			Value:          value,
			Classification: tbl.field(rec, colClassification),
		})
	}

	return points, stats, nil
}

// sentimentTime resolves the calendar date of a row. The date column wins;
// the epoch timestamp is read as UTC when the date is absent.
func sentimentTime(rawTS, rawDate string) (time.Time, time.Time, error) {
	var ts time.Time
	if rawTS != "" {
		secs, err := strconv.ParseInt(rawTS, 10, 64)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid timestamp %q", rawTS)
		}
		ts = time.Unix(secs, 0).UTC()
	}

	if rawDate != "" {
		d, err := time.Parse(core.DateLayout, rawDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q", rawDate)
		}
		return ts, d, nil
	}

	if ts.IsZero() {
		return time.Time{}, time.Time{}, errors.New("row has neither date nor timestamp")
	}
	return ts, core.DateOf(ts), nil
}
