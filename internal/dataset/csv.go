package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/newthinker/sentiq/internal/core"
	"github.com/spf13/cast"
)

// table is a header-addressed view over a CSV stream
type table struct {
	reader  *csv.Reader
	columns map[string]int
	line    int
}

func newTable(r io.Reader, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.WrapError(core.ErrInputInvalid, errors.New("empty file"))
	}
	if err != nil {
		return nil, core.WrapError(core.ErrInputInvalid, fmt.Errorf("reading header: %w", err))
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		// Strip a UTF-8 BOM left by spreadsheet exports
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		columns[strings.ToLower(name)] = i
	}

	for _, name := range required {
		if _, ok := columns[strings.ToLower(name)]; !ok {
			return nil, core.WrapError(core.ErrInputInvalid, fmt.Errorf("missing column %q", name))
		}
	}

	return &table{reader: cr, columns: columns, line: 1}, nil
}

// next returns the next record, or io.EOF
func (t *table) next() ([]string, error) {
	rec, err := t.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, core.WrapError(core.ErrInputInvalid, fmt.Errorf("line %d: %w", t.line+1, err))
	}
	t.line++
	return rec, nil
}

func (t *table) has(name string) bool {
	_, ok := t.columns[strings.ToLower(name)]
	return ok
}

func (t *table) field(rec []string, name string) string {
	i, ok := t.columns[strings.ToLower(name)]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// number coerces a field to float64, yielding NaN for blank or non-numeric input
func (t *table) number(rec []string, name string) (float64, bool) {
	raw := t.field(rec, name)
	if raw == "" {
		return math.NaN(), false
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN(), false
	}
	return v, true
}
