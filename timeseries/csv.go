package timeseries

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	TimeColumn string // Column name for timestamps (optional)
	TimeFormat string // Timestamp format (default: "2006-01-02 15:04:05")
	Delimiter  rune   // Field delimiter (default: ',')
	SkipRows   int    // Number of rows to skip before the header
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		TimeFormat: "2006-01-02 15:04:05",
		Delimiter:  ',',
	}
}

// LoadCSV loads an observation table from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file, opts)
}

// ReadCSV loads an observation table from an io.Reader. The first
// non-skipped row names the columns. Empty, "NA", "NaN", and "null" cells
// become NaN; unparseable numeric cells do too, so row alignment is never
// lost to a bad record.
func ReadCSV(r io.Reader, opts *CSVOptions) (*Table, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(header))
	timeIdx := -1
	for i, h := range header {
		h = strings.TrimSpace(strings.Trim(h, "\""))
		names[i] = h
		if opts.TimeColumn != "" && h == opts.TimeColumn {
			timeIdx = i
		}
	}

	cols := make([][]float64, len(names))
	var timestamps []time.Time

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for i := range names {
			if i == timeIdx {
				ts, perr := time.Parse(opts.TimeFormat, strings.TrimSpace(record[i]))
				if perr != nil {
					ts = time.Time{}
				}
				timestamps = append(timestamps, ts)
				continue
			}
			var v float64
			if i < len(record) {
				v = parseCell(record[i])
			} else {
				v = math.NaN()
			}
			cols[i] = append(cols[i], v)
		}
	}

	tbl := NewTable()
	for i, name := range names {
		if i == timeIdx {
			continue
		}
		if len(cols[i]) == 0 {
			return nil, errors.New("timeseries: no data rows found in CSV")
		}
		if err := tbl.AddColumn(name, cols[i]); err != nil {
			return nil, err
		}
	}
	if timeIdx >= 0 {
		tbl.Timestamps = timestamps
	}
	return tbl, nil
}

func parseCell(s string) float64 {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	switch s {
	case "", "NA", "NaN", "null":
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
