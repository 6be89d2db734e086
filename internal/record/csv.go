package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoHeader is returned when the input holds no header row at all.
var ErrNoHeader = errors.New("csv input has no header row")

// ReadCSV parses a Record Set from r. Columns are located by header name, so
// any column order is accepted. Only structural problems reject the input: no
// header, a missing column, or malformed CSV. Field contents are not
// validated, so a row with an unparsable year is kept as read.
func ReadCSV(r io.Reader) (Set, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, col := range Header {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv header missing columns: %s", strings.Join(missing, ", "))
	}

	set := Set{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		set = append(set, Record{
			SeriesID:   row[index[ColumnSeriesID]],
			Year:       strings.TrimSpace(row[index[ColumnYear]]),
			Period:     row[index[ColumnPeriod]],
			PeriodName: row[index[ColumnPeriodName]],
			Value:      row[index[ColumnValue]],
		})
	}

	return set, nil
}

// WriteCSV writes the header followed by one row per record.
func WriteCSV(w io.Writer, set Set) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, rec := range set {
		row := []string{
			rec.SeriesID,
			rec.Year,
			rec.Period,
			rec.Value,
			rec.PeriodName,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
