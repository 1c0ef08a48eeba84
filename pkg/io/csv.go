package io

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
)

// DateFormat is the timestamp layout of the Start and End columns.
const DateFormat = time.DateTime

// Header is the header row written by WriteCSV.
var Header = []string{"Start", "End", "Buyer", "Table", "Rows"}

const (
	colStart = iota
	colEnd
	colBuyer
	colTable
	colRows
	numColumns
)

// ReadCSV decodes interval records from r. The first row is treated as a
// header. ReadCSV does not close r.
func ReadCSV(r io.Reader) ([]interval.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numColumns
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, csvError(err)
	}

	var records []interval.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		line, _ := cr.FieldPos(0)

		rec, err := parseRow(row, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, line int) (interval.Record, error) {
	start, err := parseDate(row[colStart], "start", line)
	if err != nil {
		return interval.Record{}, err
	}
	end, err := parseDate(row[colEnd], "end", line)
	if err != nil {
		return interval.Record{}, err
	}
	rows, err := parseNumber(row[colRows], "rows", line)
	if err != nil {
		return interval.Record{}, err
	}

	rec := interval.Record{
		Start: start,
		End:   end,
		Buyer: strings.TrimSpace(row[colBuyer]),
		Table: strings.TrimSpace(row[colTable]),
		Rows:  rows,
	}
	if err := rec.Validate(); err != nil {
		return interval.Record{}, errors.Wrap(errors.ErrCodeInvalidCSV, err, "line %d", line)
	}
	return rec, nil
}

func parseDate(value, field string, line int) (time.Time, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.New(errors.ErrCodeInvalidCSV,
			"line %d: %s must be in the format %s, not %q", line, field, DateFormat, value)
	}
	return t, nil
}

func parseNumber(value, field string, line int) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidCSV, "line %d: %s must be numeric, not %q", line, field, value)
	}
	return n, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if stderrors.As(err, &pe) {
		return errors.Wrap(errors.ErrCodeInvalidCSV, pe.Err, "line %d", pe.Line)
	}
	return errors.Wrap(errors.ErrCodeInvalidCSV, err, "read csv")
}

// ImportCSV reads the CSV file at path.
func ImportCSV(path string) ([]interval.Record, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// WriteCSV encodes records as CSV with a header row.
func WriteCSV(records []interval.Record, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, numColumns)
	for i, r := range records {
		row[colStart] = r.Start.Format(DateFormat)
		row[colEnd] = r.End.Format(DateFormat)
		row[colBuyer] = r.Buyer
		row[colTable] = r.Table
		row[colRows] = strconv.FormatInt(r.Rows, 10)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes records to a CSV file at path.
func ExportCSV(records []interval.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(records, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
