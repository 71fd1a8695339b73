// Package statement parses bank-statement CSV exports into typed rows.
//
// Expected format: a header row followed by (date, description, amount)
// rows. Amounts are signed as supplied by the bank export: positive is a
// deposit, negative a withdrawal. The sign is never re-derived from a
// separate type column.
package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Row is one parsed statement transaction.
type Row struct {
	Date        time.Time
	Description string
	Amount      float64
}

// RowError records a data row that could not be parsed. Row numbers are
// 1-based and count the header.
type RowError struct {
	RowNum  int    `json:"row"`
	Message string `json:"message"`
}

// Result holds the parsed rows plus any per-row failures. Row failures are
// isolated; a statement with some bad rows still ingests the good ones.
type Result struct {
	Rows      []Row
	RowErrors []RowError
}

// ErrEmptyFile is returned when the file has no data rows at all.
var ErrEmptyFile = errors.New("statement file contains no data rows")

// ErrNoParseableRows is returned when data rows exist but none parsed.
var ErrNoParseableRows = errors.New("statement file contains no parseable rows")

// Accepted date layouts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

// Parse reads a statement CSV. The header row is skipped; blank rows are
// ignored. Rows with a bad date, bad amount, or too few columns are
// reported in Result.RowErrors rather than aborting the parse.
func Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}

	result := &Result{}
	rowNum := 1
	dataRows := 0

	for {
		record, err := reader.Read()
		rowNum++
		if err == io.EOF {
			break
		}
		if err != nil {
			result.RowErrors = append(result.RowErrors, RowError{
				RowNum:  rowNum,
				Message: "malformed CSV row",
			})
			continue
		}

		if len(record) == 0 || strings.Join(record, "") == "" {
			continue
		}
		dataRows++

		if len(record) < 3 {
			result.RowErrors = append(result.RowErrors, RowError{
				RowNum:  rowNum,
				Message: fmt.Sprintf("expected 3 columns, got %d", len(record)),
			})
			continue
		}

		date, ok := parseDate(strings.TrimSpace(record[0]))
		if !ok {
			result.RowErrors = append(result.RowErrors, RowError{
				RowNum:  rowNum,
				Message: fmt.Sprintf("unparseable date %q", record[0]),
			})
			continue
		}

		amountStr := strings.TrimSpace(record[2])
		amountStr = strings.ReplaceAll(amountStr, ",", "")
		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil {
			result.RowErrors = append(result.RowErrors, RowError{
				RowNum:  rowNum,
				Message: fmt.Sprintf("invalid amount %q", record[2]),
			})
			continue
		}

		result.Rows = append(result.Rows, Row{
			Date:        date,
			Description: strings.TrimSpace(record[1]),
			Amount:      amount,
		})
	}

	if dataRows == 0 {
		return nil, ErrEmptyFile
	}
	if len(result.Rows) == 0 {
		return nil, ErrNoParseableRows
	}

	return result, nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
