package sheets

import (
	"context"
	"errors"
)

// ErrUnavailable wraps every failure reaching or authenticating to the backing store.
var ErrUnavailable = errors.New("sheet store unavailable")

// Table is a single tab of a spreadsheet with a fixed header in the first row.
// Rows passed in and out never include the header.
type Table interface {
	GetRows(ctx context.Context) ([][]string, error)
	AppendRows(ctx context.Context, rows [][]string) error
	ClearRows(ctx context.Context) error
}

type colIdx int

const (
	ColumnName    colIdx = 0
	ColumnDate    colIdx = 1
	ColumnTime    colIdx = 2
	ColumnPickup  colIdx = 3
	ColumnDropoff colIdx = 4
)

// Do not reorder, existing sheets rely on it
var Header = []string{
	"Name",
	"Date",
	"Time",
	"Pickup",
	"Dropoff",
}

func headerRow() []interface{} {
	row := make([]interface{}, len(Header))
	for i, h := range Header {
		row[i] = h
	}
	return row
}

// padRow returns row stretched to the header width. Spreadsheets drop trailing empty cells.
func padRow(row []string) []string {
	if len(row) >= len(Header) {
		return row[:len(Header)]
	}
	out := make([]string, len(Header))
	copy(out, row)
	return out
}
