package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetClient stores rows in one tab of a Google spreadsheet.
type SheetClient struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

func NewSheetClient(ctx context.Context, jsonPath, spreadsheetID, sheetName string) (*SheetClient, error) {
	srv, err := sheets.NewService(ctx, option.WithCredentialsFile(jsonPath))
	if err != nil {
		return nil, unavailable("create sheets client", err)
	}
	return &SheetClient{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func (s *SheetClient) dataRange() string {
	return a1Range(s.sheetName, "A:"+lastColumn())
}

// a1Range always quotes the sheet name so spaces and apostrophes survive.
func a1Range(sheetName, cells string) string {
	return "'" + strings.ReplaceAll(sheetName, "'", "''") + "'!" + cells
}

func (s *SheetClient) GetRows(ctx context.Context) ([][]string, error) {
	resp, err := s.service.Spreadsheets.Values.Get(
		s.spreadsheetID,
		s.dataRange(),
	).ValueRenderOption("FORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, unavailable("read rows", err)
	}
	if len(resp.Values) <= 1 {
		return [][]string{}, nil
	}

	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, padRow(row))
	}
	log.Debugf("Read %d rows from %s", len(rows), s.sheetName)
	return rows, nil
}

func (s *SheetClient) AppendRows(ctx context.Context, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}
	// RAW keeps dates and times as the text we wrote
	_, err := s.service.Spreadsheets.Values.Append(
		s.spreadsheetID,
		s.dataRange(),
		&sheets.ValueRange{Values: values},
	).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return unavailable("append rows", err)
	}
	return nil
}

// ClearRows wipes the tab and writes the header back.
func (s *SheetClient) ClearRows(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Clear(
		s.spreadsheetID,
		s.dataRange(),
		&sheets.ClearValuesRequest{},
	).Context(ctx).Do()
	if err != nil {
		return unavailable("clear rows", err)
	}
	return s.writeHeader(ctx)
}

func (s *SheetClient) writeHeader(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Update(
		s.spreadsheetID,
		a1Range(s.sheetName, "A1"),
		&sheets.ValueRange{Values: [][]interface{}{headerRow()}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return unavailable("write header", err)
	}
	return nil
}

func (s *SheetClient) EnsureSheetExistsWithHeader(ctx context.Context) error {
	// 1. Get spreadsheet metadata
	ss, err := s.service.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return unavailable("get spreadsheet", err)
	}
	// 2. Check if sheet exists
	for _, sh := range ss.Sheets {
		if sh.Properties.Title == s.sheetName {
			return nil
		}
	}
	// 3. Add the sheet if not found
	addSheetReq := &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: s.sheetName,
			},
		},
	}
	_, err = s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{addSheetReq},
	}).Context(ctx).Do()
	if err != nil {
		return unavailable("add sheet", err)
	}
	log.Infof("Created sheet %q", s.sheetName)
	return s.writeHeader(ctx)
}

func lastColumn() string {
	return string(rune('A' + len(Header) - 1))
}

func unavailable(op string, err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		log.WithFields(log.Fields{
			"op":   op,
			"code": gErr.Code,
		}).Warn("Google Sheets API error")
		return fmt.Errorf("%w: %s: status %d: %s", ErrUnavailable, op, gErr.Code, gErr.Message)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
