package sheets

import (
	"context"
	"fmt"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Workbook stores rows in one sheet of a local .xlsx file. Every call opens and
// saves the file so external edits are picked up.
type Workbook struct {
	mu        sync.Mutex
	path      string
	sheetName string
}

// NewWorkbook opens path, creating the file and the sheet with a header if needed.
func NewWorkbook(path, sheetName string) (*Workbook, error) {
	w := &Workbook{path: path, sheetName: sheetName}
	if err := w.ensure(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Workbook) ensure() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		f := excelize.NewFile()
		defer func() { _ = f.Close() }()
		if err := f.SetSheetName(f.GetSheetName(0), w.sheetName); err != nil {
			return unavailable("name sheet", err)
		}
		if err := w.setHeader(f); err != nil {
			return err
		}
		log.Infof("Created workbook %s", w.path)
		return w.wrap("save workbook", f.SaveAs(w.path))
	}

	f, err := w.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	idx, err := f.GetSheetIndex(w.sheetName)
	if err != nil {
		return unavailable("find sheet", err)
	}
	if idx >= 0 {
		return nil
	}
	if _, err := f.NewSheet(w.sheetName); err != nil {
		return unavailable("add sheet", err)
	}
	if err := w.setHeader(f); err != nil {
		return err
	}
	log.Infof("Created sheet %q in %s", w.sheetName, w.path)
	return w.wrap("save workbook", f.Save())
}

func (w *Workbook) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, unavailable("open workbook", err)
	}
	return f, nil
}

func (w *Workbook) setHeader(f *excelize.File) error {
	header := headerRow()
	return w.wrap("write header", f.SetSheetRow(w.sheetName, "A1", &header))
}

func (w *Workbook) rows(f *excelize.File) ([][]string, error) {
	all, err := f.GetRows(w.sheetName)
	if err != nil {
		return nil, unavailable("read rows", err)
	}
	if len(all) <= 1 {
		return [][]string{}, nil
	}
	rows := make([][]string, 0, len(all)-1)
	for _, row := range all[1:] {
		rows = append(rows, padRow(row))
	}
	return rows, nil
}

func (w *Workbook) GetRows(ctx context.Context) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return w.rows(f)
}

func (w *Workbook) AppendRows(ctx context.Context, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	existing, err := w.rows(f)
	if err != nil {
		return err
	}
	// +1 for the header, +1 because cells are 1-based
	next := len(existing) + 2
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, next+i)
		if err != nil {
			return unavailable("locate row", err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(w.sheetName, cell, &values); err != nil {
			return unavailable("write row", err)
		}
	}
	return w.wrap("save workbook", f.Save())
}

func (w *Workbook) ClearRows(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	all, err := f.GetRows(w.sheetName)
	if err != nil {
		return unavailable("read rows", err)
	}
	for r := len(all); r >= 1; r-- {
		if err := f.RemoveRow(w.sheetName, r); err != nil {
			return unavailable(fmt.Sprintf("remove row %d", r), err)
		}
	}
	if err := w.setHeader(f); err != nil {
		return err
	}
	return w.wrap("save workbook", f.Save())
}

func (w *Workbook) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return unavailable(op, err)
}
