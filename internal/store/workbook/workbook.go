// Package workbook stores the draw history as an xlsx workbook, one draw
// per row, newest first.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/drawsync/internal/draw"
)

// DefaultFileName is the workbook name inside the data directory.
const DefaultFileName = "qxc_history_data_full.xlsx"

const (
	sheetName = "Sheet1"
	dateWidth = 11
)

// Header is the first row of every workbook.
var Header = []string{"开奖日期", "期号", "号码1", "号码2", "号码3", "号码4", "号码5", "号码6", "号码7"}

// ErrBadHeader means the first row is not Header.
var ErrBadHeader = errors.New("workbook header does not match")

// Store reads and writes one workbook file.
type Store struct {
	path string
}

// New creates a store for path. The file is created on the first write.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the workbook path.
func (s *Store) Path() string {
	return s.path
}

// Close is a no-op; the file is only open during reads and writes.
func (s *Store) Close() error {
	return nil
}

// ReadExisting loads the workbook. A missing file is an empty dataset.
func (s *Store) ReadExisting(ctx context.Context) (draw.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return draw.Dataset{}, err
	}

	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return draw.Dataset{}, nil
	}
	if err != nil {
		return draw.Dataset{}, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return draw.Dataset{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return draw.Dataset{}, fmt.Errorf("read workbook %s: %w", s.path, err)
	}

	records, err := parseRows(rows)
	if err != nil {
		return draw.Dataset{}, fmt.Errorf("read workbook %s: %w", s.path, err)
	}
	return draw.Dataset{Records: records}, nil
}

// Latest returns at most n of the newest draws.
func (s *Store) Latest(ctx context.Context, n int) ([]draw.Record, error) {
	ds, err := s.ReadExisting(ctx)
	if err != nil {
		return nil, err
	}
	if n < len(ds.Records) {
		return ds.Records[:n], nil
	}
	return ds.Records, nil
}

// Count returns the number of stored draws.
func (s *Store) Count(ctx context.Context) (int, error) {
	ds, err := s.ReadExisting(ctx)
	if err != nil {
		return 0, err
	}
	return ds.Len(), nil
}

func parseRows(rows [][]string) ([]draw.Record, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	if !headerMatches(rows[0]) {
		return nil, ErrBadHeader
	}

	var records []draw.Record
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		line := i + 2
		if len(row) < len(Header) {
			return nil, fmt.Errorf("row %d: expected %d cells, got %d", line, len(Header), len(row))
		}
		id, err := draw.ParseDrawID(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		rec := draw.Record{DrawDate: strings.TrimSpace(row[0]), DrawID: id}
		for j := range rec.Numbers {
			rec.Numbers[j] = strings.TrimSpace(row[2+j])
		}
		records = append(records, rec)
	}
	return records, nil
}

func headerMatches(row []string) bool {
	if len(row) < len(Header) {
		return false
	}
	for i, h := range Header {
		if strings.TrimSpace(row[i]) != h {
			return false
		}
	}
	return true
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteAll replaces the workbook with records. The new workbook is written
// next to the target and renamed over it, so the previous file survives
// any failure.
func (s *Store) WriteAll(ctx context.Context, records []draw.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := build(records)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".drawsync-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp workbook: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after rename

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}

func build(records []draw.Record) (*excelize.File, error) {
	f := excelize.NewFile()

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	for i, rec := range records {
		row := make([]any, 0, len(Header))
		row = append(row, rec.DrawDate, string(rec.DrawID))
		for _, n := range rec.Numbers {
			row = append(row, n)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(Header), len(records)+1)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, style); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "A", "A", dateWidth); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
