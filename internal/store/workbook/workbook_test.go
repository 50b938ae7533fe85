package workbook

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/roach88/drawsync/internal/delta"
	"github.com/roach88/drawsync/internal/draw"
)

func testRecords(ids ...string) []draw.Record {
	out := make([]draw.Record, len(ids))
	for i, id := range ids {
		out[i] = draw.Record{
			DrawDate: "2025-10-17",
			DrawID:   draw.DrawID(id),
			Numbers:  draw.Numbers{"1", "2", "3", "4", "5", "6", "12"},
		}
	}
	return out
}

func TestReadExisting_MissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), DefaultFileName))

	ds, err := s.ReadExisting(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, draw.NoData, ds.Newest())
}

func TestWriteAll_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", DefaultFileName)
	s := New(path)
	ctx := context.Background()
	want := testRecords("25103", "25102", "25101")

	require.NoError(t, s.WriteAll(ctx, want))

	ds, err := s.ReadExisting(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, ds.Records)

	latest, err := s.Latest(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, want[:2], latest)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriteAll_Layout(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, New(path).WriteAll(context.Background(), testRecords("25101")))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"2025-10-17", "25101", "1", "2", "3", "4", "5", "6", "12"}, rows[1])

	width, err := f.GetColWidth("Sheet1", "A")
	require.NoError(t, err)
	assert.InDelta(t, 11.0, width, 0.01)

	styleID, err := f.GetCellStyle("Sheet1", "I2")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Alignment)
	assert.Equal(t, "center", style.Alignment.Horizontal)
	assert.Equal(t, "center", style.Alignment.Vertical)
}

func TestReadExisting_Malformed(t *testing.T) {
	tests := []struct {
		name string
		rows [][]any
	}{
		{"bad header", [][]any{{"date", "id"}}},
		{"short row", [][]any{toAny(Header), {"2025-10-17", "25101", "1"}}},
		{"bad id", [][]any{toAny(Header), {"2025-10-17", "x", "1", "2", "3", "4", "5", "6", "7"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultFileName)
			f := excelize.NewFile()
			for i, row := range tt.rows {
				cell, err := excelize.CoordinatesToCellName(1, i+1)
				require.NoError(t, err)
				require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
			}
			require.NoError(t, f.SaveAs(path))
			require.NoError(t, f.Close())

			_, err := New(path).ReadExisting(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestReadExisting_SkipsBlankRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	f := excelize.NewFile()
	header := toAny(Header)
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	row := []any{"2025-10-17", 25101, 1, 2, 3, 4, 5, 6, 7}
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &row))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := New(path).ReadExisting(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, draw.DrawID("25101"), ds.Newest())
	assert.Equal(t, draw.Numbers{"1", "2", "3", "4", "5", "6", "7"}, ds.Records[0].Numbers)
}

func TestWriteAll_CancelledKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	s := New(path)
	require.NoError(t, s.WriteAll(context.Background(), testRecords("25101")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, s.WriteAll(ctx, testRecords("25102", "25101")))

	ds, err := s.ReadExisting(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestStore_ImplementsSyncContract(t *testing.T) {
	var _ delta.Store = (*Store)(nil)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
