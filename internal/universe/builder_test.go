package universe

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/pkg/logger"
)

func writeStockList(t *testing.T, path string, codes []string) {
	t.Helper()
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetCellValue(sheet, "A1", "No"))
	require.NoError(t, wb.SetCellValue(sheet, "B1", "Kode"))
	require.NoError(t, wb.SetCellValue(sheet, "C1", "Nama Perusahaan"))
	for i, code := range codes {
		cell, err := excelize.CoordinatesToCellName(2, i+2)
		require.NoError(t, err)
		require.NoError(t, wb.SetCellValue(sheet, cell, code))
	}
	require.NoError(t, wb.SaveAs(path))
}

func TestBuildFromWorkbook(t *testing.T) {
	dir := t.TempDir()
	workbook := filepath.Join(dir, "stocks.xlsx")
	out := filepath.Join(dir, "universe.csv")
	writeStockList(t, workbook, []string{"BBCA", "TLKM", "bbca"})

	n, err := NewBuilder(logger.Nop()).BuildFromWorkbook(workbook, out)

	require.NoError(t, err)
	assert.Equal(t, 2, n)

	symbols, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"BBCA.JK", "TLKM.JK"}, symbols)
}

func TestBuildFromWorkbookMissingKodeColumn(t *testing.T) {
	dir := t.TempDir()
	workbook := filepath.Join(dir, "stocks.xlsx")
	wb := excelize.NewFile()
	require.NoError(t, wb.SetCellValue(wb.GetSheetName(0), "A1", "Symbol"))
	require.NoError(t, wb.SaveAs(workbook))

	_, err := NewBuilder(logger.Nop()).BuildFromWorkbook(workbook, filepath.Join(dir, "out.csv"))

	assert.ErrorContains(t, err, "Kode")
}

func TestWriteSectorMapRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sector_map.csv")
	known := contracts.SectorMap{"BBCA.JK": "Banking"}

	err := NewBuilder(logger.Nop()).WriteSectorMap(path, []string{"BBCA.JK", "TLKM.JK"}, known)
	require.NoError(t, err)

	m, err := LoadSectorMap(path)
	require.NoError(t, err)
	assert.Equal(t, "Banking", m.Sector("BBCA.JK"))
	assert.Equal(t, "TELCO", m.Sector("TLKM.JK"))
}
