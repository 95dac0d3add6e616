package guideline

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/garyjia/invoice-labeler/internal/models"
	"github.com/garyjia/invoice-labeler/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func buildWorkbook(t *testing.T, sheetName string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", sheetName))
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow(sheetName, cellRef, &values))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func newTestRegistry() *sequence.Registry {
	return sequence.NewRegistryWithClock(func() time.Time {
		return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	}, zap.NewNop())
}

func TestImporter_ImportFile_XLSX(t *testing.T) {
	logger := zap.NewNop()
	importer := NewImporter(DefaultImporterConfig(), logger)

	t.Run("imports rows from the matching sheet", func(t *testing.T) {
		buf := buildWorkbook(t, "Koszty - przyklady", [][]interface{}{
			{"Lp.", "Nazwa kontrahenta", "Etykieta"},
			{1, "Acme Sp. z o.o.", "3/8;MPK610;180/2025"},
			{2, "Acme Sp. z o.o.", "3/8;MPK610;175/2025"},
			{3, "Beta S.A.", "1/2;MPK100"},
			{4, "", "1/2;MPK100"},
			{5, "Gamma"},
		})
		table := NewMappingTable(logger)
		registry := newTestRegistry()

		summary, err := importer.ImportFile("wytyczne.xlsx", buf, table, registry)

		require.NoError(t, err)
		assert.Equal(t, models.ImportSummary{
			SheetName:          "Koszty - przyklady",
			RowsRead:           5,
			EntriesImported:    3,
			RowsSkipped:        2,
			HistoricalObserved: 2,
		}, summary)
		assert.Equal(t, 2, table.Len())

		state, ok := registry.State(sequence.NewKey("MPK610", "3/8"))
		require.True(t, ok)
		assert.Equal(t, 180, state.LastValue)
		assert.Equal(t, 2025, state.LastYear)
	})

	t.Run("no matching sheet imports nothing", func(t *testing.T) {
		buf := buildWorkbook(t, "Arkusz1", [][]interface{}{
			{"Nazwa kontrahenta", "Etykieta"},
			{"Acme", "3/8;MPK610"},
		})
		table := NewMappingTable(logger)

		summary, err := importer.ImportFile("wytyczne.xlsx", buf, table, newTestRegistry())

		require.NoError(t, err)
		assert.Equal(t, models.ImportSummary{}, summary)
		assert.Equal(t, 0, table.Len())
	})

	t.Run("missing columns leave the table untouched", func(t *testing.T) {
		buf := buildWorkbook(t, "przyklady", [][]interface{}{
			{"Kontrahent", "Opis"},
			{"Acme", "3/8;MPK610"},
		})
		table := NewMappingTable(logger)

		_, err := importer.ImportFile("wytyczne.xlsx", buf, table, newTestRegistry())

		assert.ErrorIs(t, err, ErrMissingColumns)
		assert.Equal(t, 0, table.Len())
	})

	t.Run("corrupt workbook is an error", func(t *testing.T) {
		table := NewMappingTable(logger)

		_, err := importer.ImportFile("wytyczne.xlsx", strings.NewReader("not a workbook"), table, newTestRegistry())

		assert.Error(t, err)
		assert.Equal(t, 0, table.Len())
	})
}

func TestImporter_ImportFile_CSV(t *testing.T) {
	logger := zap.NewNop()
	importer := NewImporter(DefaultImporterConfig(), logger)

	t.Run("reads quoted labels", func(t *testing.T) {
		input := "Nazwa kontrahenta,Etykieta\n" +
			"Acme Sp. z o.o.,\"3/8;MPK610;180/2025\"\n" +
			"Beta S.A.,\"1/2;MPK100\"\n"
		table := NewMappingTable(logger)
		registry := newTestRegistry()

		summary, err := importer.ImportFile("wytyczne.CSV", strings.NewReader(input), table, registry)

		require.NoError(t, err)
		assert.Equal(t, 2, summary.EntriesImported)
		assert.Equal(t, 1, summary.HistoricalObserved)
		assert.Equal(t, models.Assignment{CostCenter: "MPK100", Group: "1/2"}, table.Lookup("beta s.a."))
	})

	t.Run("strips UTF-8 BOM from header", func(t *testing.T) {
		input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Nazwa kontrahenta,Etykieta\nAcme,\"3/8;MPK610\"\n")...)
		table := NewMappingTable(logger)

		summary, err := importer.ImportFile("wytyczne.csv", bytes.NewReader(input), table, newTestRegistry())

		require.NoError(t, err)
		assert.Equal(t, 1, summary.EntriesImported)
	})
}

func TestImporter_ImportFile_UnsupportedFormat(t *testing.T) {
	importer := NewImporter(DefaultImporterConfig(), zap.NewNop())

	_, err := importer.ImportFile("wytyczne.ods", strings.NewReader(""), NewMappingTable(nil), nil)

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
