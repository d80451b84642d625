package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func TestWriteXLSX_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	rows := [][]string{
		{"Tarım Makina", "Bayi A", "samsun", "Atakum", "0532 123 45 67", Missing, Missing},
		{"Tarım Makina", "Bayi B", "samsun", "Bafra", Missing, "(0362) 233 00 00", Missing},
	}

	require.NoError(t, WriteXLSX(path, "Bayiler", SheetHeader, rows))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	sheet, ok := f.Sheet["Bayiler"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "Kategori", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "Bayi A", sheet.Rows[1].Cells[1].String())
	assert.Equal(t, Missing, sheet.Rows[2].Cells[4].String())
}
