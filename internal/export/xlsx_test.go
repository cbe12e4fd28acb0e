package export

import (
	"path/filepath"
	"testing"

	"sales-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSalesWorkbook(t *testing.T) {
	sales := []models.Sale{
		{ID: 1, Date: "2025-03-01", Weekday: "sábado", CardTotal: "100.00", PixTotal: "20.00", CashTotal: "30.00", OtherTotal: "0.00", DayTotal: "150.00"},
		{ID: 2, Date: "2025-03-02", Weekday: "domingo", CardTotal: "50.00", PixTotal: "48.50", CashTotal: "0.00", OtherTotal: "0.00", DayTotal: "98.50"},
	}

	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, SalesWorkbook(sales, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sales")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per sale")
	assert.Equal(t, "Date", rows[0][1])
	assert.Equal(t, "2025-03-01", rows[1][1])
	assert.Equal(t, "98.50", rows[2][7])
}

func TestSalesWorkbookEmptyPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, SalesWorkbook(nil, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sales")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
