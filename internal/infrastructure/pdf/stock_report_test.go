package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/application/usecase"
)

func TestThousands(t *testing.T) {
	cases := map[int]string{0: "0", 999: "999", 1000: "1.000", 25000: "25.000", 1000000: "1.000.000", -1500: "-1.500"}
	for in, want := range cases {
		assert.Equal(t, want, thousands(in), in)
	}
}

func TestRenderStockReport(t *testing.T) {
	maxStock := 50
	report := usecase.StockReport{
		Title:       "Reporte de Existencias",
		GeneratedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		GeneratedBy: "admin",
		Items: []dto.InventoryResponse{
			{ProductName: "Caramelo de menta", Location: "Bodega principal", Quantity: 2, MinStock: 5, Level: "bajo"},
			{ProductName: "Chocolate amargo", Location: "Sala de ventas", Quantity: 60, MinStock: 5, MaxStock: &maxStock, Level: "alto"},
		},
		Low:  1,
		High: 1,
	}

	data, err := NewStockReportGenerator().RenderStockReport(report)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderStockReport_Empty(t *testing.T) {
	data, err := NewStockReportGenerator().RenderStockReport(usecase.StockReport{Title: "Reporte de Existencias"})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}
