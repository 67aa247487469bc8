package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/dulceria-api/internal/application/usecase"
)

func TestRenderSheet(t *testing.T) {
	sheet := usecase.Sheet{
		Name: "Productos",
		Columns: []usecase.Column{
			{Header: "Nombre", Width: 35},
			{Header: "Precio Referencia", Width: 18, Format: usecase.FormatCurrency},
		},
		Rows: [][]any{
			{"Caramelo de menta", 1500.0},
			{"Chocolate amargo", 3990.0},
		},
	}

	data, err := NewRenderer().RenderSheet(sheet)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Productos"}, f.GetSheetList())
	rows, err := f.GetRows("Productos")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Nombre", "Precio Referencia"}, rows[0])
	assert.Equal(t, "Caramelo de menta", rows[1][0])

	w, err := f.GetColWidth("Productos", "A")
	require.NoError(t, err)
	assert.Equal(t, 35.0, w)

	styleID, err := f.GetCellStyle("Productos", "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestRenderSheet_EmptyRows(t *testing.T) {
	data, err := NewRenderer().RenderSheet(usecase.Sheet{Name: "Usuarios", Columns: []usecase.Column{{Header: "Usuario"}}})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Datos", sheetName(""))
	assert.Len(t, []rune(sheetName("Un nombre de hoja extremadamente largo para Excel")), 31)
}
