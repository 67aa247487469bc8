// Package excel genera las exportaciones xlsx con excelize.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/dulceria-api/internal/application/usecase"
)

var _ usecase.SpreadsheetRenderer = (*Renderer)(nil)

// Colores corporativos del encabezado.
const (
	headerFill = "DC2626"
	headerFont = "FFFFFF"
	borderRGB  = "000000"
)

// Renderer arma una hoja con encabezado estilizado, bordes finos y anchos por columna.
type Renderer struct{}

// NewRenderer construye el renderizador.
func NewRenderer() *Renderer { return &Renderer{} }

func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: borderRGB, Style: 1},
		{Type: "top", Color: borderRGB, Style: 1},
		{Type: "right", Color: borderRGB, Style: 1},
		{Type: "bottom", Color: borderRGB, Style: 1},
	}
}

// RenderSheet devuelve el contenido del archivo xlsx.
func (r *Renderer) RenderSheet(s usecase.Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := sheetName(s.Name)
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return nil, fmt.Errorf("nombre de hoja: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: headerFont, Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, err
	}
	styles := map[string]int{}
	styleFor := func(format string) (int, error) {
		if id, ok := styles[format]; ok {
			return id, nil
		}
		st := &excelize.Style{Border: thinBorders(), Alignment: &excelize.Alignment{Vertical: "center"}}
		if format != usecase.FormatText {
			nf := format
			st.CustomNumFmt = &nf
		}
		id, err := f.NewStyle(st)
		if err != nil {
			return 0, err
		}
		styles[format] = id
		return id, nil
	}

	header := make([]any, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c.Header
		col, _ := excelize.ColumnNumberToName(i + 1)
		if c.Width > 0 {
			if err := f.SetColWidth(name, col, col, c.Width); err != nil {
				return nil, err
			}
		}
	}
	if len(s.Columns) > 0 {
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return nil, err
		}
		last, _ := excelize.CoordinatesToCellName(len(s.Columns), 1)
		if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
			return nil, err
		}
		if err := f.SetPanes(name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return nil, err
		}
	}

	for i, row := range s.Rows {
		rowNum := i + 2
		start, _ := excelize.CoordinatesToCellName(1, rowNum)
		values := row
		if err := f.SetSheetRow(name, start, &values); err != nil {
			return nil, fmt.Errorf("fila %d: %w", rowNum, err)
		}
		for j, c := range s.Columns {
			id, err := styleFor(c.Format)
			if err != nil {
				return nil, err
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, rowNum)
			if err := f.SetCellStyle(name, cell, cell, id); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName Excel limita los nombres de hoja a 31 caracteres.
func sheetName(s string) string {
	if s == "" {
		return "Datos"
	}
	r := []rune(s)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}
