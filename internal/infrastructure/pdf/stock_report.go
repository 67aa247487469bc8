// Package pdf genera el reporte de existencias en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Dulcería + título   │  Fecha + usuario              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Bajo | Medio | Alto | Total                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Ubicación | Cant. | Mín | Máx | Nivel     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/application/usecase"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 220, Green: 38, Blue: 38} // #DC2626
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 248, Green: 248, Blue: 248}
	colorLow     = &props.Color{Red: 185, Green: 28, Blue: 28}
	colorHigh    = &props.Color{Red: 21, Green: 128, Blue: 61}
)

var _ usecase.StockReportRenderer = (*StockReportGenerator)(nil)

// StockReportGenerator implementa usecase.StockReportRenderer con Maroto v2.
type StockReportGenerator struct{}

// NewStockReportGenerator construye el generador.
func NewStockReportGenerator() *StockReportGenerator { return &StockReportGenerator{} }

// RenderStockReport genera el PDF y devuelve sus bytes.
func (g *StockReportGenerator) RenderStockReport(r usecase.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(r.Title, true).
		WithAuthor("Dulcería Lilis", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(r.Items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay existencias para los filtros seleccionados.", props.Text{
				Size: 9, Align: align.Center, Top: 3, Color: colorGray,
			}),
		)))
	}
	m.AddRows(tableRows(r.Items)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Nivel bajo: cantidad menor o igual al stock mínimo. Nivel alto: cantidad mayor o igual al stock máximo.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r usecase.StockReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("Dulcería Lilis", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(r.Title, props.Text{Size: 10, Top: 9}),
		),
		col.New(5).Add(
			text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
			text.New("Por: "+nonEmpty(r.GeneratedBy, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func summaryRow(r usecase.StockReport) core.Row {
	box := func(label string, n int, c *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Color: c, Top: 1}),
			text.New(thousands(n), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Center, Top: 6}),
		)
	}
	return row.New(14).Add(
		box("STOCK BAJO", r.Low, colorLow),
		box("STOCK MEDIO", r.Medium, colorGray),
		box("STOCK ALTO", r.High, colorHigh),
		box("TOTAL", r.Low+r.Medium+r.High, colorPrimary),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Ubicación", 3, align.Left),
		h("Cant.", 1, align.Right),
		h("Mín.", 1, align.Right),
		h("Máx.", 1, align.Right),
		h("Nivel", 2, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableRows(items []dto.InventoryResponse) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, inv := range items {
		maxStock := "-"
		if inv.MaxStock != nil {
			maxStock = thousands(*inv.MaxStock)
		}
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		r := row.New(7).Add(
			cell(inv.ProductName, 4, align.Left),
			cell(inv.Location, 3, align.Left),
			cell(thousands(inv.Quantity), 1, align.Right),
			cell(thousands(inv.MinStock), 1, align.Right),
			cell(maxStock, 1, align.Right),
			col.New(2).Add(text.New(inv.Level, props.Text{
				Size: 8, Align: align.Center, Top: 1, Style: fontstyle.Bold, Color: levelColor(inv.Level),
			})),
		)
		if i%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, r)
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func levelColor(level string) *props.Color {
	switch level {
	case "bajo":
		return colorLow
	case "alto":
		return colorHigh
	default:
		return colorGray
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// thousands inserta puntos de miles: 25000 → "25.000", -1500 → "-1.500".
func thousands(n int) string {
	s := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
