package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
)

// seedProduct producto a cargar con su stock inicial.
type seedProduct struct {
	dto.ProductRequest
	Quantity int
	MinStock int
}

var sampleCatalog = []seedProduct{
	{dto.ProductRequest{Name: "Gomitas de frutas", Description: "Bolsa surtida de gomitas", ReferencePrice: decimal.NewFromInt(1290), UnitMeasure: "paquete"}, 40, 10},
	{dto.ProductRequest{Name: "Chocolate de leche", Description: "Barra de 100 g", ReferencePrice: decimal.NewFromInt(1590), UnitMeasure: "unidad"}, 25, 8},
	{dto.ProductRequest{Name: "Calugas de manjar", Description: "Caja de 24 unidades", ReferencePrice: decimal.NewFromInt(4990), UnitMeasure: "caja"}, 6, 5},
	{dto.ProductRequest{Name: "Chupetes surtidos", Description: "Chupetes de sabores", ReferencePrice: decimal.NewFromInt(150), UnitMeasure: "unidad"}, 300, 50},
	{dto.ProductRequest{Name: "Maní confitado", Description: "A granel", ReferencePrice: decimal.NewFromInt(6990), UnitMeasure: "kg"}, 4, 5},
	{dto.ProductRequest{Name: "Alfajor de chocolate", Description: "Relleno de manjar", ReferencePrice: decimal.NewFromInt(690), UnitMeasure: "unidad"}, 60, 20},
	{dto.ProductRequest{Name: "Marshmallows", Description: "Bolsa de 250 g", ReferencePrice: decimal.NewFromInt(1890), UnitMeasure: "paquete"}, 0, 6},
	{dto.ProductRequest{Name: "Jarabe de frambuesa", Description: "Para helados y postres", ReferencePrice: decimal.NewFromInt(3490), UnitMeasure: "litro"}, 12, 4},
}

// sampleProducts n productos de ejemplo; pasado el catálogo se repite con sufijo numérico.
func sampleProducts(n int) []seedProduct {
	out := make([]seedProduct, 0, n)
	for i := 0; i < n; i++ {
		p := sampleCatalog[i%len(sampleCatalog)]
		if round := i / len(sampleCatalog); round > 0 {
			p.Name = fmt.Sprintf("%s %d", p.Name, round+1)
		}
		out = append(out, p)
	}
	return out
}

// readCatalogCSV lee nombre;descripción;precio;unidad[;cantidad;mínimo] con encabezado.
// Excel en español guarda los CSV en Windows-1252, por eso latin1 decodifica por defecto.
func readCatalogCSV(r io.Reader, latin1 bool) ([]seedProduct, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []seedProduct
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer csv: %w", err)
		}
		line++
		if line == 1 {
			continue
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 4 columnas", line)
		}
		price, err := parsePrice(rec[2])
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio %q: %w", line, rec[2], err)
		}
		p := seedProduct{ProductRequest: dto.ProductRequest{
			Name:           strings.TrimSpace(rec[0]),
			Description:    strings.TrimSpace(rec[1]),
			ReferencePrice: price,
			UnitMeasure:    strings.ToLower(strings.TrimSpace(rec[3])),
		}}
		if len(rec) >= 6 {
			if p.Quantity, err = strconv.Atoi(strings.TrimSpace(rec[4])); err != nil {
				return nil, fmt.Errorf("línea %d: cantidad: %w", line, err)
			}
			if p.MinStock, err = strconv.Atoi(strings.TrimSpace(rec[5])); err != nil {
				return nil, fmt.Errorf("línea %d: mínimo: %w", line, err)
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// parsePrice acepta "$1.990", "1990" o "1.990,50" (punto de miles y coma decimal).
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}
