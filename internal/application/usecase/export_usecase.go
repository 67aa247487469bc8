package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
)

// Tipos de contenido de las exportaciones.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// Formatos de celda que entiende el renderizador de planillas.
const (
	FormatText     = ""
	FormatCurrency = "$#,##0"
	FormatInteger  = "0"
)

// Column encabezado, ancho y formato de una columna exportada.
type Column struct {
	Header string
	Width  float64
	Format string
}

// Sheet planilla lista para renderizar.
type Sheet struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// StockReport datos del reporte PDF de existencias.
type StockReport struct {
	Title       string
	GeneratedAt time.Time
	GeneratedBy string
	Items       []dto.InventoryResponse
	Low         int
	Medium      int
	High        int
}

// SpreadsheetRenderer genera el archivo xlsx.
type SpreadsheetRenderer interface {
	RenderSheet(s Sheet) ([]byte, error)
}

// StockReportRenderer genera el PDF de existencias.
type StockReportRenderer interface {
	RenderStockReport(r StockReport) ([]byte, error)
}

// ExportFile archivo generado para descarga.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// ExportUseCase exporta los listados con los mismos filtros que la pantalla.
// all=true exporta todo; si no, sólo la página actual.
type ExportUseCase struct {
	products    *ProductUseCase
	inventories *InventoryUseCase
	suppliers   *SupplierUseCase
	users       *UserUseCase
	audit       *AuditUseCase
	xlsx        SpreadsheetRenderer
	pdf         StockReportRenderer
	now         func() time.Time
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(
	products *ProductUseCase,
	inventories *InventoryUseCase,
	suppliers *SupplierUseCase,
	users *UserUseCase,
	audit *AuditUseCase,
	xlsx SpreadsheetRenderer,
	pdf StockReportRenderer,
) *ExportUseCase {
	return &ExportUseCase{
		products:    products,
		inventories: inventories,
		suppliers:   suppliers,
		users:       users,
		audit:       audit,
		xlsx:        xlsx,
		pdf:         pdf,
		now:         time.Now,
	}
}

// Products exporta productos.
func (uc *ExportUseCase) Products(ctx context.Context, q dto.ListQuery) (*ExportFile, error) {
	list, err := uc.products.List(ctx, q)
	if err != nil {
		return nil, err
	}
	sheet := Sheet{
		Name: "Productos",
		Columns: []Column{
			{Header: "ID", Width: 38}, {Header: "Nombre", Width: 35}, {Header: "Descripción", Width: 50},
			{Header: "Precio Referencia", Width: 18, Format: FormatCurrency}, {Header: "Unidad", Width: 12},
		},
	}
	for _, p := range list.Items {
		price, _ := p.ReferencePrice.Float64()
		sheet.Rows = append(sheet.Rows, []any{p.ID, p.Name, p.Description, price, p.UnitMeasure})
	}
	return uc.spreadsheet("Productos", sheet, list.Page, q.All)
}

// Inventories exporta inventarios con su nivel de stock.
func (uc *ExportUseCase) Inventories(ctx context.Context, q dto.ListQuery) (*ExportFile, error) {
	list, err := uc.inventories.List(ctx, q)
	if err != nil {
		return nil, err
	}
	sheet := Sheet{
		Name: "Inventario",
		Columns: []Column{
			{Header: "Producto", Width: 35}, {Header: "Ubicación", Width: 25},
			{Header: "Cantidad", Width: 12, Format: FormatInteger}, {Header: "Stock Mínimo", Width: 14, Format: FormatInteger},
			{Header: "Stock Máximo", Width: 14}, {Header: "Nivel", Width: 10}, {Header: "Actualizado", Width: 20},
		},
	}
	for _, inv := range list.Items {
		maxStock := "-"
		if inv.MaxStock != nil {
			maxStock = fmt.Sprint(*inv.MaxStock)
		}
		sheet.Rows = append(sheet.Rows, []any{
			inv.ProductName, inv.Location, inv.Quantity, inv.MinStock, maxStock, inv.Level, formatTime(&inv.UpdatedAt, ""),
		})
	}
	return uc.spreadsheet("Inventario", sheet, list.Page, q.All)
}

// Suppliers exporta proveedores.
func (uc *ExportUseCase) Suppliers(ctx context.Context, q dto.ListQuery) (*ExportFile, error) {
	list, err := uc.suppliers.List(ctx, q)
	if err != nil {
		return nil, err
	}
	sheet := Sheet{
		Name: "Proveedores",
		Columns: []Column{
			{Header: "Nombre", Width: 30}, {Header: "RUT", Width: 14}, {Header: "Contacto", Width: 25},
			{Header: "Dirección", Width: 35}, {Header: "Email", Width: 30}, {Header: "Email Secundario", Width: 30},
		},
	}
	for _, s := range list.Items {
		sheet.Rows = append(sheet.Rows, []any{s.Name, s.TaxID, s.Contact, s.Address, s.Email, s.SecondaryEmail})
	}
	return uc.spreadsheet("Proveedores", sheet, list.Page, q.All)
}

// Users exporta usuarios.
func (uc *ExportUseCase) Users(ctx context.Context, q dto.ListQuery) (*ExportFile, error) {
	list, err := uc.users.List(ctx, q)
	if err != nil {
		return nil, err
	}
	sheet := Sheet{
		Name: "Usuarios",
		Columns: []Column{
			{Header: "Usuario", Width: 20}, {Header: "Email", Width: 30}, {Header: "Nombre", Width: 25},
			{Header: "Teléfono", Width: 15}, {Header: "Rol", Width: 20}, {Header: "Estado", Width: 12},
			{Header: "Último Acceso", Width: 20}, {Header: "Fecha Creación", Width: 20},
		},
	}
	for _, u := range list.Items {
		state := "Inactivo"
		if u.IsActive {
			state = "Activo"
		}
		role := u.Role
		if role == "" {
			role = "Sin rol"
		}
		sheet.Rows = append(sheet.Rows, []any{
			u.Username, u.Email, u.Name, u.Phone, role, state, formatTime(u.LastLogin, "Nunca"), formatTime(&u.CreatedAt, ""),
		})
	}
	return uc.spreadsheet("Usuarios", sheet, list.Page, q.All)
}

// Audit exporta la auditoría.
func (uc *ExportUseCase) Audit(ctx context.Context, q dto.ListQuery) (*ExportFile, error) {
	list, err := uc.audit.List(ctx, q)
	if err != nil {
		return nil, err
	}
	sheet := Sheet{
		Name: "Auditoría",
		Columns: []Column{
			{Header: "Fecha", Width: 20}, {Header: "Usuario", Width: 20}, {Header: "Acción", Width: 10},
			{Header: "Entidad", Width: 15}, {Header: "Detalle", Width: 60},
		},
	}
	for _, e := range list.Items {
		sheet.Rows = append(sheet.Rows, []any{formatTime(&e.CreatedAt, ""), e.Username, e.Action, e.Entity, e.Detail})
	}
	return uc.spreadsheet("Auditoría", sheet, list.Page, q.All)
}

// InventoryPDF reporte de existencias en PDF con el resumen por nivel de stock.
func (uc *ExportUseCase) InventoryPDF(ctx context.Context, generatedBy string, q dto.ListQuery) (*ExportFile, error) {
	list, err := uc.inventories.List(ctx, q)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	report := StockReport{Title: "Reporte de Existencias", GeneratedAt: now, GeneratedBy: generatedBy, Items: list.Items}
	for _, inv := range list.Items {
		switch inv.Level {
		case "bajo":
			report.Low++
		case "alto":
			report.High++
		default:
			report.Medium++
		}
	}
	data, err := uc.pdf.RenderStockReport(report)
	if err != nil {
		return nil, fmt.Errorf("generar pdf de existencias: %w", err)
	}
	return &ExportFile{
		Filename:    exportFilename("Inventario", list.Page, q.All, now, "pdf"),
		ContentType: ContentTypePDF,
		Data:        data,
		Rows:        len(list.Items),
	}, nil
}

func (uc *ExportUseCase) spreadsheet(entityName string, sheet Sheet, page dto.PageMeta, all bool) (*ExportFile, error) {
	data, err := uc.xlsx.RenderSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("generar xlsx de %s: %w", strings.ToLower(entityName), err)
	}
	return &ExportFile{
		Filename:    exportFilename(entityName, page, all, uc.now(), "xlsx"),
		ContentType: ContentTypeXLSX,
		Data:        data,
		Rows:        len(sheet.Rows),
	}, nil
}

// exportFilename <entidad>_todos_<ts>, <entidad>_unico_<ts> si el filtro deja un solo registro,
// o <entidad>_pagina_<n>_<ts>.
func exportFilename(entityName string, page dto.PageMeta, all bool, now time.Time, ext string) string {
	ts := now.Format("20060102_150405")
	base := slug(entityName)
	switch {
	case all:
		return fmt.Sprintf("%s_todos_%s.%s", base, ts, ext)
	case page.Total == 1:
		return fmt.Sprintf("%s_unico_%s.%s", base, ts, ext)
	default:
		return fmt.Sprintf("%s_pagina_%d_%s.%s", base, page.Page, ts, ext)
	}
}

// slug minúsculas sin tildes ni espacios, apto para Content-Disposition.
func slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(out)), " ", "_")
}

func formatTime(t *time.Time, empty string) string {
	if t == nil || t.IsZero() {
		return empty
	}
	return t.Local().Format("2006-01-02 15:04")
}
