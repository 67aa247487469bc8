package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/testutil"
)

type fakeRenderer struct {
	sheet  Sheet
	report StockReport
}

func (f *fakeRenderer) RenderSheet(s Sheet) ([]byte, error) {
	f.sheet = s
	return []byte("xlsx"), nil
}

func (f *fakeRenderer) RenderStockReport(r StockReport) ([]byte, error) {
	f.report = r
	return []byte("%PDF"), nil
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 5, 3, 14, 7, 9, 0, time.UTC)

	assert.Equal(t, "productos_todos_20240503_140709.xlsx",
		exportFilename("Productos", dto.PageMeta{Page: 1, Total: 40}, true, now, "xlsx"))
	assert.Equal(t, "auditoria_unico_20240503_140709.xlsx",
		exportFilename("Auditoría", dto.PageMeta{Page: 1, Total: 1}, false, now, "xlsx"))
	assert.Equal(t, "inventario_pagina_3_20240503_140709.pdf",
		exportFilename("Inventario", dto.PageMeta{Page: 3, Total: 40}, false, now, "pdf"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "auditoria", slug("Auditoría"))
	assert.Equal(t, "bodega_principal", slug(" Bodega Principal "))
}

func newExport(store *testutil.Store, r *fakeRenderer) *ExportUseCase {
	audit := NewAuditUseCase(store.Audit, nil)
	return NewExportUseCase(
		NewProductUseCase(store.Products, audit),
		NewInventoryUseCase(store.Inventories, store.Products, store.Movements, audit),
		NewSupplierUseCase(store.Suppliers, audit),
		NewUserUseCase(store.Users, store.Roles, audit, nil),
		audit,
		r, r,
	)
}

func TestExportProducts_TodosIgnoraPaginacion(t *testing.T) {
	store := testutil.NewStore()
	r := &fakeRenderer{}
	uc := newExport(store, r)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_, err := uc.products.Create(ctx, "", dto.ProductRequest{
			Name: "Producto " + string(rune('A'+i)), ReferencePrice: decimal.NewFromInt(990), UnitMeasure: entity.UnitKg,
		})
		require.NoError(t, err)
	}

	f, err := uc.Products(ctx, dto.ListQuery{All: true})
	require.NoError(t, err)
	assert.Equal(t, 12, f.Rows)
	assert.Equal(t, ContentTypeXLSX, f.ContentType)
	assert.Contains(t, f.Filename, "productos_todos_")
	assert.Equal(t, "Precio Referencia", r.sheet.Columns[3].Header)
	assert.Equal(t, FormatCurrency, r.sheet.Columns[3].Format)

	f, err = uc.Products(ctx, dto.ListQuery{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, f.Rows)
	assert.Contains(t, f.Filename, "productos_pagina_2_")
}

func TestExportInventoryPDF_ResumenPorNivel(t *testing.T) {
	store := testutil.NewStore()
	r := &fakeRenderer{}
	uc := newExport(store, r)
	ctx := context.Background()
	p, err := uc.products.Create(ctx, "", dto.ProductRequest{Name: "Mani", ReferencePrice: decimal.NewFromInt(500), UnitMeasure: entity.UnitKg})
	require.NoError(t, err)
	_, err = uc.inventories.Create(ctx, "", dto.InventoryRequest{ProductID: p.ID, Quantity: 0, MinStock: 3})
	require.NoError(t, err)

	f, err := uc.InventoryPDF(ctx, "admin", dto.ListQuery{All: true})
	require.NoError(t, err)
	assert.Equal(t, ContentTypePDF, f.ContentType)
	assert.Equal(t, 1, r.report.Low)
	assert.Equal(t, "admin", r.report.GeneratedBy)
}
