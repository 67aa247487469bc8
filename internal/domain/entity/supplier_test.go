package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

func TestSupplier_NormalizaYValida(t *testing.T) {
	s := &entity.Supplier{Name: "  Dulces del Sur ", TaxID: " 10000013-k ", Email: "Ventas@DulcesSur.cl"}
	require.NoError(t, s.Validate())
	assert.Equal(t, "Dulces del Sur", s.Name)
	assert.Equal(t, "10000013-K", s.TaxID)
	assert.Equal(t, "ventas@dulcessur.cl", s.Email)
}

func TestSupplier_RUTInvalido(t *testing.T) {
	s := &entity.Supplier{Name: "Confites SA", TaxID: "12345678-9", Email: "a@b.cl"}
	var verr *domain.ValidationError
	require.ErrorAs(t, s.Validate(), &verr)
	assert.Contains(t, verr.Fields, "tax_id")
}

func TestSupplier_EmailObligatorio(t *testing.T) {
	s := &entity.Supplier{Name: "Confites SA", TaxID: "12345678-5"}
	var verr *domain.ValidationError
	require.ErrorAs(t, s.Validate(), &verr)
	assert.Equal(t, []string{"El email es obligatorio."}, verr.Fields["email"])
}

func TestProduct_Validate(t *testing.T) {
	p := &entity.Product{Name: "Chocolate amargo", ReferencePrice: decimal.NewFromInt(1990), UnitMeasure: entity.UnitUnidad}
	assert.NoError(t, p.Validate())

	p.ReferencePrice = decimal.Zero
	p.UnitMeasure = "docena"
	var verr *domain.ValidationError
	require.ErrorAs(t, p.Validate(), &verr)
	assert.Equal(t, []string{"El precio debe ser mayor a 0"}, verr.Fields["reference_price"])
	assert.Contains(t, verr.Fields, "unit_measure")
}

func TestRole_Validate(t *testing.T) {
	r := &entity.Role{Name: "  Cajero "}
	require.NoError(t, r.Validate())
	assert.Equal(t, "Cajero", r.Name)

	assert.ErrorIs(t, (&entity.Role{Name: " "}).Validate(), domain.ErrInvalidInput)
}
