package dto_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
)

func TestListQuery_NormalizeValoresPorDefecto(t *testing.T) {
	q := dto.ListQuery{Page: -3, PerPage: 0, OrderDirection: "DESC"}
	q.Normalize()

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, dto.DefaultPerPage, q.PerPage)
	assert.Equal(t, "asc", q.OrderDirection)
	assert.Equal(t, 0, q.Offset())
}

func TestListQuery_NormalizeAcotaPaginaEnorme(t *testing.T) {
	q := dto.ListQuery{Page: math.MaxInt, PerPage: 5000}
	q.Normalize()

	assert.Equal(t, dto.MaxPerPage, q.PerPage)
	assert.Equal(t, dto.MaxPage, q.Page)
	assert.GreaterOrEqual(t, q.Offset(), 0)
	assert.LessOrEqual(t, q.Offset(), math.MaxInt32)
}

func TestListQuery_AllIgnoraPaginacion(t *testing.T) {
	q := dto.ListQuery{Page: 7, PerPage: 20, All: true}
	q.Normalize()

	assert.Equal(t, 0, q.Limit())
	assert.Equal(t, 0, q.Offset())
}
