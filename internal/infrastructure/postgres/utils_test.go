package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

func TestBuildList_SearchOrderAndPage(t *testing.T) {
	l := buildList(repository.ListFilter{Search: "100%_dulce", OrderBy: "name", Desc: true, Limit: 10, Offset: 20},
		"id", []string{"name", "reference_price"}, productOrderCols, "name")

	assert.Equal(t, "(name::text ILIKE $1 OR reference_price::text ILIKE $1)", l.where)
	assert.Equal(t, []any{`%100\%\_dulce%`}, l.args)
	assert.Equal(t, " ORDER BY name DESC, id DESC", l.order)
	assert.Equal(t, " LIMIT 10 OFFSET 20", l.page)
	assert.Equal(t, " WHERE (name::text ILIKE $1 OR reference_price::text ILIKE $1)", l.whereClause())
}

func TestBuildList_UnknownOrderFallsBack(t *testing.T) {
	l := buildList(repository.ListFilter{OrderBy: "password_hash; DROP TABLE users"}, "u.id", nil, userOrderCols, "username")

	assert.Equal(t, " ORDER BY u.username ASC, u.id ASC", l.order)
	assert.Empty(t, l.page)
	assert.Empty(t, l.whereClause())
}

func TestBuildList_FixedArgsKeepPlaceholders(t *testing.T) {
	l := buildList(repository.ListFilter{Search: "caramelo"}, "m.id", []string{"m.supplier"}, movementOrderCols, "created_at", "inv-1")

	assert.Equal(t, []any{"inv-1", "%caramelo%"}, l.args)
	assert.Equal(t, " WHERE m.inventory_id = $1 AND (m.supplier::text ILIKE $2)", l.whereClause("m.inventory_id = $1"))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "x", deref(nullable("x")))
	assert.Equal(t, "", deref(nil))
}
