package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/application/inventory"
	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/testutil"
)

type recorder struct {
	mu      sync.Mutex
	details []string
}

func (r *recorder) Record(_ context.Context, _, _, _, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.details = append(r.details, detail)
}

func seedInventory(t *testing.T, store *testutil.Store, qty, min int, max *int) *entity.Inventory {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{
		ID: uuid.NewString(), Name: "Gomitas ácidas", ReferencePrice: decimal.NewFromInt(1500),
		UnitMeasure: entity.UnitKg, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Products.Create(ctx, p))
	inv := &entity.Inventory{
		ID: uuid.NewString(), ProductID: p.ID, Quantity: qty, MinStock: min, MaxStock: max,
		Location: entity.DefaultLocation, UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Inventories.Create(ctx, inv))
	return inv
}

func intPtr(v int) *int { return &v }

func TestRegisterMovement_Entrada(t *testing.T) {
	store := testutil.NewStore()
	rec := &recorder{}
	uc := inventory.NewRegisterMovementUseCase(store, rec, nil)
	inv := seedInventory(t, store, 10, 5, nil)

	out, err := uc.RegisterMovementFromRequest(context.Background(), inv.ID, "", dto.RegisterMovementRequest{
		Type: "Entrada", Quantity: 15, Supplier: " Dulces Arcor ",
	})
	require.NoError(t, err)
	assert.Equal(t, 25, out.ResultingStock)
	assert.Equal(t, "Dulces Arcor", out.Supplier)

	stored, _ := store.Inventories.GetByID(context.Background(), inv.ID)
	assert.Equal(t, 25, stored.Quantity)
	assert.Len(t, store.Movements.All(), 1)
	require.Len(t, rec.details, 1)
	assert.Contains(t, rec.details[0], "Gomitas ácidas")
}

func TestRegisterMovement_SalidaInsuficiente(t *testing.T) {
	store := testutil.NewStore()
	uc := inventory.NewRegisterMovementUseCase(store, nil, nil)
	inv := seedInventory(t, store, 3, 0, nil)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		InventoryID: inv.ID, Type: entity.MovementSalida, Quantity: 4,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	stored, _ := store.Inventories.GetByID(context.Background(), inv.ID)
	assert.Equal(t, 3, stored.Quantity, "el stock no cambia")
	assert.Empty(t, store.Movements.All())
}

func TestRegisterMovement_SalidaHastaCero(t *testing.T) {
	store := testutil.NewStore()
	uc := inventory.NewRegisterMovementUseCase(store, nil, nil)
	inv := seedInventory(t, store, 3, 0, nil)

	out, err := uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		InventoryID: inv.ID, Type: entity.MovementSalida, Quantity: 3,
	})
	require.NoError(t, err)
	assert.Zero(t, out.ResultingStock)
}

func TestRegisterMovement_EntradaQueSuperaMaximoSePermite(t *testing.T) {
	store := testutil.NewStore()
	uc := inventory.NewRegisterMovementUseCase(store, nil, nil)
	inv := seedInventory(t, store, 8, 2, intPtr(10))

	out, err := uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		InventoryID: inv.ID, Type: entity.MovementEntrada, Quantity: 5,
	})
	require.NoError(t, err, "el máximo limita al mínimo, no a la cantidad")
	assert.Equal(t, 13, out.ResultingStock)
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	store := testutil.NewStore()
	uc := inventory.NewRegisterMovementUseCase(store, nil, nil)
	inv := seedInventory(t, store, 3, 0, nil)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, inventory.MovementInputDTO{InventoryID: inv.ID, Type: "ajuste", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterMovement(ctx, inventory.MovementInputDTO{InventoryID: inv.ID, Type: entity.MovementEntrada, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterMovement(ctx, inventory.MovementInputDTO{InventoryID: uuid.NewString(), Type: entity.MovementEntrada, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerateReplenishmentList(t *testing.T) {
	store := testutil.NewStore()
	seedInventory(t, store, 50, 10, nil)           // medio
	critico := seedInventory(t, store, 0, 10, nil) // déficit 10
	leve := seedInventory(t, store, 4, 5, intPtr(20))

	out, err := inventory.NewReplenishmentUseCase(store.Inventories).GenerateReplenishmentList(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, critico.ID, out[0].InventoryID)
	assert.Equal(t, 1, out[0].Priority)
	assert.Equal(t, 20, out[0].SuggestedOrderQty, "sin máximo se repone al doble del mínimo")

	assert.Equal(t, leve.ID, out[1].InventoryID)
	assert.Equal(t, 16, out[1].SuggestedOrderQty, "con máximo se repone hasta el máximo")
}
