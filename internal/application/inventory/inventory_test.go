package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/xiebiao/shopmall/internal/domain/inventory"
	"github.com/xiebiao/shopmall/internal/event"
	apperrors "github.com/xiebiao/shopmall/pkg/errors"
)

type passTx struct{}

func (passTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRepo struct {
	mu   sync.Mutex
	data map[uint]*domain.Inventory
}

func newMemRepo(invs ...*domain.Inventory) *memRepo {
	r := &memRepo{data: make(map[uint]*domain.Inventory)}
	for _, inv := range invs {
		cp := *inv
		r.data[inv.ProductID] = &cp
	}
	return r
}

func (r *memRepo) GetByProductID(_ context.Context, productID uint) (*domain.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.data[productID]
	if !ok {
		return nil, apperrors.ErrInventoryNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *memRepo) GetForUpdate(ctx context.Context, productID uint) (*domain.Inventory, error) {
	return r.GetByProductID(ctx, productID)
}

func (r *memRepo) BatchGet(_ context.Context, productIDs []uint) (map[uint]*domain.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[uint]*domain.Inventory)
	for _, id := range productIDs {
		if inv, ok := r.data[id]; ok {
			cp := *inv
			result[id] = &cp
		}
	}
	return result, nil
}

func (r *memRepo) Create(_ context.Context, inv *domain.Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *inv
	r.data[inv.ProductID] = &cp
	return nil
}

func (r *memRepo) Update(_ context.Context, inv *domain.Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *inv
	cp.Version++
	r.data[inv.ProductID] = &cp
	return nil
}

func (r *memRepo) ListNeedingReorder(_ context.Context) ([]*domain.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Inventory
	for _, inv := range r.data {
		if inv.NeedsReorder() {
			cp := *inv
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *memRepo) ListOutOfStock(_ context.Context) ([]*domain.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Inventory
	for _, inv := range r.data {
		if inv.IsOutOfStock() {
			cp := *inv
			result = append(result, &cp)
		}
	}
	return result, nil
}

type memMovements struct {
	mu        sync.Mutex
	movements []*domain.Movement
}

func (r *memMovements) Create(_ context.Context, m *domain.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, m)
	return nil
}

func (r *memMovements) FindByProductID(_ context.Context, productID uint, _, _ int) ([]*domain.Movement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Movement
	for _, m := range r.movements {
		if m.ProductID == productID {
			result = append(result, m)
		}
	}
	return result, int64(len(result)), nil
}

type recordEmitter struct {
	mu     sync.Mutex
	events []event.Event
}

func (e *recordEmitter) Emit(ev event.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

// TestAddStock_ExistingLedger 已有台账的商品入库
func TestAddStock_ExistingLedger(t *testing.T) {
	repo := newMemRepo(&domain.Inventory{ProductID: 1, TotalQuantity: 10, ReservedQuantity: 3, ReorderLevel: 5})
	movements := &memMovements{}
	emitter := &recordEmitter{}
	uc := NewAddStockUseCase(domain.NewService(repo, movements), passTx{}, emitter)

	inv, err := uc.Execute(context.Background(), AddStockInput{ProductID: 1, Quantity: 40, Reference: "PO-7"})
	require.NoError(t, err)

	assert.Equal(t, 50, inv.TotalQuantity)
	assert.Equal(t, 3, inv.ReservedQuantity)
	assert.Equal(t, 47, inv.Available())

	require.Len(t, emitter.events, 1)
	assert.Equal(t, event.StockReplenished, emitter.events[0].EventType)
	payload := emitter.events[0].Payload.(event.StockEventPayload)
	assert.Equal(t, 40, payload.Quantity)
	assert.Equal(t, 47, payload.Available)
	assert.Equal(t, "PO-7", payload.Reference)
}

// TestAddStock_FirstTime 首次入库建台账
func TestAddStock_FirstTime(t *testing.T) {
	repo := newMemRepo()
	uc := NewAddStockUseCase(domain.NewService(repo, &memMovements{}), passTx{}, &recordEmitter{})

	inv, err := uc.Execute(context.Background(), AddStockInput{
		ProductID: 9, Quantity: 100, ReorderLevel: 10, ReorderQuantity: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, 100, inv.TotalQuantity)
	assert.Equal(t, 10, inv.ReorderLevel)
	assert.Equal(t, 50, inv.ReorderQuantity)
}

// TestAddStock_InvalidQuantity 非正数量拒绝且不发事件
func TestAddStock_InvalidQuantity(t *testing.T) {
	emitter := &recordEmitter{}
	uc := NewAddStockUseCase(domain.NewService(newMemRepo(), &memMovements{}), passTx{}, emitter)

	_, err := uc.Execute(context.Background(), AddStockInput{ProductID: 1, Quantity: 0})

	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidArgument(err))
	assert.Empty(t, emitter.events)
}

// TestCheckStock 批量可用性检查
func TestCheckStock(t *testing.T) {
	repo := newMemRepo(
		&domain.Inventory{ProductID: 1, TotalQuantity: 100, ReservedQuantity: 90, ReorderLevel: 10},
		&domain.Inventory{ProductID: 2, TotalQuantity: 50, ReorderLevel: 5},
	)
	uc := NewCheckStockUseCase(repo)

	result, err := uc.Execute(context.Background(), CheckStockInput{Lines: []CheckStockLine{
		{ProductID: 1, Quantity: 10},
		{ProductID: 1, Quantity: 11},
		{ProductID: 2},
		{ProductID: 404, Quantity: 1},
	}})
	require.NoError(t, err)
	require.Len(t, result, 4)

	assert.True(t, result[0].InStock, "可用10请求10应有货")
	assert.True(t, result[0].NeedsReorder)
	assert.False(t, result[1].InStock, "可用10请求11应无货")
	assert.True(t, result[2].InStock)
	assert.Equal(t, 50, result[2].Available)
	assert.False(t, result[3].InStock, "无台账商品视为无货")
	assert.Zero(t, result[3].Available)
}

// TestListAlerts 补货告警清单
func TestListAlerts(t *testing.T) {
	repo := newMemRepo(
		&domain.Inventory{ProductID: 1, TotalQuantity: 100, ReservedQuantity: 95, ReorderLevel: 10, ReorderQuantity: 50},
		&domain.Inventory{ProductID: 2, TotalQuantity: 100, ReorderLevel: 10},
		&domain.Inventory{ProductID: 3, TotalQuantity: 5, ReservedQuantity: 5, ReorderLevel: 10, ReorderQuantity: 20},
	)
	uc := NewListAlertsUseCase(repo)

	alerts, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	byProduct := make(map[uint]ReorderAlert)
	for _, a := range alerts {
		byProduct[a.ProductID] = a
	}

	assert.Equal(t, 5, byProduct[1].Available)
	assert.False(t, byProduct[1].OutOfStock)
	assert.True(t, byProduct[3].OutOfStock)
	assert.Equal(t, 20, byProduct[3].ReorderQuantity)
	assert.NotContains(t, byProduct, uint(2))
}

// TestGetInventory 单商品台账查询
func TestGetInventory(t *testing.T) {
	repo := newMemRepo(&domain.Inventory{ProductID: 1, TotalQuantity: 100, ReservedQuantity: 30, ReorderLevel: 10})
	uc := NewGetInventoryUseCase(repo)

	inv, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 70, inv.Available())

	_, err = uc.Execute(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

// TestListOutOfStock 缺货清单只含可用量为零的商品
func TestListOutOfStock(t *testing.T) {
	repo := newMemRepo(
		&domain.Inventory{ProductID: 1, TotalQuantity: 20, ReservedQuantity: 20, ReorderLevel: 5, ReorderQuantity: 50},
		&domain.Inventory{ProductID: 2, TotalQuantity: 20, ReservedQuantity: 19, ReorderLevel: 5},
	)
	uc := NewListOutOfStockUseCase(repo)

	alerts, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, uint(1), alerts[0].ProductID)
	assert.True(t, alerts[0].OutOfStock)
	assert.Zero(t, alerts[0].Available)
	assert.Equal(t, 50, alerts[0].ReorderQuantity)
}

// TestListMovements 流水查询
func TestListMovements(t *testing.T) {
	movements := &memMovements{}
	before := &domain.Inventory{ProductID: 1, TotalQuantity: 100}
	after := &domain.Inventory{ProductID: 1, TotalQuantity: 100, ReservedQuantity: 5}
	require.NoError(t, movements.Create(context.Background(),
		domain.NewMovement(before, after, domain.MovementReserve, 5, "ORD-x")))

	uc := NewListMovementsUseCase(movements)
	list, total, err := uc.Execute(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, domain.MovementReserve, list[0].Type)
	assert.Equal(t, 5, list[0].ReservedAfter)
}
