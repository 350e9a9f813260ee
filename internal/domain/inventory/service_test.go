package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/shopmall/pkg/errors"
)

// fakeRepo 内存仓储
// GetForUpdate加锁、Update/失败路径解锁，模拟数据库行锁的持有区间
type fakeRepo struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
	data  map[uint]*Inventory
}

func newFakeRepo(invs ...*Inventory) *fakeRepo {
	r := &fakeRepo{
		locks: make(map[uint]*sync.Mutex),
		data:  make(map[uint]*Inventory),
	}
	for _, inv := range invs {
		r.data[inv.ProductID] = inv
		r.locks[inv.ProductID] = &sync.Mutex{}
	}
	return r
}

func (r *fakeRepo) rowLock(productID uint) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.locks[productID]; !ok {
		r.locks[productID] = &sync.Mutex{}
	}
	return r.locks[productID]
}

func (r *fakeRepo) GetByProductID(_ context.Context, productID uint) (*Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.data[productID]
	if !ok {
		return nil, ErrInventoryNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeRepo) GetForUpdate(_ context.Context, productID uint) (*Inventory, error) {
	r.rowLock(productID).Lock()
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.data[productID]
	if !ok {
		// 行锁保持持有，惰性建台账的路径随后会走Update解锁
		return nil, ErrInventoryNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeRepo) BatchGet(_ context.Context, productIDs []uint) (map[uint]*Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[uint]*Inventory)
	for _, id := range productIDs {
		if inv, ok := r.data[id]; ok {
			cp := *inv
			result[id] = &cp
		}
	}
	return result, nil
}

func (r *fakeRepo) Create(_ context.Context, inv *Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *inv
	r.data[inv.ProductID] = &cp
	return nil
}

func (r *fakeRepo) Update(_ context.Context, inv *Inventory) error {
	r.mu.Lock()
	cp := *inv
	cp.Version++
	r.data[inv.ProductID] = &cp
	r.mu.Unlock()
	r.rowLock(inv.ProductID).Unlock()
	return nil
}

func (r *fakeRepo) ListNeedingReorder(_ context.Context) ([]*Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*Inventory
	for _, inv := range r.data {
		if inv.NeedsReorder() {
			cp := *inv
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *fakeRepo) ListOutOfStock(_ context.Context) ([]*Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*Inventory
	for _, inv := range r.data {
		if inv.IsOutOfStock() {
			cp := *inv
			result = append(result, &cp)
		}
	}
	return result, nil
}

// unlock 测试辅助：失败路径上服务不会调用Update，手动释放行锁
func (r *fakeRepo) unlock(productID uint) {
	r.rowLock(productID).Unlock()
}

// fakeMovementRepo 记录流水到内存切片
type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []*Movement
}

func (r *fakeMovementRepo) Create(_ context.Context, m *Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeMovementRepo) FindByProductID(_ context.Context, productID uint, _, _ int) ([]*Movement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*Movement
	for _, m := range r.movements {
		if m.ProductID == productID {
			result = append(result, m)
		}
	}
	return result, int64(len(result)), nil
}

// TestService_Reserve_CrossesReorderLevel 预留跨越补货阈值时只告警一次
func TestService_Reserve_CrossesReorderLevel(t *testing.T) {
	repo := newFakeRepo(&Inventory{ProductID: 1, TotalQuantity: 100, ReorderLevel: 10, ReorderQuantity: 50})
	movements := &fakeMovementRepo{}
	svc := NewService(repo, movements)
	ctx := context.Background()

	// 100可用 → 预留90 → 可用10，恰好降到阈值，触发信号
	inv, crossed, err := svc.Reserve(ctx, 1, 90, "ORD-a")
	require.NoError(t, err)
	assert.True(t, crossed)
	assert.Equal(t, 10, inv.Available())

	// 已在阈值之下，再预留不重复触发
	_, crossed, err = svc.Reserve(ctx, 1, 5, "ORD-b")
	require.NoError(t, err)
	assert.False(t, crossed)

	// 流水完整记录了两笔预留
	require.Len(t, movements.movements, 2)
	assert.Equal(t, MovementReserve, movements.movements[0].Type)
	assert.Equal(t, 100, movements.movements[0].TotalBefore)
	assert.Equal(t, 0, movements.movements[0].ReservedBefore)
	assert.Equal(t, 90, movements.movements[0].ReservedAfter)
	assert.Equal(t, "ORD-a", movements.movements[0].Reference)
}

// TestService_Reserve_InsufficientLeavesStateUnchanged 库存不足时台账和流水都不变
func TestService_Reserve_InsufficientLeavesStateUnchanged(t *testing.T) {
	repo := newFakeRepo(&Inventory{ProductID: 1, TotalQuantity: 100, ReservedQuantity: 90, ReorderLevel: 10})
	movements := &fakeMovementRepo{}
	svc := NewService(repo, movements)

	_, _, err := svc.Reserve(context.Background(), 1, 11, "ORD-x")
	repo.unlock(1)

	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))

	inv, _ := repo.GetByProductID(context.Background(), 1)
	assert.Equal(t, 90, inv.ReservedQuantity)
	assert.Empty(t, movements.movements, "失败的预留不应产生流水")
}

// TestService_ReleaseAndConfirm 释放与确认扣减的完整流水
func TestService_ReleaseAndConfirm(t *testing.T) {
	repo := newFakeRepo(&Inventory{ProductID: 2, TotalQuantity: 50, ReservedQuantity: 20})
	movements := &fakeMovementRepo{}
	svc := NewService(repo, movements)
	ctx := context.Background()

	inv, err := svc.Release(ctx, 2, 5, "ORD-cancel")
	require.NoError(t, err)
	assert.Equal(t, 15, inv.ReservedQuantity)
	assert.Equal(t, 50, inv.TotalQuantity)

	inv, err = svc.ConfirmReservation(ctx, 2, 15, "ORD-ship")
	require.NoError(t, err)
	assert.Equal(t, 0, inv.ReservedQuantity)
	assert.Equal(t, 35, inv.TotalQuantity)

	require.Len(t, movements.movements, 2)
	assert.Equal(t, MovementRelease, movements.movements[0].Type)
	assert.Equal(t, MovementConfirm, movements.movements[1].Type)
}

// TestService_AddStock_LazyCreate 首次入库自动建台账
func TestService_AddStock_LazyCreate(t *testing.T) {
	repo := newFakeRepo()
	movements := &fakeMovementRepo{}
	svc := NewService(repo, movements)

	inv, err := svc.AddStock(context.Background(), 9, 200, 20, 100, "PO-1")
	require.NoError(t, err)

	assert.Equal(t, uint(9), inv.ProductID)
	assert.Equal(t, 200, inv.TotalQuantity)
	assert.Equal(t, 20, inv.ReorderLevel)
	assert.Equal(t, 100, inv.ReorderQuantity)

	require.Len(t, movements.movements, 1)
	assert.Equal(t, MovementRestock, movements.movements[0].Type)
	assert.Equal(t, 0, movements.movements[0].TotalBefore)
	assert.Equal(t, 200, movements.movements[0].TotalAfter)
}

// TestService_ConcurrentReserve 并发预留不超卖
// 100件库存，120个并发请求各预留1件：恰好100成功、20失败
func TestService_ConcurrentReserve(t *testing.T) {
	repo := newFakeRepo(&Inventory{ProductID: 7, TotalQuantity: 100, ReorderLevel: 0})
	movements := &fakeMovementRepo{}
	svc := NewService(repo, movements)

	const workers = 120
	var wg sync.WaitGroup
	var successCount, failCount int64
	var countMu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Reserve(context.Background(), 7, 1, "ORD-c")
			countMu.Lock()
			defer countMu.Unlock()
			if err != nil {
				repo.unlock(7)
				failCount++
			} else {
				successCount++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), successCount)
	assert.Equal(t, int64(20), failCount)

	inv, _ := repo.GetByProductID(context.Background(), 7)
	assert.Equal(t, 100, inv.ReservedQuantity)
	assert.Equal(t, 0, inv.Available())
	assert.Len(t, movements.movements, 100, "只有成功的预留产生流水")
}
