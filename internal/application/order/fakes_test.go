package order

import (
	"context"
	"sync"

	"github.com/xiebiao/shopmall/internal/domain/catalog"
	"github.com/xiebiao/shopmall/internal/domain/inventory"
	domain "github.com/xiebiao/shopmall/internal/domain/order"
	"github.com/xiebiao/shopmall/internal/event"
	apperrors "github.com/xiebiao/shopmall/pkg/errors"
)

// passTx 直通事务管理器（单元测试不需要真实事务）
type passTx struct{}

func (passTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memOrderRepo 内存订单仓储
type memOrderRepo struct {
	mu     sync.Mutex
	nextID uint
	orders map[string]*domain.Order // orderNo → order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *memOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	o.ID = r.nextID
	cp := *o
	r.orders[o.OrderNo] = &cp
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, id uint) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, apperrors.ErrOrderNotFound
}

func (r *memOrderRepo) FindByOrderNo(_ context.Context, orderNo string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderNo]
	if !ok {
		return nil, apperrors.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) FindByOrderNoForUpdate(ctx context.Context, orderNo string) (*domain.Order, error) {
	return r.FindByOrderNo(ctx, orderNo)
}

func (r *memOrderRepo) FindByUserID(_ context.Context, userID uint, status *domain.Status, page, pageSize int) ([]*domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Order
	for _, o := range r.orders {
		if o.UserID != userID {
			continue
		}
		if status != nil && o.Status != *status {
			continue
		}
		cp := *o
		result = append(result, &cp)
	}
	total := int64(len(result))
	start := (page - 1) * pageSize
	if start >= len(result) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *memOrderRepo) Update(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.OrderNo]; !ok {
		return apperrors.ErrOrderNotFound
	}
	cp := *o
	r.orders[o.OrderNo] = &cp
	return nil
}

func (r *memOrderRepo) CountByStatus(_ context.Context, userID uint, status domain.Status) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, o := range r.orders {
		if o.UserID == userID && o.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *memOrderRepo) CountByUser(_ context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, o := range r.orders {
		if o.UserID == userID {
			n++
		}
	}
	return n, nil
}

// memInvRepo 内存库存仓储（直通事务下无需行锁）
type memInvRepo struct {
	mu   sync.Mutex
	data map[uint]*inventory.Inventory
}

func newMemInvRepo(invs ...*inventory.Inventory) *memInvRepo {
	r := &memInvRepo{data: make(map[uint]*inventory.Inventory)}
	for _, inv := range invs {
		cp := *inv
		r.data[inv.ProductID] = &cp
	}
	return r
}

func (r *memInvRepo) GetByProductID(_ context.Context, productID uint) (*inventory.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.data[productID]
	if !ok {
		return nil, apperrors.ErrInventoryNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *memInvRepo) GetForUpdate(ctx context.Context, productID uint) (*inventory.Inventory, error) {
	return r.GetByProductID(ctx, productID)
}

func (r *memInvRepo) BatchGet(_ context.Context, productIDs []uint) (map[uint]*inventory.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[uint]*inventory.Inventory)
	for _, id := range productIDs {
		if inv, ok := r.data[id]; ok {
			cp := *inv
			result[id] = &cp
		}
	}
	return result, nil
}

func (r *memInvRepo) Create(_ context.Context, inv *inventory.Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *inv
	r.data[inv.ProductID] = &cp
	return nil
}

func (r *memInvRepo) Update(_ context.Context, inv *inventory.Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *inv
	cp.Version++
	r.data[inv.ProductID] = &cp
	return nil
}

func (r *memInvRepo) ListNeedingReorder(_ context.Context) ([]*inventory.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*inventory.Inventory
	for _, inv := range r.data {
		if inv.NeedsReorder() {
			cp := *inv
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *memInvRepo) ListOutOfStock(_ context.Context) ([]*inventory.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*inventory.Inventory
	for _, inv := range r.data {
		if inv.IsOutOfStock() {
			cp := *inv
			result = append(result, &cp)
		}
	}
	return result, nil
}

// memMovementRepo 内存流水仓储
type memMovementRepo struct {
	mu        sync.Mutex
	movements []*inventory.Movement
}

func (r *memMovementRepo) Create(_ context.Context, m *inventory.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, m)
	return nil
}

func (r *memMovementRepo) FindByProductID(_ context.Context, productID uint, _, _ int) ([]*inventory.Movement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*inventory.Movement
	for _, m := range r.movements {
		if m.ProductID == productID {
			result = append(result, m)
		}
	}
	return result, int64(len(result)), nil
}

// fakeCatalog 固定商品表的目录客户端
type fakeCatalog struct {
	products map[uint]*catalog.Product
	err      error // 非nil时所有调用返回该错误（模拟目录服务不可用）
}

func (c *fakeCatalog) GetProduct(_ context.Context, productID uint) (*catalog.Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	p, ok := c.products[productID]
	if !ok {
		return nil, apperrors.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

// recordEmitter 记录发出的事件
type recordEmitter struct {
	mu     sync.Mutex
	events []event.Event
}

func (e *recordEmitter) Emit(ev event.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

func (e *recordEmitter) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var result []string
	for _, ev := range e.events {
		result = append(result, ev.EventType)
	}
	return result
}

// memCache 内存订单缓存，统计命中
type memCache struct {
	mu   sync.Mutex
	data map[string]*domain.Order
	hits int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]*domain.Order)}
}

func (c *memCache) Get(_ context.Context, orderNo string) (*domain.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.data[orderNo]
	if !ok {
		return nil, apperrors.ErrCacheError
	}
	c.hits++
	cp := *o
	return &cp, nil
}

func (c *memCache) Set(_ context.Context, o *domain.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *o
	c.data[o.OrderNo] = &cp
	return nil
}

func (c *memCache) Invalidate(_ context.Context, orderNo string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, orderNo)
	return nil
}
