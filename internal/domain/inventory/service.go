package inventory

import (
	"context"
	"log"

	apperrors "github.com/xiebiao/shopmall/pkg/errors"
)

// Service 库存领域服务
//
// 封装"锁行 → 改台账 → 记流水 → 落库"的完整动作。
// 所有写操作要求调用方已开启事务（ctx中携带事务句柄），
// 保证台账更新与流水记录的原子性。
type Service struct {
	repo         Repository
	movementRepo MovementRepository
}

// NewService 创建库存领域服务
func NewService(repo Repository, movementRepo MovementRepository) *Service {
	return &Service{
		repo:         repo,
		movementRepo: movementRepo,
	}
}

// Reserve 预留库存
// 返回更新后的台账，以及本次操作是否使可用量从阈值之上降到阈值及以下
// （只在"跨越"阈值的那一次返回true，避免重复告警）
func (s *Service) Reserve(ctx context.Context, productID uint, quantity int, reference string) (*Inventory, bool, error) {
	if quantity <= 0 {
		return nil, false, ErrInvalidQuantity
	}

	inv, err := s.repo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, false, err
	}

	before := *inv
	wasAboveReorder := !inv.NeedsReorder()

	if err := inv.Reserve(quantity); err != nil {
		return nil, false, err
	}

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, false, err
	}

	if err := s.movementRepo.Create(ctx, NewMovement(&before, inv, MovementReserve, quantity, reference)); err != nil {
		return nil, false, err
	}

	crossedReorder := wasAboveReorder && inv.NeedsReorder()
	if crossedReorder {
		log.Printf("⚠️ 商品%d可用库存降至%d（补货阈值%d）", productID, inv.Available(), inv.ReorderLevel)
	}

	return inv, crossedReorder, nil
}

// Release 释放预留（订单取消或下单失败补偿）
func (s *Service) Release(ctx context.Context, productID uint, quantity int, reference string) (*Inventory, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	inv, err := s.repo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}

	before := *inv
	if err := inv.Release(quantity); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}

	if err := s.movementRepo.Create(ctx, NewMovement(&before, inv, MovementRelease, quantity, reference)); err != nil {
		return nil, err
	}

	return inv, nil
}

// ConfirmReservation 确认扣减（发货出库，预留转实扣）
func (s *Service) ConfirmReservation(ctx context.Context, productID uint, quantity int, reference string) (*Inventory, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	inv, err := s.repo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}

	before := *inv
	if err := inv.ConfirmReservation(quantity); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}

	if err := s.movementRepo.Create(ctx, NewMovement(&before, inv, MovementConfirm, quantity, reference)); err != nil {
		return nil, err
	}

	return inv, nil
}

// AddStock 入库补货
// 商品首次入库时台账不存在，此时惰性创建
func (s *Service) AddStock(ctx context.Context, productID uint, quantity, reorderLevel, reorderQuantity int, reference string) (*Inventory, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	inv, err := s.repo.GetForUpdate(ctx, productID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			return nil, err
		}
		// 首次入库，建台账
		inv = &Inventory{
			ProductID:       productID,
			ReorderLevel:    reorderLevel,
			ReorderQuantity: reorderQuantity,
		}
		if err := s.repo.Create(ctx, inv); err != nil {
			return nil, err
		}
	}

	before := *inv
	if err := inv.AddStock(quantity); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}

	if err := s.movementRepo.Create(ctx, NewMovement(&before, inv, MovementRestock, quantity, reference)); err != nil {
		return nil, err
	}

	log.Printf("📦 商品%d入库%d，当前总量%d 可用%d", productID, quantity, inv.TotalQuantity, inv.Available())
	return inv, nil
}
