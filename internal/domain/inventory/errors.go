package inventory

import (
	apperrors "github.com/xiebiao/shopmall/pkg/errors"
)

var (
	// ErrInventoryNotFound 商品没有库存台账记录
	ErrInventoryNotFound = apperrors.ErrInventoryNotFound

	// ErrInvalidQuantity 操作数量非法（必须＞0）
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidArgument, "库存操作数量必须大于0")
)

// NewInsufficientStock 库存不足错误，携带请求量与可用量
func NewInsufficientStock(productID uint, requested, available int) error {
	return apperrors.Newf(apperrors.ErrCodeInsufficientStock,
		"商品%d库存不足：请求%d，可用%d", productID, requested, available)
}

// NewOverRelease 释放量超过预留量（调用方记账错误，不是用户可修复的问题）
func NewOverRelease(productID uint, requested, reserved int) error {
	return apperrors.Newf(apperrors.ErrCodeOverRelease,
		"商品%d释放数量%d超过已预留数量%d", productID, requested, reserved)
}

// NewOverConfirm 确认扣减量超过预留量
func NewOverConfirm(productID uint, requested, reserved int) error {
	return apperrors.Newf(apperrors.ErrCodeOverConfirm,
		"商品%d确认扣减数量%d超过已预留数量%d", productID, requested, reserved)
}
