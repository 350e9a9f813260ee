package order

import (
	apperrors "github.com/xiebiao/shopmall/pkg/errors"
)

// 订单领域错误
// 统一走pkg/errors的错误码体系，接口层据此映射HTTP状态码
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.ErrOrderNotFound

	// ErrInvalidQuantity 购买数量非法（必须≥1）
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidArgument, "购买数量必须大于0")

	// ErrEmptyItems 订单明细为空
	ErrEmptyItems = apperrors.New(apperrors.ErrCodeInvalidArgument, "订单至少需要一条明细")

	// ErrInvalidOrderNo 订单号格式非法
	ErrInvalidOrderNo = apperrors.New(apperrors.ErrCodeInvalidArgument, "订单号格式非法")
)

// NewInvalidTransition 构造非法状态流转错误
// 错误信息携带当前状态和尝试的动作，方便排查
func NewInvalidTransition(orderNo string, current Status, action string) error {
	return apperrors.Newf(apperrors.ErrCodeInvalidTransition,
		"订单%s当前状态为%s，不允许执行%s操作", orderNo, current, action)
}
