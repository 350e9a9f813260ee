package order

import (
	"strings"

	"github.com/google/uuid"
)

// orderNoPrefix 订单号前缀
const orderNoPrefix = "ORD-"

// GenerateOrderNo 生成订单号（格式：ORD-<uuid>）
// UUID v4随机生成，全局唯一且不可预测（避免泄露订单量）
func GenerateOrderNo() string {
	return orderNoPrefix + uuid.NewString()
}

// ValidateOrderNo 校验订单号格式
func ValidateOrderNo(orderNo string) error {
	if !strings.HasPrefix(orderNo, orderNoPrefix) {
		return ErrInvalidOrderNo
	}
	if _, err := uuid.Parse(strings.TrimPrefix(orderNo, orderNoPrefix)); err != nil {
		return ErrInvalidOrderNo
	}
	return nil
}
