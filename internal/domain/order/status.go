package order

// Status 订单状态
// 使用int枚举存库（节省空间、便于索引），对外展示用String()
type Status int

const (
	StatusPending          Status = iota + 1 // 待确认
	StatusConfirmed                          // 已确认
	StatusPaymentCompleted                   // 支付完成
	StatusShipped                            // 已发货
	StatusDelivered                          // 已签收
	StatusCancelled                          // 已取消
)

// statusNames 状态的对外名称（API响应与事件载荷统一用这套）
var statusNames = map[Status]string{
	StatusPending:          "PENDING",
	StatusConfirmed:        "CONFIRMED",
	StatusPaymentCompleted: "PAYMENT_COMPLETED",
	StatusShipped:          "SHIPPED",
	StatusDelivered:        "DELIVERED",
	StatusCancelled:        "CANCELLED",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsValid 判断是否为已定义的状态值
func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseStatus 从名称解析状态（用于查询参数过滤）
func ParseStatus(name string) (Status, bool) {
	for s, n := range statusNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}
