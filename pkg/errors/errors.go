package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf 格式化创建AppError
func Newf(code int, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WrapWithCode 使用指定错误码包装错误
func WrapWithCode(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 400xx: 业务状态错误（状态机拒绝、超量释放等）
// - 404xx: 资源不存在
// - 409xx: 参数错误与并发冲突
// - 503xx: 依赖不可用（商品下架、库存不足、远程服务失联）
// - 500xx: 服务端错误（数据库异常、消息队列异常）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeCacheError    = 50002 // Redis错误
	ErrCodeEventError    = 50003 // 事件发布错误

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized = 40100 // 未登录
	ErrCodeInvalidToken = 40101 // Token无效
	ErrCodeTokenExpired = 40102 // Token过期
	ErrCodeForbidden    = 40104 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound          = 40400 // 资源不存在(通用)
	ErrCodeOrderNotFound     = 40401 // 订单不存在
	ErrCodeProductNotFound   = 40402 // 商品不存在
	ErrCodeInventoryNotFound = 40403 // 库存记录不存在

	// 业务状态错误（40000-40099）
	ErrCodeInvalidState       = 40000 // 状态不允许此操作(通用)
	ErrCodeInvalidTransition  = 40001 // 非法的订单状态转换
	ErrCodeOverRelease        = 40002 // 释放数量超过已预留数量
	ErrCodeOverConfirm        = 40003 // 确认数量超过已预留数量
	ErrCodeOrderNotCancelable = 40004 // 订单不可取消

	// 参数错误（40900-40949）
	ErrCodeInvalidArgument = 40900 // 参数错误
	ErrCodeBindError       = 40901 // 参数绑定失败

	// 并发冲突（40950-40999）
	ErrCodeConflict = 40950 // 并发修改冲突(乐观锁版本不匹配)

	// 依赖不可用（50300-50399）
	ErrCodeUnavailable       = 50300 // 依赖不可用(通用)
	ErrCodeInsufficientStock = 50301 // 库存不足
	ErrCodeProductInactive   = 50302 // 商品已下架
	ErrCodeCatalogDown       = 50303 // 商品目录服务不可用
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrCacheError    = New(ErrCodeCacheError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired = New(ErrCodeTokenExpired, "Token已过期")
	ErrForbidden    = New(ErrCodeForbidden, "无权限访问")

	// 资源不存在
	ErrOrderNotFound     = New(ErrCodeOrderNotFound, "订单不存在")
	ErrProductNotFound   = New(ErrCodeProductNotFound, "商品不存在")
	ErrInventoryNotFound = New(ErrCodeInventoryNotFound, "库存记录不存在")

	// 业务状态
	ErrInvalidTransition  = New(ErrCodeInvalidTransition, "订单状态不允许此操作")
	ErrOrderNotCancelable = New(ErrCodeOrderNotCancelable, "订单不可取消")

	// 依赖不可用
	ErrInsufficientStock = New(ErrCodeInsufficientStock, "库存不足")
	ErrProductInactive   = New(ErrCodeProductInactive, "商品已下架")
	ErrCatalogDown       = New(ErrCodeCatalogDown, "商品目录服务暂时不可用")

	// 并发冲突
	ErrConflict = New(ErrCodeConflict, "数据已被其他请求修改，请重试")

	// 参数错误
	ErrInvalidArgument = New(ErrCodeInvalidArgument, "参数错误")
	ErrBindError       = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// codeOf 提取业务错误码，非AppError返回Internal
func codeOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsNotFound 判断是否为"资源不存在"类错误（40400-40499）
func IsNotFound(err error) bool {
	code := codeOf(err)
	return code >= 40400 && code < 40500
}

// IsInvalidArgument 判断是否为参数错误（40900-40949）
func IsInvalidArgument(err error) bool {
	code := codeOf(err)
	return code >= 40900 && code < 40950
}

// IsInvalidState 判断是否为状态/业务规则错误（40000-40099）
func IsInvalidState(err error) bool {
	code := codeOf(err)
	return code >= 40000 && code < 40100
}

// IsUnavailable 判断是否为依赖不可用错误（50300-50399）
// 库存不足、商品下架、远程服务失联都属于此类：调用方可整体重试
func IsUnavailable(err error) bool {
	code := codeOf(err)
	return code >= 50300 && code < 50400
}

// IsConflict 判断是否为并发修改冲突（乐观锁版本不匹配）
func IsConflict(err error) bool {
	return codeOf(err) == ErrCodeConflict
}
