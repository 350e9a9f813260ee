// Package handler HTTP处理器：参数绑定 → 调用用例 → 统一响应
package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/shopmall/internal/application/order"
	"github.com/xiebiao/shopmall/internal/domain/order"
	"github.com/xiebiao/shopmall/internal/interface/http/dto"
	"github.com/xiebiao/shopmall/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/shopmall/pkg/errors"
	"github.com/xiebiao/shopmall/pkg/response"
)

// OrderHandler 订单接口
type OrderHandler struct {
	createOrder  *apporder.CreateOrderUseCase
	getOrder     *apporder.GetOrderUseCase
	listOrders   *apporder.ListOrdersUseCase
	confirmOrder *apporder.ConfirmOrderUseCase
	payOrder     *apporder.PayOrderUseCase
	cancelOrder  *apporder.CancelOrderUseCase
	shipOrder    *apporder.ShipOrderUseCase
	deliverOrder *apporder.DeliverOrderUseCase
	getStats     *apporder.GetStatsUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createOrder *apporder.CreateOrderUseCase,
	getOrder *apporder.GetOrderUseCase,
	listOrders *apporder.ListOrdersUseCase,
	confirmOrder *apporder.ConfirmOrderUseCase,
	payOrder *apporder.PayOrderUseCase,
	cancelOrder *apporder.CancelOrderUseCase,
	shipOrder *apporder.ShipOrderUseCase,
	deliverOrder *apporder.DeliverOrderUseCase,
	getStats *apporder.GetStatsUseCase,
) *OrderHandler {
	return &OrderHandler{
		createOrder:  createOrder,
		getOrder:     getOrder,
		listOrders:   listOrders,
		confirmOrder: confirmOrder,
		payOrder:     payOrder,
		cancelOrder:  cancelOrder,
		shipOrder:    shipOrder,
		deliverOrder: deliverOrder,
		getStats:     getStats,
	}
}

// Create 下单
// @Summary 创建订单
// @Tags 订单
// @Accept json
// @Produce json
// @Param request body dto.CreateOrderRequest true "下单请求"
// @Success 200 {object} response.Response{data=dto.OrderResponse}
// @Security Bearer
// @Router /api/v1/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	items := make([]apporder.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, apporder.CreateOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	o, err := h.createOrder.Execute(c.Request.Context(), apporder.CreateOrderInput{
		UserID:          middleware.GetUserID(c),
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		Currency:        req.Currency,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToOrderResponse(o))
}

// Get 订单详情
// @Summary 查询订单详情
// @Tags 订单
// @Produce json
// @Param order_no path string true "订单号"
// @Success 200 {object} response.Response{data=dto.OrderResponse}
// @Security Bearer
// @Router /api/v1/orders/{order_no} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.getOrder.Execute(c.Request.Context(), c.Param("order_no"), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToOrderResponse(o))
}

// List 订单列表
// @Summary 分页查询我的订单
// @Tags 订单
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页大小" default(20)
// @Param status query string false "状态过滤（如PENDING、SHIPPED）"
// @Success 200 {object} response.Response{data=response.PageData}
// @Security Bearer
// @Router /api/v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 20)

	var status *order.Status
	if s := c.Query("status"); s != "" {
		parsed, ok := order.ParseStatus(s)
		if !ok {
			response.Error(c, apperrors.Newf(apperrors.ErrCodeInvalidArgument, "未知的订单状态: %s", s))
			return
		}
		status = &parsed
	}

	orders, total, err := h.listOrders.Execute(c.Request.Context(), apporder.ListOrdersInput{
		UserID:   middleware.GetUserID(c),
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, response.NewPageData(dto.ToOrderResponses(orders), total, page, pageSize))
}

// Confirm 确认订单
// @Summary 确认订单
// @Tags 订单
// @Produce json
// @Param order_no path string true "订单号"
// @Success 200 {object} response.Response{data=dto.OrderResponse}
// @Security Bearer
// @Router /api/v1/orders/{order_no}/confirm [post]
func (h *OrderHandler) Confirm(c *gin.Context) {
	o, err := h.confirmOrder.Execute(c.Request.Context(), c.Param("order_no"), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToOrderResponse(o))
}

// Pay 支付回调（上游支付网关调用，不校验订单归属）
// @Summary 标记订单支付完成
// @Tags 订单
// @Produce json
// @Param order_no path string true "订单号"
// @Success 200 {object} response.Response{data=dto.OrderResponse}
// @Security Bearer
// @Router /api/v1/orders/{order_no}/payment [post]
func (h *OrderHandler) Pay(c *gin.Context) {
	o, err := h.payOrder.Execute(c.Request.Context(), c.Param("order_no"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToOrderResponse(o))
}

// Cancel 取消订单
// @Summary 取消订单（发货前）
// @Tags 订单
// @Produce json
// @Param order_no path string true "订单号"
// @Success 200 {object} response.Response{data=dto.OrderResponse}
// @Security Bearer
// @Router /api/v1/orders/{order_no}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	o, err := h.cancelOrder.Execute(c.Request.Context(), c.Param("order_no"), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToOrderResponse(o))
}

// Ship 发货（运营端）
// @Summary 订单发货
// @Tags 订单
// @Produce json
// @Param order_no path string true "订单号"
// @Success 200 {object} response.Response{data=dto.OrderResponse}
// @Security Bearer
// @Router /api/v1/orders/{order_no}/ship [post]
func (h *OrderHandler) Ship(c *gin.Context) {
	o, err := h.shipOrder.Execute(c.Request.Context(), c.Param("order_no"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToOrderResponse(o))
}

// Stats 我的订单统计
// @Summary 按状态统计我的订单数
// @Tags 订单
// @Produce json
// @Success 200 {object} response.Response{data=dto.OrderStatsResponse}
// @Security Bearer
// @Router /api/v1/orders/stats [get]
func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.getStats.Execute(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToOrderStatsResponse(stats))
}

// Deliver 签收
// @Summary 标记订单签收
// @Tags 订单
// @Produce json
// @Param order_no path string true "订单号"
// @Success 200 {object} response.Response{data=dto.OrderResponse}
// @Security Bearer
// @Router /api/v1/orders/{order_no}/deliver [post]
func (h *OrderHandler) Deliver(c *gin.Context) {
	o, err := h.deliverOrder.Execute(c.Request.Context(), c.Param("order_no"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToOrderResponse(o))
}
