package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appinventory "github.com/xiebiao/shopmall/internal/application/inventory"
	"github.com/xiebiao/shopmall/internal/interface/http/dto"
	apperrors "github.com/xiebiao/shopmall/pkg/errors"
	"github.com/xiebiao/shopmall/pkg/response"
)

// InventoryHandler 库存接口
type InventoryHandler struct {
	addStock       *appinventory.AddStockUseCase
	checkStock     *appinventory.CheckStockUseCase
	getInventory   *appinventory.GetInventoryUseCase
	listAlerts     *appinventory.ListAlertsUseCase
	listOutOfStock *appinventory.ListOutOfStockUseCase
	listMovements  *appinventory.ListMovementsUseCase
}

// NewInventoryHandler 创建库存处理器
func NewInventoryHandler(
	addStock *appinventory.AddStockUseCase,
	checkStock *appinventory.CheckStockUseCase,
	getInventory *appinventory.GetInventoryUseCase,
	listAlerts *appinventory.ListAlertsUseCase,
	listOutOfStock *appinventory.ListOutOfStockUseCase,
	listMovements *appinventory.ListMovementsUseCase,
) *InventoryHandler {
	return &InventoryHandler{
		addStock:       addStock,
		checkStock:     checkStock,
		getInventory:   getInventory,
		listAlerts:     listAlerts,
		listOutOfStock: listOutOfStock,
		listMovements:  listMovements,
	}
}

// AddStock 入库补货
// @Summary 商品入库
// @Tags 库存
// @Accept json
// @Produce json
// @Param product_id path int true "商品ID"
// @Param request body dto.AddStockRequest true "入库请求"
// @Success 200 {object} response.Response{data=dto.InventoryResponse}
// @Security Bearer
// @Router /api/v1/inventory/{product_id}/stock [post]
func (h *InventoryHandler) AddStock(c *gin.Context) {
	productID, err := pathUint(c, "product_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	inv, err := h.addStock.Execute(c.Request.Context(), appinventory.AddStockInput{
		ProductID:       productID,
		Quantity:        req.Quantity,
		ReorderLevel:    req.ReorderLevel,
		ReorderQuantity: req.ReorderQuantity,
		Reference:       req.Reference,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToInventoryResponse(inv))
}

// CheckStock 批量可用性查询
// @Summary 批量查询库存可用性
// @Tags 库存
// @Accept json
// @Produce json
// @Param request body dto.CheckStockRequest true "查询请求"
// @Success 200 {object} response.Response{data=[]dto.StockStatusResponse}
// @Router /api/v1/inventory/check [post]
func (h *InventoryHandler) CheckStock(c *gin.Context) {
	var req dto.CheckStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	lines := make([]appinventory.CheckStockLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, appinventory.CheckStockLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	statuses, err := h.checkStock.Execute(c.Request.Context(), appinventory.CheckStockInput{Lines: lines})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToStockStatusResponses(statuses))
}

// GetInventory 库存台账详情
// @Summary 查询商品库存台账
// @Tags 库存
// @Produce json
// @Param product_id path int true "商品ID"
// @Success 200 {object} response.Response{data=dto.InventoryResponse}
// @Security Bearer
// @Router /api/v1/inventory/{product_id} [get]
func (h *InventoryHandler) GetInventory(c *gin.Context) {
	productID, err := pathUint(c, "product_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	inv, err := h.getInventory.Execute(c.Request.Context(), productID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToInventoryResponse(inv))
}

// ListOutOfStock 缺货清单
// @Summary 查询可用量已耗尽的商品
// @Tags 库存
// @Produce json
// @Success 200 {object} response.Response{data=[]dto.ReorderAlertResponse}
// @Security Bearer
// @Router /api/v1/inventory/out-of-stock [get]
func (h *InventoryHandler) ListOutOfStock(c *gin.Context) {
	alerts, err := h.listOutOfStock.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToReorderAlertResponses(alerts))
}

// ListAlerts 补货告警清单
// @Summary 查询需要补货的商品
// @Tags 库存
// @Produce json
// @Success 200 {object} response.Response{data=[]dto.ReorderAlertResponse}
// @Security Bearer
// @Router /api/v1/inventory/alerts [get]
func (h *InventoryHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.listAlerts.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToReorderAlertResponses(alerts))
}

// ListMovements 库存流水
// @Summary 分页查询商品的库存变动流水
// @Tags 库存
// @Produce json
// @Param product_id path int true "商品ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页大小" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Security Bearer
// @Router /api/v1/inventory/{product_id}/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	productID, err := pathUint(c, "product_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 20)

	movements, total, err := h.listMovements.Execute(c.Request.Context(), productID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, response.NewPageData(dto.ToMovementResponses(movements), total, page, pageSize))
}

// pathUint 解析路径中的数字参数
func pathUint(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		return 0, apperrors.Newf(apperrors.ErrCodeInvalidArgument, "参数%s非法", name)
	}
	return uint(v), nil
}

// intQuery 解析查询参数，缺省或非法时用默认值
func intQuery(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil || v < 1 {
		return def
	}
	return v
}
