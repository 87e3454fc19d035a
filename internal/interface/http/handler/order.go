package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/thilan/bookshop/internal/application/order"
	"github.com/thilan/bookshop/internal/interface/http/dto"
	apperrors "github.com/thilan/bookshop/pkg/errors"
	"github.com/thilan/bookshop/pkg/response"
)

// OrderHandler 借阅单HTTP处理器
type OrderHandler struct {
	createUseCase   *apporder.CreateOrderUseCase
	completeUseCase *apporder.CompleteOrderUseCase
	getUseCase      *apporder.GetOrderUseCase
	listUseCase     *apporder.ListOrdersUseCase
}

// NewOrderHandler 创建借阅单处理器
func NewOrderHandler(
	createUseCase *apporder.CreateOrderUseCase,
	completeUseCase *apporder.CompleteOrderUseCase,
	getUseCase *apporder.GetOrderUseCase,
	listUseCase *apporder.ListOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{
		createUseCase:   createUseCase,
		completeUseCase: completeUseCase,
		getUseCase:      getUseCase,
		listUseCase:     listUseCase,
	}
}

// Create 创建借阅单
// @Summary      创建借阅单
// @Description  客户借出图书，悲观锁扣减库存；可同时登记借款金额
// @Tags         借阅模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "借阅信息"
// @Success      200 {object} response.Response "创建成功"
// @Failure      40001 {object} response.Response "库存不足"
// @Failure      40404 {object} response.Response "客户不存在"
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	items := make([]apporder.CreateOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = apporder.CreateOrderItem{
			BookID:   item.BookID,
			Quantity: item.Quantity,
		}
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		CustomerID: req.CustomerID,
		Items:      items,
		LoanAmount: req.LoanAmount,
		ReturnDays: req.ReturnDays,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Complete 归还图书
// @Summary      归还图书
// @Description  归还选中的图书并回补库存；全部归还后借阅单完结，租金计入付款记录
// @Tags         借阅模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅单ID"
// @Param        request body dto.CompleteOrderRequest true "归还信息"
// @Success      200 {object} response.Response "归还成功"
// @Failure      40403 {object} response.Response "借阅单不存在"
// @Router       /orders/{id}/complete [post]
func (h *OrderHandler) Complete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CompleteOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.completeUseCase.Execute(c.Request.Context(), apporder.CompleteOrderRequest{
		OrderID:         id,
		SelectedBookIDs: req.SelectedBookIDs,
		CurrentPayment:  req.CurrentPayment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Get 借阅单详情
// @Summary      借阅单详情
// @Description  含明细与按当前时刻计算的租金报价
// @Tags         借阅模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅单ID"
// @Success      200 {object} response.Response "查询成功"
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// List 借阅单列表
// @Summary      借阅单列表
// @Description  分页查询，支持状态过滤与客户姓名搜索
// @Tags         借阅模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        status query int false "状态(0未完结 1已完结)"
// @Param        keyword query string false "客户姓名"
// @Success      200 {object} response.Response "查询成功"
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	orders, total, err := h.listUseCase.Execute(c.Request.Context(), apporder.ListOrdersRequest{
		Page:     page,
		PageSize: pageSize,
		Status:   req.Status,
		Keyword:  req.Keyword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, orders, total, page, pageSize)
}
