package handler

import (
	"github.com/gin-gonic/gin"

	appcustomer "github.com/thilan/bookshop/internal/application/customer"
	"github.com/thilan/bookshop/internal/interface/http/dto"
	apperrors "github.com/thilan/bookshop/pkg/errors"
	"github.com/thilan/bookshop/pkg/response"
)

// CustomerHandler 客户HTTP处理器
type CustomerHandler struct {
	manageUseCase  *appcustomer.ManageCustomersUseCase
	historyUseCase *appcustomer.CustomerHistoryUseCase
	deleteUseCase  *appcustomer.DeleteCustomerUseCase
}

// NewCustomerHandler 创建客户处理器
func NewCustomerHandler(
	manageUseCase *appcustomer.ManageCustomersUseCase,
	historyUseCase *appcustomer.CustomerHistoryUseCase,
	deleteUseCase *appcustomer.DeleteCustomerUseCase,
) *CustomerHandler {
	return &CustomerHandler{
		manageUseCase:  manageUseCase,
		historyUseCase: historyUseCase,
		deleteUseCase:  deleteUseCase,
	}
}

// Register 登记客户
// @Summary      登记客户
// @Tags         客户模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RegisterCustomerRequest true "客户信息"
// @Success      200 {object} response.Response "登记成功"
// @Failure      40003 {object} response.Response "登记号已存在"
// @Router       /customers [post]
func (h *CustomerHandler) Register(c *gin.Context) {
	var req dto.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageUseCase.Register(c.Request.Context(), appcustomer.RegisterCustomerRequest{
		RegistrationNo: req.RegistrationNo,
		Name:           req.Name,
		Contact:        req.Contact,
		Address:        req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Update 更新客户
// @Summary      更新客户
// @Tags         客户模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "客户ID"
// @Param        request body dto.UpdateCustomerRequest true "客户信息"
// @Success      200 {object} response.Response "更新成功"
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageUseCase.Update(c.Request.Context(), id, req.Name, req.Contact, req.Address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Delete 删除客户
// @Summary      删除客户
// @Description  级联删除客户的历史借阅单、付款记录和借款台账；存在未完结借阅单时拒绝
// @Tags         客户模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "客户ID"
// @Success      200 {object} response.Response "删除成功"
// @Failure      40002 {object} response.Response "客户存在未完结借阅单"
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// Get 客户详情
// @Summary      客户详情
// @Tags         客户模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "客户ID"
// @Success      200 {object} response.Response "查询成功"
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.manageUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// List 客户列表
// @Summary      客户列表
// @Tags         客户模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        keyword query string false "搜索关键词"
// @Success      200 {object} response.Response "查询成功"
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var req dto.ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	customers, total, err := h.manageUseCase.List(c.Request.Context(), page, pageSize, req.Keyword)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, customers, total, page, pageSize)
}

// History 客户历史
// @Summary      客户历史
// @Description  客户的全部借阅单、付款记录与借款台账汇总
// @Tags         客户模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "客户ID"
// @Success      200 {object} response.Response "查询成功"
// @Router       /customers/{id}/history [get]
func (h *CustomerHandler) History(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.historyUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
