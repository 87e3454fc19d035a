package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/thilan/bookshop/internal/application/book"
	"github.com/thilan/bookshop/internal/interface/http/dto"
	apperrors "github.com/thilan/bookshop/pkg/errors"
	"github.com/thilan/bookshop/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	manageUseCase *appbook.ManageBooksUseCase
	listUseCase   *appbook.ListBooksUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(manageUseCase *appbook.ManageBooksUseCase, listUseCase *appbook.ListBooksUseCase) *BookHandler {
	return &BookHandler{
		manageUseCase: manageUseCase,
		listUseCase:   listUseCase,
	}
}

// Create 新书入库
// @Summary      新书入库
// @Description  登记新书并设置在库数量
// @Tags         图书模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} response.Response "入库成功"
// @Failure      40003 {object} response.Response "ISBN已存在"
// @Router       /books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageUseCase.Create(c.Request.Context(), appbook.CreateBookRequest{
		ISBN:     req.ISBN,
		Name:     req.Name,
		AuthorID: req.AuthorID,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Update 更新图书
// @Summary      更新图书
// @Tags         图书模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "图书信息"
// @Success      200 {object} response.Response "更新成功"
// @Router       /books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageUseCase.Update(c.Request.Context(), appbook.UpdateBookRequest{
		ID:       id,
		ISBN:     req.ISBN,
		Name:     req.Name,
		AuthorID: req.AuthorID,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Delete 删除图书
// @Summary      删除图书
// @Description  存在未归还明细的图书不可删除
// @Tags         图书模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response "删除成功"
// @Failure      40002 {object} response.Response "图书有未归还记录"
// @Router       /books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.manageUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// Get 图书详情
// @Summary      图书详情
// @Tags         图书模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response "查询成功"
// @Router       /books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
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

// List 图书列表
// @Summary      图书列表
// @Description  分页查询，支持书名/作者/ISBN模糊搜索
// @Tags         图书模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        keyword query string false "搜索关键词"
// @Success      200 {object} response.Response "查询成功"
// @Router       /books [get]
func (h *BookHandler) List(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	books, total, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     page,
		PageSize: pageSize,
		Keyword:  req.Keyword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, books, total, page, pageSize)
}

// parseIDParam 解析路径中的:id参数
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidParams, "ID参数错误")
	}
	return uint(id), nil
}

// normalizePage 填充分页默认值，保证响应里的page/page_size与实际查询一致
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
