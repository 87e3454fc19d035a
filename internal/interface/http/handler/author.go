package handler

import (
	"github.com/gin-gonic/gin"

	appauthor "github.com/thilan/bookshop/internal/application/author"
	"github.com/thilan/bookshop/internal/interface/http/dto"
	apperrors "github.com/thilan/bookshop/pkg/errors"
	"github.com/thilan/bookshop/pkg/response"
)

// AuthorHandler 作者HTTP处理器
type AuthorHandler struct {
	manageUseCase *appauthor.ManageAuthorsUseCase
}

// NewAuthorHandler 创建作者处理器
func NewAuthorHandler(manageUseCase *appauthor.ManageAuthorsUseCase) *AuthorHandler {
	return &AuthorHandler{manageUseCase: manageUseCase}
}

// Create 创建作者
// @Summary      创建作者
// @Tags         作者模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SaveAuthorRequest true "作者信息"
// @Success      200 {object} response.Response "创建成功"
// @Router       /authors [post]
func (h *AuthorHandler) Create(c *gin.Context) {
	var req dto.SaveAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageUseCase.Create(c.Request.Context(), req.Name, req.Biography)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Update 更新作者
// @Summary      更新作者
// @Tags         作者模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "作者ID"
// @Param        request body dto.SaveAuthorRequest true "作者信息"
// @Success      200 {object} response.Response "更新成功"
// @Router       /authors/{id} [put]
func (h *AuthorHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.SaveAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageUseCase.Update(c.Request.Context(), id, req.Name, req.Biography)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Delete 删除作者
// @Summary      删除作者
// @Description  名下还有图书的作者不可删除
// @Tags         作者模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "作者ID"
// @Success      200 {object} response.Response "删除成功"
// @Failure      40002 {object} response.Response "作者名下存在图书"
// @Router       /authors/{id} [delete]
func (h *AuthorHandler) Delete(c *gin.Context) {
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

// Get 作者详情
// @Summary      作者详情
// @Tags         作者模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "作者ID"
// @Success      200 {object} response.Response "查询成功"
// @Router       /authors/{id} [get]
func (h *AuthorHandler) Get(c *gin.Context) {
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

// List 作者列表
// @Summary      作者列表
// @Tags         作者模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        keyword query string false "姓名搜索"
// @Success      200 {object} response.Response "查询成功"
// @Router       /authors [get]
func (h *AuthorHandler) List(c *gin.Context) {
	var req dto.ListAuthorsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	authors, total, err := h.manageUseCase.List(c.Request.Context(), page, pageSize, req.Keyword)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, authors, total, page, pageSize)
}
