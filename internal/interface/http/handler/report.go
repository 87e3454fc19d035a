package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appreport "github.com/thilan/bookshop/internal/application/report"
	"github.com/thilan/bookshop/internal/domain/order"
	"github.com/thilan/bookshop/internal/interface/http/dto"
	apperrors "github.com/thilan/bookshop/pkg/errors"
	"github.com/thilan/bookshop/pkg/response"
)

// ReportHandler 报表HTTP处理器
type ReportHandler struct {
	financeUseCase *appreport.FinanceUseCase
	exportUseCase  *appreport.ExportReportUseCase
}

// NewReportHandler 创建报表处理器
func NewReportHandler(financeUseCase *appreport.FinanceUseCase, exportUseCase *appreport.ExportReportUseCase) *ReportHandler {
	return &ReportHandler{
		financeUseCase: financeUseCase,
		exportUseCase:  exportUseCase,
	}
}

// FinanceDaily 日度财务统计
// @Summary      日度财务统计
// @Description  指定月份内按归还日期逐日汇总租金
// @Tags         报表模块
// @Produce      json
// @Security     BearerAuth
// @Param        year query int true "年份"
// @Param        month query int true "月份(1-12)"
// @Success      200 {object} response.Response "统计成功"
// @Router       /reports/finance/daily [get]
func (h *ReportHandler) FinanceDaily(c *gin.Context) {
	var req dto.FinanceDailyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.financeUseCase.Daily(c.Request.Context(), req.Year, time.Month(req.Month))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// FinanceMonthly 月度财务统计
// @Summary      月度财务统计
// @Description  指定年份内按月汇总租金
// @Tags         报表模块
// @Produce      json
// @Security     BearerAuth
// @Param        year query int true "年份"
// @Success      200 {object} response.Response "统计成功"
// @Router       /reports/finance/monthly [get]
func (h *ReportHandler) FinanceMonthly(c *gin.Context) {
	var req dto.FinanceMonthlyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.financeUseCase.Monthly(c.Request.Context(), req.Year)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Export 导出Excel报表
// @Summary      导出Excel报表
// @Description  生成借阅单/客户/图书/付款记录四个工作表的xlsx文件
// @Tags         报表模块
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        from query string false "开始日期(2006-01-02)"
// @Param        to query string false "结束日期(2006-01-02)"
// @Param        status query int false "借阅单状态过滤"
// @Success      200 {file} binary "xlsx文件"
// @Router       /reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	var req dto.ExportReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	ucReq := &appreport.ExportReportRequest{}
	if req.From != "" {
		t, _ := time.ParseInLocation("2006-01-02", req.From, time.Local)
		ucReq.From = t
	}
	if req.To != "" {
		t, _ := time.ParseInLocation("2006-01-02", req.To, time.Local)
		ucReq.To = t
	}
	if req.Status != nil {
		s := order.Status(*req.Status)
		ucReq.Status = &s
	}

	result, err := h.exportUseCase.Execute(c.Request.Context(), ucReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		result.Content)
}
