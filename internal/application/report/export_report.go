package report

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/thilan/bookshop/internal/domain/book"
	"github.com/thilan/bookshop/internal/domain/customer"
	"github.com/thilan/bookshop/internal/domain/order"
	"github.com/thilan/bookshop/internal/domain/payment"
	apperrors "github.com/thilan/bookshop/pkg/errors"
)

// 导出时的分页批量大小
const exportBatchSize = 500

// ExportReportUseCase 报表导出用例
// 生成包含借阅单/客户/图书/付款记录四个工作表的Excel文件。
type ExportReportUseCase struct {
	orderRepo    order.Repository
	customerRepo customer.Repository
	bookRepo     book.Repository
	paymentRepo  payment.Repository
}

// NewExportReportUseCase 创建报表导出用例
func NewExportReportUseCase(
	orderRepo order.Repository,
	customerRepo customer.Repository,
	bookRepo book.Repository,
	paymentRepo payment.Repository,
) *ExportReportUseCase {
	return &ExportReportUseCase{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		bookRepo:     bookRepo,
		paymentRepo:  paymentRepo,
	}
}

// ExportReportRequest 导出请求
// From/To过滤借阅单的借出日期和付款记录的归还日期（半开区间[From, To)），
// 零值表示不限。Status过滤借阅单状态，nil表示全部。
type ExportReportRequest struct {
	From   time.Time
	To     time.Time
	Status *order.Status
}

// ExportReportResponse 导出响应
type ExportReportResponse struct {
	FileName string
	Content  []byte
}

// Execute 生成Excel报表
func (uc *ExportReportUseCase) Execute(ctx context.Context, req *ExportReportRequest) (*ExportReportResponse, error) {
	if !req.From.IsZero() && !req.To.IsZero() && req.To.Before(req.From) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "结束日期早于开始日期")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := uc.writeOrdersSheet(ctx, f, req); err != nil {
		return nil, err
	}
	if err := uc.writeCustomersSheet(ctx, f); err != nil {
		return nil, err
	}
	if err := uc.writeBooksSheet(ctx, f); err != nil {
		return nil, err
	}
	if err := uc.writePaymentsSheet(ctx, f, req); err != nil {
		return nil, err
	}

	// 默认的Sheet1已被借阅单工作表取代
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Excel失败")
	}

	return &ExportReportResponse{
		FileName: fmt.Sprintf("bookshop_report_%s.xlsx", time.Now().Format("20060102_150405")),
		Content:  buf.Bytes(),
	}, nil
}

func (uc *ExportReportUseCase) writeOrdersSheet(ctx context.Context, f *excelize.File, req *ExportReportRequest) error {
	const sheet = "借阅单"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return apperrors.Wrap(err, "创建工作表失败")
	}
	if err := setHeader(f, sheet, []interface{}{"单号", "客户", "借出日期", "归还日期", "状态"}); err != nil {
		return err
	}

	row := 2
	for page := 1; ; page++ {
		orders, _, err := uc.orderRepo.List(ctx, order.ListParams{
			Page:     page,
			PageSize: exportBatchSize,
			Status:   req.Status,
		})
		if err != nil {
			return err
		}

		for _, o := range orders {
			if !inRange(o.OrderDate, req.From, req.To) {
				continue
			}
			returnDate := ""
			if !o.ReturnDate.IsZero() {
				returnDate = o.ReturnDate.Format("2006-01-02")
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(sheet, cell, &[]interface{}{
				o.ID,
				o.CustomerName,
				o.OrderDate.Format("2006-01-02"),
				returnDate,
				o.Status.String(),
			}); err != nil {
				return apperrors.Wrap(err, "写入工作表失败")
			}
			row++
		}

		if len(orders) < exportBatchSize {
			return nil
		}
	}
}

func (uc *ExportReportUseCase) writeCustomersSheet(ctx context.Context, f *excelize.File) error {
	const sheet = "客户"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.Wrap(err, "创建工作表失败")
	}
	if err := setHeader(f, sheet, []interface{}{"编号", "登记号", "姓名", "联系电话", "地址"}); err != nil {
		return err
	}

	row := 2
	for page := 1; ; page++ {
		customers, _, err := uc.customerRepo.List(ctx, customer.ListParams{
			Page:     page,
			PageSize: exportBatchSize,
		})
		if err != nil {
			return err
		}

		for _, c := range customers {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(sheet, cell, &[]interface{}{
				c.ID, c.RegistrationNo, c.Name, c.Contact, c.Address,
			}); err != nil {
				return apperrors.Wrap(err, "写入工作表失败")
			}
			row++
		}

		if len(customers) < exportBatchSize {
			return nil
		}
	}
}

func (uc *ExportReportUseCase) writeBooksSheet(ctx context.Context, f *excelize.File) error {
	const sheet = "图书"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.Wrap(err, "创建工作表失败")
	}
	if err := setHeader(f, sheet, []interface{}{"编号", "ISBN", "书名", "作者", "在库数量"}); err != nil {
		return err
	}

	row := 2
	for page := 1; ; page++ {
		books, _, err := uc.bookRepo.List(ctx, book.ListParams{
			Page:     page,
			PageSize: exportBatchSize,
		})
		if err != nil {
			return err
		}

		for _, b := range books {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(sheet, cell, &[]interface{}{
				b.ID, b.ISBN, b.Name, b.AuthorName, b.Quantity,
			}); err != nil {
				return apperrors.Wrap(err, "写入工作表失败")
			}
			row++
		}

		if len(books) < exportBatchSize {
			return nil
		}
	}
}

func (uc *ExportReportUseCase) writePaymentsSheet(ctx context.Context, f *excelize.File, req *ExportReportRequest) error {
	const sheet = "付款记录"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.Wrap(err, "创建工作表失败")
	}
	if err := setHeader(f, sheet, []interface{}{"单号", "客户", "借出日期", "归还日期", "租金(元)"}); err != nil {
		return err
	}

	from, to := req.From, req.To
	if from.IsZero() {
		from = time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local)
	}
	if to.IsZero() {
		to = time.Now().AddDate(0, 0, 1)
	}

	payments, err := uc.paymentRepo.ListByReturnDateRange(ctx, from, to)
	if err != nil {
		return err
	}

	for i, p := range payments {
		returnDate := ""
		if !p.ReturnDate.IsZero() {
			returnDate = p.ReturnDate.Format("2006-01-02")
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{
			p.OrderID,
			p.CustomerName,
			p.OrderDate.Format("2006-01-02"),
			returnDate,
			float64(p.Amount) / 100,
		}); err != nil {
			return apperrors.Wrap(err, "写入工作表失败")
		}
	}

	return nil
}

// setHeader 写入表头并加粗
func setHeader(f *excelize.File, sheet string, titles []interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &titles); err != nil {
		return apperrors.Wrap(err, "写入表头失败")
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return apperrors.Wrap(err, "创建表头样式失败")
	}
	end, _ := excelize.CoordinatesToCellName(len(titles), 1)
	if err := f.SetCellStyle(sheet, "A1", end, style); err != nil {
		return apperrors.Wrap(err, "设置表头样式失败")
	}
	return nil
}

// inRange 判断t是否落在[from, to)内，零值边界不限
func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
