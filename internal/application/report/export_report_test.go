package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/thilan/bookshop/internal/domain/book"
	"github.com/thilan/bookshop/internal/domain/customer"
	"github.com/thilan/bookshop/internal/infrastructure/persistence/mysql"
)

func TestExportReport_BuildsWorkbook(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	bookRepo := mysql.NewBookRepository(db)
	customerRepo := mysql.NewCustomerRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	paymentRepo := mysql.NewPaymentRepository(db)

	require.NoError(t, bookRepo.Create(ctx, book.NewBook("9787506365437", "活着", 1, "余华", 5)))
	require.NoError(t, customerRepo.Create(ctx, customer.NewCustomer("C0001", "李四", "0770000000", "科伦坡")))
	seedPayment(t, paymentRepo, 1, 1, 5000, time.Date(2026, 8, 15, 12, 0, 0, 0, time.Local))

	uc := NewExportReportUseCase(orderRepo, customerRepo, bookRepo, paymentRepo)

	got, err := uc.Execute(ctx, &ExportReportRequest{})
	require.NoError(t, err)
	assert.Contains(t, got.FileName, ".xlsx")
	require.NotEmpty(t, got.Content)

	// 打开生成的文件,验证四个工作表和数据行
	f, err := excelize.OpenReader(bytes.NewReader(got.Content))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"借阅单", "客户", "图书", "付款记录"}, f.GetSheetList())

	name, err := f.GetCellValue("图书", "C2")
	require.NoError(t, err)
	assert.Equal(t, "活着", name)

	cust, err := f.GetCellValue("客户", "C2")
	require.NoError(t, err)
	assert.Equal(t, "李四", cust)
}

func TestExportReport_InvalidRange(t *testing.T) {
	db := newTestDB(t)
	uc := NewExportReportUseCase(
		mysql.NewOrderRepository(db),
		mysql.NewCustomerRepository(db),
		mysql.NewBookRepository(db),
		mysql.NewPaymentRepository(db),
	)

	_, err := uc.Execute(context.Background(), &ExportReportRequest{
		From: time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local),
		To:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local),
	})
	require.Error(t, err)
}
