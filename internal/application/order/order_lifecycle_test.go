package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thilan/bookshop/internal/domain/book"
	"github.com/thilan/bookshop/internal/domain/customer"
	domorder "github.com/thilan/bookshop/internal/domain/order"
	"github.com/thilan/bookshop/internal/infrastructure/persistence/mysql"
	apperrors "github.com/thilan/bookshop/pkg/errors"
	"github.com/thilan/bookshop/pkg/mq"
)

// newTestDB 每个测试一个独立的内存数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, mysql.AutoMigrate(db))
	return db
}

type testEnv struct {
	db           *gorm.DB
	orderRepo    domorder.Repository
	bookRepo     book.Repository
	customerRepo customer.Repository
	create       *CreateOrderUseCase
	complete     *CompleteOrderUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	txManager := mysql.NewTxManager(db, 5*time.Second)

	orderRepo := mysql.NewOrderRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	customerRepo := mysql.NewCustomerRepository(db)
	loanRepo := mysql.NewLoanRepository(db)
	paymentRepo := mysql.NewPaymentRepository(db)

	return &testEnv{
		db:           db,
		orderRepo:    orderRepo,
		bookRepo:     bookRepo,
		customerRepo: customerRepo,
		create: NewCreateOrderUseCase(
			orderRepo, bookRepo, customerRepo, loanRepo, txManager, nil, mq.NewNoopPublisher(),
		),
		complete: NewCompleteOrderUseCase(
			orderRepo, bookRepo, paymentRepo, txManager, nil, mq.NewNoopPublisher(),
		),
	}
}

func (e *testEnv) seedBook(t *testing.T, isbn, name string, quantity int) *book.Book {
	t.Helper()
	b := book.NewBook(isbn, name, 1, "余华", quantity)
	require.NoError(t, e.bookRepo.Create(context.Background(), b))
	return b
}

func (e *testEnv) seedCustomer(t *testing.T, no, name string) *customer.Customer {
	t.Helper()
	c := customer.NewCustomer(no, name, "0770000000", "科伦坡")
	require.NoError(t, e.customerRepo.Create(context.Background(), c))
	return c
}

func TestCreateOrder_DeductsStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b1 := env.seedBook(t, "9787506365437", "活着", 3)
	b2 := env.seedBook(t, "9787506365444", "兄弟", 2)
	cust := env.seedCustomer(t, "C0001", "李四")

	resp, err := env.create.Execute(ctx, CreateOrderRequest{
		CustomerID: cust.ID,
		Items: []CreateOrderItem{
			{BookID: b1.ID, Quantity: 2},
			{BookID: b2.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, cust.ID, resp.CustomerID)
	assert.Equal(t, "李四", resp.CustomerName)
	assert.Empty(t, resp.Warning)

	got1, err := env.bookRepo.FindByID(ctx, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got1.Quantity)

	got2, err := env.bookRepo.FindByID(ctx, b2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got2.Quantity)

	o, err := env.orderRepo.FindByID(ctx, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domorder.StatusPending, o.Status)
	assert.Len(t, o.Details, 2)
	assert.Equal(t, 2, o.PendingCount())
	// 借出日期固定在当天正午
	assert.Equal(t, 12, o.OrderDate.Hour())
}

// 应还日期随借阅单一起落库,不是只在响应里推算
func TestCreateOrder_PersistsDueDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b := env.seedBook(t, "9787506365437", "活着", 1)
	cust := env.seedCustomer(t, "C0001", "李四")

	resp, err := env.create.Execute(ctx, CreateOrderRequest{
		CustomerID: cust.ID,
		Items:      []CreateOrderItem{{BookID: b.ID, Quantity: 1}},
		ReturnDays: 7,
	})
	require.NoError(t, err)

	o, err := env.orderRepo.FindByID(ctx, resp.OrderID)
	require.NoError(t, err)
	assert.True(t, o.ReturnDate.Equal(o.OrderDate.AddDate(0, 0, 7)))
	assert.Equal(t, o.ReturnDate.Format("2006-01-02"), resp.ExpectedReturnDate)
}

func TestCreateOrder_InsufficientStockRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b1 := env.seedBook(t, "9787506365437", "活着", 5)
	b2 := env.seedBook(t, "9787506365444", "兄弟", 0)
	cust := env.seedCustomer(t, "C0001", "李四")

	_, err := env.create.Execute(ctx, CreateOrderRequest{
		CustomerID: cust.ID,
		Items: []CreateOrderItem{
			{BookID: b1.ID, Quantity: 1},
			{BookID: b2.ID, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, book.ErrInsufficientStock)

	// 整个事务回滚:第一本书的扣减也被撤销,借阅单未落库
	got1, err := env.bookRepo.FindByID(ctx, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got1.Quantity)

	var orderCount int64
	env.db.Table("orders").Count(&orderCount)
	assert.Zero(t, orderCount)
}

func TestCreateOrder_UnknownCustomer(t *testing.T) {
	env := newTestEnv(t)

	b := env.seedBook(t, "9787506365437", "活着", 1)

	_, err := env.create.Execute(context.Background(), CreateOrderRequest{
		CustomerID: 999,
		Items:      []CreateOrderItem{{BookID: b.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, customer.ErrCustomerNotFound)
}

func TestCreateOrder_AccruesLoan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b := env.seedBook(t, "9787506365437", "活着", 1)
	cust := env.seedCustomer(t, "C0001", "李四")

	loanRepo := mysql.NewLoanRepository(env.db)

	resp, err := env.create.Execute(ctx, CreateOrderRequest{
		CustomerID: cust.ID,
		Items:      []CreateOrderItem{{BookID: b.ID, Quantity: 1}},
		LoanAmount: 2000,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Warning)

	ln, err := loanRepo.FindByCustomerID(ctx, cust.ID)
	require.NoError(t, err)
	require.NotNil(t, ln)
	assert.Equal(t, int64(2000), ln.Amount)
}

// 仓储包装过的锁等待超时错误必须触发重试,耗尽后返回最后一次的错误
func TestCreateOrder_RetriesLockContention(t *testing.T) {
	env := newTestEnv(t)

	attempts := 0
	err := env.create.executeWithRetry(context.Background(), func(ctx context.Context) error {
		attempts++
		return apperrors.Wrap(
			errors.New("Error 1205: Lock wait timeout exceeded; try restarting transaction"),
			"创建借阅单失败")
	})

	require.Error(t, err)
	assert.Equal(t, maxCreateAttempts, attempts)
	assert.True(t, apperrors.IsTransient(err))
}

// 业务错误立即失败,不消耗重试预算
func TestCreateOrder_NoRetryOnBusinessError(t *testing.T) {
	env := newTestEnv(t)

	attempts := 0
	err := env.create.executeWithRetry(context.Background(), func(ctx context.Context) error {
		attempts++
		return book.ErrInsufficientStock
	})

	require.ErrorIs(t, err, book.ErrInsufficientStock)
	assert.Equal(t, 1, attempts)
}

func TestCompleteOrder_PartialThenFull(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b1 := env.seedBook(t, "9787506365437", "活着", 1)
	b2 := env.seedBook(t, "9787506365444", "兄弟", 1)
	cust := env.seedCustomer(t, "C0001", "李四")

	created, err := env.create.Execute(ctx, CreateOrderRequest{
		CustomerID: cust.ID,
		Items: []CreateOrderItem{
			{BookID: b1.ID, Quantity: 1},
			{BookID: b2.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	paymentRepo := mysql.NewPaymentRepository(env.db)

	// 先还第一本
	resp, err := env.complete.Execute(ctx, CompleteOrderRequest{
		OrderID:         created.OrderID,
		SelectedBookIDs: []uint{b1.ID},
		CurrentPayment:  5000,
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{b1.ID}, resp.ReturnedBookIDs)
	assert.Equal(t, 1, resp.RemainingPending)
	assert.False(t, resp.FullyCompleted)
	assert.Equal(t, int64(5000), resp.AmountAccrued)

	got1, _ := env.bookRepo.FindByID(ctx, b1.ID)
	assert.Equal(t, 1, got1.Quantity)

	o, _ := env.orderRepo.FindByID(ctx, created.OrderID)
	assert.Equal(t, domorder.StatusPending, o.Status)
	// 部分归还不改应还日期
	assert.True(t, o.ReturnDate.Equal(o.OrderDate.AddDate(0, 0, 14)))

	// 再还第二本,借阅单完结
	resp, err = env.complete.Execute(ctx, CompleteOrderRequest{
		OrderID:         created.OrderID,
		SelectedBookIDs: []uint{b2.ID},
		CurrentPayment:  5000,
	})
	require.NoError(t, err)
	assert.True(t, resp.FullyCompleted)
	assert.Zero(t, resp.RemainingPending)

	o, _ = env.orderRepo.FindByID(ctx, created.OrderID)
	assert.Equal(t, domorder.StatusCompleted, o.Status)
	// 完结时应还日期被实际归还日期覆盖
	assert.True(t, o.ReturnDate.Equal(domorder.NoonDate(time.Now())))

	// 两次收费累加到同一条付款记录
	p, err := paymentRepo.FindByOrderID(ctx, created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), p.Amount)
}

func TestCompleteOrder_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b := env.seedBook(t, "9787506365437", "活着", 1)
	cust := env.seedCustomer(t, "C0001", "李四")

	created, err := env.create.Execute(ctx, CreateOrderRequest{
		CustomerID: cust.ID,
		Items:      []CreateOrderItem{{BookID: b.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = env.complete.Execute(ctx, CompleteOrderRequest{
		OrderID:         created.OrderID,
		SelectedBookIDs: []uint{b.ID},
		CurrentPayment:  5000,
	})
	require.NoError(t, err)

	// 重复提交同一本:不翻转、不回补、不收费
	resp, err := env.complete.Execute(ctx, CompleteOrderRequest{
		OrderID:         created.OrderID,
		SelectedBookIDs: []uint{b.ID},
		CurrentPayment:  5000,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.ReturnedBookIDs)
	assert.Zero(t, resp.AmountAccrued)

	got, _ := env.bookRepo.FindByID(ctx, b.ID)
	assert.Equal(t, 1, got.Quantity)

	paymentRepo := mysql.NewPaymentRepository(env.db)
	p, err := paymentRepo.FindByOrderID(ctx, created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), p.Amount)
}

// 金额为0的归还也要建付款档案(带客户姓名/借出日期快照)
func TestCompleteOrder_ZeroPaymentCreatesRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b := env.seedBook(t, "9787506365437", "活着", 1)
	cust := env.seedCustomer(t, "C0001", "李四")

	created, err := env.create.Execute(ctx, CreateOrderRequest{
		CustomerID: cust.ID,
		Items:      []CreateOrderItem{{BookID: b.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	resp, err := env.complete.Execute(ctx, CompleteOrderRequest{
		OrderID:         created.OrderID,
		SelectedBookIDs: []uint{b.ID},
		CurrentPayment:  0,
	})
	require.NoError(t, err)
	assert.Zero(t, resp.AmountAccrued)

	paymentRepo := mysql.NewPaymentRepository(env.db)
	p, err := paymentRepo.FindByOrderID(ctx, created.OrderID)
	require.NoError(t, err)
	assert.Zero(t, p.Amount)
	assert.Equal(t, "李四", p.CustomerName)
}

func TestCompleteOrder_NoSelection(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.complete.Execute(context.Background(), CompleteOrderRequest{OrderID: 1})
	require.ErrorIs(t, err, domorder.ErrNoSelection)
}

func TestGetOrder_QuotesFee(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b := env.seedBook(t, "9787506365437", "活着", 1)
	cust := env.seedCustomer(t, "C0001", "李四")

	created, err := env.create.Execute(ctx, CreateOrderRequest{
		CustomerID: cust.ID,
		Items:      []CreateOrderItem{{BookID: b.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// 固定"当前时刻"在借出后第20天:落在第一个续周档
	getUC := NewGetOrderUseCase(env.orderRepo, domorder.DefaultTariff()).
		WithClock(func() time.Time { return time.Now().AddDate(0, 0, 20) })

	got, err := getUC.Execute(ctx, created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PendingCount)
	assert.Equal(t, int64(8000), got.FeePerBook)
	assert.Equal(t, int64(8000), got.TotalPayment)
}
