package customer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apporder "github.com/thilan/bookshop/internal/application/order"
	"github.com/thilan/bookshop/internal/domain/book"
	domcustomer "github.com/thilan/bookshop/internal/domain/customer"
	"github.com/thilan/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/thilan/bookshop/pkg/mq"
)

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

type deleteEnv struct {
	db       *gorm.DB
	delete   *DeleteCustomerUseCase
	create   *apporder.CreateOrderUseCase
	complete *apporder.CompleteOrderUseCase
}

func newDeleteEnv(t *testing.T) *deleteEnv {
	t.Helper()
	db := newTestDB(t)
	txManager := mysql.NewTxManager(db, 5*time.Second)

	customerRepo := mysql.NewCustomerRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	paymentRepo := mysql.NewPaymentRepository(db)
	loanRepo := mysql.NewLoanRepository(db)
	bookRepo := mysql.NewBookRepository(db)

	return &deleteEnv{
		db:     db,
		delete: NewDeleteCustomerUseCase(customerRepo, orderRepo, paymentRepo, loanRepo, txManager),
		create: apporder.NewCreateOrderUseCase(
			orderRepo, bookRepo, customerRepo, loanRepo, txManager, nil, mq.NewNoopPublisher(),
		),
		complete: apporder.NewCompleteOrderUseCase(
			orderRepo, bookRepo, paymentRepo, txManager, nil, mq.NewNoopPublisher(),
		),
	}
}

// seed 创建一个客户和一本书,返回两者ID
func (e *deleteEnv) seed(t *testing.T) (customerID, bookID uint) {
	t.Helper()
	ctx := context.Background()

	c := domcustomer.NewCustomer("C0001", "李四", "0770000000", "科伦坡")
	require.NoError(t, mysql.NewCustomerRepository(e.db).Create(ctx, c))

	b := book.NewBook("9787506365437", "活着", 1, "余华", 5)
	require.NoError(t, mysql.NewBookRepository(e.db).Create(ctx, b))

	return c.ID, b.ID
}

func TestDeleteCustomer_BlockedByPendingOrder(t *testing.T) {
	env := newDeleteEnv(t)
	ctx := context.Background()

	custID, bookID := env.seed(t)

	_, err := env.create.Execute(ctx, apporder.CreateOrderRequest{
		CustomerID: custID,
		Items:      []apporder.CreateOrderItem{{BookID: bookID, Quantity: 1}},
	})
	require.NoError(t, err)

	err = env.delete.Execute(ctx, custID)
	require.ErrorIs(t, err, domcustomer.ErrHasPendingOrders)

	// 客户未被删除
	_, err = mysql.NewCustomerRepository(env.db).FindByID(ctx, custID)
	require.NoError(t, err)
}

func TestDeleteCustomer_CascadesHistory(t *testing.T) {
	env := newDeleteEnv(t)
	ctx := context.Background()

	custID, bookID := env.seed(t)

	// 完整走一遍借出→归还,留下历史借阅单、付款记录和借款台账
	created, err := env.create.Execute(ctx, apporder.CreateOrderRequest{
		CustomerID: custID,
		Items:      []apporder.CreateOrderItem{{BookID: bookID, Quantity: 1}},
		LoanAmount: 2000,
	})
	require.NoError(t, err)

	_, err = env.complete.Execute(ctx, apporder.CompleteOrderRequest{
		OrderID:         created.OrderID,
		SelectedBookIDs: []uint{bookID},
		CurrentPayment:  5000,
	})
	require.NoError(t, err)

	require.NoError(t, env.delete.Execute(ctx, custID))

	_, err = mysql.NewCustomerRepository(env.db).FindByID(ctx, custID)
	require.ErrorIs(t, err, domcustomer.ErrCustomerNotFound)

	for _, table := range []string{"orders", "order_details", "payments", "loans"} {
		var count int64
		env.db.Table(table).Count(&count)
		assert.Zero(t, count, table)
	}
}

func TestDeleteCustomer_Unknown(t *testing.T) {
	env := newDeleteEnv(t)

	err := env.delete.Execute(context.Background(), 999)
	require.ErrorIs(t, err, domcustomer.ErrCustomerNotFound)
}
