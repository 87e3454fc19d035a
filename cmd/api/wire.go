//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 运行 `wire gen ./cmd/api` 生成wire_gen.go。
// 依赖链与main.go的手动注入保持一致。
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appauth "github.com/thilan/bookshop/internal/application/auth"
	appauthor "github.com/thilan/bookshop/internal/application/author"
	appbook "github.com/thilan/bookshop/internal/application/book"
	appcustomer "github.com/thilan/bookshop/internal/application/customer"
	apporder "github.com/thilan/bookshop/internal/application/order"
	appreport "github.com/thilan/bookshop/internal/application/report"
	"github.com/thilan/bookshop/internal/domain/book"
	"github.com/thilan/bookshop/internal/domain/customer"
	"github.com/thilan/bookshop/internal/domain/loan"
	"github.com/thilan/bookshop/internal/domain/order"
	"github.com/thilan/bookshop/internal/domain/staff"
	"github.com/thilan/bookshop/internal/infrastructure/config"
	"github.com/thilan/bookshop/internal/infrastructure/logger"
	"github.com/thilan/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/thilan/bookshop/internal/infrastructure/persistence/redis"
	"github.com/thilan/bookshop/internal/interface/http/handler"
	"github.com/thilan/bookshop/internal/interface/http/middleware"
	"github.com/thilan/bookshop/pkg/jwt"
	"github.com/thilan/bookshop/pkg/metrics"
	"github.com/thilan/bookshop/pkg/mq"
)

// infrastructureSet 基础设施层
var infrastructureSet = wire.NewSet(
	config.Load,
	provideLogger,
	provideQueryMonitor,
	mysql.NewDB,
	redis.NewClient,
	provideCacheStore,
	provideSessionStore,
	providePublisher,
	provideJWTManager,
)

// repositorySet 仓储层
var repositorySet = wire.NewSet(
	provideTxManager,
	mysql.NewStaffRepository,
	mysql.NewAuthorRepository,
	mysql.NewBookRepository,
	mysql.NewCustomerRepository,
	mysql.NewOrderRepository,
	mysql.NewPaymentRepository,
	mysql.NewLoanRepository,
)

// domainSet 领域层
var domainSet = wire.NewSet(
	staff.NewService,
	book.NewService,
	provideTariff,
)

// applicationSet 应用层
var applicationSet = wire.NewSet(
	appauth.NewLoginUseCase,
	appauth.NewLogoutUseCase,
	appauth.NewRegisterUseCase,
	appauthor.NewManageAuthorsUseCase,
	appbook.NewManageBooksUseCase,
	appbook.NewListBooksUseCase,
	appcustomer.NewManageCustomersUseCase,
	appcustomer.NewCustomerHistoryUseCase,
	appcustomer.NewDeleteCustomerUseCase,
	provideCreateOrderUseCase,
	apporder.NewCompleteOrderUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewListOrdersUseCase,
	appreport.NewFinanceUseCase,
	appreport.NewExportReportUseCase,
)

// interfaceSet 接口层
var interfaceSet = wire.NewSet(
	middleware.NewAuthMiddleware,
	handler.NewAuthHandler,
	handler.NewAuthorHandler,
	handler.NewBookHandler,
	handler.NewCustomerHandler,
	handler.NewOrderHandler,
	handler.NewReportHandler,
	handler.NewSystemHandler,
)

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.Log)
}

func provideQueryMonitor() *metrics.QueryMonitor {
	return metrics.NewQueryMonitor(1000)
}

func provideCacheStore(client *goredis.Client, cfg *config.Config) *redis.CacheStore {
	return redis.NewCacheStore(client, cfg.Cache)
}

func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// providePublisher 未启用MQ时降级为空实现
func providePublisher(cfg *config.Config) (mq.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return mq.NewNoopPublisher(), nil
	}
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

func provideTxManager(db *gorm.DB, cfg *config.Config) *mysql.TxManager {
	return mysql.NewTxManager(db, cfg.Database.TxTimeout)
}

func provideTariff(cfg *config.Config) order.Tariff {
	return order.Tariff{
		BaseFee:   cfg.Rental.BaseFee,
		WeeklyFee: cfg.Rental.WeeklyFee,
		BaseDays:  cfg.Rental.BaseDays,
		WeekDays:  cfg.Rental.WeekDays,
	}
}

func provideCreateOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	customerRepo customer.Repository,
	loanRepo loan.Repository,
	txManager *mysql.TxManager,
	cache *redis.CacheStore,
	publisher mq.EventPublisher,
	cfg *config.Config,
) *apporder.CreateOrderUseCase {
	return apporder.NewCreateOrderUseCase(
		orderRepo, bookRepo, customerRepo, loanRepo, txManager, cache, publisher,
	).WithDefaultReturnDays(cfg.Rental.ReturnDays)
}

// provideGinEngine 创建Gin引擎并注册路由
func provideGinEngine(
	cfg *config.Config,
	zapLogger *zap.Logger,
	authHandler *handler.AuthHandler,
	authorHandler *handler.AuthorHandler,
	bookHandler *handler.BookHandler,
	customerHandler *handler.CustomerHandler,
	orderHandler *handler.OrderHandler,
	reportHandler *handler.ReportHandler,
	systemHandler *handler.SystemHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(zapLogger))
	r.Use(middleware.RequestLogger(zapLogger))
	r.Use(middleware.Metrics())

	registerRoutes(r, authHandler, authorHandler, bookHandler, customerHandler, orderHandler, reportHandler, systemHandler, authMiddleware)

	return r
}

// InitializeApp 构造完整的应用依赖图
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		provideGinEngine,
	)
	return nil, nil
}
