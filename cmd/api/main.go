package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	appauth "github.com/thilan/bookshop/internal/application/auth"
	appauthor "github.com/thilan/bookshop/internal/application/author"
	appbook "github.com/thilan/bookshop/internal/application/book"
	appcustomer "github.com/thilan/bookshop/internal/application/customer"
	apporder "github.com/thilan/bookshop/internal/application/order"
	appreport "github.com/thilan/bookshop/internal/application/report"
	"github.com/thilan/bookshop/internal/domain/book"
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

// main 主程序入口
// 手动依赖注入：Repository ← Service ← UseCase ← Handler
// （cmd/api/wire.go提供Wire版本，两者保持一致）
func main() {
	// 1. 配置与日志
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("database", fmt.Sprintf("%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()))

	// 2. 存储层
	queryMonitor := metrics.NewQueryMonitor(1000)

	db, err := mysql.NewDB(cfg, queryMonitor)
	if err != nil {
		zapLogger.Fatal("初始化数据库失败", zap.Error(err))
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		zapLogger.Fatal("初始化Redis失败", zap.Error(err))
	}

	sessionStore := redis.NewSessionStore(redisClient)
	cacheStore := redis.NewCacheStore(redisClient, cfg.Cache)

	// 3. 事件发布(未启用MQ时降级为空实现)
	var publisher mq.EventPublisher
	if cfg.MQ.Enabled {
		p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			zapLogger.Fatal("连接RabbitMQ失败", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	} else {
		publisher = mq.NewNoopPublisher()
	}

	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 4. 仓储层
	txManager := mysql.NewTxManager(db, cfg.Database.TxTimeout)
	staffRepo := mysql.NewStaffRepository(db)
	authorRepo := mysql.NewAuthorRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	customerRepo := mysql.NewCustomerRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	paymentRepo := mysql.NewPaymentRepository(db)
	loanRepo := mysql.NewLoanRepository(db)

	// 5. 领域层
	staffService := staff.NewService(staffRepo)
	bookService := book.NewService(bookRepo)

	tariff := order.Tariff{
		BaseFee:   cfg.Rental.BaseFee,
		WeeklyFee: cfg.Rental.WeeklyFee,
		BaseDays:  cfg.Rental.BaseDays,
		WeekDays:  cfg.Rental.WeekDays,
	}

	// 6. 应用层
	loginUseCase := appauth.NewLoginUseCase(staffService, jwtManager, sessionStore)
	logoutUseCase := appauth.NewLogoutUseCase(sessionStore)
	registerUseCase := appauth.NewRegisterUseCase(staffService)

	manageAuthorsUseCase := appauthor.NewManageAuthorsUseCase(authorRepo, bookRepo)
	manageBooksUseCase := appbook.NewManageBooksUseCase(bookService, bookRepo, authorRepo, orderRepo, cacheStore)
	listBooksUseCase := appbook.NewListBooksUseCase(bookService, cacheStore)

	manageCustomersUseCase := appcustomer.NewManageCustomersUseCase(customerRepo)
	customerHistoryUseCase := appcustomer.NewCustomerHistoryUseCase(customerRepo, orderRepo, paymentRepo, loanRepo)
	deleteCustomerUseCase := appcustomer.NewDeleteCustomerUseCase(customerRepo, orderRepo, paymentRepo, loanRepo, txManager)

	createOrderUseCase := apporder.NewCreateOrderUseCase(
		orderRepo, bookRepo, customerRepo, loanRepo, txManager, cacheStore, publisher,
	).WithDefaultReturnDays(cfg.Rental.ReturnDays)
	completeOrderUseCase := apporder.NewCompleteOrderUseCase(
		orderRepo, bookRepo, paymentRepo, txManager, cacheStore, publisher,
	)
	getOrderUseCase := apporder.NewGetOrderUseCase(orderRepo, tariff)
	listOrdersUseCase := apporder.NewListOrdersUseCase(orderRepo)

	financeUseCase := appreport.NewFinanceUseCase(paymentRepo)
	exportUseCase := appreport.NewExportReportUseCase(orderRepo, customerRepo, bookRepo, paymentRepo)

	// 7. 接口层
	authHandler := handler.NewAuthHandler(loginUseCase, logoutUseCase, registerUseCase)
	authorHandler := handler.NewAuthorHandler(manageAuthorsUseCase)
	bookHandler := handler.NewBookHandler(manageBooksUseCase, listBooksUseCase)
	customerHandler := handler.NewCustomerHandler(manageCustomersUseCase, customerHistoryUseCase, deleteCustomerUseCase)
	orderHandler := handler.NewOrderHandler(createOrderUseCase, completeOrderUseCase, getOrderUseCase, listOrdersUseCase)
	reportHandler := handler.NewReportHandler(financeUseCase, exportUseCase)
	systemHandler := handler.NewSystemHandler(db, bookRepo, authorRepo, customerRepo, queryMonitor, cacheStore)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 8. Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(zapLogger))
	r.Use(middleware.RequestLogger(zapLogger))
	r.Use(middleware.Metrics())

	registerRoutes(r, authHandler, authorHandler, bookHandler, customerHandler, orderHandler, reportHandler, systemHandler, authMiddleware)

	// 9. 启动与优雅退出
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("启动服务失败", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("收到退出信号，开始优雅关闭")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("关闭服务失败", zap.Error(err))
	}
	zapLogger.Info("服务已退出")
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	authHandler *handler.AuthHandler,
	authorHandler *handler.AuthorHandler,
	bookHandler *handler.BookHandler,
	customerHandler *handler.CustomerHandler,
	orderHandler *handler.OrderHandler,
	reportHandler *handler.ReportHandler,
	systemHandler *handler.SystemHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查与监控(不需要登录)
	r.GET("/health", systemHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 认证模块
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authMiddleware.RequireAuth(), authHandler.Logout)
			auth.POST("/register", authMiddleware.RequireAuth(), authHandler.Register)
		}

		// 业务模块(全部需要登录)
		authorized := v1.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			authors := authorized.Group("/authors")
			{
				authors.POST("", authorHandler.Create)
				authors.GET("", authorHandler.List)
				authors.GET("/:id", authorHandler.Get)
				authors.PUT("/:id", authorHandler.Update)
				authors.DELETE("/:id", authorHandler.Delete)
			}

			books := authorized.Group("/books")
			{
				books.POST("", bookHandler.Create)
				books.GET("", bookHandler.List)
				books.GET("/:id", bookHandler.Get)
				books.PUT("/:id", bookHandler.Update)
				books.DELETE("/:id", bookHandler.Delete)
			}

			customers := authorized.Group("/customers")
			{
				customers.POST("", customerHandler.Register)
				customers.GET("", customerHandler.List)
				customers.GET("/:id", customerHandler.Get)
				customers.GET("/:id/history", customerHandler.History)
				customers.PUT("/:id", customerHandler.Update)
				customers.DELETE("/:id", customerHandler.Delete)
			}

			orders := authorized.Group("/orders")
			{
				orders.POST("", orderHandler.Create)
				orders.GET("", orderHandler.List)
				orders.GET("/:id", orderHandler.Get)
				orders.POST("/:id/complete", orderHandler.Complete)
			}

			reports := authorized.Group("/reports")
			{
				reports.GET("/finance/daily", reportHandler.FinanceDaily)
				reports.GET("/finance/monthly", reportHandler.FinanceMonthly)
				reports.GET("/export", reportHandler.Export)
			}

			authorized.GET("/performance", systemHandler.Performance)
			authorized.POST("/performance/clear", systemHandler.ClearPerformance)
		}
	}
}
