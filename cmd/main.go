package main

import (
	"agrimarket-backend/config"
	"agrimarket-backend/internal/api/comment"
	"agrimarket-backend/internal/api/content"
	"agrimarket-backend/internal/api/expert"
	"agrimarket-backend/internal/api/loan"
	"agrimarket-backend/internal/api/order"
	"agrimarket-backend/internal/api/product"
	"agrimarket-backend/internal/api/user"
	"agrimarket-backend/internal/middleware"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/payment"
	"agrimarket-backend/internal/repository/mysql"
	"agrimarket-backend/internal/service"
	"agrimarket-backend/internal/storage"
	"agrimarket-backend/internal/util"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 测试数据库连接
	if err = db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(config.AppConfig.DBMaxOpenConns)
	db.SetMaxIdleConns(config.AppConfig.DBMaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	util.Logger.Info("数据库连接池配置完成")

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("future_date", util.ValidateFutureDate)
		v.RegisterValidation("clock_time", util.ValidateClockTime)
	}

	// 确保上传文件夹存在
	ensureUploadsFolder()

	// 初始化文件存储，配置了S3时优先使用S3
	var fileStorage storage.Storage
	if config.AppConfig.S3Bucket != "" {
		s3Client, err := storage.NewS3Client(config.AppConfig.S3Region, config.AppConfig.S3Bucket)
		if err != nil {
			util.Logger.Fatal("初始化S3存储失败", zap.Error(err))
		}
		fileStorage = s3Client
		util.Logger.Info("使用S3文件存储", zap.String("bucket", config.AppConfig.S3Bucket))
	} else {
		localStorage, err := storage.NewLocalStorage(config.AppConfig.LocalStoragePath)
		if err != nil {
			util.Logger.Fatal("初始化本地存储失败", zap.Error(err))
		}
		fileStorage = localStorage
	}

	// 初始化支付宝客户端
	payClient, err := payment.NewAlipayClient()
	if err != nil {
		util.Logger.Fatal("初始化支付宝客户端失败", zap.Error(err))
	}

	// 初始化存储库、服务和处理器
	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	loanRepo := mysql.NewLoanRepository(db)
	expertRepo := mysql.NewExpertRepository(db)
	commentRepo := mysql.NewCommentRepository(db)
	contentRepo := mysql.NewContentRepository(db)

	userService := service.NewUserService(userRepo, fileStorage)
	productService := service.NewProductService(productRepo, fileStorage)
	orderService, err := service.NewOrderService(orderRepo, productRepo, userRepo, payClient, db)
	if err != nil {
		util.Logger.Fatal("初始化订单服务失败", zap.Error(err))
	}
	loanService := service.NewLoanService(loanRepo, userRepo, db, fileStorage)
	expertService := service.NewExpertService(expertRepo, userRepo)
	commentService := service.NewCommentService(commentRepo, productRepo)
	contentService := service.NewContentService(contentRepo)

	authHandler := user.NewAuthHandler(userService)
	profileHandler := user.NewProfileHandler(userService)
	addressHandler := user.NewAddressHandler(userService)
	productHandler := product.NewProductHandler(productService, orderService)
	cartHandler := product.NewCartHandler(productService)
	orderHandler := order.NewOrderHandler(orderService)
	payHandler := order.NewPayHandler(orderService, payClient)
	loanHandler := loan.NewLoanHandler(loanService)
	fpHandler := loan.NewFinancialProductHandler(loanService)
	expertHandler := expert.NewExpertHandler(expertService)
	commentHandler := comment.NewCommentHandler(commentService, userService)
	contentHandler := content.NewContentHandler(contentService, userService)

	// 启动定时任务核查逾期贷款
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			util.Logger.Info("开始扫描逾期贷款")
			loanService.ScanOverdue()
		}
	}()

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	// 设置 Gin 路由
	r := gin.Default()

	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Access-Control-Allow-Origin",
	}
	r.Use(cors.New(corsConfig))

	// 静态文件的CORS处理
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			c.Header("Access-Control-Allow-Origin", config.AppConfig.FrontendURL)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(200)
				return
			}
		}
		c.Next()
	})

	// 配置静态文件服务
	r.Static("/uploads", config.AppConfig.LocalStoragePath)

	auth := middleware.AuthMiddleware()
	farmerOnly := middleware.RequireRole(userService, model.RoleFarmer)
	bankOnly := middleware.RequireRole(userService, model.RoleBank)
	expertOnly := middleware.RequireRole(userService, model.RoleExpert)
	adminOnly := middleware.RequireRole(userService, model.RoleAdmin)

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 用户相关路由
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.GET("/users/:id", profileHandler.GetUser)

		authorized := api.Group("/")
		authorized.Use(auth)
		{
			authorized.GET("/profile", profileHandler.GetProfile)
			authorized.PUT("/profile", profileHandler.UpdateProfile)
			authorized.POST("/profile/avatar", profileHandler.UploadAvatar)
			authorized.PUT("/profile/password", profileHandler.ChangePassword)

			// 收货地址
			authorized.POST("/addresses", addressHandler.CreateAddress)
			authorized.PUT("/addresses/:id", addressHandler.UpdateAddress)
			authorized.DELETE("/addresses/:id", addressHandler.DeleteAddress)
			authorized.GET("/addresses", addressHandler.ListAddresses)
		}

		// 商品相关路由
		api.GET("/products", productHandler.ListProducts)
		api.GET("/products/:id", productHandler.GetProduct)
		api.POST("/products", auth, farmerOnly, productHandler.Publish)
		api.POST("/products/image", auth, farmerOnly, productHandler.UploadImage)
		api.GET("/products/mine", auth, farmerOnly, productHandler.ListMine)
		api.PUT("/products/:id", auth, farmerOnly, productHandler.Update)
		api.POST("/products/:id/delist", auth, farmerOnly, productHandler.Delist)
		api.POST("/products/:id/relist", auth, farmerOnly, productHandler.Relist)
		api.GET("/products/:id/orders", auth, farmerOnly, orderHandler.ListProductOrders)

		// 购物车相关路由
		api.POST("/cart", auth, cartHandler.Add)
		api.GET("/cart", auth, cartHandler.List)
		api.PUT("/cart/:id", auth, cartHandler.UpdateAmount)
		api.DELETE("/cart/:id", auth, cartHandler.Remove)

		// 订单相关路由
		api.POST("/purchases", auth, orderHandler.Purchase)
		api.POST("/purchases/from-cart", auth, orderHandler.BuyFromCart)
		api.GET("/purchases/:id", auth, orderHandler.GetOrder)
		api.GET("/purchases", auth, orderHandler.ListMine)
		api.GET("/sales", auth, farmerOnly, orderHandler.ListSales)
		api.POST("/purchases/:id/ship", auth, farmerOnly, orderHandler.Ship)
		api.POST("/purchases/:id/receive", auth, orderHandler.Receive)
		api.POST("/purchases/:id/cancel", auth, orderHandler.Cancel)
		api.POST("/purchases/:id/return", auth, orderHandler.Return)

		// 支付相关路由
		api.GET("/purchases/:id/pay", auth, payHandler.CreatePayURL)
		api.POST("/pay/notify", payHandler.Notify)
		api.GET("/pay/return", payHandler.Return)

		// 贷款相关路由
		api.GET("/financial-products", fpHandler.List)
		api.GET("/financial-products/:id", fpHandler.Get)
		api.POST("/financial-products", auth, bankOnly, fpHandler.Create)
		api.PUT("/financial-products/:id", auth, bankOnly, fpHandler.Update)
		api.DELETE("/financial-products/:id", auth, bankOnly, fpHandler.Delete)

		api.POST("/loans", auth, farmerOnly, loanHandler.Apply)
		api.POST("/loans/documents", auth, farmerOnly, loanHandler.UploadDocument)
		api.GET("/loans", auth, loanHandler.ListMine)
		api.GET("/loans/pending", auth, bankOnly, loanHandler.ListPending)
		api.GET("/loans/all", auth, bankOnly, loanHandler.ListAll)
		api.GET("/loans/statuses", loanHandler.ListStatuses)
		api.POST("/loans/statuses", auth, adminOnly, loanHandler.CreateStatus)
		api.PUT("/loans/statuses/:id", auth, adminOnly, loanHandler.UpdateStatus)
		api.DELETE("/loans/statuses/:id", auth, adminOnly, loanHandler.DeleteStatus)
		api.GET("/loans/:id", auth, loanHandler.GetApplication)
		api.POST("/loans/:id/approve", auth, bankOnly, loanHandler.Approve)
		api.POST("/loans/:id/repay", auth, loanHandler.Repay)
		api.GET("/loans/:id/approvals", auth, bankOnly, loanHandler.ListApprovals)

		// 专家预约相关路由
		api.GET("/experts", expertHandler.ListExperts)
		api.POST("/appointments", auth, expertHandler.Book)
		api.GET("/appointments", auth, expertHandler.MyAppointments)
		api.GET("/appointments/schedule", auth, expertOnly, expertHandler.MySchedule)
		api.GET("/appointments/:id", auth, expertHandler.GetAppointment)
		api.PUT("/appointments/:id/status", auth, expertHandler.UpdateStatus)
		api.POST("/appointments/:id/review", auth, expertHandler.Review)

		// 评论相关路由
		api.GET("/products/:id/comments", commentHandler.ListByProduct)
		api.POST("/comments", auth, commentHandler.Post)
		api.POST("/comments/:id/like", auth, commentHandler.Like)
		api.DELETE("/comments/:id", auth, commentHandler.Delete)

		// 资讯与知识相关路由
		api.GET("/news", contentHandler.ListNews)
		api.GET("/news/:id", contentHandler.GetNews)
		api.POST("/news", auth, adminOnly, contentHandler.CreateNews)
		api.PUT("/news/:id", auth, adminOnly, contentHandler.UpdateNews)
		api.DELETE("/news/:id", auth, adminOnly, contentHandler.DeleteNews)

		api.GET("/knowledge", contentHandler.ListKnowledge)
		api.GET("/knowledge/:id", contentHandler.GetKnowledge)
		api.POST("/knowledge", auth, middleware.RequireRole(userService, model.RoleExpert, model.RoleAdmin), contentHandler.CreateKnowledge)
		api.PUT("/knowledge/:id", auth, middleware.RequireRole(userService, model.RoleExpert, model.RoleAdmin), contentHandler.UpdateKnowledge)
		api.DELETE("/knowledge/:id", auth, adminOnly, contentHandler.DeleteKnowledge)

		// 求购信息相关路由
		api.GET("/buy-requests", contentHandler.ListBuyRequests)
		api.GET("/buy-requests/:id", contentHandler.GetBuyRequest)
		api.POST("/buy-requests", auth, contentHandler.CreateBuyRequest)
		api.DELETE("/buy-requests/:id", auth, contentHandler.DeleteBuyRequest)

		// 用户管理路由
		api.GET("/admin/users", auth, adminOnly, profileHandler.ListUsers)
		api.DELETE("/admin/users/:id", auth, adminOnly, profileHandler.DeleteUser)
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// 确保上传文件夹存在
func ensureUploadsFolder() {
	uploadsPath := config.AppConfig.LocalStoragePath
	if err := os.MkdirAll(uploadsPath, 0755); err != nil {
		util.Logger.Fatal("创建上传文件夹失败", zap.Error(err), zap.String("path", uploadsPath))
	}
	util.Logger.Info("上传文件夹已创建或已存在", zap.String("path", uploadsPath))
}
