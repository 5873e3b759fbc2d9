package main

import (
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/document"
	"app/internal/infra/notify"
	infraRepo "app/internal/infra/repository"
	"app/internal/infra/session"
	"app/internal/middleware"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.ProductWeightVariant{},
		&model.CartItem{},
		&model.DeliveryFee{},
		&model.Order{},
		&model.OrderStatusHistory{},
		&model.Invoice{},
	); err != nil {
		logger.Fatal("auto migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	variantRepo := infraRepo.NewVariantGormRepository(gormDB)
	cartRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	historyRepo := infraRepo.NewOrderStatusHistoryGormRepository(gormDB)
	feeRepo := infraRepo.NewDeliveryFeeGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//セッションストア。Redisが無ければインメモリで動かす
	var sessions usecase.SessionStore
	if cfg.RedisAddr != "" {
		sessions = session.NewRedisSessionStore(cfg.RedisAddr)
	} else {
		logger.Warn("REDIS_ADDR not set, using in-memory session store")
		sessions = session.NewMemorySessionStore()
	}

	//通知。Kafkaが無ければチャネル実装にフォールバック
	var notifier usecase.NotificationDispatcher
	if cfg.KafkaBrokers != "" {
		kd := notify.NewKafkaDispatcher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kd.Close()
		notifier = kd
	} else {
		logger.Warn("KAFKA_BROKERS not set, using in-process dispatcher")
		cd := notify.NewChannelDispatcher(128, logger)
		defer cd.Close()
		notifier = cd
	}

	//請求書ドキュメント
	renderer, err := document.NewHTMLRenderer()
	if err != nil {
		logger.Fatal("renderer init failed", zap.Error(err))
	}
	files, err := document.NewLocalFileStore(cfg.InvoiceDir)
	if err != nil {
		logger.Fatal("file store init failed", zap.Error(err))
	}

	//Usecase生成
	ownerResolver := usecase.NewOwnerResolver(middleware.ContextAuth{}, middleware.ContextSession{})

	cartUC := usecase.NewCartUsecase(ownerResolver, cartRepo, productRepo, variantRepo, feeRepo, sessions)
	checkoutUC := usecase.NewCheckoutUsecase(ownerResolver, txManager, sessions, logger)
	orderUC := usecase.NewOrderUsecase(ownerResolver, orderRepo, historyRepo)

	invoiceUC := usecase.NewInvoiceUsecase(txManager, renderer, files, cfg.VATRate, usecase.SellerInfo{
		Name:    cfg.SellerName,
		Address: cfg.SellerAddress,
		Phone:   cfg.SellerPhone,
		Email:   cfg.SellerEmail,
		TaxID:   cfg.SellerTaxID,
	}, logger)
	adminUC := usecase.NewAdminOrderUsecase(txManager, notifier, invoiceUC, logger)

	//Handler生成
	handlers := server.Handlers{
		Cart:     handler.NewCartHandler(cartUC),
		Checkout: handler.NewCheckoutHandler(checkoutUC),
		Order:    handler.NewOrderHandler(orderUC),
		Admin:    handler.NewAdminOrderHandler(adminUC, invoiceUC),
	}

	//Server起動
	if err := server.Start(cfg, handlers, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
