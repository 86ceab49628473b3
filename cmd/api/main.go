package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"stockadmin/internal/config"
	"stockadmin/internal/domain/model"
	"stockadmin/internal/handler"
	"stockadmin/internal/infra/db"
	infraRepo "stockadmin/internal/infra/repository"
	"stockadmin/internal/server"
	"stockadmin/internal/usecase"
)

func main() {
	//.envは無ければ環境変数だけで動かす
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryLog{},
	); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	logRepo := infraRepo.NewInventoryLogGormRepository(gormDB)

	//在庫の変更経路と監査記録
	ledger := usecase.NewStockLedger()
	recorder := usecase.NewInventoryRecorder()

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, txManager, ledger, recorder, cfg.LowStockThreshold)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, ledger, recorder, cfg.LowStockThreshold, logger)
	inventoryUC := usecase.NewInventoryUsecase(txManager, logRepo, ledger, recorder, logger)

	//Handler生成
	e := server.New(logger, server.Handlers{
		Products:   handler.NewProductHandler(productUC),
		Categories: handler.NewCategoryHandler(categoryUC),
		Orders:     handler.NewOrderHandler(orderUC),
		Inventory:  handler.NewInventoryHandler(inventoryUC),
	})

	//Server起動
	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
