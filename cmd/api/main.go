package main

import (
	"time"

	"portal/internal/config"
	"portal/internal/credential"
	"portal/internal/domain/model"
	"portal/internal/handler"
	"portal/internal/infra/bank"
	"portal/internal/infra/db"
	"portal/internal/infra/ratelimit"
	infraRepo "portal/internal/infra/repository"
	"portal/internal/middleware"
	"portal/internal/server"
	"portal/internal/token"
	"portal/internal/usecase"
	"portal/internal/validator"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// auth系ルートのレートリミット（IPごと5回/15分）
const (
	authRateLimit  = 5
	authRateWindow = 15 * time.Minute
)

func main() {
	//.envはあれば読む（本番は環境変数だけで動く）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.Account{},
		&model.BillingTransaction{},
		&model.BillingPackage{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	accountRepo := infraRepo.NewAccountGormRepository(gormDB)
	txRepo := infraRepo.NewTransactionGormRepository(gormDB)
	pkgRepo := infraRepo.NewPackageGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//パスワードハッシュ。レガシー互換モードのときだけMD5。
	var creds credential.Store
	if cfg.LegacyPasswordHash {
		creds = credential.NewLegacyMD5Store()
	} else {
		creds = credential.NewBcryptStore(12)
	}

	//JWT
	tokens := token.NewService(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	//銀行明細クライアント
	bankClient := bank.NewHTTPClient(cfg.BankAPIURL, cfg.BankAPITimeout)

	//レートリミット。REDIS_ADDRがあればRedis、なければインメモリ。
	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = ratelimit.NewRedisLimiter(rdb, "auth", authRateLimit, authRateWindow)
	} else {
		limiter = ratelimit.NewMemoryLimiter(authRateLimit, authRateWindow)
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(accountRepo, creds, tokens, validator.NewAuthValidator())
	paymentUC := usecase.NewPaymentUsecase(accountRepo, txRepo, pkgRepo, bankClient, txManager, usecase.BankAccount{
		BankID:      cfg.BankID,
		AccountNo:   cfg.BankAccountNo,
		AccountName: cfg.BankAccountName,
		MemoPrefix:  cfg.MemoPrefix,
	})
	billingUC := usecase.NewBillingUsecase(pkgRepo)

	//Handler生成
	authH := handler.NewAuthHandler(authUC, tokens, cfg)
	paymentH := handler.NewPaymentHandler(paymentUC)
	billingH := handler.NewBillingHandler(billingUC)

	//Server起動
	e := server.New(cfg, tokens, authH, paymentH, billingH, middleware.RateLimit(limiter))
	if err := server.Start(e, ":"+cfg.Port); err != nil {
		panic(err)
	}
}
