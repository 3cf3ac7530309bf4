package config

import (
	"fmt"
	"os"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret        string // accesstoken署名シークレット
	JWTRefreshSecret string // refreshtoken署名シークレット

	AccessTokenTTL  time.Duration // accesstokenの有効期限（15分）
	RefreshTokenTTL time.Duration // refreshtokenの有効期限（7日）

	// 銀行明細API（突合用、読み取りのみ）
	BankAPIURL     string
	BankAPITimeout time.Duration

	// VietQRのURL組み立てに使う
	BankID          string // 970422 = MB Bank
	BankAccountNo   string
	BankAccountName string
	MemoPrefix      string // 振込メモの接頭辞（"TLTH"）

	// レガシー互換のMD5ハッシュを使うか（外部ゲームサーバーとaccountテーブルを共有する場合のみtrue）
	LegacyPasswordHash bool

	RedisAddr string // 空ならレートリミットはインメモリ

	GoEnv string // dev/prod
	FEURL string // フロントURL（CORSとcookieで使う）
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),

		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,

		BankAPIURL:     os.Getenv("BANK_API_URL"),
		BankAPITimeout: 10 * time.Second,

		BankID:          getenv("BANK_ID", "970422"),
		BankAccountNo:   os.Getenv("BANK_ACCOUNT_NO"),
		BankAccountName: os.Getenv("BANK_ACCOUNT_NAME"),
		MemoPrefix:      getenv("MEMO_PREFIX", "TLTH"),

		LegacyPasswordHash: os.Getenv("LEGACY_PASSWORD_HASH") == "1",

		RedisAddr: os.Getenv("REDIS_ADDR"),

		GoEnv: getenv("GO_ENV", "dev"),
		FEURL: getenv("FE_URL", "http://localhost:3000"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.JWTRefreshSecret == "" {
		return Config{}, fmt.Errorf("JWT_REFRESH_SECRET is required")
	}
	if cfg.BankAPIURL == "" {
		return Config{}, fmt.Errorf("BANK_API_URL is required")
	}
	if cfg.BankAccountNo == "" {
		return Config{}, fmt.Errorf("BANK_ACCOUNT_NO is required")
	}
	if cfg.BankAccountName == "" {
		return Config{}, fmt.Errorf("BANK_ACCOUNT_NAME is required")
	}

	return cfg, nil
}

// IsProduction はsecure cookieの判定などに使う
func (c Config) IsProduction() bool {
	return c.GoEnv == "prod" || c.GoEnv == "production"
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
