package repository

import (
	"context"
	"errors"
	"time"

	"portal/internal/domain/model"
)

// 取引が見つかりませんを統一
var ErrTransactionNotFound = errors.New("transaction not found")

// billing_transaction_accountsの保存・取得を約束
type TransactionRepository interface {
	// 新規取引作成。transaction_code重複はErrDuplicateを返す。
	Create(ctx context.Context, tx *model.BillingTransaction) error
	// code+user_idでpendingの取引を1件取得
	FindPendingByCode(ctx context.Context, code string, userID int64) (*model.BillingTransaction, error)
	// ユーザーの最新のpending取引を1件取得
	FindLatestPendingByUser(ctx context.Context, userID int64) (*model.BillingTransaction, error)
	// code+user_idで取得（status不問）
	FindByCode(ctx context.Context, code string, userID int64) (*model.BillingTransaction, error)
	// pending -> expired。条件付きUPDATE。
	MarkExpired(ctx context.Context, transactionID int64) error
	// pending -> completed。status='pending'を条件にした1文のUPDATEで、
	// 更新できた行数を返す（0なら他のリクエストが先に処理済み）。
	MarkCompleted(ctx context.Context, transactionID int64, bankRef string, verifiedAt time.Time) (int64, error)
	// code+user_idで削除
	DeleteByCode(ctx context.Context, code string, userID int64) error
}
