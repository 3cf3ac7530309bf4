package repository

import (
	"context"
	"errors"

	"portal/internal/domain/model"
)

// アカウントが見つかりませんを統一
var ErrAccountNotFound = errors.New("account not found")

// 重複（unique index違反）を統一。infra層がDBエラーから変換する。
var ErrDuplicate = errors.New("duplicate key")

// accountテーブルの保存・取得を約束
type AccountRepository interface {
	// 新規アカウント作成。name重複はErrDuplicateを返す。
	Create(ctx context.Context, acc *model.Account) error
	// IDから1件取得
	FindByID(ctx context.Context, id int64) (*model.Account, error)
	// nameから1件取得
	FindByName(ctx context.Context, name string) (*model.Account, error)
	// login成功時の更新（last_ip_login / date_modified / token_version）を1文で行う
	StampLogin(ctx context.Context, id int64, ip string, tokenVersion int64) error
	// token_versionの置き換え（logoutなど）。1文のUPDATE。
	ReplaceTokenVersion(ctx context.Context, id int64, tokenVersion int64) error
	// パスワードハッシュの更新とtoken_versionの置き換えを同時に行う
	UpdatePassword(ctx context.Context, id int64, passwordHash string, tokenVersion int64) error
	// シルバー付与。point = point + deltaの1文。
	AddPoint(ctx context.Context, id int64, delta int64) error
}
