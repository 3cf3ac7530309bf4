package repository

import (
	"context"
	"errors"
	"time"

	"portal/internal/domain/model"
	domainrepo "portal/internal/repository"

	"gorm.io/gorm"
)

type accountGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewAccountGormRepository(db *gorm.DB) domainrepo.AccountRepository {
	return &accountGormRepository{db: db}
}

// Create はアカウントを新規作成。name重複はErrDuplicate。
func (r *accountGormRepository) Create(ctx context.Context, acc *model.Account) error {
	if err := r.db.WithContext(ctx).Create(acc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainrepo.ErrDuplicate
		}
		return err
	}
	return nil
}

// IDでアカウントを1件取得
func (r *accountGormRepository) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	var acc model.Account
	err := r.db.WithContext(ctx).First(&acc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainrepo.ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// nameでアカウントを1件取得
func (r *accountGormRepository) FindByName(ctx context.Context, name string) (*model.Account, error) {
	var acc model.Account
	err := r.db.WithContext(ctx).First(&acc, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainrepo.ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// login成功時の更新。1文のUPDATEで済ませてlost updateを避ける。
func (r *accountGormRepository) StampLogin(ctx context.Context, id int64, ip string, tokenVersion int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_ip_login": ip,
			"token_version": tokenVersion,
			"date_modified": time.Now(),
		}).Error
}

// token_versionの置き換え
func (r *accountGormRepository) ReplaceTokenVersion(ctx context.Context, id int64, tokenVersion int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"token_version": tokenVersion,
			"date_modified": time.Now(),
		}).Error
}

// パスワード更新。ハッシュとtoken_versionを同じUPDATEで書く。
func (r *accountGormRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, tokenVersion int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password":      passwordHash,
			"token_version": tokenVersion,
			"date_modified": time.Now(),
		}).Error
}

// シルバー付与。point = point + delta
func (r *accountGormRepository) AddPoint(ctx context.Context, id int64, delta int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		UpdateColumn("point", gorm.Expr("point + ?", delta)).Error
}
