package repository

import (
	"context"
	"errors"
	"time"

	"portal/internal/domain/model"
	domainrepo "portal/internal/repository"

	"gorm.io/gorm"
)

type transactionGormRepository struct {
	db *gorm.DB
}

// DI
func NewTransactionGormRepository(db *gorm.DB) domainrepo.TransactionRepository {
	return &transactionGormRepository{db: db}
}

// Create は取引を新規作成。transaction_code重複はErrDuplicate。
func (r *transactionGormRepository) Create(ctx context.Context, tx *model.BillingTransaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainrepo.ErrDuplicate
		}
		return err
	}
	return nil
}

// code+user_idでpendingの取引を取得
func (r *transactionGormRepository) FindPendingByCode(ctx context.Context, code string, userID int64) (*model.BillingTransaction, error) {
	var tx model.BillingTransaction
	err := r.db.WithContext(ctx).
		Where("transaction_code = ? AND user_id = ? AND status = ?", code, userID, model.StatusPending).
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainrepo.ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// ユーザーの最新pending取引を取得（UIのカウントダウンに使う）
func (r *transactionGormRepository) FindLatestPendingByUser(ctx context.Context, userID int64) (*model.BillingTransaction, error) {
	var tx model.BillingTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.StatusPending).
		Order("created_at DESC").
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainrepo.ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// code+user_idで取得（status不問）
func (r *transactionGormRepository) FindByCode(ctx context.Context, code string, userID int64) (*model.BillingTransaction, error) {
	var tx model.BillingTransaction
	err := r.db.WithContext(ctx).
		Where("transaction_code = ? AND user_id = ?", code, userID).
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainrepo.ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// pending -> expired
func (r *transactionGormRepository) MarkExpired(ctx context.Context, transactionID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.BillingTransaction{}).
		Where("transaction_id = ? AND status = ?", transactionID, model.StatusPending).
		Update("status", model.StatusExpired).Error
}

// pending -> completed。statusを条件にしたCASで二重付与を防ぐ。
func (r *transactionGormRepository) MarkCompleted(ctx context.Context, transactionID int64, bankRef string, verifiedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.BillingTransaction{}).
		Where("transaction_id = ? AND status = ?", transactionID, model.StatusPending).
		Updates(map[string]interface{}{
			"status":              model.StatusCompleted,
			"bank_transaction_id": bankRef,
			"verified_at":         verifiedAt,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// code+user_idで削除
func (r *transactionGormRepository) DeleteByCode(ctx context.Context, code string, userID int64) error {
	return r.db.WithContext(ctx).
		Where("transaction_code = ? AND user_id = ?", code, userID).
		Delete(&model.BillingTransaction{}).Error
}
