package repository

import (
	"context"
	"errors"

	"portal/internal/domain/model"
	domainrepo "portal/internal/repository"

	"gorm.io/gorm"
)

type packageGormRepository struct {
	db *gorm.DB
}

// DI
func NewPackageGormRepository(db *gorm.DB) domainrepo.PackageRepository {
	return &packageGormRepository{db: db}
}

// package_codeで有効なパッケージを取得
func (r *packageGormRepository) FindActiveByCode(ctx context.Context, code string) (*model.BillingPackage, error) {
	var pkg model.BillingPackage
	err := r.db.WithContext(ctx).
		Where("package_code = ? AND is_active = ?", code, true).
		First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainrepo.ErrPackageNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

// 有効なパッケージ一覧（sort_order順）
func (r *packageGormRepository) ListActive(ctx context.Context) ([]model.BillingPackage, error) {
	var pkgs []model.BillingPackage
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&pkgs).Error
	if err != nil {
		return nil, err
	}
	return pkgs, nil
}
