package repository

import (
	"context"
	"errors"

	"portal/internal/domain/model"
)

var ErrPackageNotFound = errors.New("package not found")

// billing_packageの取得を約束
type PackageRepository interface {
	// package_codeで有効なパッケージを1件取得
	FindActiveByCode(ctx context.Context, code string) (*model.BillingPackage, error)
	// 有効なパッケージをsort_order順で全件取得
	ListActive(ctx context.Context) ([]model.BillingPackage, error)
}
