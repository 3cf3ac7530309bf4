package usecase

import (
	"context"

	"portal/internal/repository"
)

type PackageDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Silver      int64  `json:"silver"`
	Bonus       int64  `json:"bonus"`
	Price       int64  `json:"price"`
	Popular     bool   `json:"popular"`
	SortOrder   int    `json:"sortOrder"`
	Description string `json:"description,omitempty"`
}

type BillingUsecase struct {
	packages repository.PackageRepository
}

// DI
func NewBillingUsecase(packages repository.PackageRepository) *BillingUsecase {
	return &BillingUsecase{packages: packages}
}

// ListPackages は有効なトップアップパッケージをsort_order順で返す。
func (u *BillingUsecase) ListPackages(ctx context.Context) ([]PackageDTO, error) {
	pkgs, err := u.packages.ListActive(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]PackageDTO, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, PackageDTO{
			ID:          p.PackageCode,
			Name:        p.PackageName,
			Silver:      p.SilverAmount,
			Bonus:       p.BonusSilver,
			Price:       p.PriceVND,
			Popular:     p.IsPopular,
			SortOrder:   p.SortOrder,
			Description: p.Description,
		})
	}

	return out, nil
}
