package model

// トップアップのパッケージ定義。silver_amount+bonus_silverが付与量。
type BillingPackage struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PackageCode  string `gorm:"column:package_code;uniqueIndex;size:32;not null" json:"packageCode"`
	PackageName  string `gorm:"column:package_name;size:64;not null" json:"packageName"`
	SilverAmount int64  `gorm:"column:silver_amount;not null" json:"silverAmount"`
	BonusSilver  int64  `gorm:"column:bonus_silver;not null;default:0" json:"bonusSilver"`
	PriceVND     int64  `gorm:"column:price_vnd;not null" json:"priceVnd"`
	IsPopular    bool   `gorm:"column:is_popular;not null;default:false" json:"isPopular"`
	IsActive     bool   `gorm:"column:is_active;not null;default:true" json:"isActive"`
	SortOrder    int    `gorm:"column:sort_order;not null;default:0" json:"sortOrder"`
	Description  string `gorm:"column:description;size:255" json:"description,omitempty"`
}

func (BillingPackage) TableName() string {
	return "billing_package"
}
