package model

import "time"

type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusCompleted  TransactionStatus = "completed"
	StatusExpired    TransactionStatus = "expired"
	StatusProcessing TransactionStatus = "processing"
)

// 手動振込のトップアップ取引。transaction_codeは振込メモに入る。
type BillingTransaction struct {
	TransactionID int64  `gorm:"column:transaction_id;primaryKey;autoIncrement" json:"transactionId"`
	UserID        int64  `gorm:"column:user_id;not null;index" json:"userId"`
	Username      string `gorm:"column:username;size:32;not null" json:"username"`
	Package       string `gorm:"column:package;size:32;not null" json:"package"`
	Amount        int64  `gorm:"column:amount;not null" json:"amount"`

	Status          TransactionStatus `gorm:"column:status;size:16;not null;default:'pending'" json:"status"`
	TransactionCode string            `gorm:"column:transaction_code;uniqueIndex;size:64;not null" json:"transactionCode"`
	QRCodeURL       string            `gorm:"column:qr_code_url;size:512" json:"qrCodeUrl"`

	// 銀行明細と突合できたときに入る
	BankTransactionID string     `gorm:"column:bank_transaction_id;size:64" json:"bankTransactionId,omitempty"`
	VerifiedAt        *time.Time `gorm:"column:verified_at" json:"verifiedAt,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expiresAt"`
}

func (BillingTransaction) TableName() string {
	return "billing_transaction_accounts"
}
