package model

import "time"

// ゲームサーバーと共有するaccountテーブル。
// passwordはハッシュのみ保存（平文は絶対に保存しない）。
type Account struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"column:name;uniqueIndex;size:32;not null" json:"name"`
	Password string `gorm:"column:password;size:64;not null" json:"-"`

	// 秘密の質問（answerは旧スキーマ互換で平文のまま）
	Question string `gorm:"column:question;size:255" json:"question,omitempty"`
	Answer   string `gorm:"column:answer;size:255" json:"-"`

	Email       string `gorm:"column:email;size:100" json:"email,omitempty"`
	SoDienThoai string `gorm:"column:sodienthoai;size:20" json:"phone,omitempty"`

	// point = シルバー残高
	Point int64 `gorm:"column:point;not null;default:0" json:"point"`
	Score int64 `gorm:"column:score;not null;default:0" json:"score"`
	Pin   string `gorm:"column:pin;size:6" json:"-"`

	IsOnline bool `gorm:"column:is_online;not null;default:false" json:"is_online"`
	IsLock   bool `gorm:"column:is_lock;not null;default:false" json:"is_lock"`
	IsAdmin  bool `gorm:"column:is_admin;not null;default:false" json:"is_admin"`

	LastIPLogin string `gorm:"column:last_ip_login;size:45" json:"-"`

	// refresh tokenの失効に使う。login/logout/パスワード変更のたびに置き換える。
	TokenVersion int64 `gorm:"column:token_version;not null;default:0" json:"-"`

	DateRegistered time.Time `gorm:"column:date_registered" json:"date_registered"`
	DateModified   time.Time `gorm:"column:date_modified" json:"date_modified"`
}

func (Account) TableName() string {
	return "account"
}
