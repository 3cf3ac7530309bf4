package credential

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
)

// 旧ゲームサーバーとaccountテーブルを共有するための無塩MD5。
// 既存データとバイト単位で一致させる必要があるのでアルゴリズムは変えられない。
// 新規デプロイでは必ずBcryptStoreを使うこと。
type LegacyMD5Store struct{}

func NewLegacyMD5Store() *LegacyMD5Store {
	return &LegacyMD5Store{}
}

func (s *LegacyMD5Store) Hash(plain string) (string, error) {
	sum := md5.Sum([]byte(plain))
	return hex.EncodeToString(sum[:]), nil
}

func (s *LegacyMD5Store) Verify(plain string, digest string) bool {
	h, _ := s.Hash(plain)
	return subtle.ConstantTimeCompare([]byte(h), []byte(digest)) == 1
}
