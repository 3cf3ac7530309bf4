package credential

// パスワードのハッシュ化と照合の約束。
// 実装はbcrypt（推奨）とレガシーMD5（旧ゲームサーバー互換）の2つ。
// どちらを使うかはconfigで明示的に選ぶ。
type Store interface {
	Hash(plain string) (string, error)
	Verify(plain string, digest string) bool
}
