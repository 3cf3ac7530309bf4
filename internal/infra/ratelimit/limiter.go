package ratelimit

import "context"

// 固定ウィンドウのカウンタ。keyはIPなどの呼び出し元識別子。
// trueなら通す。複数インスタンス構成ではRedis実装を使うこと
// （プロセス内mapではインスタンスごとに別カウントになる）。
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
