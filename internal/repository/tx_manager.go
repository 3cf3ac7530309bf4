package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// 突合成功時の「completed化＋シルバー付与」をまとめるために使う。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
