package usecase

import "errors"

var (
	//401 認証失敗。「ユーザーなし」と「パスワード違い」は区別して返さない。
	ErrInvalidCredentials = errors.New("invalid credentials")
	//403 ロック中アカウント
	ErrAccountLocked = errors.New("account locked")
	//401 期限切れ・改ざん・version不一致は全部これ
	ErrInvalidToken = errors.New("invalid token")
	//409 name重複
	ErrDuplicateUsername = errors.New("username already exists")
	//409 transaction_code重複
	ErrDuplicateTransactionCode = errors.New("transaction code already exists")
	//404 取引・パッケージなし
	ErrNotFound = errors.New("not found")
	//503 銀行明細APIに届かない（リトライ可）
	ErrServiceUnavailable = errors.New("service unavailable")
	//400 入力不正
	ErrValidation = errors.New("validation error")
	//400 新パスワードが現在と同じ
	ErrSameAsOldPassword = errors.New("new password must differ from current password")
	//400 processing中の取引は消せない
	ErrTransactionProcessing = errors.New("transaction is being processed")
	//500
	ErrInternal = errors.New("internal error")
)
