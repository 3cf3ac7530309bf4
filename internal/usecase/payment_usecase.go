package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"portal/internal/domain/model"
	"portal/internal/infra/bank"
	"portal/internal/repository"

	"github.com/shopspring/decimal"
)

// 支払いセッションの有効期限（10分）
const sessionTTL = 10 * time.Minute

// VietQRの画像URLに使う銀行情報
type BankAccount struct {
	BankID      string
	AccountNo   string
	AccountName string
	MemoPrefix  string // 振込メモの接頭辞。突合コードの抽出にも使う。
}

type CreatePaymentRequest struct {
	PackageID       string `json:"packageId"`
	Amount          int64  `json:"amount"`
	TransactionCode string `json:"transactionCode"`
}

type PaymentSessionDTO struct {
	TransactionID   int64  `json:"transactionId"`
	TransactionCode string `json:"transactionCode"`
	Package         string `json:"package"`
	Amount          int64  `json:"amount"`
	QRCodeURL       string `json:"qrCodeUrl"`
	Status          string `json:"status"`
	RemainingTime   int64  `json:"remainingTime,omitempty"`
	CreatedAt       string `json:"createdAt"`
}

// 突合の結果。Matched=falseは「まだ明細に載っていない」だけなのでリトライしてよい。
type ReconcileResult struct {
	Matched bool

	TransactionCode string `json:"transactionCode"`
	Amount          string `json:"amount,omitempty"`
	BankRefNo       string `json:"bankRefNo,omitempty"`
	Package         string `json:"package,omitempty"`
	SilverAdded     int64  `json:"silverAdded,omitempty"`
	BaseSilver      int64  `json:"baseSilver,omitempty"`
	BonusSilver     int64  `json:"bonusSilver,omitempty"`
	VerifiedAt      string `json:"verifiedAt,omitempty"`

	// 未一致のときのサポート調査用
	SearchCode     string `json:"searchCode,omitempty"`
	ExpectedAmount int64  `json:"expectedAmount,omitempty"`
	StatementCount int    `json:"statementCount,omitempty"`
}

type PaymentUsecase struct {
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
	packages     repository.PackageRepository
	bankClient   bank.Client
	txm          repository.TransactionManager
	bankAcc      BankAccount
	codePattern  *regexp.Regexp
	now          func() time.Time
}

// DI
func NewPaymentUsecase(
	accounts repository.AccountRepository,
	transactions repository.TransactionRepository,
	packages repository.PackageRepository,
	bankClient bank.Client,
	txm repository.TransactionManager,
	bankAcc BankAccount,
) *PaymentUsecase {
	// メモ「TLTH <user> <数字>」から数字部分を抜くパターン
	pattern := regexp.MustCompile(regexp.QuoteMeta(bankAcc.MemoPrefix) + `\s+\w+\s+(\d+)`)

	return &PaymentUsecase{
		accounts:     accounts,
		transactions: transactions,
		packages:     packages,
		bankClient:   bankClient,
		txm:          txm,
		bankAcc:      bankAcc,
		codePattern:  pattern,
		now:          time.Now,
	}
}

// CreateSession はpendingの取引を作ってQRコードURLを返す。
// transactionCodeの一意性はDBのunique indexで保証する。
func (u *PaymentUsecase) CreateSession(ctx context.Context, userID int64, req CreatePaymentRequest) (*PaymentSessionDTO, error) {
	if req.PackageID == "" || req.TransactionCode == "" {
		return nil, ErrValidation
	}
	if req.Amount <= 0 {
		return nil, ErrValidation
	}

	acc, err := u.accounts.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}

	qrURL := u.buildQRCodeURL(acc.Name, req.TransactionCode, req.Amount)

	now := u.now()
	tx := &model.BillingTransaction{
		UserID:          userID,
		Username:        acc.Name,
		Package:         req.PackageID,
		Amount:          req.Amount,
		Status:          model.StatusPending,
		TransactionCode: req.TransactionCode,
		QRCodeURL:       qrURL,
		CreatedAt:       now,
		ExpiresAt:       now.Add(sessionTTL),
	}

	if err := u.transactions.Create(ctx, tx); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateTransactionCode
		}
		return nil, ErrInternal
	}

	return &PaymentSessionDTO{
		TransactionID:   tx.TransactionID,
		TransactionCode: tx.TransactionCode,
		Package:         tx.Package,
		Amount:          tx.Amount,
		QRCodeURL:       tx.QRCodeURL,
		Status:          string(tx.Status),
		CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
	}, nil
}

// GetActiveSession は最新のpending取引と残り秒数を返す。
// TTLを過ぎていたらその場でexpiredにして「セッションなし」を返す（遅延失効）。
func (u *PaymentUsecase) GetActiveSession(ctx context.Context, userID int64) (*PaymentSessionDTO, error) {
	tx, err := u.transactions.FindLatestPendingByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, nil
		}
		return nil, ErrInternal
	}

	elapsed := int64(u.now().Sub(tx.CreatedAt).Seconds())
	remaining := int64(sessionTTL.Seconds()) - elapsed
	if remaining <= 0 {
		if err := u.transactions.MarkExpired(ctx, tx.TransactionID); err != nil {
			return nil, ErrInternal
		}
		return nil, nil
	}

	return &PaymentSessionDTO{
		TransactionID:   tx.TransactionID,
		TransactionCode: tx.TransactionCode,
		Package:         tx.Package,
		Amount:          tx.Amount,
		QRCodeURL:       tx.QRCodeURL,
		Status:          string(tx.Status),
		RemainingTime:   remaining,
		CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
	}, nil
}

// Reconcile はpending取引を銀行明細と突合する。
// 一致したらcompletedにしてシルバーを付与する。付与は一度だけ：
// completed化はstatus='pending'条件のCASで、勝ったリクエストだけが付与に進む。
func (u *PaymentUsecase) Reconcile(ctx context.Context, userID int64, transactionCode string) (*ReconcileResult, error) {
	if transactionCode == "" {
		return nil, ErrValidation
	}

	tx, err := u.transactions.FindPendingByCode(ctx, transactionCode, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}

	// TTL超過ならexpiredにして終了
	if u.now().Sub(tx.CreatedAt) >= sessionTTL {
		if err := u.transactions.MarkExpired(ctx, tx.TransactionID); err != nil {
			return nil, ErrInternal
		}
		return nil, ErrNotFound
	}

	entries, err := u.bankClient.RecentStatements(ctx)
	if err != nil {
		return nil, ErrServiceUnavailable
	}

	searchCode := u.extractSearchCode(transactionCode)
	expected := decimal.NewFromInt(tx.Amount)

	var match *bank.StatementEntry
	for i := range entries {
		e := &entries[i]
		if strings.Contains(e.TransactionDesc, searchCode) &&
			e.CreditAmount.Equal(expected) &&
			e.CreditAmount.IsPositive() {
			match = e
			break
		}
	}

	if match == nil {
		// 明細にまだ載っていないだけかもしれないのでハードエラーにしない
		return &ReconcileResult{
			Matched:         false,
			TransactionCode: transactionCode,
			SearchCode:      searchCode,
			ExpectedAmount:  tx.Amount,
			StatementCount:  len(entries),
		}, nil
	}

	// パッケージ設定を引く。行がなければ100VND=1シルバーで換算。
	baseSilver := tx.Amount / 100
	bonusSilver := int64(0)
	pkg, err := u.packages.FindActiveByCode(ctx, tx.Package)
	if err == nil {
		baseSilver = pkg.SilverAmount
		bonusSilver = pkg.BonusSilver
	} else if !errors.Is(err, repository.ErrPackageNotFound) {
		return nil, ErrInternal
	}

	silverToAdd := baseSilver + bonusSilver
	verifiedAt := u.now()

	// completed化と残高付与を1トランザクションにまとめる。
	// CASが0行なら他のリクエストが先に処理済みなので付与しない。
	err = u.txm.WithinTx(ctx, func(r repository.TxRepos) error {
		affected, err := r.Transactions().MarkCompleted(ctx, tx.TransactionID, match.RefNo, verifiedAt)
		if err != nil {
			return err
		}
		if affected == 0 {
			return repository.ErrTransactionNotFound
		}
		return r.Accounts().AddPoint(ctx, userID, silverToAdd)
	})
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}

	return &ReconcileResult{
		Matched:         true,
		TransactionCode: transactionCode,
		Amount:          match.CreditAmount.String(),
		BankRefNo:       match.RefNo,
		Package:         tx.Package,
		SilverAdded:     silverToAdd,
		BaseSilver:      baseSilver,
		BonusSilver:     bonusSilver,
		VerifiedAt:      verifiedAt.Format(time.RFC3339),
	}, nil
}

// DeleteSession は取引を削除する。既に無ければ成功扱い（冪等）。
// processing中だけは消させない。
func (u *PaymentUsecase) DeleteSession(ctx context.Context, userID int64, transactionCode string) error {
	tx, err := u.transactions.FindByCode(ctx, transactionCode, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil
		}
		return ErrInternal
	}

	if tx.Status == model.StatusProcessing {
		return ErrTransactionProcessing
	}

	if err := u.transactions.DeleteByCode(ctx, transactionCode, userID); err != nil {
		return ErrInternal
	}

	return nil
}

// 「TLTH <user> <数字>」から数字だけを抜く。形式が違えばコード全体で検索する。
func (u *PaymentUsecase) extractSearchCode(transactionCode string) string {
	if m := u.codePattern.FindStringSubmatch(transactionCode); len(m) == 2 {
		return m[1]
	}
	return transactionCode
}

// VietQRの画像URLを組み立てる
func (u *PaymentUsecase) buildQRCodeURL(username string, transactionCode string, amount int64) string {
	// メモはコードの3番目のフィールド（数字部分）を優先する
	suffix := transactionCode
	if parts := strings.Fields(transactionCode); len(parts) >= 3 {
		suffix = parts[2]
	}
	memo := fmt.Sprintf("%s %s %s", u.bankAcc.MemoPrefix, username, suffix)

	return fmt.Sprintf(
		"https://img.vietqr.io/image/%s-%s-compact2.png?amount=%d&addInfo=%s&accountName=%s",
		u.bankAcc.BankID,
		u.bankAcc.AccountNo,
		amount,
		url.QueryEscape(memo),
		url.QueryEscape(u.bankAcc.AccountName),
	)
}
