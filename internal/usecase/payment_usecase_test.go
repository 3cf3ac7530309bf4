package usecase

import (
	"context"
	"testing"
	"time"

	"portal/internal/domain/model"
	"portal/internal/infra/bank"
	"portal/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mock: TransactionRepository
// =====================

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *model.BillingTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindPendingByCode(ctx context.Context, code string, userID int64) (*model.BillingTransaction, error) {
	args := m.Called(ctx, code, userID)
	tx, _ := args.Get(0).(*model.BillingTransaction)
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) FindLatestPendingByUser(ctx context.Context, userID int64) (*model.BillingTransaction, error) {
	args := m.Called(ctx, userID)
	tx, _ := args.Get(0).(*model.BillingTransaction)
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) FindByCode(ctx context.Context, code string, userID int64) (*model.BillingTransaction, error) {
	args := m.Called(ctx, code, userID)
	tx, _ := args.Get(0).(*model.BillingTransaction)
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) MarkExpired(ctx context.Context, transactionID int64) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkCompleted(ctx context.Context, transactionID int64, bankRef string, verifiedAt time.Time) (int64, error) {
	args := m.Called(ctx, transactionID, bankRef, verifiedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) DeleteByCode(ctx context.Context, code string, userID int64) error {
	args := m.Called(ctx, code, userID)
	return args.Error(0)
}

// =====================
// Mock: PackageRepository
// =====================

type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) FindActiveByCode(ctx context.Context, code string) (*model.BillingPackage, error) {
	args := m.Called(ctx, code)
	p, _ := args.Get(0).(*model.BillingPackage)
	return p, args.Error(1)
}

func (m *MockPackageRepository) ListActive(ctx context.Context) ([]model.BillingPackage, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]model.BillingPackage)
	return p, args.Error(1)
}

// =====================
// Mock: bank.Client
// =====================

type MockBankClient struct {
	mock.Mock
}

func (m *MockBankClient) RecentStatements(ctx context.Context) ([]bank.StatementEntry, error) {
	args := m.Called(ctx)
	e, _ := args.Get(0).([]bank.StatementEntry)
	return e, args.Error(1)
}

// txを開かずそのままモックを渡すTransactionManager
type passthroughTxManager struct {
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
}

func (m *passthroughTxManager) Accounts() repository.AccountRepository         { return m.accounts }
func (m *passthroughTxManager) Transactions() repository.TransactionRepository { return m.transactions }

func (m *passthroughTxManager) WithinTx(ctx context.Context, fn func(r repository.TxRepos) error) error {
	return fn(m)
}

type paymentFixture struct {
	uc       *PaymentUsecase
	accounts *MockAccountRepository
	txRepo   *MockTransactionRepository
	pkgRepo  *MockPackageRepository
	bank     *MockBankClient
}

func newPaymentFixture() *paymentFixture {
	accounts := new(MockAccountRepository)
	txRepo := new(MockTransactionRepository)
	pkgRepo := new(MockPackageRepository)
	bankClient := new(MockBankClient)

	uc := NewPaymentUsecase(accounts, txRepo, pkgRepo, bankClient,
		&passthroughTxManager{accounts: accounts, transactions: txRepo},
		BankAccount{
			BankID:      "970422",
			AccountNo:   "088888666660",
			AccountName: "THIEN LONG",
			MemoPrefix:  "TLTH",
		})

	return &paymentFixture{uc: uc, accounts: accounts, txRepo: txRepo, pkgRepo: pkgRepo, bank: bankClient}
}

func pendingTx(code string, amount int64, createdAt time.Time) *model.BillingTransaction {
	return &model.BillingTransaction{
		TransactionID:   11,
		UserID:          7,
		Username:        "alice",
		Package:         "pkg100",
		Amount:          amount,
		Status:          model.StatusPending,
		TransactionCode: code,
		CreatedAt:       createdAt,
		ExpiresAt:       createdAt.Add(10 * time.Minute),
	}
}

func TestCreateSession_Success(t *testing.T) {
	f := newPaymentFixture()

	f.accounts.On("FindByID", mock.Anything, int64(7)).Return(&model.Account{ID: 7, Name: "alice"}, nil)
	f.txRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.BillingTransaction")).Run(func(args mock.Arguments) {
		tx := args.Get(1).(*model.BillingTransaction)
		assert.Equal(t, model.StatusPending, tx.Status)
		// TTLは10分
		assert.Equal(t, 10*time.Minute, tx.ExpiresAt.Sub(tx.CreatedAt))
	}).Return(nil)

	out, err := f.uc.CreateSession(context.Background(), 7, CreatePaymentRequest{
		PackageID:       "pkg100",
		Amount:          100000,
		TransactionCode: "TLTH alice 167469704",
	})
	assert.NoError(t, err)
	assert.Equal(t, "pending", out.Status)
	// QRのURLにメモ（コードの数字部分）と金額が入る
	assert.Contains(t, out.QRCodeURL, "img.vietqr.io/image/970422-088888666660")
	assert.Contains(t, out.QRCodeURL, "amount=100000")
	assert.Contains(t, out.QRCodeURL, "167469704")
}

func TestCreateSession_InvalidAmount(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.uc.CreateSession(context.Background(), 7, CreatePaymentRequest{
		PackageID:       "pkg100",
		Amount:          0,
		TransactionCode: "TLTH alice 1",
	})
	assert.ErrorIs(t, err, ErrValidation)

	f.txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateSession_DuplicateCode(t *testing.T) {
	f := newPaymentFixture()

	f.accounts.On("FindByID", mock.Anything, int64(7)).Return(&model.Account{ID: 7, Name: "alice"}, nil)
	f.txRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := f.uc.CreateSession(context.Background(), 7, CreatePaymentRequest{
		PackageID:       "pkg100",
		Amount:          100000,
		TransactionCode: "TLTH alice 167469704",
	})
	assert.ErrorIs(t, err, ErrDuplicateTransactionCode)
}

func TestGetActiveSession_CountsDown(t *testing.T) {
	f := newPaymentFixture()

	now := time.Now()
	f.uc.now = func() time.Time { return now }

	tx := pendingTx("TLTH alice 167469704", 100000, now.Add(-100*time.Second))
	f.txRepo.On("FindLatestPendingByUser", mock.Anything, int64(7)).Return(tx, nil)

	out, err := f.uc.GetActiveSession(context.Background(), 7)
	assert.NoError(t, err)
	assert.NotNil(t, out)
	assert.Equal(t, int64(500), out.RemainingTime)
}

func TestGetActiveSession_ExpiresLazily(t *testing.T) {
	f := newPaymentFixture()

	now := time.Now()
	f.uc.now = func() time.Time { return now }

	// ちょうど600秒経過でexpired扱い
	tx := pendingTx("TLTH alice 167469704", 100000, now.Add(-600*time.Second))
	f.txRepo.On("FindLatestPendingByUser", mock.Anything, int64(7)).Return(tx, nil)
	f.txRepo.On("MarkExpired", mock.Anything, int64(11)).Return(nil)

	out, err := f.uc.GetActiveSession(context.Background(), 7)
	assert.NoError(t, err)
	assert.Nil(t, out)

	f.txRepo.AssertCalled(t, "MarkExpired", mock.Anything, int64(11))
}

func TestGetActiveSession_NoSession(t *testing.T) {
	f := newPaymentFixture()

	f.txRepo.On("FindLatestPendingByUser", mock.Anything, int64(7)).Return(nil, repository.ErrTransactionNotFound)

	out, err := f.uc.GetActiveSession(context.Background(), 7)
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestReconcile_MatchCreditsOnce(t *testing.T) {
	f := newPaymentFixture()

	now := time.Now()
	f.uc.now = func() time.Time { return now }

	tx := pendingTx("TLTH alice 167469704", 100000, now.Add(-1*time.Minute))
	f.txRepo.On("FindPendingByCode", mock.Anything, "TLTH alice 167469704", int64(7)).Return(tx, nil)
	f.bank.On("RecentStatements", mock.Anything).Return([]bank.StatementEntry{
		{
			TransactionDesc: "CUSTOMER TRANSFER TLTH alice 167469704",
			CreditAmount:    decimal.NewFromInt(100000),
			RefNo:           "FT12345",
		},
	}, nil)
	f.pkgRepo.On("FindActiveByCode", mock.Anything, "pkg100").Return(&model.BillingPackage{
		PackageCode:  "pkg100",
		SilverAmount: 1000,
		BonusSilver:  100,
	}, nil)
	f.txRepo.On("MarkCompleted", mock.Anything, int64(11), "FT12345", mock.AnythingOfType("time.Time")).Return(int64(1), nil)
	f.accounts.On("AddPoint", mock.Anything, int64(7), int64(1100)).Return(nil)

	out, err := f.uc.Reconcile(context.Background(), 7, "TLTH alice 167469704")
	assert.NoError(t, err)
	assert.True(t, out.Matched)
	assert.Equal(t, "FT12345", out.BankRefNo)
	assert.Equal(t, int64(1100), out.SilverAdded)
	assert.Equal(t, int64(1000), out.BaseSilver)
	assert.Equal(t, int64(100), out.BonusSilver)

	// 付与は一度だけ
	f.accounts.AssertNumberOfCalls(t, "AddPoint", 1)
}

func TestReconcile_AmountMustMatchExactly(t *testing.T) {
	f := newPaymentFixture()

	now := time.Now()
	f.uc.now = func() time.Time { return now }

	tx := pendingTx("TLTH alice 167469704", 100000, now.Add(-1*time.Minute))
	f.txRepo.On("FindPendingByCode", mock.Anything, "TLTH alice 167469704", int64(7)).Return(tx, nil)

	// コードは一致するが金額が1足りない → 照合失敗（ソフトエラー）
	f.bank.On("RecentStatements", mock.Anything).Return([]bank.StatementEntry{
		{
			TransactionDesc: "CUSTOMER TRANSFER TLTH alice 167469704",
			CreditAmount:    decimal.NewFromInt(99999),
			RefNo:           "FT12345",
		},
	}, nil)

	out, err := f.uc.Reconcile(context.Background(), 7, "TLTH alice 167469704")
	assert.NoError(t, err)
	assert.False(t, out.Matched)
	assert.Equal(t, "167469704", out.SearchCode)
	assert.Equal(t, int64(100000), out.ExpectedAmount)
	assert.Equal(t, 1, out.StatementCount)

	f.txRepo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.accounts.AssertNotCalled(t, "AddPoint", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_SecondAttemptFindsNothing(t *testing.T) {
	f := newPaymentFixture()

	// 1回目でcompletedになった後はpendingが見つからない
	f.txRepo.On("FindPendingByCode", mock.Anything, "TLTH alice 167469704", int64(7)).
		Return(nil, repository.ErrTransactionNotFound)

	_, err := f.uc.Reconcile(context.Background(), 7, "TLTH alice 167469704")
	assert.ErrorIs(t, err, ErrNotFound)

	f.accounts.AssertNotCalled(t, "AddPoint", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_CASLosesRace(t *testing.T) {
	f := newPaymentFixture()

	now := time.Now()
	f.uc.now = func() time.Time { return now }

	tx := pendingTx("TLTH alice 167469704", 100000, now.Add(-1*time.Minute))
	f.txRepo.On("FindPendingByCode", mock.Anything, "TLTH alice 167469704", int64(7)).Return(tx, nil)
	f.bank.On("RecentStatements", mock.Anything).Return([]bank.StatementEntry{
		{
			TransactionDesc: "TLTH alice 167469704",
			CreditAmount:    decimal.NewFromInt(100000),
			RefNo:           "FT12345",
		},
	}, nil)
	f.pkgRepo.On("FindActiveByCode", mock.Anything, "pkg100").Return(nil, repository.ErrPackageNotFound)

	// 同時リクエストが先にcompletedにした → 0行更新
	f.txRepo.On("MarkCompleted", mock.Anything, int64(11), "FT12345", mock.AnythingOfType("time.Time")).Return(int64(0), nil)

	_, err := f.uc.Reconcile(context.Background(), 7, "TLTH alice 167469704")
	assert.ErrorIs(t, err, ErrNotFound)

	// CASに負けた側は付与しない
	f.accounts.AssertNotCalled(t, "AddPoint", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_PackageFallback(t *testing.T) {
	f := newPaymentFixture()

	now := time.Now()
	f.uc.now = func() time.Time { return now }

	tx := pendingTx("TLTH alice 167469704", 100000, now.Add(-1*time.Minute))
	f.txRepo.On("FindPendingByCode", mock.Anything, "TLTH alice 167469704", int64(7)).Return(tx, nil)
	f.bank.On("RecentStatements", mock.Anything).Return([]bank.StatementEntry{
		{
			TransactionDesc: "TLTH alice 167469704",
			CreditAmount:    decimal.NewFromInt(100000),
			RefNo:           "FT777",
		},
	}, nil)

	// パッケージ行がなければ100VND=1シルバー換算
	f.pkgRepo.On("FindActiveByCode", mock.Anything, "pkg100").Return(nil, repository.ErrPackageNotFound)
	f.txRepo.On("MarkCompleted", mock.Anything, int64(11), "FT777", mock.AnythingOfType("time.Time")).Return(int64(1), nil)
	f.accounts.On("AddPoint", mock.Anything, int64(7), int64(1000)).Return(nil)

	out, err := f.uc.Reconcile(context.Background(), 7, "TLTH alice 167469704")
	assert.NoError(t, err)
	assert.Equal(t, int64(1000), out.SilverAdded)
	assert.Equal(t, int64(0), out.BonusSilver)
}

func TestReconcile_BankFeedDown(t *testing.T) {
	f := newPaymentFixture()

	now := time.Now()
	f.uc.now = func() time.Time { return now }

	tx := pendingTx("TLTH alice 167469704", 100000, now.Add(-1*time.Minute))
	f.txRepo.On("FindPendingByCode", mock.Anything, "TLTH alice 167469704", int64(7)).Return(tx, nil)
	f.bank.On("RecentStatements", mock.Anything).Return(nil, bank.ErrUnavailable)

	_, err := f.uc.Reconcile(context.Background(), 7, "TLTH alice 167469704")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestReconcile_AfterTTLExpires(t *testing.T) {
	f := newPaymentFixture()

	now := time.Now()
	f.uc.now = func() time.Time { return now }

	// TTL超過後の突合はexpiredに落とす
	tx := pendingTx("TLTH alice 167469704", 100000, now.Add(-11*time.Minute))
	f.txRepo.On("FindPendingByCode", mock.Anything, "TLTH alice 167469704", int64(7)).Return(tx, nil)
	f.txRepo.On("MarkExpired", mock.Anything, int64(11)).Return(nil)

	_, err := f.uc.Reconcile(context.Background(), 7, "TLTH alice 167469704")
	assert.ErrorIs(t, err, ErrNotFound)

	f.txRepo.AssertCalled(t, "MarkExpired", mock.Anything, int64(11))
	f.bank.AssertNotCalled(t, "RecentStatements", mock.Anything)
}

func TestDeleteSession_Idempotent(t *testing.T) {
	f := newPaymentFixture()

	f.txRepo.On("FindByCode", mock.Anything, "TLTH alice 1", int64(7)).
		Return(nil, repository.ErrTransactionNotFound)

	// 既に消えていても成功
	err := f.uc.DeleteSession(context.Background(), 7, "TLTH alice 1")
	assert.NoError(t, err)

	f.txRepo.AssertNotCalled(t, "DeleteByCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteSession_ProcessingRejected(t *testing.T) {
	f := newPaymentFixture()

	tx := pendingTx("TLTH alice 1", 100000, time.Now())
	tx.Status = model.StatusProcessing
	f.txRepo.On("FindByCode", mock.Anything, "TLTH alice 1", int64(7)).Return(tx, nil)

	err := f.uc.DeleteSession(context.Background(), 7, "TLTH alice 1")
	assert.ErrorIs(t, err, ErrTransactionProcessing)
}

func TestDeleteSession_Success(t *testing.T) {
	f := newPaymentFixture()

	tx := pendingTx("TLTH alice 1", 100000, time.Now())
	f.txRepo.On("FindByCode", mock.Anything, "TLTH alice 1", int64(7)).Return(tx, nil)
	f.txRepo.On("DeleteByCode", mock.Anything, "TLTH alice 1", int64(7)).Return(nil)

	assert.NoError(t, f.uc.DeleteSession(context.Background(), 7, "TLTH alice 1"))
	f.txRepo.AssertExpectations(t)
}

func TestExtractSearchCode(t *testing.T) {
	f := newPaymentFixture()

	// 標準形式からは数字部分だけ
	assert.Equal(t, "167469704", f.uc.extractSearchCode("TLTH alice 167469704"))
	// 形式外はコード全体で検索
	assert.Equal(t, "custom-code", f.uc.extractSearchCode("custom-code"))
}
