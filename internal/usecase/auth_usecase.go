package usecase

import (
	"context"
	"errors"
	"time"

	"portal/internal/credential"
	"portal/internal/domain/model"
	"portal/internal/repository"
	"portal/internal/token"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, req RegisterRequest) error
	ValidateLogin(ctx context.Context, username string, password string) error
	ValidateChangePassword(ctx context.Context, currentPassword string, newPassword string) error
}

type AccountDTO struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Point          int64     `json:"point"`
	Score          int64     `json:"score"`
	IsOnline       bool      `json:"is_online"`
	DateRegistered time.Time `json:"date_registered"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenはcookieで返すのでbodyには入れない
type LoginResult struct {
	User         AccountDTO
	AccessToken  string
	RefreshToken string
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Email           string `json:"email"`
	Question        string `json:"question"`
	Answer          string `json:"answer"`
	Phone           string `json:"phone"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type AuthUsecase struct {
	accounts   repository.AccountRepository
	creds      credential.Store
	tokens     *token.Service
	validator  AuthValidator
	newVersion func() int64
}

// DI
func NewAuthUsecase(
	accounts repository.AccountRepository,
	creds credential.Store,
	tokens *token.Service,
	validator AuthValidator,
) *AuthUsecase {
	return &AuthUsecase{
		accounts:   accounts,
		creds:      creds,
		tokens:     tokens,
		validator:  validator,
		newVersion: token.NewTokenVersion,
	}
}

// Login は認証してaccess/refreshの2つのtokenを発行する。
// token_versionを置き換えるので、過去に発行したrefreshtokenはこの時点で全て無効になる。
func (u *AuthUsecase) Login(ctx context.Context, req LoginRequest, clientIP string) (*LoginResult, error) {
	if err := u.validator.ValidateLogin(ctx, req.Username, req.Password); err != nil {
		return nil, ErrValidation
	}

	acc, err := u.accounts.FindByName(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			// 「ユーザーなし」もパスワード違いと同じエラー（列挙攻撃対策）
			return nil, ErrInvalidCredentials
		}
		return nil, ErrInternal
	}

	if !u.creds.Verify(req.Password, acc.Password) {
		return nil, ErrInvalidCredentials
	}

	if acc.IsLock {
		return nil, ErrAccountLocked
	}

	// versionを進めてからtokenを発行する。
	// 逆順だと「新しいtokenを返したのにversionが古い」瞬間ができてしまう。
	version := u.newVersion()
	if err := u.accounts.StampLogin(ctx, acc.ID, clientIP, version); err != nil {
		return nil, ErrInternal
	}

	access, err := u.tokens.IssueAccessToken(acc.ID, acc.Name)
	if err != nil {
		return nil, ErrInternal
	}

	refresh, err := u.tokens.IssueRefreshToken(acc.ID, acc.Name, version)
	if err != nil {
		return nil, ErrInternal
	}

	return &LoginResult{
		User:         toAccountDTO(acc),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Logout はtoken_versionを置き換えて全refreshtokenを失効させる。
// 既にログアウト済みでも成功を返す（冪等）。
func (u *AuthUsecase) Logout(ctx context.Context, userID int64) error {
	if err := u.accounts.ReplaceTokenVersion(ctx, userID, u.newVersion()); err != nil {
		return ErrInternal
	}
	return nil
}

// Refresh はrefreshtokenを検証して新しいaccesstokenだけを発行する。
// refreshtoken自体はローテーションしない。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := u.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}

	acc, err := u.accounts.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", ErrInvalidToken
	}

	// versionが今の値と違う＝login/logout/パスワード変更後の古いtoken
	if acc.TokenVersion != claims.TokenVersion {
		return "", ErrInvalidToken
	}

	access, err := u.tokens.IssueAccessToken(acc.ID, acc.Name)
	if err != nil {
		return "", ErrInternal
	}

	return access, nil
}

// ChangePassword は現在のパスワードを確認して新ハッシュを保存し、
// token_versionを置き換えて他端末のセッションを全て強制ログアウトする。
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	if err := u.validator.ValidateChangePassword(ctx, req.CurrentPassword, req.NewPassword); err != nil {
		return ErrValidation
	}

	acc, err := u.accounts.FindByID(ctx, userID)
	if err != nil {
		return ErrInvalidCredentials
	}

	if !u.creds.Verify(req.CurrentPassword, acc.Password) {
		return ErrInvalidCredentials
	}

	if req.NewPassword == req.CurrentPassword {
		return ErrSameAsOldPassword
	}

	newHash, err := u.creds.Hash(req.NewPassword)
	if err != nil {
		return ErrInternal
	}

	// ハッシュとversionを同じUPDATEで書く
	if err := u.accounts.UpdatePassword(ctx, userID, newHash, u.newVersion()); err != nil {
		return ErrInternal
	}

	return nil
}

// Register は新規アカウントを作成する。tokenは発行しない（Loginし直してもらう）。
// name重複はDBのunique indexで弾く（事前SELECTだけだと同時登録の穴がある）。
func (u *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*AccountDTO, error) {
	if err := u.validator.ValidateRegister(ctx, req); err != nil {
		return nil, ErrValidation
	}

	hash, err := u.creds.Hash(req.Password)
	if err != nil {
		return nil, ErrInternal
	}

	now := time.Now()
	phone := req.Phone
	if phone == "" {
		phone = "0"
	}

	// ゲーム側の初期値はゼロで揃える
	acc := &model.Account{
		Name:           req.Username,
		Password:       hash,
		Question:       req.Question,
		Answer:         req.Answer,
		Email:          req.Email,
		SoDienThoai:    phone,
		Point:          0,
		Score:          0,
		Pin:            "123456",
		IsOnline:       false,
		IsLock:         false,
		DateRegistered: now,
		DateModified:   now,
	}

	if err := u.accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, ErrInternal
	}

	dto := toAccountDTO(acc)
	return &dto, nil
}

// Me はDBから最新のアカウント情報を返す（credentialは含めない）。
func (u *AuthUsecase) Me(ctx context.Context, userID int64) (*AccountDTO, error) {
	acc, err := u.accounts.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}

	dto := toAccountDTO(acc)
	return &dto, nil
}

// model.AccountをAPI返却用DTOに変換。passwordやtoken_versionは出さない。
func toAccountDTO(a *model.Account) AccountDTO {
	return AccountDTO{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		Point:          a.Point,
		Score:          a.Score,
		IsOnline:       a.IsOnline,
		DateRegistered: a.DateRegistered,
	}
}
