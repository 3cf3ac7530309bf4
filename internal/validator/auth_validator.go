package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"portal/internal/usecase"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")
)

var (
	// 英数字とアンダースコアのみ
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	// 少なくとも英字1つと数字1つ
	hasLetterPattern = regexp.MustCompile(`[a-zA-Z]`)
	hasDigitPattern  = regexp.MustCompile(`[0-9]`)
)

type authValidator struct{}

// Usecaseは interface を依存注入
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{}
}

// 会員登録の入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, req usecase.RegisterRequest) error {
	name := strings.TrimSpace(req.Username)

	// 必須チェック
	if name == "" || req.Password == "" {
		return ErrInvalidInput
	}

	// username 3〜20文字、英数字と_のみ
	if len(name) < 3 || len(name) > 20 || !usernamePattern.MatchString(name) {
		return ErrInvalidInput
	}

	if err := validatePassword(req.Password); err != nil {
		return err
	}

	// 確認用と一致すること
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		return ErrInvalidInput
	}

	// emailは任意。入っていれば形式チェック。
	if req.Email != "" && !isEmailLike(req.Email) {
		return ErrInvalidInput
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, username string, password string) error {
	username = strings.TrimSpace(username)

	// 必須チェック
	if username == "" || password == "" {
		return ErrInvalidInput
	}

	if len(username) > 20 || len(password) > 50 {
		return ErrInvalidInput
	}

	return nil
}

// パスワード変更の入力を検証
func (v *authValidator) ValidateChangePassword(ctx context.Context, currentPassword string, newPassword string) error {
	if currentPassword == "" {
		return ErrInvalidInput
	}
	return validatePassword(newPassword)
}

// 6〜50文字、英字と数字を1つ以上含む
func validatePassword(password string) error {
	if len(password) < 6 || len(password) > 50 {
		return ErrInvalidInput
	}
	if !hasLetterPattern.MatchString(password) || !hasDigitPattern.MatchString(password) {
		return ErrInvalidInput
	}
	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	re := regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	return re.MatchString(s)
}
