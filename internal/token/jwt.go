package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// 期限切れ・改ざん・発行元違いは全部これに潰す（呼び出し側に理由を漏らさない）
var ErrInvalidToken = errors.New("invalid token")

const (
	issuer   = "portal-api"
	audience = "portal-users"
)

// accesstokenのclaims
type AccessClaims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// refreshtokenのclaims。tokenVersionは発行時点のスナップショット。
type RefreshClaims struct {
	UserID       int64  `json:"userId"`
	Username     string `json:"username"`
	TokenVersion int64  `json:"tokenVersion"`
	jwt.RegisteredClaims
}

// ServiceはJWTの発行と検証。署名はHS256、access/refreshでシークレットを分ける。
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// DI
func NewService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// accesstoken発行（短命）
func (s *Service) IssueAccessToken(userID int64, username string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

// refreshtoken発行（長命、token_versionを埋め込む）
func (s *Service) IssueRefreshToken(userID int64, username string, tokenVersion int64) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		UserID:       userID,
		Username:     username,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
}

// accesstoken検証。署名＋期限のみ（DBは見ない）。
func (s *Service) VerifyAccessToken(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(raw, claims, s.accessSecret); err != nil {
		return nil, ErrInvalidToken
	}
	if !verifyRegistered(claims.RegisteredClaims) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// refreshtoken検証。署名＋期限のみ。
// token_versionのDB照合は呼び出し側（usecase）の責任。
func (s *Service) VerifyRefreshToken(raw string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(raw, claims, s.refreshSecret); err != nil {
		return nil, ErrInvalidToken
	}
	if !verifyRegistered(claims.RegisteredClaims) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) parse(raw string, claims jwt.Claims, secret []byte) error {
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return err
	}
	if !tok.Valid {
		return ErrInvalidToken
	}
	return nil
}

// issuer/audienceタグの確認
func verifyRegistered(rc jwt.RegisteredClaims) bool {
	return rc.VerifyIssuer(issuer, true) && rc.VerifyAudience(audience, true)
}

// NewTokenVersion は新しいtoken_versionを返す。
// 直前の値と違えばよいだけなので現在時刻の秒で足りる。
func NewTokenVersion() int64 {
	return time.Now().Unix()
}
