package jwt

import (
	"strconv"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"VideoTube.com/pkg/errno"
)

// RefreshClaims 刷新令牌的声明
type RefreshClaims struct {
	UserID string `json:"user_id"`
	gojwt.RegisteredClaims
}

// IssueRefresh signs a refresh token. Every token carries a fresh id so two
// tokens issued in the same second still differ.
func (m *Manager) IssueRefresh(userID int64) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		UserID: strconv.FormatInt(userID, 10),
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(m.refreshTTL)),
		},
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(m.refreshKey)
}

// ParseRefresh verifies a refresh token and returns its user.
func (m *Manager) ParseRefresh(token string) (int64, error) {
	claims := &RefreshClaims{}
	_, err := gojwt.ParseWithClaims(token, claims, func(t *gojwt.Token) (interface{}, error) {
		return m.refreshKey, nil
	}, gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}), gojwt.WithExpirationRequired())
	if err != nil {
		return 0, errno.TokenInvalidErr.WithCause(err)
	}
	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil || id <= 0 {
		return 0, errno.TokenInvalidErr
	}
	return id, nil
}
