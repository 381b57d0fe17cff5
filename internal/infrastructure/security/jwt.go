package security

import (
	"time"

	"coursestream/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type Claims struct {
	UserID uuid.UUID
	Role   domain.Role
}

type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
}

func NewTokenManager(accessSecret, refreshSecret string) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}
}

func (m *TokenManager) Generate(userID uuid.UUID, role domain.Role) (string, string, error) {
	accessToken, err := m.sign(m.accessSecret, userID, role, "access", AccessTTL)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := m.sign(m.refreshSecret, userID, role, "refresh", RefreshTTL)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (m *TokenManager) sign(secret []byte, userID uuid.UUID, role domain.Role, typ string, ttl time.Duration) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID.String(),
		"role": string(role),
		"type": typ,
		"jti":  uuid.NewString(),
		"exp":  time.Now().Add(ttl).Unix(),
	})
	signed, err := t.SignedString(secret)
	return signed, errors.Wrapf(err, "signing %s token", typ)
}

func (m *TokenManager) ValidateAccessToken(tokenStr string) (Claims, error) {
	return m.validate(tokenStr, m.accessSecret, "access")
}

func (m *TokenManager) ValidateRefreshToken(tokenStr string) (Claims, error) {
	return m.validate(tokenStr, m.refreshSecret, "refresh")
}

func (m *TokenManager) validate(tokenStr string, secret []byte, typ string) (Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return Claims{}, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid || claims["type"] != typ {
		return Claims{}, domain.ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return Claims{}, domain.ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	return Claims{UserID: id, Role: domain.Role(role)}, nil
}
