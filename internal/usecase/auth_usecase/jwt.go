package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IDを作る約束
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// HS256で署名するJWT発行・検証
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	idGen  IDGenerator
}

func NewJWTIssuer(secret string, ttl time.Duration, idGen IDGenerator) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, idGen: idGen}
}

func (i *JWTIssuer) Issue(subject string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        i.idGen.NewID(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

var ErrInvalidToken = errors.New("invalid token")

// Parse は署名と期限を検証してsubject（オペレーターのメール）を返す。
func (i *JWTIssuer) Parse(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || token == nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
