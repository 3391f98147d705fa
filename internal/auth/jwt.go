package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer    = "restock-admin"
	roleAdmin = "admin"
)

var ErrInvalidToken = errors.New("invalid token")

type TokenMaker struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenMaker(secret string, ttl time.Duration) *TokenMaker {
	return &TokenMaker{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (t *TokenMaker) Issue(subject string) (string, Grant, error) {
	now := t.now()
	exp := now.Add(t.ttl)

	claims := Claims{
		Role: roleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", Grant{}, err
	}
	return signed, Grant{subject: subject, expiresAt: exp.Truncate(time.Second)}, nil
}

func (t *TokenMaker) Parse(tokenStr string) (Grant, error) {
	var c Claims

	token, err := jwt.ParseWithClaims(tokenStr, &c,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || token == nil || !token.Valid {
		return Grant{}, ErrInvalidToken
	}
	if c.Role != roleAdmin || c.Subject == "" {
		return Grant{}, ErrInvalidToken
	}

	return Grant{subject: c.Subject, expiresAt: c.ExpiresAt.Time}, nil
}

// RandomSecret returns a 256-bit hex secret for processes started without
// one; sessions signed with it end when the process does.
func RandomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
