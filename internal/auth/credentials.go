package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoCredentials      = errors.New("admin username and password must be configured")
)

type Credentials struct {
	username string
	hash     []byte
}

func NewCredentials(username, password string) (*Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrNoCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Credentials{username: username, hash: hash}, nil
}

// NewCredentialsFromHash accepts a precomputed bcrypt hash so the plain
// password never has to appear in the environment.
func NewCredentialsFromHash(username, hash string) (*Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" || hash == "" {
		return nil, ErrNoCredentials
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, err
	}
	return &Credentials{username: username, hash: []byte(hash)}, nil
}

func (c *Credentials) Username() string { return c.username }

// Verify always runs the bcrypt comparison so a wrong username costs the
// same as a wrong password.
func (c *Credentials) Verify(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(c.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(c.hash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
