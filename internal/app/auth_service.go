package app

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"knowledge-assist/internal/pkg/jwtutil"
)

var ErrInvalidCredential = errors.New("invalid password")

// AdminRole is the only role this demo backend knows about; the token
// guards destructive operations (clear index, reset history cache).
const AdminRole = "admin"

// AuthService issues admin tokens against a single configured credential.
type AuthService struct {
	passwordHash  string
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthService(passwordHash, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		passwordHash:  passwordHash,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// IssueToken compares the password against the configured bcrypt hash and
// returns a signed admin JWT on success.
func (s *AuthService) IssueToken(password string) (string, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return "", ErrInvalidInput
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredential
	}
	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, AdminRole)
	if err != nil {
		return "", err
	}
	return token, nil
}
