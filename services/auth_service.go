package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/nayan91296/TT-scrore-board-sub000/utils"
)

const adminTokenTTL = 12 * time.Hour

// AuthService is the admin gate: a single bcrypt-hashed PIN unlocks a
// short-lived token that the middleware requires on every mutating
// route. There are no user accounts.
type AuthService interface {
	Login(ctx context.Context, pin string) (string, error)
}

type authService struct {
	pinHash   string
	jwtSecret []byte
}

func NewAuthService(pinHash string, jwtSecret []byte) AuthService {
	return &authService{pinHash: pinHash, jwtSecret: jwtSecret}
}

func (s *authService) Login(_ context.Context, pin string) (string, error) {
	if !utils.CheckPinHash(pin, s.pinHash) {
		return "", ErrInvalidPIN
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(adminTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
