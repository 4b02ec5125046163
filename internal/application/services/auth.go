package services

import (
	"crypto/subtle"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"filelink-api/config"
	"filelink-api/internal/application/ports"
	"filelink-api/internal/infrastructure/jwt"
)

const (
	RoleAdmin = "admin"
	tokenTTL  = time.Hour
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrFailedToGenerateToken = errors.New("failed to generate token")
)

type AuthService struct {
	admin      config.Admin
	jwtService *jwt.Service
}

func NewAuthService(admin config.Admin, jwtService *jwt.Service) ports.Auth {
	return &AuthService{
		admin:      admin,
		jwtService: jwtService,
	}
}

// Login issues an admin token. Admin login is disabled while no password
// hash is configured.
func (as *AuthService) Login(username, password string) (string, error) {
	if as.admin.PasswordHash == "" ||
		subtle.ConstantTimeCompare([]byte(username), []byte(as.admin.Username)) != 1 {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(as.admin.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := as.jwtService.GenerateJWT(username, RoleAdmin, tokenTTL)
	if err != nil {
		return "", ErrFailedToGenerateToken
	}

	return token, nil
}
