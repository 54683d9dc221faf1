package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bookswap/internal/domain"
	"bookswap/internal/repos"
)

const tokenTTL = 7 * 24 * time.Hour

type AuthService struct {
	Users  *repos.UserRepo
	Secret []byte
}

func NewAuthService(users *repos.UserRepo, secret string) *AuthService {
	return &AuthService{Users: users, Secret: []byte(secret)}
}

func (s *AuthService) Signup(username, email, password string) (string, *domain.User, error) {
	if _, err := s.Users.ByEmail(email); err == nil {
		return "", nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	} else if !repos.IsNotFound(err) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return "", nil, err
	}
	u := domain.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    email,
		Hash:     string(hash),
	}
	if err := s.Users.Create(u); err != nil {
		return "", nil, err
	}
	stored, err := s.Users.ByID(u.ID)
	if err != nil {
		return "", nil, err
	}
	tok, err := s.issueToken(stored)
	return tok, stored, err
}

func (s *AuthService) Login(email, password string) (string, *domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	tok, err := s.issueToken(u)
	return tok, u, err
}

func (s *AuthService) issueToken(u *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// VerifyToken returns the user id a bearer token was issued to.
func (s *AuthService) VerifyToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: invalid or expired token", domain.ErrUnauthorized)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: invalid token claims", domain.ErrUnauthorized)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("%w: invalid token claims", domain.ErrUnauthorized)
	}
	return sub, nil
}

// CurrentUser resolves a bearer token to its user.
func (s *AuthService) CurrentUser(tokenStr string) (*domain.User, error) {
	uid, err := s.VerifyToken(tokenStr)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.ByID(uid)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}
