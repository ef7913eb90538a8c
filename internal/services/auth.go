package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"portfolio-backend-go/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Session is the caller identity carried by an access token.
type Session struct {
	UserID   int
	Username string
	IsAdmin  bool
}

type TokenService struct {
	Secret    []byte
	Issuer    string
	AccessTTL time.Duration
	Now       func() time.Time
}

func (t TokenService) now() time.Time {
	if t.Now != nil {
		return t.Now().UTC()
	}
	return time.Now().UTC()
}

func (t TokenService) CreateAccessToken(user models.User) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.AccessTTL)
	claims := jwt.MapClaims{
		"iss":      t.Issuer,
		"sub":      strconv.Itoa(user.ID),
		"jti":      uuid.NewString(),
		"typ":      "access",
		"username": user.Username,
		"admin":    user.IsAdmin,
		"iat":      now.Unix(),
		"exp":      exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.Secret)
	return signed, exp, err
}

func (t TokenService) ParseAccessToken(tokenStr string) (Session, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	},
		jwt.WithIssuer(t.Issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if typ, _ := claims["typ"].(string); typ != "access" {
		return Session{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	userID, err := strconv.Atoi(sub)
	if err != nil || userID <= 0 {
		return Session{}, ErrInvalidToken
	}
	username, _ := claims["username"].(string)
	admin, _ := claims["admin"].(bool)
	return Session{UserID: userID, Username: username, IsAdmin: admin}, nil
}
