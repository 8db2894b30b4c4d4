package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tutor-match/internal/domain"
)

// JWTService emite y valida access tokens para learners.
// La identidad completa (OAuth, refresh, revocacion) vive en el servicio de
// auth externo; aca solo se necesita el token que gatea el matching.
type JWTService struct {
	secret    []byte
	accessTTL time.Duration
	issuer    string
}

type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

var (
	ErrJWTInvalid = errors.New("jwt invalid")
	ErrJWTExpired = errors.New("jwt expired")
)

const RoleLearner = "learner"

func NewJWTService(secret string, accessTTL time.Duration) *JWTService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &JWTService{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		issuer:    "tutor-match",
	}
}

// AccessTTL expone la vigencia del token para la respuesta de login.
func (s *JWTService) AccessTTL() time.Duration { return s.accessTTL }

func (s *JWTService) GenerateAccessToken(learner domain.Learner) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrJWTInvalid
	}
	now := time.Now().UTC()
	claims := Claims{
		UserID: learner.ID,
		Email:  learner.Email,
		Role:   RoleLearner,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   learner.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ParseAccessToken(accessToken string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrJWTInvalid
	}
	if strings.TrimSpace(accessToken) == "" {
		return Claims{}, ErrJWTInvalid
	}

	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(accessToken, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrJWTExpired
		}
		return Claims{}, ErrJWTInvalid
	}

	if !s.isValidClaims(claims) {
		return Claims{}, ErrJWTInvalid
	}
	return claims, nil
}

func (s *JWTService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	if claims.Subject != claims.UserID {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
