package authenticating

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vfg2006/shop-analyzer-api/internal/config"
	"github.com/vfg2006/shop-analyzer-api/internal/domain"
	"github.com/vfg2006/shop-analyzer-api/pkg/log"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

type Authenticator interface {
	LoginUser(email, password string) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
}

// Service autentica os operadores configurados em AUTH_OPERATORS
type Service struct {
	operators map[string]domain.Operator
	secretKey string
	tokenTTL  time.Duration
	clock     func() time.Time
}

func NewService(cfg *config.Config) *Service {
	operators := make(map[string]domain.Operator, len(cfg.Auth.Operators))
	for _, operator := range cfg.Auth.Operators {
		operator.Email = handleEmail(operator.Email)
		operators[operator.Email] = operator
	}

	ttl := cfg.Auth.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	return &Service{
		operators: operators,
		secretKey: cfg.Auth.Secret,
		tokenTTL:  ttl,
		clock:     time.Now,
	}
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}

func (s *Service) LoginUser(email, password string) (string, error) {
	if email == "" || password == "" {
		return "", NewAuthError(ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	email = handleEmail(email)

	// Operador desconhecido e senha errada geram o mesmo erro
	operator, ok := s.operators[email]
	if !ok {
		log.L.WithField("user_email", email).Warn("Tentativa de login de operador não configurado")
		return "", NewAuthError(ErrInvalidCredentials, "").ForOperator(email)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(password)); err != nil {
		return "", NewAuthError(ErrInvalidCredentials, "").ForOperator(email)
	}

	token, err := s.generateJWT(operator)
	if err != nil {
		return "", NewAuthError(err, "Erro ao gerar token de autenticação")
	}

	return token, nil
}

func (s *Service) generateJWT(operator domain.Operator) (string, error) {
	now := s.clock()
	claims := domain.Claims{
		UserEmail:  operator.Email,
		UserRoleID: operator.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operator.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	}, jwt.WithTimeFunc(s.clock))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, "")
		}
		return nil, NewAuthError(ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, NewAuthError(ErrInvalidToken, "")
	}

	return claims, nil
}
