package auth

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alan16168/review-system-sub000/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrMissingUser  = errors.New("token has no user id")
)

// JWTClaims represents the claims in a JWT token
type JWTClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service verifies identity assertions issued by the login service.
// A PEM encoded EC private key secret selects ES256, anything else is an HS256 shared secret.
type Service struct {
	method     jwt.SigningMethod
	signingKey any
	verifyKey  any
	issuer     string
}

// NewService creates a new authentication service
func NewService(cfg *config.JWTConfig) (*Service, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is empty")
	}

	s := &Service{issuer: cfg.Issuer}

	// .env files carry PEM keys on one line with escaped newlines
	secret := strings.ReplaceAll(cfg.Secret, `\n`, "\n")
	if block, _ := pem.Decode([]byte(secret)); block != nil {
		privateKey, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse EC private key: %w", err)
		}
		s.method = jwt.SigningMethodES256
		s.signingKey = privateKey
		s.verifyKey = &privateKey.PublicKey
		return s, nil
	}

	s.method = jwt.SigningMethodHS256
	s.signingKey = []byte(cfg.Secret)
	s.verifyKey = []byte(cfg.Secret)
	return s, nil
}

// Algorithm returns the JWT alg the service signs and accepts
func (s *Service) Algorithm() string {
	return s.method.Alg()
}

// GenerateToken signs a token for a user. Used by the seed command and tests.
func (s *Service) GenerateToken(userID int64, email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(s.method, claims)
	tokenString, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.verifyKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID <= 0 {
		return nil, ErrMissingUser
	}

	return claims, nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// VerifyPassword verifies a password against a hash
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// EncodeECPrivateKey PEM-encodes an EC private key in the format NewService accepts
func EncodeECPrivateKey(key *ecdsa.PrivateKey) (string, error) {
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return "", fmt.Errorf("failed to marshal EC private key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})), nil
}
