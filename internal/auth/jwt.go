// Package auth issues and verifies the HS256 bearer tokens the API uses and
// handles password hashing.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	// ErrInvalidToken covers malformed tokens and bad signatures
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned for well-formed tokens past their exp claim
	ErrTokenExpired = errors.New("token expired")
)

// TokenProvider signs and verifies HS256 JWTs
type TokenProvider struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenProvider creates a provider with the given signing secret and
// token lifetime
func NewTokenProvider(secret string, ttl time.Duration) *TokenProvider {
	return &TokenProvider{secret: []byte(secret), ttl: ttl}
}

// Claims is the token payload. UserID mirrors sub for clients that read
// either field.
type Claims struct {
	Sub    string `json:"sub,omitempty"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Exp    int64  `json:"exp"`
	Iat    int64  `json:"iat"`
}

// Generate signs a token for the user, valid for the provider's TTL
func (p *TokenProvider) Generate(userID, email string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(p.ttl)

	header := map[string]string{"alg": "HS256", "typ": "JWT"}
	claims := Claims{
		Sub:    userID,
		UserID: userID,
		Email:  email,
		Exp:    expiresAt.Unix(),
		Iat:    now.Unix(),
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", time.Time{}, err
	}
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", time.Time{}, err
	}

	signingInput := base64.RawURLEncoding.EncodeToString(headerJSON) +
		"." + base64.RawURLEncoding.EncodeToString(payloadJSON)
	return signingInput + "." + signHS256(signingInput, p.secret), expiresAt, nil
}

// Parse verifies the signature and expiry and returns the claims
func (p *TokenProvider) Parse(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	signingInput := parts[0] + "." + parts[1]
	if !verifyHS256(signingInput, parts[2], p.secret) {
		return nil, ErrInvalidToken
	}

	payloadJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(payloadJSON, &claims); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		claims.UserID = claims.Sub
	}
	if claims.Exp > 0 && time.Now().UTC().Unix() > claims.Exp {
		return nil, ErrTokenExpired
	}
	return &claims, nil
}

func signHS256(input string, secret []byte) string {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(input))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func verifyHS256(input, signature string, secret []byte) bool {
	return hmac.Equal([]byte(signature), []byte(signHS256(input, secret)))
}
