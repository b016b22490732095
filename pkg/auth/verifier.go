package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the Supabase access token claims the API relies on.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier checks Supabase access tokens. HS256 tokens are checked against
// the project JWT secret, RS256 tokens against the JWKS.
type Verifier struct {
	secret []byte
	jwks   *Provider
}

func NewVerifier(jwtSecret string, jwks *Provider) *Verifier {
	return &Verifier{secret: []byte(jwtSecret), jwks: jwks}
}

func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
		if len(v.secret) == 0 {
			return nil, fmt.Errorf("HS256 token received but SUPABASE_JWT_SECRET is not configured")
		}
		return v.secret, nil
	}

	if _, ok := token.Method.(*jwt.SigningMethodRSA); ok && v.jwks != nil {
		return v.jwks.KeyFunc(token)
	}

	return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
}
