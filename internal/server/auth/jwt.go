// Package auth mints and checks the service tokens that chat front ends
// present to the gRPC API.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the registered claims; Subject names the calling front end.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for client. A non-positive validity
// produces a token without expiry.
func GenerateToken(client string, secretKey []byte, validityDuration time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  client,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if validityDuration > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(validityDuration))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// GetClientFromToken validates tokenString and returns its subject.
// Expired tokens yield common.ErrTokenExpired, everything else that fails
// validation common.ErrInvalidToken.
func GetClientFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
