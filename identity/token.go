package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims defines the structure of the data stored inside the JWT.
type IdentityClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// IssueToken creates a signed JWT binding the pseudonym to the client.
// The token is long-lived (about a year by default); expiry is governed by
// the caller-provided ttl so deployments can shorten it.
func IssueToken(username string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &IdentityClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "websocket-chat",
		},
	}

	// HS256 (HMAC with SHA256) signed with the server's cookie secret.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyToken parses and validates the signature and expiration of a JWT
// string, returning the embedded username.
func VerifyToken(raw string, secret []byte) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrSignatureInvalid
	}
	if !IsWellFormed(claims.Username) {
		return "", fmt.Errorf("token subject %q is not a minted username", claims.Username)
	}
	return claims.Username, nil
}
