package utils // package utils provides helper functions for token creation

import (
    "errors" // errors reports bad arguments
    "time"   // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
type AccessToken struct {
    Token string    `json:"access_token"` // the serialized JWT string
    Exp   time.Time `json:"expires_at"`   // the UTC expiration time
}

// ErrEmptySecret is returned when asked to sign with an empty secret.
var ErrEmptySecret = errors.New("jwt secret is empty")

// NewAccessToken builds and signs an HS256 JWT for a user.  Production tokens
// come from the account service; this one is used by the seatmap CLI to mint
// development tokens and by handler tests.  The JWT carries sub, role, exp
// and iat, matching what middleware.JWTAuth reads.
func NewAccessToken(secret string, userID uint64, role string, ttl time.Duration) (AccessToken, error) {
    if secret == "" {
        return AccessToken{}, ErrEmptySecret
    }
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}
