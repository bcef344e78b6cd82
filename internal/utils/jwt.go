package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"
    "fmt"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are sent in the Authorization header when calling
// protected endpoints; the expiry is also returned to the client so it
// knows when to sign in again.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Identity is what a verified token says about its bearer.
type Identity struct {
    UserID uint64
    Name   string
    Role   string
}

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for a user.  The claims
// carry sub and userId (both the user id), name, role, exp and iat.
func NewAccessToken(secret string, userID uint64, name, role string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":    userID,
        "userId": userID,
        "name":   name,
        "role":   role,
        "exp":    exp.Unix(),
        "iat":    now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature and expiry and decodes the identity.
// Only HMAC signing methods are accepted.
func ParseAccessToken(secret, raw string) (Identity, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
        }
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return Identity{}, ErrInvalidToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Identity{}, ErrInvalidToken
    }

    id, ok := claimUint(claims["sub"])
    if !ok {
        if id, ok = claimUint(claims["userId"]); !ok {
            return Identity{}, ErrInvalidToken
        }
    }
    role, _ := claims["role"].(string)
    if role == "" {
        return Identity{}, ErrInvalidToken
    }
    name, _ := claims["name"].(string)
    return Identity{UserID: id, Name: name, Role: role}, nil
}

// claimUint accepts the JSON number form a MapClaims decode produces.
func claimUint(v interface{}) (uint64, bool) {
    switch x := v.(type) {
    case float64:
        if x < 1 || x != float64(uint64(x)) {
            return 0, false
        }
        return uint64(x), true
    case uint64:
        return x, x > 0
    case int64:
        return uint64(x), x > 0
    default:
        return 0, false
    }
}
