package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"
    "fmt"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp.  Access tokens are sent in the Authorization header when
// calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Claims are the application specific values carried by an access token.
type Claims struct {
    UserID uint64
    Status string // "normal" or "loyal"
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The subject is
// the decimal user ID and the custom "status" claim carries the loyalty
// tier.  Standard exp and iat claims are set from ttlMin.
func NewAccessToken(secret string, userID uint64, status string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":    strconv.FormatUint(userID, 10),
        "status": status,
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

// ParseAccessToken verifies raw with secret and extracts its claims.  Only
// HMAC signatures are accepted.
func ParseAccessToken(secret, raw string) (Claims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
        }
        return []byte(secret), nil
    }, jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Claims{}, ErrInvalidToken
    }
    sub, err := mc.GetSubject()
    if err != nil {
        return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
    }
    id, err := strconv.ParseUint(sub, 10, 64)
    if err != nil || id == 0 {
        return Claims{}, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, sub)
    }
    status, _ := mc["status"].(string)
    return Claims{UserID: id, Status: status}, nil
}
