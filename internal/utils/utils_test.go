package utils

import (
    "testing"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
    tok, err := NewAccessToken("secret", 42, "loyal", 5)
    require.NoError(t, err)

    c, err := ParseAccessToken("secret", tok.Token)
    require.NoError(t, err)
    assert.Equal(t, Claims{UserID: 42, Status: "loyal"}, c)

    _, err = ParseAccessToken("other", tok.Token)
    assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejects(t *testing.T) {
    expired, err := NewAccessToken("secret", 1, "normal", -1)
    require.NoError(t, err)
    _, err = ParseAccessToken("secret", expired.Token)
    assert.ErrorIs(t, err, ErrInvalidToken)

    noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": 9999999999}).SignedString([]byte("secret"))
    require.NoError(t, err)
    _, err = ParseAccessToken("secret", noSub)
    assert.ErrorIs(t, err, ErrInvalidToken)

    _, err = ParseAccessToken("secret", "garbage")
    assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
    h, err := HashPassword("password1", 4)
    require.NoError(t, err)
    assert.True(t, VerifyPassword(h, "password1"))
    assert.False(t, VerifyPassword(h, "password2"))
}

func TestHashPasswordEdges(t *testing.T) {
    _, err := HashPassword("", 4)
    assert.ErrorIs(t, err, ErrEmptyPassword)

    h, err := HashPassword("pw", 0)
    require.NoError(t, err)
    cost, err := bcrypt.Cost([]byte(h))
    require.NoError(t, err)
    assert.Equal(t, bcrypt.MinCost, cost)
}
