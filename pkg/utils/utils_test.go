package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", 9)
	require.NoError(t, err)

	claims, err := ValidateToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(9), claims.UserID)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt.Time, time.Minute)

	_, err = ValidateToken("other", token)
	assert.Error(t, err)
}

func TestToken_Expired(t *testing.T) {
	claims := &Claims{
		UserID: 9,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ValidateToken("secret", token)
	assert.Error(t, err)
}

func TestToken_RejectsZeroUser(t *testing.T) {
	token, err := GenerateToken("secret", 0)
	require.NoError(t, err)

	_, err = ValidateToken("secret", token)
	assert.Error(t, err)
}

func TestSanitizeMessageContent(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "  hello  ", want: "hello"},
		{in: "a < b", want: "a &lt; b"},
		{in: "hi<script>alert(1)</script>", want: "hi"},
		{in: "   ", wantErr: true},
		{in: "<script>x</script>", wantErr: true},
		{in: strings.Repeat("я", MaxMessageLength), want: strings.Repeat("я", MaxMessageLength)},
		{in: strings.Repeat("a", MaxMessageLength+1), wantErr: true},
	}

	for _, tt := range tests {
		got, err := SanitizeMessageContent(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%minsk%", ContainsPattern("  MinSK "))
	assert.Equal(t, `%50\%\_off%`, ContainsPattern("50%_off"))
	assert.Equal(t, `%a\\b%`, ContainsPattern(`a\b`))
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2025-01-02", " 2025-01-02 ", "2025-01-02T15:04:05Z", "2025-01-02T23:00:00+03:00"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s parsed as %s", in, got)
	}

	for _, in := range []string{"", "02.01.2025", "2025-13-01"} {
		_, err := ParseDate(in)
		assert.Error(t, err, in)
	}
}
