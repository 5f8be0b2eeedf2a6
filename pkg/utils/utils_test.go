package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)
	userID := uuid.New()
	tenantID := uuid.New()

	token, err := m.GenerateAccessToken(userID, tenantID, "a@shop.test", []string{"admin"}, []string{"view-statements"})
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, "a@shop.test", claims.Email)
	assert.Equal(t, []string{"admin"}, claims.Roles)
	assert.Equal(t, []string{"view-statements"}, claims.Permissions)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestJWTManager_RejectsOtherSecret(t *testing.T) {
	token, err := NewJWTManager("one", time.Hour, time.Hour).GenerateAccessToken(uuid.New(), uuid.Nil, "a@b.c", nil, nil)
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Hour, time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, -time.Minute)

	access, err := m.GenerateAccessToken(uuid.New(), uuid.Nil, "a@b.c", nil, nil)
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(access)
	assert.Error(t, err)

	refresh, err := m.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)
	_, err = m.ValidateRefreshToken(refresh)
	assert.Error(t, err)
}

func TestJWTManager_RefreshToken(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, time.Hour)
	userID := uuid.New()

	token, err := m.GenerateRefreshToken(userID)
	require.NoError(t, err)

	got, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPasswordHash("s3cret!", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Mama Mboga Shop":    "mama-mboga-shop",
		"  Duka la Juma!! ":  "duka-la-juma",
		"a -- b":             "a-b",
		"Ünïcode & Friends":  "ncode-friends",
		"---":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestGenerateNumbers(t *testing.T) {
	pattern := regexp.MustCompile(`^INV-[0-9A-F]{8}$`)
	a := GenerateInvoiceNo("INV-")
	b := GenerateInvoiceNo("INV-")
	assert.Regexp(t, pattern, a)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^RCT-[0-9A-F]{8}$`, GenerateReceiptNo("RCT-"))
}
