package token

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/auth-service/internal/model"
)

var (
	testKey  = Key("access-secret-access-secret-0001")
	otherKey = Key("refresh-secret-refresh-secret-01")
)

func TestIssueParse_Roundtrip(t *testing.T) {
	now := time.Now()

	token, err := Issue("user-1", PurposeAccess, testKey, time.Minute, now)
	require.NoError(t, err)

	subject, err := Parse(token, testKey, PurposeAccess, now)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

func TestIssue_DistinctTokens(t *testing.T) {
	now := time.Now()

	first, err := Issue("user-1", PurposeAccess, testKey, time.Minute, now)
	require.NoError(t, err)
	second, err := Issue("user-1", PurposeAccess, testKey, time.Minute, now)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestParse_Errors(t *testing.T) {
	now := time.Now()

	valid, err := Issue("user-1", PurposeAccess, testKey, time.Minute, now)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	noneHeader := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	unsigned := noneHeader + "." + parts[1] + "."

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
		Purpose: PurposeAccess,
	}).SignedString([]byte(testKey))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		Purpose:          PurposeAccess,
	}).SignedString([]byte(testKey))
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))},
		Purpose:          PurposeAccess,
	}).SignedString([]byte(testKey))
	require.NoError(t, err)

	refresh, err := Issue("user-1", PurposeRefresh, testKey, time.Minute, now)
	require.NoError(t, err)

	expired, err := Issue("user-1", PurposeAccess, testKey, -time.Minute, now)
	require.NoError(t, err)

	zeroTTL, err := Issue("user-1", PurposeAccess, testKey, 0, now)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		key     Key
		wantErr error
	}{
		{name: "empty", token: "", key: testKey, wantErr: model.ErrMalformedToken},
		{name: "garbage", token: "not-a-token", key: testKey, wantErr: model.ErrMalformedToken},
		{name: "bad base64", token: "a.b.c", key: testKey, wantErr: model.ErrMalformedToken},
		{name: "missing exp", token: noExp, key: testKey, wantErr: model.ErrMalformedToken},
		{name: "missing sub", token: noSub, key: testKey, wantErr: model.ErrMalformedToken},
		{name: "tampered signature", token: tampered, key: testKey, wantErr: model.ErrInvalidSignature},
		{name: "other key", token: valid, key: otherKey, wantErr: model.ErrInvalidSignature},
		{name: "alg none", token: unsigned, key: testKey, wantErr: model.ErrInvalidSignature},
		{name: "alg hs512", token: hs512, key: testKey, wantErr: model.ErrInvalidSignature},
		{name: "wrong purpose", token: refresh, key: testKey, wantErr: model.ErrWrongTokenType},
		{name: "expired", token: expired, key: testKey, wantErr: model.ErrTokenExpired},
		{name: "zero ttl", token: zeroTTL, key: testKey, wantErr: model.ErrTokenExpired},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			subject, err := Parse(tt.token, tt.key, PurposeAccess, now)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, subject)
		})
	}
}

func TestParse_SignatureCheckedBeforePurpose(t *testing.T) {
	now := time.Now()

	refresh, err := Issue("user-1", PurposeRefresh, otherKey, time.Minute, now)
	require.NoError(t, err)

	_, err = Parse(refresh, testKey, PurposeAccess, now)
	require.ErrorIs(t, err, model.ErrInvalidSignature)
}

func TestParse_PurposeCheckedBeforeExpiry(t *testing.T) {
	now := time.Now()

	refresh, err := Issue("user-1", PurposeRefresh, testKey, -time.Hour, now)
	require.NoError(t, err)

	_, err = Parse(refresh, testKey, PurposeAccess, now)
	require.ErrorIs(t, err, model.ErrWrongTokenType)
}

func TestParse_ExpiryBoundary(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)

	token, err := Issue("user-1", PurposeAccess, testKey, time.Minute, issued)
	require.NoError(t, err)

	_, err = Parse(token, testKey, PurposeAccess, issued.Add(time.Minute-time.Second))
	require.NoError(t, err)

	_, err = Parse(token, testKey, PurposeAccess, issued.Add(time.Minute))
	require.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestGenerateKey(t *testing.T) {
	first, err := GenerateKey()
	require.NoError(t, err)
	second, err := GenerateKey()
	require.NoError(t, err)

	assert.Len(t, first, KeySize)
	assert.NotEqual(t, first, second)
}
