package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestJWT(now time.Time) *JWTService {
	svc := NewJWTService(&JWTConfig{
		SecretKey:     []byte("test-secret"),
		TokenDuration: time.Hour,
		Issuer:        "niyyah-test",
	})
	svc.now = func() time.Time { return now }
	return svc
}

func TestJWTService_RoundTrip(t *testing.T) {
	now := time.Now()
	svc := newTestJWT(now)

	token, expiresAt, err := svc.GenerateToken("laptop")
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), expiresAt, time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "laptop", claims.Device)
}

func TestJWTService_Expired(t *testing.T) {
	issued := time.Now()
	svc := newTestJWT(issued)
	token, _, err := svc.GenerateToken("laptop")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, _, err := newTestJWT(time.Now()).GenerateToken("laptop")
	require.NoError(t, err)

	other := NewJWTService(&JWTConfig{SecretKey: []byte("other"), TokenDuration: time.Hour, Issuer: "niyyah-test"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractTokenFromBearer(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromBearer("Bearer abc"))
	assert.Equal(t, "abc", ExtractTokenFromBearer("bearer abc"))
	assert.Equal(t, "", ExtractTokenFromBearer("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromBearer("Bearer "))
}

func TestPasswordService(t *testing.T) {
	svc := NewPasswordServiceWithCost(bcrypt.MinCost)

	_, err := svc.HashPassphrase("short")
	assert.Error(t, err)

	hash, err := svc.HashPassphrase("correct horse battery")
	require.NoError(t, err)
	assert.NoError(t, svc.VerifyPassphrase(hash, "correct horse battery"))
	assert.ErrorIs(t, svc.VerifyPassphrase(hash, "wrong horse battery"), ErrInvalidPassphrase)
}

func TestMiddleware_RequireAuth(t *testing.T) {
	svc := newTestJWT(time.Now())
	token, _, err := svc.GenerateToken("phone")
	require.NoError(t, err)

	var device string
	next := func(w http.ResponseWriter, r *http.Request) {
		device, _ = GetDeviceFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}

	tests := []struct {
		name   string
		mw     *Middleware
		header string
		want   int
	}{
		{"disabled", NewMiddleware(nil, zap.NewNop()), "", http.StatusNoContent},
		{"missing header", NewMiddleware(svc, zap.NewNop()), "", http.StatusUnauthorized},
		{"bad scheme", NewMiddleware(svc, zap.NewNop()), "Token " + token, http.StatusUnauthorized},
		{"garbage token", NewMiddleware(svc, zap.NewNop()), "Bearer nope", http.StatusUnauthorized},
		{"valid", NewMiddleware(svc, zap.NewNop()), "Bearer " + token, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			tt.mw.RequireAuth(next)(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				var body ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.NotEmpty(t, body.Message)
			}
		})
	}
	assert.Equal(t, "phone", device)
}

func TestAuthHandlers_IssueToken(t *testing.T) {
	passwords := NewPasswordServiceWithCost(bcrypt.MinCost)
	hash, err := passwords.HashPassphrase("correct horse battery")
	require.NoError(t, err)
	jwtSvc := newTestJWT(time.Now())
	h := NewAuthHandlers(jwtSvc, passwords, hash, zap.NewNop())

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/token", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		h.IssueToken(rec, req)
		return rec
	}

	rec := post(`{"passphrase":"correct horse battery","device":"tablet"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	claims, err := jwtSvc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "tablet", claims.Device)

	assert.Equal(t, http.StatusUnauthorized, post(`{"passphrase":"nope nope nope"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{`).Code)

	disabled := NewAuthHandlers(nil, passwords, "", zap.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", bytes.NewBufferString(`{}`))
	rec = httptest.NewRecorder()
	disabled.IssueToken(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
