package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, secret []byte, method jwt.SigningMethod, claims OperatorClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	require.NoError(t, err)
	return tok
}

func TestRequireOperator(t *testing.T) {
	secret := []byte("s3cret")
	var seen string
	h := RequireOperator(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = OperatorFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad signature", "Bearer " + signed(t, []byte("other"), jwt.SigningMethodHS256, OperatorClaims{
			Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "ops-1", ExpiresAt: future},
		}), http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, secret, jwt.SigningMethodHS256, OperatorClaims{
			Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "ops-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		}), http.StatusUnauthorized},
		{"other algorithm", "Bearer " + signed(t, secret, jwt.SigningMethodHS512, OperatorClaims{
			Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "ops-1", ExpiresAt: future},
		}), http.StatusUnauthorized},
		{"no subject", "Bearer " + signed(t, secret, jwt.SigningMethodHS256, OperatorClaims{
			Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future},
		}), http.StatusUnauthorized},
		{"not admin", "Bearer " + signed(t, secret, jwt.SigningMethodHS256, OperatorClaims{
			Role: "viewer", RegisteredClaims: jwt.RegisteredClaims{Subject: "ops-1", ExpiresAt: future},
		}), http.StatusForbidden},
		{"admin", "Bearer " + signed(t, secret, jwt.SigningMethodHS256, OperatorClaims{
			Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "ops-1", ExpiresAt: future},
		}), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodPost, "/transactions/x/release", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, "ops-1", seen)
			}
		})
	}
}

func TestRequireOperator_DisabledUsesHeader(t *testing.T) {
	var seen string
	h := RequireOperator(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = OperatorFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/transactions/x/refund", nil)
	req.Header.Set(OperatorHeader, "ops-9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops-9", seen)
}
