package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hallbook/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "middleware-secret"

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return r[tokenID], nil
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func accessToken(t *testing.T, userID, role, jti string) string {
	return signed(t, jwt.MapClaims{
		"user_id": userID,
		"email":   userID + "@example.com",
		"role":    role,
		"type":    "access",
		"jti":     jti,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
}

// newEngine mounts /whoami behind mw; it answers with the session user id
// or "anonymous".
func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		if s, ok := CurrentSession(c); ok {
			c.String(http.StatusOK, s.UserID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/whoami", handlers...)
	return r
}

func get(r *gin.Engine, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestParseAccessToken(t *testing.T) {
	session, err := ParseAccessToken(testSecret, accessToken(t, "u1", "hall_owner", "jti-1"))
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if session.UserID != "u1" || session.Role != "hall_owner" || session.TokenID != "jti-1" || session.ExpiresAt.IsZero() {
		t.Errorf("session = %+v", session)
	}

	refresh := signed(t, jwt.MapClaims{"user_id": "u1", "type": "refresh", "exp": time.Now().Add(time.Hour).Unix()})
	if _, err := ParseAccessToken(testSecret, refresh); err == nil {
		t.Error("refresh token accepted")
	}
	expired := signed(t, jwt.MapClaims{"user_id": "u1", "type": "access", "exp": time.Now().Add(-time.Minute).Unix()})
	if _, err := ParseAccessToken(testSecret, expired); err == nil {
		t.Error("expired token accepted")
	}
	if _, err := ParseAccessToken("other-secret", accessToken(t, "u1", "customer", "j")); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestJWTAuth(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	r := newEngine(JWTAuthWithConfig(cfg, revokedSet{"gone": true}))

	tests := []struct {
		name string
		auth string
		code int
		body string
	}{
		{"no header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Token abc", http.StatusUnauthorized, ""},
		{"garbage", "Bearer abc", http.StatusUnauthorized, ""},
		{"revoked", "Bearer " + accessToken(t, "u1", "customer", "gone"), http.StatusUnauthorized, ""},
		{"valid", "Bearer " + accessToken(t, "u1", "customer", "live"), http.StatusOK, "u1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/whoami", tt.auth)
			if w.Code != tt.code {
				t.Fatalf("code = %d, want %d", w.Code, tt.code)
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.body)
			}
		})
	}
}

func TestStreamAuthAcceptsQueryToken(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	token := accessToken(t, "u2", "customer", "s")

	if w := get(newEngine(StreamAuthWithConfig(cfg, nil)), "/whoami?access_token="+token, ""); w.Code != http.StatusOK || w.Body.String() != "u2" {
		t.Errorf("stream auth: code = %d body = %q", w.Code, w.Body.String())
	}
	if w := get(newEngine(JWTAuthWithConfig(cfg, nil)), "/whoami?access_token="+token, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("header auth took a query token: code = %d", w.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	r := newEngine(OptionalAuthWithConfig(cfg, revokedSet{"gone": true}))

	if w := get(r, "/whoami", ""); w.Code != http.StatusOK || w.Body.String() != "anonymous" {
		t.Errorf("no token: %d %q", w.Code, w.Body.String())
	}
	if w := get(r, "/whoami", "Bearer nonsense"); w.Body.String() != "anonymous" {
		t.Errorf("bad token: %q", w.Body.String())
	}
	if w := get(r, "/whoami", "Bearer "+accessToken(t, "u3", "customer", "gone")); w.Body.String() != "anonymous" {
		t.Errorf("revoked token: %q", w.Body.String())
	}
	if w := get(r, "/whoami", "Bearer "+accessToken(t, "u3", "customer", "ok")); w.Body.String() != "u3" {
		t.Errorf("valid token: %q", w.Body.String())
	}
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	r := newEngine(JWTAuthWithConfig(cfg, nil), RequireOwnerOrAdmin())

	for role, want := range map[string]int{
		"hall_owner": http.StatusOK,
		"admin":      http.StatusOK,
		"customer":   http.StatusForbidden,
	} {
		if w := get(r, "/whoami", "Bearer "+accessToken(t, "u4", role, role)); w.Code != want {
			t.Errorf("%s: code = %d, want %d", role, w.Code, want)
		}
	}

	// without an auth middleware in front there is no session at all
	if w := get(newEngine(RequireOwnerOrAdmin()), "/whoami", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no session: code = %d", w.Code)
	}
}

func TestRevocationStoreWithoutRedis(t *testing.T) {
	store := NewRedisRevocationStore(nil)
	if err := store.Revoke(context.Background(), "t", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("Revoke: %v", err)
	}
	if revoked, err := store.IsRevoked(context.Background(), "t"); revoked || err != nil {
		t.Errorf("IsRevoked = %v, %v", revoked, err)
	}
}
