package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/courseforge/courseforge-backend/internal/platform/ctxutil"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authRouter(t *testing.T) (*gin.Engine, *uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	am := NewAuthMiddleware(log, testSecret)

	var seenUser uuid.UUID
	r := gin.New()
	r.Use(am.RequireAuth())
	r.GET("/protected", func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd != nil {
			seenUser = rd.UserID
		}
		c.Status(http.StatusNoContent)
	})
	return r, &seenUser
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	r, seenUser := authRouter(t)
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userID.String(), time.Hour))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: want %d got %d", http.StatusNoContent, rec.Code)
	}
	if *seenUser != userID {
		t.Fatalf("request data user: want %s got %s", userID, *seenUser)
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	r, _ := authRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want %d got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	r, _ := authRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, uuid.New().String(), -time.Hour))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want %d got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireAuthRejectsWrongSecret(t *testing.T) {
	r, _ := authRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", uuid.New().String(), time.Hour))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want %d got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireAuthRejectsNonUUIDSubject(t *testing.T) {
	r, _ := authRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "not-a-uuid", time.Hour))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: want %d got %d", http.StatusForbidden, rec.Code)
	}
}
