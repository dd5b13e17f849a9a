package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clintmariano/careerlog/internal/api/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func whoami(cfg middleware.JWTConfig) *gin.Engine {
	r := gin.New()
	r.GET("/me", middleware.JWTAuth(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})
	return r
}

func call(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_AcceptsValidToken(t *testing.T) {
	r := whoami(middleware.JWTConfig{Secret: secret, Issuer: "idp", Audience: "careerlog"})

	tok := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
		Subject:   "user-123",
		Issuer:    "idp",
		Audience:  jwt.ClaimStrings{"careerlog"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	w := call(r, tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-123", w.Body.String())
}

func TestJWTAuth_Rejects(t *testing.T) {
	r := whoami(middleware.JWTConfig{Secret: secret, Issuer: "idp", Audience: "careerlog"})
	valid := jwt.RegisteredClaims{
		Subject:  "user-123",
		Issuer:   "idp",
		Audience: jwt.ClaimStrings{"careerlog"},
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"
	wrongAudience := valid
	wrongAudience.Audience = jwt.ClaimStrings{"other-app"}
	noSubject := valid
	noSubject.Subject = ""

	cases := map[string]string{
		"missing token":  "",
		"garbage":        "not-a-jwt",
		"wrong secret":   sign(t, jwt.SigningMethodHS256, []byte("nope"), valid),
		"wrong method":   sign(t, jwt.SigningMethodHS512, []byte(secret), valid),
		"expired":        sign(t, jwt.SigningMethodHS256, []byte(secret), expired),
		"wrong issuer":   sign(t, jwt.SigningMethodHS256, []byte(secret), wrongIssuer),
		"wrong audience": sign(t, jwt.SigningMethodHS256, []byte(secret), wrongAudience),
		"no subject":     sign(t, jwt.SigningMethodHS256, []byte(secret), noSubject),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			w := call(r, tok)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
		})
	}
}

func TestJWTAuth_MissingSecret(t *testing.T) {
	w := call(whoami(middleware.JWTConfig{}), "anything")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(middleware.RequestLogger(l))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Contains(t, buf.String(), `"route":"/ping"`)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-Id"))
}

func TestCORS_AllowsFrontendOrigin(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS("http://localhost:5173"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
