package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geocatch/internal/pkg/jwtutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedEngine(secret string) *gin.Engine {
	r := gin.New()
	r.GET("/private", AuthJWT(secret), func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		name, _ := c.Get(ContextUsernameKey)
		c.JSON(http.StatusOK, gin.H{"id": id, "username": name})
	})
	return r
}

func TestAuthJWT(t *testing.T) {
	const secret = "mw-secret"
	valid, err := jwtutil.GenerateToken(secret, time.Hour, 9, "alice")
	require.NoError(t, err)
	expired, err := jwtutil.GenerateToken(secret, -time.Minute, 9, "alice")
	require.NoError(t, err)
	foreign, err := jwtutil.GenerateToken("other", time.Hour, 9, "alice")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid bearer", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "lower-case scheme", header: "bearer " + valid, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "raw token without scheme", header: valid, wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized},
	}

	r := newProtectedEngine(secret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"id":9,"username":"alice"}`, rec.Body.String())
			}
		})
	}
}
