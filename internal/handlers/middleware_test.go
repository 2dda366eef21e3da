package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"webflash/internal/service"

	"github.com/gin-gonic/gin"
)

// secureRouter mounts the auth middleware in front of a handler echoing the user id.
func secureRouter(auth *mockAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&service.Service{Authorization: auth}, nil)
	r.GET("/secure", h.userIdMiddleware, func(c *gin.Context) {
		uid, _ := c.Get("userId")
		c.JSON(http.StatusOK, gin.H{"userId": uid})
	})
	return r
}

func TestUserIDMiddleware(t *testing.T) {
	cases := []struct {
		name      string
		header    string
		parseErr  error
		wantCode  int
		wantError string
		wantToken string
	}{
		{name: "no header", wantCode: http.StatusUnauthorized, wantError: "missing Authorization header"},
		{name: "wrong scheme", header: "Token abc", wantCode: http.StatusUnauthorized, wantError: "invalid Authorization header format"},
		{name: "scheme only", header: "Bearer", wantCode: http.StatusUnauthorized, wantError: "invalid Authorization header format"},
		{name: "blank token", header: "Bearer   ", wantCode: http.StatusUnauthorized, wantError: "invalid Authorization header format"},
		{name: "rejected token", header: "Bearer stale", parseErr: errors.New("expired"), wantCode: http.StatusUnauthorized, wantError: "invalid or expired token", wantToken: "stale"},
		{name: "accepted token", header: "Bearer  good-token ", wantCode: http.StatusOK, wantToken: "good-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{parseID: 123, parseErr: tc.parseErr}
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			secureRouter(auth).ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			var out struct {
				Error  string `json:"error"`
				UserID int    `json:"userId"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.wantError {
				t.Fatalf("error=%q, want %q", out.Error, tc.wantError)
			}
			if tc.wantCode == http.StatusOK && out.UserID != 123 {
				t.Fatalf("userId=%d", out.UserID)
			}
			if auth.lastParseToken != tc.wantToken {
				t.Fatalf("ParseToken got %q, want %q", auth.lastParseToken, tc.wantToken)
			}
		})
	}
}
