package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Alan16168/review-system-sub000/internal/auth"
	"github.com/Alan16168/review-system-sub000/internal/config"
	"github.com/Alan16168/review-system-sub000/internal/models"
	"github.com/Alan16168/review-system-sub000/internal/testutil"
)

func newTestAuthMiddleware(t *testing.T) (*AuthMiddleware, *auth.Service) {
	t.Helper()
	svc, err := auth.NewService(&config.JWTConfig{Secret: testutil.TestJWTSecret})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return NewAuthMiddleware(svc), svc
}

func identityHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r)
		if !ok {
			t.Error("user id missing from context")
		}
		role, _ := GetUserRole(r)
		email, _ := GetUserEmail(r)
		w.Header().Set("X-User", email+"/"+role)
		if userID != 42 {
			t.Errorf("user id = %d, want 42", userID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	mw, svc := newTestAuthMiddleware(t)
	helper := testutil.NewAuthHelper()
	user := &models.User{ID: 42, Email: "owner@test.com", Role: "admin"}

	t.Run("valid token", func(t *testing.T) {
		req := helper.CreateAuthenticatedRequest(t, http.MethodGet, "/api/v1/answer-sets/1", nil, user)
		rec := testutil.NewTestResponse()

		mw.Authenticate(identityHandler(t)).ServeHTTP(rec, req)

		rec.AssertStatus(t, http.StatusOK)
		if got := rec.Header().Get("X-User"); got != "owner@test.com/admin" {
			t.Errorf("identity = %q", got)
		}
	})

	t.Run("lowercase scheme is accepted", func(t *testing.T) {
		token, err := helper.GenerateToken(user.ID, user.Email, user.Role)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer "+token)
		rec := testutil.NewTestResponse()

		mw.Authenticate(identityHandler(t)).ServeHTTP(rec, req)
		rec.AssertStatus(t, http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "empty token", header: "Bearer "},
		{name: "garbage token", header: "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := testutil.NewTestResponse()

			mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be called")
			})).ServeHTTP(rec, req)

			rec.AssertStatus(t, http.StatusUnauthorized)
		})
	}

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.GenerateToken(user.ID, user.Email, user.Role, -time.Minute)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := testutil.NewTestResponse()

		mw.Authenticate(identityHandler(t)).ServeHTTP(rec, req)

		rec.AssertStatus(t, http.StatusUnauthorized)
		if body := rec.Body.String(); body != `{"error":"Token has expired"}` {
			t.Errorf("body = %s", body)
		}
	})
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		userID int64
		role   string
		want   int
	}{
		{name: "admin allowed", userID: 1, role: "admin", want: http.StatusOK},
		{name: "user forbidden", userID: 2, role: "user", want: http.StatusForbidden},
		{name: "anonymous", userID: 0, role: "", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/audit-logs", nil)
			if tt.userID > 0 {
				req = req.WithContext(WithUser(req.Context(), tt.userID, "x@test.com", tt.role))
			}
			rec := testutil.NewTestResponse()

			RequireRole("admin")(ok).ServeHTTP(rec, req)
			rec.AssertStatus(t, tt.want)
		})
	}
}
