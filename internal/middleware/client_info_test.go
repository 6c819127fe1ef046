package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Alan16168/review-system-sub000/internal/service"
)

func TestClientInfo(t *testing.T) {
	var got context.Context
	handler := ClientInfo(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Context()
	}))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/answer-sets/1/1/lock", nil)
	req.RemoteAddr = "192.0.2.1:9000"
	req.Header.Set("User-Agent", "retro-client/1.0")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	info := service.ClientInfoFrom(got)
	if info.IPAddress != "192.0.2.1" || info.UserAgent != "retro-client/1.0" {
		t.Errorf("client info = %+v", info)
	}
}
