package middleware

import (
	"net/http"

	"github.com/Alan16168/review-system-sub000/internal/service"
)

// ClientInfo records the caller's IP and user agent for audit entries
// written further down the request.
func ClientInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := service.WithClientInfo(r.Context(), service.ClientInfo{
			IPAddress: getIP(r),
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
