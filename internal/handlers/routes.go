package handlers

import (
	"net/http"

	"github.com/Alan16168/review-system-sub000/internal/middleware"
)

// Routes groups the API handlers for registration on a mux
type Routes struct {
	AnswerSets *AnswerSetHandler
	Reviews    *ReviewHandler
	Audit      *AuditHandler
}

// Register mounts every API route on mux behind authenticate. The audit log
// additionally requires the admin role claim.
func (rt *Routes) Register(mux *http.ServeMux, authenticate func(http.Handler) http.Handler) {
	protected := func(h http.HandlerFunc) http.Handler {
		return authenticate(h)
	}

	mux.Handle("GET "+APIBasePath+"/answer-sets/{reviewId}", protected(rt.AnswerSets.List))
	mux.Handle("POST "+APIBasePath+"/answer-sets/{reviewId}", protected(rt.AnswerSets.Create))
	mux.Handle("PUT "+APIBasePath+"/answer-sets/{reviewId}/{setNumber}", protected(rt.AnswerSets.Update))
	mux.Handle("DELETE "+APIBasePath+"/answer-sets/{reviewId}/{setNumber}", protected(rt.AnswerSets.Delete))
	mux.Handle("PUT "+APIBasePath+"/answer-sets/{reviewId}/{setNumber}/lock", protected(rt.AnswerSets.Lock))
	mux.Handle("PUT "+APIBasePath+"/answer-sets/{reviewId}/{setNumber}/unlock", protected(rt.AnswerSets.Unlock))

	mux.Handle("GET "+APIBasePath+"/reviews/{id}", protected(rt.Reviews.Get))
	mux.Handle("DELETE "+APIBasePath+"/reviews/{id}", protected(rt.Reviews.Delete))

	mux.Handle("GET "+APIBasePath+"/admin/audit-logs",
		authenticate(
			middleware.RequireRole("admin")(
				http.HandlerFunc(rt.Audit.ListAuditLogs),
			),
		),
	)
}
