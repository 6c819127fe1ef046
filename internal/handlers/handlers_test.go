package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/Alan16168/review-system-sub000/internal/auth"
	"github.com/Alan16168/review-system-sub000/internal/config"
	"github.com/Alan16168/review-system-sub000/internal/middleware"
	"github.com/Alan16168/review-system-sub000/internal/models"
	"github.com/Alan16168/review-system-sub000/internal/service"
	"github.com/Alan16168/review-system-sub000/internal/testutil"
)

type call struct {
	op        string
	reviewID  int64
	setNumber int
	callerID  int64
	mode      string
	payload   service.AnswerPayload
}

type stubServices struct {
	calls []call
	err   error

	sets   []models.AnswerSet
	review *models.ReviewDetail
	logs   []models.AuditLog
	limit  int
	offset int
}

func (s *stubServices) record(c call) { s.calls = append(s.calls, c) }

func (s *stubServices) List(ctx context.Context, reviewID, callerID int64, mode string) ([]models.AnswerSet, error) {
	s.record(call{op: "list", reviewID: reviewID, callerID: callerID, mode: mode})
	return s.sets, s.err
}

func (s *stubServices) Create(ctx context.Context, reviewID, callerID int64, payload service.AnswerPayload) (*models.CreateAnswerSetResult, error) {
	s.record(call{op: "create", reviewID: reviewID, callerID: callerID, payload: payload})
	if s.err != nil {
		return nil, s.err
	}
	return &models.CreateAnswerSetResult{Success: true, SetNumber: 3, SetID: 17}, nil
}

func (s *stubServices) Update(ctx context.Context, reviewID int64, setNumber int, callerID int64, payload service.AnswerPayload) error {
	s.record(call{op: "update", reviewID: reviewID, setNumber: setNumber, callerID: callerID, payload: payload})
	return s.err
}

func (s *stubServices) Delete(ctx context.Context, reviewID int64, setNumber int, callerID int64) error {
	s.record(call{op: "delete", reviewID: reviewID, setNumber: setNumber, callerID: callerID})
	return s.err
}

func (s *stubServices) Lock(ctx context.Context, reviewID int64, setNumber int, callerID int64) (*models.LockResult, error) {
	s.record(call{op: "lock", reviewID: reviewID, setNumber: setNumber, callerID: callerID})
	if s.err != nil {
		return nil, s.err
	}
	return &models.LockResult{Success: true, IsLocked: models.LockedYes, Affected: 2}, nil
}

func (s *stubServices) Unlock(ctx context.Context, reviewID int64, setNumber int, callerID int64) (*models.LockResult, error) {
	s.record(call{op: "unlock", reviewID: reviewID, setNumber: setNumber, callerID: callerID})
	if s.err != nil {
		return nil, s.err
	}
	return &models.LockResult{Success: true, IsLocked: models.LockedNo, Affected: 2}, nil
}

type stubReviews struct{ *stubServices }

func (s stubReviews) Get(ctx context.Context, reviewID, callerID int64) (*models.ReviewDetail, error) {
	s.record(call{op: "review.get", reviewID: reviewID, callerID: callerID})
	return s.review, s.err
}

func (s stubReviews) Delete(ctx context.Context, reviewID, callerID int64) error {
	s.record(call{op: "review.delete", reviewID: reviewID, callerID: callerID})
	return s.err
}

type stubAudit struct{ *stubServices }

func (s stubAudit) List(ctx context.Context, limit, offset int) ([]models.AuditLog, error) {
	s.limit, s.offset = limit, offset
	s.record(call{op: "audit.list"})
	return s.logs, s.err
}

var (
	testUser  = &models.User{ID: 7, Email: "member@test.com", Role: "user"}
	testAdmin = &models.User{ID: 1, Email: "admin@test.com", Role: "admin"}
)

func newTestMux(t *testing.T) (http.Handler, *stubServices) {
	t.Helper()

	tokens, err := auth.NewService(&config.JWTConfig{Secret: testutil.TestJWTSecret})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	stub := &stubServices{}
	routes := &Routes{
		AnswerSets: NewAnswerSetHandler(stub, stub),
		Reviews:    NewReviewHandler(stubReviews{stub}),
		Audit:      NewAuditHandler(stubAudit{stub}),
	}

	mux := http.NewServeMux()
	routes.Register(mux, middleware.NewAuthMiddleware(tokens).Authenticate)
	return mux, stub
}

func serve(t *testing.T, h http.Handler, method, url, body string, user *models.User) *testutil.TestResponse {
	t.Helper()
	helper := testutil.NewAuthHelper()

	var req *http.Request
	if body != "" {
		req = helper.CreateAuthenticatedRequest(t, method, url, strings.NewReader(body), user)
	} else {
		req = helper.CreateAuthenticatedRequest(t, method, url, nil, user)
	}

	rec := testutil.NewTestResponse()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *testutil.TestResponse, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
}

func TestAnswerSetRoutes(t *testing.T) {
	t.Run("list passes mode and wraps sets", func(t *testing.T) {
		mux, stub := newTestMux(t)
		stub.sets = []models.AnswerSet{{ID: 1, ReviewID: 5, SetNumber: 1, IsLocked: models.LockedNo}}

		rec := serve(t, mux, http.MethodGet, "/api/v1/answer-sets/5?mode=view", "", testUser)
		rec.AssertStatus(t, http.StatusOK)

		if c := stub.calls[0]; c.reviewID != 5 || c.callerID != testUser.ID || c.mode != "view" {
			t.Errorf("unexpected call %+v", c)
		}

		var body struct {
			Sets []map[string]any `json:"sets"`
		}
		decodeBody(t, rec, &body)
		if len(body.Sets) != 1 {
			t.Fatalf("expected 1 set, got %d", len(body.Sets))
		}
		answers, ok := body.Sets[0]["answers"].([]any)
		if !ok || len(answers) != 0 {
			t.Errorf("nil answers should encode as [], got %v", body.Sets[0]["answers"])
		}
		if v, ok := body.Sets[0]["locked_at"]; !ok || v != nil {
			t.Errorf("locked_at should be explicit null, got %v", v)
		}
	})

	t.Run("empty list is an array", func(t *testing.T) {
		mux, _ := newTestMux(t)

		rec := serve(t, mux, http.MethodGet, "/api/v1/answer-sets/5", "", testUser)
		rec.AssertStatus(t, http.StatusOK)
		if got := strings.TrimSpace(rec.Body.String()); got != `{"sets":[]}` {
			t.Errorf("body = %s", got)
		}
	})

	t.Run("create forwards answers", func(t *testing.T) {
		mux, stub := newTestMux(t)

		rec := serve(t, mux, http.MethodPost, "/api/v1/answer-sets/5",
			`{"answers": {"1": {"answer": "Goal"}, "2": {"answer": "Done"}}}`, testUser)
		rec.AssertStatus(t, http.StatusOK)

		payload := stub.calls[0].payload
		if len(payload) != 2 || string(payload["1"]) != `{"answer": "Goal"}` {
			t.Errorf("payload = %v", payload)
		}

		var result models.CreateAnswerSetResult
		decodeBody(t, rec, &result)
		if !result.Success || result.SetNumber != 3 || result.SetID != 17 {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("missing answers is an empty payload", func(t *testing.T) {
		mux, stub := newTestMux(t)

		rec := serve(t, mux, http.MethodPost, "/api/v1/answer-sets/5", `{}`, testUser)
		rec.AssertStatus(t, http.StatusOK)
		if p := stub.calls[0].payload; p == nil || len(p) != 0 {
			t.Errorf("payload = %#v", p)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		mux, stub := newTestMux(t)

		rec := serve(t, mux, http.MethodPost, "/api/v1/answer-sets/5", `{"answers": `, testUser)
		rec.AssertStatus(t, http.StatusBadRequest)

		rec = serve(t, mux, http.MethodPut, "/api/v1/answer-sets/5/1", `not json`, testUser)
		rec.AssertStatus(t, http.StatusBadRequest)

		if len(stub.calls) != 0 {
			t.Errorf("service should not be called, got %+v", stub.calls)
		}
	})

	t.Run("invalid path values", func(t *testing.T) {
		mux, stub := newTestMux(t)

		for _, url := range []string{
			"/api/v1/answer-sets/abc",
			"/api/v1/answer-sets/0",
			"/api/v1/answer-sets/3000000000",
		} {
			rec := serve(t, mux, http.MethodGet, url, "", testUser)
			rec.AssertStatus(t, http.StatusBadRequest)
		}
		rec := serve(t, mux, http.MethodDelete, "/api/v1/answer-sets/5/-1", "", testUser)
		rec.AssertStatus(t, http.StatusBadRequest)
		rec = serve(t, mux, http.MethodPut, "/api/v1/answer-sets/5/3000000000/lock", "", testUser)
		rec.AssertStatus(t, http.StatusBadRequest)
		rec = serve(t, mux, http.MethodGet, "/api/v1/reviews/2147483648", "", testUser)
		rec.AssertStatus(t, http.StatusBadRequest)

		if len(stub.calls) != 0 {
			t.Errorf("service should not be called, got %+v", stub.calls)
		}
	})

	t.Run("update, delete, lock and unlock", func(t *testing.T) {
		mux, stub := newTestMux(t)

		serve(t, mux, http.MethodPut, "/api/v1/answer-sets/5/2", `{"answers": {"1": "x"}}`, testUser).AssertStatus(t, http.StatusOK)
		serve(t, mux, http.MethodDelete, "/api/v1/answer-sets/5/2", "", testUser).AssertStatus(t, http.StatusOK)

		rec := serve(t, mux, http.MethodPut, "/api/v1/answer-sets/5/2/lock", "", testUser)
		rec.AssertStatus(t, http.StatusOK)
		var lock models.LockResult
		decodeBody(t, rec, &lock)
		if lock.IsLocked != models.LockedYes {
			t.Errorf("lock result = %+v", lock)
		}

		rec = serve(t, mux, http.MethodPut, "/api/v1/answer-sets/5/2/unlock", "", testUser)
		rec.AssertStatus(t, http.StatusOK)
		decodeBody(t, rec, &lock)
		if lock.IsLocked != models.LockedNo {
			t.Errorf("unlock result = %+v", lock)
		}

		want := []string{"update", "delete", "lock", "unlock"}
		for i, c := range stub.calls {
			if c.op != want[i] || c.reviewID != 5 || c.setNumber != 2 || c.callerID != testUser.ID {
				t.Errorf("call %d = %+v", i, c)
			}
		}
	})

	t.Run("requires a token", func(t *testing.T) {
		mux, _ := newTestMux(t)

		rec := testutil.NewTestResponse()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/answer-sets/5", nil)
		mux.ServeHTTP(rec, req)
		rec.AssertStatus(t, http.StatusUnauthorized)
	})
}

func TestRejectedRequestsAreLoggedAtWarn(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })

	mux, _ := newTestMux(t)

	requests := []struct {
		method, url, body, message string
	}{
		{http.MethodGet, "/api/v1/answer-sets/abc", "", ErrMsgInvalidReviewID},
		{http.MethodDelete, "/api/v1/answer-sets/5/0", "", ErrMsgInvalidSetNumber},
		{http.MethodPost, "/api/v1/answer-sets/5", `{"answers": `, ErrMsgInvalidRequestBody},
	}
	for _, req := range requests {
		buf.Reset()
		serve(t, mux, req.method, req.url, req.body, testUser).AssertStatus(t, http.StatusBadRequest)

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("%s %s: expected one log line, got %q", req.method, req.url, buf.String())
		}
		if entry["level"] != "WARN" || entry["error"] != req.message || entry["path"] != strings.Split(req.url, "?")[0] {
			t.Errorf("%s %s: unexpected log entry %v", req.method, req.url, entry)
		}
	}
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"invalid input", &service.Error{Kind: service.KindInvalidInput, Message: "invalid question number \"x\""}, http.StatusBadRequest, "invalid question number \"x\""},
		{"not found", &service.Error{Kind: service.KindNotFound, Message: "answer set not found"}, http.StatusNotFound, "answer set not found"},
		{"permission denied", &service.Error{Kind: service.KindPermissionDenied, Message: "answer set is locked"}, http.StatusForbidden, "answer set is locked"},
		{"invalid state", &service.Error{Kind: service.KindInvalidState, Message: "answer set is already locked"}, http.StatusBadRequest, "answer set is already locked"},
		{"internal", &service.Error{Kind: service.KindInternal, Message: "failed to create answer set", Err: errors.New("pq: connection refused")}, http.StatusInternalServerError, ErrMsgInternal},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, ErrMsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, stub := newTestMux(t)
			stub.err = tt.err

			rec := serve(t, mux, http.MethodPut, "/api/v1/answer-sets/5/1", `{"answers": {}}`, testUser)
			rec.AssertStatus(t, tt.status)

			var body map[string]string
			decodeBody(t, rec, &body)
			if body["error"] != tt.message {
				t.Errorf("error = %q, want %q", body["error"], tt.message)
			}
		})
	}
}

func TestReviewRoutes(t *testing.T) {
	mux, stub := newTestMux(t)
	teamName := "Retro Team"
	stub.review = &models.ReviewDetail{
		Review:      models.Review{ID: 9, Title: "Sprint retro", UserID: 1, TemplateID: 1},
		CreatorName: "Owner",
		TeamName:    &teamName,
	}

	rec := serve(t, mux, http.MethodGet, "/api/v1/reviews/9", "", testUser)
	rec.AssertStatus(t, http.StatusOK)
	var body map[string]any
	decodeBody(t, rec, &body)
	if body["title"] != "Sprint retro" || body["creator_name"] != "Owner" || body["team_name"] != "Retro Team" {
		t.Errorf("body = %v", body)
	}

	serve(t, mux, http.MethodDelete, "/api/v1/reviews/9", "", testUser).AssertStatus(t, http.StatusOK)

	stub.err = &service.Error{Kind: service.KindPermissionDenied, Message: "access denied"}
	serve(t, mux, http.MethodDelete, "/api/v1/reviews/9", "", testUser).AssertStatus(t, http.StatusForbidden)
}

func TestAuditRoutes(t *testing.T) {
	t.Run("admin only", func(t *testing.T) {
		mux, stub := newTestMux(t)

		serve(t, mux, http.MethodGet, "/api/v1/admin/audit-logs", "", testUser).AssertStatus(t, http.StatusForbidden)
		if len(stub.calls) != 0 {
			t.Errorf("service should not be called")
		}
	})

	t.Run("pagination", func(t *testing.T) {
		mux, stub := newTestMux(t)

		rec := serve(t, mux, http.MethodGet, "/api/v1/admin/audit-logs?limit=10&offset=20", "", testAdmin)
		rec.AssertStatus(t, http.StatusOK)
		if stub.limit != 10 || stub.offset != 20 {
			t.Errorf("limit/offset = %d/%d", stub.limit, stub.offset)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Errorf("body = %s", got)
		}
	})

	t.Run("invalid pagination", func(t *testing.T) {
		mux, _ := newTestMux(t)

		serve(t, mux, http.MethodGet, "/api/v1/admin/audit-logs?limit=ten", "", testAdmin).AssertStatus(t, http.StatusBadRequest)
		serve(t, mux, http.MethodGet, "/api/v1/admin/audit-logs?offset=-1", "", testAdmin).AssertStatus(t, http.StatusBadRequest)
	})
}
