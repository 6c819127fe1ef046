package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Alan16168/review-system-sub000/internal/middleware"
	"github.com/Alan16168/review-system-sub000/internal/service"
	"github.com/Alan16168/review-system-sub000/pkg/validator"
)

// AnswersRequest is the body of create and update calls
type AnswersRequest struct {
	Answers service.AnswerPayload `json:"answers"`
}

// decodeAnswers reads an AnswersRequest. An empty body or a missing
// "answers" key yields an empty payload.
func decodeAnswers(w http.ResponseWriter, r *http.Request) (service.AnswerPayload, error) {
	var req AnswersRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if req.Answers == nil {
		req.Answers = service.AnswerPayload{}
	}
	return req.Answers, nil
}

// pathID parses a positive id that fits the INTEGER id columns
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 32)
	return id, err == nil && id > 0
}

func pathSetNumber(r *http.Request) (int, bool) {
	n, err := validator.ParsePositiveInt("set number", r.PathValue("setNumber"))
	return n, err == nil
}

// callerID returns the authenticated user or writes 401
func callerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return 0, false
	}
	return userID, true
}
