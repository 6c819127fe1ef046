package handlers

import (
	"context"
	"net/http"

	"github.com/Alan16168/review-system-sub000/internal/models"
	"github.com/Alan16168/review-system-sub000/internal/service"
)

// AnswerSetService is the answer set store used by AnswerSetHandler
type AnswerSetService interface {
	List(ctx context.Context, reviewID, callerID int64, mode string) ([]models.AnswerSet, error)
	Create(ctx context.Context, reviewID, callerID int64, payload service.AnswerPayload) (*models.CreateAnswerSetResult, error)
	Update(ctx context.Context, reviewID int64, setNumber int, callerID int64, payload service.AnswerPayload) error
	Delete(ctx context.Context, reviewID int64, setNumber int, callerID int64) error
}

// LockService changes batch locks
type LockService interface {
	Lock(ctx context.Context, reviewID int64, setNumber int, callerID int64) (*models.LockResult, error)
	Unlock(ctx context.Context, reviewID int64, setNumber int, callerID int64) (*models.LockResult, error)
}

// AnswerSetHandler handles answer set HTTP requests
type AnswerSetHandler struct {
	answerSets AnswerSetService
	locks      LockService
}

// NewAnswerSetHandler creates a new answer set handler
func NewAnswerSetHandler(answerSets AnswerSetService, locks LockService) *AnswerSetHandler {
	return &AnswerSetHandler{
		answerSets: answerSets,
		locks:      locks,
	}
}

// ListAnswerSetsResponse wraps the listed sets
type ListAnswerSetsResponse struct {
	Sets []models.AnswerSet `json:"sets"`
}

// SuccessResponse acknowledges an update or delete
type SuccessResponse struct {
	Success bool `json:"success"`
}

// List returns the answer sets of a review
// @Summary List answer sets
// @Description In edit mode returns the caller's sets; in view mode on a team review returns every author's sets
// @Tags Answer Sets
// @Produce json
// @Security BearerAuth
// @Param reviewId path int true "Review ID"
// @Param mode query string false "edit or view" default(edit)
// @Success 200 {object} ListAnswerSetsResponse
// @Failure 400 {object} map[string]string "Invalid mode or review ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not a team member"
// @Failure 404 {object} map[string]string "Review not found"
// @Router /answer-sets/{reviewId} [get]
func (h *AnswerSetHandler) List(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(r, "reviewId")
	if !ok {
		respondWithBadRequest(w, r, ErrMsgInvalidReviewID)
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	sets, err := h.answerSets.List(r.Context(), reviewID, userID, r.URL.Query().Get("mode"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ListAnswerSetsResponse{Sets: sets})
}

// Create stores a new answer set
// @Summary Create answer set
// @Description Stores a new answer set with the caller's next set number
// @Tags Answer Sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reviewId path int true "Review ID"
// @Param request body AnswersRequest true "Answers keyed by question number"
// @Success 200 {object} models.CreateAnswerSetResult
// @Failure 400 {object} map[string]string "Invalid payload"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "No access to review"
// @Failure 404 {object} map[string]string "Review not found"
// @Router /answer-sets/{reviewId} [post]
func (h *AnswerSetHandler) Create(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(r, "reviewId")
	if !ok {
		respondWithBadRequest(w, r, ErrMsgInvalidReviewID)
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	payload, err := decodeAnswers(w, r)
	if err != nil {
		respondWithBadRequest(w, r, ErrMsgInvalidRequestBody)
		return
	}

	result, err := h.answerSets.Create(r.Context(), reviewID, userID, payload)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Update upserts answers into one of the caller's sets
// @Summary Update answer set
// @Description Upserts the given answers; questions not in the payload keep their answers
// @Tags Answer Sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reviewId path int true "Review ID"
// @Param setNumber path int true "Set number"
// @Param request body AnswersRequest true "Answers keyed by question number"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} map[string]string "Invalid payload"
// @Failure 403 {object} map[string]string "Answer set is locked"
// @Failure 404 {object} map[string]string "Answer set not found"
// @Router /answer-sets/{reviewId}/{setNumber} [put]
func (h *AnswerSetHandler) Update(w http.ResponseWriter, r *http.Request) {
	reviewID, setNumber, userID, ok := h.setTarget(w, r)
	if !ok {
		return
	}

	payload, err := decodeAnswers(w, r)
	if err != nil {
		respondWithBadRequest(w, r, ErrMsgInvalidRequestBody)
		return
	}

	if err := h.answerSets.Update(r.Context(), reviewID, setNumber, userID, payload); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// Delete removes one of the caller's sets
// @Summary Delete answer set
// @Tags Answer Sets
// @Produce json
// @Security BearerAuth
// @Param reviewId path int true "Review ID"
// @Param setNumber path int true "Set number"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} map[string]string "Answer set is locked"
// @Failure 404 {object} map[string]string "Answer set not found"
// @Router /answer-sets/{reviewId}/{setNumber} [delete]
func (h *AnswerSetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reviewID, setNumber, userID, ok := h.setTarget(w, r)
	if !ok {
		return
	}

	if err := h.answerSets.Delete(r.Context(), reviewID, setNumber, userID); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// Lock freezes every author's set with this number
// @Summary Lock answer set batch
// @Description Review owner only
// @Tags Answer Sets
// @Produce json
// @Security BearerAuth
// @Param reviewId path int true "Review ID"
// @Param setNumber path int true "Set number"
// @Success 200 {object} models.LockResult
// @Failure 400 {object} map[string]string "Already locked"
// @Failure 403 {object} map[string]string "Not the review owner"
// @Failure 404 {object} map[string]string "Review or answer set not found"
// @Router /answer-sets/{reviewId}/{setNumber}/lock [put]
func (h *AnswerSetHandler) Lock(w http.ResponseWriter, r *http.Request) {
	h.changeLock(w, r, h.locks.Lock)
}

// Unlock releases every author's set with this number
// @Summary Unlock answer set batch
// @Description Review owner only
// @Tags Answer Sets
// @Produce json
// @Security BearerAuth
// @Param reviewId path int true "Review ID"
// @Param setNumber path int true "Set number"
// @Success 200 {object} models.LockResult
// @Failure 400 {object} map[string]string "Not locked"
// @Failure 403 {object} map[string]string "Not the review owner"
// @Failure 404 {object} map[string]string "Review or answer set not found"
// @Router /answer-sets/{reviewId}/{setNumber}/unlock [put]
func (h *AnswerSetHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	h.changeLock(w, r, h.locks.Unlock)
}

type lockFunc func(ctx context.Context, reviewID int64, setNumber int, callerID int64) (*models.LockResult, error)

func (h *AnswerSetHandler) changeLock(w http.ResponseWriter, r *http.Request, change lockFunc) {
	reviewID, setNumber, userID, ok := h.setTarget(w, r)
	if !ok {
		return
	}

	result, err := change(r.Context(), reviewID, setNumber, userID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *AnswerSetHandler) setTarget(w http.ResponseWriter, r *http.Request) (int64, int, int64, bool) {
	reviewID, ok := pathID(r, "reviewId")
	if !ok {
		respondWithBadRequest(w, r, ErrMsgInvalidReviewID)
		return 0, 0, 0, false
	}
	setNumber, ok := pathSetNumber(r)
	if !ok {
		respondWithBadRequest(w, r, ErrMsgInvalidSetNumber)
		return 0, 0, 0, false
	}
	userID, ok := callerID(w, r)
	if !ok {
		return 0, 0, 0, false
	}
	return reviewID, setNumber, userID, true
}
