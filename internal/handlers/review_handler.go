package handlers

import (
	"context"
	"net/http"

	"github.com/Alan16168/review-system-sub000/internal/models"
)

// ReviewService loads and deletes reviews
type ReviewService interface {
	Get(ctx context.Context, reviewID, callerID int64) (*models.ReviewDetail, error)
	Delete(ctx context.Context, reviewID, callerID int64) error
}

// ReviewHandler handles review HTTP requests
type ReviewHandler struct {
	reviews ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Get returns a review
// @Summary Get review
// @Description Returns the review with creator and team names
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 200 {object} models.ReviewDetail
// @Failure 403 {object} map[string]string "No access"
// @Failure 404 {object} map[string]string "Review not found"
// @Router /reviews/{id} [get]
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(r, "id")
	if !ok {
		respondWithBadRequest(w, r, ErrMsgInvalidReviewID)
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	review, err := h.reviews.Get(r.Context(), reviewID, userID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}

// Delete removes a review and its answer sets
// @Summary Delete review
// @Description Review owner or a team owner/admin
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} map[string]string "Not allowed"
// @Failure 404 {object} map[string]string "Review not found"
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(r, "id")
	if !ok {
		respondWithBadRequest(w, r, ErrMsgInvalidReviewID)
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.reviews.Delete(r.Context(), reviewID, userID); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
