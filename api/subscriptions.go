package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/silvertalent/backend/internal/models"
	"github.com/silvertalent/backend/pkg/repository"
)

type SubscriptionsHandler struct {
	subRepo repository.SubscriptionRepo
}

func NewSubscriptionsHandler(sr repository.SubscriptionRepo) *SubscriptionsHandler {
	return &SubscriptionsHandler{subRepo: sr}
}

type subscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe registers an email for job alerts. Duplicates get a 409.
func (h *SubscriptionsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request.", http.StatusBadRequest)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		writeError(w, "Email is required.", http.StatusBadRequest)
		return
	}

	if _, err := h.subRepo.CreateSubscription(r.Context(), email); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeError(w, fmt.Sprintf("%s is already subscribed.", email), http.StatusConflict)
			return
		}
		logger.Error("create subscription", "err", err)
		writeError(w, "Server error: Could not process subscription.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"message": fmt.Sprintf("Successfully subscribed %s for job alerts!", email)}, http.StatusOK)
}

func (h *SubscriptionsHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.subRepo.ListSubscriptions(r.Context())
	if err != nil {
		logger.Error("list subscriptions", "err", err)
		writeError(w, "Server error fetching subscriptions.", http.StatusInternalServerError)
		return
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	writeJSON(w, subs, http.StatusOK)
}

func (h *SubscriptionsHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Subscription not found.", http.StatusNotFound)
		return
	}

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request.", http.StatusBadRequest)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		writeError(w, "Email is required.", http.StatusBadRequest)
		return
	}

	if err := h.subRepo.UpdateSubscription(r.Context(), id, email); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeError(w, fmt.Sprintf("%s is already subscribed.", email), http.StatusConflict)
			return
		}
		logger.Error("update subscription", "id", id, "err", err)
		writeError(w, "Server error updating subscription.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"message": "Subscription updated."}, http.StatusOK)
}

func (h *SubscriptionsHandler) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Subscription not found.", http.StatusNotFound)
		return
	}

	if err := h.subRepo.DeleteSubscription(r.Context(), id); err != nil {
		logger.Error("delete subscription", "id", id, "err", err)
		writeError(w, "Server error deleting subscription.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"message": "Subscription deleted."}, http.StatusOK)
}
