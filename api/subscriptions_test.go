package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/silvertalent/backend/api"
	"github.com/silvertalent/backend/internal/models"
)

func subscribe(t *testing.T, h *api.SubscriptionsHandler, email string) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(map[string]string{"email": email})
	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", bytes.NewReader(b))
	rr := httptest.NewRecorder()
	h.Subscribe(rr, req)
	return rr
}

func TestSubscribe(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewSubscriptionsHandler(repo)

	rr := subscribe(t, h, "  Reader@Example.COM ")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Successfully subscribed reader@example.com") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}

	sub, err := repo.GetSubscriptionByEmail(context.Background(), "reader@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sub == nil {
		t.Fatalf("subscription not saved")
	}
}

func TestSubscribeDuplicate(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewSubscriptionsHandler(repo)

	if rr := subscribe(t, h, "reader@example.com"); rr.Code != http.StatusOK {
		t.Fatalf("first subscribe: %d", rr.Code)
	}
	rr := subscribe(t, h, "READER@example.com")
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "already subscribed") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestSubscribeMissingEmail(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewSubscriptionsHandler(repo)

	if rr := subscribe(t, h, "   "); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestUpdateSubscriptionConflict(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewSubscriptionsHandler(repo)
	ctx := context.Background()

	id, err := repo.CreateSubscription(ctx, "first@example.com")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.CreateSubscription(ctx, "second@example.com"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	b, _ := json.Marshal(map[string]string{"email": "second@example.com"})
	req := httptest.NewRequest(http.MethodPut, "/api/subscriptions/"+strconv.FormatInt(id, 10), bytes.NewReader(b))
	req = mux.SetURLVars(req, map[string]string{"id": strconv.FormatInt(id, 10)})
	rr := httptest.NewRecorder()
	h.UpdateSubscription(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rr.Code)
	}
}

func TestListAndDeleteSubscriptions(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewSubscriptionsHandler(repo)
	ctx := context.Background()

	id, err := repo.CreateSubscription(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil)
	rr := httptest.NewRecorder()
	h.ListSubscriptions(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", rr.Code)
	}
	var subs []models.Subscription
	if err := json.NewDecoder(rr.Body).Decode(&subs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscription got %d", len(subs))
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/subscriptions/"+strconv.FormatInt(id, 10), nil)
	req = mux.SetURLVars(req, map[string]string{"id": strconv.FormatInt(id, 10)})
	rr = httptest.NewRecorder()
	h.DeleteSubscription(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d", rr.Code)
	}
	if s, _ := repo.GetSubscriptionByEmail(ctx, "reader@example.com"); s != nil {
		t.Fatalf("subscription still present after delete")
	}
}
