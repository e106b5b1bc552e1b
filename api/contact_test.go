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
	"github.com/silvertalent/backend/pkg/repository"
)

func submitContact(t *testing.T, h *api.ContactHandler, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/contact-us", bytes.NewReader(b))
	rr := httptest.NewRecorder()
	h.SubmitContactForm(rr, req)
	return rr
}

func validContactPayload() map[string]any {
	return map[string]any{
		"yourName":        "  Priya Sharma  ",
		"yourEmail":       "Priya@Example.COM",
		"fullPhoneNumber": "+91 98765 43210",
		"countryName":     "India",
		"countryCode":     "+91",
		"yourMessage":     "I would like to learn more about open roles.",
	}
}

func TestSubmitContactFormNormalizes(t *testing.T) {
	repo := newTestRepo(t)
	notifier := &fakeNotifier{ready: true}
	h := api.NewContactHandler(repo, notifier, "owner@silvertalent.com")

	rr := submitContact(t, h, validContactPayload())
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected admin notification, got %d messages", len(notifier.sent))
	}

	subs, err := repo.ListSubmissions(context.Background(), repository.SubmissionFilter{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 submission got %d", len(subs))
	}
	if subs[0].Name != "Priya Sharma" {
		t.Fatalf("name not trimmed: %q", subs[0].Name)
	}
	if subs[0].Email != "priya@example.com" {
		t.Fatalf("email not lowercased: %q", subs[0].Email)
	}
	if subs[0].Status != models.SubmissionNew {
		t.Fatalf("status: %q", subs[0].Status)
	}
}

func TestSubmitContactFormRejectsBadEmail(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewContactHandler(repo, &fakeNotifier{ready: true}, "owner@silvertalent.com")

	payload := validContactPayload()
	payload["yourEmail"] = "not-an-email"
	rr := submitContact(t, h, payload)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}

	subs, _ := repo.ListSubmissions(context.Background(), repository.SubmissionFilter{Limit: 10})
	if len(subs) != 0 {
		t.Fatalf("invalid submission must not be saved")
	}
}

func TestSubmitContactFormMissingField(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewContactHandler(repo, &fakeNotifier{ready: true}, "")

	payload := validContactPayload()
	delete(payload, "yourMessage")
	rr := submitContact(t, h, payload)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestSubmitContactFormNotificationFailureIgnored(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewContactHandler(repo, &fakeNotifier{ready: true, fail: true}, "owner@silvertalent.com")

	rr := submitContact(t, h, validContactPayload())
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 despite notification failure, got %d", rr.Code)
	}
}

func seedSubmission(t *testing.T, repo repository.ContactRepo) int64 {
	t.Helper()
	id, err := repo.CreateSubmission(context.Background(), &models.ContactSubmission{
		Name: "Priya Sharma", Email: "priya@example.com", Phone: "+91 98765 43210",
		Message: "Hello", Status: models.SubmissionNew,
	})
	if err != nil {
		t.Fatalf("seed submission: %v", err)
	}
	return id
}

func putSubmissionStatus(t *testing.T, h *api.ContactHandler, id int64, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPut, "/api/contact-submissions/"+strconv.FormatInt(id, 10)+"/status", bytes.NewReader(b))
	req = mux.SetURLVars(req, map[string]string{"id": strconv.FormatInt(id, 10)})
	rr := httptest.NewRecorder()
	h.UpdateSubmissionStatus(rr, req)
	return rr
}

func TestUpdateSubmissionStatusStampsRepliedAt(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewContactHandler(repo, &fakeNotifier{}, "")
	id := seedSubmission(t, repo)

	// Replied with no note stamps the reply time.
	rr := putSubmissionStatus(t, h, id, map[string]any{"status": models.SubmissionReplied})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	sub, err := repo.GetSubmissionByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sub.Status != models.SubmissionReplied || sub.RepliedAt == nil {
		t.Fatalf("replied timestamp not stamped: %+v", sub)
	}
}

func TestUpdateSubmissionStatusWithNotes(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewContactHandler(repo, &fakeNotifier{}, "")
	id := seedSubmission(t, repo)

	rr := putSubmissionStatus(t, h, id, map[string]any{"status": models.SubmissionViewed, "adminNotes": "checked"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	sub, _ := repo.GetSubmissionByID(context.Background(), id)
	if sub.AdminNotes != "checked" {
		t.Fatalf("admin notes: %q", sub.AdminNotes)
	}
	if sub.RepliedAt != nil {
		t.Fatalf("non-replied status must not stamp the reply time")
	}
}

func TestUpdateSubmissionStatusInvalid(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewContactHandler(repo, &fakeNotifier{}, "")
	id := seedSubmission(t, repo)

	rr := putSubmissionStatus(t, h, id, map[string]any{"status": "Bogus"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestRespondToSubmission(t *testing.T) {
	repo := newTestRepo(t)
	notifier := &fakeNotifier{ready: true}
	h := api.NewContactHandler(repo, notifier, "")
	id := seedSubmission(t, repo)

	b, _ := json.Marshal(map[string]any{"subject": "Re: Hello", "body": "Thanks for reaching out."})
	req := httptest.NewRequest(http.MethodPost, "/api/contact-submissions/"+strconv.FormatInt(id, 10)+"/respond", bytes.NewReader(b))
	req = mux.SetURLVars(req, map[string]string{"id": strconv.FormatInt(id, 10)})
	rr := httptest.NewRecorder()
	h.RespondToSubmission(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	if len(notifier.sent) != 1 || notifier.sent[0].To != "priya@example.com" {
		t.Fatalf("response email not sent to submitter: %+v", notifier.sent)
	}

	sub, _ := repo.GetSubmissionByID(context.Background(), id)
	if sub.Status != models.SubmissionReplied || sub.RepliedAt == nil {
		t.Fatalf("submission not marked replied: %+v", sub)
	}
	if !strings.Contains(sub.AdminNotes, "Response Sent") || !strings.Contains(sub.AdminNotes, "Subject: Re: Hello") {
		t.Fatalf("audit line missing from adminNotes: %q", sub.AdminNotes)
	}
}

func TestRespondToSubmissionWithoutMailer(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewContactHandler(repo, &fakeNotifier{ready: false}, "")
	id := seedSubmission(t, repo)

	b, _ := json.Marshal(map[string]any{"subject": "Re: Hello", "body": "Thanks."})
	req := httptest.NewRequest(http.MethodPost, "/api/contact-submissions/"+strconv.FormatInt(id, 10)+"/respond", bytes.NewReader(b))
	req = mux.SetURLVars(req, map[string]string{"id": strconv.FormatInt(id, 10)})
	rr := httptest.NewRecorder()
	h.RespondToSubmission(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rr.Code)
	}
}

func TestContactInfoDefaultsAndUpdate(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewContactHandler(repo, &fakeNotifier{}, "")

	req := httptest.NewRequest(http.MethodGet, "/api/contact-info", nil)
	rr := httptest.NewRecorder()
	h.GetContactInfo(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var info models.ContactInfo
	if err := json.NewDecoder(rr.Body).Decode(&info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Email == "" {
		t.Fatalf("first read should return seeded defaults")
	}

	update := map[string]any{
		"address": "1 New Street", "phone": "+1 555 0100",
		"email": "hello@silvertalent.com", "locationMapUrl": "https://maps.example.com/hq",
	}
	b, _ := json.Marshal(update)
	req = httptest.NewRequest(http.MethodPut, "/api/contact-info", bytes.NewReader(b))
	rr = httptest.NewRecorder()
	h.UpdateContactInfo(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("update: expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	got, err := repo.GetContactInfo(context.Background())
	if err != nil {
		t.Fatalf("get info: %v", err)
	}
	if got.Address != "1 New Street" || got.Email != "hello@silvertalent.com" {
		t.Fatalf("update not persisted: %+v", got)
	}
}

func TestUpdateContactInfoRequiresAllFields(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewContactHandler(repo, &fakeNotifier{}, "")

	b, _ := json.Marshal(map[string]any{"address": "1 New Street", "phone": "+1 555 0100"})
	req := httptest.NewRequest(http.MethodPut, "/api/contact-info", bytes.NewReader(b))
	rr := httptest.NewRecorder()
	h.UpdateContactInfo(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestListSubmissionsFilter(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewContactHandler(repo, &fakeNotifier{}, "")
	ctx := context.Background()
	for _, status := range []string{models.SubmissionNew, models.SubmissionReplied, models.SubmissionNew} {
		if _, err := repo.CreateSubmission(ctx, &models.ContactSubmission{
			Name: "n", Email: "e@example.com", Phone: "p", Message: "m", Status: status,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/contact-submissions?status_filter=New", nil)
	rr := httptest.NewRecorder()
	h.ListSubmissions(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["totalCount"].(float64) != 2 {
		t.Fatalf("totalCount: %v", body["totalCount"])
	}
	if !strings.Contains(rr.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("content type: %s", rr.Header().Get("Content-Type"))
	}
}

func TestDeleteSubmission(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewContactHandler(repo, &fakeNotifier{}, "")
	id := seedSubmission(t, repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/contact-submissions/"+strconv.FormatInt(id, 10), nil)
	req = mux.SetURLVars(req, map[string]string{"id": strconv.FormatInt(id, 10)})
	rr := httptest.NewRecorder()
	h.DeleteSubmission(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if s, _ := repo.GetSubmissionByID(context.Background(), id); s != nil {
		t.Fatalf("submission still present after delete")
	}
}
