package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qri-io/jsonschema"

	"github.com/silvertalent/backend/internal/mailer"
	"github.com/silvertalent/backend/internal/models"
	"github.com/silvertalent/backend/pkg/repository"
)

// contactFormSchema validates the public contact form payload before anything
// touches the database.
const contactFormSchema = `{
	"type": "object",
	"required": ["yourName", "yourEmail", "fullPhoneNumber", "yourMessage"],
	"properties": {
		"yourName": {"type": "string", "minLength": 1},
		"yourEmail": {"type": "string", "pattern": "^\\S+@\\S+\\.\\S+$"},
		"fullPhoneNumber": {"type": "string", "minLength": 1},
		"countryName": {"type": "string"},
		"countryCode": {"type": "string"},
		"yourMessage": {"type": "string", "minLength": 1}
	}
}`

type ContactHandler struct {
	contactRepo repository.ContactRepo
	notifier    mailer.Notifier
	adminEmail  string
	schema      *jsonschema.Schema
}

func NewContactHandler(cr repository.ContactRepo, notifier mailer.Notifier, adminEmail string) *ContactHandler {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(contactFormSchema), rs); err != nil {
		panic("contact form schema: " + err.Error())
	}
	return &ContactHandler{contactRepo: cr, notifier: notifier, adminEmail: adminEmail, schema: rs}
}

func (h *ContactHandler) GetContactInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.contactRepo.GetContactInfo(r.Context())
	if err != nil {
		logger.Error("get contact info", "err", err)
		writeError(w, "Server error: Could not fetch contact information.", http.StatusInternalServerError)
		return
	}
	writeJSON(w, info, http.StatusOK)
}

type contactInfoRequest struct {
	Address        *string `json:"address"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	LocationMapURL *string `json:"locationMapUrl"`
}

func (h *ContactHandler) UpdateContactInfo(w http.ResponseWriter, r *http.Request) {
	var req contactInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request.", http.StatusBadRequest)
		return
	}
	if req.Address == nil || req.Phone == nil || req.Email == nil || req.LocationMapURL == nil {
		writeError(w, "All contact fields are required.", http.StatusBadRequest)
		return
	}

	info, err := h.contactRepo.UpsertContactInfo(r.Context(), &models.ContactInfo{
		Address:        *req.Address,
		Phone:          *req.Phone,
		Email:          *req.Email,
		LocationMapURL: *req.LocationMapURL,
	})
	if err != nil {
		logger.Error("update contact info", "err", err)
		writeError(w, "Server error: Could not update contact information.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"message": "Contact information updated successfully.", "data": info}, http.StatusOK)
}

// SubmitContactForm stores a public submission and notifies the site owner.
// The notification is best-effort; the submission is saved either way.
func (h *ContactHandler) SubmitContactForm(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, "Invalid request.", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	keyErrs, err := h.schema.ValidateBytes(ctx, body)
	if err != nil {
		writeError(w, "Invalid request.", http.StatusBadRequest)
		return
	}
	if len(keyErrs) > 0 {
		msgs := make([]string, 0, len(keyErrs))
		for _, ke := range keyErrs {
			msgs = append(msgs, ke.Message)
		}
		writeError(w, strings.Join(msgs, " "), http.StatusBadRequest)
		return
	}

	var submission models.ContactSubmission
	if err := json.Unmarshal(body, &submission); err != nil {
		writeError(w, "Invalid request.", http.StatusBadRequest)
		return
	}
	submission.Name = strings.TrimSpace(submission.Name)
	submission.Email = strings.ToLower(strings.TrimSpace(submission.Email))
	submission.Phone = strings.TrimSpace(submission.Phone)
	submission.Message = strings.TrimSpace(submission.Message)
	submission.Status = models.SubmissionNew

	id, err := h.contactRepo.CreateSubmission(ctx, &submission)
	if err != nil {
		logger.Error("create submission", "err", err)
		writeError(w, "Failed to submit your message due to an unexpected server error. Please try again later.", http.StatusInternalServerError)
		return
	}
	submission.ID = id

	if h.adminEmail != "" {
		if err := h.notifier.Send(ctx, mailer.ContactNotification(h.adminEmail, &submission)); err != nil {
			logger.Warn("contact admin notification failed", "submission_id", id, "err", err)
		}
	}

	writeJSON(w, map[string]any{
		"success": true,
		"message": "Thank you for your message! We have received it and will get back to you soon.",
	}, http.StatusOK)
}

func (h *ContactHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.SubmissionFilter{}
	if s := q.Get("status_filter"); s != "" && s != "All" {
		f.Status = s
	}
	page, limit := pagination(r, 50)
	f.Limit = limit
	f.Offset = (page - 1) * limit

	ctx := r.Context()
	submissions, err := h.contactRepo.ListSubmissions(ctx, f)
	if err != nil {
		logger.Error("list submissions", "err", err)
		writeError(w, "Failed to fetch contact submissions.", http.StatusInternalServerError)
		return
	}
	total, err := h.contactRepo.CountSubmissions(ctx, f)
	if err != nil {
		logger.Error("count submissions", "err", err)
		writeError(w, "Failed to fetch contact submissions.", http.StatusInternalServerError)
		return
	}

	if submissions == nil {
		submissions = []models.ContactSubmission{}
	}
	writeJSON(w, map[string]any{
		"success":     true,
		"submissions": submissions,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
		"totalCount":  total,
	}, http.StatusOK)
}

type submissionStatusRequest struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"adminNotes"`
}

func (h *ContactHandler) UpdateSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Submission not found.", http.StatusNotFound)
		return
	}

	var req submissionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request.", http.StatusBadRequest)
		return
	}
	if !models.ValidSubmissionStatus(req.Status) {
		writeError(w, "Invalid status value.", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	submission, err := h.contactRepo.GetSubmissionByID(ctx, id)
	if err != nil {
		logger.Error("get submission", "id", id, "err", err)
		writeError(w, "Failed to update submission status.", http.StatusInternalServerError)
		return
	}
	if submission == nil {
		writeError(w, "Submission not found.", http.StatusNotFound)
		return
	}

	submission.Status = req.Status
	if req.AdminNotes != nil {
		submission.AdminNotes = *req.AdminNotes
	}
	// Marking replied without an accompanying note stamps the reply time.
	if req.Status == models.SubmissionReplied && (req.AdminNotes == nil || *req.AdminNotes == "") {
		ts := time.Now().UTC().UnixMilli()
		submission.RepliedAt = &ts
	}

	if err := h.contactRepo.UpdateSubmission(ctx, submission); err != nil {
		logger.Error("update submission", "id", id, "err", err)
		writeError(w, "Failed to update submission status.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"success": true, "message": "Submission status updated.", "submission": submission}, http.StatusOK)
}

type submissionRespondRequest struct {
	Subject               string `json:"subject"`
	Body                  string `json:"body"`
	UpdateStatusToReplied *bool  `json:"updateStatusToReplied"`
}

func (h *ContactHandler) RespondToSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Contact submission not found.", http.StatusNotFound)
		return
	}

	if !h.notifier.Ready() {
		writeError(w, "Email service is not configured. Cannot send response.", http.StatusServiceUnavailable)
		return
	}

	var req submissionRespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request.", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		writeError(w, "Email subject and body are required.", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	submission, err := h.contactRepo.GetSubmissionByID(ctx, id)
	if err != nil {
		logger.Error("get submission", "id", id, "err", err)
		writeError(w, "Failed to send response email. Please try again later.", http.StatusInternalServerError)
		return
	}
	if submission == nil {
		writeError(w, "Contact submission not found.", http.StatusNotFound)
		return
	}

	if err := h.notifier.Send(ctx, mailer.SubmissionResponse(submission, req.Subject, req.Body)); err != nil {
		logger.Error("send submission response", "id", id, "err", err)
		writeError(w, "Failed to send response email. Please try again later.", http.StatusInternalServerError)
		return
	}

	submission.AdminNotes += fmt.Sprintf("\n--- Response Sent (%s) ---\nSubject: %s\n---",
		time.Now().Format("1/2/2006, 3:04:05 PM"), req.Subject)
	if req.UpdateStatusToReplied == nil || *req.UpdateStatusToReplied {
		submission.Status = models.SubmissionReplied
		ts := time.Now().UTC().UnixMilli()
		submission.RepliedAt = &ts
	}
	if err := h.contactRepo.UpdateSubmission(ctx, submission); err != nil {
		logger.Error("update submission after response", "id", id, "err", err)
	}

	writeJSON(w, map[string]any{"success": true, "message": "Response sent successfully and submission updated."}, http.StatusOK)
}

func (h *ContactHandler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Submission not found.", http.StatusNotFound)
		return
	}

	ctx := r.Context()
	submission, err := h.contactRepo.GetSubmissionByID(ctx, id)
	if err != nil {
		logger.Error("get submission for delete", "id", id, "err", err)
		writeError(w, "Failed to delete submission.", http.StatusInternalServerError)
		return
	}
	if submission == nil {
		writeError(w, "Submission not found.", http.StatusNotFound)
		return
	}

	if err := h.contactRepo.DeleteSubmission(ctx, id); err != nil {
		logger.Error("delete submission", "id", id, "err", err)
		writeError(w, "Failed to delete submission.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"success": true, "message": "Submission deleted successfully."}, http.StatusOK)
}
