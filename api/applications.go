package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/silvertalent/backend/internal/mailer"
	"github.com/silvertalent/backend/internal/media"
	"github.com/silvertalent/backend/internal/models"
	"github.com/silvertalent/backend/pkg/repository"
)

const (
	resumeFolder  = "silver_talent/resumes"
	maxResumeSize = 5 << 20
)

// Résumés must be PDF or Word documents.
var allowedResumeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

type ApplicationsHandler struct {
	appRepo    repository.ApplicationRepo
	jobRepo    repository.JobRepo
	store      media.Store
	notifier   mailer.Notifier
	adminEmail string
}

func NewApplicationsHandler(ar repository.ApplicationRepo, jr repository.JobRepo, store media.Store, notifier mailer.Notifier, adminEmail string) *ApplicationsHandler {
	return &ApplicationsHandler{appRepo: ar, jobRepo: jr, store: store, notifier: notifier, adminEmail: adminEmail}
}

// Apply handles the public application form: multipart body with a `resume`
// file plus the applicant and job details. Emails are best-effort; a failed
// notification never fails the application.
func (h *ApplicationsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		writeError(w, "Invalid form data.", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		writeError(w, "Resume file is required (expected field name: resume).", http.StatusBadRequest)
		return
	}
	defer file.Close()

	required := []string{"jobId", "jobTitle", "companyName", "name", "email"}
	for _, field := range required {
		if strings.TrimSpace(r.FormValue(field)) == "" {
			writeError(w, "Missing required detail: "+field, http.StatusBadRequest)
			return
		}
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedResumeTypes[contentType] {
		writeError(w, fmt.Sprintf("Invalid resume file type. Allowed: PDF, DOC, DOCX. Received: %s", contentType), http.StatusBadRequest)
		return
	}
	if header.Size > maxResumeSize {
		writeError(w, "Resume file size exceeds 5MB.", http.StatusBadRequest)
		return
	}

	var jobID int64
	if _, err := fmt.Sscanf(r.FormValue("jobId"), "%d", &jobID); err != nil || jobID <= 0 {
		writeError(w, "Invalid jobId.", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	job, err := h.jobRepo.GetJobByID(ctx, jobID)
	if err != nil {
		logger.Error("get job for application", "job_id", jobID, "err", err)
		writeError(w, "Server error processing application.", http.StatusInternalServerError)
		return
	}
	if job == nil {
		writeError(w, "Job not found.", http.StatusNotFound)
		return
	}

	obj, err := h.store.Upload(ctx, resumeFolder, header.Filename, contentType, file, header.Size)
	if err != nil {
		logger.Error("resume upload failed", "err", err)
		writeError(w, "Failed to upload resume. Please try again.", http.StatusInternalServerError)
		return
	}

	app := &models.Application{
		JobID:       jobID,
		JobTitle:    r.FormValue("jobTitle"),
		CompanyName: r.FormValue("companyName"),
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		CoverLetter: r.FormValue("coverLetter"),
		Resume:      models.Media{PublicID: obj.Key, URL: obj.URL},
		Status:      models.ApplicationPending,
	}

	id, err := h.appRepo.CreateApplication(ctx, app)
	if err != nil {
		logger.Error("create application", "err", err)
		logger.Warn("orphaned resume object", "key", obj.Key)
		writeError(w, "Server error processing application.", http.StatusInternalServerError)
		return
	}
	app.ID = id

	if h.adminEmail != "" {
		if err := h.notifier.Send(ctx, mailer.AdminNewApplication(h.adminEmail, app)); err != nil {
			logger.Warn("admin application notification failed", "err", err)
		}
	}
	if err := h.notifier.Send(ctx, mailer.ApplicantConfirmation(app)); err != nil {
		logger.Warn("applicant confirmation failed", "to", app.Email, "err", err)
	}

	writeJSON(w, map[string]any{
		"success":       true,
		"message":       "Application submitted successfully! A confirmation email has been sent.",
		"applicationId": id,
	}, http.StatusOK)
}

func (h *ApplicationsHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.ApplicationFilter{}
	if s := q.Get("status_filter"); s != "" && s != "All" {
		f.Status = s
	}
	page, limit := pagination(r, 10)
	f.Limit = limit
	f.Offset = (page - 1) * limit

	ctx := r.Context()
	apps, err := h.appRepo.ListApplications(ctx, f)
	if err != nil {
		logger.Error("list applications", "err", err)
		writeError(w, "Server error fetching applications.", http.StatusInternalServerError)
		return
	}
	total, err := h.appRepo.CountApplications(ctx, f)
	if err != nil {
		logger.Error("count applications", "err", err)
		writeError(w, "Server error fetching applications.", http.StatusInternalServerError)
		return
	}

	if apps == nil {
		apps = []models.Application{}
	}
	writeJSON(w, map[string]any{
		"success":           true,
		"applications":      apps,
		"totalPages":        totalPages(total, limit),
		"currentPage":       page,
		"totalApplications": total,
	}, http.StatusOK)
}

type respondRequest struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	NewStatus string `json:"newStatus"`
}

// Respond emails an admin-written reply to the applicant, then records the
// send in the application's status and notes.
func (h *ApplicationsHandler) Respond(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Application not found.", http.StatusNotFound)
		return
	}

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request.", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		writeError(w, "Response subject and body are required.", http.StatusBadRequest)
		return
	}
	if req.NewStatus != "" && !models.ValidApplicationStatus(req.NewStatus) {
		writeError(w, "Invalid status value.", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	app, err := h.appRepo.GetApplicationByID(ctx, id)
	if err != nil {
		logger.Error("get application", "id", id, "err", err)
		writeError(w, "Server error sending response.", http.StatusInternalServerError)
		return
	}
	if app == nil {
		writeError(w, "Application not found.", http.StatusNotFound)
		return
	}

	if !h.notifier.Ready() {
		writeError(w, "Email service unavailable. Cannot send response.", http.StatusServiceUnavailable)
		return
	}

	if err := h.notifier.Send(ctx, mailer.ApplicationResponse(app, req.Subject, req.Body)); err != nil {
		logger.Error("send application response", "id", id, "err", err)
		writeError(w, "Failed to send response email. Please try again later.", http.StatusInternalServerError)
		return
	}

	if req.NewStatus != "" {
		app.Status = req.NewStatus
	} else {
		app.Status = models.ApplicationContacted
	}
	app.AdminNotes += fmt.Sprintf("\n--- Response Sent (%s) ---\nSubject: %s\nStatus set to: %s\n---",
		time.Now().Format("1/2/2006, 3:04:05 PM"), req.Subject, app.Status)

	if err := h.appRepo.UpdateApplication(ctx, app); err != nil {
		logger.Error("update application after response", "id", id, "err", err)
		writeError(w, "Response sent but failed to update application.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"success":     true,
		"message":     "Response sent and application updated.",
		"application": app,
	}, http.StatusOK)
}
