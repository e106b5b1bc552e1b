package api

import (
	"math"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/silvertalent/backend/internal/media"
	"github.com/silvertalent/backend/internal/models"
	"github.com/silvertalent/backend/pkg/repository"
)

const (
	logoFolder = "silver_talent/company_logos"

	// multipart memory ceiling for job and blog forms
	maxFormMemory = 10 << 20
)

type JobsHandler struct {
	jobRepo   repository.JobRepo
	store     media.Store
	jwtSecret string
}

func NewJobsHandler(jr repository.JobRepo, store media.Store, jwtSecret string) *JobsHandler {
	return &JobsHandler{jobRepo: jr, store: store, jwtSecret: jwtSecret}
}

// parseForm accepts both multipart (file uploads) and urlencoded bodies.
func parseForm(r *http.Request) error {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}

func splitCommaList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

var jobRequiredFields = []string{"title", "company", "location", "type", "salary", "category", "description"}

func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := repository.JobFilter{Search: strings.TrimSpace(q.Get("q"))}
	if c := q.Get("category"); c != "" && c != "All Categories" {
		f.Category = c
	}
	if l := q.Get("location"); l != "" && l != "All Locations" {
		f.Location = l
	}
	if t := q.Get("type"); t != "" && t != "All Types" {
		f.Type = t
	}

	page, limit := pagination(r, 10)
	if strings.EqualFold(q.Get("admin_view"), "true") && adminRequest(r, h.jwtSecret) {
		limit = 200
	}
	f.Limit = limit
	f.Offset = (page - 1) * limit

	ctx := r.Context()
	jobs, err := h.jobRepo.ListJobs(ctx, f)
	if err != nil {
		logger.Error("list jobs", "err", err)
		writeError(w, "Server error fetching jobs.", http.StatusInternalServerError)
		return
	}
	total, err := h.jobRepo.CountJobs(ctx, f)
	if err != nil {
		logger.Error("count jobs", "err", err)
		writeError(w, "Server error fetching jobs.", http.StatusInternalServerError)
		return
	}

	if jobs == nil {
		jobs = []models.Job{}
	}
	writeJSON(w, map[string]any{
		"jobs":        jobs,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
		"totalJobs":   total,
	}, http.StatusOK)
}

func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Job not found (invalid ID format).", http.StatusNotFound)
		return
	}
	job, err := h.jobRepo.GetJobByID(r.Context(), id)
	if err != nil {
		logger.Error("get job", "id", id, "err", err)
		writeError(w, "Server error fetching job.", http.StatusInternalServerError)
		return
	}
	if job == nil {
		writeError(w, "Job not found.", http.StatusNotFound)
		return
	}
	writeJSON(w, job, http.StatusOK)
}

func (h *JobsHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, "Invalid form data.", http.StatusBadRequest)
		return
	}

	for _, field := range jobRequiredFields {
		if strings.TrimSpace(r.FormValue(field)) == "" {
			writeError(w, "Missing required field: "+field, http.StatusBadRequest)
			return
		}
	}

	company := r.FormValue("company")
	job := &models.Job{
		Title:       r.FormValue("title"),
		Company:     company,
		Location:    r.FormValue("location"),
		Type:        r.FormValue("type"),
		Salary:      r.FormValue("salary"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
		Skills:      splitCommaList(r.FormValue("skills")),
		Logo:        models.Media{URL: media.PlaceholderLogoURL(company)},
		Rating:      math.Round((3.8+rand.Float64()*1.1)*10) / 10,
		Applicants:  rand.IntN(5),
	}

	ctx := r.Context()

	// Logo upload failures are non-blocking; the placeholder stands in.
	if file, header, err := r.FormFile("logoImage"); err == nil {
		defer file.Close()
		obj, upErr := h.store.Upload(ctx, logoFolder, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
		if upErr != nil {
			logger.Warn("logo upload failed", "err", upErr)
		} else {
			job.Logo = models.Media{PublicID: obj.Key, URL: obj.URL}
		}
	}

	id, err := h.jobRepo.CreateJob(ctx, job)
	if err != nil {
		logger.Error("create job", "err", err)
		writeError(w, "Server error creating job.", http.StatusInternalServerError)
		return
	}
	job.ID = id

	writeJSON(w, map[string]any{"message": "Job vacancy added successfully!", "job": job}, http.StatusCreated)
}

func (h *JobsHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Job not found (invalid ID format for update).", http.StatusNotFound)
		return
	}
	if err := parseForm(r); err != nil {
		writeError(w, "Invalid form data.", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	job, err := h.jobRepo.GetJobByID(ctx, id)
	if err != nil {
		logger.Error("get job for update", "id", id, "err", err)
		writeError(w, "Server error updating job.", http.StatusInternalServerError)
		return
	}
	if job == nil {
		writeError(w, "Job not found to update.", http.StatusNotFound)
		return
	}

	for _, field := range jobRequiredFields {
		if strings.TrimSpace(r.FormValue(field)) == "" {
			writeError(w, "Missing required field: "+field, http.StatusBadRequest)
			return
		}
	}

	job.Title = r.FormValue("title")
	job.Company = r.FormValue("company")
	job.Location = r.FormValue("location")
	job.Type = r.FormValue("type")
	job.Salary = r.FormValue("salary")
	job.Category = r.FormValue("category")
	job.Description = r.FormValue("description")
	if skills := r.FormValue("skills"); skills != "" {
		job.Skills = splitCommaList(skills)
	}

	if file, header, err := r.FormFile("logoImage"); err == nil {
		defer file.Close()
		if job.Logo.PublicID != "" {
			if delErr := h.store.Delete(ctx, job.Logo.PublicID); delErr != nil {
				logger.Warn("delete old logo failed", "key", job.Logo.PublicID, "err", delErr)
			}
		}
		obj, upErr := h.store.Upload(ctx, logoFolder, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
		if upErr != nil {
			logger.Warn("logo upload failed", "err", upErr)
		} else {
			job.Logo = models.Media{PublicID: obj.Key, URL: obj.URL}
		}
	} else if strings.EqualFold(r.FormValue("removeLogo"), "true") {
		if job.Logo.PublicID != "" {
			if delErr := h.store.Delete(ctx, job.Logo.PublicID); delErr != nil {
				logger.Warn("delete logo failed", "key", job.Logo.PublicID, "err", delErr)
			}
		}
		job.Logo = models.Media{URL: media.PlaceholderLogoURL(job.Company)}
	}

	if err := h.jobRepo.UpdateJob(ctx, job); err != nil {
		logger.Error("update job", "id", id, "err", err)
		writeError(w, "Server error updating job.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"message": "Job vacancy updated successfully!", "job": job}, http.StatusOK)
}

func (h *JobsHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Job not found (invalid ID format for delete).", http.StatusNotFound)
		return
	}

	ctx := r.Context()
	job, err := h.jobRepo.GetJobByID(ctx, id)
	if err != nil {
		logger.Error("get job for delete", "id", id, "err", err)
		writeError(w, "Server error deleting job.", http.StatusInternalServerError)
		return
	}
	if job == nil {
		writeError(w, "Job not found to delete.", http.StatusNotFound)
		return
	}

	if job.Logo.PublicID != "" {
		if delErr := h.store.Delete(ctx, job.Logo.PublicID); delErr != nil {
			logger.Warn("delete logo failed", "key", job.Logo.PublicID, "err", delErr)
		}
	}

	// Applications referencing the job are intentionally not removed.
	if err := h.jobRepo.DeleteJob(ctx, id); err != nil {
		logger.Error("delete job", "id", id, "err", err)
		writeError(w, "Server error deleting job.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"message": "Job vacancy deleted successfully!", "jobId": id}, http.StatusOK)
}
