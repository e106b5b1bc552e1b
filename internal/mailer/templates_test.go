package mailer_test

import (
	"strings"
	"testing"

	"github.com/silvertalent/backend/internal/mailer"
	"github.com/silvertalent/backend/internal/models"
)

func sampleApplication() *models.Application {
	return &models.Application{
		Name: "Ada Lovelace", Email: "ada@example.com",
		JobTitle: "Backend Engineer", CompanyName: "Web Weavers Inc.",
		Resume:      models.Media{URL: "http://store.local/cv.pdf"},
		AppliedDate: 1700000000000,
	}
}

func TestAdminNewApplication(t *testing.T) {
	msg := mailer.AdminNewApplication("owner@silvertalent.com", sampleApplication())

	if msg.To != "owner@silvertalent.com" {
		t.Errorf("To: %q", msg.To)
	}
	if msg.Subject != "New Job Application: Backend Engineer - Ada Lovelace" {
		t.Errorf("Subject: %q", msg.Subject)
	}
	for _, want := range []string{"Ada Lovelace", "ada@example.com", "Web Weavers Inc.", "http://store.local/cv.pdf"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestApplicantConfirmation(t *testing.T) {
	msg := mailer.ApplicantConfirmation(sampleApplication())

	if msg.To != "ada@example.com" {
		t.Errorf("To: %q", msg.To)
	}
	if msg.Subject != "Your Application for Backend Engineer at Web Weavers Inc. - Received!" {
		t.Errorf("Subject: %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "Dear Ada Lovelace") {
		t.Errorf("body missing greeting: %s", msg.HTML)
	}
}

func TestApplicationResponseEscapesBody(t *testing.T) {
	msg := mailer.ApplicationResponse(sampleApplication(), "Interview", "Line one.\nSee <b>you</b> soon.")

	if msg.Subject != "Interview" {
		t.Errorf("Subject: %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "Line one.<br>") {
		t.Errorf("newlines not converted: %s", msg.HTML)
	}
	if strings.Contains(msg.HTML, "<b>you</b>") {
		t.Errorf("admin-typed markup must be escaped: %s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "&lt;b&gt;you&lt;/b&gt;") {
		t.Errorf("escaped markup missing: %s", msg.HTML)
	}
}

func TestContactNotificationEscapesMessage(t *testing.T) {
	sub := &models.ContactSubmission{
		Name: "Priya Sharma", Email: "priya@example.com", Phone: "+91 98765 43210",
		Message: "Hello,\n<script>alert(1)</script>",
	}
	msg := mailer.ContactNotification("owner@silvertalent.com", sub)

	if msg.Subject != "New Contact Submission: Priya Sharma" {
		t.Errorf("Subject: %q", msg.Subject)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Errorf("message markup must be escaped: %s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "Hello,<br>") {
		t.Errorf("newlines not converted: %s", msg.HTML)
	}
}

func TestJobAlertDigestListsJobs(t *testing.T) {
	jobs := []models.Job{
		{Title: "Go Engineer", Company: "Acme", Location: "Remote"},
		{Title: "SRE", Company: "Globex", Location: "Pune"},
	}
	msg := mailer.JobAlertDigest("reader@example.com", jobs)

	if msg.Subject != "New job openings at Silver Talent" {
		t.Errorf("Subject: %q", msg.Subject)
	}
	for _, want := range []string{"Go Engineer", "Acme", "SRE", "Globex", "Pune"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("digest missing %q", want)
		}
	}
}

func TestSubmissionResponse(t *testing.T) {
	sub := &models.ContactSubmission{Name: "Priya Sharma", Email: "priya@example.com"}
	msg := mailer.SubmissionResponse(sub, "Re: Hello", "Thanks.\nWe will call you.")

	if msg.To != "priya@example.com" {
		t.Errorf("To: %q", msg.To)
	}
	if !strings.Contains(msg.HTML, "Thanks.<br>We will call you.") {
		t.Errorf("body: %s", msg.HTML)
	}
}

func TestDisabledNotifier(t *testing.T) {
	var n mailer.Notifier = mailer.Disabled{}
	if n.Ready() {
		t.Errorf("disabled notifier reports ready")
	}
	if err := n.Send(t.Context(), mailer.Message{To: "x@example.com"}); err == nil {
		t.Errorf("disabled notifier must refuse to send")
	}
}
