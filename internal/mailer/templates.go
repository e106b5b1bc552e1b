package mailer

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/aymerick/raymond"

	"github.com/silvertalent/backend/internal/models"
)

// Display names used on outbound mail.
const (
	fromAdminPortal = "Job Portal Admin"
	fromCareers     = "Silver Talent Careers"
	fromHiringTeam  = "Silver Talent Hiring Team"
	fromWebsite     = "Website System"
)

var (
	adminApplicationTpl = raymond.MustParse(`
<p>A new job application has been submitted:</p>
<ul>
    <li><strong>Applicant:</strong> {{name}} ({{email}})</li>
    <li><strong>For Job:</strong> {{jobTitle}} at {{companyName}}</li>
    <li><strong>Applied On:</strong> {{appliedDate}}</li>
    <li><strong>Resume:</strong> <a href="{{resumeUrl}}" target="_blank">View/Download Resume</a></li>
</ul>
<p>Details available in the admin dashboard.</p>`)

	applicantConfirmationTpl = raymond.MustParse(`
<p>Dear {{name}},</p>
<p>Thank you for your interest and for applying for the <strong>{{jobTitle}}</strong> position at <strong>{{companyName}}</strong>.</p>
<p>We have successfully received your application. Our hiring team will review your qualifications and experience. If your profile aligns with the requirements for this role, we will contact you regarding the next steps.</p>
<p>We appreciate your patience during this process.</p>
<br/>
<p>Sincerely,</p>
<p>The Silver Talent Team</p>`)

	contactNotificationTpl = raymond.MustParse(`
<p>A new message has been submitted through the website contact form and saved to the database.</p>
<hr>
<p><strong>Name:</strong> {{name}}</p>
<p><strong>Email:</strong> {{email}}</p>
<p><strong>Phone:</strong> {{phone}}</p>
<p><strong>Message:</strong></p>
<div style="padding:10px;border:1px solid #eee;background-color:#f9f9f9;white-space:pre-wrap;">{{message}}</div>
<hr>
<p><small>You can view and respond to this submission in the admin dashboard.</small></p>`)

	applicationResponseTpl = raymond.MustParse(`
<p>Dear {{name}},</p>
<div style="white-space: pre-wrap; font-family: Arial, sans-serif; line-height: 1.6;">{{body}}</div>
<br/>
<p>Best regards,</p>
<p>The Silver Talent Team</p>`)

	jobAlertTpl = raymond.MustParse(`
<p>Hello,</p>
<p>New positions were posted on Silver Talent in the last day:</p>
<ul>
{{#each jobs}}
    <li><strong>{{title}}</strong> at {{company}} ({{location}})</li>
{{/each}}
</ul>
<p>Visit the site to apply.</p>
<br/>
<p>The Silver Talent Team</p>`)
)

// htmlBreaks escapes free-form text and converts newlines so it renders as
// typed inside an HTML body.
func htmlBreaks(s string) raymond.SafeString {
	return raymond.SafeString(strings.ReplaceAll(html.EscapeString(s), "\n", "<br>"))
}

// AdminNewApplication notifies the site owner that an application arrived.
func AdminNewApplication(adminEmail string, a *models.Application) Message {
	body := adminApplicationTpl.MustExec(map[string]interface{}{
		"name":        a.Name,
		"email":       a.Email,
		"jobTitle":    a.JobTitle,
		"companyName": a.CompanyName,
		"appliedDate": time.UnixMilli(a.AppliedDate).Format("Jan 2, 2006"),
		"resumeUrl":   a.Resume.URL,
	})
	return Message{
		FromName: fromAdminPortal,
		To:       adminEmail,
		Subject:  fmt.Sprintf("New Job Application: %s - %s", a.JobTitle, a.Name),
		HTML:     body,
	}
}

// ApplicantConfirmation acknowledges receipt to the applicant.
func ApplicantConfirmation(a *models.Application) Message {
	body := applicantConfirmationTpl.MustExec(map[string]interface{}{
		"name":        a.Name,
		"jobTitle":    a.JobTitle,
		"companyName": a.CompanyName,
	})
	return Message{
		FromName: fromCareers,
		To:       a.Email,
		Subject:  fmt.Sprintf("Your Application for %s at %s - Received!", a.JobTitle, a.CompanyName),
		HTML:     body,
	}
}

// ContactNotification forwards a contact-form submission to the site owner.
func ContactNotification(adminEmail string, s *models.ContactSubmission) Message {
	body := contactNotificationTpl.MustExec(map[string]interface{}{
		"name":    s.Name,
		"email":   s.Email,
		"phone":   s.Phone,
		"message": htmlBreaks(s.Message),
	})
	return Message{
		FromName: fromWebsite,
		To:       adminEmail,
		Subject:  fmt.Sprintf("New Contact Submission: %s", s.Name),
		HTML:     body,
	}
}

// ApplicationResponse wraps an admin-written reply to an applicant in the
// standard greeting and signature.
func ApplicationResponse(a *models.Application, subject, body string) Message {
	rendered := applicationResponseTpl.MustExec(map[string]interface{}{
		"name": a.Name,
		"body": htmlBreaks(body),
	})
	return Message{
		FromName: fromHiringTeam,
		To:       a.Email,
		Subject:  subject,
		HTML:     rendered,
	}
}

// SubmissionResponse sends an admin-written reply to a contact submission.
// The body goes out as written, newlines converted for HTML.
func SubmissionResponse(s *models.ContactSubmission, subject, body string) Message {
	return Message{
		FromName: fromCareers,
		To:       s.Email,
		Subject:  subject,
		HTML:     string(htmlBreaks(body)),
	}
}

// JobAlertDigest lists jobs posted since the previous digest run.
func JobAlertDigest(to string, jobs []models.Job) Message {
	items := make([]map[string]interface{}, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, map[string]interface{}{
			"title":    j.Title,
			"company":  j.Company,
			"location": j.Location,
		})
	}
	body := jobAlertTpl.MustExec(map[string]interface{}{"jobs": items})
	return Message{
		FromName: fromCareers,
		To:       to,
		Subject:  "New job openings at Silver Talent",
		HTML:     body,
	}
}
