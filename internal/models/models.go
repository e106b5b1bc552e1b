package models

// Media points at an object stored in the external media store. PublicID is
// the storage key used for deletion; URL is the retrievable address. A Job
// logo may carry a URL only (generated placeholder, nothing to delete).
type Media struct {
	PublicID string `json:"public_id,omitempty" db:"public_id"`
	URL      string `json:"url,omitempty" db:"url"`
}

type Job struct {
	ID          int64    `json:"id" db:"id"`
	Title       string   `json:"title" db:"title"`
	Company     string   `json:"company" db:"company"`
	Location    string   `json:"location" db:"location"`
	Type        string   `json:"type" db:"type"`
	Salary      string   `json:"salary" db:"salary"`
	Category    string   `json:"category" db:"category"`
	Description string   `json:"description" db:"description"`
	Skills      []string `json:"skills" db:"skills"`
	Logo        Media    `json:"logo"`
	PostedDate  int64    `json:"postedDate" db:"posted_date"`
	Rating      float64  `json:"rating" db:"rating"`
	Applicants  int      `json:"applicants" db:"applicants"`
	Created     int64    `json:"createdAt" db:"created"`
	Updated     int64    `json:"updatedAt" db:"updated"`
}

// Application statuses. Any value may be set from any other; there is no
// enforced transition order.
const (
	ApplicationPending    = "Pending"
	ApplicationViewed     = "Viewed"
	ApplicationInProgress = "In Progress"
	ApplicationContacted  = "Contacted"
	ApplicationHired      = "Hired"
	ApplicationRejected   = "Rejected"
)

func ValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationPending, ApplicationViewed, ApplicationInProgress,
		ApplicationContacted, ApplicationHired, ApplicationRejected:
		return true
	}
	return false
}

// Application holds a job application. JobTitle and CompanyName are
// denormalized snapshots taken at submission time and are not re-synced when
// the Job changes.
type Application struct {
	ID          int64  `json:"id" db:"id"`
	JobID       int64  `json:"jobId" db:"job_id"`
	JobTitle    string `json:"jobTitle" db:"job_title"`
	CompanyName string `json:"companyName" db:"company_name"`
	Name        string `json:"name" db:"name"`
	Email       string `json:"email" db:"email"`
	CoverLetter string `json:"coverLetter,omitempty" db:"cover_letter"`
	Resume      Media  `json:"resume"`
	Status      string `json:"status" db:"status"`
	AdminNotes  string `json:"adminNotes,omitempty" db:"admin_notes"`
	AppliedDate int64  `json:"appliedDate" db:"applied_date"`
	Created     int64  `json:"createdAt" db:"created"`
	Updated     int64  `json:"updatedAt" db:"updated"`
}

type BlogCategory struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description,omitempty" db:"description"`
	Created     int64  `json:"createdAt" db:"created"`
	Updated     int64  `json:"updatedAt" db:"updated"`
}

// BlogPost content is an ordered list of paragraphs, produced by splitting
// raw input on blank-line boundaries. PublishDate is set when IsPublished
// flips false -> true and cleared when the post is unpublished.
type BlogPost struct {
	ID            int64         `json:"id" db:"id"`
	Title         string        `json:"title" db:"title"`
	Slug          string        `json:"slug" db:"slug"`
	Excerpt       string        `json:"excerpt" db:"excerpt"`
	Content       []string      `json:"content" db:"content"`
	Author        string        `json:"author" db:"author"`
	ReadTime      string        `json:"readTime" db:"read_time"`
	FeaturedImage Media         `json:"featuredImage"`
	CategoryID    int64         `json:"categoryId" db:"category_id"`
	Category      *BlogCategory `json:"category,omitempty"`
	Tags          []string      `json:"tags" db:"tags"`
	IsPublished   bool          `json:"isPublished" db:"is_published"`
	PublishDate   *int64        `json:"publishDate,omitempty" db:"publish_date"`
	Views         int64         `json:"views" db:"views"`
	Created       int64         `json:"createdAt" db:"created"`
	Updated       int64         `json:"updatedAt" db:"updated"`
}

// Contact submission statuses.
const (
	SubmissionNew      = "New"
	SubmissionViewed   = "Viewed"
	SubmissionReplied  = "Replied"
	SubmissionArchived = "Archived"
)

func ValidSubmissionStatus(s string) bool {
	switch s {
	case SubmissionNew, SubmissionViewed, SubmissionReplied, SubmissionArchived:
		return true
	}
	return false
}

type ContactSubmission struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"yourName" db:"name"`
	Email       string `json:"yourEmail" db:"email"`
	Phone       string `json:"fullPhoneNumber" db:"phone"`
	CountryName string `json:"countryName,omitempty" db:"country_name"`
	CountryCode string `json:"countryCode,omitempty" db:"country_code"`
	Message     string `json:"yourMessage" db:"message"`
	Status      string `json:"status" db:"status"`
	AdminNotes  string `json:"adminNotes,omitempty" db:"admin_notes"`
	SubmittedAt int64  `json:"submittedAt" db:"submitted_at"`
	RepliedAt   *int64 `json:"repliedAt,omitempty" db:"replied_at"`
}

// ContactInfo is a singleton row keyed by a fixed identifier; it is created
// lazily with defaults on first read.
type ContactInfo struct {
	ID             int64  `json:"id" db:"id"`
	Identifier     string `json:"identifier" db:"identifier"`
	Address        string `json:"address" db:"address"`
	Phone          string `json:"phone" db:"phone"`
	Email          string `json:"email" db:"email"`
	LocationMapURL string `json:"locationMapUrl" db:"location_map_url"`
	Updated        int64  `json:"updatedAt" db:"updated"`
}

type Subscription struct {
	ID      int64  `json:"id" db:"id"`
	Email   string `json:"email" db:"email"`
	Created int64  `json:"createdAt" db:"created"`
}
