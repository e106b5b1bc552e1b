package repository

import (
	"context"
	"errors"

	"github.com/silvertalent/backend/internal/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// ErrConflict is returned when a write violates a uniqueness constraint
// (category name/slug, post slug, subscription email).
var ErrConflict = errors.New("duplicate value for unique field")

// JobFilter narrows a job listing. Search matches title or company as a
// case-insensitive substring. Zero values mean "no constraint".
type JobFilter struct {
	Search   string
	Category string
	Location string
	Type     string
	Limit    int
	Offset   int
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) (int64, error)
	GetJobByID(ctx context.Context, id int64) (*models.Job, error)
	UpdateJob(ctx context.Context, j *models.Job) error
	DeleteJob(ctx context.Context, id int64) error
	ListJobs(ctx context.Context, f JobFilter) ([]models.Job, error)
	CountJobs(ctx context.Context, f JobFilter) (int64, error)
	// ListJobsPostedSince returns jobs with posted_date >= since (unix ms),
	// newest first. Used by the alert digest.
	ListJobsPostedSince(ctx context.Context, since int64) ([]models.Job, error)
	// CompanyJobCounts returns the number of jobs per lowercased company name.
	CompanyJobCounts(ctx context.Context) (map[string]int64, error)
}

type ApplicationFilter struct {
	Status string
	Limit  int
	Offset int
}

type ApplicationRepo interface {
	CreateApplication(ctx context.Context, a *models.Application) (int64, error)
	GetApplicationByID(ctx context.Context, id int64) (*models.Application, error)
	UpdateApplication(ctx context.Context, a *models.Application) error
	ListApplications(ctx context.Context, f ApplicationFilter) ([]models.Application, error)
	CountApplications(ctx context.Context, f ApplicationFilter) (int64, error)
}

type BlogCategoryRepo interface {
	CreateCategory(ctx context.Context, c *models.BlogCategory) (int64, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.BlogCategory, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.BlogCategory, error)
	ListCategories(ctx context.Context) ([]models.BlogCategory, error)
	UpdateCategory(ctx context.Context, c *models.BlogCategory) error
	DeleteCategory(ctx context.Context, id int64) error
	// CategoryNameOrSlugTaken reports whether another category (excludeID
	// excluded) already uses the name or would claim the same base slug.
	CategoryNameOrSlugTaken(ctx context.Context, name, slug string, excludeID int64) (bool, error)
}

// PostFilter narrows a blog post listing. CategoryID <= 0 means no category
// constraint. PublishedOnly gates public callers; AdminSort switches the
// order from publish date to creation time.
type PostFilter struct {
	Search        string
	Tag           string
	CategoryID    int64
	PublishedOnly bool
	AdminSort     bool
	Limit         int
	Offset        int
}

type BlogPostRepo interface {
	CreatePost(ctx context.Context, p *models.BlogPost) (int64, error)
	GetPostByID(ctx context.Context, id int64) (*models.BlogPost, error)
	// GetPublishedPostBySlug atomically increments the view counter and
	// returns the post, or nil when no published post carries the slug.
	GetPublishedPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	UpdatePost(ctx context.Context, p *models.BlogPost) error
	DeletePost(ctx context.Context, id int64) error
	ListPosts(ctx context.Context, f PostFilter) ([]models.BlogPost, error)
	CountPosts(ctx context.Context, f PostFilter) (int64, error)
	CountPostsInCategory(ctx context.Context, categoryID int64) (int64, error)
}

type SubmissionFilter struct {
	Status string
	Limit  int
	Offset int
}

type ContactRepo interface {
	GetContactInfo(ctx context.Context) (*models.ContactInfo, error)
	UpsertContactInfo(ctx context.Context, info *models.ContactInfo) (*models.ContactInfo, error)
	CreateSubmission(ctx context.Context, s *models.ContactSubmission) (int64, error)
	GetSubmissionByID(ctx context.Context, id int64) (*models.ContactSubmission, error)
	UpdateSubmission(ctx context.Context, s *models.ContactSubmission) error
	DeleteSubmission(ctx context.Context, id int64) error
	ListSubmissions(ctx context.Context, f SubmissionFilter) ([]models.ContactSubmission, error)
	CountSubmissions(ctx context.Context, f SubmissionFilter) (int64, error)
}

type SubscriptionRepo interface {
	CreateSubscription(ctx context.Context, email string) (int64, error)
	GetSubscriptionByEmail(ctx context.Context, email string) (*models.Subscription, error)
	ListSubscriptions(ctx context.Context) ([]models.Subscription, error)
	UpdateSubscription(ctx context.Context, id int64, email string) error
	DeleteSubscription(ctx context.Context, id int64) error
}
