package api

import (
	"github.com/gorilla/mux"

	"github.com/silvertalent/backend/internal/config"
	"github.com/silvertalent/backend/internal/db"
	"github.com/silvertalent/backend/internal/mailer"
	"github.com/silvertalent/backend/internal/media"
	"github.com/silvertalent/backend/internal/repository/sqlite"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, conn *db.DB, store media.Store, notifier mailer.Notifier) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(conn, logger)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret, cfg.TokenDuration)
	jobsHandler := NewJobsHandler(repo, store, cfg.JWTSecret)
	applicationsHandler := NewApplicationsHandler(repo, repo, store, notifier, cfg.Mail.AdminEmail)
	postsHandler := NewBlogPostsHandler(repo, repo, store, cfg.JWTSecret)
	categoriesHandler := NewBlogCategoriesHandler(repo, repo)
	contactHandler := NewContactHandler(repo, notifier, cfg.Mail.AdminEmail)
	subscriptionsHandler := NewSubscriptionsHandler(repo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/signin", authHandler.Signin).Methods("POST")

	// Public job board
	api.HandleFunc("/jobs", jobsHandler.ListJobs).Methods("GET")
	api.HandleFunc("/jobs/apply", applicationsHandler.Apply).Methods("POST")
	api.HandleFunc("/jobs/{id}", jobsHandler.GetJob).Methods("GET")
	api.HandleFunc("/featured-companies", jobsHandler.FeaturedCompanies).Methods("GET")
	api.HandleFunc("/filter-options", jobsHandler.FilterOptions).Methods("GET")

	// Public blog
	api.HandleFunc("/blog/posts", postsHandler.ListPosts).Methods("GET")
	api.HandleFunc("/blog/posts/slug/{slug}", postsHandler.GetPostBySlug).Methods("GET")
	api.HandleFunc("/blog/categories", categoriesHandler.ListCategories).Methods("GET")

	// Public contact & subscriptions
	api.HandleFunc("/contact-info", contactHandler.GetContactInfo).Methods("GET")
	api.HandleFunc("/contact-us", contactHandler.SubmitContactForm).Methods("POST")
	api.HandleFunc("/subscribe", subscriptionsHandler.Subscribe).Methods("POST")

	// Admin routes
	admin := r.PathPrefix("/api").Subrouter()
	admin.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	admin.HandleFunc("/auth/signout", authHandler.Signout).Methods("POST")

	admin.HandleFunc("/jobs", jobsHandler.CreateJob).Methods("POST")
	admin.HandleFunc("/jobs/{id}", jobsHandler.UpdateJob).Methods("PUT")
	admin.HandleFunc("/jobs/{id}", jobsHandler.DeleteJob).Methods("DELETE")

	admin.HandleFunc("/applications", applicationsHandler.ListApplications).Methods("GET")
	admin.HandleFunc("/applications/{id}/respond", applicationsHandler.Respond).Methods("PUT")

	admin.HandleFunc("/blog/posts", postsHandler.CreatePost).Methods("POST")
	admin.HandleFunc("/blog/posts/{id}", postsHandler.GetPost).Methods("GET")
	admin.HandleFunc("/blog/posts/{id}", postsHandler.UpdatePost).Methods("PUT")
	admin.HandleFunc("/blog/posts/{id}", postsHandler.DeletePost).Methods("DELETE")

	admin.HandleFunc("/blog/categories", categoriesHandler.CreateCategory).Methods("POST")
	admin.HandleFunc("/blog/categories/{id}", categoriesHandler.GetCategory).Methods("GET")
	admin.HandleFunc("/blog/categories/{id}", categoriesHandler.UpdateCategory).Methods("PUT")
	admin.HandleFunc("/blog/categories/{id}", categoriesHandler.DeleteCategory).Methods("DELETE")

	admin.HandleFunc("/contact-info", contactHandler.UpdateContactInfo).Methods("PUT")
	admin.HandleFunc("/contact-submissions", contactHandler.ListSubmissions).Methods("GET")
	admin.HandleFunc("/contact-submissions/{id}/status", contactHandler.UpdateSubmissionStatus).Methods("PUT")
	admin.HandleFunc("/contact-submissions/{id}/respond", contactHandler.RespondToSubmission).Methods("POST")
	admin.HandleFunc("/contact-submissions/{id}", contactHandler.DeleteSubmission).Methods("DELETE")

	admin.HandleFunc("/subscriptions", subscriptionsHandler.ListSubscriptions).Methods("GET")
	admin.HandleFunc("/subscriptions/{id}", subscriptionsHandler.UpdateSubscription).Methods("PUT")
	admin.HandleFunc("/subscriptions/{id}", subscriptionsHandler.DeleteSubscription).Methods("DELETE")

	return r
}
