package api

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/silvertalent/backend/internal/media"
	"github.com/silvertalent/backend/internal/models"
	"github.com/silvertalent/backend/pkg/repository"
)

const blogImageFolder = "silver_talent/blog_images"

// paragraphSplit breaks raw editor input into paragraphs on blank lines.
var paragraphSplit = regexp.MustCompile(`\r?\n\r?\n|\r\n`)

func splitParagraphs(raw string) []string {
	var out []string
	for _, p := range paragraphSplit.Split(raw, -1) {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

type BlogPostsHandler struct {
	postRepo     repository.BlogPostRepo
	categoryRepo repository.BlogCategoryRepo
	store        media.Store
	jwtSecret    string
}

func NewBlogPostsHandler(pr repository.BlogPostRepo, cr repository.BlogCategoryRepo, store media.Store, jwtSecret string) *BlogPostsHandler {
	return &BlogPostsHandler{postRepo: pr, categoryRepo: cr, store: store, jwtSecret: jwtSecret}
}

func (h *BlogPostsHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	// admin_view is only honored for authenticated admins; anyone else gets
	// the public listing regardless of the query flag.
	isAdminView := strings.EqualFold(q.Get("admin_view"), "true") && adminRequest(r, h.jwtSecret)

	f := repository.PostFilter{
		Search:        q.Get("search"),
		Tag:           q.Get("tag"),
		PublishedOnly: !isAdminView,
		AdminSort:     isAdminView,
	}

	ctx := r.Context()
	if slug := q.Get("category"); slug != "" && slug != "all-categories" {
		cat, err := h.categoryRepo.GetCategoryBySlug(ctx, slug)
		if err != nil {
			logger.Error("get category by slug", "slug", slug, "err", err)
			writeError(w, "Server error fetching blog posts.", http.StatusInternalServerError)
			return
		}
		if cat == nil {
			// Unknown category slug short-circuits to an empty result.
			writeJSON(w, map[string]any{"posts": []models.BlogPost{}, "totalPages": 0, "currentPage": 1, "totalPosts": 0}, http.StatusOK)
			return
		}
		f.CategoryID = cat.ID
	}

	page, limit := pagination(r, 10)
	if isAdminView {
		limit = 200
	}
	f.Limit = limit
	f.Offset = (page - 1) * limit

	posts, err := h.postRepo.ListPosts(ctx, f)
	if err != nil {
		logger.Error("list posts", "err", err)
		writeError(w, "Server error fetching blog posts.", http.StatusInternalServerError)
		return
	}
	total, err := h.postRepo.CountPosts(ctx, f)
	if err != nil {
		logger.Error("count posts", "err", err)
		writeError(w, "Server error fetching blog posts.", http.StatusInternalServerError)
		return
	}

	if posts == nil {
		posts = []models.BlogPost{}
	}
	writeJSON(w, map[string]any{
		"posts":       posts,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
		"totalPosts":  total,
	}, http.StatusOK)
}

func (h *BlogPostsHandler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	post, err := h.postRepo.GetPublishedPostBySlug(r.Context(), slug)
	if err != nil {
		logger.Error("get post by slug", "slug", slug, "err", err)
		writeError(w, "Server error fetching blog post.", http.StatusInternalServerError)
		return
	}
	if post == nil {
		writeError(w, "Blog post not found or not published.", http.StatusNotFound)
		return
	}
	writeJSON(w, post, http.StatusOK)
}

func (h *BlogPostsHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Post not found (invalid ID).", http.StatusNotFound)
		return
	}
	post, err := h.postRepo.GetPostByID(r.Context(), id)
	if err != nil {
		logger.Error("get post", "id", id, "err", err)
		writeError(w, "Server error fetching blog post.", http.StatusInternalServerError)
		return
	}
	if post == nil {
		writeError(w, "Blog post not found.", http.StatusNotFound)
		return
	}
	writeJSON(w, post, http.StatusOK)
}

var postRequiredFields = []string{"title", "excerpt", "content", "author", "readTime", "categoryId"}

func (h *BlogPostsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, "Invalid form data.", http.StatusBadRequest)
		return
	}

	for _, field := range postRequiredFields {
		if strings.TrimSpace(r.FormValue(field)) == "" {
			writeError(w, "Missing required fields.", http.StatusBadRequest)
			return
		}
	}

	categoryID, ok := parsePositiveInt(r.FormValue("categoryId"))
	if !ok {
		writeError(w, "Blog category not found.", http.StatusNotFound)
		return
	}

	ctx := r.Context()
	category, err := h.categoryRepo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		logger.Error("get category", "id", categoryID, "err", err)
		writeError(w, "Server error creating blog post.", http.StatusInternalServerError)
		return
	}
	if category == nil {
		writeError(w, "Blog category not found.", http.StatusNotFound)
		return
	}

	file, header, err := r.FormFile("featuredImageFile")
	if err != nil {
		writeError(w, "Featured image is required for new post.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	obj, err := h.store.Upload(ctx, blogImageFolder, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		logger.Error("featured image upload failed", "err", err)
		writeError(w, "Failed to upload featured image.", http.StatusInternalServerError)
		return
	}

	published := strings.EqualFold(r.FormValue("isPublished"), "true")
	post := &models.BlogPost{
		Title:         r.FormValue("title"),
		Excerpt:       r.FormValue("excerpt"),
		Content:       splitParagraphs(r.FormValue("content")),
		Author:        r.FormValue("author"),
		ReadTime:      r.FormValue("readTime"),
		CategoryID:    categoryID,
		Tags:          splitCommaList(r.FormValue("tags")),
		FeaturedImage: models.Media{PublicID: obj.Key, URL: obj.URL},
		IsPublished:   published,
	}
	if published {
		ts := time.Now().UTC().UnixMilli()
		post.PublishDate = &ts
	}

	id, err := h.postRepo.CreatePost(ctx, post)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeError(w, "A post with this slug already exists.", http.StatusConflict)
			return
		}
		logger.Error("create post", "err", err)
		logger.Warn("orphaned featured image object", "key", obj.Key)
		writeError(w, "Server error creating blog post.", http.StatusInternalServerError)
		return
	}
	post.ID = id
	post.Category = category

	writeJSON(w, map[string]any{"success": true, "message": "Blog post created successfully!", "post": post}, http.StatusCreated)
}

func (h *BlogPostsHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Post not found (invalid ID).", http.StatusNotFound)
		return
	}
	if err := parseForm(r); err != nil {
		writeError(w, "Invalid form data.", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	post, err := h.postRepo.GetPostByID(ctx, id)
	if err != nil {
		logger.Error("get post for update", "id", id, "err", err)
		writeError(w, "Server error updating blog post.", http.StatusInternalServerError)
		return
	}
	if post == nil {
		writeError(w, "Blog post not found to update.", http.StatusNotFound)
		return
	}

	for _, field := range postRequiredFields {
		if strings.TrimSpace(r.FormValue(field)) == "" {
			writeError(w, "Missing required fields for update.", http.StatusBadRequest)
			return
		}
	}

	categoryID, ok := parsePositiveInt(r.FormValue("categoryId"))
	if !ok {
		writeError(w, "Blog category not found for update.", http.StatusNotFound)
		return
	}
	category, err := h.categoryRepo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		logger.Error("get category", "id", categoryID, "err", err)
		writeError(w, "Server error updating blog post.", http.StatusInternalServerError)
		return
	}
	if category == nil {
		writeError(w, "Blog category not found for update.", http.StatusNotFound)
		return
	}

	post.Title = r.FormValue("title")
	post.Excerpt = r.FormValue("excerpt")
	post.Content = splitParagraphs(r.FormValue("content"))
	post.Author = r.FormValue("author")
	post.ReadTime = r.FormValue("readTime")
	post.CategoryID = categoryID
	post.Tags = splitCommaList(r.FormValue("tags"))

	published := strings.EqualFold(r.FormValue("isPublished"), "true")
	if published && !post.IsPublished {
		ts := time.Now().UTC().UnixMilli()
		post.PublishDate = &ts
	} else if !published {
		post.PublishDate = nil
	}
	post.IsPublished = published

	if file, header, fErr := r.FormFile("featuredImageFile"); fErr == nil {
		defer file.Close()
		if post.FeaturedImage.PublicID != "" {
			if delErr := h.store.Delete(ctx, post.FeaturedImage.PublicID); delErr != nil {
				logger.Warn("delete old featured image failed", "key", post.FeaturedImage.PublicID, "err", delErr)
			}
		}
		obj, upErr := h.store.Upload(ctx, blogImageFolder, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
		if upErr != nil {
			logger.Warn("featured image upload failed", "err", upErr)
		} else {
			post.FeaturedImage = models.Media{PublicID: obj.Key, URL: obj.URL}
		}
	} else if strings.EqualFold(r.FormValue("removeFeaturedImage"), "true") {
		if post.FeaturedImage.PublicID != "" {
			if delErr := h.store.Delete(ctx, post.FeaturedImage.PublicID); delErr != nil {
				logger.Warn("delete featured image failed", "key", post.FeaturedImage.PublicID, "err", delErr)
			}
		}
		post.FeaturedImage = models.Media{}
	}

	if err := h.postRepo.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeError(w, "A post with this slug already exists.", http.StatusConflict)
			return
		}
		logger.Error("update post", "id", id, "err", err)
		writeError(w, "Server error updating blog post.", http.StatusInternalServerError)
		return
	}
	post.Category = category

	writeJSON(w, map[string]any{"success": true, "message": "Blog post updated successfully!", "post": post}, http.StatusOK)
}

func (h *BlogPostsHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Post not found (invalid ID format for delete).", http.StatusNotFound)
		return
	}

	ctx := r.Context()
	post, err := h.postRepo.GetPostByID(ctx, id)
	if err != nil {
		logger.Error("get post for delete", "id", id, "err", err)
		writeError(w, "Server error deleting blog post.", http.StatusInternalServerError)
		return
	}
	if post == nil {
		writeError(w, "Blog post not found to delete.", http.StatusNotFound)
		return
	}

	if post.FeaturedImage.PublicID != "" {
		if delErr := h.store.Delete(ctx, post.FeaturedImage.PublicID); delErr != nil {
			logger.Warn("delete featured image failed", "key", post.FeaturedImage.PublicID, "err", delErr)
		}
	}

	if err := h.postRepo.DeletePost(ctx, id); err != nil {
		logger.Error("delete post", "id", id, "err", err)
		writeError(w, "Server error deleting blog post.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"success": true, "message": "Blog post deleted successfully!", "postId": id}, http.StatusOK)
}
