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

func seedCategory(t *testing.T, repo repository.BlogCategoryRepo, name string) *models.BlogCategory {
	t.Helper()
	c := &models.BlogCategory{Name: name, Description: "About " + name}
	id, err := repo.CreateCategory(context.Background(), c)
	if err != nil {
		t.Fatalf("seed category %q: %v", name, err)
	}
	c.ID = id
	return c
}

func seedPost(t *testing.T, repo repository.BlogPostRepo, categoryID int64, title string, published bool) *models.BlogPost {
	t.Helper()
	p := &models.BlogPost{
		Title:       title,
		Excerpt:     "excerpt",
		Content:     []string{"first paragraph", "second paragraph"},
		Author:      "Jordan Reed",
		ReadTime:    "4 min read",
		CategoryID:  categoryID,
		IsPublished: published,
	}
	if published {
		ts := int64(1700000000000)
		p.PublishDate = &ts
	}
	id, err := repo.CreatePost(context.Background(), p)
	if err != nil {
		t.Fatalf("seed post %q: %v", title, err)
	}
	p.ID = id
	return p
}

func postFields(categoryID int64) map[string]string {
	return map[string]string{
		"title":      "Hiring in 2026",
		"excerpt":    "What changed this year.",
		"content":    "Intro paragraph.\n\nBody paragraph.",
		"author":     "Jordan Reed",
		"readTime":   "5 min read",
		"categoryId": strconv.FormatInt(categoryID, 10),
		"tags":       "hiring, trends",
	}
}

func TestCreateCategoryAndConflict(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewBlogCategoriesHandler(repo, repo)

	create := func(name string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"name": name, "description": "d"})
		req := httptest.NewRequest(http.MethodPost, "/api/blog/categories", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		h.CreateCategory(rr, req)
		return rr
	}

	if rr := create("Career Advice"); rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d: %s", rr.Code, rr.Body.String())
	}
	// Same name and the slug it would generate are both taken.
	if rr := create("Career Advice"); rr.Code != http.StatusConflict {
		t.Fatalf("duplicate name: expected 409 got %d", rr.Code)
	}
	if rr := create("career advice"); rr.Code != http.StatusConflict {
		t.Fatalf("slug collision: expected 409 got %d", rr.Code)
	}
}

func TestDeleteCategoryWithPostsRefused(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewBlogCategoriesHandler(repo, repo)
	cat := seedCategory(t, repo, "Engineering")
	seedPost(t, repo, cat.ID, "Post One", true)

	req := httptest.NewRequest(http.MethodDelete, "/api/blog/categories/"+strconv.FormatInt(cat.ID, 10), nil)
	req = mux.SetURLVars(req, map[string]string{"id": strconv.FormatInt(cat.ID, 10)})
	rr := httptest.NewRecorder()
	h.DeleteCategory(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "1 post(s)") {
		t.Fatalf("error should report the post count: %s", rr.Body.String())
	}
	if c, _ := repo.GetCategoryByID(context.Background(), cat.ID); c == nil {
		t.Fatalf("category must survive the refused delete")
	}
}

func TestDeleteEmptyCategory(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewBlogCategoriesHandler(repo, repo)
	cat := seedCategory(t, repo, "Empty")

	req := httptest.NewRequest(http.MethodDelete, "/api/blog/categories/"+strconv.FormatInt(cat.ID, 10), nil)
	req = mux.SetURLVars(req, map[string]string{"id": strconv.FormatInt(cat.ID, 10)})
	rr := httptest.NewRecorder()
	h.DeleteCategory(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	if c, _ := repo.GetCategoryByID(context.Background(), cat.ID); c != nil {
		t.Fatalf("category still present after delete")
	}
}

func TestCreatePostRequiresImage(t *testing.T) {
	repo := newTestRepo(t)
	cat := seedCategory(t, repo, "Engineering")
	h := api.NewBlogPostsHandler(repo, repo, &fakeStore{}, testSecret)

	body, ct := multipartBody(t, postFields(cat.ID))
	req := httptest.NewRequest(http.MethodPost, "/api/blog/posts", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.CreatePost(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Featured image is required") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestCreatePostSplitsParagraphs(t *testing.T) {
	repo := newTestRepo(t)
	cat := seedCategory(t, repo, "Engineering")
	store := &fakeStore{}
	h := api.NewBlogPostsHandler(repo, repo, store, testSecret)

	body, ct := multipartBody(t, postFields(cat.ID),
		formFile{field: "featuredImageFile", filename: "cover.jpg", contentType: "image/jpeg", data: []byte("jpg")})
	req := httptest.NewRequest(http.MethodPost, "/api/blog/posts", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.CreatePost(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}
	if len(store.uploads) != 1 {
		t.Fatalf("expected 1 upload got %d", len(store.uploads))
	}

	var resp struct {
		Post models.BlogPost `json:"post"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Post.Content) != 2 {
		t.Fatalf("content not split into paragraphs: %v", resp.Post.Content)
	}
	if resp.Post.Slug != "hiring-in-2026" {
		t.Fatalf("slug: %q", resp.Post.Slug)
	}
	// Draft by default, so no publish date.
	if resp.Post.IsPublished || resp.Post.PublishDate != nil {
		t.Fatalf("post should start as a draft")
	}
}

func TestCreatePostUnknownCategory(t *testing.T) {
	repo := newTestRepo(t)
	h := api.NewBlogPostsHandler(repo, repo, &fakeStore{}, testSecret)

	body, ct := multipartBody(t, postFields(999),
		formFile{field: "featuredImageFile", filename: "cover.jpg", contentType: "image/jpeg", data: []byte("jpg")})
	req := httptest.NewRequest(http.MethodPost, "/api/blog/posts", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.CreatePost(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestGetPostBySlugIncrementsViews(t *testing.T) {
	repo := newTestRepo(t)
	cat := seedCategory(t, repo, "Engineering")
	post := seedPost(t, repo, cat.ID, "Published Piece", true)
	h := api.NewBlogPostsHandler(repo, repo, &fakeStore{}, testSecret)

	get := func() models.BlogPost {
		req := httptest.NewRequest(http.MethodGet, "/api/blog/posts/slug/"+post.Slug, nil)
		req = mux.SetURLVars(req, map[string]string{"slug": post.Slug})
		rr := httptest.NewRecorder()
		h.GetPostBySlug(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
		}
		var p models.BlogPost
		if err := json.NewDecoder(rr.Body).Decode(&p); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return p
	}

	if first := get(); first.Views != 1 {
		t.Fatalf("first view count: %d", first.Views)
	}
	if second := get(); second.Views != 2 {
		t.Fatalf("second view count: %d", second.Views)
	}
}

func TestGetPostBySlugUnpublished(t *testing.T) {
	repo := newTestRepo(t)
	cat := seedCategory(t, repo, "Engineering")
	post := seedPost(t, repo, cat.ID, "Draft Piece", false)
	h := api.NewBlogPostsHandler(repo, repo, &fakeStore{}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/api/blog/posts/slug/"+post.Slug, nil)
	req = mux.SetURLVars(req, map[string]string{"slug": post.Slug})
	rr := httptest.NewRecorder()
	h.GetPostBySlug(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}

	// The failed fetch must not bump views.
	stored, err := repo.GetPostByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Views != 0 {
		t.Fatalf("draft views: %d", stored.Views)
	}
}

func TestListPostsVisibility(t *testing.T) {
	repo := newTestRepo(t)
	cat := seedCategory(t, repo, "Engineering")
	seedPost(t, repo, cat.ID, "Published One", true)
	seedPost(t, repo, cat.ID, "Draft One", false)
	h := api.NewBlogPostsHandler(repo, repo, &fakeStore{}, testSecret)

	list := func(query, token string) map[string]any {
		req := httptest.NewRequest(http.MethodGet, "/api/blog/posts"+query, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		h.ListPosts(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("list %s: got %d", query, rr.Code)
		}
		var body map[string]any
		if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return body
	}

	if got := list("", "")["totalPosts"].(float64); got != 1 {
		t.Fatalf("public list should hide drafts: %v", got)
	}
	if got := list("?admin_view=true", adminToken(t))["totalPosts"].(float64); got != 2 {
		t.Fatalf("admin list should include drafts: %v", got)
	}
	// Without a token the flag is ignored and drafts stay hidden.
	if got := list("?admin_view=true", "")["totalPosts"].(float64); got != 1 {
		t.Fatalf("unauthenticated admin_view should behave as public: %v", got)
	}
	// A token signed with the wrong secret does not count either.
	bad := jwtSignedWith(t, "some-other-secret")
	if got := list("?admin_view=true", bad)["totalPosts"].(float64); got != 1 {
		t.Fatalf("forged token should behave as public: %v", got)
	}
	// Unknown category slugs return an empty page, not an error.
	body := list("?category=no-such-category", "")
	if got := body["totalPosts"].(float64); got != 0 {
		t.Fatalf("unknown category: %v", got)
	}
	if got := list("?category="+cat.Slug, "")["totalPosts"].(float64); got != 1 {
		t.Fatalf("category filter: %v", got)
	}
}

func TestUpdatePostPublishTransitions(t *testing.T) {
	repo := newTestRepo(t)
	cat := seedCategory(t, repo, "Engineering")
	post := seedPost(t, repo, cat.ID, "Lifecycle", false)
	h := api.NewBlogPostsHandler(repo, repo, &fakeStore{}, testSecret)

	update := func(isPublished string) models.BlogPost {
		fields := postFields(cat.ID)
		fields["title"] = "Lifecycle"
		fields["isPublished"] = isPublished
		body, ct := multipartBody(t, fields)
		req := httptest.NewRequest(http.MethodPut, "/api/blog/posts/"+strconv.FormatInt(post.ID, 10), body)
		req.Header.Set("Content-Type", ct)
		req = mux.SetURLVars(req, map[string]string{"id": strconv.FormatInt(post.ID, 10)})
		rr := httptest.NewRecorder()
		h.UpdatePost(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("update: expected 200 got %d: %s", rr.Code, rr.Body.String())
		}
		var resp struct {
			Post models.BlogPost `json:"post"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp.Post
	}

	published := update("true")
	if !published.IsPublished || published.PublishDate == nil {
		t.Fatalf("publishing must stamp the publish date: %+v", published)
	}

	unpublished := update("false")
	if unpublished.IsPublished || unpublished.PublishDate != nil {
		t.Fatalf("unpublishing must clear the publish date: %+v", unpublished)
	}
}

func TestDeletePostCleansUpImage(t *testing.T) {
	repo := newTestRepo(t)
	cat := seedCategory(t, repo, "Engineering")
	store := &fakeStore{}
	h := api.NewBlogPostsHandler(repo, repo, store, testSecret)

	p := &models.BlogPost{
		Title: "With Image", Excerpt: "e", Content: []string{"p"}, Author: "a",
		ReadTime: "1 min read", CategoryID: cat.ID,
		FeaturedImage: models.Media{PublicID: "silver_talent/blog_images/cover.jpg", URL: "u"},
	}
	id, err := repo.CreatePost(context.Background(), p)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/blog/posts/"+strconv.FormatInt(id, 10), nil)
	req = mux.SetURLVars(req, map[string]string{"id": strconv.FormatInt(id, 10)})
	rr := httptest.NewRecorder()
	h.DeletePost(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if len(store.deletes) != 1 || store.deletes[0] != "silver_talent/blog_images/cover.jpg" {
		t.Fatalf("featured image not deleted: %v", store.deletes)
	}
}

func TestPostSlugsGetSuffixes(t *testing.T) {
	repo := newTestRepo(t)
	cat := seedCategory(t, repo, "Engineering")

	first := seedPost(t, repo, cat.ID, "Same Title", false)
	second := seedPost(t, repo, cat.ID, "Same Title", false)

	if first.Slug != "same-title" {
		t.Fatalf("first slug: %q", first.Slug)
	}
	if second.Slug != "same-title-1" {
		t.Fatalf("second slug: %q", second.Slug)
	}
}
