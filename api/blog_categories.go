package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/silvertalent/backend/internal/models"
	"github.com/silvertalent/backend/internal/slug"
	"github.com/silvertalent/backend/pkg/repository"
)

type BlogCategoriesHandler struct {
	categoryRepo repository.BlogCategoryRepo
	postRepo     repository.BlogPostRepo
}

func NewBlogCategoriesHandler(cr repository.BlogCategoryRepo, pr repository.BlogPostRepo) *BlogCategoriesHandler {
	return &BlogCategoriesHandler{categoryRepo: cr, postRepo: pr}
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *BlogCategoriesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.ListCategories(r.Context())
	if err != nil {
		logger.Error("list categories", "err", err)
		writeError(w, "Server error fetching blog categories.", http.StatusInternalServerError)
		return
	}
	if categories == nil {
		categories = []models.BlogCategory{}
	}
	writeJSON(w, categories, http.StatusOK)
}

func (h *BlogCategoriesHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Category not found (invalid ID format).", http.StatusNotFound)
		return
	}
	category, err := h.categoryRepo.GetCategoryByID(r.Context(), id)
	if err != nil {
		logger.Error("get category", "id", id, "err", err)
		writeError(w, "Server error fetching category.", http.StatusInternalServerError)
		return
	}
	if category == nil {
		writeError(w, "Blog category not found.", http.StatusNotFound)
		return
	}
	writeJSON(w, category, http.StatusOK)
}

func (h *BlogCategoriesHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request.", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, "Category name is required.", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// Pre-check mirrors the unique indexes so the common case gets a clean
	// 409 instead of a storage error.
	taken, err := h.categoryRepo.CategoryNameOrSlugTaken(ctx, req.Name, slug.Sanitize(req.Name), 0)
	if err != nil {
		logger.Error("check category conflict", "err", err)
		writeError(w, "Server error creating blog category.", http.StatusInternalServerError)
		return
	}
	if taken {
		writeError(w, "A category with this name or slug already exists.", http.StatusConflict)
		return
	}

	category := &models.BlogCategory{Name: req.Name, Description: req.Description}
	id, err := h.categoryRepo.CreateCategory(ctx, category)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeError(w, "A category with this name or slug already exists.", http.StatusConflict)
			return
		}
		logger.Error("create category", "err", err)
		writeError(w, "Server error creating blog category.", http.StatusInternalServerError)
		return
	}
	category.ID = id

	writeJSON(w, map[string]any{"message": "Blog category created successfully.", "category": category}, http.StatusCreated)
}

func (h *BlogCategoriesHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Category not found (invalid ID format for update).", http.StatusNotFound)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request.", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, "Category name is required for update.", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	category, err := h.categoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		logger.Error("get category for update", "id", id, "err", err)
		writeError(w, "Server error updating blog category.", http.StatusInternalServerError)
		return
	}
	if category == nil {
		writeError(w, "Category not found to update.", http.StatusNotFound)
		return
	}

	taken, err := h.categoryRepo.CategoryNameOrSlugTaken(ctx, req.Name, slug.Sanitize(req.Name), id)
	if err != nil {
		logger.Error("check category conflict", "err", err)
		writeError(w, "Server error updating blog category.", http.StatusInternalServerError)
		return
	}
	if taken {
		writeError(w, "Another category with this name or generated slug already exists.", http.StatusConflict)
		return
	}

	category.Name = req.Name
	category.Description = req.Description
	if err := h.categoryRepo.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeError(w, "Another category with this name or generated slug already exists.", http.StatusConflict)
			return
		}
		logger.Error("update category", "id", id, "err", err)
		writeError(w, "Server error updating blog category.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"message": "Blog category updated successfully.", "category": category}, http.StatusOK)
}

func (h *BlogCategoriesHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Category not found (invalid ID format for delete).", http.StatusNotFound)
		return
	}

	ctx := r.Context()
	count, err := h.postRepo.CountPostsInCategory(ctx, id)
	if err != nil {
		logger.Error("count posts in category", "id", id, "err", err)
		writeError(w, "Server error deleting blog category.", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		writeError(w, fmt.Sprintf("Cannot delete category. %d post(s) are currently assigned to it. Please reassign them first.", count), http.StatusBadRequest)
		return
	}

	category, err := h.categoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		logger.Error("get category for delete", "id", id, "err", err)
		writeError(w, "Server error deleting blog category.", http.StatusInternalServerError)
		return
	}
	if category == nil {
		writeError(w, "Category not found to delete.", http.StatusNotFound)
		return
	}

	if err := h.categoryRepo.DeleteCategory(ctx, id); err != nil {
		logger.Error("delete category", "id", id, "err", err)
		writeError(w, "Server error deleting blog category.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"message": "Blog category deleted successfully.", "categoryId": id}, http.StatusOK)
}
