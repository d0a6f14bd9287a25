package handler

import (
	"net/http"
	"strconv"

	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/ports"
)

type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug" validate:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sortOrder"`
}

type siteRequest struct {
	CategoryID  string `json:"categoryId" validate:"required"`
	Name        string `json:"name" validate:"required"`
	URL         string `json:"url" validate:"required,http_url"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl" validate:"omitempty,url"`
	IsPublished bool   `json:"isPublished"`
	SortOrder   int    `json:"sortOrder"`
}

func (req siteRequest) toSite() domain.Site {
	return domain.Site{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		URL:         req.URL,
		Description: req.Description,
		IconURL:     req.IconURL,
		IsPublished: req.IsPublished,
		SortOrder:   req.SortOrder,
	}
}

// Public

func (h *CatalogHandler) PublicCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.PublicCatalog(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Category{"categories": categories})
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	sites, err := h.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Site{"sites": sites})
}

// Categories

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Category{"categories": categories})
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), req.Name, req.Slug, req.Description, req.SortOrder)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	category, err := h.catalog.UpdateCategory(r.Context(), r.PathValue("id"), req.Name, req.Slug, req.Description, req.SortOrder)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sites

func (h *CatalogHandler) ListSites(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	sites, err := h.catalog.ListSites(r.Context(), page, limit, q.Get("categoryId"), q.Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Site{"sites": sites})
}

func (h *CatalogHandler) GetSite(w http.ResponseWriter, r *http.Request) {
	site, err := h.catalog.GetSite(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (h *CatalogHandler) CreateSite(w http.ResponseWriter, r *http.Request) {
	var req siteRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	site, err := h.catalog.CreateSite(r.Context(), req.toSite())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, site)
}

func (h *CatalogHandler) UpdateSite(w http.ResponseWriter, r *http.Request) {
	var req siteRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	site, err := h.catalog.UpdateSite(r.Context(), r.PathValue("id"), req.toSite())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (h *CatalogHandler) DeleteSite(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteSite(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
