package products

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/storefront/internal/platform/httpx"
	"github.com/odyssey-erp/storefront/internal/shared"
)

// Handler wires HTTP endpoints for the product resource. All routes are
// mounted behind the auth gate by the router.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		validator: httpx.NewValidator(),
	}
}

// MountRoutes registers product routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return
	}

	items, err := h.service.List(r.Context(), ident)
	if err != nil {
		h.logError(r, "list", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string][]Product{"items": items})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ident, id, ok := h.identAndID(w, r)
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), ident, id)
	if err != nil {
		h.logError(r, "get", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]*Product{"item": item})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return
	}

	var req CreateProductRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondValidationError(w, err)
		return
	}

	item, err := h.service.Create(r.Context(), ident, req)
	if err != nil {
		h.logError(r, "create", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]*Product{"item": item})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ident, id, ok := h.identAndID(w, r)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondValidationError(w, err)
		return
	}

	item, err := h.service.Update(r.Context(), ident, id, req)
	if err != nil {
		h.logError(r, "update", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]*Product{"item": item})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ident, id, ok := h.identAndID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), ident, id); err != nil {
		h.logError(r, "delete", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// identAndID pulls the caller identity and the {id} route parameter, or
// writes the failure response itself.
func (h *Handler) identAndID(w http.ResponseWriter, r *http.Request) (shared.Identity, int64, bool) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return shared.Identity{}, 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "Product not found")
		return shared.Identity{}, 0, false
	}
	return ident, id, true
}

func (h *Handler) logError(r *http.Request, op string, err error) {
	if httpx.IsExpected(err) {
		return
	}
	h.logger.Error("products "+op+" failed", slog.Any("error", err), slog.String("path", r.URL.Path))
}
