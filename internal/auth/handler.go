package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/storefront/internal/platform/httpx"
	"github.com/odyssey-erp/storefront/internal/shared"
)

// Handler wires HTTP endpoints for registration and login flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	gate      Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		validator: httpx.NewValidator(),
		gate:      gate,
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAuth)
		r.Get("/me", h.handleMe)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondValidationError(w, err)
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.logError(r, "register", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, res)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondValidationError(w, err)
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.logError(r, "login", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return
	}

	user, err := h.service.Self(r.Context(), ident)
	if err != nil {
		h.logError(r, "me", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]UserView{"user": user.View()})
}

// logError records unexpected failures only; expected business rejections
// already carry their status mapping.
func (h *Handler) logError(r *http.Request, op string, err error) {
	if httpx.IsExpected(err) {
		return
	}
	h.logger.Error("auth "+op+" failed", slog.Any("error", err), slog.String("path", r.URL.Path))
}
