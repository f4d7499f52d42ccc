package sandbox

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"usermanager/internal/shared/server/middleware"
	"usermanager/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg gin.IRouter) {
	g := rg.Group("/users")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	recs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]userBody, 0, len(recs))
	for _, r := range recs {
		out = append(out, bodyFrom(r))
	}
	respond.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, bodyFrom(rec))
}

func (h *Handler) create(c *gin.Context) {
	var body userBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "request body must be a JSON user", nil)
		return
	}
	rec, err := h.Svc.Create(c.Request.Context(), body.record())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set(middleware.UserIDKey, rec.ID)
	respond.JSON(c, http.StatusCreated, bodyFrom(rec))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body userBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "request body must be a JSON user", nil)
		return
	}
	rec := body.record()
	rec.ID = id
	updated, err := h.Svc.Update(c.Request.Context(), rec)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, bodyFrom(updated))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
	case errors.Is(err, ErrInvalid):
		respond.Error(c, http.StatusUnprocessableEntity, "invalid_user", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "directory unavailable", nil)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "invalid_id", "user id must be a positive integer", nil)
		return 0, false
	}
	c.Set(middleware.UserIDKey, id)
	return id, true
}
