package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"usermanager/internal/shared/server/middleware"
	"usermanager/internal/shared/server/respond"
	"usermanager/internal/users"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFiles, "templates/*.html"))
}

type page struct {
	State   users.State
	Invalid string
}

// Handler serves the user management page on top of a users.Manager.
type Handler struct {
	Mgr *users.Manager
}

func NewHandler(mgr *users.Manager) *Handler {
	return &Handler{Mgr: mgr}
}

// RegisterRoutes installs the page, its form actions and the JSON state endpoint.
// The engine must have Templates() set as its HTML template.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.index)
	r.POST("/users", h.submit)
	r.POST("/users/refresh", h.refresh)
	r.POST("/users/:id/edit", h.edit)
	r.POST("/users/:id/delete", h.delete)
	r.POST("/form/cancel", h.cancel)
	r.POST("/errors/dismiss", h.dismiss)

	api := r.Group("/api/v1")
	api.GET("/state", h.state)
}

func (h *Handler) index(c *gin.Context) {
	h.render(c, http.StatusOK, "")
}

func (h *Handler) state(c *gin.Context) {
	respond.OK(c, h.Mgr.State())
}

func (h *Handler) submit(c *gin.Context) {
	h.Mgr.SetForm(users.FormState{
		FirstName:  strings.TrimSpace(c.PostForm("firstName")),
		LastName:   strings.TrimSpace(c.PostForm("lastName")),
		Email:      strings.TrimSpace(c.PostForm("email")),
		Department: strings.TrimSpace(c.PostForm("department")),
	})
	err := h.Mgr.Submit(actionContext(c))

	var verr *users.ValidationError
	switch {
	case errors.As(err, &verr):
		h.render(c, http.StatusUnprocessableEntity, "Please fill in: "+strings.Join(verr.Fields, ", "))
		return
	case errors.Is(err, users.ErrNoSelection):
		h.render(c, http.StatusUnprocessableEntity, "Select a user to update.")
		return
	}
	// Directory failures are already on the error channel.
	respond.SeeOther(c, "/")
}

func (h *Handler) refresh(c *gin.Context) {
	_ = h.Mgr.Fetch(actionContext(c))
	respond.SeeOther(c, "/")
}

func (h *Handler) edit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Mgr.EditByID(id); err != nil {
		h.render(c, http.StatusNotFound, "That user is no longer in the list.")
		return
	}
	respond.SeeOther(c, "/")
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	_ = h.Mgr.Delete(actionContext(c), id)
	respond.SeeOther(c, "/")
}

func (h *Handler) cancel(c *gin.Context) {
	h.Mgr.CancelEdit()
	respond.SeeOther(c, "/")
}

func (h *Handler) dismiss(c *gin.Context) {
	h.Mgr.DismissError()
	respond.SeeOther(c, "/")
}

func (h *Handler) render(c *gin.Context, status int, invalid string) {
	c.HTML(status, "index.html", page{State: h.Mgr.State(), Invalid: invalid})
}

// actionContext detaches directory calls from the browser connection so a completed
// request is always applied to the mirror.
func actionContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
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
