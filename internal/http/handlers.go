package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"temple/internal/core"
	applog "temple/internal/log"
)

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// handleLogin exchanges credentials for a bearer token.
func (s *Server) handleLogin(c *gin.Context) {
	ctx := c.Request.Context()
	var req loginRequest
	if err := bindBody(c, &req); err != nil {
		respondError(c, err)
		return
	}
	username := strings.TrimSpace(req.Username)

	id, err := s.deps.Auth.Authenticate(ctx, username, req.Password)
	if err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Login rejected", applog.FieldUsername, username)
		respondError(c, err)
		return
	}

	token, exp, err := s.deps.Tokens.Issue(id)
	if err != nil {
		respondError(c, err)
		return
	}
	applog.FromContext(ctx).InfoContext(ctx, "Login succeeded",
		applog.FieldUsername, id.Username,
		applog.FieldRole, string(id.Role))

	NewResult().
		With("token", token).
		With("expires_at", exp).
		With("username", id.Username).
		With("role", id.Role).
		Write(c)
}

// --- poojas ---

type poojaRequest struct {
	Name  string     `json:"name"`
	Price core.Money `json:"price"`
}

func (s *Server) handleListPoojas(c *gin.Context) {
	poojas, err := s.deps.Catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if poojas == nil {
		poojas = []core.Pooja{}
	}
	NewResult().With("poojas", poojas).Write(c)
}

func (s *Server) handleAddPooja(c *gin.Context) {
	var req poojaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, core.Invalid("body", err.Error()))
		return
	}
	id, err := s.deps.Catalog.Add(c.Request.Context(), req.Name, req.Price)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResult().Status(http.StatusCreated).With("id", id).Write(c)
}

func (s *Server) handleEditPooja(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req poojaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, core.Invalid("body", err.Error()))
		return
	}
	ok, err := s.deps.Catalog.Edit(c.Request.Context(), id, req.Name, req.Price)
	writeChanged(c, ok, err, "pooja")
}

func (s *Server) handleDeletePooja(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ok, err := s.deps.Catalog.Delete(c.Request.Context(), id)
	writeChanged(c, ok, err, "pooja")
}

// writeChanged answers an edit or delete. A row that was not there is
// reported as success=false with 404.
func writeChanged(c *gin.Context, changed bool, err error, what string) {
	if err != nil {
		respondError(c, err)
		return
	}
	if !changed {
		Failure(http.StatusNotFound, what+" "+c.Param("id")+" not found").Write(c)
		return
	}
	NewResult().Write(c)
}
