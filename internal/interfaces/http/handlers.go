package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmundy42/cobrababel/internal/infrastructure/database/postgres/repositories"
	"github.com/mmundy42/cobrababel/internal/infrastructure/export"
	"github.com/mmundy42/cobrababel/pkg/errors"
)

type modelHandler struct {
	store ModelStore
}

func newModelHandler(store ModelStore) *modelHandler {
	return &modelHandler{store: store}
}

// respondError maps an application error onto an HTTP status and a stable
// JSON error body.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	message := err.Error()
	if appErr, ok := err.(*errors.AppError); ok {
		message = appErr.Message
	}
	c.JSON(status, gin.H{
		"error": message,
		"code":  string(code),
	})
}

func (h *modelHandler) list(c *gin.Context) {
	summaries, err := h.store.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if summaries == nil {
		summaries = []repositories.ModelSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"models": summaries})
}

func (h *modelHandler) get(c *gin.Context) {
	m, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *modelHandler) export(c *gin.Context) {
	m, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	document, err := export.Model(m)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+m.ID+`.json"`)
	c.Data(http.StatusOK, "application/json", document)
}

func (h *modelHandler) metabolite(c *gin.Context) {
	m, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	met, ok := m.Metabolite(c.Param("entity"))
	if !ok {
		respondError(c, errors.NotFound("metabolite "+c.Param("entity")+" not found"))
		return
	}
	c.JSON(http.StatusOK, met)
}

func (h *modelHandler) reaction(c *gin.Context) {
	m, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	rxn, ok := m.Reaction(c.Param("entity"))
	if !ok {
		respondError(c, errors.NotFound("reaction "+c.Param("entity")+" not found"))
		return
	}
	c.JSON(http.StatusOK, rxn)
}
