package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/aql-compiler/api/v1"
	"github.com/kubev2v/aql-compiler/internal/services"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListSavedQueries returns saved queries with filtering and pagination
// (GET /saved-queries)
func (h *Handler) ListSavedQueries(c *gin.Context, params v1.ListSavedQueriesParams) {
	page := 1
	if params.Page != nil && *params.Page > 0 {
		page = *params.Page
	}
	pageSize := defaultPageSize
	if params.PageSize != nil && *params.PageSize > 0 {
		pageSize = min(*params.PageSize, maxPageSize)
	}

	svcParams := services.SavedQueryListParams{
		Limit:  uint64(pageSize),
		Offset: uint64((page - 1) * pageSize),
	}
	if params.Namespace != nil {
		svcParams.Namespace = *params.Namespace
	}
	if params.Name != nil {
		svcParams.Name = *params.Name
	}
	if params.Filter != nil {
		svcParams.Filter = *params.Filter
	}

	queries, total, err := h.queriesSrv.List(c.Request.Context(), svcParams)
	if err != nil {
		writeError(c, "saved_query_handler", "failed to list saved queries", err)
		return
	}

	c.JSON(http.StatusOK, v1.NewSavedQueryList(queries, total, page, pageSize))
}

// CreateSavedQuery compiles and stores a new saved query
// (POST /saved-queries)
func (h *Handler) CreateSavedQuery(c *gin.Context) {
	var req v1.SavedQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	q, err := h.queriesSrv.Create(c.Request.Context(), req.ToModel())
	if err != nil {
		writeError(c, "saved_query_handler", "failed to create saved query", err)
		return
	}
	c.JSON(http.StatusCreated, v1.NewSavedQuery(*q))
}

// GetSavedQuery returns one saved query
// (GET /saved-queries/{id})
func (h *Handler) GetSavedQuery(c *gin.Context, id string) {
	q, err := h.queriesSrv.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, "saved_query_handler", "failed to get saved query", err)
		return
	}
	c.JSON(http.StatusOK, v1.NewSavedQuery(*q))
}

// UpdateSavedQuery recompiles and replaces a saved query
// (PUT /saved-queries/{id})
func (h *Handler) UpdateSavedQuery(c *gin.Context, id string) {
	var req v1.SavedQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	q, err := h.queriesSrv.Update(c.Request.Context(), id, req.ToModel())
	if err != nil {
		writeError(c, "saved_query_handler", "failed to update saved query", err)
		return
	}
	c.JSON(http.StatusOK, v1.NewSavedQuery(*q))
}

// DeleteSavedQuery removes a saved query
// (DELETE /saved-queries/{id})
func (h *Handler) DeleteSavedQuery(c *gin.Context, id string) {
	if err := h.queriesSrv.Delete(c.Request.Context(), id); err != nil {
		writeError(c, "saved_query_handler", "failed to delete saved query", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RecompileSavedQueries recompiles every saved query against the current schema
// (POST /saved-queries/recompile)
func (h *Handler) RecompileSavedQueries(c *gin.Context) {
	report, err := h.queriesSrv.RecompileAll(c.Request.Context())
	if err != nil {
		writeError(c, "saved_query_handler", "failed to recompile saved queries", err)
		return
	}
	c.JSON(http.StatusOK, v1.RecompileReport{
		Total:   report.Total,
		Updated: report.Updated,
		Failed:  report.Failed,
	})
}
