package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/aql-compiler/api/v1"
	"github.com/kubev2v/aql-compiler/internal/services"
)

// CompileQuery compiles an expression list into a filter
// (POST /queries/compile)
func (h *Handler) CompileQuery(c *gin.Context) {
	var req v1.CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// Recompile is on unless the client asks to reuse its session cache.
	creq := services.CompileRequest{Expressions: req.Expressions, Recompile: true}
	if req.Meta != nil {
		creq.Meta = *req.Meta
	}
	if req.Session != nil {
		creq.Session = *req.Session
	}
	if req.Recompile != nil {
		creq.Recompile = *req.Recompile
	}
	if req.Expand != nil {
		creq.Expand = *req.Expand
	}

	result, err := h.compiler.Compile(c.Request.Context(), creq)
	if err != nil {
		writeError(c, "compile_handler", "failed to compile query", err)
		return
	}

	c.JSON(http.StatusOK, v1.NewCompileResponse(result.Query, result.Errors, result.Expanded))
}

// GetOperators lists the operators offered for a field schema
// (GET /operators)
func (h *Handler) GetOperators(c *gin.Context, params v1.GetOperatorsParams) {
	c.JSON(http.StatusOK, v1.NewOperatorList(h.compiler.OperatorTable(), params.Schema()))
}

// ListAdapters returns the adapter catalog
// (GET /adapters)
func (h *Handler) ListAdapters(c *gin.Context) {
	c.JSON(http.StatusOK, v1.NewAdapterList(h.catalog.Entries()))
}
