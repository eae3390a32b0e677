package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/aql-compiler/api/v1"
	"github.com/kubev2v/aql-compiler/internal/models"
)

// ListSchemas returns every stored namespace
// (GET /schemas)
func (h *Handler) ListSchemas(c *gin.Context) {
	namespaces, err := h.schemaSrv.List(c.Request.Context())
	if err != nil {
		writeError(c, "schema_handler", "failed to list schemas", err)
		return
	}
	c.JSON(http.StatusOK, v1.NewSchemaNamespaceList(namespaces))
}

// GetSchema returns the fields of one namespace
// (GET /schemas/{namespace})
func (h *Handler) GetSchema(c *gin.Context, namespace string) {
	ns, err := h.schemaSrv.Get(c.Request.Context(), namespace)
	if err != nil {
		writeError(c, "schema_handler", "failed to get schema", err)
		return
	}
	c.JSON(http.StatusOK, v1.NewSchemaNamespace(*ns))
}

// PutSchema replaces the fields of a namespace, creating it if needed
// (PUT /schemas/{namespace})
func (h *Handler) PutSchema(c *gin.Context, namespace string) {
	var req v1.PutSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ns := &models.SchemaNamespace{Name: namespace, Fields: req.Fields}
	if err := h.schemaSrv.Put(c.Request.Context(), ns); err != nil {
		writeError(c, "schema_handler", "failed to store schema", err)
		return
	}
	c.JSON(http.StatusOK, v1.NewSchemaNamespace(*ns))
}

// DeleteSchema removes a namespace
// (DELETE /schemas/{namespace})
func (h *Handler) DeleteSchema(c *gin.Context, namespace string) {
	if err := h.schemaSrv.Delete(c.Request.Context(), namespace); err != nil {
		writeError(c, "schema_handler", "failed to delete schema", err)
		return
	}
	c.Status(http.StatusNoContent)
}
