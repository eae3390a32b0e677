package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/aql-compiler/api/v1"
	"github.com/kubev2v/aql-compiler/internal/models"
	"github.com/kubev2v/aql-compiler/internal/services"
	"github.com/kubev2v/aql-compiler/pkg/adapters"
	srvErrors "github.com/kubev2v/aql-compiler/pkg/errors"
	"github.com/kubev2v/aql-compiler/pkg/filter"
)

type Compiler interface {
	Compile(ctx context.Context, req services.CompileRequest) (services.CompileResult, error)
	OperatorTable() *filter.OperatorTable
}

type SchemaService interface {
	List(ctx context.Context) ([]models.SchemaNamespace, error)
	Get(ctx context.Context, name string) (*models.SchemaNamespace, error)
	Put(ctx context.Context, ns *models.SchemaNamespace) error
	Delete(ctx context.Context, name string) error
}

type SavedQueryService interface {
	Get(ctx context.Context, id string) (*models.SavedQuery, error)
	List(ctx context.Context, params services.SavedQueryListParams) ([]models.SavedQuery, int, error)
	Create(ctx context.Context, q models.SavedQuery) (*models.SavedQuery, error)
	Update(ctx context.Context, id string, q models.SavedQuery) (*models.SavedQuery, error)
	Delete(ctx context.Context, id string) error
	RecompileAll(ctx context.Context) (services.RecompileReport, error)
}

type AdapterCatalog interface {
	Entries() []adapters.Adapter
}

type Handler struct {
	compiler   Compiler
	schemaSrv  SchemaService
	queriesSrv SavedQueryService
	catalog    AdapterCatalog
}

var _ v1.ServerInterface = (*Handler)(nil)

func New(compiler Compiler, schemaSrv SchemaService, queriesSrv SavedQueryService, catalog AdapterCatalog) *Handler {
	return &Handler{
		compiler:   compiler,
		schemaSrv:  schemaSrv,
		queriesSrv: queriesSrv,
		catalog:    catalog,
	}
}

// GetHealth reports that the server is up
// (GET /health)
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, v1.Health{Status: "ok"})
}

// writeError maps service errors to status codes. Anything unexpected is
// logged under handler and answered with the generic msg.
func writeError(c *gin.Context, handler string, msg string, err error) {
	switch {
	case srvErrors.IsInvalidQueryError(err), srvErrors.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case srvErrors.IsResourceNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		zap.S().Named(handler).Errorw(msg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
