package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/aql-compiler/internal/models"
	"github.com/kubev2v/aql-compiler/internal/store"
	srvErrors "github.com/kubev2v/aql-compiler/pkg/errors"
	"github.com/kubev2v/aql-compiler/pkg/scheduler"
	"github.com/kubev2v/aql-compiler/pkg/search"
)

type SavedQueryListParams struct {
	Namespace string
	Name      string
	// Filter is a search expression over SavedQuerySearchFields.
	Filter string
	Limit  uint64
	Offset uint64
}

// RecompileReport counts the outcome of recompiling every saved query.
type RecompileReport struct {
	Total   int
	Updated int
	Failed  int
}

type SavedQueryService struct {
	store    *store.Store
	compiler *CompilerService
	sched    *scheduler.Scheduler[bool]
	logger   *zap.SugaredLogger
}

// NewSavedQueryService uses sched for RecompileAll. The caller owns it.
func NewSavedQueryService(st *store.Store, compiler *CompilerService, sched *scheduler.Scheduler[bool]) *SavedQueryService {
	return &SavedQueryService{
		store:    st,
		compiler: compiler,
		sched:    sched,
		logger:   zap.S().Named("saved_query_service"),
	}
}

func (s *SavedQueryService) Get(ctx context.Context, id string) (*models.SavedQuery, error) {
	return s.store.SavedQuery().Get(ctx, id)
}

func (s *SavedQueryService) List(ctx context.Context, params SavedQueryListParams) ([]models.SavedQuery, int, error) {
	filters := []store.ListOption{
		store.ByNamespace(params.Namespace),
		store.ByName(params.Name),
	}
	if params.Filter != "" {
		node, err := search.Parse(params.Filter, store.SavedQuerySearchFields)
		if err != nil {
			return nil, 0, srvErrors.NewValidationError(err.Error())
		}
		filters = append(filters, store.BySearch(node))
	}

	queries, err := s.store.SavedQuery().List(ctx, append(filters,
		store.WithDefaultSort(),
		store.WithLimit(params.Limit),
		store.WithOffset(params.Offset),
	)...)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.store.SavedQuery().Count(ctx, filters...)
	if err != nil {
		return nil, 0, err
	}
	return queries, total, nil
}

// Create compiles q, checks its saved query references and stores it under a new id.
func (s *SavedQueryService) Create(ctx context.Context, q models.SavedQuery) (*models.SavedQuery, error) {
	q.ID = uuid.NewString()
	if err := s.compile(ctx, &q); err != nil {
		return nil, err
	}
	if err := s.store.SavedQuery().Save(ctx, &q); err != nil {
		return nil, err
	}
	s.logger.Infow("saved query created", "id", q.ID, "name", q.Name)
	return &q, nil
}

// Update recompiles q and replaces the saved query id.
func (s *SavedQueryService) Update(ctx context.Context, id string, q models.SavedQuery) (*models.SavedQuery, error) {
	existing, err := s.store.SavedQuery().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	q.ID = id
	q.CreatedAt = existing.CreatedAt
	if err := s.compile(ctx, &q); err != nil {
		return nil, err
	}
	if err := s.store.SavedQuery().Save(ctx, &q); err != nil {
		return nil, err
	}
	s.logger.Infow("saved query updated", "id", q.ID, "name", q.Name)
	return &q, nil
}

func (s *SavedQueryService) Delete(ctx context.Context, id string) error {
	return s.store.SavedQuery().Delete(ctx, id)
}

// RecompileAll compiles every saved query again, on the scheduler workers,
// and stores the ones whose filter changed. Queries that no longer compile
// keep their stored filter and are counted as failed.
func (s *SavedQueryService) RecompileAll(ctx context.Context) (RecompileReport, error) {
	queries, err := s.store.SavedQuery().List(ctx, store.WithDefaultSort())
	if err != nil {
		return RecompileReport{}, err
	}

	futures := make([]*scheduler.Future[scheduler.Result[bool]], 0, len(queries))
	for i := range queries {
		q := queries[i]
		futures = append(futures, s.sched.AddWork(func(workCtx context.Context) (bool, error) {
			return s.recompile(workCtx, q)
		}))
	}

	report := RecompileReport{Total: len(queries)}
	for i, f := range futures {
		select {
		case <-ctx.Done():
			for _, pending := range futures[i:] {
				pending.Stop()
			}
			return report, ctx.Err()
		case res := <-f.C():
			switch {
			case res.Err != nil:
				report.Failed++
				s.logger.Warnw("saved query no longer compiles", "id", queries[i].ID, "error", res.Err)
			case res.Data:
				report.Updated++
			}
		}
	}

	s.logger.Infow("saved queries recompiled", "total", report.Total, "updated", report.Updated, "failed", report.Failed)
	return report, nil
}

func (s *SavedQueryService) recompile(ctx context.Context, q models.SavedQuery) (bool, error) {
	previous := q.Filter
	if err := s.compile(ctx, &q); err != nil {
		return false, err
	}
	if q.Filter == previous {
		return false, nil
	}
	return true, s.store.SavedQuery().Save(ctx, &q)
}

// compile sets q.Filter from its expressions. Validation errors and
// unresolvable references are returned as InvalidQueryError.
func (s *SavedQueryService) compile(ctx context.Context, q *models.SavedQuery) error {
	if strings.TrimSpace(q.Name) == "" {
		return srvErrors.NewValidationError("saved query name cannot be empty")
	}

	res, err := s.compiler.Compile(ctx, CompileRequest{
		Expressions: q.Expressions,
		Meta:        q.Meta,
		Recompile:   true,
	})
	if err != nil {
		return err
	}
	if len(res.Errors) > 0 {
		return srvErrors.NewInvalidQueryError(res.Errors[0])
	}

	if _, err := s.compiler.expand(ctx, res.Query.ResultFilter, []string{q.ID}); err != nil {
		return err
	}
	q.Filter = res.Query.ResultFilter
	return nil
}
