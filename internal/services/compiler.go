package services

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kubev2v/aql-compiler/internal/models"
	"github.com/kubev2v/aql-compiler/internal/store"
	"github.com/kubev2v/aql-compiler/pkg/adapters"
	srvErrors "github.com/kubev2v/aql-compiler/pkg/errors"
	"github.com/kubev2v/aql-compiler/pkg/filter"
)

const (
	defaultMaxExpandDepth = 8
	maxSessions           = 256
)

var queryReference = regexp.MustCompile(`\{\{QueryID=([^{}]+)\}\}`)

// CompileRequest is one compile pass. Requests sharing a Session reuse the
// fragments of previous passes unless Recompile is set.
type CompileRequest struct {
	Session     string
	Expressions []filter.Expression
	Meta        filter.Meta
	Recompile   bool
	// Expand resolves saved query references in the result.
	Expand bool
}

type CompileResult struct {
	Query filter.CompiledQuery
	// Errors are the validation errors of the pass. The query is still
	// usable: it falls back to the last valid result of the session.
	Errors   []error
	Expanded string
}

type session struct {
	mu      sync.Mutex
	builder *filter.Builder
}

// CompilerService compiles expression lists against the schema registry
// kept in the store.
type CompilerService struct {
	store    *store.Store
	table    *filter.OperatorTable
	resolver filter.AdapterResolver
	maxDepth int
	logger   *zap.SugaredLogger

	mu       sync.RWMutex
	registry filter.Registry
	sessions map[string]*session
}

type CompilerOption func(*CompilerService)

func WithOperatorTable(t *filter.OperatorTable) CompilerOption {
	return func(s *CompilerService) {
		s.table = t
	}
}

func WithAdapterResolver(r filter.AdapterResolver) CompilerOption {
	return func(s *CompilerService) {
		s.resolver = r
	}
}

func WithMaxExpandDepth(depth int) CompilerOption {
	return func(s *CompilerService) {
		s.maxDepth = depth
	}
}

func NewCompilerService(st *store.Store, opts ...CompilerOption) *CompilerService {
	s := &CompilerService{
		store:    st,
		table:    filter.DefaultOperatorTable(),
		resolver: adapters.Default(),
		maxDepth: defaultMaxExpandDepth,
		logger:   zap.S().Named("compiler_service"),
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CompilerService) OperatorTable() *filter.OperatorTable {
	return s.table
}

// Registry returns the schema registry, loading it from the store on first use.
func (s *CompilerService) Registry(ctx context.Context) (filter.Registry, error) {
	s.mu.RLock()
	r := s.registry
	s.mu.RUnlock()
	if r != nil {
		return r, nil
	}
	return s.Reload(ctx)
}

// Reload reads the registry from the store again and drops every session,
// since cached fragments may depend on the old schemas.
func (s *CompilerService) Reload(ctx context.Context) (filter.Registry, error) {
	namespaces, err := s.store.Schema().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading schema registry: %w", err)
	}
	r := models.Registry(namespaces)

	s.mu.Lock()
	s.registry = r
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	s.logger.Debugw("registry loaded", "namespaces", len(r))
	return r, nil
}

func (s *CompilerService) Compile(ctx context.Context, req CompileRequest) (CompileResult, error) {
	registry, err := s.Registry(ctx)
	if err != nil {
		return CompileResult{}, err
	}

	sess := s.session(req.Session, registry)
	sess.mu.Lock()
	query, _ := sess.builder.Compile(req.Expressions, req.Meta, req.Recompile)
	errs := sess.builder.Errors()
	sess.mu.Unlock()

	result := CompileResult{Query: query, Errors: errs}
	if len(errs) > 0 {
		s.logger.Debugw("compiled with errors", "session", req.Session, "errors", len(errs), "first", errs[0].Error())
	}
	if req.Expand && len(errs) == 0 {
		expanded, err := s.Expand(ctx, query.ResultFilter)
		if err != nil {
			return result, err
		}
		result.Expanded = expanded
	}
	return result, nil
}

// DropSession forgets the cached fragments of a session.
func (s *CompilerService) DropSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *CompilerService) session(id string, registry filter.Registry) *session {
	newSession := func() *session {
		return &session{builder: filter.NewBuilder(registry,
			filter.WithOperatorTable(s.table),
			filter.WithResolver(s.resolver),
		)}
	}
	if id == "" {
		return newSession()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	if len(s.sessions) >= maxSessions {
		for k := range s.sessions {
			delete(s.sessions, k)
			break
		}
	}
	sess := newSession()
	s.sessions[id] = sess
	return sess
}

// Expand replaces every {{QueryID=<id>}} in f with the parenthesized filter
// of that saved query, recursively.
func (s *CompilerService) Expand(ctx context.Context, f string) (string, error) {
	return s.expand(ctx, f, nil)
}

// expand resolves references below the saved queries on stack. Meeting one
// of them again is a cycle.
func (s *CompilerService) expand(ctx context.Context, f string, stack []string) (string, error) {
	var firstErr error
	out := queryReference.ReplaceAllStringFunc(f, func(ref string) string {
		if firstErr != nil {
			return ref
		}
		id := strings.TrimSpace(queryReference.FindStringSubmatch(ref)[1])

		if slices.Contains(stack, id) {
			firstErr = srvErrors.NewInvalidQueryError(fmt.Errorf("saved query %s references itself", id))
			return ref
		}
		if len(stack) >= s.maxDepth {
			firstErr = srvErrors.NewInvalidQueryError(fmt.Errorf("saved queries nested deeper than %d", s.maxDepth))
			return ref
		}

		q, err := s.store.SavedQuery().Get(ctx, id)
		if err != nil {
			if srvErrors.IsResourceNotFoundError(err) {
				err = srvErrors.NewInvalidQueryError(err)
			}
			firstErr = err
			return ref
		}

		inner, err := s.expand(ctx, strings.TrimPrefix(q.Filter, filter.IncludeOutdatedMarker), append(slices.Clone(stack), id))
		if err != nil {
			firstErr = err
			return ref
		}
		return "(" + inner + ")"
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
