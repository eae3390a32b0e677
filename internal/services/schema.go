package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kubev2v/aql-compiler/internal/models"
	"github.com/kubev2v/aql-compiler/internal/store"
	srvErrors "github.com/kubev2v/aql-compiler/pkg/errors"
	"github.com/kubev2v/aql-compiler/pkg/filter"
)

// SchemaService manages the stored field schemas. Every change reloads the
// compiler registry.
type SchemaService struct {
	store    *store.Store
	compiler *CompilerService
	logger   *zap.SugaredLogger
}

func NewSchemaService(st *store.Store, compiler *CompilerService) *SchemaService {
	return &SchemaService{
		store:    st,
		compiler: compiler,
		logger:   zap.S().Named("schema_service"),
	}
}

func (s *SchemaService) List(ctx context.Context) ([]models.SchemaNamespace, error) {
	return s.store.Schema().List(ctx)
}

func (s *SchemaService) Get(ctx context.Context, name string) (*models.SchemaNamespace, error) {
	return s.store.Schema().Get(ctx, name)
}

func (s *SchemaService) Put(ctx context.Context, ns *models.SchemaNamespace) error {
	if strings.TrimSpace(ns.Name) == "" {
		return srvErrors.NewValidationError("namespace name cannot be empty")
	}
	for i, f := range ns.Fields {
		if f.Name == "" {
			return srvErrors.NewValidationError(fmt.Sprintf("field %d of %s has no name", i, ns.Name))
		}
	}

	if err := s.store.Schema().Put(ctx, ns); err != nil {
		return err
	}
	s.logger.Infow("schema namespace stored", "namespace", ns.Name, "fields", len(ns.Fields))

	_, err := s.compiler.Reload(ctx)
	return err
}

func (s *SchemaService) Delete(ctx context.Context, name string) error {
	if err := s.store.Schema().Delete(ctx, name); err != nil {
		return err
	}
	_, err := s.compiler.Reload(ctx)
	return err
}

// Import stores every namespace of a registry document and returns how
// many were written.
func (s *SchemaService) Import(ctx context.Context, r io.Reader) (int, error) {
	registry, err := DecodeRegistry(r)
	if err != nil {
		return 0, err
	}
	for name, ns := range registry {
		if err := s.store.Schema().Put(ctx, &models.SchemaNamespace{Name: name, Fields: ns.Fields}); err != nil {
			return 0, fmt.Errorf("storing namespace %s: %w", name, err)
		}
	}
	if _, err := s.compiler.Reload(ctx); err != nil {
		return 0, err
	}
	s.logger.Infow("schema imported", "namespaces", len(registry))
	return len(registry), nil
}

// DecodeRegistry reads a registry document, namespace name to {fields: [...]},
// written in YAML or JSON. YAML is decoded generically and re-encoded as
// JSON so both forms go through the same field schema decoding.
func DecodeRegistry(r io.Reader) (filter.Registry, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, srvErrors.NewValidationError(fmt.Sprintf("invalid schema document: %s", err))
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, srvErrors.NewValidationError(fmt.Sprintf("invalid schema document: %s", err))
	}

	registry := filter.Registry{}
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, srvErrors.NewValidationError(fmt.Sprintf("invalid schema document: %s", err))
	}
	return registry, nil
}
