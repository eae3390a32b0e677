package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/aql-compiler/internal/models"
	srvErrors "github.com/kubev2v/aql-compiler/pkg/errors"
	"github.com/kubev2v/aql-compiler/pkg/filter"
)

const schemaNamespacesTable = "schema_namespaces"

// SchemaStore keeps one field list per namespace.
type SchemaStore struct {
	db QueryInterceptor
}

func NewSchemaStore(db QueryInterceptor) *SchemaStore {
	return &SchemaStore{db: db}
}

func (s *SchemaStore) Get(ctx context.Context, name string) (*models.SchemaNamespace, error) {
	query, args, err := sq.Select("name", "fields", "updated_at").
		From(schemaNamespacesTable).
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, err
	}

	ns, err := scanNamespace(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewNamespaceNotFoundError(name)
	}
	if err != nil {
		return nil, err
	}
	return ns, nil
}

// List returns every namespace ordered by name.
func (s *SchemaStore) List(ctx context.Context) ([]models.SchemaNamespace, error) {
	query, args, err := sq.Select("name", "fields", "updated_at").
		From(schemaNamespacesTable).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	namespaces := []models.SchemaNamespace{}
	for rows.Next() {
		ns, err := scanNamespace(rows)
		if err != nil {
			return nil, err
		}
		namespaces = append(namespaces, *ns)
	}
	return namespaces, rows.Err()
}

// Put replaces the field list of ns.Name.
func (s *SchemaStore) Put(ctx context.Context, ns *models.SchemaNamespace) error {
	fields := ns.Fields
	if fields == nil {
		fields = []filter.FieldSchema{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding fields of %s: %w", ns.Name, err)
	}
	ns.UpdatedAt = time.Now().UTC()

	query, args, err := sq.Insert(schemaNamespacesTable).
		Columns("name", "fields", "updated_at").
		Values(ns.Name, string(data), ns.UpdatedAt).
		Suffix("ON CONFLICT (name) DO UPDATE SET fields = EXCLUDED.fields, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SchemaStore) Delete(ctx context.Context, name string) error {
	query, args, err := sq.Delete(schemaNamespacesTable).Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return srvErrors.NewNamespaceNotFoundError(name)
	}
	return nil
}

func scanNamespace(row rowScanner) (*models.SchemaNamespace, error) {
	var (
		ns     models.SchemaNamespace
		fields string
	)
	if err := row.Scan(&ns.Name, &fields, &ns.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(fields), &ns.Fields); err != nil {
		return nil, fmt.Errorf("decoding fields of %s: %w", ns.Name, err)
	}
	return &ns, nil
}
