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
	"github.com/kubev2v/aql-compiler/pkg/search"
)

const savedQueriesTable = "saved_queries"

var savedQueryColumns = []string{
	"id",
	"name",
	"description",
	"namespace",
	"expressions",
	"meta",
	"filter",
	"created_at",
	"updated_at",
}

// SavedQuerySearchFields are the saved query attributes a search filter can
// test. unique_adapters is true for filters compiled with unique adapters.
var SavedQuerySearchFields = search.Fields{
	{Name: "id", Column: "id", Kind: search.KindText},
	{Name: "name", Column: "name", Kind: search.KindText},
	{Name: "description", Column: "description", Kind: search.KindText},
	{Name: "namespace", Column: "namespace", Kind: search.KindText},
	{Name: "filter", Column: "filter", Kind: search.KindText},
	{Name: "created_at", Column: "created_at", Kind: search.KindTime},
	{Name: "updated_at", Column: "updated_at", Kind: search.KindTime},
	{Name: "unique_adapters", Column: "starts_with(filter, '" + filter.IncludeOutdatedMarker + "')", Kind: search.KindBool},
}

type SavedQueryStore struct {
	db QueryInterceptor
}

func NewSavedQueryStore(db QueryInterceptor) *SavedQueryStore {
	return &SavedQueryStore{db: db}
}

// List returns saved queries matching the options.
func (s *SavedQueryStore) List(ctx context.Context, opts ...ListOption) ([]models.SavedQuery, error) {
	builder := sq.Select(savedQueryColumns...).From(savedQueriesTable)
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	queries := []models.SavedQuery{}
	for rows.Next() {
		q, err := scanSavedQuery(rows)
		if err != nil {
			return nil, err
		}
		queries = append(queries, *q)
	}
	return queries, rows.Err()
}

// Count returns the number of saved queries matching the options. Pass only
// filter options; sorting and paging do not apply to COUNT.
func (s *SavedQueryStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From(savedQueriesTable)
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SavedQueryStore) Get(ctx context.Context, id string) (*models.SavedQuery, error) {
	query, args, err := sq.Select(savedQueryColumns...).
		From(savedQueriesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	q, err := scanSavedQuery(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewSavedQueryNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Save inserts q or replaces the stored query with the same id. The
// original creation time is kept on update.
func (s *SavedQueryStore) Save(ctx context.Context, q *models.SavedQuery) error {
	expressions, err := json.Marshal(q.Expressions)
	if err != nil {
		return fmt.Errorf("encoding expressions: %w", err)
	}
	meta, err := json.Marshal(q.Meta)
	if err != nil {
		return fmt.Errorf("encoding meta: %w", err)
	}

	now := time.Now().UTC()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now

	query, args, err := sq.Insert(savedQueriesTable).
		Columns(savedQueryColumns...).
		Values(q.ID, q.Name, q.Description, q.Namespace, string(expressions), string(meta), q.Filter, q.CreatedAt, q.UpdatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			namespace = EXCLUDED.namespace,
			expressions = EXCLUDED.expressions,
			meta = EXCLUDED.meta,
			filter = EXCLUDED.filter,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SavedQueryStore) Delete(ctx context.Context, id string) error {
	query, args, err := sq.Delete(savedQueriesTable).Where(sq.Eq{"id": id}).ToSql()
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
		return srvErrors.NewSavedQueryNotFoundError(id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSavedQuery(row rowScanner) (*models.SavedQuery, error) {
	var (
		q           models.SavedQuery
		expressions string
		meta        string
	)
	if err := row.Scan(
		&q.ID,
		&q.Name,
		&q.Description,
		&q.Namespace,
		&expressions,
		&meta,
		&q.Filter,
		&q.CreatedAt,
		&q.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(expressions), &q.Expressions); err != nil {
		return nil, fmt.Errorf("decoding expressions of %s: %w", q.ID, err)
	}
	if err := json.Unmarshal([]byte(meta), &q.Meta); err != nil {
		return nil, fmt.Errorf("decoding meta of %s: %w", q.ID, err)
	}
	return &q, nil
}
