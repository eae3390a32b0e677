package store

import "database/sql"

// Store provides access to all storage repositories.
type Store struct {
	db         *sql.DB
	savedQuery *SavedQueryStore
	schema     *SchemaStore
}

func NewStore(db *sql.DB) *Store {
	qi := newQueryInterceptor(db)
	return &Store{
		db:         db,
		savedQuery: NewSavedQueryStore(qi),
		schema:     NewSchemaStore(qi),
	}
}

func (s *Store) SavedQuery() *SavedQueryStore {
	return s.savedQuery
}

func (s *Store) Schema() *SchemaStore {
	return s.schema
}

func (s *Store) Close() error {
	return s.db.Close()
}
