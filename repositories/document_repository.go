package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound        = errors.New("document not found")
	ErrDocumentVersionConflict = errors.New("document was modified by another writer")
)

// Document is one versioned JSON aggregate in the storage table. The
// version counts committed writes and backs the compare-and-save path.
type Document struct {
	Key     string
	Value   json.RawMessage
	Version int64
}

// DocumentRepository is the generic persistence collaborator: JSON
// aggregates (player list, tournaments, brackets, weight overrides) are
// stored whole under a key. Save is a blind upsert; CompareAndSave only
// succeeds when the stored version still matches what the writer read.
type DocumentRepository interface {
	Load(ctx context.Context, key string) (*Document, error)
	Save(ctx context.Context, key string, value interface{}) (int64, error)
	CompareAndSave(ctx context.Context, key string, value interface{}, expectedVersion int64) (int64, error)
	Delete(ctx context.Context, key string) error
}

type postgresDocumentRepository struct {
	db *sql.DB
}

func NewPostgresDocumentRepository(db *sql.DB) DocumentRepository {
	return &postgresDocumentRepository{db: db}
}

func (r *postgresDocumentRepository) Load(ctx context.Context, key string) (*Document, error) {
	query := `SELECT value, version FROM storage WHERE key = $1`

	doc := &Document{Key: key}
	err := r.db.QueryRowContext(ctx, query, key).Scan(&doc.Value, &doc.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to load document %q: %w", key, err)
	}
	return doc, nil
}

func (r *postgresDocumentRepository) Save(ctx context.Context, key string, value interface{}) (int64, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal document %q: %w", key, err)
	}

	query := `
		INSERT INTO storage (key, value, version, updated_at)
		VALUES ($1, $2, 1, now())
		ON CONFLICT (key) DO UPDATE
			SET value = EXCLUDED.value, version = storage.version + 1, updated_at = now()
		RETURNING version`

	var version int64
	if err := r.db.QueryRowContext(ctx, query, key, raw).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to save document %q: %w", key, err)
	}
	return version, nil
}

// CompareAndSave writes value only if the stored version equals
// expectedVersion. Pass 0 when the writer observed no document; the call
// then succeeds only if the key is still absent.
func (r *postgresDocumentRepository) CompareAndSave(ctx context.Context, key string, value interface{}, expectedVersion int64) (int64, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal document %q: %w", key, err)
	}

	if expectedVersion == 0 {
		query := `
			INSERT INTO storage (key, value, version, updated_at)
			VALUES ($1, $2, 1, now())
			ON CONFLICT (key) DO NOTHING
			RETURNING version`
		var version int64
		err := r.db.QueryRowContext(ctx, query, key, raw).Scan(&version)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrDocumentVersionConflict
		}
		if err != nil {
			return 0, fmt.Errorf("failed to insert document %q: %w", key, err)
		}
		return version, nil
	}

	query := `
		UPDATE storage
		SET value = $2, version = version + 1, updated_at = now()
		WHERE key = $1 AND version = $3
		RETURNING version`

	var version int64
	err = r.db.QueryRowContext(ctx, query, key, raw, expectedVersion).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrDocumentVersionConflict
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update document %q: %w", key, err)
	}
	return version, nil
}

func (r *postgresDocumentRepository) Delete(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM storage WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete document %q: %w", key, err)
	}
	return checkAffectedRows(result, ErrDocumentNotFound)
}
