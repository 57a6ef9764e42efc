package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/hashindex/internal/common"
	"github.com/dmitrijs2005/hashindex/internal/models"
)

// SQLiteRepository implements Repository over a local SQLite database
// (modernc.org/sqlite, no cgo). SQLite has no idle-cursor expiry, so
// ScanOptions.NoIdleTimeout is accepted and ignored.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert stores a new record. SQLite has no server-side uuid generator, so
// the id is assigned here; it is still opaque to callers.
func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.FileRecord) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO files (id, original_path, storage_ref, size_bytes, uploaded_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, rec.OriginalPath, rec.StorageRef, rec.SizeBytes, rec.UploadedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("failed to insert record: %w", err)
	}
	rec.ID = id
	return id, nil
}

func (r *SQLiteRepository) UpdateFingerprint(ctx context.Context, id, fingerprint string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE files SET fingerprint = ? WHERE id = ?`, fingerprint, id)
	if err != nil {
		return fmt.Errorf("failed to update fingerprint: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return fmt.Errorf("record %s: %w", id, common.ErrNotFound)
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// FindByPath returns the first record stored under path.
func (r *SQLiteRepository) FindByPath(ctx context.Context, path string) (*models.FileRecord, error) {
	row := r.db.QueryRowContext(ctx, scanQuery+` WHERE original_path = ? LIMIT 1`, path)

	var (
		rec        models.FileRecord
		fp         sql.NullString
		uploadedAt string
	)
	err := row.Scan(&rec.ID, &rec.OriginalPath, &rec.StorageRef, &rec.SizeBytes, &fp, &uploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("path %s: %w", path, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find record: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, uploadedAt)
	if err != nil {
		return nil, err
	}
	rec.UploadedAt = t
	if fp.Valid {
		rec.Fingerprint = &fp.String
	}
	return &rec, nil
}

func (r *SQLiteRepository) ListPaths(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT original_path FROM files`)
	if err != nil {
		return nil, fmt.Errorf("failed to select paths: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		result = append(result, path)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Scan(ctx context.Context, opts ScanOptions) (Cursor, error) {
	query := scanQuery
	if opts.OnlyMissingFingerprint {
		query += ` WHERE fingerprint IS NULL`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to open scan: %w", err)
	}
	return &sqlCursor{rows: rows, scanTime: true}, nil
}
