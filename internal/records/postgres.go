package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hashindex/internal/common"
	"github.com/dmitrijs2005/hashindex/internal/models"
)

const scanQuery = `SELECT id, original_path, storage_ref, size_bytes, fingerprint, uploaded_at FROM files`

// PostgresRepository implements Repository over PostgreSQL (pgx stdlib
// driver). It holds the *sql.DB rather than a narrower handle because
// no-idle-timeout scans need to pin a dedicated connection.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository constructs a repository bound to the given database.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores a new record. The id is generated server-side so it stays
// opaque to callers.
func (r *PostgresRepository) Insert(ctx context.Context, rec *models.FileRecord) (string, error) {
	query := `
		INSERT INTO files (id, original_path, storage_ref, size_bytes, uploaded_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id
	`
	var id string
	err := r.db.QueryRowContext(ctx, query,
		rec.OriginalPath, rec.StorageRef, rec.SizeBytes, rec.UploadedAt).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert record: %w", err)
	}
	rec.ID = id
	return id, nil
}

// UpdateFingerprint writes the fingerprint of one record in a single
// targeted update. Content is immutable, so overwriting an existing value
// can only rewrite the identical digest.
func (r *PostgresRepository) UpdateFingerprint(ctx context.Context, id, fingerprint string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE files SET fingerprint=$1 WHERE id=$2`, fingerprint, id)
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
func (r *PostgresRepository) FindByPath(ctx context.Context, path string) (*models.FileRecord, error) {
	row := r.db.QueryRowContext(ctx, scanQuery+` WHERE original_path = $1 LIMIT 1`, path)

	var (
		rec models.FileRecord
		fp  sql.NullString
	)
	err := row.Scan(&rec.ID, &rec.OriginalPath, &rec.StorageRef, &rec.SizeBytes, &fp, &rec.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("path %s: %w", path, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find record: %w", err)
	}
	if fp.Valid {
		rec.Fingerprint = &fp.String
	}
	return &rec, nil
}

// ListPaths returns all original paths in one pass.
func (r *PostgresRepository) ListPaths(ctx context.Context) ([]string, error) {
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

// CountAll returns the total number of records.
func (r *PostgresRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// Scan opens a cursor over all records. With NoIdleTimeout it pins a
// dedicated connection and disables the server-side timeouts that would
// otherwise kill a slowly-drained cursor; the cursor restores them before
// the connection goes back to the pool.
func (r *PostgresRepository) Scan(ctx context.Context, opts ScanOptions) (Cursor, error) {
	query := scanQuery
	if opts.OnlyMissingFingerprint {
		query += ` WHERE fingerprint IS NULL`
	}

	if !opts.NoIdleTimeout {
		rows, err := r.db.QueryContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to open scan: %w", err)
		}
		return &sqlCursor{rows: rows}, nil
	}

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire scan connection: %w", err)
	}
	for _, stmt := range []string{
		`SET statement_timeout = 0`,
		`SET idle_in_transaction_session_timeout = 0`,
	} {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to disable scan timeout: %w", err)
		}
	}

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open scan: %w", err)
	}
	return &sqlCursor{rows: rows, conn: conn, resetStmts: []string{
		`RESET statement_timeout`,
		`RESET idle_in_transaction_session_timeout`,
	}}, nil
}
