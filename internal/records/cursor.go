package records

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"time"

	"github.com/dmitrijs2005/hashindex/internal/models"
)

// sqlCursor adapts *sql.Rows to Cursor. When the scan pinned a dedicated
// connection (Postgres no-idle-timeout scans), Close releases it too.
type sqlCursor struct {
	rows *sql.Rows
	conn *sql.Conn
	cur  *models.FileRecord
	err  error

	// resetStmts undo session settings the scan changed, so the pinned
	// connection returns to the pool with its defaults intact.
	resetStmts []string

	// scanTime parses uploaded_at from TEXT columns (SQLite); otherwise the
	// driver scans time.Time directly.
	scanTime bool
}

func (c *sqlCursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}

	var (
		rec models.FileRecord
		fp  sql.NullString
	)
	if c.scanTime {
		var uploadedAt string
		if err := c.rows.Scan(&rec.ID, &rec.OriginalPath, &rec.StorageRef, &rec.SizeBytes, &fp, &uploadedAt); err != nil {
			c.err = err
			return false
		}
		t, err := time.Parse(time.RFC3339Nano, uploadedAt)
		if err != nil {
			c.err = err
			return false
		}
		rec.UploadedAt = t
	} else {
		if err := c.rows.Scan(&rec.ID, &rec.OriginalPath, &rec.StorageRef, &rec.SizeBytes, &fp, &rec.UploadedAt); err != nil {
			c.err = err
			return false
		}
	}
	if fp.Valid {
		rec.Fingerprint = &fp.String
	}
	c.cur = &rec
	return true
}

func (c *sqlCursor) Record() *models.FileRecord {
	return c.cur
}

func (c *sqlCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *sqlCursor) Close() error {
	err := c.rows.Close()
	if c.conn == nil {
		return err
	}

	for _, stmt := range c.resetStmts {
		if _, rerr := c.conn.ExecContext(context.Background(), stmt); rerr != nil {
			// Session state is unknown now; make the pool discard the
			// connection instead of reusing it.
			_ = c.conn.Raw(func(any) error { return driver.ErrBadConn })
			if err == nil {
				err = rerr
			}
			break
		}
	}
	if cerr := c.conn.Close(); err == nil {
		err = cerr
	}
	return err
}
