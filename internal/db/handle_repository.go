package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tOgg1/chatlog/internal/models"
)

// HandleRepository reads the handle table.
type HandleRepository struct {
	db *DB
}

// NewHandleRepository creates a new HandleRepository.
func NewHandleRepository(db *DB) *HandleRepository {
	return &HandleRepository{db: db}
}

// List performs the full handle scan. Names are left as the raw
// identifier; the directory applies contact resolution.
func (r *HandleRepository) List(ctx context.Context) ([]*models.Handle, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ROWID, id, service FROM handle`)
	if err != nil {
		return nil, fmt.Errorf("failed to query handles: %w", err)
	}
	defer rows.Close()

	var handles []*models.Handle
	for rows.Next() {
		var (
			handle  models.Handle
			service sql.NullString
		)
		if err := rows.Scan(&handle.RowID, &handle.Number, &service); err != nil {
			return nil, fmt.Errorf("failed to scan handle: %w", err)
		}
		handle.Service = service.String
		handle.Name = handle.Number
		handles = append(handles, &handle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating handles: %w", err)
	}

	return handles, nil
}
