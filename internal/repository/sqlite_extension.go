package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/domain"
)

// extensionColumns is the canonical SELECT column list for extensions.
const extensionColumns = `id, tenant_id, extension, name, type, destination, status, created_at, updated_at`

// SQLiteExtensionRepo implements ExtensionRepo using a SQLite database.
type SQLiteExtensionRepo struct {
	db *sql.DB
}

// NewSQLiteExtensionRepo creates a new SQLiteExtensionRepo.
func NewSQLiteExtensionRepo(db *sql.DB) *SQLiteExtensionRepo {
	return &SQLiteExtensionRepo{db: db}
}

func (r *SQLiteExtensionRepo) Create(ctx context.Context, e *domain.Extension) error {
	query := `INSERT INTO extensions (tenant_id, extension, name, type, destination, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		e.TenantID,
		e.Number,
		e.Name,
		string(e.Type),
		e.Destination,
		string(e.Status),
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting extension: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading extension id: %w", err)
	}
	e.ID = id
	return nil
}

func (r *SQLiteExtensionRepo) GetByID(ctx context.Context, id int64) (*domain.Extension, error) {
	query := `SELECT ` + extensionColumns + ` FROM extensions WHERE id = ?`
	return r.scanExtension(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteExtensionRepo) ListByTenant(ctx context.Context, tenantID int64) ([]*domain.Extension, error) {
	query := `SELECT ` + extensionColumns + ` FROM extensions WHERE tenant_id = ? ORDER BY extension`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing extensions: %w", err)
	}
	defer rows.Close()

	var exts []*domain.Extension
	for rows.Next() {
		e, err := scanExtensionRow(rows)
		if err != nil {
			return nil, err
		}
		exts = append(exts, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating extensions: %w", err)
	}
	return exts, nil
}

func (r *SQLiteExtensionRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM extensions WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting extension: %w", err)
	}
	return nil
}

// scanExtension scans a single extension from a *sql.Row.
func (r *SQLiteExtensionRepo) scanExtension(row *sql.Row) (*domain.Extension, error) {
	var e domain.Extension
	var typeStr, statusStr, createdAtStr, updatedAtStr string
	err := row.Scan(&e.ID, &e.TenantID, &e.Number, &e.Name, &typeStr, &e.Destination, &statusStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("extension: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning extension: %w", err)
	}
	return populateExtension(&e, typeStr, statusStr, createdAtStr, updatedAtStr)
}

func scanExtensionRow(rows *sql.Rows) (*domain.Extension, error) {
	var e domain.Extension
	var typeStr, statusStr, createdAtStr, updatedAtStr string
	if err := rows.Scan(&e.ID, &e.TenantID, &e.Number, &e.Name, &typeStr, &e.Destination, &statusStr, &createdAtStr, &updatedAtStr); err != nil {
		return nil, fmt.Errorf("scanning extension row: %w", err)
	}
	return populateExtension(&e, typeStr, statusStr, createdAtStr, updatedAtStr)
}

func populateExtension(e *domain.Extension, typeStr, statusStr, createdAtStr, updatedAtStr string) (*domain.Extension, error) {
	e.Type = domain.ExtensionType(typeStr)
	e.Status = domain.ExtensionStatus(statusStr)
	var err error
	e.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	e.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return e, nil
}
