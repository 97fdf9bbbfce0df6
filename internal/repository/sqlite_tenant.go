package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/domain"
)

// tenantColumns is the canonical SELECT column list for tenants.
const tenantColumns = `id, name, slug, email, status, created_at, updated_at`

// SQLiteTenantRepo implements TenantRepo using a SQLite database.
type SQLiteTenantRepo struct {
	db *sql.DB
}

// NewSQLiteTenantRepo creates a new SQLiteTenantRepo.
func NewSQLiteTenantRepo(db *sql.DB) *SQLiteTenantRepo {
	return &SQLiteTenantRepo{db: db}
}

func (r *SQLiteTenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	query := `INSERT INTO tenants (name, slug, email, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		t.Name,
		t.Slug,
		t.Email,
		string(t.Status),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting tenant: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading tenant id: %w", err)
	}
	t.ID = id
	return nil
}

func (r *SQLiteTenantRepo) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = ?`
	return r.scanTenant(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteTenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE slug = ?`
	return r.scanTenant(r.db.QueryRowContext(ctx, query, slug))
}

func (r *SQLiteTenantRepo) List(ctx context.Context) ([]*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		t, err := scanTenantRow(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tenants: %w", err)
	}
	return tenants, nil
}

func (r *SQLiteTenantRepo) Update(ctx context.Context, t *domain.Tenant) error {
	query := `UPDATE tenants SET name = ?, slug = ?, email = ?, status = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		t.Name,
		t.Slug,
		t.Email,
		string(t.Status),
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating tenant: %w", err)
	}
	return nil
}

func (r *SQLiteTenantRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM tenants WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting tenant: %w", err)
	}
	return nil
}

// scanTenant scans a single tenant from a *sql.Row.
func (r *SQLiteTenantRepo) scanTenant(row *sql.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	var statusStr, createdAtStr, updatedAtStr string
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Email, &statusStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("tenant: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning tenant: %w", err)
	}
	return populateTenant(&t, statusStr, createdAtStr, updatedAtStr)
}

func scanTenantRow(rows *sql.Rows) (*domain.Tenant, error) {
	var t domain.Tenant
	var statusStr, createdAtStr, updatedAtStr string
	if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Email, &statusStr, &createdAtStr, &updatedAtStr); err != nil {
		return nil, fmt.Errorf("scanning tenant row: %w", err)
	}
	return populateTenant(&t, statusStr, createdAtStr, updatedAtStr)
}

func populateTenant(t *domain.Tenant, statusStr, createdAtStr, updatedAtStr string) (*domain.Tenant, error) {
	t.Status = domain.TenantStatus(statusStr)
	var err error
	t.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return t, nil
}
