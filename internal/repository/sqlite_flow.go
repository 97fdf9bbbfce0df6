package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/domain"
)

// flowColumns is the canonical SELECT column list for ivr_flows.
const flowColumns = `id, tenant_id, name, description, flow_json, is_default, status,
		created_at, updated_at`

// SQLiteFlowRepo implements FlowRepo using a SQLite database.
type SQLiteFlowRepo struct {
	db *sql.DB
}

// NewSQLiteFlowRepo creates a new SQLiteFlowRepo.
func NewSQLiteFlowRepo(db *sql.DB) *SQLiteFlowRepo {
	return &SQLiteFlowRepo{db: db}
}

func (r *SQLiteFlowRepo) Create(ctx context.Context, f *domain.Flow) error {
	query := `INSERT INTO ivr_flows (tenant_id, name, description, flow_json, is_default,
		status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		f.TenantID,
		f.Name,
		f.Description,
		string(f.Document),
		boolToInt(f.IsDefault),
		string(f.Status),
		f.CreatedAt.Format(time.RFC3339),
		f.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting flow: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading flow id: %w", err)
	}
	f.ID = id
	return nil
}

func (r *SQLiteFlowRepo) GetByID(ctx context.Context, id int64) (*domain.Flow, error) {
	query := `SELECT ` + flowColumns + ` FROM ivr_flows WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var f domain.Flow
	var docStr, statusStr, createdAtStr, updatedAtStr string
	var isDefaultInt int
	err := row.Scan(&f.ID, &f.TenantID, &f.Name, &f.Description, &docStr,
		&isDefaultInt, &statusStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("flow: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning flow: %w", err)
	}
	return populateFlow(&f, docStr, statusStr, createdAtStr, updatedAtStr, isDefaultInt)
}

func (r *SQLiteFlowRepo) ListByTenant(ctx context.Context, tenantID int64) ([]*domain.Flow, error) {
	query := `SELECT ` + flowColumns + ` FROM ivr_flows WHERE tenant_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing flows by tenant: %w", err)
	}
	defer rows.Close()

	var flows []*domain.Flow
	for rows.Next() {
		var f domain.Flow
		var docStr, statusStr, createdAtStr, updatedAtStr string
		var isDefaultInt int
		if err := rows.Scan(&f.ID, &f.TenantID, &f.Name, &f.Description, &docStr,
			&isDefaultInt, &statusStr, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning flow row: %w", err)
		}
		flow, err := populateFlow(&f, docStr, statusStr, createdAtStr, updatedAtStr, isDefaultInt)
		if err != nil {
			return nil, err
		}
		flows = append(flows, flow)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating flows: %w", err)
	}
	return flows, nil
}

func (r *SQLiteFlowRepo) Update(ctx context.Context, f *domain.Flow) error {
	query := `UPDATE ivr_flows SET name = ?, description = ?, flow_json = ?, is_default = ?,
		status = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		f.Name,
		f.Description,
		string(f.Document),
		boolToInt(f.IsDefault),
		string(f.Status),
		f.UpdatedAt.Format(time.RFC3339),
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("updating flow: %w", err)
	}
	return nil
}

// SetDefault marks one flow as the tenant's default and clears the flag
// on every other flow of the same tenant, in one transaction.
func (r *SQLiteFlowRepo) SetDefault(ctx context.Context, tenantID, flowID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting set-default transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`UPDATE ivr_flows SET is_default = 0 WHERE tenant_id = ?`, tenantID); err != nil {
		return fmt.Errorf("clearing default flag: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE ivr_flows SET is_default = 1 WHERE id = ? AND tenant_id = ?`, flowID, tenantID)
	if err != nil {
		return fmt.Errorf("setting default flag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking default update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("flow %d for tenant %d: %w", flowID, tenantID, domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing set-default: %w", err)
	}
	committed = true
	return nil
}

func (r *SQLiteFlowRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM ivr_flows WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting flow: %w", err)
	}
	return nil
}

func populateFlow(f *domain.Flow, docStr, statusStr, createdAtStr, updatedAtStr string, isDefaultInt int) (*domain.Flow, error) {
	f.Document = []byte(docStr)
	f.IsDefault = intToBool(isDefaultInt)
	f.Status = domain.FlowStatus(statusStr)

	var err error
	f.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	f.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return f, nil
}
