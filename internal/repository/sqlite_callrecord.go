package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/domain"
)

// callRecordColumns is the canonical SELECT column list for call_records.
const callRecordColumns = `id, tenant_id, unique_id, call_date, src, dst, channel,
		last_app, duration, billsec, disposition, recording_file`

// SQLiteCallRecordRepo implements CallRecordRepo using a SQLite database.
type SQLiteCallRecordRepo struct {
	db *sql.DB
}

// NewSQLiteCallRecordRepo creates a new SQLiteCallRecordRepo.
func NewSQLiteCallRecordRepo(db *sql.DB) *SQLiteCallRecordRepo {
	return &SQLiteCallRecordRepo{db: db}
}

func (r *SQLiteCallRecordRepo) Insert(ctx context.Context, rec *domain.CallRecord) error {
	query := `INSERT INTO call_records (tenant_id, unique_id, call_date, src, dst, channel,
		last_app, duration, billsec, disposition, recording_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		rec.TenantID,
		rec.UniqueID,
		rec.CallDate.Format(time.RFC3339),
		rec.Source,
		rec.Destination,
		rec.Channel,
		rec.LastApp,
		rec.Duration,
		rec.BillSec,
		string(rec.Disposition),
		rec.RecordingFile,
	)
	if err != nil {
		return fmt.Errorf("inserting call record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading call record id: %w", err)
	}
	rec.ID = id
	return nil
}

func (r *SQLiteCallRecordRepo) ListByTenant(ctx context.Context, tenantID int64, filter CDRFilter) ([]*domain.CallRecord, error) {
	query := `SELECT ` + callRecordColumns + ` FROM call_records WHERE tenant_id = ?`
	args := []interface{}{tenantID}

	if filter.From != nil {
		query += ` AND call_date >= ?`
		args = append(args, filter.From.Format(time.RFC3339))
	}
	if filter.To != nil {
		query += ` AND call_date < ?`
		args = append(args, filter.To.Format(time.RFC3339))
	}
	if filter.Disposition != "" {
		query += ` AND disposition = ?`
		args = append(args, string(filter.Disposition))
	}
	query += ` ORDER BY call_date DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing call records: %w", err)
	}
	defer rows.Close()

	var records []*domain.CallRecord
	for rows.Next() {
		rec, err := scanCallRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating call records: %w", err)
	}
	return records, nil
}

// SummaryByTenant aggregates call counts and average duration for the
// dashboard counters.
func (r *SQLiteCallRecordRepo) SummaryByTenant(ctx context.Context, tenantID int64, since time.Time) (*domain.CallSummary, error) {
	query := `SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN disposition = 'answered' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN disposition != 'answered' THEN 1 ELSE 0 END), 0),
		COALESCE(AVG(CASE WHEN disposition = 'answered' THEN duration END), 0)
		FROM call_records WHERE tenant_id = ? AND call_date >= ?`
	var s domain.CallSummary
	err := r.db.QueryRowContext(ctx, query, tenantID, since.Format(time.RFC3339)).
		Scan(&s.Total, &s.Answered, &s.Missed, &s.AvgDuration)
	if err != nil {
		return nil, fmt.Errorf("summarizing call records: %w", err)
	}
	return &s, nil
}

func scanCallRecord(rows *sql.Rows) (*domain.CallRecord, error) {
	var rec domain.CallRecord
	var callDateStr, dispositionStr string
	err := rows.Scan(
		&rec.ID, &rec.TenantID, &rec.UniqueID, &callDateStr, &rec.Source,
		&rec.Destination, &rec.Channel, &rec.LastApp, &rec.Duration,
		&rec.BillSec, &dispositionStr, &rec.RecordingFile,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning call record row: %w", err)
	}
	rec.Disposition = domain.Disposition(dispositionStr)
	rec.CallDate, err = time.Parse(time.RFC3339, callDateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing call_date: %w", err)
	}
	return &rec, nil
}
