package repository

import (
	"context"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/domain"
)

// CDRFilter narrows a call-record query. Zero values mean "no filter".
type CDRFilter struct {
	From        *time.Time
	To          *time.Time
	Disposition domain.Disposition
	Limit       int
}

type TenantRepo interface {
	Create(ctx context.Context, t *domain.Tenant) error
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	List(ctx context.Context) ([]*domain.Tenant, error)
	Update(ctx context.Context, t *domain.Tenant) error
	Delete(ctx context.Context, id int64) error
}

type FlowRepo interface {
	Create(ctx context.Context, f *domain.Flow) error
	GetByID(ctx context.Context, id int64) (*domain.Flow, error)
	ListByTenant(ctx context.Context, tenantID int64) ([]*domain.Flow, error)
	Update(ctx context.Context, f *domain.Flow) error
	SetDefault(ctx context.Context, tenantID, flowID int64) error
	Delete(ctx context.Context, id int64) error
}

type ExtensionRepo interface {
	Create(ctx context.Context, e *domain.Extension) error
	GetByID(ctx context.Context, id int64) (*domain.Extension, error)
	ListByTenant(ctx context.Context, tenantID int64) ([]*domain.Extension, error)
	Delete(ctx context.Context, id int64) error
}

type CallRecordRepo interface {
	Insert(ctx context.Context, r *domain.CallRecord) error
	ListByTenant(ctx context.Context, tenantID int64, filter CDRFilter) ([]*domain.CallRecord, error)
	SummaryByTenant(ctx context.Context, tenantID int64, since time.Time) (*domain.CallSummary, error)
}
