package service

import (
	"context"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/pbxdeck/pbxdeck/internal/repository"
	"github.com/pbxdeck/pbxdeck/internal/validate"
)

type TenantService interface {
	Create(ctx context.Context, t *domain.Tenant) error
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	List(ctx context.Context) ([]*domain.Tenant, error)
	Update(ctx context.Context, t *domain.Tenant) error
	Suspend(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type FlowService interface {
	Create(ctx context.Context, tenantID int64, name, description string) (*domain.Flow, error)
	ListByTenant(ctx context.Context, tenantID int64) ([]*domain.Flow, error)
	Load(ctx context.Context, flowID int64) (*domain.Flow, *domain.Graph, error)
	Save(ctx context.Context, flowID int64, g *domain.Graph) error
	Validate(g *domain.Graph) []validate.Finding
	SetDefault(ctx context.Context, tenantID, flowID int64) error
	Delete(ctx context.Context, flowID int64) error
}

type ExtensionService interface {
	Create(ctx context.Context, e *domain.Extension) error
	ListByTenant(ctx context.Context, tenantID int64) ([]*domain.Extension, error)
	Delete(ctx context.Context, id int64) error
}

type CallService interface {
	Active(ctx context.Context, tenantID int64) ([]domain.ActiveCall, error)
	Records(ctx context.Context, tenantID int64, filter repository.CDRFilter) ([]*domain.CallRecord, error)
	Summary(ctx context.Context, tenantID int64, since time.Time) (*domain.CallSummary, error)
	Dial(ctx context.Context, tenantID int64, from, to string) (string, error)
}
