package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/bridge"
	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/pbxdeck/pbxdeck/internal/flowdoc"
	"github.com/pbxdeck/pbxdeck/internal/repository"
	"github.com/pbxdeck/pbxdeck/internal/validate"
)

// ErrSaveInFlight indicates a save was requested while a previous save
// for the same session is still running. The caller's graph is untouched;
// retry once the first save settles.
var ErrSaveInFlight = errors.New("a save is already in progress")

type flowService struct {
	flows   repository.FlowRepo
	tenants repository.TenantRepo
	retry   bridge.RetryPolicy

	// saving gates the single outstanding save a session may have.
	saving atomic.Bool
}

// NewFlowService creates a FlowService over the given repositories.
// Failed document writes are retried per policy before giving up.
func NewFlowService(flows repository.FlowRepo, tenants repository.TenantRepo, retry bridge.RetryPolicy) FlowService {
	return &flowService{flows: flows, tenants: tenants, retry: retry}
}

func (s *flowService) Create(ctx context.Context, tenantID int64, name, description string) (*domain.Flow, error) {
	if name == "" {
		return nil, fmt.Errorf("flow name is required")
	}
	if _, err := s.tenants.GetByID(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("looking up tenant %d: %w", tenantID, err)
	}

	// New flows start as a bare graph: just the call entry point.
	doc, err := flowdoc.Serialize(domain.NewGraph(), flowdoc.Meta{
		TenantID:    tenantID,
		Name:        name,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	f := &domain.Flow{
		TenantID:    tenantID,
		Name:        name,
		Description: description,
		Document:    doc,
		Status:      domain.FlowActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.flows.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *flowService) ListByTenant(ctx context.Context, tenantID int64) ([]*domain.Flow, error) {
	return s.flows.ListByTenant(ctx, tenantID)
}

func (s *flowService) Load(ctx context.Context, flowID int64) (*domain.Flow, *domain.Graph, error) {
	f, err := s.flows.GetByID(ctx, flowID)
	if err != nil {
		return nil, nil, err
	}
	g, _, err := flowdoc.Deserialize(f.Document)
	if err != nil {
		return nil, nil, fmt.Errorf("flow %d: %w", flowID, err)
	}
	return f, g, nil
}

// Save serializes a snapshot of the graph and writes it through. At most
// one save may be outstanding; a second call while the first is running
// returns ErrSaveInFlight without touching anything. The snapshot is
// taken before any waiting, so later edits to g never leak into this
// save. On retry exhaustion the stored document is left at its previous
// version and the caller keeps the in-memory graph.
func (s *flowService) Save(ctx context.Context, flowID int64, g *domain.Graph) error {
	snapshot := g.Clone()

	if !s.saving.CompareAndSwap(false, true) {
		return ErrSaveInFlight
	}
	defer s.saving.Store(false)

	f, err := s.flows.GetByID(ctx, flowID)
	if err != nil {
		return err
	}
	doc, err := flowdoc.Serialize(snapshot, flowdoc.Meta{
		TenantID:    f.TenantID,
		Name:        f.Name,
		Description: f.Description,
	})
	if err != nil {
		return err
	}
	f.Document = doc
	f.UpdatedAt = time.Now().UTC()

	return s.retry.Do(ctx, func(ctx context.Context) error {
		return s.flows.Update(ctx, f)
	})
}

func (s *flowService) Validate(g *domain.Graph) []validate.Finding {
	return validate.Check(g)
}

func (s *flowService) SetDefault(ctx context.Context, tenantID, flowID int64) error {
	return s.flows.SetDefault(ctx, tenantID, flowID)
}

func (s *flowService) Delete(ctx context.Context, flowID int64) error {
	return s.flows.Delete(ctx, flowID)
}
