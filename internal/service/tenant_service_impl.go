package service

import (
	"context"
	"strings"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/pbxdeck/pbxdeck/internal/repository"
)

type tenantService struct {
	tenants repository.TenantRepo
}

func NewTenantService(tenants repository.TenantRepo) TenantService {
	return &tenantService{tenants: tenants}
}

func (s *tenantService) Create(ctx context.Context, t *domain.Tenant) error {
	if t.Slug == "" && t.Name != "" {
		t.Slug = slugify(t.Name)
	}
	if err := t.ValidateSlug(); err != nil {
		return err
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = domain.TenantActive
	}
	return s.tenants.Create(ctx, t)
}

func (s *tenantService) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	return s.tenants.GetByID(ctx, id)
}

func (s *tenantService) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return s.tenants.GetBySlug(ctx, slug)
}

func (s *tenantService) List(ctx context.Context) ([]*domain.Tenant, error) {
	return s.tenants.List(ctx)
}

func (s *tenantService) Update(ctx context.Context, t *domain.Tenant) error {
	if err := t.ValidateSlug(); err != nil {
		return err
	}
	t.UpdatedAt = time.Now().UTC()
	return s.tenants.Update(ctx, t)
}

func (s *tenantService) Suspend(ctx context.Context, id int64) error {
	t, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t.Status = domain.TenantSuspended
	t.UpdatedAt = time.Now().UTC()
	return s.tenants.Update(ctx, t)
}

// Delete removes the tenant; flows and call records go with it through
// the store's cascade rules.
func (s *tenantService) Delete(ctx context.Context, id int64) error {
	return s.tenants.Delete(ctx, id)
}

// slugify derives a slug from a display name: "Acme Support" -> "acme-support".
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
