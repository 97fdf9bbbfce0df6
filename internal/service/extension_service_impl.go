package service

import (
	"context"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/pbxdeck/pbxdeck/internal/repository"
)

type extensionService struct {
	extensions repository.ExtensionRepo
	tenants    repository.TenantRepo
}

func NewExtensionService(extensions repository.ExtensionRepo, tenants repository.TenantRepo) ExtensionService {
	return &extensionService{extensions: extensions, tenants: tenants}
}

func (s *extensionService) Create(ctx context.Context, e *domain.Extension) error {
	if e.Type == "" {
		e.Type = domain.ExtensionUser
	}
	if e.Status == "" {
		e.Status = domain.ExtensionActive
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := s.tenants.GetByID(ctx, e.TenantID); err != nil {
		return err
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	return s.extensions.Create(ctx, e)
}

func (s *extensionService) ListByTenant(ctx context.Context, tenantID int64) ([]*domain.Extension, error) {
	return s.extensions.ListByTenant(ctx, tenantID)
}

func (s *extensionService) Delete(ctx context.Context, id int64) error {
	if _, err := s.extensions.GetByID(ctx, id); err != nil {
		return err
	}
	return s.extensions.Delete(ctx, id)
}
