package service

import (
	"context"
	"testing"

	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/pbxdeck/pbxdeck/internal/repository"
	"github.com/pbxdeck/pbxdeck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupExtensionService(t *testing.T) (ExtensionService, repository.TenantRepo) {
	t.Helper()
	db := testutil.NewTestDB(t)
	tenants := repository.NewSQLiteTenantRepo(db)
	return NewExtensionService(repository.NewSQLiteExtensionRepo(db), tenants), tenants
}

func TestExtensionService_Create_Defaults(t *testing.T) {
	svc, tenants := setupExtensionService(t)
	ctx := context.Background()
	tenantID := seedTenant(t, tenants, "Acme Support")

	ext := &domain.Extension{TenantID: tenantID, Number: "1001", Name: "Front Desk"}
	require.NoError(t, svc.Create(ctx, ext))

	assert.NotZero(t, ext.ID)
	assert.Equal(t, domain.ExtensionUser, ext.Type, "type defaults to user")
	assert.Equal(t, domain.ExtensionActive, ext.Status)
	assert.False(t, ext.CreatedAt.IsZero())
}

func TestExtensionService_Create_RejectsUnknownType(t *testing.T) {
	svc, tenants := setupExtensionService(t)
	ctx := context.Background()
	tenantID := seedTenant(t, tenants, "Acme Support")

	err := svc.Create(ctx, &domain.Extension{
		TenantID: tenantID, Number: "1001", Name: "Front Desk", Type: "conference",
	})
	assert.Error(t, err)
}

func TestExtensionService_Create_RejectsMissingFields(t *testing.T) {
	svc, tenants := setupExtensionService(t)
	ctx := context.Background()
	tenantID := seedTenant(t, tenants, "Acme Support")

	assert.Error(t, svc.Create(ctx, &domain.Extension{TenantID: tenantID, Name: "Front Desk"}))
	assert.Error(t, svc.Create(ctx, &domain.Extension{TenantID: tenantID, Number: "1001"}))
}

func TestExtensionService_Create_UnknownTenant(t *testing.T) {
	svc, _ := setupExtensionService(t)

	err := svc.Create(context.Background(), &domain.Extension{
		TenantID: 404, Number: "1001", Name: "Front Desk",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtensionService_ListAndDelete(t *testing.T) {
	svc, tenants := setupExtensionService(t)
	ctx := context.Background()
	tenantID := seedTenant(t, tenants, "Acme Support")

	ext := &domain.Extension{TenantID: tenantID, Number: "1001", Name: "Front Desk"}
	require.NoError(t, svc.Create(ctx, ext))
	require.NoError(t, svc.Create(ctx, &domain.Extension{
		TenantID: tenantID, Number: "2000", Name: "Support Queue", Type: domain.ExtensionQueue, Destination: "queue:support",
	}))

	exts, err := svc.ListByTenant(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, exts, 2)

	require.NoError(t, svc.Delete(ctx, ext.ID))
	exts, err = svc.ListByTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Len(t, exts, 1)
}

func TestExtensionService_Delete_Unknown(t *testing.T) {
	svc, _ := setupExtensionService(t)

	err := svc.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
