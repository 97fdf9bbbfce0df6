package service

import (
	"context"
	"testing"

	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/pbxdeck/pbxdeck/internal/repository"
	"github.com/pbxdeck/pbxdeck/internal/testutil"
	"github.com/stretchr/testify/require"
)

func setupRepos(t *testing.T) (repository.TenantRepo, repository.FlowRepo, repository.CallRecordRepo) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return repository.NewSQLiteTenantRepo(db),
		repository.NewSQLiteFlowRepo(db),
		repository.NewSQLiteCallRecordRepo(db)
}

// seedTenant persists a tenant and returns its id.
func seedTenant(t *testing.T, tenants repository.TenantRepo, name string) int64 {
	t.Helper()
	tn := testutil.NewTestTenant(name)
	require.NoError(t, tenants.Create(context.Background(), tn))
	return tn.ID
}

// mustGraph builds a small valid flow graph for save/load tests: the
// entry point wired to a greeting.
func mustGraph(t *testing.T) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	greeting, err := g.AddNode(domain.KindGreeting, domain.Position{X: 300, Y: 150})
	require.NoError(t, err)
	require.NoError(t, g.AddConnection(g.StartID(), greeting))
	return g
}
