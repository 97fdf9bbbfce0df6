package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/api"
	"github.com/pbxdeck/pbxdeck/internal/bridge"
	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/pbxdeck/pbxdeck/internal/repository"
	"github.com/pbxdeck/pbxdeck/internal/service"
	"github.com/pbxdeck/pbxdeck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePBX is an in-memory call engine for CLI tests.
type fakePBX struct {
	active map[int64][]domain.ActiveCall
	dialed []api.OriginateRequest
	err    error
}

func (f *fakePBX) ActiveCalls(ctx context.Context, tenantID int64) ([]domain.ActiveCall, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.active[tenantID], nil
}

func (f *fakePBX) Originate(ctx context.Context, req api.OriginateRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.dialed = append(f.dialed, req)
	return fmt.Sprintf("c-%d", len(f.dialed)), nil
}

func (f *fakePBX) Available(ctx context.Context) bool { return f.err == nil }

// testApp wires a full App backed by an in-memory DB for CLI integration
// tests. The engine fake and the record repo come back too, for tests
// that need to seed or inspect behind the services.
func testApp(t *testing.T) (*App, *fakePBX, repository.CallRecordRepo) {
	t.Helper()
	db := testutil.NewTestDB(t)

	tenants := repository.NewSQLiteTenantRepo(db)
	flows := repository.NewSQLiteFlowRepo(db)
	records := repository.NewSQLiteCallRecordRepo(db)
	engine := &fakePBX{active: make(map[int64][]domain.ActiveCall)}

	retry := bridge.RetryPolicy{Interval: time.Millisecond, MaxAttempts: 3}
	return &App{
		Tenants:    service.NewTenantService(tenants),
		Flows:      service.NewFlowService(flows, tenants, retry),
		Extensions: service.NewExtensionService(repository.NewSQLiteExtensionRepo(db), tenants),
		Calls:      service.NewCallService(engine, records),
		// Bridge left nil — live streaming is off in command tests.
	}, engine, records
}

// seedTenantFlow creates a tenant with one flow through the services.
func seedTenantFlow(t *testing.T, app *App) (*domain.Tenant, *domain.Flow) {
	t.Helper()
	ctx := context.Background()

	tn := &domain.Tenant{Name: "Acme Support", Email: "ops@acme.example"}
	require.NoError(t, app.Tenants.Create(ctx, tn))

	f, err := app.Flows.Create(ctx, tn.ID, "Day Routing", "business hours routing")
	require.NoError(t, err)
	return tn, f
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// --- Root command ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app, _, _ := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "pbxdeck")
}

// --- tenant ---

func TestTenantAddCmd_DerivesSlug(t *testing.T) {
	app, _, _ := testApp(t)

	_, err := executeCmd(t, app, "tenant", "add", "--name", "Acme Support")
	require.NoError(t, err)

	tn, err := app.Tenants.GetBySlug(context.Background(), "acme-support")
	require.NoError(t, err)
	assert.Equal(t, "Acme Support", tn.Name)
	assert.Equal(t, domain.TenantActive, tn.Status)
}

func TestTenantAddCmd_RequiresName(t *testing.T) {
	app, _, _ := testApp(t)

	_, err := executeCmd(t, app, "tenant", "add", "--slug", "acme")
	assert.Error(t, err)
}

func TestTenantSuspendCmd_BySlug(t *testing.T) {
	app, _, _ := testApp(t)
	tn, _ := seedTenantFlow(t, app)

	_, err := executeCmd(t, app, "tenant", "suspend", tn.Slug)
	require.NoError(t, err)

	got, err := app.Tenants.GetByID(context.Background(), tn.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TenantSuspended, got.Status)
}

func TestTenantRemoveCmd_RefusesWithoutForce(t *testing.T) {
	app, _, _ := testApp(t)
	tn, _ := seedTenantFlow(t, app)

	_, err := executeCmd(t, app, "tenant", "rm", tn.Slug)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	// Still there.
	_, err = app.Tenants.GetByID(context.Background(), tn.ID)
	assert.NoError(t, err)
}

func TestTenantRemoveCmd_ForceCascades(t *testing.T) {
	app, _, _ := testApp(t)
	tn, f := seedTenantFlow(t, app)

	_, err := executeCmd(t, app, "tenant", "rm", tn.Slug, "--force")
	require.NoError(t, err)

	ctx := context.Background()
	_, err = app.Tenants.GetByID(ctx, tn.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = app.Flows.Load(ctx, f.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveTenant_UnknownSlug(t *testing.T) {
	app, _, _ := testApp(t)

	_, err := executeCmd(t, app, "tenant", "suspend", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// --- flows ---

func TestFlowsCreateCmd(t *testing.T) {
	app, _, _ := testApp(t)
	tn, _ := seedTenantFlow(t, app)

	_, err := executeCmd(t, app, "flows", "create", tn.Slug, "--name", "Night Routing")
	require.NoError(t, err)

	flows, err := app.Flows.ListByTenant(context.Background(), tn.ID)
	require.NoError(t, err)
	assert.Len(t, flows, 2)
}

func TestFlowsListCmd_EmptyTenant(t *testing.T) {
	app, _, _ := testApp(t)
	tn := &domain.Tenant{Name: "Empty Co"}
	require.NoError(t, app.Tenants.Create(context.Background(), tn))

	_, err := executeCmd(t, app, "flows", "list", tn.Slug)
	assert.NoError(t, err)
}

func TestFlowsShowCmd_UnknownFlow(t *testing.T) {
	app, _, _ := testApp(t)

	_, err := executeCmd(t, app, "flows", "show", "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFlowsValidateCmd(t *testing.T) {
	app, _, _ := testApp(t)
	_, f := seedTenantFlow(t, app)

	_, err := executeCmd(t, app, "flows", "validate", fmt.Sprintf("%d", f.ID))
	assert.NoError(t, err)
}

func TestFlowsExportCmd_WritesFile(t *testing.T) {
	app, _, _ := testApp(t)
	_, f := seedTenantFlow(t, app)

	out := filepath.Join(t.TempDir(), "day-routing.json")
	_, err := executeCmd(t, app, "flows", "export", fmt.Sprintf("%d", f.ID), "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"nodes"`)
}

func TestFlowsSetDefaultCmd(t *testing.T) {
	app, _, _ := testApp(t)
	tn, f := seedTenantFlow(t, app)

	_, err := executeCmd(t, app, "flows", "set-default", tn.Slug, fmt.Sprintf("%d", f.ID))
	require.NoError(t, err)

	flows, err := app.Flows.ListByTenant(context.Background(), tn.ID)
	require.NoError(t, err)
	require.Len(t, flows, 1)
	assert.True(t, flows[0].IsDefault)
}

func TestFlowsRmCmd(t *testing.T) {
	app, _, _ := testApp(t)
	_, f := seedTenantFlow(t, app)

	_, err := executeCmd(t, app, "flows", "rm", fmt.Sprintf("%d", f.ID))
	require.NoError(t, err)

	_, _, err = app.Flows.Load(context.Background(), f.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// --- extensions ---

func TestExtensionsAddAndListCmd(t *testing.T) {
	app, _, _ := testApp(t)
	tn, _ := seedTenantFlow(t, app)

	_, err := executeCmd(t, app, "extensions", "add", tn.Slug,
		"--number", "1001", "--name", "Front Desk")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "extensions", "add", tn.Slug,
		"--number", "2000", "--name", "Support Queue", "--type", "queue", "--destination", "queue:support")
	require.NoError(t, err)

	exts, err := app.Extensions.ListByTenant(context.Background(), tn.ID)
	require.NoError(t, err)
	require.Len(t, exts, 2)
	assert.Equal(t, domain.ExtensionUser, exts[0].Type, "type defaults to user")
	assert.Equal(t, domain.ExtensionQueue, exts[1].Type)

	_, err = executeCmd(t, app, "ext", "list", tn.Slug)
	assert.NoError(t, err, "ext alias resolves to extensions")
}

func TestExtensionsAddCmd_RejectsBadType(t *testing.T) {
	app, _, _ := testApp(t)
	tn, _ := seedTenantFlow(t, app)

	_, err := executeCmd(t, app, "extensions", "add", tn.Slug,
		"--number", "1001", "--name", "Front Desk", "--type", "conference")
	assert.Error(t, err)
}

func TestExtensionsRemoveCmd(t *testing.T) {
	app, _, _ := testApp(t)
	tn, _ := seedTenantFlow(t, app)
	ctx := context.Background()

	ext := &domain.Extension{TenantID: tn.ID, Number: "1001", Name: "Front Desk"}
	require.NoError(t, app.Extensions.Create(ctx, ext))

	_, err := executeCmd(t, app, "extensions", "rm", fmt.Sprintf("%d", ext.ID))
	require.NoError(t, err)

	exts, err := app.Extensions.ListByTenant(ctx, tn.ID)
	require.NoError(t, err)
	assert.Empty(t, exts)
}

func TestExtensionsRemoveCmd_Unknown(t *testing.T) {
	app, _, _ := testApp(t)

	_, err := executeCmd(t, app, "extensions", "rm", "404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// --- calls / dial / cdr ---

func TestCallsCmd_ListsActive(t *testing.T) {
	app, engine, _ := testApp(t)
	tn, _ := seedTenantFlow(t, app)
	engine.active[tn.ID] = []domain.ActiveCall{{
		CallID: "c-1", TenantID: tn.ID,
		Caller: "1001", Callee: "2002",
		State: "answered", StartedAt: time.Now().Add(-time.Minute),
	}}

	_, err := executeCmd(t, app, "calls", tn.Slug)
	assert.NoError(t, err)
}

func TestCallsCmd_EngineDown(t *testing.T) {
	app, engine, _ := testApp(t)
	tn, _ := seedTenantFlow(t, app)
	engine.err = api.ErrEngineUnavailable

	_, err := executeCmd(t, app, "calls", tn.Slug)
	assert.ErrorIs(t, err, api.ErrEngineUnavailable)
}

func TestDialCmd_Originates(t *testing.T) {
	app, engine, _ := testApp(t)
	tn, _ := seedTenantFlow(t, app)

	_, err := executeCmd(t, app, "dial", tn.Slug, "1001", "2002")
	require.NoError(t, err)

	require.Len(t, engine.dialed, 1)
	assert.Equal(t, api.OriginateRequest{TenantID: tn.ID, From: "1001", To: "2002"}, engine.dialed[0])
}

func TestCDRCmd_FiltersDisposition(t *testing.T) {
	app, _, records := testApp(t)
	tn, _ := seedTenantFlow(t, app)
	ctx := context.Background()

	answered := testutil.NewTestCallRecord(tn.ID, "1001", "2002")
	require.NoError(t, records.Insert(ctx, answered))
	missed := testutil.NewTestCallRecord(tn.ID, "1003", "2002")
	missed.Disposition = domain.DispositionNoAnswer
	missed.BillSec = 0
	require.NoError(t, records.Insert(ctx, missed))

	_, err := executeCmd(t, app, "cdr", tn.Slug, "--disposition", "no_answer")
	assert.NoError(t, err)
}

func TestCDRCmd_Summary(t *testing.T) {
	app, _, records := testApp(t)
	tn, _ := seedTenantFlow(t, app)
	require.NoError(t, records.Insert(context.Background(), testutil.NewTestCallRecord(tn.ID, "1001", "2002")))

	_, err := executeCmd(t, app, "cdr", tn.Slug, "--summary")
	assert.NoError(t, err)
}

func TestCDRCmd_RejectsBadDate(t *testing.T) {
	app, _, _ := testApp(t)
	tn, _ := seedTenantFlow(t, app)

	_, err := executeCmd(t, app, "cdr", tn.Slug, "--from", "March 1st")
	assert.Error(t, err)
}
