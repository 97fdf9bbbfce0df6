package formatter

import (
	"testing"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/pbxdeck/pbxdeck/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTenantList(t *testing.T) {
	tenants := []*domain.Tenant{
		{ID: 1, Name: "Acme Support", Slug: "acme-support", Email: "ops@acme.example", Status: domain.TenantActive},
		{ID: 2, Name: "Globex", Slug: "globex", Email: "pbx@globex.example", Status: domain.TenantSuspended},
	}

	out := FormatTenantList(tenants)

	assert.Contains(t, out, "acme-support")
	assert.Contains(t, out, "suspended")
	assert.Contains(t, out, "Slug")
}

func TestFormatFlowList_MarksDefault(t *testing.T) {
	flows := []*domain.Flow{
		{ID: 1, Name: "Main Line", IsDefault: true, Status: domain.FlowActive},
		{ID: 2, Name: "After Hours", Status: domain.FlowActive},
	}

	out := FormatFlowList(flows)

	assert.Contains(t, out, "Main Line")
	assert.Contains(t, out, "✔")
}

func TestFormatFlowInspect_ShowsPayloadPerKind(t *testing.T) {
	g := domain.NewGraph()
	menu, err := g.AddNode(domain.KindMenu, domain.Position{X: 200, Y: 100})
	require.NoError(t, err)
	ext, err := g.AddNode(domain.KindExtension, domain.Position{X: 400, Y: 100})
	require.NoError(t, err)
	require.NoError(t, g.AddConnection(g.StartID(), menu))
	require.NoError(t, g.AddConnection(menu, ext))

	f := &domain.Flow{Name: "Main Line", Description: "daytime routing"}
	out := FormatFlowInspect(f, g)

	assert.Contains(t, out, "MAIN LINE")
	assert.Contains(t, out, "daytime routing")
	assert.Contains(t, out, "ext=100", "extension default payload")
	assert.Contains(t, out, "1:", "menu digits listed")
	assert.Contains(t, out, "→")
}

func TestFormatFindings(t *testing.T) {
	assert.Contains(t, FormatFindings(nil), "clean")

	findings := []validate.Finding{
		{Severity: validate.SeverityError, NodeID: "n1", Message: "unreachable from call start"},
		{Severity: validate.SeverityWarning, NodeID: "n2", Message: "dead end"},
	}
	out := FormatFindings(findings)
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "unreachable from call start")
}

func TestFormatActiveCalls(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 1, 5, 0, time.UTC)
	calls := []domain.ActiveCall{
		{CallID: "c-1", Caller: "1001", Callee: "2000", State: "up", StartedAt: now.Add(-65 * time.Second)},
	}

	out := FormatActiveCalls(calls, now)
	assert.Contains(t, out, "1001")
	assert.Contains(t, out, "1m05s")

	assert.Contains(t, FormatActiveCalls(nil, now), "No active calls")
}

func TestFormatCallRecords(t *testing.T) {
	records := []*domain.CallRecord{
		{CallDate: time.Date(2026, 2, 27, 14, 30, 0, 0, time.UTC), Source: "1001",
			Destination: "2000", Duration: 125, BillSec: 120, Disposition: domain.DispositionAnswered},
	}

	out := FormatCallRecords(records)
	assert.Contains(t, out, "2026-02-27 14:30")
	assert.Contains(t, out, "2m05s")
	assert.Contains(t, out, "answered")
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		sec  int
		want string
	}{
		{0, "0s"},
		{45, "45s"},
		{65, "1m05s"},
		{3725, "1h02m"},
		{-5, "0s"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatSeconds(tc.sec), "FormatSeconds(%d)", tc.sec)
	}
}
