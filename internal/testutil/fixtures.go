package testutil

import (
	"strings"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/domain"
)

var fixtureNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// NewTestTenant builds an unsaved active tenant with a slug derived from
// the name.
func NewTestTenant(name string) *domain.Tenant {
	return &domain.Tenant{
		Name:      name,
		Slug:      strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Email:     strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Status:    domain.TenantActive,
		CreatedAt: fixtureNow,
		UpdatedAt: fixtureNow,
	}
}

// NewTestFlow builds an unsaved flow for a tenant with a minimal valid
// document body.
func NewTestFlow(tenantID int64, name string) *domain.Flow {
	return &domain.Flow{
		TenantID:  tenantID,
		Name:      name,
		Document:  []byte(`{"tenant_id": 0, "name": "` + name + `", "nodes": [{"id": "start", "kind": "start", "position": {"x": 100, "y": 50}, "data": {"label": "Call Start"}}], "connections": []}`),
		Status:    domain.FlowActive,
		CreatedAt: fixtureNow,
		UpdatedAt: fixtureNow,
	}
}

// NewTestExtension builds an unsaved active user extension for a tenant.
func NewTestExtension(tenantID int64, number, name string) *domain.Extension {
	return &domain.Extension{
		TenantID:  tenantID,
		Number:    number,
		Name:      name,
		Type:      domain.ExtensionUser,
		Status:    domain.ExtensionActive,
		CreatedAt: fixtureNow,
		UpdatedAt: fixtureNow,
	}
}

// NewTestCallRecord builds an unsaved answered call record.
func NewTestCallRecord(tenantID int64, src, dst string) *domain.CallRecord {
	return &domain.CallRecord{
		TenantID:    tenantID,
		UniqueID:    "test-" + src + "-" + dst,
		CallDate:    fixtureNow,
		Source:      src,
		Destination: dst,
		Channel:     "PJSIP/" + src,
		LastApp:     "Dial",
		Duration:    65,
		BillSec:     60,
		Disposition: domain.DispositionAnswered,
	}
}
