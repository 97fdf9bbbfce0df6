package domain

import (
	"fmt"
	"regexp"
	"time"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Tenant is one customer account on the panel. Flows, extensions and call
// records all hang off a tenant and are removed with it.
type Tenant struct {
	ID        int64
	Name      string
	Slug      string
	Email     string
	Status    TenantStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateSlug checks that Slug is non-empty and uses only lowercase
// letters, digits and single hyphens (e.g. acme-support).
func (t *Tenant) ValidateSlug() error {
	if t.Slug == "" {
		return fmt.Errorf("tenant slug is required")
	}
	if !slugPattern.MatchString(t.Slug) {
		return fmt.Errorf("tenant slug %q must be lowercase letters, digits and hyphens (e.g. acme-support)", t.Slug)
	}
	return nil
}

// Flow is a stored IVR flow: metadata plus the serialized flow document.
// The document body lives in Document as the canonical JSON produced by
// the flowdoc package.
type Flow struct {
	ID          int64
	TenantID    int64
	Name        string
	Description string
	Document    []byte
	IsDefault   bool
	Status      FlowStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
