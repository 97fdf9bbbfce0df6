package domain

import (
	"fmt"
	"time"
)

// ExtensionType says what answers when the extension is dialed.
type ExtensionType string

const (
	ExtensionUser      ExtensionType = "user"
	ExtensionQueue     ExtensionType = "queue"
	ExtensionIVR       ExtensionType = "ivr"
	ExtensionVoicemail ExtensionType = "voicemail"
)

// ValidExtensionTypes is the canonical set of accepted extension types.
var ValidExtensionTypes = map[string]bool{
	"user": true, "queue": true, "ivr": true, "voicemail": true,
}

// Extension is one dialable endpoint inside a tenant: a user's phone, a
// queue, an IVR entry, or a voicemail box. Flow nodes of kind extension
// refer to these by number.
type Extension struct {
	ID          int64
	TenantID    int64
	Number      string
	Name        string
	Type        ExtensionType
	Destination string
	Status      ExtensionStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the fields a stored extension must carry.
func (e *Extension) Validate() error {
	if e.Number == "" {
		return fmt.Errorf("extension number is required")
	}
	if e.Name == "" {
		return fmt.Errorf("extension name is required")
	}
	if !ValidExtensionTypes[string(e.Type)] {
		return fmt.Errorf("unknown extension type %q", e.Type)
	}
	return nil
}
