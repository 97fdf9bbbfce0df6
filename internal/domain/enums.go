package domain

type NodeKind string

const (
	KindStart     NodeKind = "start"
	KindGreeting  NodeKind = "greeting"
	KindMenu      NodeKind = "menu"
	KindExtension NodeKind = "extension"
	KindVoicemail NodeKind = "voicemail"
	KindHangup    NodeKind = "hangup"
)

// ValidNodeKinds is the canonical set of accepted node kind strings.
var ValidNodeKinds = map[string]bool{
	"start": true, "greeting": true, "menu": true,
	"extension": true, "voicemail": true, "hangup": true,
}

// IsTerminal reports whether a node of this kind ends the call flow.
// Terminal kinds are the only ones allowed to have no outgoing
// connections without the validator flagging a dead end.
func (k NodeKind) IsTerminal() bool {
	return k == KindVoicemail || k == KindHangup
}

// ValidDigits is the set of DTMF digits a menu option may be keyed by.
var ValidDigits = map[string]bool{
	"0": true, "1": true, "2": true, "3": true, "4": true,
	"5": true, "6": true, "7": true, "8": true, "9": true,
	"*": true, "#": true,
}

type TenantStatus string

const (
	TenantActive    TenantStatus = "active"
	TenantSuspended TenantStatus = "suspended"
	TenantInactive  TenantStatus = "inactive"
)

type FlowStatus string

const (
	FlowActive   FlowStatus = "active"
	FlowInactive FlowStatus = "inactive"
)

type ExtensionStatus string

const (
	ExtensionActive   ExtensionStatus = "active"
	ExtensionInactive ExtensionStatus = "inactive"
)

type Disposition string

const (
	DispositionAnswered Disposition = "answered"
	DispositionNoAnswer Disposition = "no_answer"
	DispositionBusy     Disposition = "busy"
	DispositionFailed   Disposition = "failed"
)
