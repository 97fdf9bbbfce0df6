package domain

import "fmt"

// Position is a node's 2D coordinate on the editor canvas, in arbitrary
// canvas units. Only drag operations change it.
type Position struct {
	X float64
	Y float64
}

// Node is one call-routing step in an IVR graph. Payload fields are valid
// only for the kind they belong to: Audio for greeting nodes, Options for
// menu nodes, Extension for extension nodes. Start, voicemail and hangup
// nodes carry no payload beyond the label.
type Node struct {
	ID       string
	Kind     NodeKind
	Position Position
	Label    string

	Audio     string            // greeting: audio file reference
	Options   map[string]string // menu: DTMF digit -> destination label
	Extension string            // extension: target extension number
}

// NodePatch is a partial payload update. Nil pointer fields are left
// untouched; Options, when non-nil, replaces the full options map.
type NodePatch struct {
	Label     *string
	Audio     *string
	Options   map[string]string
	Extension *string
}

// clone returns a deep copy of the node. The options map is the only
// reference field.
func (n *Node) clone() *Node {
	c := *n
	if n.Options != nil {
		c.Options = make(map[string]string, len(n.Options))
		for k, v := range n.Options {
			c.Options[k] = v
		}
	}
	return &c
}

// defaultNode builds a node of the given kind with its kind-specific
// default payload, matching what the editor palette inserts.
func defaultNode(id string, kind NodeKind, pos Position) *Node {
	n := &Node{
		ID:       id,
		Kind:     kind,
		Position: pos,
		Label:    defaultLabel(kind),
	}
	switch kind {
	case KindGreeting:
		n.Audio = "welcome.wav"
	case KindMenu:
		n.Options = map[string]string{"1": "", "2": "", "0": ""}
	case KindExtension:
		n.Extension = "100"
	}
	return n
}

func defaultLabel(kind NodeKind) string {
	if kind == KindStart {
		return "Call Start"
	}
	if len(kind) == 0 {
		return ""
	}
	s := string(kind)
	return string(s[0]-'a'+'A') + s[1:]
}

// validatePayload checks that the node carries only fields valid for its
// kind and that menu option keys are DTMF digits.
func (n *Node) validatePayload() error {
	if n.Audio != "" && n.Kind != KindGreeting {
		return fmt.Errorf("audio on %s node %s: %w", n.Kind, n.ID, ErrSchemaMismatch)
	}
	if n.Extension != "" && n.Kind != KindExtension {
		return fmt.Errorf("extension on %s node %s: %w", n.Kind, n.ID, ErrSchemaMismatch)
	}
	if n.Options != nil && n.Kind != KindMenu {
		return fmt.Errorf("menu options on %s node %s: %w", n.Kind, n.ID, ErrSchemaMismatch)
	}
	for digit := range n.Options {
		if !ValidDigits[digit] {
			return fmt.Errorf("menu option key %q on node %s: %w", digit, n.ID, ErrSchemaMismatch)
		}
	}
	return nil
}

// validatePatch checks a patch against the node's kind before any field
// is applied, so a rejected patch leaves the node untouched.
func (n *Node) validatePatch(patch NodePatch) error {
	if patch.Audio != nil && n.Kind != KindGreeting {
		return fmt.Errorf("audio on %s node: %w", n.Kind, ErrSchemaMismatch)
	}
	if patch.Extension != nil && n.Kind != KindExtension {
		return fmt.Errorf("extension on %s node: %w", n.Kind, ErrSchemaMismatch)
	}
	if patch.Options != nil {
		if n.Kind != KindMenu {
			return fmt.Errorf("menu options on %s node: %w", n.Kind, ErrSchemaMismatch)
		}
		for digit := range patch.Options {
			if !ValidDigits[digit] {
				return fmt.Errorf("menu option key %q: %w", digit, ErrSchemaMismatch)
			}
		}
	}
	return nil
}

func (n *Node) applyPatch(patch NodePatch) {
	if patch.Label != nil {
		n.Label = *patch.Label
	}
	if patch.Audio != nil {
		n.Audio = *patch.Audio
	}
	if patch.Extension != nil {
		n.Extension = *patch.Extension
	}
	if patch.Options != nil {
		opts := make(map[string]string, len(patch.Options))
		for k, v := range patch.Options {
			opts[k] = v
		}
		n.Options = opts
	}
}
