// Package validate runs advisory structural checks over a flow graph.
// Findings never block editing; they are surfaced at save time and in the
// flows validate command.
package validate

import (
	"fmt"

	"github.com/pbxdeck/pbxdeck/internal/domain"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one advisory issue in a flow graph.
type Finding struct {
	Severity Severity
	NodeID   string
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.NodeID, f.Message)
}

// Check inspects a graph snapshot and returns all findings, ordered by
// node id. The graph itself is never mutated.
func Check(g *domain.Graph) []Finding {
	var findings []Finding

	reachable := reachableFrom(g, g.StartID())

	for _, n := range g.Nodes() {
		if n.Kind != domain.KindStart && !reachable[n.ID] {
			findings = append(findings, Finding{
				Severity: SeverityError,
				NodeID:   n.ID,
				Message:  fmt.Sprintf("%s node %q is unreachable from the call entry point", n.Kind, n.Label),
			})
		}

		out := g.Outgoing(n.ID)
		if !n.Kind.IsTerminal() && len(out) == 0 {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				NodeID:   n.ID,
				Message:  fmt.Sprintf("%s node %q has no outgoing connection; the call cannot continue", n.Kind, n.Label),
			})
		}

		if n.Kind == domain.KindMenu {
			findings = append(findings, danglingOptions(n, out)...)
		}
	}

	return findings
}

// danglingOptions flags menu digits whose destination label is empty while
// no outgoing connection covers the digit. Options are advisory labels;
// connections are the authoritative edges, so a mismatch is a warning,
// not an error.
func danglingOptions(n domain.Node, out []domain.Connection) []Finding {
	covered := make(map[string]bool, len(out))
	for _, c := range out {
		covered[c.Label] = true
	}

	var findings []Finding
	for _, digit := range orderedDigits(n.Options) {
		if n.Options[digit] == "" && !covered[digit] {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				NodeID:   n.ID,
				Message:  fmt.Sprintf("menu option %q has no destination label and no connection", digit),
			})
		}
	}
	return findings
}

// reachableFrom returns the set of node ids visited by a breadth-first
// walk following connection direction.
func reachableFrom(g *domain.Graph, start string) map[string]bool {
	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range g.Outgoing(id) {
			if !visited[c.To] {
				visited[c.To] = true
				queue = append(queue, c.To)
			}
		}
	}
	return visited
}

// orderedDigits returns option keys in keypad order so findings are
// deterministic.
func orderedDigits(options map[string]string) []string {
	keypad := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "*", "#"}
	var out []string
	for _, d := range keypad {
		if _, ok := options[d]; ok {
			out = append(out, d)
		}
	}
	return out
}
