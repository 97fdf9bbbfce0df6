package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/pbxdeck/pbxdeck/internal/validate"
)

// FormatTenantList renders the tenant table.
func FormatTenantList(tenants []*domain.Tenant) string {
	rows := make([][]string, 0, len(tenants))
	for _, t := range tenants {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			Bold(t.Name),
			t.Slug,
			t.Email,
			TenantStatusColor(t.Status).Render(string(t.Status)),
		})
	}
	return RenderTable([]string{"ID", "Name", "Slug", "Email", "Status"}, rows)
}

// FormatFlowList renders the flow table for one tenant.
func FormatFlowList(flows []*domain.Flow) string {
	rows := make([][]string, 0, len(flows))
	for _, f := range flows {
		def := ""
		if f.IsDefault {
			def = StyleGreen.Render("✔")
		}
		rows = append(rows, []string{
			strconv.FormatInt(f.ID, 10),
			Bold(f.Name),
			f.Description,
			def,
			string(f.Status),
			f.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return RenderTable([]string{"ID", "Name", "Description", "Default", "Status", "Updated"}, rows)
}

// FormatExtensionList renders the extension table for one tenant.
func FormatExtensionList(exts []*domain.Extension) string {
	rows := make([][]string, 0, len(exts))
	for _, e := range exts {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			Bold(e.Number),
			e.Name,
			string(e.Type),
			e.Destination,
			ExtensionStatusColor(e.Status).Render(string(e.Status)),
		})
	}
	return RenderTable([]string{"ID", "Ext", "Name", "Type", "Destination", "Status"}, rows)
}

// FormatFlowInspect renders one flow's node and connection listing.
func FormatFlowInspect(f *domain.Flow, g *domain.Graph) string {
	var b strings.Builder
	b.WriteString(Header(f.Name))
	if f.Description != "" {
		b.WriteString("\n" + Dim(f.Description))
	}
	b.WriteString("\n\n")

	nodeRows := make([][]string, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		nodeRows = append(nodeRows, []string{
			n.ID,
			nodeKindBadge(n.Kind),
			n.Label,
			fmt.Sprintf("(%.0f, %.0f)", n.Position.X, n.Position.Y),
			nodePayload(n),
		})
	}
	b.WriteString(RenderTable([]string{"ID", "Kind", "Label", "Position", "Payload"}, nodeRows))

	conns := g.Connections()
	if len(conns) > 0 {
		b.WriteString("\n")
		connRows := make([][]string, 0, len(conns))
		for _, c := range conns {
			connRows = append(connRows, []string{c.From, Dim("→"), c.To, c.Label})
		}
		b.WriteString(RenderTable([]string{"From", "", "To", "Label"}, connRows))
	}
	return b.String()
}

// nodeKindBadge renders a node kind with its canvas color.
func nodeKindBadge(k domain.NodeKind) string {
	return NodeKindColor(k).Render(string(k))
}

// NodeKindColor returns the style used for a node kind, on the canvas and
// in listings.
func NodeKindColor(k domain.NodeKind) lipgloss.Style {
	switch k {
	case domain.KindStart:
		return StyleGreen
	case domain.KindGreeting:
		return StyleBlue
	case domain.KindMenu:
		return StylePurple
	case domain.KindExtension:
		return StyleYellow
	case domain.KindVoicemail:
		return StyleFg
	case domain.KindHangup:
		return StyleRed
	default:
		return StyleDim
	}
}

// nodePayload renders the kind-specific payload of a node compactly.
func nodePayload(n domain.Node) string {
	switch n.Kind {
	case domain.KindGreeting:
		return Dim("audio=") + n.Audio
	case domain.KindMenu:
		digits := make([]string, 0, len(n.Options))
		for _, d := range orderedOptionDigits(n.Options) {
			label := n.Options[d]
			if label == "" {
				label = Dim("?")
			}
			digits = append(digits, d+":"+label)
		}
		return strings.Join(digits, " ")
	case domain.KindExtension:
		return Dim("ext=") + n.Extension
	default:
		return ""
	}
}

// orderedOptionDigits returns a menu's option digits in keypad order.
func orderedOptionDigits(options map[string]string) []string {
	keypad := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "*", "#"}
	out := make([]string, 0, len(options))
	for _, d := range keypad {
		if _, ok := options[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// FormatFindings renders validator findings, one per line.
func FormatFindings(findings []validate.Finding) string {
	if len(findings) == 0 {
		return StyleGreen.Render("✔ flow is clean")
	}
	var b strings.Builder
	for i, f := range findings {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(SeverityIndicator(f.Severity))
		b.WriteString(" ")
		if f.NodeID != "" {
			b.WriteString(Dim(f.NodeID) + " ")
		}
		b.WriteString(f.Message)
	}
	return b.String()
}

// FormatActiveCalls renders the live call table.
func FormatActiveCalls(calls []domain.ActiveCall, now time.Time) string {
	if len(calls) == 0 {
		return Dim("No active calls.")
	}
	rows := make([][]string, 0, len(calls))
	for _, c := range calls {
		dur := ""
		if !c.StartedAt.IsZero() {
			dur = FormatSeconds(int(now.Sub(c.StartedAt).Seconds()))
		}
		rows = append(rows, []string{
			c.CallID,
			Bold(c.Caller),
			c.Callee,
			callStateColor(c.State).Render(c.State),
			dur,
		})
	}
	return RenderTable([]string{"Call", "From", "To", "State", "Duration"}, rows)
}

func callStateColor(state string) lipgloss.Style {
	switch state {
	case "ringing":
		return StyleYellow
	case "up", "answered":
		return StyleGreen
	case "hold":
		return StyleBlue
	default:
		return StyleDim
	}
}

// FormatCallRecords renders the CDR table.
func FormatCallRecords(records []*domain.CallRecord) string {
	if len(records) == 0 {
		return Dim("No call records match.")
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.CallDate.Format("2006-01-02 15:04"),
			Bold(r.Source),
			r.Destination,
			FormatSeconds(r.Duration),
			FormatSeconds(r.BillSec),
			DispositionColor(r.Disposition).Render(string(r.Disposition)),
		})
	}
	return RenderTable([]string{"Date", "From", "To", "Duration", "Billed", "Disposition"}, rows)
}

// FormatCallSummary renders the dashboard counters for one tenant.
func FormatCallSummary(s *domain.CallSummary) string {
	var b strings.Builder
	b.WriteString(Header("Call Summary"))
	b.WriteString(fmt.Sprintf("\n%s %d", Dim("Total:"), s.Total))
	b.WriteString(fmt.Sprintf("\n%s %s", Dim("Answered:"), StyleGreen.Render(strconv.Itoa(s.Answered))))
	b.WriteString(fmt.Sprintf("\n%s %s", Dim("Missed:"), StyleYellow.Render(strconv.Itoa(s.Missed))))
	b.WriteString(fmt.Sprintf("\n%s %s", Dim("Avg duration:"), FormatSeconds(int(s.AvgDuration))))
	return b.String()
}

// FormatSeconds renders a second count as "1m05s" / "45s" / "1h02m".
func FormatSeconds(sec int) string {
	if sec < 0 {
		sec = 0
	}
	switch {
	case sec < 60:
		return fmt.Sprintf("%ds", sec)
	case sec < 3600:
		return fmt.Sprintf("%dm%02ds", sec/60, sec%60)
	default:
		return fmt.Sprintf("%dh%02dm", sec/3600, (sec%3600)/60)
	}
}
