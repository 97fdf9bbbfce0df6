package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/pbxdeck/pbxdeck/internal/bridge"
	"github.com/pbxdeck/pbxdeck/internal/cli/formatter"
	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/pbxdeck/pbxdeck/internal/editor"
	"github.com/pbxdeck/pbxdeck/internal/service"
	"github.com/pbxdeck/pbxdeck/internal/validate"
)

// Canvas cell size in graph units. The stored coordinates come from a
// pixel-based canvas, so one terminal cell covers several graph units.
const (
	cellUnitsX = 8
	cellUnitsY = 4
)

// canvasTop is the number of header lines above the canvas area.
const canvasTop = 2

// saveDoneMsg reports the outcome of an asynchronous save.
type saveDoneMsg struct{ err error }

// liveEventMsg carries one bridge event into the editor.
type liveEventMsg struct{ event bridge.Event }

// editorModel is the bubbletea model for the interactive flow editor.
// All graph mutation goes through the embedded editor.Controller; the
// model itself only handles presentation and input translation.
type editorModel struct {
	app  *App
	flow *domain.Flow
	ctrl *editor.Controller

	width  int
	height int

	// Property or palette form; nil when the canvas has focus.
	form     *huh.Form
	formDone func() string // applies the form's values, returns a notice or ""

	notice       string
	findings     []validate.Finding
	showFindings bool

	saving   bool
	dirty    bool
	status   string
	quitting bool

	// Live call events from the bridge; nil when no bridge is wired.
	events      chan bridge.Event
	unsubscribe func()
	activeCalls int
}

func newEditorModel(app *App, flow *domain.Flow, g *domain.Graph) editorModel {
	m := editorModel{
		app:  app,
		flow: flow,
		ctrl: editor.New(g),
	}
	if app.Bridge != nil {
		m.events = make(chan bridge.Event, 16)
		ch := m.events
		m.unsubscribe = app.Bridge.Subscribe(func(ev bridge.Event) {
			select {
			case ch <- ev:
			default: // never block the bridge's read loop
			}
		})
		app.Bridge.Connect(flow.TenantID)
	}
	return m
}

func (m editorModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent blocks on the bridge channel until the next call event.
func (m editorModel) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	ch := m.events
	return func() tea.Msg {
		return liveEventMsg{event: <-ch}
	}
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case liveEventMsg:
		switch msg.event.Type {
		case "call_started":
			m.activeCalls++
		case "call_ended":
			if m.activeCalls > 0 {
				m.activeCalls--
			}
		}
		return m, m.waitForEvent()

	case saveDoneMsg:
		m.saving = false
		switch {
		case msg.err == nil:
			m.dirty = false
			m.status = formatter.StyleGreen.Render("saved")
		case errors.Is(msg.err, service.ErrSaveInFlight):
			m.status = formatter.StyleYellow.Render("save already running")
		case errors.Is(msg.err, bridge.ErrRetryExhausted):
			m.status = formatter.StyleRed.Render("save failed, changes kept in memory")
		default:
			m.status = formatter.StyleRed.Render(fmt.Sprintf("save failed: %v", msg.err))
		}
		return m, nil

	case tea.MouseMsg:
		if m.form == nil {
			return m.handleMouse(msg)
		}

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if m.form == nil {
			return m.handleKey(msg)
		}
	}

	// A form has focus: route everything to it.
	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m editorModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	at := domain.Position{
		X: float64(msg.X * cellUnitsX),
		Y: float64((msg.Y - canvasTop) * cellUnitsY),
	}
	hit := m.hitTest(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.ctrl.PointerDown(hit, at, msg.Shift)
		}
	case tea.MouseActionMotion:
		before, _ := m.ctrl.Graph().Node(m.ctrl.SelectedID())
		m.ctrl.PointerMove(at)
		after, _ := m.ctrl.Graph().Node(m.ctrl.SelectedID())
		if before.Position != after.Position {
			m.dirty = true
		}
	case tea.MouseActionRelease:
		if msg.Button == tea.MouseButtonLeft {
			edges := m.ctrl.Graph().ConnectionCount()
			m.ctrl.PointerUp(hit)
			if m.ctrl.Graph().ConnectionCount() != edges {
				m.dirty = true
			}
		}
	}
	m.pickUpNotice()
	return m, nil
}

func (m editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, editorKeys.Quit):
		return m.quit()

	case key.Matches(msg, editorKeys.Add):
		return m.openAddForm()

	case key.Matches(msg, editorKeys.Edit):
		if m.ctrl.SelectedID() != "" {
			return m.openEditForm()
		}

	case key.Matches(msg, editorKeys.Delete):
		nodes := m.ctrl.Graph().NodeCount()
		m.ctrl.DeleteSelected()
		if m.ctrl.Graph().NodeCount() != nodes {
			m.dirty = true
		}
		m.pickUpNotice()

	case key.Matches(msg, editorKeys.Validate):
		m.showFindings = !m.showFindings
		if m.showFindings {
			m.findings = m.app.Flows.Validate(m.ctrl.Graph())
		}

	case key.Matches(msg, editorKeys.Save):
		if m.saving {
			return m, nil
		}
		m.saving = true
		m.status = formatter.Dim("saving…")
		app, flowID, g := m.app, m.flow.ID, m.ctrl.Graph()
		return m, func() tea.Msg {
			return saveDoneMsg{err: app.Flows.Save(context.Background(), flowID, g)}
		}
	}
	return m, nil
}

func (m editorModel) quit() (tea.Model, tea.Cmd) {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.app.Bridge.Disconnect()
	}
	m.quitting = true
	return m, tea.Quit
}

// pickUpNotice moves the controller's transient notice into the footer.
func (m *editorModel) pickUpNotice() {
	if n := m.ctrl.TakeNotice(); n != "" {
		m.notice = n
	}
}

// ── property forms ───────────────────────────────────────────────────────────

func (m editorModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.form = nil
		m.formDone = nil
		return m, nil
	}

	updated, cmd := m.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		if m.formDone != nil {
			if n := m.formDone(); n != "" {
				m.notice = n
			} else {
				m.dirty = true
			}
		}
		m.form = nil
		m.formDone = nil
		m.pickUpNotice()
	}
	return m, cmd
}

// openAddForm shows the node palette.
func (m editorModel) openAddForm() (tea.Model, tea.Cmd) {
	kind := string(domain.KindGreeting)
	m.form = newPaletteForm(&kind)
	m.formDone = func() string {
		// Drop new nodes a bit away from the entry point.
		at := domain.Position{
			X: 100 + float64(20*m.ctrl.Graph().NodeCount()),
			Y: 150,
		}
		if _, err := m.ctrl.AddNode(domain.NodeKind(kind), at); err != nil {
			return fmt.Sprintf("cannot add node: %v", err)
		}
		return ""
	}
	return m, m.form.Init()
}

// openEditForm shows the kind-specific property form for the selection.
func (m editorModel) openEditForm() (tea.Model, tea.Cmd) {
	n, ok := m.ctrl.Graph().Node(m.ctrl.SelectedID())
	if !ok {
		return m, nil
	}
	fields := newNodeFields(n)
	m.form = newNodeForm(n.Kind, fields)
	m.formDone = func() string {
		if err := m.ctrl.UpdateSelected(fields.patch()); err != nil {
			return fmt.Sprintf("edit rejected: %v", err)
		}
		return ""
	}
	return m, m.form.Init()
}
