// Package tui is the terminal front end: a device list, a scan toggle and
// the connection status line.
package tui

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chaz8081/glasslink/internal/registry"
	"github.com/chaz8081/glasslink/internal/status"
)

// Controller is the part of the session the UI drives.
type Controller interface {
	ToggleScan()
	SelectDevice(id string)
	Reset()
	Devices() iter.Seq[registry.Record]
	Status() status.View
}

// StatusMsg carries a new status snapshot into the program.
type StatusMsg status.Snapshot

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	connectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	problemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Model is the bubbletea model.
type Model struct {
	ctl  Controller
	keys keyMap
	help help.Model

	snap    status.Snapshot
	devices []registry.Record
	cursor  int
}

// New creates a Model showing ctl's current state.
func New(ctl Controller) Model {
	m := Model{ctl: ctl, keys: defaultKeyMap(), help: help.New()}
	m.refresh(ctl.Status().Current())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StatusMsg:
		m.refresh(status.Snapshot(msg))

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Scan):
			m.ctl.ToggleScan()
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.devices)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			if m.cursor < len(m.devices) {
				m.ctl.SelectDevice(m.devices[m.cursor].ID)
			}
		case key.Matches(msg, m.keys.Reset):
			m.ctl.Reset()
		}
	}
	return m, nil
}

func (m *Model) refresh(snap status.Snapshot) {
	m.snap = snap
	m.devices = slices.Collect(m.ctl.Devices())
	if m.cursor >= len(m.devices) {
		m.cursor = max(len(m.devices)-1, 0)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("glasslink"))
	b.WriteString("\n")

	style := problemStyle
	if m.snap.Status == status.StatusConnected {
		style = connectedStyle
	}
	b.WriteString("Connection status: " + style.Render(m.snap.Text()) + "\n\n")

	b.WriteString(m.scanLine() + "\n")
	if m.snap.ScanErr != "" {
		b.WriteString(problemStyle.Render("Scan failed: "+m.snap.ScanErr) + "\n")
	}
	b.WriteString("\n")

	if len(m.devices) == 0 {
		b.WriteString(dimStyle.Render("No glasses found") + "\n")
	}
	for i, d := range m.devices {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		fmt.Fprintf(&b, "%s%-20s %s\n", prefix, d.Name, dimStyle.Render(fmt.Sprintf("%s  %d dBm", d.ID, d.RSSI)))
	}

	if m.snap.Notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.snap.Notice) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) scanLine() string {
	switch {
	case m.snap.Scanning:
		return "[s] Stop scan  " + dimStyle.Render("scanning...")
	case m.snap.ScanBlocked:
		return dimStyle.Render("[s] Scan for glasses (unavailable while connecting)")
	default:
		return "[s] Scan for glasses"
	}
}
