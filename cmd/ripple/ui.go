package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ripple/internal/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	impactStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	report     *engine.Report
	lastUpdate time.Time
}

type updateMsg struct {
	report *engine.Report
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.report = msg.report
		m.lastUpdate = time.Now()
		m.list.SetItems(reportItems(msg.report))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func reportItems(rep *engine.Report) []list.Item {
	items := []list.Item{}
	for _, c := range rep.Cycles {
		items = append(items, item{
			title: "Dependency Cycle",
			desc:  strings.Join(c.Path, " -> "),
		})
	}
	for _, s := range rep.Suggestions {
		desc := s.File
		if s.Route != "" {
			desc += " (" + s.Route + ")"
		}
		items = append(items, item{
			title: fmt.Sprintf("[%s] Test %s", s.Priority, s.Component),
			desc:  desc + ": " + s.Reason,
		})
	}
	for _, w := range rep.Warnings {
		items = append(items, item{title: "Warning", desc: w})
	}
	return items
}

func (m model) View() string {
	if m.report == nil {
		return docStyle.Render(titleStyle("Ripple Impact Monitor") + "\n" + statusStyle.Render("waiting for first analysis..."))
	}

	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %d edges",
		m.lastUpdate.Format("15:04:05"), m.report.Summary.Files, m.report.Summary.Edges))

	var summary string
	if m.report.Summary.Cycles == 0 && m.report.Summary.AffectedFiles == 0 {
		summary = successStyle.Render("✅ No impact detected")
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s",
			cycleStyle.Render(fmt.Sprintf("%d Cycles", m.report.Summary.Cycles)),
			impactStyle.Render(fmt.Sprintf("%d Affected", m.report.Summary.AffectedFiles)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Ripple Impact Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Cycles & Suggested Test Paths"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
