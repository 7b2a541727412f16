package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/duckuio/ducku-cli/internal/core/ports"
)

var (
	uiTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	uiDeadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	uiEntryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

type findingItem struct {
	project string
	finding ports.Finding
}

func (i findingItem) Title() string {
	style := uiDeadStyle
	if i.finding.Classification == ports.LikelyEntryPoint {
		style = uiEntryStyle
	}
	return fmt.Sprintf("%s %s", style.Render("●"), i.finding.Path)
}

func (i findingItem) Description() string {
	return fmt.Sprintf("%s · %s · %s", i.project, i.finding.Language, i.finding.Classification)
}

func (i findingItem) FilterValue() string { return i.finding.Path }

type browserModel struct {
	list list.Model
}

func (m browserModel) Init() tea.Cmd { return nil }

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browserModel) View() string {
	return m.list.View()
}

// browseFindings opens an interactive list over all findings. With nothing to
// show it prints a line and returns instead of opening an empty UI.
func browseFindings(results []*ports.Result) error {
	var items []list.Item
	for _, result := range results {
		for _, f := range result.Findings {
			items = append(items, findingItem{project: result.Project, finding: f})
		}
	}
	if len(items) == 0 {
		fmt.Println(uiTitleStyle.Render("no unused modules"))
		return nil
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("ducku · %d unused module(s)", len(items))
	l.Styles.Title = uiTitleStyle

	_, err := tea.NewProgram(browserModel{list: l}, tea.WithAltScreen()).Run()
	return err
}
