// Package tui implements the interactive tool picker behind `poor pick`.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ToolItem is one selectable tool in the picker.
type ToolItem struct {
	Name        string
	Description string
	Version     string
}

func (i ToolItem) FilterValue() string { return i.Name }

// toolDelegate renders one tool per line.
type toolDelegate struct{}

func (toolDelegate) Height() int                             { return 1 }
func (toolDelegate) Spacing() int                            { return 0 }
func (toolDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (toolDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(ToolItem)
	if !ok {
		return
	}

	indicator := "    "
	name := normalItemStyle.Render(it.Name)
	if index == m.Index() {
		indicator = "  > "
		name = selectedItemStyle.Render(it.Name)
	}

	parts := []string{name}
	if it.Description != "" {
		parts = append(parts, mutedStyle.Render(it.Description))
	}

	_, _ = fmt.Fprint(w, indicator+strings.Join(parts, "  "))
}

// pickerModel is the standalone picker program.
type pickerModel struct {
	list   list.Model
	chosen string
	done   bool
}

func newPickerModel(tools []ToolItem, width, height int) pickerModel {
	items := make([]list.Item, len(tools))
	for i, t := range tools {
		items[i] = t
	}

	l := list.New(items, toolDelegate{}, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.SetShowPagination(false)

	return pickerModel{list: l}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-3)
		return m, nil

	case tea.KeyMsg:
		// Don't intercept keys while filtering.
		if m.list.SettingFilter() {
			break
		}

		switch msg.String() {
		case "enter":
			if it, ok := m.list.SelectedItem().(ToolItem); ok {
				m.chosen = it.Name
				m.done = true
				return m, tea.Quit
			}
		case "q", "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.done {
		return ""
	}
	return titleStyle.Render("poor") + " " +
		mutedStyle.Render("select a tool") + "\n\n" +
		m.list.View() + "\n" +
		helpStyle.Render("  enter: run  /: filter  q: quit")
}

// Pick runs the picker over the given tools and returns the chosen tool
// name, or "" when the user backed out.
func Pick(tools []ToolItem) (string, error) {
	m := newPickerModel(tools, 0, 0)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("running picker: %w", err)
	}

	pm, ok := final.(pickerModel)
	if !ok {
		return "", nil
	}
	return pm.chosen, nil
}
