package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg(tea.Key{Type: t})
}

func TestPicker_EnterSelectsCurrent(t *testing.T) {
	m := newPickerModel([]ToolItem{
		{Name: "poorcurl"},
		{Name: "poornmap"},
	}, 80, 24)

	next, _ := m.Update(keyMsg(tea.KeyDown))
	next, _ = next.Update(keyMsg(tea.KeyEnter))

	pm := next.(pickerModel)
	if !pm.done {
		t.Fatal("enter did not finish the picker")
	}
	if pm.chosen != "poornmap" {
		t.Errorf("chosen = %q, want poornmap", pm.chosen)
	}
}

func TestPicker_EscapeChoosesNothing(t *testing.T) {
	m := newPickerModel([]ToolItem{{Name: "poorcurl"}}, 80, 24)

	next, _ := m.Update(keyMsg(tea.KeyEsc))

	pm := next.(pickerModel)
	if !pm.done {
		t.Fatal("esc did not finish the picker")
	}
	if pm.chosen != "" {
		t.Errorf("chosen = %q, want empty", pm.chosen)
	}
}
