package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/casperflow/pkg/editor"
)

func browserGraph() editor.Graph {
	return editor.Graph{
		Modules: []editor.Module{
			{ID: 0, Name: "src", Outputs: []editor.Port{{ID: 0, Name: "a"}}},
			{ID: 1, Name: "not", Inputs: []editor.Port{{ID: 1, Name: "A"}}, Outputs: []editor.Port{{ID: 2, Name: "Y"}}},
			{ID: 2, Name: "sink", Inputs: []editor.Port{{ID: 3, Name: "x"}}},
		},
		Wires: []editor.Wire{{ID: 0, X: 1, Y: 0}},
	}
}

func press(m tea.Model, key string) tea.Model {
	var msg tea.KeyMsg
	switch key {
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, _ = m.Update(msg)
	return m
}

func TestModuleBrowserNavigation(t *testing.T) {
	var m tea.Model = NewModuleBrowserModel(browserGraph())

	m = press(m, "down")
	m = press(m, "j")
	m = press(m, "down") // clamps at the last module
	if got := m.(ModuleBrowserModel).Cursor; got != 2 {
		t.Fatalf("Cursor = %d, want 2", got)
	}
	m = press(m, "g")
	if got := m.(ModuleBrowserModel).Cursor; got != 0 {
		t.Errorf("Cursor after g = %d, want 0", got)
	}
	m = press(m, "up")
	if got := m.(ModuleBrowserModel).Cursor; got != 0 {
		t.Errorf("Cursor after up at top = %d, want 0", got)
	}
	m = press(m, "G")
	if got := m.(ModuleBrowserModel).Cursor; got != 2 {
		t.Errorf("Cursor after G = %d, want 2", got)
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q did not quit")
	}
}

func TestModuleBrowserScrolls(t *testing.T) {
	m := NewModuleBrowserModel(browserGraph())
	m.Height = 1
	var model tea.Model = m
	model = press(model, "down")
	if got := model.(ModuleBrowserModel).Offset; got != 1 {
		t.Errorf("Offset = %d, want 1", got)
	}
}

func TestModuleBrowserView(t *testing.T) {
	var m tea.Model = NewModuleBrowserModel(browserGraph())
	m = press(m, "down")

	view := m.View()
	for _, want := range []string{"not", "src.a", "[2/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
