package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// newField returns a focused single-line input.
func newField(label string) textinput.Model {
	in := textinput.New()
	in.Prompt = label + ": "
	in.Focus()
	return in
}

func newSecretField(label string) textinput.Model {
	in := newField(label)
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '*'
	return in
}

// form is an ordered set of inputs with exactly one focused.
type form struct {
	inputs []textinput.Model
	focus  int
}

func newForm(inputs ...textinput.Model) form {
	f := form{inputs: inputs}
	f.setFocus(0)
	return f
}

func (f *form) setFocus(i int) {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// handle moves focus on tab and arrows, and passes other keys to the
// focused input.
func (f *form) handle(k tea.KeyMsg) tea.Cmd {
	switch k.Type {
	case tea.KeyTab, tea.KeyDown:
		f.setFocus((f.focus + 1) % len(f.inputs))
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		f.setFocus((f.focus + len(f.inputs) - 1) % len(f.inputs))
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(k)
	return cmd
}

// value is the trimmed text of input i. raw keeps surrounding spaces.
func (f form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f form) raw(i int) string {
	return f.inputs[i].Value()
}

func (f *form) set(i int, v string) {
	f.inputs[i].SetValue(v)
}

func (f form) render(b *strings.Builder) {
	for i, in := range f.inputs {
		if i == f.focus {
			b.WriteString("> ")
		} else {
			b.WriteString("  ")
		}
		b.WriteString(in.View())
		b.WriteString("\n")
	}
}
